package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")
	rec := NewRecorder(NewFileBackend(path))

	if err := rec.Record(Entry{Operation: OpEncrypt, KeyID: "k1", Chunks: 3, Bytes: 500, Success: true}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := rec.Record(Entry{Operation: OpDecrypt, KeyID: "k1", Success: false, Error: "decryption failed"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// A fresh recorder sees the persisted ring.
	entries, err := NewRecorder(NewFileBackend(path)).Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != OpDecrypt || entries[0].Error != "decryption failed" {
		t.Errorf("Unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Chunks != 3 || entries[1].Bytes != 500 {
		t.Errorf("Unexpected oldest entry: %+v", entries[1])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected mode 0600, got %o", perm)
	}
}

func TestFileBackend_OneJSONObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	backend := NewFileBackend(path)

	if err := backend.Save([]Entry{{Operation: OpSign}, {Operation: OpVerify}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Errorf("Line is not valid JSON: %v", err)
		}
	}
}

func TestFileBackend_OmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := NewFileBackend(path).Save([]Entry{{Operation: OpGenerate, Success: true}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	line := string(data)
	for _, field := range []string{`"file"`, `"error"`, `"chunks"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
	if !strings.Contains(line, `"success":true`) {
		t.Errorf("success should always be present, got %s", line)
	}
}

func TestFileBackend_MissingFile(t *testing.T) {
	entries, err := NewFileBackend(filepath.Join(t.TempDir(), "none.jsonl")).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","op":"encrypt","success":true}
{"ts":"2024-01-15T10:35:00.456789Z","op":"decrypt","success":false}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != OpEncrypt || entries[1].Operation != OpDecrypt {
		t.Errorf("Unexpected operations: %s, %s", entries[0].Operation, entries[1].Operation)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","op":"encrypt"}
this is not valid json
{"ts":"2024-01-15T10:35:00.456789Z","op":"decrypt"}`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}
