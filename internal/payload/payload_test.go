package payload

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 100, blockSize - 1, blockSize, blockSize + 1, 3*blockSize + 7}
	for _, size := range sizes {
		content := make([]byte, size)
		if _, err := rand.Read(content); err != nil {
			t.Fatalf("rand.Read failed: %v", err)
		}

		p, err := Wrap(content, "data.bin", "application/octet-stream", int64(size))
		if err != nil {
			t.Fatalf("Wrap(%d bytes) failed: %v", size, err)
		}
		if p.SizeBytes != int64(size) {
			t.Errorf("SizeBytes = %d, want %d", p.SizeBytes, size)
		}

		text, err := p.Marshal()
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		f, err := Unwrap(text)
		if err != nil {
			t.Fatalf("Unwrap(%d bytes) failed: %v", size, err)
		}
		if !bytes.Equal(f.Content, content) {
			t.Errorf("round trip of %d bytes did not reproduce content", size)
		}
		if f.Name != "data.bin" || f.MimeType != "application/octet-stream" {
			t.Errorf("metadata = %q/%q, want data.bin/application/octet-stream", f.Name, f.MimeType)
		}
	}
}

func TestWrap_JSONShape(t *testing.T) {
	p, err := Wrap([]byte("hello"), "hello.txt", "text/plain", 5)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	text, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	want := map[string]any{
		"name":    "hello.txt",
		"type":    "text/plain",
		"size":    float64(5),
		"content": "aGVsbG8=",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestWrap_DetectsMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	p, err := Wrap(png, "pixel.png", "", int64(len(png)))
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if p.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", p.MimeType)
	}

	p, err = Wrap([]byte("just some words\n"), "notes.txt", "", 16)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if p.MimeType != "text/plain" {
		t.Errorf("MimeType = %q, want text/plain", p.MimeType)
	}
}

func TestWrap_Errors(t *testing.T) {
	if _, err := Wrap([]byte("x"), "", "text/plain", 1); !errors.Is(err, kerrors.ErrCodec) {
		t.Errorf("empty name: expected ErrCodec, got %v", err)
	}
	if _, err := Wrap([]byte("x"), "a", "text/plain", -1); !errors.Is(err, kerrors.ErrCodec) {
		t.Errorf("negative size: expected ErrCodec, got %v", err)
	}
	if _, err := Wrap([]byte("abc"), "a", "text/plain", 10); !errors.Is(err, kerrors.ErrCodec) {
		t.Errorf("size mismatch: expected ErrCodec, got %v", err)
	}
}

func TestWrapReader_ReadError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("disk gone")))
	if _, err := WrapReader(r, "a.txt", "text/plain", 0); !errors.Is(err, kerrors.ErrCodec) {
		t.Errorf("expected ErrCodec, got %v", err)
	}
}

func TestWrapReader_DeclaredSizeBeyondInput(t *testing.T) {
	readers := map[string]io.Reader{
		"sized reader":   strings.NewReader("hi"),
		"unsized reader": iotest.OneByteReader(strings.NewReader("hi")),
	}
	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			if _, err := WrapReader(r, "a.txt", "text/plain", math.MaxInt64); !errors.Is(err, kerrors.ErrCodec) {
				t.Errorf("expected ErrCodec, got %v", err)
			}
		})
	}
}

func TestWrapReader_DefaultsMimeType(t *testing.T) {
	p, err := WrapReader(strings.NewReader("abc"), "a", "", 3)
	if err != nil {
		t.Fatalf("WrapReader failed: %v", err)
	}
	if p.MimeType != DefaultMimeType {
		t.Errorf("MimeType = %q, want %q", p.MimeType, DefaultMimeType)
	}
}

func TestUnwrap_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "definitely not json"},
		{"json array", `["a","b"]`},
		{"missing content", `{"name":"a.txt","type":"text/plain","size":1}`},
		{"missing name", `{"type":"text/plain","size":1,"content":"YQ=="}`},
		{"empty name", `{"name":"","content":"YQ=="}`},
		{"bad base64", `{"name":"a.txt","content":"!!!!"}`},
		{"wrong field type", `{"name":"a.txt","size":"big","content":"YQ=="}`},
		{"size mismatch", `{"name":"a.txt","size":5,"content":"YQ=="}`},
		{"negative size", `{"name":"a.txt","size":-5,"content":"YQ=="}`},
		{"size beyond content", `{"name":"a.txt","type":"text/plain","size":9000000000000000000,"content":"aGk="}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unwrap(tt.input); !errors.Is(err, kerrors.ErrCodec) {
				t.Errorf("expected ErrCodec, got %v", err)
			}
		})
	}
}

func TestUnwrap_DefaultsMimeType(t *testing.T) {
	f, err := Unwrap(`{"name":"a.bin","content":"YWJj"}`)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}
	if f.MimeType != DefaultMimeType {
		t.Errorf("MimeType = %q, want %q", f.MimeType, DefaultMimeType)
	}
	if string(f.Content) != "abc" {
		t.Errorf("Content = %q, want abc", f.Content)
	}
}

func TestUnwrap_LegacyPayload(t *testing.T) {
	// Shape written by the browser client: size may be omitted or zero.
	f, err := Unwrap(`{"name":"photo.jpg","type":"image/jpeg","size":0,"content":"/9j/"}`)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}
	if f.Name != "photo.jpg" || f.MimeType != "image/jpeg" {
		t.Errorf("metadata = %q/%q", f.Name, f.MimeType)
	}
	if !bytes.Equal(f.Content, []byte{0xff, 0xd8, 0xff}) {
		t.Errorf("Content = %x, want ffd8ff", f.Content)
	}
}
