package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
)

// setupTestHome points rsakit at a fresh temporary home directory.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(configs.HomeEnvVar, home)

	original := configs.UserRsakitSettings
	configs.UserRsakitSettings = configs.DefaultUserSettings()
	t.Cleanup(func() {
		configs.UserRsakitSettings = original
		ResetGlobalState()
	})
	return home
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	drain := func(r io.Reader) {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outputChan <- buf.String()
	}
	go drain(stdoutReader)
	go drain(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// runCLI executes the real command tree with args and stdin. It returns the
// command's own output and anything printed directly to the process streams.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	ResetGlobalState()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	RootCmd.SetArgs(args)

	printed, err := captureOutput(func() error {
		return RootCmd.Execute()
	})
	return out.String(), printed, err
}

// mustRun fails the test if the command returns an error.
func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, printed, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("rsakit %s failed: %v\noutput: %s%s", strings.Join(args, " "), err, out, printed)
	}
	return out
}

// generateTestKey stores a fast 1024-bit key under label.
func generateTestKey(t *testing.T, label string) string {
	t.Helper()
	out := mustRun(t, "", "keys", "generate", "--bits", "1024", "--label", label)
	if !strings.Contains(out, "BEGIN PUBLIC KEY") {
		t.Fatalf("Expected public key in output, got: %s", out)
	}
	return strings.TrimSpace(out)
}
