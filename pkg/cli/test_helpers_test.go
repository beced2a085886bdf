package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout to a pipe and returns a function
// that restores stdout and returns the captured output.
// Uses a goroutine to read concurrently, avoiding pipe buffer deadlocks.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	// Read concurrently to avoid pipe buffer deadlock on large outputs
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	return func() string {
		_ = w.Close()
		<-done
		os.Stdout = old
		return buf.String()
	}
}

// isolateEnv clears the variables the CLI reads so host settings do not leak
// into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "ENV", "ANALYTICS_OUTPUT", "ANALYTICS_PLACEHOLDER",
		"ANALYTICS_DEFAULT_LIMIT", "ANALYTICS_MAX_LIMIT", "ANALYTICS_BATCH_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

// runCLI executes the root command with args and returns what it wrote to stdout.
// A missing .env file in a temp dir is passed unless args set --env-file.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var errBuf bytes.Buffer
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))

	full := append([]string{}, args...)
	if !containsArg(args, "--env-file") {
		full = append(full, "--env-file", filepath.Join(t.TempDir(), ".env"))
	}
	cmd.SetArgs(full)

	restore := captureStdout(t)
	err := cmd.Execute()
	return restore(), err
}

func containsArg(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

// writeFile writes content to name inside a temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
