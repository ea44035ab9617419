package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/minigrep/internal/search"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	w := zerolog.ConsoleWriter{Out: &buf, NoColor: true, PartsOrder: []string{zerolog.MessageFieldName}}
	log.Logger = zerolog.New(w).Level(zerolog.InfoLevel)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func writeExample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "example.txt")
	content := "# test_data.txt\nThis is a Rust Rover file.\nnothing here\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write example: %v", err)
	}
	return p
}

func runApp(t *testing.T, cfg Config) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg.Stdout = &out
	if cfg.Executable == "" {
		cfg.Executable = "minigrep"
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = a.Run(context.Background())
	return out.String(), err
}

func TestRun_FoundWithoutIgnoreCase(t *testing.T) {
	logs := captureLog(t)
	file := writeExample(t)
	out, err := runApp(t, Config{Args: []string{"Rust", file}, Lookup: Env{}.Lookup})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "The file '" + file + "' contains these lines with the case sensitive pattern 'Rust':\n2: This is a Rust Rover file.\n"
	if out != want {
		t.Fatalf("stdout=%q, want %q", out, want)
	}
	wantLog := "Error during the get of the variable 'IGNORE_CASE'. The error: 'environment variable not found'.\n"
	if logs.String() != wantLog {
		t.Fatalf("stderr=%q, want %q", logs.String(), wantLog)
	}
}

func TestRun_IgnoreCaseFromEnv(t *testing.T) {
	logs := captureLog(t)
	file := writeExample(t)
	out, err := runApp(t, Config{Args: []string{"rUsT", file}, Lookup: Env{EnvIgnoreCase: "TrUe"}.Lookup})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out, "The file '"+file+"' contains these lines with the case insensitive pattern 'rUsT':\n") {
		t.Fatalf("unexpected stdout %q", out)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %q", logs.String())
	}
}

func TestRun_NoMatch(t *testing.T) {
	captureLog(t)
	file := writeExample(t)
	out, err := runApp(t, Config{Args: []string{"pattern", file}, Lookup: Env{EnvIgnoreCase: "0"}.Lookup})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "The file '" + file + "' does not contain any line with the case sensitive pattern 'pattern'.\n"
	if out != want {
		t.Fatalf("stdout=%q, want %q", out, want)
	}
}

func TestRun_ValidationErrorsCarryExitCodes(t *testing.T) {
	logs := captureLog(t)
	file := writeExample(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing", []string{"Rust"}, 126},
		{"too many", []string{"a", "b", "c"}, 127},
		{"blank", []string{"  ", file}, 130},
		{"directory", []string{"Rust", filepath.Dir(file)}, 131},
		{"not found", []string{"Rust", file + ".missing"}, 132},
	}
	for _, tc := range tests {
		out, err := runApp(t, Config{Args: tc.args, Lookup: Env{EnvIgnoreCase: "1"}.Lookup})
		code, ok := search.ExitCode(err)
		if !ok || code != tc.code {
			t.Errorf("%s: exit code=%d,%v want %d (err=%v)", tc.name, code, ok, tc.code, err)
		}
		if out != "" {
			t.Errorf("%s: stdout should be empty, got %q", tc.name, out)
		}
	}
	if logs.Len() != 0 {
		t.Fatalf("validation errors are returned, not logged: %q", logs.String())
	}
}

// The env diagnostic is not emitted when the argument count is wrong.
func TestRun_ArityErrorSkipsEnvLookup(t *testing.T) {
	logs := captureLog(t)
	_, err := runApp(t, Config{Lookup: Env{}.Lookup})
	if code, _ := search.ExitCode(err); code != search.CodeMissing {
		t.Fatalf("err=%v, want missing arguments", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %q", logs.String())
	}
}

func TestRun_JSONAndPDF(t *testing.T) {
	captureLog(t)
	file := writeExample(t)
	pdf := filepath.Join(t.TempDir(), "out.pdf")
	out, err := runApp(t, Config{
		Args:          []string{"Rust", file},
		Format:        "json",
		OutputPDFPath: pdf,
		Lookup:        Env{EnvIgnoreCase: "0"}.Lookup,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, `"count": 1`) {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if fi, err := os.Stat(pdf); err != nil || fi.Size() == 0 {
		t.Fatalf("expected pdf file, err=%v", err)
	}
}

func TestRun_PDFFailureIsReported(t *testing.T) {
	captureLog(t)
	file := writeExample(t)
	_, err := runApp(t, Config{
		Args:          []string{"Rust", file},
		OutputPDFPath: filepath.Join(t.TempDir(), "no", "such", "dir.pdf"),
		Lookup:        Env{EnvIgnoreCase: "0"}.Lookup,
	})
	if err == nil {
		t.Fatalf("expected pdf error")
	}
	if _, ok := search.ExitCode(err); ok {
		t.Fatalf("pdf failure is not a validation error: %v", err)
	}
}

func TestRun_DotenvSuppliesIgnoreCase(t *testing.T) {
	logs := captureLog(t)
	file := writeExample(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("IGNORE_CASE=1\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	out, err := runApp(t, Config{Args: []string{"rust", file}, EnvFiles: []string{envFile}, Lookup: Env{}.Lookup})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "2: This is a Rust Rover file.") {
		t.Fatalf("dotenv IGNORE_CASE not honoured: %q", out)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %q", logs.String())
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(context.Background(), Config{Format: "yaml"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	a, err := New(context.Background(), Config{Stdout: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("no /proc/self/fd: %v", err)
	}
	return len(entries)
}

// Run closes the searched file itself; no App-level cleanup is needed.
func TestRun_ReleasesFileHandle(t *testing.T) {
	captureLog(t)
	file := writeExample(t)
	before := openFDs(t)
	for i := 0; i < 3; i++ {
		if _, err := runApp(t, Config{Args: []string{"Rust", file}, Lookup: Env{EnvIgnoreCase: "0"}.Lookup}); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if after := openFDs(t); after != before {
		t.Fatalf("open descriptors %d -> %d, file handle leaked", before, after)
	}
}
