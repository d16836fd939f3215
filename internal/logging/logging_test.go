package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestTimestampWriter(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tw := &timestampWriter{w: &buf, now: func() time.Time { return fixed }}

	if _, err := tw.Write([]byte("first line\nsecond ")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := buf.String(); got != "2024-03-01T12:00:00Z first line\n" {
		t.Fatalf("unexpected output after partial write: %q", got)
	}
	if _, err := tw.Write([]byte("part\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	want := "2024-03-01T12:00:00Z first line\n2024-03-01T12:00:00Z second part\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
		ok   bool
	}{
		{"debug", log.DebugLevel, true},
		{"", log.InfoLevel, true},
		{"WARNING", log.WarnLevel, true},
		{"error", log.ErrorLevel, true},
		{"loud", log.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewWithLogFile(t *testing.T) {
	dir := t.TempDir()
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	if err != nil {
		t.Fatalf("create stderr stand-in: %v", err)
	}
	defer stderr.Close()
	logPath := filepath.Join(dir, "run.log")

	logger, closeFn, err := New(Options{Stderr: stderr, LogFile: logPath, Level: "warn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "line", "chrX:1-3")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", got)
	}
	if !strings.Contains(got, "shown") || !strings.Contains(got, "chrX:1-3") {
		t.Fatalf("expected warning in log file, got %q", got)
	}
}

func TestNewVerboseOverridesLevel(t *testing.T) {
	stderr, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	if err != nil {
		t.Fatalf("create stderr stand-in: %v", err)
	}
	defer stderr.Close()
	logger, _, err := New(Options{Stderr: stderr, Level: "error", Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", logger.GetLevel())
	}
}
