package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("plain message")
	log.WarnWithFields("with fields", map[string]interface{}{"channel": "@x"})

	if !log.HasMessage("plain message") {
		t.Error("expected plain message to be captured")
	}
	warns := log.MessagesByLevel("WARN")
	if len(warns) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warns))
	}
	if warns[0].Fields["channel"] != "@x" {
		t.Errorf("Fields = %v", warns[0].Fields)
	}
}

func TestTestLoggerBoundContext(t *testing.T) {
	log := NewTestLogger()
	cause := errors.New("boom")

	log.WithField("channel", "@y").WithError(cause).Error("scrape failed")

	msgs := log.MessagesByLevel("ERROR")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 error message, got %d", len(msgs))
	}
	if msgs[0].Fields["channel"] != "@y" {
		t.Errorf("Fields = %v", msgs[0].Fields)
	}
	if msgs[0].Error != cause {
		t.Errorf("Error = %v, want the bound cause", msgs[0].Error)
	}
}

func TestInitializeLogFile(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	if err := Initialize(true, first); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	GetLogger().Warn("goes to the first file")

	// Re-initializing releases the previous file handle and switches output.
	if err := Initialize(true, second); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	GetLogger().Warn("goes to the second file")
	if err := Initialize(false, ""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read first log file: %v", err)
	}
	if !strings.Contains(string(data), "goes to the first file") {
		t.Errorf("first file missing its message: %q", data)
	}

	data, err = os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second log file: %v", err)
	}
	if !strings.Contains(string(data), "goes to the second file") {
		t.Errorf("second file missing its message: %q", data)
	}
	if strings.Contains(string(data), "goes to the first file") {
		t.Errorf("second file carries the first file's message: %q", data)
	}
}

func TestGetLoggerNeverNil(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("expected a default logger")
	}
}

func TestSetLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	replacement := NewTestLogger()
	SetLogger(replacement)
	if GetLogger() != Logger(replacement) {
		t.Error("expected the replacement logger to be returned")
	}
}
