package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", Logger.GetLevel())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestNewWritesPrefixedOutput(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, log.InfoLevel, false)
	t.Cleanup(func() { Logger = nil })

	Info("habit completed", "habit_id", "abc")
	Debug("filtered out")

	out := buf.String()
	if !strings.Contains(out, "habitown") {
		t.Errorf("expected prefix in output, got %q", out)
	}
	if !strings.Contains(out, "habit_id=abc") {
		t.Errorf("expected key/value in output, got %q", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Errorf("debug message should be filtered at info level: %q", out)
	}
}
