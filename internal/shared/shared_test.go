package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("With Custom Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("With Nil Writer", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger to be created")
		}
	})

	t.Run("WithLogger Adds Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")

		logger.Info("tagged")
		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "test") {
			t.Errorf("expected key-value pair in output, got %q", out)
		}
	})

	t.Run("SetLogLevel Filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)

		logger.Info("quiet")
		if strings.Contains(buf.String(), "quiet") {
			t.Error("expected info message to be filtered at error level")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("Creates Parent Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "app.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger == nil {
			t.Fatal("expected logger to be created")
		}

		logger.Info("to file")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected log file to exist: %v", err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if id == "" {
		t.Fatal("expected non-empty ID")
	}

	other := GenerateID()
	if id == other {
		t.Error("expected IDs to be unique")
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{300, "5:00"},
		{299, "4:59"},
		{61, "1:01"},
		{60, "1:00"},
		{9, "0:09"},
		{0, "0:00"},
		{-5, "0:00"},
	}

	for _, tc := range cases {
		if got := FormatCountdown(tc.seconds); got != tc.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
