package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseLevel(tc.in); got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calplan.log")
	logger, err := New(Config{Level: "info", Format: "json", Output: OutputFile, File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hello from test")
	logger.Debug("filtered out")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello from test"`) {
		t.Errorf("expected JSON message in log, got %s", data)
	}
	if strings.Contains(string(data), "filtered out") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestNew_NoneOutput(t *testing.T) {
	logger, err := New(Config{Output: OutputNone})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(Config{Output: OutputFile}); err == nil {
		t.Error("expected error for file output without a path")
	}
	if _, err := New(Config{Output: "syslog"}); err == nil {
		t.Error("expected error for unknown output")
	}
}
