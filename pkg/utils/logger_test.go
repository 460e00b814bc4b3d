package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// ============================================================
// Тесты InitLogger
// ============================================================

func TestInitLogger_Defaults(t *testing.T) {
	// Пустая конфигурация - применяются значения по умолчанию
	logger := InitLogger(LogConfig{})

	if logger == nil {
		t.Fatal("InitLogger returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
	if logger.Sugar() == nil {
		t.Fatal("Logger.Sugar() is nil")
	}
}

func TestInitLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		t.Run("format_"+format, func(t *testing.T) {
			logger := InitLogger(LogConfig{Level: "info", Format: format})
			if logger == nil {
				t.Fatal("InitLogger returned nil")
			}
		})
	}
}

func TestInitLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")

	logger := InitLogger(LogConfig{Output: path})
	logger.Sugar().Infow("test entry", "key", "value")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "test entry") {
		t.Errorf("expected log entry in file, got: %s", data)
	}
}

func TestInitLogger_InvalidFileFallsBackToStderr(t *testing.T) {
	// Недоступный путь не должен ронять инициализацию
	logger := InitLogger(LogConfig{Output: "/nonexistent-dir/monitor.log"})
	if logger == nil {
		t.Fatal("InitLogger returned nil on invalid output path")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"INFO", zapcore.InfoLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ============================================================
// Тесты глобального логгера
// ============================================================

func TestGlobalLogger(t *testing.T) {
	t.Run("lazy default", func(t *testing.T) {
		SetGlobalLogger(nil)
		if L() == nil {
			t.Fatal("expected lazy default global logger")
		}
	})

	t.Run("init and get", func(t *testing.T) {
		logger := InitGlobalLogger(LogConfig{Level: "debug"})
		if GetGlobalLogger() != logger {
			t.Error("expected global logger set by InitGlobalLogger")
		}
	})

	t.Run("with helpers", func(t *testing.T) {
		logger := InitLogger(LogConfig{})
		if logger.WithComponent("engine") == nil {
			t.Error("WithComponent returned nil")
		}
		if logger.WithAccount("acc-1") == nil {
			t.Error("WithAccount returned nil")
		}
	})
}
