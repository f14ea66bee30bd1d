package logger

import "testing"

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	if err := InitLogger("verbose"); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestInitLoggerAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "off"} {
		if err := InitLogger(level); err != nil {
			t.Fatalf("InitLogger(%q): %v", level, err)
		}
		if GetLogger() == nil {
			t.Fatalf("GetLogger() returned nil after InitLogger(%q)", level)
		}
	}
}

func TestGetLoggerDefaultsBeforeInit(t *testing.T) {
	globalLogger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger() should fall back to slog.Default()")
	}
}
