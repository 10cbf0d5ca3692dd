// internal/debug/debug_test.go
package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	ctx := context.Background()
	if IsEnabled(ctx) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestWithDebug_Disabled(t *testing.T) {
	ctx := WithDebug(context.Background(), false)
	if IsEnabled(ctx) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
}

func TestSetupLogger_DebugEnabled(t *testing.T) {
	logger := SetupLogger(true)

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(true) should enable debug level logging")
	}
	if logger != slog.Default() {
		t.Error("SetupLogger should install the returned logger as default")
	}
}

func TestSetupLogger_DebugDisabled(t *testing.T) {
	SetupLogger(false)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(false) should disable debug level logging")
	}
	if slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("SetupLogger(false) should hide retry info logs")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("SetupLogger(false) should enable warn level logging")
	}
}

func TestNewLogger_RendersCritical(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Log(context.Background(), LevelCritical, "retries exhausted", "attempts", 4)

	out := buf.String()
	if !strings.Contains(out, "level=CRITICAL") {
		t.Errorf("expected CRITICAL level, got %q", out)
	}
	if !strings.Contains(out, "attempts=4") {
		t.Errorf("expected attrs, got %q", out)
	}
}

func TestNewLogger_KeepsStandardLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Error("boom")
	logger.Info("attempt 1 failed, retrying")

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "level=INFO") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "CRITICAL") {
		t.Errorf("standard levels should not be renamed: %q", out)
	}
}
