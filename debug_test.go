package rehearse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDebugLogger_WritesToFile verifies enabled loggers append structured
// lines to the configured file.
func TestDebugLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := NewDebugLogger(true, path)
	if err != nil {
		t.Fatalf("NewDebugLogger failed: %v", err)
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	logger.LogClockSkew("card-1", now, now.Add(time.Hour))
	logger.LogFallback("card-2", "stability", "-1 outside (0, 36500]")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "CLOCK SKEW card=card-1") {
		t.Errorf("missing clock skew entry in %q", out)
	}
	if !strings.Contains(out, "DEGRADED card=card-2 invariant=stability") {
		t.Errorf("missing fallback entry in %q", out)
	}
}

// TestDebugLogger_DisabledWritesNothing verifies a disabled logger never
// creates the file.
func TestDebugLogger_DisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := NewDebugLogger(false, path)
	if err != nil {
		t.Fatalf("NewDebugLogger failed: %v", err)
	}
	logger.LogFallback("card-1", "difficulty", "11 outside [1, 10]")
	logger.Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled logger should not create the log file")
	}
}

// TestDebugLogger_NilSafe verifies a nil logger is a no-op.
func TestDebugLogger_NilSafe(t *testing.T) {
	var logger *DebugLogger
	logger.Log("should not panic")
	if err := logger.Close(); err != nil {
		t.Errorf("nil Close = %v", err)
	}
}
