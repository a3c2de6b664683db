package rehearse

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DebugLogger provides debug logging for scheduling operations. When
// enabled, it records clock skew events and degraded-mode fallbacks with
// the invariant that triggered them.
type DebugLogger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
}

// NewDebugLogger creates a new debug logger.
// If logPath is empty, logs to stderr.
func NewDebugLogger(enabled bool, logPath string) (*DebugLogger, error) {
	var writer io.Writer = os.Stderr

	if enabled && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		writer = f
	}

	return &DebugLogger{
		enabled: enabled,
		writer:  writer,
	}, nil
}

// Close closes the debug logger if it's writing to a file.
func (l *DebugLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if closer, ok := l.writer.(io.Closer); ok && l.writer != os.Stderr {
		return closer.Close()
	}
	return nil
}

// Log writes a debug message if logging is enabled.
func (l *DebugLogger) Log(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.writer, "[%s] [REHEARSE DEBUG] %s\n", timestamp, msg)
}

// LogClockSkew records a review submitted with a timestamp before the
// card's last review. The review proceeds with elapsedDays = 0.
func (l *DebugLogger) LogClockSkew(cardID string, now, lastReview time.Time) {
	l.Log("CLOCK SKEW card=%s now=%s last_review=%s (treated as elapsed=0)",
		cardID, now.Format(time.RFC3339), lastReview.Format(time.RFC3339))
}

// LogFallback records a degraded-mode linear reschedule and the invariant
// that forced it.
func (l *DebugLogger) LogFallback(cardID string, invariant string, detail string) {
	l.Log("DEGRADED card=%s invariant=%s detail=%s (linear reschedule applied)",
		cardID, invariant, detail)
}
