package schemalogic

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/speakeasy-api/schemalogic/logic"
)

// LogLevel represents the severity level for logs.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelWarn // default
	}
}

// Logger is the interface used by the engine for logging.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// formatLine renders one log line: [LEVEL] ts msg
func formatLine(ts time.Time, level LogLevel, msg string) []byte {
	var b strings.Builder
	b.Grow(len(msg) + 48)
	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(ts.UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(msg)
	b.WriteByte('\n')
	return []byte(b.String())
}

// defaultLogger writes lines at or above its level. It is safe for
// concurrent use so one logger can serve several queries.
type defaultLogger struct {
	out   io.Writer
	level LogLevel
	mu    sync.Mutex
}

// NewLogger creates a default logger with the given level.
// If w is nil, os.Stderr is used.
func NewLogger(level LogLevel, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &defaultLogger{out: w, level: level}
}

func (l *defaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *defaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *defaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *defaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *defaultLogger) logf(level LogLevel, format string, args ...any) {
	if level > l.level {
		return
	}
	line := formatLine(time.Now(), level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// newQueryLogger picks the logger for a query from its options.
func newQueryLogger(opts Options) Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	if opts.LogLevel != "" {
		return NewLogger(ParseLogLevel(opts.LogLevel), nil)
	}
	return noopLogger{}
}

// conjunctionSummary renders a conjunction on one line, truncated to limit
// literals.
func conjunctionSummary(c logic.Conjunction, limit int) string {
	if len(c) == 0 {
		return "true"
	}
	items := make([]string, len(c))
	for i, l := range c {
		items[i] = l.String()
	}
	return truncateList(items, limit)
}

// truncateList joins items with "," and appends +N if truncated.
func truncateList(items []string, max int) string {
	if max <= 0 || len(items) <= max {
		return strings.Join(items, ",")
	}
	head := items[:max]
	return strings.Join(head, ",") + fmt.Sprintf(",+%d", len(items)-max)
}
