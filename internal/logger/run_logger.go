package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLogger writes an optimization run's audit trail to a dated log file.
// A nil RunLogger is valid and discards everything, so callers can wire
// logging in without nil checks at every call site.
type RunLogger struct {
	label   string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
}

// LogLevel classifies run log entries.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
)

// NewRunLogger creates a file logger under logs/ for one optimization run.
func NewRunLogger(label string) (*RunLogger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("optimizer_%s_%s.log", label, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &RunLogger{
		label:   label,
		logFile: file,
		logger:  log.New(file, "", 0),
	}
	l.writeRunHeader()
	return l, nil
}

func (l *RunLogger) writeRunHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 OPTIMIZATION RUN STARTED
================================================================================
Label: %s
Started: %s
================================================================================
`, l.label, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted entry with the given level.
func (l *RunLogger) Log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))
}

// Infof logs an informational message.
func (l *RunLogger) Infof(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warningf logs a recoverable condition.
func (l *RunLogger) Warningf(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Errorf logs a failure.
func (l *RunLogger) Errorf(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Close flushes and closes the underlying file.
func (l *RunLogger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	l.Infof("run finished")
	return l.logFile.Close()
}
