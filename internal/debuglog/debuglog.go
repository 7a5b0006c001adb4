// Package debuglog provides the file-backed logger used while the TUI owns
// the terminal.
package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to a file. A Logger without a file
// discards everything, so callers never need to nil-check.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// New creates a logger writing to the specified path.
// If the path is empty, returns a no-op logger.
// Creates parent directories if they don't exist.
func New(logPath string) (*Logger, error) {
	if logPath == "" {
		return &Logger{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{file: f}
	l.Log("=== breathcheck debug log started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// Log writes a timestamped message.
func (l *Logger) Log(format string, args ...interface{}) {
	l.write(fmt.Sprintf(format, args...))
}

// Write implements io.Writer so the logger can back a *log.Logger. Each call
// is written as one timestamped line.
func (l *Logger) Write(p []byte) (int, error) {
	l.write(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (l *Logger) write(msg string) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.file, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
	l.file.Sync()
}

// Redirect points the standard logger at l and returns a func restoring the
// previous output and flags.
func (l *Logger) Redirect() (restore func()) {
	prevOut := log.Writer()
	prevFlags := log.Flags()

	var out io.Writer = io.Discard
	if l != nil && l.file != nil {
		out = l
	}
	log.SetOutput(out)
	log.SetFlags(0)

	return func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}
}

// Close closes the log file.
// Safe to call on nil logger or logger without file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
