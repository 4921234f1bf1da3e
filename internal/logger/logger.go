// Package logger keeps log lines in memory and appends them to a file on disk.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"style-engine/internal/diag"
)

// Logger is a zap logger whose formatted lines are also kept in memory.
type Logger struct {
	mu    sync.Mutex
	lines []string
	zap   *zap.Logger
	file  *os.File
}

// New returns a logger writing to path as well as memory. An empty path keeps lines in
// memory only. With debug set, Debug entries are kept too.
func New(path string, debug bool) (*Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(cfg)

	l := &Logger{}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(l), level)}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), level))
	}
	l.zap = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Write stores each formatted entry as a line.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		l.lines = append(l.lines, line)
	}
	return len(p), nil
}

// Log records line at info level.
func (l *Logger) Log(line string) { l.zap.Info(line) }

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Zap returns the underlying logger for packages that take a *zap.Logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Listener logs compiler diagnostics at the level matching their severity.
func (l *Logger) Listener() diag.Listener {
	return diag.ListenerFunc(func(d diag.Diagnostic) {
		fields := []zap.Field{zap.String("source", d.Source)}
		if d.Location != nil {
			fields = append(fields, zap.Stringer("at", d.Location))
		}
		switch d.Severity {
		case diag.Error:
			l.zap.Error(d.Message, fields...)
		case diag.Warn:
			l.zap.Warn(d.Message, fields...)
		default:
			l.zap.Info(d.Message, fields...)
		}
	})
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
