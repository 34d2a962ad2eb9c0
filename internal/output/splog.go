// Package output provides logging, build-log sinks and report styling.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by NewSplogFromEnv
const (
	EnvLogFile       = "REMOTEPIPE_LOG_FILE"
	EnvLogMaxSize    = "REMOTEPIPE_LOG_MAX_SIZE"
	EnvLogMaxBackups = "REMOTEPIPE_LOG_MAX_BACKUPS"
	EnvLogMaxAge     = "REMOTEPIPE_LOG_MAX_AGE"
	EnvDebug         = "DEBUG"
)

// messageHandler writes bare messages without timestamps or level prefixes
type messageHandler struct {
	writer    io.Writer
	debugMode bool
}

func (h *messageHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *messageHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *messageHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *messageHandler) WithGroup(_ string) slog.Handler {
	return h
}

// rotatingFile creates a lumberjack logger sized from environment variables
func rotatingFile(logFilePath string) *lumberjack.Logger {
	logger := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	if n, ok := envInt(EnvLogMaxSize); ok && n > 0 {
		logger.MaxSize = n
	}
	if n, ok := envInt(EnvLogMaxBackups); ok && n >= 0 {
		logger.MaxBackups = n
	}
	if n, ok := envInt(EnvLogMaxAge); ok && n > 0 {
		logger.MaxAge = n
	}
	return logger
}

func envInt(name string) (int, bool) {
	value := os.Getenv(name)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	return n, err == nil
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Splog writes user-facing messages to a console writer and, optionally,
// every message including debug output to a rotating log file
type Splog struct {
	logger     *slog.Logger
	fileLogger *slog.Logger
	writer     io.Writer
	logWriter  io.WriteCloser
}

// NewSplog creates a console-only splog on stdout. Debug messages are
// enabled when DEBUG is set.
func NewSplog() *Splog {
	splog, _ := NewSplogWithConfig(os.Stdout, "")
	return splog
}

// NewSplogFromEnv creates a splog on w, logging to REMOTEPIPE_LOG_FILE when set
func NewSplogFromEnv(w io.Writer) (*Splog, error) {
	return NewSplogWithConfig(w, os.Getenv(EnvLogFile))
}

// NewSplogWithConfig creates a splog on w with optional file logging
func NewSplogWithConfig(w io.Writer, logFilePath string) (*Splog, error) {
	splog := &Splog{writer: w}

	handlers := []slog.Handler{&messageHandler{
		writer:    w,
		debugMode: os.Getenv(EnvDebug) != "",
	}}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file := rotatingFile(logFilePath)
		splog.logWriter = file
		fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String(a.Key, a.Value.Time().Format("2006-01-02 15:04:05.000"))
				}
				return a
			},
		})
		handlers = append(handlers, fileHandler)
		splog.fileLogger = slog.New(fileHandler)
	}

	splog.logger = slog.New(&multiHandler{handlers: handlers})
	return splog, nil
}

// Writer returns the console writer
func (s *Splog) Writer() io.Writer {
	return s.writer
}

func (s *Splog) log(level slog.Level, prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, prefix+msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "", format, args)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, "⚠️  ", format, args)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	s.log(slog.LevelError, "❌ ", format, args)
}

// Debug writes a message shown only in debug mode and always kept in the log file
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, "", format, args)
}

// Tip writes a tip message
func (s *Splog) Tip(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "💡 ", format, args)
}

// FileOnly writes a debug record to the log file without console output.
// It is a no-op when file logging is disabled.
func (s *Splog) FileOnly(format string, args ...interface{}) {
	if s.fileLogger == nil {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.fileLogger.Log(context.Background(), slog.LevelDebug, msg)
}

// Newline writes a newline
func (s *Splog) Newline() {
	_, _ = fmt.Fprintln(s.writer)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
