// Package logging sets up the application's slog logger: text on the console,
// JSON in weekly rotating files, plus package-level helpers and the HTTP
// request-logging middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LoggingService owns the process logger and the file writer behind it.
type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var DefaultLoggingService *LoggingService

var (
	fallbackOnce   sync.Once
	fallbackLogger *slog.Logger
)

// InitLogger initializes the global logger. An empty logDir logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{LogDir: logDir, Level: "info", RetentionWeeks: 4})
}

// Options configures InitLoggerWithOptions.
type Options struct {
	LogDir         string
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	Console        io.Writer // defaults to os.Stdout
}

// InitLoggerWithOptions initializes the global logger and makes it the slog default.
// If the log directory cannot be used, logging continues on the console.
func InitLoggerWithOptions(opts Options) {
	level := parseLogLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	service := &LoggingService{Logger: slog.New(consoleHandler)}

	if opts.LogDir != "" {
		file, err := OpenRotatingLogger(opts.LogDir, opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			service.Logger.Error("Failed to initialize rotating logger, logging to console only", "error", err)
		} else {
			fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
			service.file = file
			service.Logger = slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
		}
	}

	if DefaultLoggingService != nil {
		_ = DefaultLoggingService.Close()
	}
	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// Close releases the log file, if any.
func (s *LoggingService) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Close shuts down the global logger's file writer.
func Close() error {
	return DefaultLoggingService.Close()
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logger() *slog.Logger {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		return DefaultLoggingService.Logger
	}
	// Fallback to console logger if not initialized
	fallbackOnce.Do(func() {
		fallbackLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return fallbackLogger
}

// Package-level functions for direct access

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}
