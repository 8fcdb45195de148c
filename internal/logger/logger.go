package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Type alias for slog.Level for easier usage
type Level = slog.Level

const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug // -4
	LevelInfo    = slog.LevelInfo  // 0
	LevelWarning = slog.LevelWarn  // 4
	LevelError   = slog.LevelError // 8
	LevelFatal   = slog.Level(12)  // 12
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

var (
	Logger          *slog.Logger
	errorSampleRate int32 = 1 // Log 1 out of every N warnings/errors (configurable via ERROR_SAMPLE_RATE)
	programLevel          = new(slog.LevelVar)
	exit                  = os.Exit
)

// Counters incremented regardless of sampling
var (
	TotalErrors   atomic.Int64
	TotalWarnings atomic.Int64
)

func init() {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = LevelInfo
	}
	programLevel.Set(level)

	if rate, err := strconv.Atoi(os.Getenv("ERROR_SAMPLE_RATE")); err == nil && rate > 0 {
		atomic.StoreInt32(&errorSampleRate, int32(rate))
	}

	setup(os.Stdout, os.Getenv("LOG_FORMAT"))
}

// setup installs a handler writing to w and makes it the slog default
func setup(w io.Writer, format string) {
	opts := &slog.HandlerOptions{
		Level: programLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Give the custom levels readable names
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelName(lvl))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// Configure applies settings read after process start (e.g. from a .env file)
func Configure(level, format string, sampleRate int) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	programLevel.Set(lvl)

	if sampleRate > 0 {
		atomic.StoreInt32(&errorSampleRate, int32(sampleRate))
	}

	setup(os.Stdout, format)
	return nil
}

// SetLevel sets the minimum log level for the logger
func SetLevel(level slog.Level) {
	programLevel.Set(level)
}

// GetLevel returns the current minimum log level
func GetLevel() slog.Level {
	return programLevel.Level()
}

// ParseLevel converts a string level name to slog.Level; empty means INFO
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s (defaulting to INFO)", levelStr)
	}
}

func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l >= LevelFatal:
		return "FATAL"
	default:
		return l.String()
	}
}

// shouldSample returns true if we should log this message
// Uses sampling to reduce log volume (1 out of every N messages)
func shouldSample() bool {
	rate := atomic.LoadInt32(&errorSampleRate)
	if rate <= 1 {
		return true
	}
	return rand.Intn(int(rate)) == 0
}

// Trace logs a trace-level message
func Trace(msg string, args ...any) {
	Logger.Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs a debug-level message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info-level message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning-level message WITH SAMPLING
// The counter is always incremented, but log output is sampled
func Warn(msg string, args ...any) {
	TotalWarnings.Add(1)
	if shouldSample() {
		Logger.Warn(msg, args...)
	}
}

// Error logs an error-level message WITH SAMPLING
// The counter is always incremented, but log output is sampled
func Error(msg string, args ...any) {
	TotalErrors.Add(1)
	if shouldSample() {
		Logger.Error(msg, args...)
	}
}

// Fatal logs a fatal-level message and exits (always logged, never sampled)
func Fatal(msg string, args ...any) {
	Logger.Log(context.Background(), LevelFatal, msg, args...)
	exit(1)
}
