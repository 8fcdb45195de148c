package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cfg holds all runtime configuration loaded from environment variables.
type Cfg struct {
	// Server
	ListenAddr      string        // e.g. :8080
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT=30s

	// Artifacts, resolved relative to the working directory
	PreprocessorPath string // PREPROCESSOR_PATH=preprocess.yaml
	ModelPath        string // MODEL_PATH=model.yaml

	// Logging
	LogLevel        string // LOG_LEVEL=INFO
	LogFormat       string // LOG_FORMAT=json|text
	ErrorSampleRate int    // ERROR_SAMPLE_RATE=1 logs every error
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	port := env("PORT", "8080")
	if _, err := strconv.Atoi(strings.TrimPrefix(port, ":")); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", port)
	}

	shutdownTimeout := 30 * time.Second
	if raw := env("SHUTDOWN_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration, got %q", raw)
		}
		shutdownTimeout = d
	}

	sampleRate := 1
	if raw := env("ERROR_SAMPLE_RATE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("ERROR_SAMPLE_RATE must be a positive integer, got %q", raw)
		}
		sampleRate = n
	}

	logFormat := strings.ToLower(env("LOG_FORMAT", "json"))
	if logFormat != "json" && logFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", logFormat)
	}

	return &Cfg{
		ListenAddr:       ":" + strings.TrimPrefix(port, ":"),
		ShutdownTimeout:  shutdownTimeout,
		PreprocessorPath: env("PREPROCESSOR_PATH", "preprocess.yaml"),
		ModelPath:        env("MODEL_PATH", "model.yaml"),
		LogLevel:         env("LOG_LEVEL", "INFO"),
		LogFormat:        logFormat,
		ErrorSampleRate:  sampleRate,
	}, nil
}

// env returns the trimmed value of key, or def when it is unset or blank
func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
