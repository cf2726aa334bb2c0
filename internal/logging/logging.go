package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the log level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Discard is the file name that disables logging.
const Discard = "-"

// Config represents logger configuration
type Config struct {
	Level LogLevel
	// File is the path of the log file; Discard or "" drops every event.
	File string
	// Pretty enables human-readable output
	Pretty bool
}

// ValidLevel reports whether s names a supported level.
func ValidLevel(s string) bool {
	switch LogLevel(strings.ToLower(s)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

// New builds a logger for cfg. The returned closer releases the log file and
// must be called when the program exits.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.File == "" || cfg.File == Discard {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = f
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	}
	return NewWriter(w, cfg.Level), f, nil
}

// NewWriter builds a logger that writes to w at the given level.
func NewWriter(w io.Writer, level LogLevel) zerolog.Logger {
	return zerolog.New(w).Level(toZerolog(level)).With().Timestamp().Logger()
}

func toZerolog(level LogLevel) zerolog.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
