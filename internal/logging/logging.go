// Package logging sets up the file logger. The terminal belongs to the TUI,
// so nothing is ever written to stdout or stderr once the program starts.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Vybyranyi/task-management-boards-app/internal/config"
)

// Setup returns a logger appending JSON lines to cfg.Path. DEBUG=1 forces
// debug level regardless of cfg.Level. The returned closer owns the file.
func Setup(cfg config.LogConfig) (*log.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		level = log.DebugLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	l := log.New()
	l.SetOutput(f)
	l.SetLevel(level)
	l.SetFormatter(&log.JSONFormatter{})
	return l, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func parseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
