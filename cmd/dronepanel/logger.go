package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/xdg"
)

const logFileRel = "dronepanel/dronepanel.log"

// parseLogLevel maps a log-level setting to a slog level. A nil level
// means logging is off.
func parseLogLevel(s string) (*slog.Level, error) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return nil, nil
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("config: invalid log-level %q (want off, debug, info, warn or error)", s)
	}
	return &lvl, nil
}

// configureRuntimeLogger installs the default slog logger. The TUI owns the
// terminal, so records go to a file under the XDG state directory.
func configureRuntimeLogger(level string) (string, func(), error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return "", func() {}, err
	}
	if lvl == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return "", func() {}, nil
	}

	logPath, err := xdg.StateFile(logFileRel)
	if err != nil {
		return "", func() {}, fmt.Errorf("log: resolve state dir: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", func() {}, fmt.Errorf("log: open %s: %w", logPath, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: *lvl})))
	return logPath, func() {
		_ = f.Close()
	}, nil
}
