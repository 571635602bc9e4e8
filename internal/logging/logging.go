// Package logging builds the zerolog loggers used by the CLI and the daemon.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogNoColor = "SYNC_HISTORY_LOG_NOCOLOR"

	DefaultLevel = zerolog.WarnLevel
)

// ParseLevel accepts the usual level names plus a few aliases. ok is false
// for empty or unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return DefaultLevel, false
	}
}

// NewConsole returns a human readable logger for short-lived CLI runs.
func NewConsole(out io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor(out),
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewDaemon returns a JSON logger tagged with the daemon's pid.
func NewDaemon(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "sync-historyd").
		Int("pid", os.Getpid()).
		Logger()
}

func noColor(out io.Writer) bool {
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		return v
	}
	f, ok := out.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd())
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
