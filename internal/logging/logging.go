package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "tasktrack"

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New builds the process logger. Timestamps are reported for every format
// but text, where the terminal output stays compact.
func New(w io.Writer, level, format string) *log.Logger {
	formatter := ParseFormatter(format)
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       formatter,
		ReportTimestamp: formatter != log.TextFormatter,
		Prefix:          prefix,
	})
}
