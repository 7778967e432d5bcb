// Package logger builds the process logger.  The same gommon logger is
// installed on echo and handed to the booking engine and the queue.
package logger

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

const devHeader = "${time_rfc3339} ${level} ${prefix} ${short_file}:${line}"

// New returns a logger writing to stdout.  Outside dev the header is JSON
// so lines can be shipped as structured records.
func New(env, level string) *log.Logger {
	lg := log.New("hotel-booking")
	lg.SetOutput(os.Stdout)
	lg.SetLevel(ParseLevel(level))
	if strings.EqualFold(env, "dev") || env == "" {
		lg.SetHeader(devHeader)
		lg.EnableColor()
	}
	return lg
}

// ParseLevel maps a level name to a gommon level.  Unknown names mean INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
