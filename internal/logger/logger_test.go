package logger

import (
	"testing"

	"github.com/labstack/gommon/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Lvl{
		"debug":   log.DEBUG,
		" WARN ":  log.WARN,
		"warning": log.WARN,
		"error":   log.ERROR,
		"off":     log.OFF,
		"":        log.INFO,
		"chatty":  log.INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewSetsLevel(t *testing.T) {
	lg := New("prod", "error")
	if lg.Level() != log.ERROR {
		t.Fatalf("level = %v, want ERROR", lg.Level())
	}
}
