package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"upper case", "INFO", log.InfoLevel},
		{"warning alias", "warning", log.WarnLevel},
		{"padded", "  error ", log.ErrorLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"garbage defaults to info", "loud", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetLevel(t *testing.T) {
	orig := Logger.GetLevel()
	defer Logger.SetLevel(orig)

	SetLevel("debug")
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	// empty keeps the current level
	SetLevel("")
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	SetLevel("error")
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())
}

func TestSetOutput(t *testing.T) {
	defer SetOutput(os.Stderr)

	var buf bytes.Buffer
	SetOutput(&buf)
	Info("Joystick opened", "device", "js0")

	assert.Contains(t, buf.String(), "Joystick opened")
	assert.Contains(t, buf.String(), "device=js0")
}
