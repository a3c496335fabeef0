package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   string
	}{
		{"empty", nil, ""},
		{"sorted keys", Fields{"track": "Wonderwall", "artist": "Oasis"}, "{artist=Oasis, track=Wonderwall}"},
		{"numbers", Fields{"capo": 2, "ms": int64(15), "ratio": 0.5}, "{capo=2, ms=15, ratio=0.50}"},
		{"other values", Fields{"ok": true}, "{ok=true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFields(tt.fields))
		})
	}
}

func TestLevels(t *testing.T) {
	buf := captureLog(t)

	Info("ingested", Fields{"sections": 3})
	Warn("skipped", Fields{"tuning": "D A D G B E"})
	Debug("parsed", nil)
	Error("failed", errors.New("boom"), Fields{"artist": "Oasis"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] ingested {sections=3}")
	assert.Contains(t, out, "[WARN] skipped {tuning=D A D G B E}")
	assert.Contains(t, out, "[DEBUG] parsed")
	assert.Contains(t, out, "[ERROR] failed: boom {artist=Oasis}")
}

func TestLogUnrecognized(t *testing.T) {
	buf := captureLog(t)

	LogUnrecognized(nil, nil)
	assert.Empty(t, buf.String())

	LogUnrecognized([]string{"N.C.", "x"}, Fields{"section": "Intro"})
	assert.Contains(t, buf.String(), "count=2")
	assert.Contains(t, buf.String(), "tokens=N.C. x")
}
