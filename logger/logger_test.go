package logger

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prev)
	})
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() { log.SetFlags(flags) })

	SetLogLevel("warn")
	assert.Equal(t, LevelWarn, GetLevel())

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)
	assert.Equal(t, "[WARN] warn 3\n[ERROR] error 4\n", buf.String())

	buf.Reset()
	SetLevel(LevelSilent)
	Errorf("dropped")
	assert.Empty(t, buf.String())
}

func TestSetLogLevelUnknownFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prev)
	})

	SetLogLevel("verbose")
	assert.Equal(t, LevelInfo, GetLevel())
	assert.Contains(t, buf.String(), `Unknown log level "verbose", using INFO`)
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"":        LevelInfo,
		"Warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	} {
		got, ok := ParseLevel(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseLevel("trace")
	assert.False(t, ok)
}
