// Package logger provides leveled logging for solarboard.
// It wraps the standard `log` package and filters messages by level.
package logger

import (
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// Level is a logging level. Smaller numbers are more verbose.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps "DEBUG", "INFO", "WARN", "ERROR", "SILENT" (any case) to a
// Level. The second result is false for unknown names, which map to INFO.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "SILENT", "OFF":
		return LevelSilent, true
	default:
		return LevelInfo, false
	}
}

// SetLogLevel sets the global level from its name.
func SetLogLevel(name string) {
	lvl, ok := ParseLevel(name)
	current.Store(int32(lvl))
	if !ok {
		Warnf("Unknown log level %q, using INFO", name)
	}
}

// SetLevel sets the global level.
func SetLevel(lvl Level) { current.Store(int32(lvl)) }

// GetLevel returns the global level.
func GetLevel() Level { return Level(current.Load()) }

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) { log.SetOutput(w) }

func enabled(lvl Level) bool { return Level(current.Load()) <= lvl }

// Debugf logs at DEBUG.
func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// Infof logs at INFO.
func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

// Warnf logs at WARN.
func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

// Errorf logs at ERROR.
func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		log.Printf("[ERROR] "+format, v...)
	}
}
