// Package logger wraps zerolog with tagged console output used across
// the CLI and pipeline stages.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.Kitchen,
}).With().Timestamp().Logger()

// SetDebug lowers the global level so Debug lines are emitted.
func SetDebug(enabled bool) {
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Info logs a tagged informational message.
func Info(tag, format string, args ...any) {
	log.Info().Str("tag", tag).Msgf(format, args...)
}

// Success logs a tagged message for a completed operation.
func Success(tag, format string, args ...any) {
	log.Info().Str("tag", tag).Str("status", "ok").Msgf(format, args...)
}

// Warn logs a tagged warning.
func Warn(tag, format string, args ...any) {
	log.Warn().Str("tag", tag).Msgf(format, args...)
}

// Error logs a tagged error.
func Error(tag, format string, args ...any) {
	log.Error().Str("tag", tag).Msgf(format, args...)
}

// Debug logs a tagged debug message, visible only with SetDebug(true).
func Debug(tag, format string, args ...any) {
	log.Debug().Str("tag", tag).Msgf(format, args...)
}

// Banner prints the startup banner with an optional version string.
func Banner(version string) {
	name := "deal-radar"
	if version != "" {
		name += " " + version
	}
	fmt.Println(name)
	fmt.Println(strings.Repeat("=", len(name)))
}

// Section prints a visual divider naming the next phase of output.
func Section(title string) {
	fmt.Printf("\n--- %s ---\n", title)
}

// Stats prints a single aligned key/value line.
func Stats(key string, value any) {
	fmt.Printf("  %-24s %v\n", key, value)
}
