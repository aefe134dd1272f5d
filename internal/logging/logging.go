// Package logging configures the zerolog logger shared by every command.
package logging

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.ErrorStackMarshaler = marshalStack
}

func marshalStack(err error) interface{} {
	return eris.ToString(err, true)
}

var levels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// ParseLevel converts a settings/flag value to a zerolog.Level.
func ParseLevel(name string) (zerolog.Level, error) {
	level, ok := levels[strings.ToLower(name)]
	if !ok {
		return zerolog.NoLevel, eris.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

// ValidLevel reports whether name is an accepted log level.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

// ConsoleWriter renders level and message only; the CLI is short-lived, so
// timestamps are noise.
func ConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{Out: out, NoColor: noColor}
	writer.PartsOrder = []string{
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
	}
	return writer
}

// New returns a console logger at the given level.
func New(out io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	return zerolog.New(ConsoleWriter(out, noColor)).Level(level)
}
