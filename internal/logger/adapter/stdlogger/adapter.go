// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces, such as the writer expected by gorm's logger.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	// PrintLevel is the level used by Printf.
	PrintLevel zerolog.Level
	component  string
}

// New returns an adapter over the global zerolog logger. Printf logs at debug level.
func New() *Logger {
	return &Logger{PrintLevel: zerolog.DebugLevel}
}

// NewComponent returns an adapter that tags every line with the component field.
func NewComponent(component string, printLevel zerolog.Level) *Logger {
	return &Logger{PrintLevel: printLevel, component: component}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	ev := log.WithLevel(level)
	if l.component != "" {
		ev = ev.Str("component", l.component)
	}

	return ev
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}

// Printf implements the gorm logger.Writer interface. gorm prefixes its
// messages with newlines which are folded into a single log line.
func (l *Logger) Printf(format string, args ...any) {
	msg := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	l.event(l.PrintLevel).Msg(strings.TrimSpace(msg))
}
