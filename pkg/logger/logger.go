package logger

import (
	"io"
	"log"
	"os"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	out   *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return NewLoggerWithOutput(level, os.Stderr)
}

// NewLoggerWithOutput writes to the given stream instead of stderr. Tests use
// it to capture the log output.
func NewLoggerWithOutput(level int, w io.Writer) *defaultLogger {
	return &defaultLogger{level: level, out: log.New(w, "", log.LstdFlags)}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.logf(DEBUG, "DEBUG", msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.logf(INFO, "INFO", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, "WARN", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, "ERROR", msg, a...)
}

func (l *defaultLogger) logf(level int, tag, msg string, a ...any) {
	if l.level > level {
		return
	}

	l.out.Printf(tag+" "+msg, a...)
}
