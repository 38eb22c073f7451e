package plume

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger receives the world's diagnostics. Any leveled logger can be adapted
// to it.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int32(l))
}

// DefaultLogger writes debug and info lines to stdout, warnings and errors to
// stderr. Lines below the minimum level are dropped.
type DefaultLogger struct {
	prefix string
	level  atomic.Int32
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
	l.SetDebug(debug)
	return l
}

// SetOutput redirects both streams, keeping the line flags.
func (l *DefaultLogger) SetOutput(out, err io.Writer) {
	l.out.SetOutput(out)
	l.err.SetOutput(err)
}

func (l *DefaultLogger) Level() Level {
	return Level(l.level.Load())
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.Level() <= LevelDebug
}

// SetDebug switches between LevelDebug and LevelInfo.
func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelInfo)
	}
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	dst := l.out
	if level >= LevelWarn {
		dst = l.err
	}

	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		dst.Printf("%s: %s", level, msg)
		return
	}
	dst.Printf("[%s] %s: %s", l.prefix, level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
