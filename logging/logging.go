// Package logging provides the small leveled logger the rest of this
// module uses for the handful of things it needs to report: internal
// faults swallowed on the fail-open path, pairing-error recovery, and
// rule-reload notices. It is not meant to be a service's log pipeline,
// just a swappable sink an embedding application can redirect.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the sink the module writes diagnostic messages to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type stdLogger struct {
	level Level
	mu    sync.Mutex
	out   *log.Logger
}

func newStdLogger(level Level) *stdLogger {
	return &stdLogger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *stdLogger) logf(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *stdLogger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }
func (l *stdLogger) Infof(format string, args ...interface{})  { l.logf(InfoLevel, format, args...) }
func (l *stdLogger) Warnf(format string, args ...interface{})  { l.logf(WarnLevel, format, args...) }
func (l *stdLogger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }

var (
	mu      sync.RWMutex
	current Logger = newStdLogger(InfoLevel)
)

// SetLogger replaces the package-wide default logger. Embedding
// applications call this to route the module's diagnostics into their
// own logging pipeline.
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = l
}

func active() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debugf(format string, args ...interface{}) { active().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { active().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { active().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { active().Errorf(format, args...) }
