package wayfind

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important dispatch
// states. A Finder never logs through ambient global state; the collaborator
// is injected with [WithLogger].
type Logger interface {
	LogNotFound(method, path string)
	LogHandlerFault(err error)
	LogHookFault(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogNotFound(method, path string) {
	l.Logger.Printf("wayfind: 404 looking for %s %s", method, path)
}

func (l stdLogger) LogHandlerFault(err error) {
	l.Logger.Printf("wayfind: handler fault: %s", err)
}

func (l stdLogger) LogHookFault(err error) {
	l.Logger.Printf("wayfind: CRITICAL hook fault: %s", err)
}

// NewStdLogger adapts a standard library logger.
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

// TestLogger counts log calls while reporting them through a testing.TB.
type TestLogger struct {
	tb testing.TB

	NumLogNotFound     int64
	NumLogHandlerFault int64
	NumLogHookFault    int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogNotFound(method, path string) {
	atomic.AddInt64(&l.NumLogNotFound, 1)
	l.tb.Logf("wayfind: 404 looking for %s %s", method, path)
}

func (l *TestLogger) LogHandlerFault(err error) {
	atomic.AddInt64(&l.NumLogHandlerFault, 1)
	l.tb.Logf("wayfind: handler fault: %s", err)
}

func (l *TestLogger) LogHookFault(err error) {
	atomic.AddInt64(&l.NumLogHookFault, 1)
	l.tb.Logf("wayfind: hook fault: %s", err)
}

var _ Logger = &TestLogger{}
