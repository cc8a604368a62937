package wayfind

import (
	"github.com/cockroachdb/errors"
)

// ErrBodyConsumed is reported when lazily parsed body parameters are
// requested after a direct body read has already advanced the single-pass
// body cursor.
var ErrBodyConsumed = errors.New("wayfind: already consuming request body")

// HandlerFault wraps a failure that occurred while invoking a handler or
// while coercing its result into a response. It is the fault context the
// server-error hook receives.
type HandlerFault struct {
	err error
}

func newHandlerFault(err error) *HandlerFault {
	return &HandlerFault{err: err}
}

func (f *HandlerFault) Error() string { return "handler fault: " + f.err.Error() }
func (f *HandlerFault) Unwrap() error { return f.err }

// recovered converts a recovered panic value into an error with stack
// context so hooks and logs see where it came from.
func recovered(v any) error {
	if err, ok := v.(error); ok {
		return errors.WithStack(err)
	}

	return errors.Newf("panic: %v", v)
}
