package wayfind

// Result is what a handler produces. It is a closed union: [Text] for a
// plain body that gets coerced into a 200 response, [*Response] for a
// fully constructed response, [NoResponse] for hijack-style transports
// where the reply is managed elsewhere, and the pair built by [Delegate]
// to hand the request off to another finder.
type Result interface{ isResult() }

// Text is a plain response body. Dispatch coerces it into a 200 response
// with a computed Content-Length, or faults if it is not valid for the
// wire charset.
type Text string

func (Text) isResult() {}

func (*Response) isResult() {}

type noResponse struct{}

func (noResponse) isResult() {}

// NoResponse signals that no reply should be produced for the request.
// Transports that always owe a reply refuse it with a 500.
var NoResponse Result = noResponse{}

type delegation struct {
	finder *Finder
	req    *Request
}

func (delegation) isResult() {}

// Delegate continues dispatch in another finder using the given request's
// path, under that finder's own hooks.
func Delegate(f *Finder, req *Request) Result {
	return delegation{finder: f, req: req}
}

// Captures holds the capture groups bound from a route match. Positional
// and Named are mutually exclusive: when the pattern contains named
// groups only those are bound.
type Captures struct {
	Positional []string
	Named      map[string]string
}

// Target is what a route points at: either a [HandlerFunc] or a nested
// [*Finder].
type Target interface{ isTarget() }

// HandlerFunc is application code handling a matched request.
type HandlerFunc func(req *Request, caps Captures) (Result, error)

func (HandlerFunc) isTarget() {}

func (*Finder) isTarget() {}
