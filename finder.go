package wayfind

import (
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// AllMethods is the standard HTTP method set. A route declared without
// explicit methods is reachable under every one of these.
var AllMethods = []string{
	http.MethodOptions, http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodDelete, http.MethodTrace, http.MethodConnect,
}

// Route is one declared binding of a pattern to a target. Pattern is a
// regular expression compared against the path from its start; a prefix
// match suffices, which is what makes delegation to a nested finder
// work. Either Target with Methods, or ByMethod, must be set. Nil or
// empty Methods means all standard methods.
type Route struct {
	Pattern  string
	Target   Target
	Methods  []string
	ByMethod map[string]Target
}

// Hook produces the response when no route matched. It must return a
// [*Response] (or [NoResponse]); anything else falls back to the
// built-in default.
type Hook func(req *Request) (Result, error)

// FaultHook produces the response when a handler faulted, receiving the
// fault as context. It must return a [*Response] (or [NoResponse]);
// anything else falls back to the built-in default.
type FaultHook func(req *Request, fault error) (Result, error)

// Option configures a Finder at construction.
type Option func(*Finder)

// WithLogger injects the observability collaborator. Defaults to a
// standard library logger.
func WithLogger(logs Logger) Option {
	return func(f *Finder) { f.logs = logs }
}

// WithNotFound overrides the hook producing 404 responses.
func WithNotFound(h Hook) Option {
	return func(f *Finder) { f.notFound = h }
}

// WithServerError overrides the hook producing 500 responses.
func WithServerError(h FaultHook) Option {
	return func(f *Finder) { f.serverError = h }
}

type rule struct {
	re     *regexp.Regexp
	target Target
}

// Finder routes HTTP requests: it holds, per method, an ordered list of
// compiled pattern rules and resolves an incoming (method, path) to the
// first matching target. Targets are handlers, or nested finders that
// continue resolution on the path remainder after the matched span is
// stripped.
//
// A Finder is immutable after construction and keeps no per-request
// state, so one instance serves any number of in-flight requests
// concurrently without locking.
type Finder struct {
	rules map[string][]rule

	logs        Logger
	notFound    Hook
	serverError FaultHook
}

// New compiles the ordered routes into a Finder. Declaration order is
// significant: resolution is first-match-wins per method, never
// most-specific. Construction fails on an invalid pattern or a
// non-standard method name.
func New(routes []Route, opts ...Option) (*Finder, error) {
	f := &Finder{rules: make(map[string][]rule)}
	for _, opt := range opts {
		opt(f)
	}

	if f.logs == nil {
		f.logs = NewStdLogger(log.Default())
	}

	for _, route := range routes {
		re, err := compilePattern(route.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compile pattern %q", route.Pattern)
		}

		if err := f.addRoute(re, route); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// MustNew is for routing tables built from static declarations; it
// panics where [New] would fail.
func MustNew(routes []Route, opts ...Option) *Finder {
	f, err := New(routes, opts...)
	if err != nil {
		panic("wayfind: " + err.Error())
	}

	return f
}

func (f *Finder) addRoute(re *regexp.Regexp, route Route) error {
	if route.ByMethod != nil {
		for method, target := range route.ByMethod {
			if err := f.addRule(re, target, method); err != nil {
				return err
			}
		}

		return nil
	}

	methods := route.Methods
	if len(methods) == 0 {
		methods = AllMethods
	}

	for _, method := range methods {
		if err := f.addRule(re, route.Target, method); err != nil {
			return err
		}
	}

	return nil
}

func (f *Finder) addRule(re *regexp.Regexp, target Target, method string) error {
	if !lo.Contains(AllMethods, strings.ToUpper(method)) {
		return errors.Newf("non-standard method %q for pattern %q", method, re)
	}

	if target == nil {
		return errors.Newf("no target for pattern %q", re)
	}

	lower := strings.ToLower(method)
	f.rules[lower] = append(f.rules[lower], rule{re: re, target: target})

	return nil
}

// compilePattern compiles a route pattern anchored at the start of the
// path. There is no implicit end anchor.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pattern + `)`)
}

// resolve scans the method's candidate list in declaration order and
// returns the first matching target. For a nested finder the remainder
// is the path with the matched span excised; for a handler the capture
// groups are bound, named groups taking precedence over positional ones.
func (f *Finder) resolve(method, path string) (Target, Captures, string, bool) {
	for _, rl := range f.rules[strings.ToLower(method)] {
		loc := rl.re.FindStringSubmatchIndex(path)
		if loc == nil {
			continue
		}

		if _, ok := rl.target.(*Finder); ok {
			remaining := path[:loc[0]] + path[loc[1]:]
			return rl.target, Captures{}, remaining, true
		}

		return rl.target, bindCaptures(rl.re, path, loc), "", true
	}

	return nil, Captures{}, "", false
}

func bindCaptures(re *regexp.Regexp, path string, loc []int) Captures {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}

		return path[loc[2*i]:loc[2*i+1]]
	}

	named := make(map[string]string)
	var positional []string

	for i, name := range re.SubexpNames() {
		if i == 0 {
			continue
		}

		if name != "" {
			named[name] = group(i)
		} else {
			positional = append(positional, group(i))
		}
	}

	// named and positional captures are mutually exclusive: any named
	// group in the pattern suppresses positional binding entirely.
	if len(named) > 0 {
		return Captures{Named: named}
	}

	return Captures{Positional: positional}
}

// Dispatch resolves the path for the request's method and produces the
// response: the matched handler's coerced result, a recursive dispatch
// into a nested finder, or the 404/500 hook output. A fault never
// escapes this boundary; the returned response is nil only for
// [NoResponse]. The path shrinks as dispatch descends into nested
// finders while the request stays the same.
func (f *Finder) Dispatch(path string, req *Request) *Response {
	target, caps, remaining, ok := f.resolve(req.Method, path)
	if !ok {
		f.logs.LogNotFound(req.Method, path)
		return f.handle404(req)
	}

	// a miss or fault below this point is resolved entirely by the
	// nested finder's own hooks; there is no sibling backtracking.
	if nested, ok := target.(*Finder); ok {
		return nested.Dispatch(remaining, req)
	}

	result, err := invoke(target.(HandlerFunc), req, caps)
	if err != nil {
		f.logs.LogHandlerFault(err)
		return f.handle500(req, newHandlerFault(err))
	}

	return f.coerce(req, result)
}

// invoke calls the handler, converting a panic into an error so the
// fault can be routed to the 500 path with its context.
func invoke(h HandlerFunc, req *Request, caps Captures) (result Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = recovered(v)
		}
	}()

	return h(req, caps)
}

// coerce normalizes a handler result into a response, exhaustively over
// the result union.
func (f *Finder) coerce(req *Request, result Result) *Response {
	switch v := result.(type) {
	case Text:
		if !utf8.ValidString(string(v)) {
			err := errors.New("text returned from handler is not valid for the wire charset")
			f.logs.LogHandlerFault(err)

			return f.handle500(req, newHandlerFault(err))
		}

		resp := NewResponse(http.StatusOK, []byte(v))
		resp.Headers.Set("Content-Length", strconv.Itoa(len(v)))

		return resp
	case *Response:
		if v == nil {
			err := errors.New("handler returned a nil response")
			f.logs.LogHandlerFault(err)

			return f.handle500(req, newHandlerFault(err))
		}

		return v
	case noResponse:
		return nil
	case delegation:
		if v.finder == nil || v.req == nil {
			err := errors.New("handler delegated to a nil finder or request")
			f.logs.LogHandlerFault(err)

			return f.handle500(req, newHandlerFault(err))
		}

		return v.finder.Dispatch(v.req.Path, v.req)
	default:
		err := errors.Newf("handler returned %v instead of a response", v)
		f.logs.LogHandlerFault(err)

		return f.handle500(req, newHandlerFault(err))
	}
}

// handle404 produces the not-found response through the overridable
// hook. A faulting or misbehaving override falls back to the built-in
// default instead of propagating.
func (f *Finder) handle404(req *Request) *Response {
	if f.notFound == nil {
		return emptyResponse(http.StatusNotFound)
	}

	result, err := invokeHook(func() (Result, error) { return f.notFound(req) })
	if err != nil {
		f.logs.LogHookFault(errors.Wrap(err, "not-found hook"))
		return emptyResponse(http.StatusNotFound)
	}

	return f.hookResponse(result, http.StatusNotFound)
}

// handle500 produces the server-error response through the overridable
// hook, passing the fault context along. A faulting or misbehaving
// override falls back to the built-in default instead of propagating.
func (f *Finder) handle500(req *Request, fault error) *Response {
	if f.serverError == nil {
		return emptyResponse(http.StatusInternalServerError)
	}

	result, err := invokeHook(func() (Result, error) { return f.serverError(req, fault) })
	if err != nil {
		f.logs.LogHookFault(errors.Wrap(err, "server-error hook"))
		return emptyResponse(http.StatusInternalServerError)
	}

	return f.hookResponse(result, http.StatusInternalServerError)
}

// hookResponse accepts only a real response (or none at all) from a
// hook; any other result falls back to the built-in default for the
// status.
func (f *Finder) hookResponse(result Result, code int) *Response {
	switch v := result.(type) {
	case *Response:
		return v
	case noResponse:
		return nil
	default:
		f.logs.LogHookFault(errors.Newf("hook for %d returned %v instead of a response", code, v))
		return emptyResponse(code)
	}
}

func invokeHook(hook func() (Result, error)) (result Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = recovered(v)
		}
	}()

	return hook()
}

// emptyResponse is the built-in fallback: an empty body with an explicit
// zero content length.
func emptyResponse(code int) *Response {
	resp := NewResponse(code, nil)
	resp.Headers.Set("Content-Length", "0")

	return resp
}
