// Package wayfind provides simple modular HTTP request routing through
// ordered regular-expression rules.
//
// # Overview
//
// A [Finder] is created from an ordered list of routes. Each route binds a
// left-anchored regular expression to a target for a set of HTTP methods.
// Incoming requests have their path checked against the patterns declared
// for their method, in declaration order, and the first match wins:
//
//	finder := wayfind.MustNew([]wayfind.Route{
//	    {Pattern: `^/hello/(\w+)$`, Target: hello, Methods: []string{"GET"}},
//	})
//
//	func hello(req *wayfind.Request, caps wayfind.Captures) (wayfind.Result, error) {
//	    return wayfind.Text("hello " + caps.Positional[0]), nil
//	}
//
// Targets can also be other Finder instances, in which case the request is
// handed off: the portion of the path that matched is stripped before the
// nested finder's own rules are checked. A miss or fault inside the nested
// finder is resolved entirely by that finder's hooks; the parent never
// resumes its candidate search after delegating.
//
// # Handler results
//
// Handlers return a [Result], a closed union with four variants:
//
//   - [Text]: coerced into a 200 response with a computed Content-Length.
//     Text that is not valid UTF-8 is treated as a fault.
//   - [*Response]: passed through unchanged.
//   - [NoResponse]: no reply is produced; for transports where the reply
//     is managed out of band.
//   - [Delegate]: continues dispatch in another finder.
//
// Returning an error (or panicking) routes the fault to the 500 path. A
// fault never escapes [Finder.Dispatch]: it is always converted into a
// response before returning.
//
// # Hooks
//
// The responses for unmatched routes and handler faults are produced by
// per-instance hooks, overridable with [WithNotFound] and
// [WithServerError]. The defaults return an empty 404 or 500 with an
// explicit zero content length. An override that itself faults, or that
// returns something other than a response, falls back to the built-in
// default for that status and is logged at elevated severity.
//
// # Requests, responses and ordered headers
//
// [Request] and [Response] carry their headers in the case-insensitive
// ordered multimap of [github.com/mvdm/wayfind/omd]: duplicate header
// occurrences survive, global insertion order is preserved, and lookups
// compare field names case-insensitively while enumeration reports the
// original casing. The request body is a single-pass pull reader with a
// carry-over buffer; url-encoded body parameters of POST and PUT requests
// are parsed lazily and memoized.
//
// # Transports
//
// The core performs no byte-level I/O. Adapters translate a concrete
// server API into the router's shapes: package nethttp binds a Finder as a
// standard [net/http.Handler], package fastadapt binds it as a fasthttp
// request handler. [Response.Finalize] is the adapter's exclusive
// responsibility.
//
// # Concurrency
//
// A Finder is immutable after construction and holds no per-request state;
// a single instance is safe for arbitrarily many concurrent dispatches.
// Request and Response instances belong to the one flow handling that
// request. Cancellation and timeouts are the transport's concern.
package wayfind
