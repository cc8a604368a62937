// Package nethttp binds a wayfind.Finder into the standard library's HTTP
// server machinery. It is a transport adapter: it translates an incoming
// *http.Request into the router's request shape, dispatches, and writes
// the finalized response back to the wire.
package nethttp

import (
	"net/http"

	"github.com/mvdm/wayfind"
)

// Handler adapts a finder as a standard http.Handler.
//
// This transport always owes the client a reply, so a [wayfind.NoResponse]
// result is turned into a plain 500 the same way byte-level transport
// errors are.
func Handler(f *wayfind.Finder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := wayfind.NewRequest(r.Method, r.URL.RequestURI(), headerPairs(r.Header), r.Body)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		resp := f.Dispatch(req.Path, req)
		if resp == nil {
			resp = wayfind.NewResponse(http.StatusInternalServerError, []byte("Server Error"))
		}

		resp.Finalize()
		write(w, resp)
	})
}

func headerPairs(h http.Header) []wayfind.HeaderPair {
	var pairs []wayfind.HeaderPair
	for name, values := range h {
		for _, value := range values {
			pairs = append(pairs, wayfind.HeaderPair{Name: name, Value: value})
		}
	}

	return pairs
}

func write(w http.ResponseWriter, resp *wayfind.Response) {
	for name, value := range resp.Headers.All() {
		w.Header().Add(name, value)
	}

	w.WriteHeader(resp.Code)

	if resp.Chunks == nil {
		w.Write(resp.Content) //nolint:errcheck // client gone, nothing to do
		return
	}

	flusher, _ := w.(http.Flusher)
	for chunk := range resp.Chunks {
		if _, err := w.Write(chunk); err != nil {
			return
		}

		if flusher != nil {
			flusher.Flush()
		}
	}
}
