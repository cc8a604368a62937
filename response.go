package wayfind

import (
	"iter"
	"net/http"

	"github.com/mvdm/wayfind/omd"
)

// DefaultContentType is stamped on responses that reach finalization
// without an explicit Content-Type header. Set a response's
// ContentType field to override it per instance, or to "" to suppress
// the header entirely.
const DefaultContentType = "text/html"

// Response is the output of dispatch: a status code, ordered headers
// with duplicates, cookies, and the content to transmit. Content is
// either a fixed buffer or a lazy chunk sequence; when Chunks is set it
// takes precedence over Content.
type Response struct {
	Content []byte
	Chunks  iter.Seq[[]byte]
	Code    int

	Headers *omd.Fold[string]
	Cookies []*http.Cookie

	// ContentType is the fallback stamped at finalization when no
	// Content-Type header was set.
	ContentType string

	finalized bool
}

// NewResponse creates a response with the given status code and a fixed
// content buffer.
func NewResponse(code int, content []byte) *Response {
	return &Response{
		Content:     content,
		Code:        code,
		Headers:     omd.NewFold[string](),
		ContentType: DefaultContentType,
	}
}

// NewChunkedResponse creates a response whose content is produced lazily
// chunk by chunk while the transport writes it out.
func NewChunkedResponse(code int, chunks iter.Seq[[]byte]) *Response {
	resp := NewResponse(code, nil)
	resp.Chunks = chunks

	return resp
}

// SetCookie adds a cookie to be serialized into its own Set-Cookie
// header at finalization.
func (r *Response) SetCookie(c *http.Cookie) {
	r.Cookies = append(r.Cookies, c)
}

// Finalize readies the response for transmission: every cookie becomes
// one Set-Cookie header entry and the default content type is stamped if
// none was set. It is invoked exactly once by the dispatch boundary;
// handlers must never call it. A second invocation is a no-op so headers
// cannot be duplicated.
func (r *Response) Finalize() {
	if r.finalized {
		return
	}

	r.finalized = true

	for _, c := range r.Cookies {
		r.Headers.Set("Set-Cookie", c.String())
	}

	if r.ContentType != "" && !r.Headers.Has("Content-Type") {
		r.Headers.Set("Content-Type", r.ContentType)
	}
}
