// Package fastadapt binds a wayfind.Finder into the fasthttp server. It
// is a transport adapter: it translates a fasthttp.RequestCtx into the
// router's request shape, dispatches, and writes the finalized response
// into the context.
package fastadapt

import (
	"bytes"
	"strings"

	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/mvdm/wayfind"
)

// RequestHandler adapts a finder as a fasthttp request handler.
//
// A [wayfind.NoResponse] result leaves the context untouched: the reply
// is assumed to be managed out of band, hijack-style.
func RequestHandler(f *wayfind.Finder) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		req, err := wayfind.NewRequest(
			string(ctx.Method()),
			string(ctx.RequestURI()),
			headerPairs(&ctx.Request.Header),
			bytes.NewReader(ctx.PostBody()),
		)
		if err != nil {
			ctx.Error(fasthttp.StatusMessage(fasthttp.StatusBadRequest), fasthttp.StatusBadRequest)
			return
		}

		resp := f.Dispatch(req.Path, req)
		if resp == nil {
			return
		}

		resp.Finalize()
		write(ctx, resp)
	}
}

func headerPairs(h *fasthttp.RequestHeader) []wayfind.HeaderPair {
	var pairs []wayfind.HeaderPair
	h.VisitAll(func(name, value []byte) {
		pairs = append(pairs, wayfind.HeaderPair{Name: string(name), Value: string(value)})
	})

	return pairs
}

func write(ctx *fasthttp.RequestCtx, resp *wayfind.Response) {
	ctx.SetStatusCode(resp.Code)

	for name, value := range resp.Headers.All() {
		// fasthttp owns message framing and computes the length itself.
		if strings.EqualFold(name, "Content-Length") {
			continue
		}

		ctx.Response.Header.Add(name, value)
	}

	if resp.Chunks == nil {
		ctx.Response.AppendBody(resp.Content)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for chunk := range resp.Chunks {
		buf.Write(chunk) //nolint:errcheck // ByteBuffer writes cannot fail
	}

	ctx.Response.AppendBody(buf.B)
}
