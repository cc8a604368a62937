package wayfind

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/mvdm/wayfind/omd"
)

// ChunkSize bounds how many bytes are pulled from the body source per
// read while collecting a requested amount.
const ChunkSize = 8192

// HeaderPair is one raw (name, value) header occurrence as supplied by
// the transport adapter.
type HeaderPair struct {
	Name, Value string
}

// Request holds the information of one incoming HTTP request. The
// transport adapter creates it once per message; handlers receive it as
// their first argument.
type Request struct {
	// Method is the HTTP method, normalized to upper case.
	Method string

	// Path is the decoded path component of the request target.
	Path string

	// QueryParams holds the decoded querystring parameters in order.
	QueryParams *omd.Map[string, string]

	// Headers holds every raw header occurrence, case-insensitively
	// retrievable with original casing preserved.
	Headers *omd.Fold[string]

	// Cookies are parsed from every Cookie header occurrence.
	Cookies []*http.Cookie

	body           io.Reader
	rbuf           bytes.Buffer
	startedReading bool
	bodyParams     *omd.Map[string, string]
}

// NewRequest builds a request from the raw pieces a transport adapter
// has: the method, the request target (path with optional querystring),
// the ordered raw header pairs and the body source.
func NewRequest(method, target string, headers []HeaderPair, body io.Reader) (*Request, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrap(err, "parse request target")
	}

	if body == nil {
		body = strings.NewReader("")
	}

	req := &Request{
		Method:      strings.ToUpper(method),
		Path:        parsed.Path,
		QueryParams: omd.New(parseForm(parsed.RawQuery)...),
		Headers:     omd.NewFold[string](),
		body:        body,
	}

	for _, h := range headers {
		req.Headers.Set(h.Name, h.Value)
	}

	for _, line := range req.Headers.GetAll("Cookie") {
		req.Cookies = append(req.Cookies, parseCookieHeader(line)...)
	}

	return req, nil
}

// Read reads up to size bytes of the request body, draining any bytes
// already pulled but unconsumed before pulling more from the source in
// bounded chunks. Bytes pulled beyond size are retained for the next
// call.
func (r *Request) Read(size int) ([]byte, error) {
	if err := r.fill(size); err != nil {
		return nil, err
	}

	return bytes.Clone(r.rbuf.Next(size)), nil
}

// ReadAll drains the body source entirely, including any buffered
// carry-over from earlier sized reads.
func (r *Request) ReadAll() ([]byte, error) {
	if err := r.fill(-1); err != nil {
		return nil, err
	}

	out := bytes.Clone(r.rbuf.Bytes())
	r.rbuf.Reset()

	return out, nil
}

// fill pulls from the body source until the carry-over buffer holds size
// bytes or the source is exhausted. A negative size collects everything.
func (r *Request) fill(size int) error {
	r.startedReading = true

	csize := ChunkSize
	if size >= 0 && size < csize {
		csize = size
	}

	chunk := make([]byte, csize)

	for csize > 0 {
		if size >= 0 && r.rbuf.Len() >= size {
			break
		}

		n, err := io.ReadFull(r.body, chunk)
		r.rbuf.Write(chunk[:n])

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		} else if err != nil {
			return errors.Wrap(err, "read request body")
		}
	}

	return nil
}

// BodyParams returns the url-encoded parameters of a POST or PUT request
// body. They are parsed at most once and memoized; requests of other
// methods or content types get an empty map. Fails with
// [ErrBodyConsumed] when a direct body read already advanced the shared
// single-pass cursor.
func (r *Request) BodyParams() (*omd.Map[string, string], error) {
	if r.bodyParams != nil {
		return r.bodyParams, nil
	}

	if r.startedReading {
		return nil, ErrBodyConsumed
	}

	params := omd.New[string, string]()

	if ctype, err := r.Headers.Get("Content-Type"); err == nil && r.formExpected(ctype) {
		body, err := r.ReadAll()
		if err != nil {
			return nil, err
		}

		params.Update(parseForm(string(body)))
	}

	r.bodyParams = params

	return params, nil
}

// Params returns the querystring and body parameters combined, body
// parameters last.
func (r *Request) Params() (*omd.Map[string, string], error) {
	bodyParams, err := r.BodyParams()
	if err != nil {
		return nil, err
	}

	params := r.QueryParams.Copy()
	for key, value := range bodyParams.All() {
		params.Set(key, value)
	}

	return params, nil
}

func (r *Request) formExpected(ctype string) bool {
	if !lo.Contains([]string{http.MethodPost, http.MethodPut}, r.Method) {
		return false
	}

	mediatype, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return false
	}

	return mediatype == "application/x-www-form-urlencoded" ||
		mediatype == "application/x-form-url-encoded"
}

// parseForm decodes url-encoded key/value pairs preserving their order
// and any duplicate keys. Pairs with a blank value are skipped, as are
// pairs that fail to decode.
func parseForm(query string) []omd.Pair[string, string] {
	var pairs []omd.Pair[string, string]

	for part := range strings.SplitSeq(query, "&") {
		for pair := range strings.SplitSeq(part, ";") {
			key, value, _ := strings.Cut(pair, "=")
			if value == "" {
				continue
			}

			key, err := url.QueryUnescape(key)
			if err != nil {
				continue
			}

			value, err = url.QueryUnescape(value)
			if err != nil {
				continue
			}

			pairs = append(pairs, omd.Pair[string, string]{Key: key, Value: value})
		}
	}

	return pairs
}

// parseCookieHeader delegates low-level Cookie header parsing to the
// standard library.
func parseCookieHeader(line string) []*http.Cookie {
	req := http.Request{Header: http.Header{"Cookie": []string{line}}}
	return req.Cookies()
}
