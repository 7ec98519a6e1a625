package router

import (
	"bytes"
	"net/http"
)

// Context carries one in-flight request through the composed pipeline.
// It is created by the http.Handler adapter (or by hand in tests),
// exclusively owned by that request, and never shared across requests.
type Context struct {
	// Request is the underlying request. Never nil.
	Request *http.Request

	// Response buffers status, headers and body until the adapter
	// flushes them to the network, so middleware may inspect and adjust
	// the response after downstream steps complete.
	Response *Response

	// Path and Method are the lookup path and request method used for
	// matching. Both are mutable; rewriting middleware may adjust them
	// before a nested dispatch.
	Path   string
	Method string

	// RouterPath, when non-empty, overrides Path during dispatch.
	RouterPath string

	// Params holds the merged path parameters of every matched entry.
	// Same-named parameters captured by later entries overwrite earlier
	// ones.
	Params map[string]string

	// matched accumulates every route whose pattern matched the lookup
	// path, across nested dispatch calls within this request. Append
	// only; the AllowedMethods middleware reads it after downstream
	// execution.
	matched []*Route

	matchedPattern string
	matchedName    string
}

// NewContext returns a Context for the given request with an empty
// buffered response. The lookup path is the percent-encoded form per
// RFC 3986 Section 2.1; captured parameters are decoded during
// extraction.
func NewContext(r *http.Request) *Context {
	return &Context{
		Request:  r,
		Response: NewResponse(),
		Path:     r.URL.EscapedPath(),
		Method:   r.Method,
	}
}

// Param returns the value of a single path parameter by name.
func (c *Context) Param(name string) string {
	return c.Params[name]
}

// Matched returns the routes whose pattern matched the lookup path so
// far, in discovery order. The slice is shared with the context; treat
// it as read-only.
func (c *Context) Matched() []*Route {
	return c.matched
}

// MatchedPattern returns the path spec of the most specific route
// executed for this request, or the empty string before dispatch.
func (c *Context) MatchedPattern() string {
	return c.matchedPattern
}

// MatchedName returns the name of the most specific named route executed
// for this request, or the empty string.
func (c *Context) MatchedName() string {
	return c.matchedName
}

// Response buffers an HTTP response. Status, headers and body stay
// mutable until flushed, which lets middleware such as AllowedMethods
// rewrite them after the downstream chain has run.
type Response struct {
	status int
	header http.Header
	body   bytes.Buffer
}

// NewResponse returns an empty response buffer.
func NewResponse() *Response {
	return &Response{header: make(http.Header)}
}

// Status returns the buffered status code, or 0 when unset.
func (r *Response) Status() int {
	return r.status
}

// SetStatus sets the buffered status code.
func (r *Response) SetStatus(code int) {
	r.status = code
}

// Header returns the buffered header map for direct manipulation.
func (r *Response) Header() http.Header {
	return r.header
}

// SetHeader sets a single buffered header, replacing existing values.
func (r *Response) SetHeader(key, value string) {
	r.header.Set(key, value)
}

// Write appends p to the buffered body. An unset status defaults to
// 200 OK on first write.
func (r *Response) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

// WriteString appends s to the buffered body, defaulting the status the
// same way Write does.
func (r *Response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// Body returns the buffered body bytes.
func (r *Response) Body() []byte {
	return r.body.Bytes()
}

// SetBody replaces the buffered body. A nil or empty p clears it. An
// unset status defaults to 200 OK when p is non-empty.
func (r *Response) SetBody(p []byte) {
	r.body.Reset()
	if len(p) > 0 {
		if r.status == 0 {
			r.status = http.StatusOK
		}
		r.body.Write(p)
	}
}

// flush writes the buffered response to w. An unset status means no
// handler produced a response and becomes 404 Not Found per RFC 9110
// Section 15.5.5. Error statuses with an empty body get the standard
// status text.
func (r *Response) flush(w http.ResponseWriter) {
	dst := w.Header()
	for key, values := range r.header {
		for _, value := range values {
			dst.Add(key, value)
		}
	}

	status := r.status
	if status == 0 {
		status = http.StatusNotFound
	}

	body := r.body.Bytes()
	if len(body) == 0 && status >= http.StatusBadRequest {
		body = []byte(http.StatusText(status))
	}

	w.WriteHeader(status)
	if len(body) > 0 {
		w.Write(body) //nolint:errcheck // nothing useful to do on a broken connection
	}
}
