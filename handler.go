package router

import (
	"errors"
	"net/http"
)

// Handler adapts a middleware pipeline to net/http. Each request gets a
// fresh Context; the buffered response is flushed once the pipeline
// finishes. A pipeline error that reaches the adapter replaces the
// buffered response with a status code (known sentinels map to 405/501,
// everything else to 500) and the standard status text.
//
// Compose the router's dispatcher with any companion middleware:
//
//	h := router.Handler(r.AllowedMethods(router.AllowedMethodsOptions{}), r.Routes())
//	http.ListenAndServe(":8080", h)
func Handler(pipeline ...Middleware) http.Handler {
	composed := compose(pipeline)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		c := NewContext(req)
		if err := composed(c, nil); err != nil {
			writeError(c, err)
		}
		c.Response.flush(w)
	})
}

// writeError maps a pipeline error onto the buffered response.
func writeError(c *Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotImplemented):
		status = http.StatusNotImplemented
	}
	c.Response.SetStatus(status)
	c.Response.SetBody([]byte(http.StatusText(status)))
}

// ServeHTTP makes the Router an http.Handler running its own dispatcher
// with no companion middleware: unmatched requests fall through to a
// 404. Use Handler to compose a custom pipeline. The composed handler is
// built on first use, one more reason registration must finish before
// the first request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.serveOnce.Do(func() {
		r.serveHandler = Handler(r.Routes())
	})
	r.serveHandler.ServeHTTP(w, req)
}
