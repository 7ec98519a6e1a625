package router

import (
	"net/http"
	"strings"
)

// AllowedMethodsOptions configure the AllowedMethods middleware.
type AllowedMethodsOptions struct {
	// Throw makes the middleware return an error instead of writing the
	// 405/501 response itself. The OPTIONS shortcut is unaffected.
	Throw bool

	// NotImplemented overrides the error returned in throw mode for
	// unimplemented methods.
	NotImplemented func() error

	// MethodNotAllowed overrides the error returned in throw mode when
	// the path is routable but not with the request method.
	MethodNotAllowed func() error
}

// AllowedMethods returns middleware computing 405/501/Allow/OPTIONS
// behavior from this router's match results, per RFC 9110 Sections
// 15.5.6 (405), 15.6.2 (501) and 9.3.7 (OPTIONS).
//
// The middleware wraps downstream execution and inspects the context
// only after downstream completes, and only when the response status is
// still unset or is the generic 404. It unions the method sets of every
// entry recorded in the context's path-match accumulator, in first
// discovery order with duplicates removed:
//
//   - request method outside the router's implemented list: 501 with
//     Allow, or ErrNotImplemented in throw mode;
//   - union non-empty and method is OPTIONS: 200 with an empty body and
//     Allow;
//   - union non-empty and method not in it: 405 with Allow, or
//     ErrMethodNotAllowed in throw mode;
//   - otherwise the response is left untouched.
func (r *Router) AllowedMethods(opts AllowedMethodsOptions) Middleware {
	implemented := r.opts.Methods

	return func(c *Context, next Next) error {
		if err := next(); err != nil {
			return err
		}

		status := c.Response.Status()
		if status != 0 && status != http.StatusNotFound {
			return nil
		}

		var allowed []string
		seen := make(map[string]bool)
		for _, rt := range c.matched {
			for _, method := range rt.methods {
				if !seen[method] {
					seen[method] = true
					allowed = append(allowed, method)
				}
			}
		}

		if !containsString(implemented, c.Method) {
			if opts.Throw {
				if opts.NotImplemented != nil {
					return opts.NotImplemented()
				}
				return ErrNotImplemented
			}
			c.Response.SetStatus(http.StatusNotImplemented)
			c.Response.SetHeader("Allow", strings.Join(allowed, ", "))
			return nil
		}

		if len(allowed) == 0 {
			return nil
		}

		if c.Method == http.MethodOptions {
			c.Response.SetStatus(http.StatusOK)
			c.Response.SetBody(nil)
			c.Response.SetHeader("Allow", strings.Join(allowed, ", "))
			return nil
		}

		if !containsString(allowed, c.Method) {
			if opts.Throw {
				if opts.MethodNotAllowed != nil {
					return opts.MethodNotAllowed()
				}
				return ErrMethodNotAllowed
			}
			c.Response.SetStatus(http.StatusMethodNotAllowed)
			c.Response.SetHeader("Allow", strings.Join(allowed, ", "))
		}

		return nil
	}
}
