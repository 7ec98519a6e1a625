package router

import "errors"

// ConfigurationError reports an invalid registration: a nil middleware,
// a path spec that does not compile, or a router mounted into itself.
// It is raised as a panic because a broken route table is fatal to setup
// and is never recovered internally.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "router: " + e.Reason
}

// ErrRouteNotFound is wrapped by Router.URL when no route carries the
// requested name. It is returned, never panicked, so callers must check
// the result.
var ErrRouteNotFound = errors.New("route not found")

// ErrMethodNotAllowed is returned by the AllowedMethods middleware in
// throw mode when the path is routable but not with the request method.
// Corresponds to 405 Method Not Allowed per RFC 9110 Section 15.5.6.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ErrNotImplemented is returned by the AllowedMethods middleware in
// throw mode when the request method is outside the router's implemented
// method list. Corresponds to 501 Not Implemented per RFC 9110
// Section 15.6.2.
var ErrNotImplemented = errors.New("method not implemented")

// ErrNextCalledTwice is returned when a middleware invokes its next
// continuation more than once.
var ErrNextCalledTwice = errors.New("next() called multiple times")
