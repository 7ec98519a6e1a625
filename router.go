package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// RouterOptions configure a Router at construction. All fields are
// optional.
type RouterOptions struct {
	// Prefix is prepended to every registered path. A trailing slash is
	// normalized away.
	Prefix string

	// Sensitive enables case-sensitive matching for registered routes.
	Sensitive bool

	// Strict disables the implicit optional trailing slash.
	Strict bool

	// Methods is the implemented method list consulted by AllowedMethods
	// for 501 decisions. Defaults to HEAD, OPTIONS, GET, PUT, PATCH,
	// POST and DELETE.
	Methods []string

	// RouterPath, when non-empty, overrides the lookup path for every
	// request dispatched through this router.
	RouterPath string
}

// RouteOptions configure a single registration.
type RouteOptions struct {
	// Name registers the route under a lookup name.
	Name string

	// Sensitive and Strict override the router defaults for this route.
	Sensitive bool
	Strict    bool

	// PrefixMatch compiles the pattern as a prefix matcher (a mount
	// point) instead of a full-path matcher.
	PrefixMatch bool

	// IgnoreCaptures drops this route's captured groups from the
	// parameter map.
	IgnoreCaptures bool
}

// paramEntry is one stored parameter validator, kept in insertion order
// so retroactive application is deterministic.
type paramEntry struct {
	name string
	fn   ParamFunc
}

// Router registers routes and dispatches the matching middleware chains.
//
// Registration order is significant: at dispatch time, later entries are
// treated as more specific. All registration happens during a
// configuration phase; once the router serves traffic it must not be
// mutated concurrently with in-flight matches. This is a documented
// precondition, not an enforced lock.
type Router struct {
	routes []*Route
	params []paramEntry
	opts   RouterOptions

	// serveHandler caches the http.Handler built by ServeHTTP on first
	// use.
	serveOnce    sync.Once
	serveHandler http.Handler
}

// NewRouter returns a new Router. At most one RouterOptions value is
// honored.
func NewRouter(opts ...RouterOptions) *Router {
	var o RouterOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if len(o.Methods) == 0 {
		o.Methods = []string{
			http.MethodHead, http.MethodOptions, http.MethodGet,
			http.MethodPut, http.MethodPatch, http.MethodPost,
			http.MethodDelete,
		}
	}
	o.Prefix = strings.TrimSuffix(o.Prefix, "/")
	return &Router{opts: o}
}

// AllRoutes returns all registered entries in registration order. The
// slice is shared with the router; treat it as read-only.
func (r *Router) AllRoutes() []*Route {
	return r.routes
}

// Register adds one entry per path matching the given method set, with
// the supplied middleware stack. An empty method set registers a
// method-agnostic entry. Stored parameter validators are applied to the
// new entries immediately.
//
// Register panics with *ConfigurationError when a middleware is nil or
// a path does not compile: registration is configuration, and a broken
// configuration is fatal to setup.
func (r *Router) Register(paths []string, methods []string, middleware []Middleware, opts *RouteOptions) []*Route {
	routes := make([]*Route, 0, len(paths))
	for _, path := range paths {
		routes = append(routes, r.register(path, methods, middleware, opts))
	}
	return routes
}

func (r *Router) register(path string, methods []string, middleware []Middleware, opts *RouteOptions) *Route {
	var o RouteOptions
	if opts != nil {
		o = *opts
	}

	for _, fn := range middleware {
		if fn == nil {
			panic(&ConfigurationError{Reason: fmt.Sprintf("middleware for %q must not be nil", path)})
		}
	}

	rt, err := newRoute(path, methods, middleware, o.Name, patternOptions{
		sensitive:      o.Sensitive || r.opts.Sensitive,
		strict:         o.Strict || r.opts.Strict,
		end:            !o.PrefixMatch,
		ignoreCaptures: o.IgnoreCaptures,
	})
	if err != nil {
		panic(&ConfigurationError{Reason: err.Error()})
	}

	if r.opts.Prefix != "" {
		rt.SetPrefix(r.opts.Prefix)
	}

	for _, p := range r.params {
		rt.Param(p.name, p.fn)
	}

	r.routes = append(r.routes, rt)
	return rt
}

// handle registers a single-method endpoint. The returned route can be
// named via chaining: r.Get("/users/:id", show).Name("user").
func (r *Router) handle(method, path string, middleware []Middleware) *Route {
	return r.register(path, []string{method}, middleware, nil)
}

// Get registers middleware for GET (and, per RFC 9110 Section 9.3.2,
// HEAD) requests on path.
func (r *Router) Get(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodGet, path, middleware)
}

// Post registers middleware for POST requests on path.
func (r *Router) Post(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodPost, path, middleware)
}

// Put registers middleware for PUT requests on path.
func (r *Router) Put(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodPut, path, middleware)
}

// Patch registers middleware for PATCH requests on path.
func (r *Router) Patch(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodPatch, path, middleware)
}

// Delete registers middleware for DELETE requests on path.
func (r *Router) Delete(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodDelete, path, middleware)
}

// Head registers middleware for HEAD requests on path.
func (r *Router) Head(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodHead, path, middleware)
}

// Options registers middleware for OPTIONS requests on path.
func (r *Router) Options(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodOptions, path, middleware)
}

// Trace registers middleware for TRACE requests on path.
func (r *Router) Trace(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodTrace, path, middleware)
}

// Connect registers middleware for CONNECT requests on path.
func (r *Router) Connect(path string, middleware ...Middleware) *Route {
	return r.handle(http.MethodConnect, path, middleware)
}

// All registers middleware for every implemented method on path.
func (r *Router) All(path string, middleware ...Middleware) *Route {
	return r.register(path, r.opts.Methods, middleware, nil)
}

// Use registers method-agnostic middleware matched on every path, via a
// synthetic catch-all pattern whose capture is dropped from the
// parameter map (unless the router prefix itself carries parameters).
func (r *Router) Use(middleware ...Middleware) *Router {
	return r.mount(nil, middleware)
}

// Mount registers method-agnostic middleware under a path prefix. The
// entry is a prefix matcher: it matches the path itself and everything
// below it on a segment boundary.
func (r *Router) Mount(path string, middleware ...Middleware) *Router {
	return r.mount([]string{path}, middleware)
}

// MountPaths fans Mount out over several prefixes.
func (r *Router) MountPaths(paths []string, middleware ...Middleware) *Router {
	return r.mount(paths, middleware)
}

func (r *Router) mount(paths []string, middleware []Middleware) *Router {
	hasPath := len(paths) > 0
	if !hasPath {
		paths = []string{"(.*)"}
	}
	ignore := !hasPath && !specHasParams(r.opts.Prefix)

	for _, path := range paths {
		r.register(path, nil, middleware, &RouteOptions{
			PrefixMatch:    true,
			IgnoreCaptures: ignore,
		})
	}
	return r
}

// specHasParams reports whether a path spec declares parameter tokens.
func specHasParams(spec string) bool {
	if spec == "" {
		return false
	}
	tokens, err := parsePattern(spec)
	if err != nil {
		return false
	}
	for _, t := range tokens {
		if t.key != nil {
			return true
		}
	}
	return false
}

// MountRouter structurally merges sub's entries into r, once per mount
// path (or once with no prefix when no path is given). Every entry is
// deep-copied, re-prefixed first by the mount path and then by r's own
// configured prefix, and appended after r's existing entries; r's stored
// parameter validators are applied to each copy. The copies are fully
// independent of sub, so mutating either router afterwards cannot alias
// the other.
//
// Mounting a router is an explicit operation: a plain middleware handed
// to Use or Mount is never inspected for being another router's
// dispatcher.
func (r *Router) MountRouter(sub *Router, paths ...string) *Router {
	if sub == r {
		panic(&ConfigurationError{Reason: "cannot mount a router into itself"})
	}
	if len(paths) == 0 {
		paths = []string{""}
	}

	for _, path := range paths {
		for _, src := range sub.routes {
			cp := src.clone()
			if path != "" {
				cp.SetPrefix(path)
			}
			if r.opts.Prefix != "" {
				cp.SetPrefix(r.opts.Prefix)
			}
			for _, p := range r.params {
				cp.Param(p.name, p.fn)
			}
			r.routes = append(r.routes, cp)
		}
	}
	return r
}

// Prefix stores prefix (sans trailing slash) as router configuration and
// re-derives the pattern of every existing entry.
func (r *Router) Prefix(prefix string) *Router {
	prefix = strings.TrimSuffix(prefix, "/")
	r.opts.Prefix = prefix
	if prefix == "" {
		return r
	}
	for _, rt := range r.routes {
		rt.SetPrefix(prefix)
	}
	return r
}

// Param stores a validator middleware for the named path parameter. It
// applies to routes registered from now on and retroactively to every
// existing route, spliced so validators run in left-to-right parameter
// order (see Route.Param).
func (r *Router) Param(name string, fn ParamFunc) *Router {
	r.params = append(r.params, paramEntry{name: name, fn: fn})
	for _, rt := range r.routes {
		rt.Param(name, fn)
	}
	return r
}

// RouteByName returns the first route (in registration order) registered
// with the given name, or nil when none carries it.
func (r *Router) RouteByName(name string) *Route {
	for _, rt := range r.routes {
		if rt.name == name {
			return rt
		}
	}
	return nil
}

// URL builds a URL for the named route. Unknown names return an error
// wrapping ErrRouteNotFound; the registry is left untouched. See
// Route.URL for the accepted argument shapes.
func (r *Router) URL(name string, args ...any) (string, error) {
	rt := r.RouteByName(name)
	if rt == nil {
		return "", fmt.Errorf("router: no route named %q: %w", name, ErrRouteNotFound)
	}
	return rt.URL(args...)
}

// URLFor builds a URL directly from a raw path spec without registering
// a route.
func URLFor(path string, args ...any) (string, error) {
	rt, err := newRoute(path, nil, nil, "", patternOptions{end: true})
	if err != nil {
		return "", err
	}
	return rt.URL(args...)
}
