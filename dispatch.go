package router

// matchResult groups the outcome of one registry scan.
type matchResult struct {
	// path holds every route whose pattern matched the lookup path.
	path []*Route

	// pathAndMethod holds the path matches that also accept the request
	// method (method-agnostic entries always do).
	pathAndMethod []*Route

	// route is true only when at least one path+method match has a
	// non-empty method set, distinguishing "a real endpoint matched"
	// from "only middleware matched".
	route bool
}

// match scans the entries once, in registration order.
func (r *Router) match(path, method string) *matchResult {
	m := &matchResult{}

	for _, rt := range r.routes {
		if !rt.Match(path) {
			continue
		}

		m.path = append(m.path, rt)

		if len(rt.methods) == 0 || containsString(rt.methods, method) {
			m.pathAndMethod = append(m.pathAndMethod, rt)
			if len(rt.methods) > 0 {
				m.route = true
			}
		}
	}

	return m
}

// Routes returns the router's dispatcher: a middleware that matches the
// request against the registry and executes the concatenated chains of
// every matching entry.
//
// The lookup path is the router's RouterPath option when set, else the
// context's RouterPath override, else the request path. Every path match
// is appended to the context's cross-dispatch accumulator so
// AllowedMethods can see matches from nested dispatchers within the same
// request. When no exact endpoint matched, control passes to the outer
// next handler; this is fallthrough, not an error.
//
// The chain executes matching entries in registration order. Each entry
// is preceded by a binder step that recomputes the entry's captures
// against the lookup path, merges them into the cumulative parameter map
// (later entries overwrite same-named parameters) and refreshes the
// exposed matched pattern and name, so that after execution they reflect
// the most specific (last registered) entry.
func (r *Router) Routes() Middleware {
	return func(c *Context, next Next) error {
		path := r.opts.RouterPath
		if path == "" {
			path = c.RouterPath
		}
		if path == "" {
			path = c.Path
		}

		matched := r.match(path, c.Method)
		c.matched = append(c.matched, matched.path...)

		if !matched.route {
			return next()
		}

		last := matched.pathAndMethod[len(matched.pathAndMethod)-1]
		c.matchedPattern = last.path
		if last.name != "" {
			c.matchedName = last.name
		}

		size := 0
		for _, rt := range matched.pathAndMethod {
			size += 1 + len(rt.stack)
		}

		chain := make([]Middleware, 0, size)
		for _, rt := range matched.pathAndMethod {
			chain = append(chain, bindRoute(rt, path))
			for _, s := range rt.stack {
				chain = append(chain, s.fn)
			}
		}

		return compose(chain)(c, next)
	}
}

// bindRoute returns the binder step that runs ahead of rt's own stack.
func bindRoute(rt *Route, path string) Middleware {
	return func(c *Context, next Next) error {
		c.Params = rt.mergeParams(rt.captures(path), c.Params)
		c.matchedPattern = rt.path
		if rt.name != "" {
			c.matchedName = rt.name
		}
		return next()
	}
}
