package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// step is one element of a route's middleware stack. param is non-empty
// when the step was spliced in by Param and validates that parameter.
type step struct {
	fn    Middleware
	param string
}

// Route is one registered entry: a compiled pattern, an HTTP method set
// and an ordered middleware stack. An empty method set makes the entry
// method-agnostic (a mounted middleware entry rather than an endpoint).
//
// Routes are built during the configuration phase and must not be
// mutated once the router starts serving.
type Route struct {
	path    string
	methods []string
	stack   []step
	name    string
	opts    patternOptions
	pattern *pattern
}

// newRoute compiles path and widens a method set containing GET to also
// accept HEAD on the same entry, per RFC 9110 Section 9.3.2 (HEAD shares
// GET's semantics minus the body).
func newRoute(path string, methods []string, middleware []Middleware, name string, opts patternOptions) (*Route, error) {
	set := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		set = append(set, strings.ToUpper(m))
	}
	if containsString(set, http.MethodGet) && !containsString(set, http.MethodHead) {
		set = append([]string{http.MethodHead}, set...)
	}

	stack := make([]step, 0, len(middleware))
	for _, fn := range middleware {
		stack = append(stack, step{fn: fn})
	}

	rt := &Route{
		path:    path,
		methods: set,
		stack:   stack,
		name:    name,
		opts:    opts,
	}
	if err := rt.compile(); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *Route) compile() error {
	p, err := compilePattern(rt.path, rt.opts)
	if err != nil {
		return err
	}
	rt.pattern = p
	return nil
}

// Name sets the route name, used for lookup and URL generation. Returns
// the route for chaining.
func (rt *Route) Name(name string) *Route {
	rt.name = name
	return rt
}

// GetName returns the route name, if any.
func (rt *Route) GetName() string {
	return rt.name
}

// Path returns the route's current path spec, including any applied
// prefixes.
func (rt *Route) Path() string {
	return rt.path
}

// Methods returns a copy of the route's method set. Empty means the
// entry is method-agnostic.
func (rt *Route) Methods() []string {
	return append([]string(nil), rt.methods...)
}

// Match reports whether path matches the route's pattern.
func (rt *Route) Match(path string) bool {
	return rt.pattern.matchString(path)
}

// captures returns the raw captured groups for path, or nil when the
// route ignores captures or does not match.
func (rt *Route) captures(path string) []string {
	if rt.opts.ignoreCaptures {
		return nil
	}
	caps, ok := rt.pattern.match(path)
	if !ok {
		return nil
	}
	return caps
}

// mergeParams decodes captures into parameter values and merges them
// into existing (allocating a map when existing is nil). Parameters
// captured here overwrite same-named entries from earlier routes.
func (rt *Route) mergeParams(captures []string, existing map[string]string) map[string]string {
	params := existing
	if params == nil {
		params = make(map[string]string, len(rt.pattern.keys))
	}
	for i, k := range rt.pattern.keys {
		if i >= len(captures) || captures[i] == "" {
			continue
		}
		params[k.name] = safeDecode(captures[i])
	}
	return params
}

// safeDecode percent-decodes a captured value. A malformed escape keeps
// the raw capture verbatim instead of failing the request.
func safeDecode(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

// URLOptions adjust URL generation.
type URLOptions struct {
	// Query is appended to the generated path. It may be a literal
	// string, a url.Values serialized with Encode, or any QueryEncoder.
	Query any
}

// QueryEncoder serializes a structured query value for URL generation.
// The encoding convention is the caller's; the router only joins the
// result with "?".
type QueryEncoder interface {
	EncodeQuery() string
}

// URL builds a URL for the route. Arguments may be positional strings
// (in parameter declaration order), a single map[string]string of named
// values, and an optional URLOptions; the styles are disambiguated by
// argument type and may be combined, named values taking precedence.
func (rt *Route) URL(args ...any) (string, error) {
	named, positional, opts, err := splitURLArgs(args)
	if err != nil {
		return "", err
	}

	path, err := rt.pattern.build(named, positional)
	if err != nil {
		return "", err
	}

	if opts != nil && opts.Query != nil {
		query, err := encodeQuery(opts.Query)
		if err != nil {
			return "", err
		}
		if query != "" {
			path += "?" + strings.TrimPrefix(query, "?")
		}
	}

	return path, nil
}

func splitURLArgs(args []any) (map[string]string, []string, *URLOptions, error) {
	var (
		named      map[string]string
		positional []string
		opts       *URLOptions
	)

	for _, arg := range args {
		switch v := arg.(type) {
		case map[string]string:
			named = v
		case string:
			positional = append(positional, v)
		case *URLOptions:
			opts = v
		case URLOptions:
			opts = &v
		default:
			return nil, nil, nil, fmt.Errorf("router: unsupported URL argument type %T", arg)
		}
	}

	return named, positional, opts, nil
}

func encodeQuery(query any) (string, error) {
	switch v := query.(type) {
	case string:
		return v, nil
	case url.Values:
		return v.Encode(), nil
	case QueryEncoder:
		return v.EncodeQuery(), nil
	default:
		return "", fmt.Errorf("router: unsupported query type %T", query)
	}
}

// ParamFunc validates or loads one path parameter before the owning
// route's own middleware runs. It receives the decoded parameter value.
type ParamFunc func(value string, c *Context, next Next) error

// Param splices a validator for the named parameter into the middleware
// stack: before the first existing validator whose parameter occurs
// later in the pattern's parameter order, otherwise before the first
// non-validator step. Validators therefore always execute in
// left-to-right path-parameter order, regardless of the order Param was
// called. A name absent from the pattern is a no-op.
func (rt *Route) Param(name string, fn ParamFunc) *Route {
	names := rt.pattern.paramNames()
	x := indexOfString(names, name)
	if x < 0 {
		return rt
	}

	validator := step{
		param: name,
		fn: func(c *Context, next Next) error {
			value, ok := c.Params[name]
			if !ok {
				return next()
			}
			return fn(value, c, next)
		},
	}

	for i, s := range rt.stack {
		if s.param == "" || indexOfString(names, s.param) > x {
			rt.stack = append(rt.stack[:i], append([]step{validator}, rt.stack[i:]...)...)
			return rt
		}
	}
	rt.stack = append(rt.stack, validator)
	return rt
}

// SetPrefix recompiles the route's pattern with prefix prepended. A bare
// non-strict root path is replaced by the prefix outright so mounting
// does not produce a doubled separator. Panics with *ConfigurationError
// when the combined spec does not compile, since prefixing happens
// during setup.
func (rt *Route) SetPrefix(prefix string) *Route {
	if prefix == "" {
		return rt
	}

	if rt.path != "/" || rt.opts.strict {
		rt.path = prefix + rt.path
	} else {
		rt.path = prefix
	}

	if err := rt.compile(); err != nil {
		panic(&ConfigurationError{Reason: err.Error()})
	}
	return rt
}

// clone deep-copies the route: a freshly compiled pattern and a new
// stack slice, so a merged copy never aliases the source and later
// mutation of either side stays independent.
func (rt *Route) clone() *Route {
	cp := &Route{
		path:    rt.path,
		methods: append([]string(nil), rt.methods...),
		stack:   append([]step(nil), rt.stack...),
		name:    rt.name,
		opts:    rt.opts,
	}
	if err := cp.compile(); err != nil {
		// The source pattern compiled; recompiling the same spec cannot fail.
		panic(&ConfigurationError{Reason: err.Error()})
	}
	return cp
}
