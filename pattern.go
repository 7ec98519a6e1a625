package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// defaultParamPattern matches a single path segment per RFC 3986
// Section 3.3.
const defaultParamPattern = `[^/]+`

// paramKey describes one parameter token of a compiled pattern, in the
// order the tokens appear in the path spec.
type paramKey struct {
	// name is the parameter name, or the capture position rendered as a
	// string for unnamed groups.
	name string

	// prefix is the literal delimiter immediately preceding the token,
	// usually "/".
	prefix string

	// pattern is the value sub-pattern the token captures.
	pattern string

	// optional and repeat reflect the ?, + and * modifiers.
	optional bool
	repeat   bool

	// matcher validates substituted values during URL building.
	matcher valueMatcher
}

// token is one element of a parsed path spec: either literal text or a
// parameter.
type token struct {
	literal string
	key     *paramKey
}

// patternOptions holds the compile-time flags of a pattern.
type patternOptions struct {
	// sensitive enables case-sensitive matching.
	sensitive bool

	// strict disables the implicit optional trailing slash.
	strict bool

	// end anchors the pattern at the end of the path. False makes it a
	// prefix matcher, used for middleware mount points.
	end bool

	// ignoreCaptures drops captured groups from parameter extraction.
	// Set for pathless mounts so a synthetic catch-all capture does not
	// pollute the parameter map.
	ignoreCaptures bool
}

// pattern is a compiled path spec. It is immutable once compiled;
// applying a prefix compiles a new pattern from the combined spec.
type pattern struct {
	spec   string
	regexp *regexp.Regexp
	tokens []token
	keys   []paramKey
	opts   patternOptions
}

// compilePattern parses spec and builds the matching regexp. The param
// descriptor list preserves the order tokens appear in the spec.
func compilePattern(spec string, opts patternOptions) (*pattern, error) {
	tokens, err := parsePattern(spec)
	if err != nil {
		return nil, err
	}

	var (
		b    strings.Builder
		keys []paramKey
	)

	if !opts.sensitive {
		b.WriteString("(?i)")
	}
	b.WriteByte('^')

	for _, t := range tokens {
		if t.key == nil {
			b.WriteString(regexp.QuoteMeta(t.literal))
			continue
		}

		k := *t.key
		capture := k.pattern
		if k.repeat {
			delim := k.prefix
			if delim == "" {
				delim = "/"
			}
			capture = fmt.Sprintf("(?:%s)(?:%s(?:%s))*", capture, regexp.QuoteMeta(delim), capture)
		}

		switch {
		case k.optional && k.prefix != "":
			fmt.Fprintf(&b, "(?:%s(%s))?", regexp.QuoteMeta(k.prefix), capture)
		case k.optional:
			fmt.Fprintf(&b, "(%s)?", capture)
		default:
			fmt.Fprintf(&b, "%s(%s)", regexp.QuoteMeta(k.prefix), capture)
		}

		keys = append(keys, k)
	}

	// Without strict mode a trailing slash in the spec stays optional:
	// drop it from the regexp body (it can only come from a literal) and
	// let the optional suffix below or the boundary check in match
	// accept both forms.
	body := b.String()
	if !opts.strict && strings.HasSuffix(body, "/") {
		body = body[:len(body)-1]
	}

	if opts.end {
		if !opts.strict {
			body += "/?"
		}
		body += "$"
	}
	// Prefix patterns (end=false) stay unanchored on the right; the
	// segment-boundary check lives in match because RE2 has no lookahead
	// equivalent of (?=/|$).

	re, err := compileRegexp(body)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", spec, err)
	}

	return &pattern{
		spec:   spec,
		regexp: re,
		tokens: tokens,
		keys:   keys,
		opts:   opts,
	}, nil
}

// parsePattern splits spec into literal and parameter tokens. Supported
// syntax: literal text, ":name" parameters, ":name(pattern)" custom
// sub-patterns (the pattern may be a macro name, see macros.go),
// "(pattern)" positional captures, "?", "+" and "*" modifiers after a
// parameter, and backslash escapes.
func parsePattern(spec string) ([]token, error) {
	var (
		tokens  []token
		literal strings.Builder
		group   int
	)

	// flushLiteral appends the pending literal text as a token, peeling
	// off a trailing slash as the next parameter's prefix when asked.
	flushLiteral := func(peelPrefix bool) string {
		lit := literal.String()
		literal.Reset()

		prefix := ""
		if peelPrefix && strings.HasSuffix(lit, "/") {
			prefix = "/"
			lit = lit[:len(lit)-1]
		}
		if lit != "" {
			tokens = append(tokens, token{literal: lit})
		}
		return prefix
	}

	for i := 0; i < len(spec); {
		switch {
		case spec[i] == '\\' && i+1 < len(spec):
			literal.WriteByte(spec[i+1])
			i += 2

		case spec[i] == ':':
			j := i + 1
			for j < len(spec) && isParamNameByte(spec[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("missing parameter name at offset %d in %q", i, spec)
			}
			name := spec[i+1 : j]
			i = j

			valuePattern := defaultParamPattern
			var matcher valueMatcher
			if i < len(spec) && spec[i] == '(' {
				inner, n, err := readGroup(spec[i:], spec)
				if err != nil {
					return nil, err
				}
				valuePattern, matcher = expandMacro(inner)
				i += n
			}

			key := paramKey{name: name, pattern: valuePattern, matcher: matcher}
			i = readModifier(spec, i, &key)

			if key.matcher == nil {
				m, err := compileValueMatcher(key.pattern)
				if err != nil {
					return nil, fmt.Errorf("invalid sub-pattern for parameter %q in %q: %w", name, spec, err)
				}
				key.matcher = m
			}

			key.prefix = flushLiteral(true)
			tokens = append(tokens, token{key: &key})

		case spec[i] == '(':
			inner, n, err := readGroup(spec[i:], spec)
			if err != nil {
				return nil, err
			}
			i += n

			key := paramKey{name: strconv.Itoa(group), pattern: inner}
			group++
			i = readModifier(spec, i, &key)

			m, err := compileValueMatcher(key.pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid capture group in %q: %w", spec, err)
			}
			key.matcher = m

			key.prefix = flushLiteral(true)
			tokens = append(tokens, token{key: &key})

		default:
			literal.WriteByte(spec[i])
			i++
		}
	}

	flushLiteral(false)
	return tokens, nil
}

// readGroup consumes a balanced parenthesized group at the start of s
// and returns its inner text plus the number of bytes consumed.
func readGroup(s, spec string) (string, int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unbalanced parentheses in %q", spec)
}

// readModifier consumes an optional ?, + or * after a parameter token.
func readModifier(spec string, i int, key *paramKey) int {
	if i >= len(spec) {
		return i
	}
	switch spec[i] {
	case '?':
		key.optional = true
	case '+':
		key.repeat = true
	case '*':
		key.optional = true
		key.repeat = true
	default:
		return i
	}
	return i + 1
}

// compileValueMatcher builds the whole-value validator used by URL
// building for a raw sub-pattern.
func compileValueMatcher(valuePattern string) (valueMatcher, error) {
	re, err := compileRegexp(fmt.Sprintf("^(?:%s)$", valuePattern))
	if err != nil {
		return nil, err
	}
	return re, nil
}

func isParamNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// match tests path against the pattern and returns the raw captured
// groups. For prefix patterns the match must stop on a segment boundary:
// at the end of the path, just before a slash, or just after one.
func (p *pattern) match(path string) ([]string, bool) {
	loc := p.regexp.FindStringSubmatchIndex(path)
	if loc == nil || loc[0] != 0 {
		return nil, false
	}

	if !p.opts.end {
		end := loc[1]
		if end < len(path) && path[end] != '/' && (end == 0 || path[end-1] != '/') {
			return nil, false
		}
	}

	captures := make([]string, len(p.keys))
	for i := range p.keys {
		start, stop := loc[2*(i+1)], loc[2*(i+1)+1]
		if start >= 0 {
			captures[i] = path[start:stop]
		}
	}
	return captures, true
}

// matchString reports whether path matches the pattern.
func (p *pattern) matchString(path string) bool {
	_, ok := p.match(path)
	return ok
}

// paramNames returns the parameter names in spec order.
func (p *pattern) paramNames() []string {
	names := make([]string, len(p.keys))
	for i, k := range p.keys {
		names[i] = k.name
	}
	return names
}

// build substitutes parameter values back into the spec, percent-encoding
// each value per RFC 3986 Section 2.1. Values come from the named map
// when present there, otherwise from the positional list in declaration
// order. Repeated parameters accept a pre-joined "a/b/c" value whose
// segments are validated individually.
func (p *pattern) build(named map[string]string, positional []string) (string, error) {
	var b strings.Builder
	pos := 0

	for _, t := range p.tokens {
		if t.key == nil {
			b.WriteString(t.literal)
			continue
		}

		k := t.key
		value, ok := named[k.name]
		if !ok && pos < len(positional) {
			value = positional[pos]
			pos++
			ok = true
		}
		if !ok {
			if k.optional {
				continue
			}
			return "", fmt.Errorf("router: missing value for parameter %q in %q", k.name, p.spec)
		}

		segments := []string{value}
		delim := k.prefix
		if delim == "" {
			delim = "/"
		}
		if k.repeat {
			segments = strings.Split(value, "/")
		}

		b.WriteString(k.prefix)
		for i, segment := range segments {
			if !k.matcher.MatchString(segment) {
				return "", fmt.Errorf("router: value %q for parameter %q does not match %q",
					segment, k.name, k.pattern)
			}
			if i > 0 {
				b.WriteString(delim)
			}
			b.WriteString(url.PathEscape(segment))
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
