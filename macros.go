package router

import (
	"fmt"
	"regexp"
)

// valueMatcher validates a single substituted parameter value during URL
// building. *regexp.Regexp satisfies this interface.
type valueMatcher interface {
	MatchString(string) bool
}

// boundedMatcher wraps a regexp with a maximum length constraint for
// macros whose grammar limits total length beyond what the regexp says.
type boundedMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *boundedMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

// macro pairs a sub-pattern with its pre-compiled whole-value matcher.
type macro struct {
	pattern string
	matcher valueMatcher
}

// paramMacros maps macro names usable in parameter sub-patterns, as in
// "/users/:id(int)" or "/keys/:key(uuid)".
var paramMacros = func() map[string]macro {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"float":    `[0-9]*\.?[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
	}

	// Macros that need length validation beyond the regexp.
	maxLengths := map[string]int{
		"domain": 253,
	}

	macros := make(map[string]macro, len(raw))
	for name, pattern := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^(?:%s)$", pattern))

		var matcher valueMatcher = re
		if maxLen, ok := maxLengths[name]; ok {
			matcher = &boundedMatcher{re: re, maxLen: maxLen}
		}

		macros[name] = macro{pattern: pattern, matcher: matcher}
	}

	return macros
}()

// expandMacro resolves a parameter sub-pattern that names a macro into
// its regexp pattern and pre-compiled matcher. Anything that is not a
// known macro name is returned unchanged with a nil matcher, so raw
// regexps keep working.
func expandMacro(pattern string) (string, valueMatcher) {
	if m, ok := paramMacros[pattern]; ok {
		return m.pattern, m.matcher
	}

	return pattern, nil
}
