package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, spec string, opts patternOptions) *pattern {
	t.Helper()
	p, err := compilePattern(spec, opts)
	require.NoError(t, err)
	return p
}

func TestCompilePattern(t *testing.T) {
	t.Run("literal path", func(t *testing.T) {
		p := mustCompile(t, "/users", patternOptions{end: true})
		assert.True(t, p.matchString("/users"))
		assert.True(t, p.matchString("/users/"))
		assert.False(t, p.matchString("/users/42"))
		assert.False(t, p.matchString("/user"))
	})

	t.Run("named parameter", func(t *testing.T) {
		p := mustCompile(t, "/users/:id", patternOptions{end: true})

		captures, ok := p.match("/users/42")
		require.True(t, ok)
		assert.Equal(t, []string{"42"}, captures)

		assert.False(t, p.matchString("/users"))
		assert.False(t, p.matchString("/users/42/posts"))
		assert.Equal(t, []string{"id"}, p.paramNames())
	})

	t.Run("multiple parameters keep spec order", func(t *testing.T) {
		p := mustCompile(t, "/forums/:fid/posts/:pid", patternOptions{end: true})

		captures, ok := p.match("/forums/1/posts/2")
		require.True(t, ok)
		assert.Equal(t, []string{"1", "2"}, captures)
		assert.Equal(t, []string{"fid", "pid"}, p.paramNames())
	})

	t.Run("custom sub-pattern", func(t *testing.T) {
		p := mustCompile(t, "/articles/:id([0-9]+)", patternOptions{end: true})
		assert.True(t, p.matchString("/articles/42"))
		assert.False(t, p.matchString("/articles/foo"))
	})

	t.Run("macro sub-pattern", func(t *testing.T) {
		p := mustCompile(t, "/articles/:page(int)", patternOptions{end: true})
		assert.True(t, p.matchString("/articles/7"))
		assert.False(t, p.matchString("/articles/seven"))
	})

	t.Run("optional parameter", func(t *testing.T) {
		p := mustCompile(t, "/users/:id?", patternOptions{end: true})

		captures, ok := p.match("/users")
		require.True(t, ok)
		assert.Equal(t, []string{""}, captures)

		captures, ok = p.match("/users/42")
		require.True(t, ok)
		assert.Equal(t, []string{"42"}, captures)
	})

	t.Run("repeated parameter", func(t *testing.T) {
		p := mustCompile(t, "/files/:path+", patternOptions{end: true})

		captures, ok := p.match("/files/a/b/c")
		require.True(t, ok)
		assert.Equal(t, []string{"a/b/c"}, captures)

		assert.False(t, p.matchString("/files"))
	})

	t.Run("optional repeated parameter", func(t *testing.T) {
		p := mustCompile(t, "/files/:path*", patternOptions{end: true})
		assert.True(t, p.matchString("/files"))
		assert.True(t, p.matchString("/files/a/b"))
	})

	t.Run("positional capture group", func(t *testing.T) {
		p := mustCompile(t, "/report\\.(csv|json)", patternOptions{end: true})

		captures, ok := p.match("/report.csv")
		require.True(t, ok)
		assert.Equal(t, []string{"csv"}, captures)
		assert.Equal(t, []string{"0"}, p.paramNames())
		assert.False(t, p.matchString("/reportxcsv"))
	})

	t.Run("case-insensitive by default", func(t *testing.T) {
		p := mustCompile(t, "/Users", patternOptions{end: true})
		assert.True(t, p.matchString("/users"))
	})

	t.Run("sensitive flag", func(t *testing.T) {
		p := mustCompile(t, "/Users", patternOptions{end: true, sensitive: true})
		assert.False(t, p.matchString("/users"))
		assert.True(t, p.matchString("/Users"))
	})

	t.Run("strict flag rejects trailing slash", func(t *testing.T) {
		p := mustCompile(t, "/users", patternOptions{end: true, strict: true})
		assert.True(t, p.matchString("/users"))
		assert.False(t, p.matchString("/users/"))
	})

	t.Run("non-strict spec with trailing slash matches both", func(t *testing.T) {
		p := mustCompile(t, "/users/", patternOptions{end: true})
		assert.True(t, p.matchString("/users"))
		assert.True(t, p.matchString("/users/"))
	})

	t.Run("root pattern", func(t *testing.T) {
		p := mustCompile(t, "/", patternOptions{end: true})
		assert.True(t, p.matchString("/"))
		assert.False(t, p.matchString("/users"))
	})

	t.Run("prefix match stops on segment boundary", func(t *testing.T) {
		p := mustCompile(t, "/api", patternOptions{})
		assert.True(t, p.matchString("/api"))
		assert.True(t, p.matchString("/api/"))
		assert.True(t, p.matchString("/api/users"))
		assert.False(t, p.matchString("/apikeys"))
	})

	t.Run("prefix match with parameter", func(t *testing.T) {
		p := mustCompile(t, "/forums/:fid", patternOptions{})

		captures, ok := p.match("/forums/7/posts/9")
		require.True(t, ok)
		assert.Equal(t, []string{"7"}, captures)
	})

	t.Run("catch-all group matches every path", func(t *testing.T) {
		p := mustCompile(t, "(.*)", patternOptions{})
		assert.True(t, p.matchString("/"))
		assert.True(t, p.matchString("/deeply/nested/path"))
	})

	t.Run("missing parameter name is an error", func(t *testing.T) {
		_, err := compilePattern("/users/:", patternOptions{end: true})
		assert.Error(t, err)
	})

	t.Run("unbalanced parentheses are an error", func(t *testing.T) {
		_, err := compilePattern("/users/:id([0-9]+", patternOptions{end: true})
		assert.Error(t, err)
	})
}

func TestPatternBuild(t *testing.T) {
	t.Run("positional values in declaration order", func(t *testing.T) {
		p := mustCompile(t, "/forums/:fid/posts/:pid", patternOptions{end: true})
		out, err := p.build(nil, []string{"1", "2"})
		require.NoError(t, err)
		assert.Equal(t, "/forums/1/posts/2", out)
	})

	t.Run("named values", func(t *testing.T) {
		p := mustCompile(t, "/users/:id", patternOptions{end: true})
		out, err := p.build(map[string]string{"id": "42"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/users/42", out)
	})

	t.Run("percent-encodes substituted values", func(t *testing.T) {
		p := mustCompile(t, "/search/:term", patternOptions{end: true})
		out, err := p.build(map[string]string{"term": "a b"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/search/a%20b", out)
	})

	t.Run("missing required value is an error", func(t *testing.T) {
		p := mustCompile(t, "/users/:id", patternOptions{end: true})
		_, err := p.build(nil, nil)
		assert.Error(t, err)
	})

	t.Run("missing optional value is skipped", func(t *testing.T) {
		p := mustCompile(t, "/users/:id?", patternOptions{end: true})
		out, err := p.build(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "/users", out)
	})

	t.Run("value must match the sub-pattern", func(t *testing.T) {
		p := mustCompile(t, "/articles/:id([0-9]+)", patternOptions{end: true})
		_, err := p.build(map[string]string{"id": "nope"}, nil)
		assert.Error(t, err)
	})

	t.Run("repeated parameter validates each segment", func(t *testing.T) {
		p := mustCompile(t, "/files/:path([a-z]+)+", patternOptions{end: true})

		out, err := p.build(map[string]string{"path": "a/b/c"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/files/a/b/c", out)

		_, err = p.build(map[string]string{"path": "a/9/c"}, nil)
		assert.Error(t, err)
	})

	t.Run("bare root builds as root", func(t *testing.T) {
		p := mustCompile(t, "/", patternOptions{end: true})
		out, err := p.build(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "/", out)
	})

	t.Run("built path round-trips through the matcher", func(t *testing.T) {
		p := mustCompile(t, "/users/:id", patternOptions{end: true})
		out, err := p.build(map[string]string{"id": "jané"}, nil)
		require.NoError(t, err)

		captures, ok := p.match(out)
		require.True(t, ok)
		decoded, err := url.PathUnescape(captures[0])
		require.NoError(t, err)
		assert.Equal(t, "jané", decoded)
	})
}
