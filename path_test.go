package zenoh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	type TestCase struct {
		tName string
		in    string
		err   bool
	}
	tt := []TestCase{
		{tName: "valid", in: "/demo/example/hello"},
		{tName: "root child", in: "/demo"},
		{tName: "relative", in: "demo/example", err: true},
		{tName: "empty", in: "", err: true},
		{tName: "wildcard", in: "/demo/*", err: true},
		{tName: "double wildcard", in: "/demo/**", err: true},
		{tName: "empty segment", in: "/demo//example", err: true},
		{tName: "selector properties", in: "/demo?(name=Bob)", err: true},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			p, err := NewPath(tc.in)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.in, p.String())
		})
	}
}

func TestPathExpr_Matches(t *testing.T) {
	type TestCase struct {
		tName   string
		expr    string
		path    Path
		matches bool
	}
	tt := []TestCase{
		{tName: "exact", expr: "/demo/example", path: "/demo/example", matches: true},
		{tName: "exact mismatch", expr: "/demo/example", path: "/demo/other"},
		{tName: "star one segment", expr: "/demo/*", path: "/demo/example", matches: true},
		{tName: "star not two segments", expr: "/demo/*", path: "/demo/example/hello"},
		{tName: "star mid expression", expr: "/demo/*/hello", path: "/demo/example/hello", matches: true},
		{tName: "doublestar any depth", expr: "/demo/**", path: "/demo/example/hello", matches: true},
		{tName: "doublestar zero segments", expr: "/demo/example/**", path: "/demo/example", matches: true},
		{tName: "doublestar then literal", expr: "/demo/**/leaf", path: "/demo/a/b/leaf", matches: true},
		{tName: "doublestar then literal mismatch", expr: "/demo/**/leaf", path: "/demo/a/b/other"},
		{tName: "root doublestar", expr: "/**", path: "/anything/at/all", matches: true},
		{tName: "prefix not enough", expr: "/demo", path: "/demo/example"},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			expr, err := NewPathExpr(tc.expr)
			require.NoError(t, err)

			assert.Equal(t, tc.matches, expr.Matches(tc.path))
		})
	}
}

func TestNewPathExpr_invalid(t *testing.T) {
	for _, in := range []string{"", "relative/*", "/demo/ex*mple", "/demo?k=v"} {
		_, err := NewPathExpr(in)
		assert.Error(t, err, in)
	}
}

func TestPathExpr_redisGlob(t *testing.T) {
	type TestCase struct {
		tName string
		expr  string
		glob  string
	}
	tt := []TestCase{
		{tName: "no wildcards", expr: "/demo/example", glob: "/demo/example"},
		{tName: "star", expr: "/demo/*", glob: "/demo/*"},
		{tName: "doublestar covers the parent", expr: "/demo/**", glob: "/demo*"},
		{tName: "root doublestar", expr: "/**", glob: "*"},
		{tName: "doublestar then literal", expr: "/demo/**/leaf", glob: "/demo*/leaf"},
		{tName: "adjacent wildcards", expr: "/demo/**/*", glob: "/demo*/*"},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			expr, err := NewPathExpr(tc.expr)
			require.NoError(t, err)

			assert.Equal(t, tc.glob, expr.redisGlob())
		})
	}
}

func TestNewSelector(t *testing.T) {
	type TestCase struct {
		tName string
		in    string
		expr  string
		props Properties
		err   bool
	}
	tt := []TestCase{
		{
			tName: "plain",
			in:    "/demo/example/**",
			expr:  "/demo/example/**",
			props: Properties{},
		},
		{
			tName: "parenthesised properties",
			in:    "/demo/example/eval?(name=Bob)",
			expr:  "/demo/example/eval",
			props: Properties{"name": "Bob"},
		},
		{
			tName: "bare properties",
			in:    "/demo/example/eval?name=Bob;lang=go",
			expr:  "/demo/example/eval",
			props: Properties{"name": "Bob", "lang": "go"},
		},
		{
			tName: "path valued property",
			in:    "/demo/example/eval?(name=/demo/example/name)",
			expr:  "/demo/example/eval",
			props: Properties{"name": "/demo/example/name"},
		},
		{
			tName: "invalid expression",
			in:    "demo/**",
			err:   true,
		},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.tName, func(t *testing.T) {
			t.Parallel()

			sel, err := NewSelector(tc.in)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expr, sel.PathExpr().String())
			assert.Equal(t, tc.props, sel.Properties())
		})
	}
}

func TestSelectorFromPath(t *testing.T) {
	p, err := NewPath("/demo/example/hello")
	require.NoError(t, err)

	sel := SelectorFromPath(p)

	assert.True(t, sel.Matches(p))
	assert.False(t, sel.Matches("/demo/example/other"))
	assert.Equal(t, "/demo/example/hello", sel.String())
}

func TestSelector_String(t *testing.T) {
	sel, err := NewSelector("/demo/example/eval?(name=Bob)")
	require.NoError(t, err)

	assert.Equal(t, "/demo/example/eval?(name=Bob)", sel.String())

	plain, err := NewSelector("/demo/**")
	require.NoError(t, err)

	assert.Equal(t, "/demo/**", plain.String())
}
