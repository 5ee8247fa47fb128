package zenoh

import (
	"fmt"
	"strings"
)

// A Path identifies a single resource in the zenoh namespace. Paths are
// absolute, /-separated and contain no wildcards.
type Path string

// NewPath validates and returns a Path.
func NewPath(s string) (Path, error) {
	if s == "" || !strings.HasPrefix(s, "/") {
		return "", fmt.Errorf("invalid path %q: must start with /", s)
	}
	if strings.ContainsAny(s, "*?#[]") {
		return "", fmt.Errorf("invalid path %q: wildcards are not allowed in paths", s)
	}
	if strings.Contains(s, "//") {
		return "", fmt.Errorf("invalid path %q: empty segment", s)
	}

	return Path(s), nil
}

func (p Path) String() string { return string(p) }

// A PathExpr is a path that may contain wildcards: * matches exactly one
// segment, ** matches any number of segments including none.
type PathExpr struct {
	expr string
	segs []string
}

// NewPathExpr validates and returns a PathExpr.
func NewPathExpr(s string) (PathExpr, error) {
	if s == "" || !strings.HasPrefix(s, "/") {
		return PathExpr{}, fmt.Errorf("invalid path expression %q: must start with /", s)
	}
	if strings.ContainsAny(s, "?#[]") {
		return PathExpr{}, fmt.Errorf("invalid path expression %q: reserved character", s)
	}

	segs := strings.Split(strings.TrimPrefix(s, "/"), "/")
	for _, seg := range segs {
		if seg != "*" && seg != "**" && strings.Contains(seg, "*") {
			return PathExpr{}, fmt.Errorf("invalid path expression %q: segment %q mixes wildcard and text", s, seg)
		}
	}

	return PathExpr{expr: s, segs: segs}, nil
}

func (e PathExpr) String() string { return e.expr }

// IsPath reports whether the expression contains no wildcards and therefore
// addresses a single path.
func (e PathExpr) IsPath() bool {
	return !strings.Contains(e.expr, "*")
}

// Matches reports whether the expression matches the given path.
func (e PathExpr) Matches(p Path) bool {
	segs := strings.Split(strings.TrimPrefix(string(p), "/"), "/")
	return matchSegments(e.segs, segs)
}

// matchSegments matches expression segments against path segments. ** may
// swallow zero or more path segments, so on ** the remainder of the
// expression is tried against every possible suffix.
func matchSegments(expr, path []string) bool {
	if len(expr) == 0 {
		return len(path) == 0
	}

	if expr[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchSegments(expr[1:], path[i:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}

	if expr[0] != "*" && expr[0] != path[0] {
		return false
	}

	return matchSegments(expr[1:], path[1:])
}

// redisGlob converts the expression to a Redis glob pattern usable as a
// coarse server side prefilter. Redis * crosses segment boundaries so the
// result over-matches; callers must confirm with Matches. The slash before a
// ** folds into the glob star: ** matches zero segments, so /demo/** has to
// cover /demo itself.
func (e PathExpr) redisGlob() string {
	glob := e.expr
	for strings.Contains(glob, "/**") {
		glob = strings.ReplaceAll(glob, "/**", "*")
	}
	for strings.Contains(glob, "**") {
		glob = strings.ReplaceAll(glob, "**", "*")
	}

	return glob
}

// A Selector identifies a set of resources: a path expression plus optional
// properties used by evals, e.g. /demo/example/eval?(name=Bob).
type Selector struct {
	expr  PathExpr
	props Properties
}

// NewSelector parses and validates a selector string. Properties follow a ?
// and may be wrapped in parentheses: ?(k=v;k=v) or ?k=v;k=v.
func NewSelector(s string) (Selector, error) {
	exprPart, propsPart, hasProps := strings.Cut(s, "?")

	expr, err := NewPathExpr(exprPart)
	if err != nil {
		return Selector{}, err
	}

	props := Properties{}
	if hasProps {
		propsPart = strings.TrimSuffix(strings.TrimPrefix(propsPart, "("), ")")
		props = PropertiesFromString(propsPart)
	}

	return Selector{expr: expr, props: props}, nil
}

// SelectorFromPath returns the selector addressing exactly the given path.
func SelectorFromPath(p Path) Selector {
	// a validated Path is always a valid PathExpr
	expr, _ := NewPathExpr(string(p))
	return Selector{expr: expr, props: Properties{}}
}

func (s Selector) String() string {
	if len(s.props) == 0 {
		return s.expr.String()
	}

	return s.expr.String() + "?(" + s.props.String() + ")"
}

// PathExpr returns the selector's path expression.
func (s Selector) PathExpr() PathExpr { return s.expr }

// Properties returns the selector's properties, never nil.
func (s Selector) Properties() Properties {
	if s.props == nil {
		return Properties{}
	}

	return s.props
}

// Matches reports whether the selector's path expression matches the path.
func (s Selector) Matches(p Path) bool {
	return s.expr.Matches(p)
}
