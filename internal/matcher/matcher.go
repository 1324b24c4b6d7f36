// Package matcher compiles the search expression and finds the first match
// within a single line.
package matcher

import (
	"regexp"

	"github.com/o3rg/o3rg/internal/types"
)

// Pattern is a compiled search expression. It is immutable and safe for
// concurrent use by multiple workers.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile parses expr. Syntax errors are returned as *types.PatternError
// carrying the parser diagnostic.
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &types.PatternError{Pattern: expr, Err: err}
	}
	return &Pattern{expr: expr, re: re}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level patterns.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// FindFirst returns the bounds of the leftmost match in line.
func (p *Pattern) FindFirst(line []byte) (start, end int, ok bool) {
	loc := p.re.FindIndex(line)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// Match reports whether line contains any match.
func (p *Pattern) Match(line []byte) bool { return p.re.Match(line) }

func (p *Pattern) String() string { return p.expr }
