package walker

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

const binarySniffBytes = 8000

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// allowedByGlobs returns true if relPath passes the include/exclude globs.
// Include globs, if any, act as a positive filter; exclude globs are
// subtracted last. Each glob is tried against the full relative path and the
// base name.
func allowedByGlobs(relPath string, includes, excludes []string) bool {
	rp := filepath.ToSlash(relPath)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

// ParseGlobsList splits a comma-separated glob list. Each glob is kept as
// written plus a variant without leading "./" and "**/" so that root-level
// files match "**/*.go".
func ParseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if t := trimGlobPrefix(p); t != p && t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ValidateGlobs reports the first malformed glob.
func ValidateGlobs(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return &GlobError{Glob: g}
		}
	}
	return nil
}

// GlobError reports a malformed include/exclude glob.
type GlobError struct{ Glob string }

func (e *GlobError) Error() string { return "invalid glob: " + e.Glob }

func matchAnyGlob(pathToMatch string, globs []string) bool {
	base := pathToMatch
	if i := strings.LastIndex(pathToMatch, "/"); i >= 0 {
		base = pathToMatch[i+1:]
	}
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// looksBinary reports whether the first bytes of the file contain a NUL.
func looksBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buf := make([]byte, binarySniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	for _, c := range buf[:n] {
		if c == 0 {
			return true, nil
		}
	}
	return false, nil
}
