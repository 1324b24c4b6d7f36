package ignore

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	// IgnoreFile is honoured in every directory.
	IgnoreFile = ".ignore"
	// GitIgnoreFile is honoured only inside a git repository unless
	// Options.NoRequireGit is set.
	GitIgnoreFile = ".gitignore"
	gitDir        = ".git"
)

// Options controls which rule sources are consulted.
type Options struct {
	// NoIgnore disables every ignore file.
	NoIgnore bool
	// NoRequireGit applies .gitignore and global excludes outside of git
	// repositories too.
	NoRequireGit bool
	// NoGlobal skips the user's global excludes file.
	NoGlobal bool
	// Files are additional ignore files applied relative to the walk root
	// with the lowest precedence.
	Files []string
}

// Matcher is a flat rule set loaded from a single file.
type Matcher struct {
	patterns []gitignore.Pattern
}

// Load reads one ignore file whose patterns are relative to the directory
// the walk starts in. A missing file yields an empty matcher and the error.
func Load(path string) (Matcher, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Matcher{}, err
	}
	return Matcher{patterns: parsePatterns(b, nil)}, nil
}

// Match reports whether the slash- or OS-separated relative path is ignored.
// Paths with a trailing separator are treated as directories.
func (m Matcher) Match(rel string) bool {
	isDir := len(rel) > 0 && (rel[len(rel)-1] == '/' || os.IsPathSeparator(rel[len(rel)-1]))
	return m.match(split(rel), isDir) == gitignore.Exclude
}

func (m Matcher) match(rel []string, isDir bool) gitignore.MatchResult {
	return match(m.patterns, rel, isDir)
}

// shared holds rule sources that do not vary per directory.
type shared struct {
	opts     Options
	global   []gitignore.Pattern
	explicit []Matcher
	root     []string
}

// Dir is the rule state for one directory. Children are derived with Child;
// a Dir is immutable once built and may be shared across goroutines.
type Dir struct {
	parent *Dir
	shared *shared
	path   []string
	// repo is the nearest directory at or above this one containing .git.
	repo    *Dir
	ignore  []gitignore.Pattern
	git     []gitignore.Pattern
	exclude []gitignore.Pattern
}

// NewRoot builds the rule chain for root, including ignore files found in
// every ancestor of root. Errors reading individual rule files are joined
// and returned alongside a usable Dir.
func NewRoot(root string, opts Options) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	sh := &shared{opts: opts, root: split(abs)}
	var errs []error
	if !opts.NoIgnore && !opts.NoGlobal {
		ps, err := loadGlobal()
		if err != nil {
			errs = append(errs, err)
		}
		sh.global = ps
	}
	for _, f := range opts.Files {
		m, err := Load(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sh.explicit = append(sh.explicit, m)
	}

	// chain from the filesystem root down to root itself
	var dirs []string
	for p := abs; ; {
		dirs = append(dirs, p)
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	var d *Dir
	for i := len(dirs) - 1; i >= 0; i-- {
		var cerr error
		if d == nil {
			d, cerr = newDir(nil, sh, dirs[i])
		} else {
			d, cerr = d.Child(dirs[i])
		}
		if cerr != nil {
			errs = append(errs, cerr)
		}
	}
	return d, errors.Join(errs...)
}

// Child returns the rule state for the subdirectory at path.
func (d *Dir) Child(path string) (*Dir, error) {
	return newDir(d, d.shared, path)
}

func newDir(parent *Dir, sh *shared, path string) (*Dir, error) {
	d := &Dir{parent: parent, shared: sh, path: split(path)}
	if parent != nil {
		d.repo = parent.repo
	}
	if sh.opts.NoIgnore {
		return d, nil
	}
	var errs []error
	if _, err := os.Lstat(filepath.Join(path, gitDir)); err == nil {
		d.repo = d
		ps, err := readPatterns(filepath.Join(path, gitDir, "info", "exclude"), d.path)
		if err != nil {
			errs = append(errs, err)
		}
		d.exclude = ps
	}
	ps, err := readPatterns(filepath.Join(path, IgnoreFile), d.path)
	if err != nil {
		errs = append(errs, err)
	}
	d.ignore = ps
	if d.gitEnabled() {
		ps, err := readPatterns(filepath.Join(path, GitIgnoreFile), d.path)
		if err != nil {
			errs = append(errs, err)
		}
		d.git = ps
	}
	return d, errors.Join(errs...)
}

func (d *Dir) gitEnabled() bool {
	return d.repo != nil || d.shared.opts.NoRequireGit
}

// Decision is the outcome of evaluating the rules for one path.
type Decision int

const (
	None Decision = iota
	Ignored
	// Whitelisted paths were re-included by a negated pattern.
	Whitelisted
)

// Matched reports whether path, an entry directly inside or below d, is
// excluded by the rules in effect at d.
func (d *Dir) Matched(path string, isDir bool) bool {
	return d.Decide(path, isDir) == Ignored
}

// Decide evaluates the rules in effect at d for path.
func (d *Dir) Decide(path string, isDir bool) Decision {
	if d.shared.opts.NoIgnore {
		return None
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return None
	}
	switch d.decide(split(abs), isDir) {
	case gitignore.Exclude:
		return Ignored
	case gitignore.Include:
		return Whitelisted
	default:
		return None
	}
}

func (d *Dir) decide(comps []string, isDir bool) gitignore.MatchResult {
	for cur := d; cur != nil; cur = cur.parent {
		if r := match(cur.ignore, comps, isDir); r != gitignore.NoMatch {
			return r
		}
	}
	// .gitignore files do not reach across a repository boundary
	for cur := d; cur != nil; cur = cur.parent {
		if r := match(cur.git, comps, isDir); r != gitignore.NoMatch {
			return r
		}
		if cur.repo == cur {
			break
		}
	}
	if d.repo != nil {
		if r := match(d.repo.exclude, comps, isDir); r != gitignore.NoMatch {
			return r
		}
	}
	if len(d.shared.global) > 0 && d.gitEnabled() {
		base := d.shared.root
		if d.repo != nil {
			base = d.repo.path
		}
		if rel, ok := relative(base, comps); ok {
			if r := match(d.shared.global, rel, isDir); r != gitignore.NoMatch {
				return r
			}
		}
	}
	if rel, ok := relative(d.shared.root, comps); ok {
		for i := len(d.shared.explicit) - 1; i >= 0; i-- {
			if r := d.shared.explicit[i].match(rel, isDir); r != gitignore.NoMatch {
				return r
			}
		}
	}
	return gitignore.NoMatch
}

func relative(base, comps []string) ([]string, bool) {
	if len(comps) <= len(base) {
		return nil, false
	}
	for i := range base {
		if base[i] != comps[i] {
			return nil, false
		}
	}
	return comps[len(base):], true
}
