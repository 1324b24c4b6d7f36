package ignore

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// loadGlobal returns the user's global excludes: core.excludesFile from
// ~/.gitconfig when set, otherwise git's default $XDG_CONFIG_HOME/git/ignore.
// Patterns are unscoped and matched relative to the repository root.
func loadGlobal() ([]gitignore.Pattern, error) {
	if home, _ := os.UserHomeDir(); home != "" {
		ps, err := gitignore.LoadGlobalPatterns(osfs.New("/"))
		if err != nil {
			return nil, err
		}
		if len(ps) > 0 {
			return ps, nil
		}
	}
	p := defaultGlobalPath()
	if p == "" {
		return nil, nil
	}
	return readPatterns(p, nil)
}

func defaultGlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "git", "ignore")
}
