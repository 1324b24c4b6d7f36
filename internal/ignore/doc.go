// Package ignore evaluates gitignore-style exclusion rules while a directory
// tree is walked. Rules come from per-directory .ignore and .gitignore files,
// the repository's .git/info/exclude, the user's global excludes file and
// any explicitly supplied ignore files. Pattern parsing and matching is
// delegated to go-git's gitignore implementation.
//
// Precedence mirrors ripgrep: a decision from any .ignore file wins over
// .gitignore, which wins over info/exclude, then global excludes, then
// explicit files. Within each kind the deepest directory wins, and within
// one file the last matching line wins. .gitignore files are collected only up
// to the nearest repository root.
package ignore
