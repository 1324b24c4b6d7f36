package core

import (
	"context"

	"github.com/o3rg/o3rg/internal/engine"
	"github.com/o3rg/o3rg/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Result = engine.Result
type Match = types.Match
type FileMatches = types.FileMatches
type HiddenPolicy = types.HiddenPolicy
type PatternError = types.PatternError
type IOError = types.IOError

const (
	HiddenDefault = types.HiddenDefault
	HiddenSkip    = types.HiddenSkip
	HiddenInclude = types.HiddenInclude
)

// SearchFile returns every line of the file at path that matches pattern,
// with the first matched span of each line.
func SearchFile(path, pattern string) ([]Match, error) {
	return engine.SearchFile(path, pattern)
}

// SearchDirectory searches every eligible file under root. A nil or true
// hidden skips dot-prefixed entries; false includes them.
func SearchDirectory(root, pattern string, hidden *bool) ([]FileMatches, error) {
	return engine.SearchDirectory(root, pattern, hidden)
}

// SearchDirectoryWithStats runs a cancellable directory search and returns
// matches along with counts and timing.
func SearchDirectoryWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.SearchDirectoryWithStats(ctx, cfg)
}
