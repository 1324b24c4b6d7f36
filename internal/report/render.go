package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/o3rg/o3rg/internal/types"
)

type PrintOptions struct {
	// Sort orders directory results by path then line before printing.
	Sort         bool
	Duration     time.Duration
	FilesScanned int
	FilesSkipped int
}

// PrintMatches writes one "line:text" row per match.
func PrintMatches(w io.Writer, matches []types.Match) {
	for _, m := range matches {
		fmt.Fprintf(w, "%d:%s\n", m.Line, m.Text)
	}
}

// PrintFileMatches writes one "path:line:text" row per match.
func PrintFileMatches(w io.Writer, matches []types.FileMatches, opts PrintOptions) {
	if opts.Sort {
		SortFileMatches(matches)
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s:%d:%s\n", m.Path, m.Line, m.Text)
	}
}

// PrintSummary writes the run statistics footer.
func PrintSummary(w io.Writer, matches int, opts PrintOptions) {
	fmt.Fprintf(w, "Matches: %d\n", matches)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Search duration: %.2fs\n", opts.Duration.Seconds())
	}
	fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	if opts.FilesSkipped > 0 {
		fmt.Fprintf(w, "Files skipped: %d\n", opts.FilesSkipped)
	}
}

// SortFileMatches orders matches by path, then line, in place.
func SortFileMatches(matches []types.FileMatches) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Path == matches[j].Path {
			return matches[i].Line < matches[j].Line
		}
		return matches[i].Path < matches[j].Path
	})
}
