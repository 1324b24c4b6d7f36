package types

import "fmt"

// Match is a single matching line: the 1-based line number and the first
// matched sub-span of that line.
type Match struct {
	Line uint64 `json:"line"`
	Text string `json:"text"`
}

func (m Match) String() string {
	return fmt.Sprintf("SearchMatch(%d, %s)", m.Line, m.Text)
}

// FileMatches pairs a Match with the file it was found in. It is only
// produced by directory searches.
type FileMatches struct {
	Match
	Path string `json:"path"`
}

// HiddenPolicy controls whether dot-prefixed entries are visited.
type HiddenPolicy int

const (
	// HiddenDefault defers to the ignore-rule default, which skips hidden entries.
	HiddenDefault HiddenPolicy = iota
	HiddenSkip
	HiddenInclude
)

// HiddenFromFlag maps the optional hidden flag of the public call surface
// onto a policy. Only an explicit false includes hidden entries; unset and
// true both skip them.
func HiddenFromFlag(hidden *bool) HiddenPolicy {
	switch {
	case hidden == nil:
		return HiddenDefault
	case *hidden:
		return HiddenSkip
	default:
		return HiddenInclude
	}
}

// IncludesHidden reports whether hidden entries are visited under p.
func (p HiddenPolicy) IncludesHidden() bool { return p == HiddenInclude }

func (p HiddenPolicy) String() string {
	switch p {
	case HiddenSkip:
		return "skip"
	case HiddenInclude:
		return "include"
	default:
		return "default"
	}
}
