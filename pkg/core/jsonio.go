package core

import (
	"encoding/json"
	"io"
)

// MarshalMatches pretty-prints single-file matches as JSON.
func MarshalMatches(w io.Writer, matches []Match) error {
	return encode(w, nonNil(matches))
}

// MarshalFileMatches pretty-prints directory matches as JSON for humans or
// pipelines.
func MarshalFileMatches(w io.Writer, matches []FileMatches) error {
	return encode(w, nonNil(matches))
}

// UnmarshalFileMatches decodes directory matches JSON, useful for ingestion tests.
func UnmarshalFileMatches(r io.Reader) ([]FileMatches, error) {
	var ms []FileMatches
	if err := json.NewDecoder(r).Decode(&ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// nonNil keeps an empty result rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
