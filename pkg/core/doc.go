// Package core provides a small, stable facade over o3rg's internal engine
// for external integrations. It re-exports a narrow API surface so that other
// programs can depend on a stable import path without reaching into internal
// packages.
//
// Example:
//
//	matches, err := core.SearchDirectory(".", `TODO\(\w+\)`, nil)
//	if err != nil { /* handle */ }
//	_ = core.MarshalFileMatches(os.Stdout, matches)
package core
