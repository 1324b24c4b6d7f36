// Package engine contains the core search logic for o3rg. It compiles the
// pattern, walks the target tree, fans files out to a worker pool and returns
// the collected matches. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine
