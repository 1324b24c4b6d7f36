// Package walker enumerates the files a directory search should visit. It
// applies ignore rules, the hidden-entry policy, include/exclude globs and
// depth/size limits, and guards against symbolic-link cycles.
package walker
