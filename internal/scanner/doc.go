// Package scanner splits a byte stream into lines and reports the first
// match on every matching line. ScanPath wraps Scan for a filesystem path
// and classifies open/read failures as *types.IOError.
package scanner
