// Package report renders search results as plain text and computes result
// digests.
package report
