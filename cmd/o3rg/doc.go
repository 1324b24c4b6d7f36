// Package o3rg provides the command-line interface for the o3rg search tool.
// It configures subcommands (search, dir, config, completion), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/o3rg/o3rg/cmd/o3rg"
//	func main() { o3rg.Execute() }
package o3rg
