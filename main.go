package main

import "github.com/o3rg/o3rg/cmd/o3rg"

func main() { o3rg.Execute() }
