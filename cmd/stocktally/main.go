// Package main provides the entry point for the stocktally CLI tool.
package main

import (
	"github.com/sellsight/stocktally/cmd/stocktally/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
