// Package main is the entry point for the budscan CLI.
//
// Usage:
//
//	budscan [flags] <command> [args]
//
// Commands:
//
//	match     - Rank catalog entries against an annotation bundle
//	insights  - Mine packaging metadata from label text
//	palette   - Print the dominant colors of a photo
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/anatolykoptev/go-budscan/cmd/budscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
