// Package main is the entry point for the planquote CLI.
package main

import (
	"os"

	"github.com/Simplici0/planquote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
