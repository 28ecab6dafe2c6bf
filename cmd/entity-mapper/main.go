// Package main provides the entity-mapper CLI entrypoint.
package main

import (
	"os"

	"entity-mapper/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
