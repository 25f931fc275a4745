// Package main provides the entry point for the roadwise CLI.
package main

import (
	"os"

	"github.com/roadwise/roadwise/cmd/roadwise/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
