// Package main is the entry point for the finpyme CLI.
package main

import (
	"os"

	"github.com/Dan9191/finpyme/cmd/finpyme/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
