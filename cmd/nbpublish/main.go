// Package main is the entry point for the nbpublish CLI.
package main

import (
	"os"

	"github.com/jmylchreest/nbpublish/cmd/nbpublish/commands"
)

func main() {
	os.Exit(commands.Execute())
}
