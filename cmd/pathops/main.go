package main

import (
	"os"

	"github.com/pathops/pathops/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	// Execute reports the error itself; stdout stays reserved for the document.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
