// The main package for the pantone-scraper executable.
package main

import (
	"os"

	"github.com/swatchbook/pantone-scraper/cmd"
)

// main is the entry point of the application. It defers all execution to
// the Cobra CLI and exits non-zero on any fatal error.
func main() {
	os.Exit(cmd.Execute())
}
