// treegrep is a syntax-aware literal search tool. It finds pattern
// occurrences in source files and attributes each one to the node of the
// parsed syntax tree that contains it.
package main

import (
	"os"

	"github.com/corey/treegrep/cmd/treegrep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
