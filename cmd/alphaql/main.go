// Command alphaql is the command-line front end for the alpha expression
// engine: parsing, scalar/vectorized evaluation, static analysis, function
// listing, bundle management, and an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/stratoquant/alphaql/cmd/alphaql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
