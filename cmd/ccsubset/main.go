// Command ccsubset is the CLI driver for the compiler: it owns
// argument parsing, reading source files, and printing diagnostics.
// The pipeline itself lives in the compiler, lexer, parser, semantic,
// tac, and asm packages, none of which import this command or know
// they're being driven from a terminal.
package main

import (
	"os"

	"github.com/skx/cc-subset/cmd/ccsubset/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
