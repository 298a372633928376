package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, overridable by build flags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ccsubset",
	Short: "A compiler for a C subset targeting x86-64 assembly",
	Long: `ccsubset compiles a single preprocessed C translation unit
containing one "int name(void) { ... }" function into x86-64 assembly.

It does not run the C preprocessor, assembler, or linker itself --
those remain external tools. ccsubset only performs lexing, parsing,
semantic analysis, TAC generation, and assembly emission.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ccsubset version {{.Version}} (%s)\n", GitCommit))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func readInput(evalExpr string, args []string) (source, label string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}
