package cmd

import (
	"fmt"

	"github.com/skx/cc-subset/diag"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/token"
	"github.com/spf13/cobra"
)

var lexEvalExpr string

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a source file or inline expression and print the tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline source instead of reading a file")
}

func runLex(cmd *cobra.Command, args []string) error {
	source, label, err := readInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Printf("Tokenizing: %s\n", label)
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		exitWithError("%s", diag.From("lex", source, err).Format())
		return nil
	}

	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			fmt.Printf("%4d | EOF\n", tok.Line)
			continue
		}
		fmt.Printf("%4d | %-12s %q\n", tok.Line, tok.Kind, tok.Lexeme)
	}

	return nil
}
