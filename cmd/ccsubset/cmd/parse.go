package cmd

import (
	"fmt"

	"github.com/skx/cc-subset/ast"
	"github.com/skx/cc-subset/diag"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file or inline expression and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline source instead of reading a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	source, _, err := readInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		exitWithError("%s", diag.From("lex", source, err).Format())
		return nil
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		exitWithError("%s", diag.From("parse", source, err).Format())
		return nil
	}

	printFunction(prog.Function, 0)
	return nil
}

func printFunction(fn *ast.Function, depth int) {
	fmt.Printf("%sFunction %s\n", indent(depth), fn.Name)
	printBlock(fn.Body, depth+1)
}

func printBlock(b *ast.Block, depth int) {
	fmt.Printf("%sBlock\n", indent(depth))
	for _, item := range b.Items {
		printNode(item, depth+1)
	}
}

func printNode(n ast.Node, depth int) {
	switch v := n.(type) {
	case *ast.Declaration:
		fmt.Printf("%sDeclaration %s\n", indent(depth), v.Name)
	case *ast.Compound:
		printBlock(v.Block, depth)
	case *ast.If:
		fmt.Printf("%sIf\n", indent(depth))
		printNode(v.Then, depth+1)
		if v.Else != nil {
			printNode(v.Else, depth+1)
		}
	default:
		fmt.Printf("%s%T\n", indent(depth), n)
	}
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	return out
}
