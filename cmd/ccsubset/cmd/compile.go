package cmd

import (
	"fmt"

	"github.com/skx/cc-subset/asm"
	"github.com/skx/cc-subset/compiler"
	"github.com/skx/cc-subset/diag"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
	"github.com/skx/cc-subset/tac"
	"github.com/spf13/cobra"
)

var (
	compileEvalExpr string
	emitStage       = newStageFlag(stageAsm)
	targetValue     = newTargetFlag(compiler.DefaultTarget())
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file or inline expression",
	Long: `compile runs the full pipeline -- lexing, parsing, semantic
analysis, TAC generation, and assembly emission -- over a single
"int name(void) { ... }" translation unit.

--emit stops after the named stage and prints its intermediate form
instead of finishing code generation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileEvalExpr, "eval", "e", "", "compile inline source instead of reading a file")
	compileCmd.Flags().Var(emitStage, "emit", "stop after this stage: tokens, ast, tac, or asm")
	compileCmd.Flags().Var(targetValue, "target", "assembly target: linux or darwin")
}

func runCompile(cmd *cobra.Command, args []string) error {
	source, _, err := readInput(compileEvalExpr, args)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		exitWithError("%s", diag.From("lex", source, err).Format())
		return nil
	}
	if emitStage.value == stageToken {
		for _, tok := range tokens {
			fmt.Printf("%4d | %-12s %q\n", tok.Line, tok.Kind, tok.Lexeme)
		}
		return nil
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		exitWithError("%s", diag.From("parse", source, err).Format())
		return nil
	}
	if emitStage.value == stageAst {
		printFunction(prog.Function, 0)
		return nil
	}

	prog, err = semantic.Validate(prog)
	if err != nil {
		exitWithError("%s", diag.From("semantic", source, err).Format())
		return nil
	}

	tacProg := tac.Emit(prog)
	if emitStage.value == stageTac {
		for _, ins := range tacProg.Instrs {
			fmt.Println(ins.String())
		}
		return nil
	}

	fmt.Print(asm.Generate(tacProg, prog.Function.Name, targetValue.value))
	return nil
}
