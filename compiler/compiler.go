// Package compiler wires the four stages — lexing, parsing, semantic
// analysis, and code generation — into the single public entry point
// the CLI (and anyone embedding this module) calls.
//
// Like the original expression compiler this is descended from, the
// three-step shape survives: tokenize, convert to an internal form,
// then walk that form generating output. Only the internal form
// itself has changed, from a flat RPN instruction list to a full
// AST/TAC/assembly pipeline.
package compiler

import (
	"runtime"

	"github.com/skx/cc-subset/asm"
	"github.com/skx/cc-subset/ast"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
	"github.com/skx/cc-subset/tac"
)

// Options controls code generation.
type Options struct {
	// Target selects the platform-specific symbol-naming convention.
	Target asm.Target
}

// DefaultTarget reports the assembly target matching the host this
// process is running on.
func DefaultTarget() asm.Target {
	if runtime.GOOS == "darwin" {
		return asm.Darwin
	}
	return asm.Linux
}

// Compile runs the whole pipeline over source and returns the
// generated assembly text, or the first error any stage reports.
func Compile(source string, opts Options) (string, error) {
	prog, err := Analyze(source)
	if err != nil {
		return "", err
	}
	return asm.Generate(tac.Emit(prog), prog.Function.Name, opts.Target), nil
}

// Analyze runs the front end only — lexing, parsing, and semantic
// analysis — and returns the validated AST. Exposed separately for
// callers that want the validated AST without code generation.
func Analyze(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	return semantic.Validate(prog)
}
