package asm

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
	"github.com/skx/cc-subset/tac"
)

// TestGeneratedAssemblySnapshots locks down the final assembly text for a
// handful of representative programs covering each pipeline stage's output
// shape: plain arithmetic, division, relational/SetCC, and loops. Any change
// to operand legalization or mnemonic selection will show up as a diff here.
func TestGeneratedAssemblySnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
		target Target
	}{
		{
			name:   "constant",
			source: "int main(void) { return 2; }",
			target: Linux,
		},
		{
			name:   "arithmetic",
			source: "int main(void) { return (1 + 2) * 3 - 4; }",
			target: Linux,
		},
		{
			name:   "division_and_modulo",
			source: "int main(void) { int a = 17 / 5; int b = 17 % 5; return a + b; }",
			target: Linux,
		},
		{
			name:   "relational",
			source: "int main(void) { return 3 < 4; }",
			target: Linux,
		},
		{
			name:   "while_loop_with_break",
			source: "int main(void) { int i = 0; int sum = 0; while (i < 5) { if (i == 3) break; sum = sum + i; i = i + 1; } return sum; }",
			target: Linux,
		},
		{
			name:   "darwin_symbol_prefix",
			source: "int main(void) { return 0; }",
			target: Darwin,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize(tc.source)
			if err != nil {
				t.Fatalf("unexpected lex error: %s", err)
			}
			prog, err := parser.Parse(tokens)
			if err != nil {
				t.Fatalf("unexpected parse error: %s", err)
			}
			prog, err = semantic.Validate(prog)
			if err != nil {
				t.Fatalf("unexpected semantic error: %s", err)
			}

			got := Generate(tac.Emit(prog), prog.Function.Name, tc.target)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_asm", tc.name), got)
		})
	}
}
