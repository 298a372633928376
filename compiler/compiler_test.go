package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/skx/cc-subset/asm"
	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
	"github.com/skx/cc-subset/tac"
)

// runExitCode runs source through the full front end and TAC emitter,
// then interprets the resulting TAC directly rather than assembling
// and linking it — exercising the same lowering the assembly emitter
// consumes without needing an external toolchain to check its answer.
func runExitCode(t *testing.T, source string) int64 {
	t.Helper()
	prog, err := Analyze(source)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return interpret(tac.Emit(prog))
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   int64
	}{
		{"constant", "int main(void){ return 2; }", 2},
		{"unary_chain", "int main(void){ return ~(-5); }", 4},
		{"precedence", "int main(void){ return 2*(3+4) - 6/2; }", 11},
		{"logical_and", "int main(void){ int a=3; int b=4; return a<b && b!=0; }", 1},
		{"for_loop_sum", "int main(void){ int a=0; int i; for(i=0;i<5;i=i+1) a=a+i; return a; }", 10},
		{"while_break", "int main(void){ int x=10; int y=0; while(x>0){ if(x==5) break; y=y+x; x=x-1; } return y; }", 40},
		{"ternary", "int main(void){ int a=1; int b=2; return a>b ? a : b; }", 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := runExitCode(t, c.source)
			if got != c.want {
				t.Fatalf("%s: got %d, want %d", c.source, got, c.want)
			}
		})
	}
}

func TestUnbalancedBracesIsParseError(t *testing.T) {
	_, err := Analyze("int main(void) { return 0;")
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *parser.ParseError, got %T (%v)", err, err)
	}
}

func TestUndeclaredVariableIsSemError(t *testing.T) {
	_, err := Analyze("int main(void) { return x; }")
	var semErr *semantic.SemError
	if !errors.As(err, &semErr) || semErr.Kind != semantic.ErrUndeclaredVar {
		t.Fatalf("expected SemError(UndeclaredVar), got %T (%v)", err, err)
	}
}

func TestDuplicateDeclarationIsSemError(t *testing.T) {
	_, err := Analyze("int main(void) { int x; int x; return 0; }")
	var semErr *semantic.SemError
	if !errors.As(err, &semErr) || semErr.Kind != semantic.ErrDuplicateDecl {
		t.Fatalf("expected SemError(DuplicateDecl), got %T (%v)", err, err)
	}
}

func TestInvalidLValueIsSemError(t *testing.T) {
	_, err := Analyze("int main(void) { 5 = 4; return 0; }")
	var semErr *semantic.SemError
	if !errors.As(err, &semErr) || semErr.Kind != semantic.ErrInvalidLValue {
		t.Fatalf("expected SemError(InvalidLValue), got %T (%v)", err, err)
	}
}

func TestBreakOutsideLoopIsSemError(t *testing.T) {
	_, err := Analyze("int main(void) { break; return 0; }")
	var semErr *semantic.SemError
	if !errors.As(err, &semErr) || semErr.Kind != semantic.ErrBreakOutsideLoop {
		t.Fatalf("expected SemError(BreakOutsideLoop), got %T (%v)", err, err)
	}
}

func TestBadCharacterIsLexError(t *testing.T) {
	_, err := Analyze("int main(void) { return @; }")
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.LexError, got %T (%v)", err, err)
	}
}

func TestCompileEmitsGlobalSymbolForFunctionName(t *testing.T) {
	out, err := Compile("int main(void) { return 0; }", Options{Target: asm.Linux})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "main:") {
		t.Fatalf("expected the generated assembly to define 'main:', got:\n%s", out)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	source := "int main(void) { int a=0; for (int i=0;i<3;i=i+1) a=a+i; return a; }"
	first, err := Compile(source, Options{Target: asm.Linux})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	second, err := Compile(source, Options{Target: asm.Linux})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if first != second {
		t.Fatalf("expected compiling the same source twice to produce identical output")
	}
}

// interpret executes a TAC program directly as a tiny tree-walking
// virtual machine, used only by tests: it lets the end-to-end
// scenarios check the emitter's lowering without invoking an external
// assembler and linker, which are outside this module's scope.
func interpret(prog *tac.Program) int64 {
	vars := make(map[string]int64)
	labels := make(map[string]int)
	for i, ins := range prog.Instrs {
		if ins.Op == tac.OpLabel {
			labels[ins.Label] = i
		}
	}

	valueOf := func(v tac.Value) int64 {
		switch x := v.(type) {
		case tac.Const:
			return x.Value
		case tac.Var:
			return vars[x.Name]
		}
		return 0
	}
	store := func(dst tac.Value, v int64) {
		if d, ok := dst.(tac.Var); ok {
			vars[d.Name] = v
		}
	}
	boolInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}

	pc := 0
	for {
		ins := prog.Instrs[pc]
		switch ins.Op {
		case tac.OpReturn:
			return valueOf(ins.Src)

		case tac.OpUnary:
			v := valueOf(ins.Src)
			switch ins.Operator {
			case "-":
				store(ins.Dst, -v)
			case "~":
				store(ins.Dst, ^v)
			case "!":
				store(ins.Dst, boolInt(v == 0))
			}

		case tac.OpBinary:
			a, b := valueOf(ins.Src), valueOf(ins.Src2)
			var r int64
			switch ins.Operator {
			case "+":
				r = a + b
			case "-":
				r = a - b
			case "*":
				r = a * b
			case "/":
				r = a / b
			case "%":
				r = a % b
			case "&":
				r = a & b
			case "|":
				r = a | b
			case "^":
				r = a ^ b
			case "<<":
				r = a << uint(b)
			case ">>":
				r = a >> uint(b)
			case "<":
				r = boolInt(a < b)
			case "<=":
				r = boolInt(a <= b)
			case ">":
				r = boolInt(a > b)
			case ">=":
				r = boolInt(a >= b)
			case "==":
				r = boolInt(a == b)
			case "!=":
				r = boolInt(a != b)
			}
			store(ins.Dst, r)

		case tac.OpCopy:
			store(ins.Dst, valueOf(ins.Src))

		case tac.OpJump:
			pc = labels[ins.Label]
			continue

		case tac.OpJumpIfZero:
			if valueOf(ins.Src) == 0 {
				pc = labels[ins.Label]
				continue
			}

		case tac.OpJumpIfNotZero:
			if valueOf(ins.Src) != 0 {
				pc = labels[ins.Label]
				continue
			}

		case tac.OpLabel:
			// no-op
		}
		pc++
	}
}
