package tac

import (
	"testing"

	"github.com/skx/cc-subset/lexer"
	"github.com/skx/cc-subset/parser"
	"github.com/skx/cc-subset/semantic"
)

func mustEmit(t *testing.T, source string) *Program {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
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
	return Emit(prog)
}

// labelClosure asserts every jump target names exactly one Label
// instruction, the first universal invariant in the testable
// properties list.
func labelClosure(t *testing.T, p *Program) {
	t.Helper()
	defined := map[string]int{}
	for _, i := range p.Instrs {
		if i.Op == OpLabel {
			defined[i.Label]++
		}
	}
	for _, i := range p.Instrs {
		switch i.Op {
		case OpJump, OpJumpIfZero, OpJumpIfNotZero:
			if defined[i.Label] != 1 {
				t.Fatalf("jump target %q is defined %d times, want exactly 1", i.Label, defined[i.Label])
			}
		}
	}
}

func TestTerminalReturnIsAppendedWhenMissing(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 1; }")
	last := p.Instrs[len(p.Instrs)-1]
	if last.Op != OpReturn {
		t.Fatalf("expected trailing Return, got %v", last)
	}
	if c, ok := last.Src.(Const); !ok || c.Value != 0 {
		t.Fatalf("expected appended return to yield constant 0, got %#v", last.Src)
	}
}

func TestTerminalReturnIsNotDuplicated(t *testing.T) {
	p := mustEmit(t, "int main(void) { return 2; }")
	count := 0
	for _, i := range p.Instrs {
		if i.Op == OpReturn {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 Return, got %d", count)
	}
}

func TestShortCircuitAndDoesNotEmitPlainBinary(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 1; int b = 0; return a && b; }")
	labelClosure(t, p)
	for _, i := range p.Instrs {
		if i.Op == OpBinary && i.Operator == "&&" {
			t.Fatalf("short-circuit && must not lower to a plain Binary instruction")
		}
	}
}

func TestShortCircuitOrDoesNotEmitPlainBinary(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 0; int b = 1; return a || b; }")
	labelClosure(t, p)
	for _, i := range p.Instrs {
		if i.Op == OpBinary && i.Operator == "||" {
			t.Fatalf("short-circuit || must not lower to a plain Binary instruction")
		}
	}
}

func TestConditionalLowersToLabelsAndJumps(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 1; int b = 2; return a > b ? a : b; }")
	labelClosure(t, p)

	sawJumpIfZero := false
	for _, i := range p.Instrs {
		if i.Op == OpJumpIfZero {
			sawJumpIfZero = true
		}
	}
	if !sawJumpIfZero {
		t.Fatalf("expected the ternary to lower via at least one JumpIfZero")
	}
}

func TestPostfixYieldsOriginalValue(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 5; int b = a++; return b; }")
	var sawCopyFromA bool
	for _, i := range p.Instrs {
		if i.Op == OpCopy {
			if v, ok := i.Src.(Var); ok && v.Name == findAFresh(p) {
				sawCopyFromA = true
			}
		}
	}
	if !sawCopyFromA {
		t.Fatalf("expected a's value to be copied out before the increment")
	}
}

// findAFresh locates the fresh name the semantic pass assigned to the
// program's first declared variable, by scanning for the first
// Binary instruction's destination (the increment target).
func findAFresh(p *Program) string {
	for _, i := range p.Instrs {
		if i.Op == OpBinary && (i.Operator == "+" || i.Operator == "-") {
			if v, ok := i.Dst.(Var); ok {
				return v.Name
			}
		}
	}
	return ""
}

func TestWhileLoopWithBreakHasLabelClosure(t *testing.T) {
	p := mustEmit(t, `int main(void) {
		int x = 0;
		while (x < 10) {
			if (x == 5) break;
			x = x + 1;
		}
		return x;
	}`)
	labelClosure(t, p)
}

func TestForLoopLowersInitCondPostAndBody(t *testing.T) {
	p := mustEmit(t, "int main(void) { int a = 0; for (int i = 0; i < 5; i = i + 1) a = a + i; return a; }")
	labelClosure(t, p)

	var sawLabel, sawJump int
	for _, i := range p.Instrs {
		if i.Op == OpLabel {
			sawLabel++
		}
		if i.Op == OpJump {
			sawJump++
		}
	}
	if sawLabel == 0 || sawJump == 0 {
		t.Fatalf("expected the for loop to lower into labels and jumps")
	}
}

func TestDoWhileLoopBackEdgeUsesJumpIfNotZero(t *testing.T) {
	p := mustEmit(t, "int main(void) { int x = 0; do { x = x + 1; } while (x < 3); return x; }")
	labelClosure(t, p)

	var sawJumpIfNotZero bool
	for _, i := range p.Instrs {
		if i.Op == OpJumpIfNotZero {
			sawJumpIfNotZero = true
		}
	}
	if !sawJumpIfNotZero {
		t.Fatalf("expected do-while to lower its back-edge via JumpIfNotZero")
	}
}
