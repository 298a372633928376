// Package tac lowers a validated AST into three-address code: a flat
// instruction list with labels and jumps, ready for instruction
// selection. Short-circuit operators and the ternary operator are not
// expressible as a single instruction, so they are lowered here into
// explicit branches — the control-flow shape is fixed before assembly
// generation ever sees it.
//
// Instructions use a flat tagged-struct shape (an Op tag plus the
// operand fields that tag uses) rather than a family of small node
// types, since the instruction set here is a flat list, not a tree: a
// single struct with unused fields left zero reads no worse than a
// dozen near-identical one-field struct types.
package tac

import "fmt"

// Value is either a compile-time constant or a named variable/temporary.
type Value interface {
	value()
}

// Const is an integer literal operand.
type Const struct {
	Value int64
}

// Var is a named operand: a source variable (already α-renamed by the
// semantic pass) or a compiler-generated temporary.
type Var struct {
	Name string
}

func (Const) value() {}
func (Var) value()   {}

// Op is the closed set of TAC instruction kinds.
type Op string

const (
	OpReturn        Op = "return"
	OpUnary         Op = "unary"
	OpBinary        Op = "binary"
	OpCopy          Op = "copy"
	OpJump          Op = "jump"
	OpJumpIfZero    Op = "jump_if_zero"
	OpJumpIfNotZero Op = "jump_if_not_zero"
	OpLabel         Op = "label"
)

// Instr is a single TAC instruction. Which fields are meaningful
// depends on Op:
//
//	OpReturn:        Src
//	OpUnary:         Operator, Src,  Dst
//	OpBinary:        Operator, Src, Src2, Dst
//	OpCopy:          Src, Dst
//	OpJump:          Label
//	OpJumpIfZero:    Src, Label
//	OpJumpIfNotZero: Src, Label
//	OpLabel:         Label
type Instr struct {
	Op       Op
	Operator string
	Src      Value
	Src2     Value
	Dst      Value
	Label    string
}

func (i Instr) String() string {
	switch i.Op {
	case OpReturn:
		return fmt.Sprintf("return %v", i.Src)
	case OpUnary:
		return fmt.Sprintf("%v = %s %v", i.Dst, i.Operator, i.Src)
	case OpBinary:
		return fmt.Sprintf("%v = %v %s %v", i.Dst, i.Src, i.Operator, i.Src2)
	case OpCopy:
		return fmt.Sprintf("%v = %v", i.Dst, i.Src)
	case OpJump:
		return fmt.Sprintf("jump %s", i.Label)
	case OpJumpIfZero:
		return fmt.Sprintf("jump_if_zero %v, %s", i.Src, i.Label)
	case OpJumpIfNotZero:
		return fmt.Sprintf("jump_if_not_zero %v, %s", i.Src, i.Label)
	case OpLabel:
		return fmt.Sprintf("%s:", i.Label)
	}
	return "?"
}

// Program is the linear instruction list produced for one function.
type Program struct {
	Instrs []Instr
}
