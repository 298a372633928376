// Package asm lowers TAC into x86-64 assembly text through three
// sub-passes — instruction selection, pseudo-register-to-stack-slot
// assignment, and operand legalization — followed by a text-emission
// pass. Selection stays target-agnostic; legalization is the only pass
// aware of x86-64's two-operand encoding restrictions, one function per
// concern rather than mixed across functions.
package asm

import "fmt"

// Operand is an x86-64 instruction operand.
type Operand interface {
	operand()
}

// Imm is an immediate integer operand.
type Imm struct {
	Value int64
}

// Reg names a physical register by its base name ("ax", "dx", "cx",
// "r10", "r11"); the emitter chooses the width-appropriate form.
type Reg struct {
	Name string
}

// Pseudo stands for an unassigned variable or temporary. Produced by
// Select, fully eliminated by AssignStackSlots.
type Pseudo struct {
	Name string
}

// Stack is a memory operand at a fixed offset from %rbp.
type Stack struct {
	Offset int
}

func (Imm) operand()    {}
func (Reg) operand()    {}
func (Pseudo) operand() {}
func (Stack) operand()  {}

// Register base names used as scratch/fixed operands by selection and
// legalization.
var (
	AX  = Reg{Name: "ax"}
	DX  = Reg{Name: "dx"}
	CX  = Reg{Name: "cx"}
	R10 = Reg{Name: "r10"}
	R11 = Reg{Name: "r11"}
)

// Op is the closed set of assembly-IR instruction kinds.
type Op string

const (
	OpMov           Op = "mov"
	OpMovB          Op = "movb"
	OpUnary         Op = "unary"
	OpAllocateStack Op = "allocate_stack"
	OpReturn        Op = "return"
	OpBinary        Op = "binary"
	OpIdiv          Op = "idiv"
	OpCdq           Op = "cdq"
	OpCmp           Op = "cmp"
	OpJmp           Op = "jmp"
	OpJmpCC         Op = "jmpcc"
	OpSetCC         Op = "setcc"
	OpLabel         Op = "label"
)

// Instr is one assembly-IR instruction. Which fields matter depends on
// Op, in the same flat-struct-with-a-tag spirit as the TAC instruction
// set: Src/Dst hold the two-operand forms ("mov Src, Dst" / "cmp Src,
// Dst", matching AT&T argument order), Operator carries the arithmetic
// op for Unary/Binary, CC the condition code for JmpCC/SetCC, N the
// byte count for AllocateStack, and Label the jump/branch target.
type Instr struct {
	Op       Op
	Operator string
	CC       string
	Src      Operand
	Dst      Operand
	N        int
	Label    string
}

func isMemory(o Operand) bool {
	_, ok := o.(Stack)
	return ok
}

func isImm(o Operand) bool {
	_, ok := o.(Imm)
	return ok
}

func (i Instr) String() string {
	return fmt.Sprintf("%s %v %v %s", i.Op, i.Src, i.Dst, i.Label)
}
