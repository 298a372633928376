package asm

import "github.com/skx/cc-subset/tac"

// relationalCC maps a relational TAC operator to the condition code
// tested after a Cmp.
var relationalCC = map[string]string{
	"<":  "l",
	"<=": "le",
	">":  "g",
	">=": "ge",
	"==": "e",
	"!=": "ne",
}

func isRelational(op string) bool {
	_, ok := relationalCC[op]
	return ok
}

func toOperand(v tac.Value) Operand {
	switch x := v.(type) {
	case tac.Const:
		return Imm{Value: x.Value}
	case tac.Var:
		return Pseudo{Name: x.Name}
	}
	panic("asm: unhandled tac.Value")
}

// Select performs Pass A: TAC to assembly instructions with Pseudo
// operands standing in for every variable and temporary.
func Select(prog *tac.Program) []Instr {
	var out []Instr
	for _, ins := range prog.Instrs {
		out = append(out, selectOne(ins)...)
	}
	return out
}

func selectOne(ins tac.Instr) []Instr {
	switch ins.Op {

	case tac.OpReturn:
		return []Instr{
			{Op: OpMov, Src: toOperand(ins.Src), Dst: AX},
			{Op: OpReturn},
		}

	case tac.OpUnary:
		return selectUnary(ins)

	case tac.OpBinary:
		return selectBinary(ins)

	case tac.OpCopy:
		return []Instr{
			{Op: OpMov, Src: toOperand(ins.Src), Dst: toOperand(ins.Dst)},
		}

	case tac.OpJump:
		return []Instr{{Op: OpJmp, Label: ins.Label}}

	case tac.OpJumpIfZero:
		return []Instr{
			{Op: OpCmp, Src: Imm{Value: 0}, Dst: toOperand(ins.Src)},
			{Op: OpJmpCC, CC: "e", Label: ins.Label},
		}

	case tac.OpJumpIfNotZero:
		return []Instr{
			{Op: OpCmp, Src: Imm{Value: 0}, Dst: toOperand(ins.Src)},
			{Op: OpJmpCC, CC: "ne", Label: ins.Label},
		}

	case tac.OpLabel:
		return []Instr{{Op: OpLabel, Label: ins.Label}}
	}

	panic("asm: unhandled tac.Op " + string(ins.Op))
}

func selectUnary(ins tac.Instr) []Instr {
	d := toOperand(ins.Dst)
	s := toOperand(ins.Src)

	if ins.Operator == "!" {
		return []Instr{
			{Op: OpCmp, Src: Imm{Value: 0}, Dst: s},
			{Op: OpMov, Src: Imm{Value: 0}, Dst: d},
			{Op: OpSetCC, CC: "e", Dst: d},
		}
	}

	return []Instr{
		{Op: OpMov, Src: s, Dst: d},
		{Op: OpUnary, Operator: ins.Operator, Dst: d},
	}
}

func selectBinary(ins tac.Instr) []Instr {
	d := toOperand(ins.Dst)
	s1 := toOperand(ins.Src)
	s2 := toOperand(ins.Src2)

	switch {
	case ins.Operator == "/":
		return []Instr{
			{Op: OpMov, Src: s1, Dst: AX},
			{Op: OpCdq},
			{Op: OpIdiv, Src: s2},
			{Op: OpMov, Src: AX, Dst: d},
		}

	case ins.Operator == "%":
		return []Instr{
			{Op: OpMov, Src: s1, Dst: AX},
			{Op: OpCdq},
			{Op: OpIdiv, Src: s2},
			{Op: OpMov, Src: DX, Dst: d},
		}

	case isRelational(ins.Operator):
		return []Instr{
			{Op: OpCmp, Src: s2, Dst: s1},
			{Op: OpMov, Src: Imm{Value: 0}, Dst: d},
			{Op: OpSetCC, CC: relationalCC[ins.Operator], Dst: d},
		}

	default:
		// "+ - * & | ^ << >>": Mov s1 -> d, then apply the
		// operator in place with s2 as the right-hand operand.
		return []Instr{
			{Op: OpMov, Src: s1, Dst: d},
			{Op: OpBinary, Operator: ins.Operator, Src: s2, Dst: d},
		}
	}
}
