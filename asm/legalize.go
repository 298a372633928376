package asm

// Legalize performs Pass C: it rewrites every instruction that
// violates an x86-64 two-operand encoding restriction into an
// equivalent sequence that doesn't, staging through %r10d/%r11d/%cl as
// scratch space. This is the only pass that knows these encoding
// constraints; Select stays target-agnostic and AssignStackSlots only
// allocates slots.
func Legalize(instrs []Instr) []Instr {
	var out []Instr
	for _, ins := range instrs {
		out = append(out, legalizeOne(ins)...)
	}
	return out
}

func legalizeOne(ins Instr) []Instr {
	switch ins.Op {

	case OpMov:
		if isMemory(ins.Src) && isMemory(ins.Dst) {
			return []Instr{
				{Op: OpMov, Src: ins.Src, Dst: R10},
				{Op: OpMov, Src: R10, Dst: ins.Dst},
			}
		}
		return []Instr{ins}

	case OpIdiv:
		if isImm(ins.Src) {
			return []Instr{
				{Op: OpMov, Src: ins.Src, Dst: R10},
				{Op: OpIdiv, Src: R10},
			}
		}
		return []Instr{ins}

	case OpBinary:
		return legalizeBinary(ins)

	case OpCmp:
		return legalizeCmp(ins)
	}

	return []Instr{ins}
}

func legalizeBinary(ins Instr) []Instr {
	switch ins.Operator {

	case "<<", ">>":
		return legalizeShift(ins)

	case "*":
		// The destination of imul must be a register: stage the
		// memory destination through %r11d around the multiply.
		if isMemory(ins.Dst) {
			return []Instr{
				{Op: OpMov, Src: ins.Dst, Dst: R11},
				{Op: OpBinary, Operator: "*", Src: ins.Src, Dst: R11},
				{Op: OpMov, Src: R11, Dst: ins.Dst},
			}
		}
		return []Instr{ins}

	default: // "+ - & | ^"
		if isMemory(ins.Src) && isMemory(ins.Dst) {
			return []Instr{
				{Op: OpMov, Src: ins.Src, Dst: R10},
				{Op: OpBinary, Operator: ins.Operator, Src: R10, Dst: ins.Dst},
			}
		}
		return []Instr{ins}
	}
}

// legalizeShift enforces that the shift count live in %cl. When the
// destination is memory, the shift itself is staged through %r10d so
// the shift instruction never has two memory-class operands.
func legalizeShift(ins Instr) []Instr {
	moveCount := Instr{Op: OpMovB, Src: ins.Src, Dst: CX}

	if isMemory(ins.Dst) {
		return []Instr{
			moveCount,
			{Op: OpMov, Src: ins.Dst, Dst: R10},
			{Op: OpBinary, Operator: ins.Operator, Src: CX, Dst: R10},
			{Op: OpMov, Src: R10, Dst: ins.Dst},
		}
	}

	return []Instr{
		moveCount,
		{Op: OpBinary, Operator: ins.Operator, Src: CX, Dst: ins.Dst},
	}
}

func legalizeCmp(ins Instr) []Instr {
	src, dst := ins.Src, ins.Dst
	var pre []Instr

	if isMemory(src) && isMemory(dst) {
		pre = append(pre, Instr{Op: OpMov, Src: src, Dst: R10})
		src = R10
	}
	if isImm(dst) {
		pre = append(pre, Instr{Op: OpMov, Src: dst, Dst: R11})
		dst = R11
	}

	return append(pre, Instr{Op: OpCmp, Src: src, Dst: dst})
}
