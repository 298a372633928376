package asm

import "github.com/skx/cc-subset/tac"

// Generate runs all three sub-passes over prog and emits the final
// assembly text for a function named name.
func Generate(prog *tac.Program, name string, target Target) string {
	instrs := Select(prog)
	instrs = AssignStackSlots(instrs)
	instrs = Legalize(instrs)
	return Emit(instrs, name, target)
}
