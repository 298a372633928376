package cmd

import (
	"fmt"

	"github.com/skx/cc-subset/asm"
)

// targetFlag is a pflag.Value adapting asm.Target to a small closed
// set of named strings ("linux", "darwin") instead of a bare int,
// so a mistyped --target fails flag parsing instead of silently
// picking Linux.
type targetFlag struct {
	value asm.Target
	set   bool
}

func newTargetFlag(def asm.Target) *targetFlag {
	return &targetFlag{value: def}
}

func (t *targetFlag) String() string {
	if t.value == asm.Darwin {
		return "darwin"
	}
	return "linux"
}

func (t *targetFlag) Set(s string) error {
	switch s {
	case "linux":
		t.value = asm.Linux
	case "darwin":
		t.value = asm.Darwin
	default:
		return fmt.Errorf("unknown target %q (want \"linux\" or \"darwin\")", s)
	}
	t.set = true
	return nil
}

func (t *targetFlag) Type() string {
	return "target"
}
