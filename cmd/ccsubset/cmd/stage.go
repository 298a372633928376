package cmd

import "fmt"

// stage names a point in the pipeline at which `compile` may stop and
// dump its intermediate form instead of finishing code generation.
type stage string

const (
	stageAsm   stage = "asm"
	stageTac   stage = "tac"
	stageAst   stage = "ast"
	stageToken stage = "tokens"
)

// stageFlag is a pflag.Value restricting --emit to the closed set of
// known stage names.
type stageFlag struct {
	value stage
}

func newStageFlag(def stage) *stageFlag {
	return &stageFlag{value: def}
}

func (s *stageFlag) String() string {
	return string(s.value)
}

func (s *stageFlag) Set(v string) error {
	switch stage(v) {
	case stageAsm, stageTac, stageAst, stageToken:
		s.value = stage(v)
		return nil
	default:
		return fmt.Errorf("unknown stage %q (want one of tokens, ast, tac, asm)", v)
	}
}

func (s *stageFlag) Type() string {
	return "stage"
}
