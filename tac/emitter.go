package tac

import (
	"fmt"

	"github.com/skx/cc-subset/ast"
)

// Emitter holds the counters used to mint fresh temporaries and
// labels, plus the jump targets of any loops currently being lowered.
// All state is pass-local; two Emitters never share a counter.
type Emitter struct {
	instrs        []Instr
	tempCounter   int
	labelCounters map[string]int

	// loop labels (assigned by the semantic pass) are globally
	// unique, so a loop's end/continue targets can be recorded by
	// label rather than maintained as an explicit stack.
	endTarget      map[string]string
	continueTarget map[string]string
}

// NewEmitter creates an Emitter ready to lower one function body.
func NewEmitter() *Emitter {
	return &Emitter{
		labelCounters:  make(map[string]int),
		endTarget:      make(map[string]string),
		continueTarget: make(map[string]string),
	}
}

// Emit lowers a validated program into its TAC form, appending a
// trailing Return(0) if the body does not already end in one.
func Emit(prog *ast.Program) *Program {
	e := NewEmitter()
	e.emitBlock(prog.Function.Body)

	if len(e.instrs) == 0 || e.instrs[len(e.instrs)-1].Op != OpReturn {
		e.emit(Instr{Op: OpReturn, Src: Const{Value: 0}})
	}

	return &Program{Instrs: e.instrs}
}

func (e *Emitter) emit(i Instr) {
	e.instrs = append(e.instrs, i)
}

func (e *Emitter) freshTemp() Var {
	e.tempCounter++
	return Var{Name: fmt.Sprintf("tmp.%d", e.tempCounter)}
}

func (e *Emitter) freshLabel(base string) string {
	e.labelCounters[base]++
	return fmt.Sprintf("L%s_%d", base, e.labelCounters[base])
}

func (e *Emitter) emitBlock(block *ast.Block) {
	for _, item := range block.Items {
		switch it := item.(type) {
		case *ast.Declaration:
			e.emitDeclaration(it)
		case ast.Stmt:
			e.emitStmt(it)
		}
	}
}

func (e *Emitter) emitDeclaration(decl *ast.Declaration) {
	if decl.Init == nil {
		return
	}
	v := e.emitExpr(decl.Init)
	e.emit(Instr{Op: OpCopy, Src: v, Dst: Var{Name: decl.Name}})
}

func (e *Emitter) emitStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {

	case *ast.Return:
		v := e.emitExpr(st.Expr)
		e.emit(Instr{Op: OpReturn, Src: v})

	case *ast.ExprStmt:
		e.emitExpr(st.Expr)

	case *ast.Null:
		// no-op

	case *ast.If:
		e.emitIf(st)

	case *ast.Compound:
		e.emitBlock(st.Block)

	case *ast.While:
		e.emitWhile(st)

	case *ast.DoWhile:
		e.emitDoWhile(st)

	case *ast.For:
		e.emitFor(st)

	case *ast.Break:
		e.emit(Instr{Op: OpJump, Label: e.endTarget[st.Label]})

	case *ast.Continue:
		e.emit(Instr{Op: OpJump, Label: e.continueTarget[st.Label]})
	}
}

func (e *Emitter) emitIf(st *ast.If) {
	vc := e.emitExpr(st.Cond)

	if st.Else == nil {
		endL := e.freshLabel("if_end")
		e.emit(Instr{Op: OpJumpIfZero, Src: vc, Label: endL})
		e.emitStmt(st.Then)
		e.emit(Instr{Op: OpLabel, Label: endL})
		return
	}

	elseL := e.freshLabel("if_else")
	endL := e.freshLabel("if_end")
	e.emit(Instr{Op: OpJumpIfZero, Src: vc, Label: elseL})
	e.emitStmt(st.Then)
	e.emit(Instr{Op: OpJump, Label: endL})
	e.emit(Instr{Op: OpLabel, Label: elseL})
	e.emitStmt(st.Else)
	e.emit(Instr{Op: OpLabel, Label: endL})
}

func (e *Emitter) emitWhile(st *ast.While) {
	startL := st.Label + "_start"
	endL := st.Label + "_end"
	e.endTarget[st.Label] = endL
	e.continueTarget[st.Label] = startL

	e.emit(Instr{Op: OpLabel, Label: startL})
	v := e.emitExpr(st.Cond)
	e.emit(Instr{Op: OpJumpIfZero, Src: v, Label: endL})
	e.emitStmt(st.Body)
	e.emit(Instr{Op: OpJump, Label: startL})
	e.emit(Instr{Op: OpLabel, Label: endL})
}

func (e *Emitter) emitDoWhile(st *ast.DoWhile) {
	startL := st.Label + "_start"
	contL := st.Label + "_continue"
	endL := st.Label + "_end"
	e.endTarget[st.Label] = endL
	e.continueTarget[st.Label] = contL

	e.emit(Instr{Op: OpLabel, Label: startL})
	e.emitStmt(st.Body)
	e.emit(Instr{Op: OpLabel, Label: contL})
	v := e.emitExpr(st.Cond)
	e.emit(Instr{Op: OpJumpIfNotZero, Src: v, Label: startL})
	e.emit(Instr{Op: OpLabel, Label: endL})
}

func (e *Emitter) emitFor(st *ast.For) {
	startL := st.Label + "_start"
	contL := st.Label + "_continue"
	endL := st.Label + "_end"
	e.endTarget[st.Label] = endL
	e.continueTarget[st.Label] = contL

	switch init := st.Init.(type) {
	case *ast.Declaration:
		e.emitDeclaration(init)
	case *ast.ExprForInit:
		if init.Expr != nil {
			e.emitExpr(init.Expr)
		}
	}

	e.emit(Instr{Op: OpLabel, Label: startL})
	if st.Cond != nil {
		v := e.emitExpr(st.Cond)
		e.emit(Instr{Op: OpJumpIfZero, Src: v, Label: endL})
	}
	e.emitStmt(st.Body)
	e.emit(Instr{Op: OpLabel, Label: contL})
	if st.Post != nil {
		e.emitExpr(st.Post)
	}
	e.emit(Instr{Op: OpJump, Label: startL})
	e.emit(Instr{Op: OpLabel, Label: endL})
}

// incDecOperator maps "++"/"--" to the bare binary operator it
// desugars to.
func incDecOperator(op string) string {
	if op == "++" {
		return "+"
	}
	return "-"
}

func (e *Emitter) emitExpr(expr ast.Expr) Value {
	switch ex := expr.(type) {

	case *ast.Constant:
		return Const{Value: ex.Value}

	case *ast.Var:
		return Var{Name: ex.Name}

	case *ast.Unary:
		v := e.emitExpr(ex.Expr)
		t := e.freshTemp()
		e.emit(Instr{Op: OpUnary, Operator: ex.Op, Src: v, Dst: t})
		return t

	case *ast.Binary:
		switch ex.Op {
		case "&&":
			return e.emitLogicalAnd(ex)
		case "||":
			return e.emitLogicalOr(ex)
		default:
			v1 := e.emitExpr(ex.Left)
			v2 := e.emitExpr(ex.Right)
			t := e.freshTemp()
			e.emit(Instr{Op: OpBinary, Operator: ex.Op, Src: v1, Src2: v2, Dst: t})
			return t
		}

	case *ast.Assignment:
		lhs := ex.Lhs.(*ast.Var)
		v := e.emitExpr(ex.Rhs)
		dst := Var{Name: lhs.Name}
		e.emit(Instr{Op: OpCopy, Src: v, Dst: dst})
		return dst

	case *ast.CompoundAssignment:
		lhs := ex.Lhs.(*ast.Var)
		v := e.emitExpr(ex.Rhs)
		dst := Var{Name: lhs.Name}
		e.emit(Instr{Op: OpBinary, Operator: ex.Op, Src: dst, Src2: v, Dst: dst})
		return dst

	case *ast.Conditional:
		return e.emitConditional(ex)

	case *ast.PrefixOp:
		v := ex.Expr.(*ast.Var)
		dst := Var{Name: v.Name}
		e.emit(Instr{Op: OpBinary, Operator: incDecOperator(ex.Op), Src: dst, Src2: Const{Value: 1}, Dst: dst})
		return dst

	case *ast.PostfixOp:
		v := ex.Expr.(*ast.Var)
		dst := Var{Name: v.Name}
		original := e.freshTemp()
		e.emit(Instr{Op: OpCopy, Src: dst, Dst: original})
		e.emit(Instr{Op: OpBinary, Operator: incDecOperator(ex.Op), Src: dst, Src2: Const{Value: 1}, Dst: dst})
		return original
	}

	panic(fmt.Sprintf("tac: unhandled expression type %T", expr))
}

func (e *Emitter) emitLogicalAnd(ex *ast.Binary) Value {
	v1 := e.emitExpr(ex.Left)
	falseL := e.freshLabel("and_false")
	endL := e.freshLabel("and_end")
	e.emit(Instr{Op: OpJumpIfZero, Src: v1, Label: falseL})

	v2 := e.emitExpr(ex.Right)
	e.emit(Instr{Op: OpJumpIfZero, Src: v2, Label: falseL})

	result := e.freshTemp()
	e.emit(Instr{Op: OpCopy, Src: Const{Value: 1}, Dst: result})
	e.emit(Instr{Op: OpJump, Label: endL})
	e.emit(Instr{Op: OpLabel, Label: falseL})
	e.emit(Instr{Op: OpCopy, Src: Const{Value: 0}, Dst: result})
	e.emit(Instr{Op: OpLabel, Label: endL})
	return result
}

func (e *Emitter) emitLogicalOr(ex *ast.Binary) Value {
	v1 := e.emitExpr(ex.Left)
	trueL := e.freshLabel("or_true")
	endL := e.freshLabel("or_end")
	e.emit(Instr{Op: OpJumpIfNotZero, Src: v1, Label: trueL})

	v2 := e.emitExpr(ex.Right)
	e.emit(Instr{Op: OpJumpIfNotZero, Src: v2, Label: trueL})

	result := e.freshTemp()
	e.emit(Instr{Op: OpCopy, Src: Const{Value: 0}, Dst: result})
	e.emit(Instr{Op: OpJump, Label: endL})
	e.emit(Instr{Op: OpLabel, Label: trueL})
	e.emit(Instr{Op: OpCopy, Src: Const{Value: 1}, Dst: result})
	e.emit(Instr{Op: OpLabel, Label: endL})
	return result
}

func (e *Emitter) emitConditional(ex *ast.Conditional) Value {
	vc := e.emitExpr(ex.Cond)
	falseL := e.freshLabel("cond_false")
	endL := e.freshLabel("cond_end")
	e.emit(Instr{Op: OpJumpIfZero, Src: vc, Label: falseL})

	v1 := e.emitExpr(ex.Then)
	result := e.freshTemp()
	e.emit(Instr{Op: OpCopy, Src: v1, Dst: result})
	e.emit(Instr{Op: OpJump, Label: endL})

	e.emit(Instr{Op: OpLabel, Label: falseL})
	v2 := e.emitExpr(ex.Else)
	e.emit(Instr{Op: OpCopy, Src: v2, Dst: result})
	e.emit(Instr{Op: OpLabel, Label: endL})
	return result
}
