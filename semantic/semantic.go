// Package semantic resolves variable scoping, α-renames every
// identifier to a globally-unique name, associates break/continue with
// their enclosing loop's label, and checks that every assignment and
// increment/decrement target is a valid lvalue.
//
// Entering a block clones the parent's variable map with every entry's
// "declared in this block" flag cleared, so lookups are always a
// single map access and redeclaration is only an error when the flag
// is still set. Loop labels use an explicit stack rather than a single
// current-label field, since a single field would forget the outer
// loop's label once an inner loop is left.
package semantic

import (
	"fmt"

	"github.com/skx/cc-subset/ast"
)

// ErrKind is the closed set of semantic error categories.
type ErrKind string

const (
	ErrDuplicateDecl    ErrKind = "duplicate_declaration"
	ErrUndeclaredVar    ErrKind = "undeclared_variable"
	ErrInvalidLValue    ErrKind = "invalid_lvalue"
	ErrBreakOutsideLoop ErrKind = "break_or_continue_outside_loop"
)

// SemError reports a single semantic-analysis failure.
type SemError struct {
	Kind ErrKind
	Name string
	Line int
}

func (e *SemError) Error() string {
	switch e.Kind {
	case ErrDuplicateDecl:
		return fmt.Sprintf("line %d: duplicate declaration of %q in this block", e.Line, e.Name)
	case ErrUndeclaredVar:
		return fmt.Sprintf("line %d: use of undeclared variable %q", e.Line, e.Name)
	case ErrInvalidLValue:
		return fmt.Sprintf("line %d: invalid lvalue", e.Line)
	case ErrBreakOutsideLoop:
		return fmt.Sprintf("line %d: break/continue outside of a loop", e.Line)
	}
	return "semantic error"
}

// varEntry is one binding in a scope: its fresh, globally-unique name
// and whether it was declared in the current block (as opposed to
// inherited from an enclosing one).
type varEntry struct {
	fresh        string
	declaredHere bool
}

type scope map[string]varEntry

// cloneScope opens a new nested scope: every inherited entry survives
// lookups but loses its "declared here" flag, so a name may be
// shadowed in the child without tripping the duplicate-declaration
// check, while a second declaration of the same name within the child
// itself still does.
func cloneScope(parent scope) scope {
	child := make(scope, len(parent))
	for k, v := range parent {
		child[k] = varEntry{fresh: v.fresh, declaredHere: false}
	}
	return child
}

// Analyzer holds the pass-local counters used to generate fresh names.
// Two independent Analyzers never interfere with each other's counters.
type Analyzer struct {
	varCounter   map[string]int
	loopCounter  int
	scopeCounter int
	loopStack    []string
}

// NewAnalyzer creates a semantic analyzer ready to validate one program.
func NewAnalyzer() *Analyzer {
	return &Analyzer{varCounter: make(map[string]int)}
}

// Validate resolves prog in place, α-renaming variables and labeling
// loops, and returns prog (now satisfying the post-semantic-pass
// invariants) or the first SemError encountered.
func Validate(prog *ast.Program) (*ast.Program, error) {
	a := NewAnalyzer()
	if err := a.resolveBlock(scope{}, prog.Function.Body); err != nil {
		return nil, err
	}
	return prog, nil
}

// freshName implements the "x -> x_._k" global-uniqueness rule: k
// increments per occurrence of the base name across the whole program.
func (a *Analyzer) freshName(base string) string {
	a.varCounter[base]++
	return fmt.Sprintf("%s_._%d", base, a.varCounter[base])
}

func (a *Analyzer) pushLoop() string {
	a.loopCounter++
	label := fmt.Sprintf("Loop%d", a.loopCounter)
	a.loopStack = append(a.loopStack, label)
	return label
}

func (a *Analyzer) popLoop() {
	a.loopStack = a.loopStack[:len(a.loopStack)-1]
}

func (a *Analyzer) currentLoop() (string, bool) {
	if len(a.loopStack) == 0 {
		return "", false
	}
	return a.loopStack[len(a.loopStack)-1], true
}

func (a *Analyzer) resolveBlock(parent scope, block *ast.Block) error {
	a.scopeCounter++
	s := cloneScope(parent)
	for _, item := range block.Items {
		switch it := item.(type) {
		case *ast.Declaration:
			if err := a.resolveDeclaration(s, it); err != nil {
				return err
			}
		case ast.Stmt:
			if err := a.resolveStmt(s, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Analyzer) resolveDeclaration(s scope, decl *ast.Declaration) error {
	if entry, ok := s[decl.Name]; ok && entry.declaredHere {
		return &SemError{Kind: ErrDuplicateDecl, Name: decl.Name, Line: decl.Line}
	}

	if decl.Init != nil {
		if err := a.resolveExpr(s, decl.Init); err != nil {
			return err
		}
	}

	fresh := a.freshName(decl.Name)
	s[decl.Name] = varEntry{fresh: fresh, declaredHere: true}
	decl.Name = fresh
	return nil
}

func (a *Analyzer) resolveStmt(s scope, stmt ast.Stmt) error {
	switch st := stmt.(type) {

	case *ast.Return:
		return a.resolveExpr(s, st.Expr)

	case *ast.ExprStmt:
		return a.resolveExpr(s, st.Expr)

	case *ast.Null:
		return nil

	case *ast.If:
		if err := a.resolveExpr(s, st.Cond); err != nil {
			return err
		}
		if err := a.resolveStmt(s, st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return a.resolveStmt(s, st.Else)
		}
		return nil

	case *ast.Compound:
		return a.resolveBlock(s, st.Block)

	case *ast.While:
		if err := a.resolveExpr(s, st.Cond); err != nil {
			return err
		}
		st.Label = a.pushLoop()
		defer a.popLoop()
		return a.resolveStmt(s, st.Body)

	case *ast.DoWhile:
		st.Label = a.pushLoop()
		defer a.popLoop()
		if err := a.resolveStmt(s, st.Body); err != nil {
			return err
		}
		return a.resolveExpr(s, st.Cond)

	case *ast.For:
		return a.resolveFor(s, st)

	case *ast.Break:
		label, ok := a.currentLoop()
		if !ok {
			return &SemError{Kind: ErrBreakOutsideLoop, Line: st.Line}
		}
		st.Label = label
		return nil

	case *ast.Continue:
		label, ok := a.currentLoop()
		if !ok {
			return &SemError{Kind: ErrBreakOutsideLoop, Line: st.Line}
		}
		st.Label = label
		return nil
	}

	return nil
}

// resolveFor opens a scope spanning the whole for-statement: the
// init-declaration (if any), cond, post, and body all share it, but it
// is invisible to anything after the loop.
func (a *Analyzer) resolveFor(parent scope, st *ast.For) error {
	a.scopeCounter++
	s := cloneScope(parent)

	switch init := st.Init.(type) {
	case *ast.Declaration:
		if err := a.resolveDeclaration(s, init); err != nil {
			return err
		}
	case *ast.ExprForInit:
		if init.Expr != nil {
			if err := a.resolveExpr(s, init.Expr); err != nil {
				return err
			}
		}
	}

	if st.Cond != nil {
		if err := a.resolveExpr(s, st.Cond); err != nil {
			return err
		}
	}
	if st.Post != nil {
		if err := a.resolveExpr(s, st.Post); err != nil {
			return err
		}
	}

	st.Label = a.pushLoop()
	defer a.popLoop()
	return a.resolveStmt(s, st.Body)
}

// isLvalue reports whether e is a valid lvalue: a bare variable
// reference, per the lvalue rule in spec.md §4.3.
func isLvalue(e ast.Expr) bool {
	_, ok := e.(*ast.Var)
	return ok
}

func lvalueLine(e ast.Expr, fallback int) int {
	if v, ok := e.(*ast.Var); ok {
		return v.Line
	}
	return fallback
}

func (a *Analyzer) resolveExpr(s scope, e ast.Expr) error {
	switch ex := e.(type) {

	case *ast.Constant:
		return nil

	case *ast.Var:
		entry, ok := s[ex.Name]
		if !ok {
			return &SemError{Kind: ErrUndeclaredVar, Name: ex.Name, Line: ex.Line}
		}
		ex.Name = entry.fresh
		return nil

	case *ast.Unary:
		return a.resolveExpr(s, ex.Expr)

	case *ast.Binary:
		if err := a.resolveExpr(s, ex.Left); err != nil {
			return err
		}
		return a.resolveExpr(s, ex.Right)

	case *ast.Assignment:
		if !isLvalue(ex.Lhs) {
			return &SemError{Kind: ErrInvalidLValue, Line: lvalueLine(ex.Lhs, ex.Line)}
		}
		if err := a.resolveExpr(s, ex.Lhs); err != nil {
			return err
		}
		return a.resolveExpr(s, ex.Rhs)

	case *ast.CompoundAssignment:
		if !isLvalue(ex.Lhs) {
			return &SemError{Kind: ErrInvalidLValue, Line: lvalueLine(ex.Lhs, ex.Line)}
		}
		if err := a.resolveExpr(s, ex.Lhs); err != nil {
			return err
		}
		return a.resolveExpr(s, ex.Rhs)

	case *ast.Conditional:
		if err := a.resolveExpr(s, ex.Cond); err != nil {
			return err
		}
		if err := a.resolveExpr(s, ex.Then); err != nil {
			return err
		}
		return a.resolveExpr(s, ex.Else)

	case *ast.PrefixOp:
		if !isLvalue(ex.Expr) {
			return &SemError{Kind: ErrInvalidLValue, Line: lvalueLine(ex.Expr, ex.Line)}
		}
		return a.resolveExpr(s, ex.Expr)

	case *ast.PostfixOp:
		if !isLvalue(ex.Expr) {
			return &SemError{Kind: ErrInvalidLValue, Line: lvalueLine(ex.Expr, ex.Line)}
		}
		return a.resolveExpr(s, ex.Expr)
	}

	return nil
}
