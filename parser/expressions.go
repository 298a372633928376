package parser

import (
	"strconv"

	"github.com/skx/cc-subset/ast"
	"github.com/skx/cc-subset/token"
)

// precedences mirrors the grammar's precedence table: higher binds
// tighter. Assignment and compound-assignment share the lowest
// operator precedence (right-associative), the ternary "?" sits just
// above it, and everything else follows C's usual ladder.
var precedences = map[token.Kind]int{
	token.ASSIGN:     1,
	token.PLUS_EQ:    1,
	token.MINUS_EQ:   1,
	token.STAR_EQ:    1,
	token.SLASH_EQ:   1,
	token.PERCENT_EQ: 1,
	token.AMP_EQ:     1,
	token.PIPE_EQ:    1,
	token.CARET_EQ:   1,
	token.SHL_EQ:     1,
	token.SHR_EQ:     1,

	token.QUESTION: 50,

	token.OR_OR:  280,
	token.AND_AND: 290,
	token.PIPE:    300,
	token.CARET:   325,
	token.AMP:     350,
	token.EQ_EQ:   360,
	token.NOT_EQ:  360,
	token.LT:      370,
	token.GT:      370,
	token.LT_EQ:   370,
	token.GT_EQ:   370,
	token.SHL:     400,
	token.SHR:     400,
	token.PLUS:    450,
	token.MINUS:   450,
	token.STAR:    500,
	token.SLASH:   500,
	token.PERCENT: 500,
}

// compoundOps maps a compound-assignment token to the bare binary
// operator it desugars to (e.g. "+=" carries the "+" operator).
var compoundOps = map[token.Kind]string{
	token.PLUS_EQ:    "+",
	token.MINUS_EQ:   "-",
	token.STAR_EQ:    "*",
	token.SLASH_EQ:   "/",
	token.PERCENT_EQ: "%",
	token.AMP_EQ:     "&",
	token.PIPE_EQ:    "|",
	token.CARET_EQ:   "^",
	token.SHL_EQ:     "<<",
	token.SHR_EQ:     ">>",
}

func isAssignKind(k token.Kind) bool {
	_, isCompound := compoundOps[k]
	return k == token.ASSIGN || isCompound
}

// parseExpression is the precedence-climbing entry point: it only
// continues consuming an operator when that operator's precedence is
// at least minPrecedence, recursing with precedence+1 for left-assoc
// binary operators and with the same precedence for the right-assoc
// assignment and ternary families.
func (p *Parser) parseExpression(minPrecedence int) (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.cur()
		prec, isOperator := precedences[opTok.Kind]
		if !isOperator || prec < minPrecedence {
			break
		}

		switch {
		case opTok.Kind == token.ASSIGN:
			p.advance()
			rhs, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			left = &ast.Assignment{Lhs: left, Rhs: rhs, Line: opTok.Line}

		case isAssignKind(opTok.Kind):
			p.advance()
			rhs, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			left = &ast.CompoundAssignment{Lhs: left, Op: compoundOps[opTok.Kind], Rhs: rhs, Line: opTok.Line}

		case opTok.Kind == token.QUESTION:
			p.advance()
			then, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			els, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			left = &ast.Conditional{Cond: left, Then: then, Else: els}

		default:
			p.advance()
			rhs, err := p.parseExpression(prec + 1)
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Op: string(opTok.Kind), Left: left, Right: rhs}
		}
	}

	return left, nil
}

// parseFactor implements:
//
//	factor ::= INT | identifier | unop factor | "(" expr ")" | ("++"|"--") factor
//	         | factor ("++"|"--")
//
// The trailing postfix alternative is applied here, after the base
// factor has been parsed, so it binds tighter than any binary operator
// but composes with the unary/grouping forms above it.
func (p *Parser) parseFactor() (ast.Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind == token.PLUS_PLUS || p.cur().Kind == token.MINUS_MINUS {
		opTok := p.advance()
		base = &ast.PostfixOp{Op: string(opTok.Kind), Expr: base, Line: opTok.Line}
	}

	return base, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.cur().Kind {

	case token.CONSTANT:
		tok := p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &ParseError{Found: tok, Expected: "a valid integer constant"}
		}
		return &ast.Constant{Value: v}, nil

	case token.IDENT:
		tok := p.advance()
		return &ast.Var{Name: tok.Lexeme, Line: tok.Line}, nil

	case token.TILDE, token.MINUS, token.BANG:
		opTok := p.advance()
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: string(opTok.Kind), Expr: inner}, nil

	case token.PLUS_PLUS, token.MINUS_MINUS:
		opTok := p.advance()
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixOp{Op: string(opTok.Kind), Expr: inner, Line: opTok.Line}, nil

	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return nil, &ParseError{Found: p.cur(), Expected: "an expression"}
	}
}
