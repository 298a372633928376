package parser

import (
	"github.com/skx/cc-subset/ast"
	"github.com/skx/cc-subset/token"
)

// parseStatement implements:
//
//	statement ::= "return" expr ";"
//	            | expr ";"
//	            | ";"
//	            | "if" "(" expr ")" statement [ "else" statement ]
//	            | block
//	            | "while" "(" expr ")" statement
//	            | "do" statement "while" "(" expr ")" ";"
//	            | "for" "(" for-init [expr] ";" [expr] ")" statement
//	            | "break" ";" | "continue" ";"
//
// Dangling else binds to the nearest unmatched if: the then-branch is
// parsed to completion (recursing through any nested if/else of its
// own) before this frame ever looks for an "else" of its own.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Kind {

	case token.RETURN:
		p.advance()
		e, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Return{Expr: e}, nil

	case token.SEMI:
		p.advance()
		return &ast.Null{}, nil

	case token.LBRACE:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Compound{Block: block}, nil

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile()

	case token.DO:
		return p.parseDoWhile()

	case token.FOR:
		return p.parseFor()

	case token.BREAK:
		tok := p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Break{Line: tok.Line}, nil

	case token.CONTINUE:
		tok := p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Continue{Line: tok.Line}, nil

	default:
		e, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: e}, nil
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.advance() // "if"
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Cond: cond, Then: then}
	if p.cur().Kind == token.ELSE {
		p.advance()
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.advance() // "while"
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	p.advance() // "do"
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.DoWhile{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	p.advance() // "for"
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	init, err := p.parseForInit()
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if p.cur().Kind != token.SEMI {
		cond, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	var post ast.Expr
	if p.cur().Kind != token.RPAREN {
		post, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.For{Init: init, Cond: cond, Post: post, Body: body}, nil
}

// parseForInit implements: for-init ::= declaration | [expr] ";"
// The trailing ";" is consumed here in both branches, matching
// parseDeclaration's own semicolon consumption.
func (p *Parser) parseForInit() (ast.ForInit, error) {
	if p.cur().Kind == token.INT {
		return p.parseDeclaration()
	}
	if p.cur().Kind == token.SEMI {
		p.advance()
		return &ast.ExprForInit{}, nil
	}
	e, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprForInit{Expr: e}, nil
}
