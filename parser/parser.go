// Package parser implements a recursive-descent parser for the C
// subset, with a precedence-climbing expression parser in the style of
// a Pratt parser: parseExpression takes a minimum-precedence argument
// and only recurses into operators that bind at or above it.
package parser

import (
	"fmt"

	"github.com/skx/cc-subset/ast"
	"github.com/skx/cc-subset/token"
)

// ParseError reports a token that didn't match what the grammar
// expected at that point.
type ParseError struct {
	Found    token.Token
	Expected string
}

func (e *ParseError) Error() string {
	if e.Found.Kind == token.EOF {
		return fmt.Sprintf("line %d: unexpected end of input, expected %s", e.Found.Line, e.Expected)
	}
	return fmt.Sprintf("line %d: unexpected token %q, expected %s", e.Found.Line, e.Found.Lexeme, e.Expected)
}

// Parser holds parser state: the token stream and a read cursor.
// There is no separate lexer step visible here — tokens are handed in
// already scanned, keeping tokenizing and parsing as separate stages.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a Parser over an already-tokenized stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes nothing further; it parses tokens into a Program.
// This is the package-level contract entry point: parse(tokens) ->
// Result<Program, ParseError>.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has kind k, else reports a
// ParseError naming what was expected.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, &ParseError{Found: p.cur(), Expected: string(k)}
	}
	return p.advance(), nil
}

// ParseProgram parses "int name(void) { block }" and requires that no
// tokens remain afterward.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.EOF {
		return nil, &ParseError{Found: p.cur(), Expected: "end of input"}
	}
	return &ast.Program{Function: fn}, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if _, err := p.expect(token.INT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.VOID); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Lexeme, Body: body}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var items []ast.BlockItem
	for p.cur().Kind != token.RBRACE {
		if p.cur().Kind == token.EOF {
			return nil, &ParseError{Found: p.cur(), Expected: "'}'"}
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Items: items}, nil
}

func (p *Parser) parseBlockItem() (ast.BlockItem, error) {
	if p.cur().Kind == token.INT {
		return p.parseDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	if _, err := p.expect(token.INT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Name: name.Lexeme, Line: name.Line}
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		init, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return decl, nil
}
