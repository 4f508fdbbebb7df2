// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser builds an abstract syntax tree from a stream of tokens.
//
// The parser stops at the first malformed construct: a partial tree is
// never returned.
package parser

import (
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/token"
	"github.com/eppabasic/ebc/build/types"
)

// Parser is a recursive descent parser with one token of lookahead.
type Parser struct {
	src token.Source
}

// New returns a parser reading tokens from a source.
func New(src token.Source) *Parser {
	return &Parser{src: src}
}

// Parse a program.
func Parse(src token.Source) (*ast.Block, error) {
	return New(src).Parse()
}

func (p *Parser) peek() token.Token {
	return p.src.Peek(1)
}

func (p *Parser) is(kinds ...token.Kind) bool {
	next := p.peek().Kind
	for _, kind := range kinds {
		if next == kind {
			return true
		}
	}
	return false
}

func (p *Parser) advance() token.Token {
	return p.src.Advance()
}

func (p *Parser) errorf(expected string) error {
	tok := p.peek()
	return fmterr.SyntaxError(tok.Line, expected, string(tok.Kind))
}

// expect consumes the next token if it is of the given kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.peek().Kind != kind {
		return token.Token{}, p.errorf(string(kind))
	}
	return p.advance(), nil
}

// Parse the whole program.
func (p *Parser) Parse() (*ast.Block, error) {
	block := &ast.Block{Base: ast.At(p.peek().Line)}
	for !p.is(token.EOS) {
		if p.is(token.Newline) {
			p.advance()
			continue
		}
		stmt, err := p.parseBaselevelStatement()
		if err != nil {
			return nil, err
		}
		block.Nodes = append(block.Nodes, stmt)
		if err := p.endStatement(block, true); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// endStatement parses an optional trailing comment and the end of the line.
func (p *Parser) endStatement(block *ast.Block, eosAllowed bool) error {
	if p.is(token.Comment) {
		block.Nodes = append(block.Nodes, p.parseComment())
	}
	if eosAllowed && p.is(token.EOS) {
		return nil
	}
	_, err := p.expect(token.Newline)
	return err
}

// parseBaselevelStatement parses a statement at the program level.
// Only base level statements can define functions.
func (p *Parser) parseBaselevelStatement() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.Function:
		return p.parseFunctionDefinition()
	case token.Sub:
		return p.parseSubDefinition()
	case token.Return:
		return nil, p.errorf("statement")
	}
	return p.parseStatement()
}

// parseStatement parses a statement that can appear in a block.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.Comment:
		return p.parseComment(), nil
	case token.Dim:
		return p.parseVariableDefinition()
	case token.For:
		return p.parseFor()
	case token.Identifier:
		return p.parseIdentifier()
	case token.If:
		return p.parseIf()
	case token.Repeat:
		return p.parseRepeat()
	case token.Return:
		return p.parseReturn()
	}
	return nil, p.errorf("statement")
}

func (p *Parser) parseComment() *ast.Comment {
	tok := p.advance()
	return &ast.Comment{Base: ast.At(tok.Line), Text: tok.Text}
}

// blockEnd lists the tokens closing a block.
var blockEnd = []token.Kind{
	token.Next,
	token.Else,
	token.ElseIf,
	token.EndIf,
	token.EndFunction,
	token.EndSub,
	token.Forever,
	token.Until,
	token.While,
}

// parseBlock parses statements until a token closing the block.
// The closing token is not consumed.
func (p *Parser) parseBlock() (*ast.Block, error) {
	block := &ast.Block{Base: ast.At(p.peek().Line)}
	if err := p.endStatement(block, false); err != nil {
		return nil, err
	}
	for {
		if p.is(token.Newline) {
			p.advance()
			continue
		}
		if p.is(blockEnd...) {
			return block, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Nodes = append(block.Nodes, stmt)
		if err := p.endStatement(block, false); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseType() (*types.Type, error) {
	if _, err := p.expect(token.As); err != nil {
		return nil, err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	return types.ToType(name.Line, name.Text)
}

func (p *Parser) parseVariableDefinition() (*ast.VariableDefinition, error) {
	dim := p.advance()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	def := &ast.VariableDefinition{Base: ast.At(dim.Line), Name: name.Text}
	if p.is(token.LBracket) {
		lbracket := p.peek()
		sizes, err := p.parseIndices()
		if err != nil {
			return nil, err
		}
		def.Dimensions = &ast.Dimensions{Base: ast.At(lbracket.Line), Sizes: sizes}
	}
	if p.is(token.As) {
		if def.Declared, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.is(token.Eq) {
		p.advance()
		if def.Initial, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// parseIndices parses a bracketed list of expressions.
func (p *Parser) parseIndices() ([]ast.Expr, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	var exprs []ast.Expr
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.is(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	forTok := p.advance()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.To); err != nil {
		return nil, err
	}
	stop, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step ast.Expr = &ast.Number{Base: ast.At(forTok.Line), Value: "1"}
	if p.is(token.Step) {
		p.advance()
		if step, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	next, err := p.expect(token.Next)
	if err != nil {
		return nil, err
	}
	closing, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if closing.Text != name.Text {
		return nil, fmterr.InvalidLoopStructureError(next.Line, name.Text, closing.Text)
	}
	return &ast.For{
		Base:     ast.At(forTok.Line),
		Variable: &ast.VariableDefinition{Base: ast.At(name.Line), Name: name.Text},
		Range:    &ast.Range{Base: ast.At(forTok.Line), Start: start, End: stop},
		Step:     step,
		Block:    block,
	}, nil
}

// parseIf parses an if statement.
// Every elseif becomes an If nested in the false branch of the previous one.
func (p *Parser) parseIf() (*ast.If, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Then); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	root := &ast.If{Base: ast.At(ifTok.Line), Cond: cond, True: block}
	cur := root
	for !p.is(token.EndIf) {
		switch p.peek().Kind {
		case token.Else:
			p.advance()
			if block, err = p.parseBlock(); err != nil {
				return nil, err
			}
			cur.False = block
			if _, err := p.expect(token.EndIf); err != nil {
				return nil, err
			}
			return root, nil
		case token.ElseIf:
			elseIf := p.advance()
			if cond, err = p.parseExpr(); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Then); err != nil {
				return nil, err
			}
			if block, err = p.parseBlock(); err != nil {
				return nil, err
			}
			next := &ast.If{Base: ast.At(elseIf.Line), Cond: cond, True: block}
			cur.False = next
			cur = next
		default:
			return nil, p.errorf("else/elseif/endif")
		}
	}
	p.advance()
	return root, nil
}

// parseIdentifier parses a statement starting with an identifier:
// an assignment or a call.
func (p *Parser) parseIdentifier() (ast.Stmt, error) {
	name := p.advance()
	if !p.is(token.Eq, token.LBracket) {
		args, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionCall{Base: ast.At(name.Line), Name: name.Text, Args: args}, nil
	}
	assign := &ast.VariableAssignment{Base: ast.At(name.Line), Name: name.Text}
	var err error
	if p.is(token.LBracket) {
		if assign.Index, err = p.parseIndices(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Eq); err != nil {
		return nil, err
	}
	if assign.Expr, err = p.parseExpr(); err != nil {
		return nil, err
	}
	return assign, nil
}

// parseParams parses the arguments of a call, with or without parentheses.
func (p *Parser) parseParams() ([]ast.Expr, error) {
	hasParens := p.is(token.LParen)
	if hasParens {
		p.advance()
	}
	var args []ast.Expr
	for !p.is(token.Newline, token.RParen, token.EOS, token.Comment) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.is(token.Comma) {
			break
		}
		p.advance()
	}
	if hasParens {
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (p *Parser) parseParamDefinitions() ([]*ast.VariableDefinition, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.VariableDefinition
	for !p.is(token.RParen) {
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.VariableDefinition{
			Base:     ast.At(name.Line),
			Name:     name.Text,
			Declared: typ,
		})
		if p.is(token.RParen) {
			break
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
	}
	p.advance()
	return params, nil
}

func (p *Parser) parseFunctionDefinition() (*ast.FunctionDefinition, error) {
	return p.parseDefinition(true, token.EndFunction)
}

func (p *Parser) parseSubDefinition() (*ast.FunctionDefinition, error) {
	return p.parseDefinition(false, token.EndSub)
}

// parseDefinition parses functions and subprograms.
// A subprogram is a function without a return type.
func (p *Parser) parseDefinition(hasReturn bool, end token.Kind) (*ast.FunctionDefinition, error) {
	keyword := p.advance()
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	def := &ast.FunctionDefinition{Base: ast.At(keyword.Line), Name: name.Text}
	if def.Params, err = p.parseParamDefinitions(); err != nil {
		return nil, err
	}
	if hasReturn {
		if def.Return, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if def.Block, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	tok := p.advance()
	ret := &ast.Return{Base: ast.At(tok.Line)}
	if p.is(token.Newline, token.EOS, token.Comment) {
		return ret, nil
	}
	var err error
	if ret.Expr, err = p.parseExpr(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) parseRepeat() (ast.Stmt, error) {
	repeat := p.advance()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case token.Forever:
		p.advance()
		return &ast.RepeatForever{Base: ast.At(repeat.Line), Block: block}, nil
	case token.Until:
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.RepeatUntil{Base: ast.At(repeat.Line), Block: block, Cond: cond}, nil
	case token.While:
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.RepeatWhile{Base: ast.At(repeat.Line), Block: block, Cond: cond}, nil
	}
	return nil, p.errorf("forever/until/while")
}
