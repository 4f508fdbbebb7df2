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

package parser

import (
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/token"
	"github.com/eppabasic/ebc/build/types"
)

// Binary operators by precedence level, from the loosest to the tightest.
var levels = [][]token.Kind{
	{token.Or, token.Xor},
	{token.And},
	nil, // not
	{token.Eq, token.Neq, token.Lt, token.Lte, token.Gt, token.Gte},
	{token.Concat},
	{token.Plus, token.Minus},
	{token.Mul, token.Div, token.IntDiv, token.Mod},
}

const (
	notLevel        = 2
	comparisonLevel = 3
)

var operators = map[token.Kind]string{
	token.Or:     types.OpOr,
	token.Xor:    types.OpXor,
	token.And:    types.OpAnd,
	token.Eq:     types.OpEq,
	token.Neq:    types.OpNeq,
	token.Lt:     types.OpLt,
	token.Lte:    types.OpLte,
	token.Gt:     types.OpGt,
	token.Gte:    types.OpGte,
	token.Concat: types.OpConcat,
	token.Plus:   types.OpPlus,
	token.Minus:  types.OpMinus,
	token.Mul:    types.OpMul,
	token.Div:    types.OpDiv,
	token.IntDiv: types.OpIntDiv,
	token.Mod:    types.OpMod,
}

// parseExpr parses an expression.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseLevel(0)
}

func (p *Parser) parseLevel(level int) (ast.Expr, error) {
	if level == len(levels) {
		return p.parseFactor()
	}
	if level == notLevel {
		if !p.is(token.Not) {
			return p.parseLevel(level + 1)
		}
		tok := p.advance()
		expr, err := p.parseLevel(level)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.At(tok.Line), Op: types.OpNot, Expr: expr}, nil
	}
	left, err := p.parseLevel(level + 1)
	if err != nil {
		return nil, err
	}
	for p.is(levels[level]...) {
		tok := p.advance()
		right, err := p.parseLevel(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.At(tok.Line), Left: left, Op: operators[tok.Kind], Right: right}
		if level == comparisonLevel {
			// Comparisons do not chain.
			break
		}
	}
	return left, nil
}

// parseFactor parses a literal, a variable, a call, an indexed array,
// a negation or a parenthesized expression.
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case token.Minus:
		p.advance()
		expr, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.At(tok.Line), Op: types.OpNeg, Expr: expr}, nil
	case token.Number:
		p.advance()
		return &ast.Number{Base: ast.At(tok.Line), Value: tok.Text}, nil
	case token.String:
		p.advance()
		return &ast.StringLit{Base: ast.At(tok.Line), Value: tok.Text}, nil
	case token.Identifier:
		p.advance()
		if p.is(token.LParen) {
			args, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			return &ast.FunctionCall{Base: ast.At(tok.Line), Name: tok.Text, Args: args}, nil
		}
		var expr ast.Expr = &ast.Variable{Base: ast.At(tok.Line), Name: tok.Text}
		if p.is(token.LBracket) {
			index, err := p.parseIndices()
			if err != nil {
				return nil, err
			}
			expr = &ast.IndexOp{Base: ast.At(tok.Line), Expr: expr, Index: index}
		}
		return expr, nil
	}
	return nil, p.errorf("expression")
}
