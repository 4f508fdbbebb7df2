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

package checker

import (
	"strconv"
	"strings"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
)

// value resolves the type of an expression used as a value.
func (c *Checker) value(expr ast.Expr, id ast.ScopeID) (*types.Type, error) {
	typ, err := c.resolve(expr, id)
	if err != nil {
		return nil, err
	}
	if typ == types.Void {
		call, _ := expr.(*ast.FunctionCall)
		name := ""
		if call != nil {
			name = call.Name
		}
		return nil, fmterr.NoValueError(expr.Line(), name)
	}
	return typ, nil
}

// resolve the type of an expression.
// The type is stored in the expression: resolving an expression twice
// returns the type resolved the first time.
func (c *Checker) resolve(expr ast.Expr, id ast.ScopeID) (*types.Type, error) {
	if expr.Resolved() {
		c.relink(expr, id)
		return expr.Type(), nil
	}
	typ, err := c.resolveType(expr, id)
	if err != nil {
		return nil, err
	}
	expr.SetType(typ)
	return typ, nil
}

// relink updates the references of an expression already resolved.
func (c *Checker) relink(expr ast.Expr, id ast.ScopeID) {
	if v, ok := expr.(*ast.Variable); ok && v.Def == nil {
		v.Def = c.scopes.Lookup(id, v.Name)
	}
}

func (c *Checker) resolveType(expr ast.Expr, id ast.ScopeID) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return numberType(e.Value), nil
	case *ast.StringLit:
		return types.String, nil
	case *ast.Variable:
		def := c.scopes.Lookup(id, e.Name)
		if def == nil {
			return nil, fmterr.UndefinedVariableError(e.Line(), e.Name)
		}
		e.Def = def
		return def.Type(), nil
	case *ast.BinaryOp:
		return c.resolveBinary(e, id)
	case *ast.UnaryOp:
		return c.resolveUnary(e, id)
	case *ast.IndexOp:
		array, err := c.value(e.Expr, id)
		if err != nil {
			return nil, err
		}
		return c.element(e.Line(), array, e.Index, id)
	case *ast.Range:
		start, err := c.value(e.Start, id)
		if err != nil {
			return nil, err
		}
		end, err := c.value(e.End, id)
		if err != nil {
			return nil, err
		}
		if start.IsValid() && end.IsValid() && start != end {
			return nil, fmterr.TypeMismatchError(e.Line(), fmterr.KeyMismatchRange, end.String(), start.String())
		}
		if !end.IsValid() {
			return end, nil
		}
		return start, nil
	case *ast.FunctionCall:
		return c.resolveCall(e, id)
	}
	return nil, fmterr.Internalf("checker does not support expression %T", expr)
}

// numberType returns Integer for literals without a decimal point
// fitting in 32 bits and Double otherwise.
func numberType(lit string) *types.Type {
	if strings.Contains(lit, ".") {
		return types.Double
	}
	if _, err := strconv.ParseInt(lit, 10, 32); err != nil {
		return types.Double
	}
	return types.Integer
}

func (c *Checker) resolveBinary(e *ast.BinaryOp, id ast.ScopeID) (*types.Type, error) {
	left, err := c.value(e.Left, id)
	if err != nil {
		return nil, err
	}
	right, err := c.value(e.Right, id)
	if err != nil {
		return nil, err
	}
	if !left.IsValid() || !right.IsValid() {
		return types.Invalid, nil
	}
	op := c.lookupOperator(left, e.Op, right)
	if op == nil {
		return nil, fmterr.UndefinedOperatorError(e.Line(), e.Op, left.String(), right.String())
	}
	e.Operator = op
	return op.Return, nil
}

func (c *Checker) resolveUnary(e *ast.UnaryOp, id ast.ScopeID) (*types.Type, error) {
	typ, err := c.value(e.Expr, id)
	if err != nil {
		return nil, err
	}
	if !typ.IsValid() {
		return types.Invalid, nil
	}
	op := c.lookupOperator(typ, e.Op, nil)
	if op == nil {
		return nil, fmterr.UndefinedOperatorError(e.Line(), e.Op, typ.String(), "")
	}
	e.Operator = op
	return op.Return, nil
}

// lookupOperator finds the operator for the given operand types.
// The exact match is preferred. Otherwise, operands are widened along
// their cast targets and the operator requiring the fewest casts is used.
func (c *Checker) lookupOperator(left *types.Type, op string, right *types.Type) *types.Operator {
	if found := c.ops.Lookup(left, op, right); found != nil {
		return found
	}
	rights := []*types.Type{nil}
	if right != nil {
		rights = right.CastTargets()
	}
	var best *types.Operator
	bestCost := -1
	for i, l := range left.CastTargets() {
		for j, r := range rights {
			found := c.ops.Lookup(l, op, r)
			if found == nil {
				continue
			}
			cost := 0
			if i > 0 {
				cost++
			}
			if j > 0 {
				cost++
			}
			if bestCost < 0 || cost < bestCost {
				best, bestCost = found, cost
			}
		}
	}
	return best
}
