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

// Package checker resolves the types of an EppaBasic program.
//
// The checker decorates the tree in place: expressions get their type,
// variables their definition, calls their function handle and operators
// their typed implementation. Errors are reported per statement: a statement
// failing to check does not prevent the following statements from being
// checked. Expressions depending on a failed statement resolve to the
// invalid type, which does not trigger further diagnostics.
package checker

import (
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
)

// Checker checks the types of a program.
type Checker struct {
	funcs  *ast.FunctionTable
	ops    *types.Registry
	errs   *fmterr.Appender
	scopes *Scopes

	fn *ast.FunctionDefinition
}

// New returns a checker resolving calls with a function table.
// User functions defined by the program are added to the table.
func New(funcs *ast.FunctionTable, errs *fmterr.Appender) *Checker {
	return &Checker{
		funcs: funcs,
		ops:   types.Operators(),
		errs:  errs,
	}
}

// Check a program. It returns the scopes of the program and
// false if an error has been reported.
func Check(tree *ast.Block, funcs *ast.FunctionTable, errs *fmterr.Appender) (*Scopes, bool) {
	c := New(funcs, errs)
	c.Check(tree)
	return c.scopes, !errs.Errors().HasErrors()
}

// Check a program.
func (c *Checker) Check(tree *ast.Block) *Scopes {
	c.scopes = newScopes()
	c.declareFunctions(tree)
	if c.errs.Stop() {
		return c.scopes
	}
	program := c.scopes.newScope(ProgramScope, 0)
	c.checkStatements(tree, program)
	return c.scopes
}

func (c *Checker) report(err error) bool {
	c.errs.Append(err)
	return !c.errs.Stop()
}

// declareFunctions registers the handles of all user functions before
// checking any body, so that a function can be called before its definition.
func (c *Checker) declareFunctions(tree *ast.Block) {
	for _, stmt := range tree.Nodes {
		def, ok := stmt.(*ast.FunctionDefinition)
		if !ok || def.Handle != nil {
			continue
		}
		handle := &ast.FunctionHandle{
			Name:   def.Name,
			Params: def.ParamTypes(),
			Return: def.Return,
			Def:    def,
		}
		if _, added := c.funcs.Add(handle); !added {
			if !c.report(fmterr.RedefinedFunctionError(def.Line(), def.Name, handle.ParamNames())) {
				return
			}
			continue
		}
		def.Handle = handle
	}
}

// checkStatements checks the statements of a block in a given scope.
// It returns false if checking must stop.
func (c *Checker) checkStatements(block *ast.Block, id ast.ScopeID) bool {
	block.Scope = id
	for _, stmt := range block.Nodes {
		if err := c.checkStmt(stmt, id); err != nil {
			if !c.report(err) {
				return false
			}
		}
		if c.errs.Stop() {
			return false
		}
	}
	return true
}

func (c *Checker) checkBlock(block *ast.Block, parent ast.ScopeID) bool {
	return c.checkStatements(block, c.scopes.newScope(BlockScope, parent))
}

func (c *Checker) checkStmt(stmt ast.Stmt, id ast.ScopeID) error {
	switch s := stmt.(type) {
	case *ast.Comment:
		return nil
	case *ast.Block:
		c.checkBlock(s, id)
		return nil
	case *ast.VariableDefinition:
		return c.checkVariableDefinition(s, id)
	case *ast.VariableAssignment:
		return c.checkVariableAssignment(s, id)
	case *ast.For:
		return c.checkFor(s, id)
	case *ast.If:
		return c.checkIf(s, id)
	case *ast.RepeatForever:
		c.checkBlock(s.Block, id)
		return nil
	case *ast.RepeatUntil:
		return c.checkRepeat(s.Block, s.Cond, id)
	case *ast.RepeatWhile:
		return c.checkRepeat(s.Block, s.Cond, id)
	case *ast.FunctionDefinition:
		return c.checkFunctionDefinition(s, id)
	case *ast.Return:
		return c.checkReturn(s, id)
	case *ast.FunctionCall:
		_, err := c.resolveCall(s, id)
		return err
	}
	return fmterr.Internalf("checker does not support statement %T", stmt)
}

// castable returns true if a value of type from can be used as a value of type to.
// The invalid type casts to and from every type so that an error is only reported once.
func castable(from, to *types.Type) bool {
	if !from.IsValid() || !to.IsValid() {
		return true
	}
	return from.CanCastTo(to)
}

func (c *Checker) checkVariableDefinition(def *ast.VariableDefinition, id ast.ScopeID) error {
	if def.Resolved() {
		// Already checked: register the variable again in the new scope.
		c.scopes.define(id, def)
		return nil
	}
	typ := def.Declared
	var initial *types.Type
	var err error
	if def.Initial != nil {
		initial, err = c.value(def.Initial, id)
	}
	if err == nil && typ == nil {
		if def.Initial == nil {
			err = fmterr.UntypedVariableError(def.Line(), def.Name)
		}
		typ = initial
	}
	if err == nil && def.Dimensions != nil {
		err = c.checkIndices(def.Dimensions.Sizes, fmterr.KeyMismatchDim, id)
	}
	if err == nil && def.Dimensions != nil && def.Initial != nil {
		err = fmterr.ArrayInitializerError(def.Line(), def.Name)
	}
	if err == nil && initial != nil && !castable(initial, typ) {
		err = fmterr.TypeMismatchError(def.Line(), fmterr.KeyMismatchCast, initial.String(), typ.String())
	}
	if typ == nil {
		typ = types.Invalid
	}
	if def.Dimensions != nil && typ.IsValid() {
		typ = types.ArrayOf(typ, len(def.Dimensions.Sizes))
	}
	if err != nil {
		typ = types.Invalid
	}
	def.SetType(typ)
	if !c.scopes.define(id, def) && err == nil {
		err = fmterr.RedefinedVariableError(def.Line(), def.Name)
	}
	return err
}

// checkIndices checks that all the expressions resolve to integers.
func (c *Checker) checkIndices(exprs []ast.Expr, key fmterr.Key, id ast.ScopeID) error {
	for _, expr := range exprs {
		typ, err := c.value(expr, id)
		if err != nil {
			return err
		}
		if !castable(typ, types.Integer) {
			return fmterr.TypeMismatchError(expr.Line(), key, typ.String(), types.Integer.String())
		}
	}
	return nil
}

// element returns the type of an element of an array indexed by a list of expressions.
func (c *Checker) element(line int, array *types.Type, index []ast.Expr, id ast.ScopeID) (*types.Type, error) {
	if err := c.checkIndices(index, fmterr.KeyMismatchIndex, id); err != nil {
		return nil, err
	}
	if !array.IsValid() {
		return types.Invalid, nil
	}
	if !array.IsArray() {
		return nil, fmterr.NotArrayError(line, array.String())
	}
	if array.Dims() != len(index) {
		return nil, fmterr.IndexCountError(line, array.Dims(), len(index))
	}
	return array.Item(), nil
}

func (c *Checker) checkVariableAssignment(assign *ast.VariableAssignment, id ast.ScopeID) error {
	ref := c.scopes.Lookup(id, assign.Name)
	if ref == nil {
		return fmterr.UndefinedVariableError(assign.Line(), assign.Name)
	}
	assign.Ref = ref
	target := ref.Type()
	if len(assign.Index) > 0 {
		var err error
		if target, err = c.element(assign.Line(), target, assign.Index, id); err != nil {
			return err
		}
	}
	typ, err := c.value(assign.Expr, id)
	if err != nil {
		return err
	}
	if !castable(typ, target) {
		return fmterr.TypeMismatchError(assign.Line(), fmterr.KeyMismatchAssign, typ.String(), target.String())
	}
	return nil
}

func (c *Checker) checkFor(loop *ast.For, id ast.ScopeID) error {
	scope := c.scopes.newScope(LoopScope, id)
	loop.Scope = scope
	c.scopes.define(scope, loop.Variable)
	typ, err := c.resolve(loop.Range, id)
	if err == nil && typ.HasValue() {
		var step *types.Type
		step, err = c.value(loop.Step, id)
		if err == nil && !castable(step, typ) {
			err = fmterr.TypeMismatchError(loop.Line(), fmterr.KeyMismatchStep, step.String(), typ.String())
		}
	}
	if err != nil || typ == nil {
		typ = types.Invalid
	}
	if !loop.Variable.Resolved() {
		loop.Variable.SetType(typ)
	}
	if err != nil && !c.report(err) {
		return nil
	}
	c.checkBlock(loop.Block, scope)
	return nil
}

// checkCondition checks that a condition resolves to a boolean.
func (c *Checker) checkCondition(cond ast.Expr, id ast.ScopeID) error {
	typ, err := c.value(cond, id)
	if err != nil {
		return err
	}
	if !castable(typ, types.Boolean) {
		return fmterr.TypeMismatchError(cond.Line(), fmterr.KeyMismatchCond, typ.String(), types.Boolean.String())
	}
	return nil
}

func (c *Checker) checkIf(stmt *ast.If, id ast.ScopeID) error {
	if err := c.checkCondition(stmt.Cond, id); err != nil {
		if !c.report(err) {
			return nil
		}
	}
	if !c.checkBlock(stmt.True, id) {
		return nil
	}
	if stmt.False != nil {
		return c.checkStmt(stmt.False, id)
	}
	return nil
}

func (c *Checker) checkRepeat(block *ast.Block, cond ast.Expr, id ast.ScopeID) error {
	if !c.checkBlock(block, id) {
		return nil
	}
	return c.checkCondition(cond, id)
}

func (c *Checker) checkFunctionDefinition(def *ast.FunctionDefinition, id ast.ScopeID) error {
	if def.Handle == nil {
		// Redefinition already reported.
		return nil
	}
	scope := c.scopes.newScope(FunctionScope, id)
	def.Scope = scope
	for _, param := range def.Params {
		param.SetType(param.Declared)
		if !c.scopes.define(scope, param) {
			if !c.report(fmterr.RedefinedVariableError(param.Line(), param.Name)) {
				return nil
			}
		}
	}
	outer := c.fn
	c.fn = def
	defer func() { c.fn = outer }()
	c.checkBlock(def.Block, scope)
	return nil
}

func (c *Checker) checkReturn(ret *ast.Return, id ast.ScopeID) error {
	ret.Func = c.fn
	if ret.Expr == nil {
		ret.SetType(types.Void)
		if c.fn != nil && !c.fn.IsSubprogram() {
			c.errs.Append(fmterr.ReturnMismatchWarning(ret.Line(), c.fn.Name, types.Void.String(), c.fn.Return.String()))
		}
		return nil
	}
	typ, err := c.value(ret.Expr, id)
	if err != nil {
		return err
	}
	ret.SetType(typ)
	if c.fn == nil || c.fn.IsSubprogram() {
		return fmterr.ReturnOutsideError(ret.Line())
	}
	if !castable(typ, c.fn.Return) {
		c.errs.Append(fmterr.ReturnMismatchWarning(ret.Line(), c.fn.Name, typ.String(), c.fn.Return.String()))
	}
	return nil
}
