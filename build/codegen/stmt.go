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

package codegen

import (
	"slices"

	"github.com/eppabasic/ebc/artifact"
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
)

func (f *frame) block(block *ast.Block) error {
	for _, stmt := range block.Nodes {
		if err := f.stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) stmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Comment, *ast.FunctionDefinition:
		return nil
	case *ast.Block:
		return f.block(s)
	case *ast.VariableDefinition:
		return f.define(s)
	case *ast.VariableAssignment:
		return f.assign(s)
	case *ast.FunctionCall:
		return f.callStmt(s)
	case *ast.Return:
		return f.ret(s)
	}
	if f.kind == localFrame {
		return fmterr.Internalf("line %d: statement %T in a function which does not yield", stmt.Line(), stmt)
	}
	switch s := stmt.(type) {
	case *ast.For:
		return f.forLoop(s)
	case *ast.If:
		return f.ifStmt(s)
	case *ast.RepeatForever:
		return f.repeat(s.Block, nil, false)
	case *ast.RepeatUntil:
		return f.repeat(s.Block, s.Cond, true)
	case *ast.RepeatWhile:
		return f.repeat(s.Block, s.Cond, false)
	}
	return fmterr.Internalf("line %d: code generator does not support statement %T", stmt.Line(), stmt)
}

// hoist evaluates the calls which may yield in a list of expressions and
// stores their results in temporaries, so that the value stack is empty when
// the routine yields. Operands evaluated before a yielding call in source
// order are stored in temporaries before the call.
func (f *frame) hoist(exprs ...ast.Expr) error {
	if f.kind == localFrame {
		return nil
	}
	return f.hoistList(exprs, false)
}

// hoistList hoists a list of operands evaluated left to right.
// If spill is true, a call which may yield follows the list.
func (f *frame) hoistList(exprs []ast.Expr, spill bool) error {
	for i, expr := range exprs {
		if expr == nil {
			continue
		}
		later := spill || slices.ContainsFunc(exprs[i+1:], yields)
		if err := f.hoistExpr(expr, later); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) hoistExpr(expr ast.Expr, spill bool) error {
	if expr.Atomic() {
		if spill {
			return f.spill(expr)
		}
		return nil
	}
	var children []ast.Expr
	for _, child := range ast.Children(expr) {
		children = append(children, child.(ast.Expr))
	}
	call, isCall := expr.(*ast.FunctionCall)
	yielding := isCall && !call.Handle.Atomic
	if err := f.hoistList(children, spill || yielding); err != nil {
		return err
	}
	if yielding {
		return f.suspend(call, true)
	}
	if spill {
		return f.spill(expr)
	}
	return nil
}

func yields(expr ast.Expr) bool {
	return expr != nil && !expr.Atomic()
}

// spill evaluates an expression and stores its value in a temporary.
// Constants are not stored.
func (f *frame) spill(expr ast.Expr) error {
	switch expr.(type) {
	case *ast.Number, *ast.StringLit:
		return nil
	}
	if _, ok := f.temps[expr]; ok {
		return nil
	}
	if err := f.expr(expr); err != nil {
		return err
	}
	s := f.temp(valueType(expr.Type()))
	f.set(s)
	f.temps[expr] = s
	return nil
}

// suspend calls a function which may yield.
// If keep is true, the result is stored in a temporary.
func (f *frame) suspend(call *ast.FunctionCall, keep bool) error {
	h := call.Handle
	result := valueType(h.Return)
	if h.HostBound {
		if err := f.args(call); err != nil {
			return err
		}
		f.emit(artifact.Instr{Op: artifact.OpCallHost, Name: f.g.imports[h]})
		if result != artifact.None {
			f.keepResult(call, keep, result)
		}
		resume := f.g.resumePoint("resume")
		f.emit(artifact.Instr{Op: artifact.OpYield, Label: resume})
		f.label(resume)
		return nil
	}
	for i, arg := range call.Args {
		if err := f.value(arg, h.Params[i]); err != nil {
			return err
		}
		f.emitSized(artifact.Instr{Op: artifact.OpFrameSet, Type: valueType(h.Params[i])},
			int64(artifact.FrameHeader+i*artifact.SlotSize))
	}
	resume := f.g.resumePoint("return")
	f.emitSized(artifact.Instr{Op: artifact.OpEnter, Label: f.g.entry[h], Name: resume}, 0)
	f.label(resume)
	if result != artifact.None {
		f.emitSized(artifact.Instr{Op: artifact.OpResultGet, Type: result}, 0)
		f.keepResult(call, keep, result)
	}
	return nil
}

func (f *frame) keepResult(call *ast.FunctionCall, keep bool, result artifact.ValueType) {
	if !keep {
		f.emit(artifact.Instr{Op: artifact.OpDrop})
		return
	}
	s := f.temp(result)
	f.set(s)
	f.temps[call] = s
}

func (f *frame) define(def *ast.VariableDefinition) error {
	var sizes []ast.Expr
	if def.Dimensions != nil {
		sizes = def.Dimensions.Sizes
	}
	if err := f.hoist(slices.Concat(sizes, []ast.Expr{def.Initial})...); err != nil {
		return err
	}
	s := f.slot(def)
	typ := def.Type()
	switch {
	case def.Dimensions != nil:
		if err := f.indices(sizes); err != nil {
			return err
		}
		f.emit(artifact.Instr{Op: artifact.OpArrayNew, Int: int64(len(sizes)), Type: valueType(typ.Item())})
	case def.Initial != nil:
		if err := f.value(def.Initial, typ); err != nil {
			return err
		}
	default:
		f.zero(s.typ)
	}
	f.set(s)
	return nil
}

func (f *frame) assign(assign *ast.VariableAssignment) error {
	if assign.Ref == nil {
		return fmterr.Internalf("line %d: variable %s has not been resolved", assign.Line(), assign.Name)
	}
	if err := f.hoist(slices.Concat(assign.Index, []ast.Expr{assign.Expr})...); err != nil {
		return err
	}
	s := f.slot(assign.Ref)
	if len(assign.Index) == 0 {
		if err := f.value(assign.Expr, assign.Ref.Type()); err != nil {
			return err
		}
		f.set(s)
		return nil
	}
	item := assign.Ref.Type().Item()
	vt := valueType(item)
	f.get(s)
	if err := f.indices(assign.Index); err != nil {
		return err
	}
	f.emit(artifact.Instr{Op: artifact.OpArrayAddr, Int: int64(len(assign.Index)), Type: vt})
	if err := f.value(assign.Expr, item); err != nil {
		return err
	}
	f.emit(artifact.Instr{Op: artifact.OpStore, Type: vt})
	return nil
}

func (f *frame) callStmt(call *ast.FunctionCall) error {
	if err := f.hoist(call.Args...); err != nil {
		return err
	}
	if call.Handle != nil && !call.Handle.Atomic && f.kind == heapFrame {
		return f.suspend(call, false)
	}
	if err := f.call(call); err != nil {
		return err
	}
	if valueType(call.Handle.Return) != artifact.None {
		f.emit(artifact.Instr{Op: artifact.OpDrop})
	}
	return nil
}

func (f *frame) ret(ret *ast.Return) error {
	if f.def == nil {
		f.emit(artifact.Instr{Op: artifact.OpHalt})
		return nil
	}
	if err := f.hoist(ret.Expr); err != nil {
		return err
	}
	result := valueType(f.def.Return)
	switch {
	case ret.Expr != nil && result != artifact.None:
		if err := f.value(ret.Expr, f.def.Return); err != nil {
			return err
		}
	case result != artifact.None:
		f.zero(result)
	}
	if f.kind == localFrame {
		f.emit(artifact.Instr{Op: artifact.OpReturn})
		return nil
	}
	if result != artifact.None {
		f.emit(artifact.Instr{Op: artifact.OpResultSet, Type: result})
	}
	f.emit(artifact.Instr{Op: artifact.OpLeave})
	return nil
}

// backEdge jumps back to the head of a loop, giving the host a chance to
// take control back.
func (f *frame) backEdge(head string) {
	f.emit(
		artifact.Instr{Op: artifact.OpYieldCheck, Label: head},
		artifact.Instr{Op: artifact.OpBr, Label: head},
	)
}

var loopOps = map[artifact.ValueType]struct {
	add, le, ge artifact.Op
}{
	artifact.I32: {add: artifact.OpI32Add, le: artifact.OpI32Le, ge: artifact.OpI32Ge},
	artifact.F64: {add: artifact.OpF64Add, le: artifact.OpF64Le, ge: artifact.OpF64Ge},
}

func (f *frame) forLoop(loop *ast.For) error {
	typ := loop.Variable.Type()
	vt := valueType(typ)
	ops, ok := loopOps[vt]
	if !ok {
		return fmterr.Internalf("line %d: cannot iterate over %s", loop.Line(), typ)
	}
	v := f.slot(loop.Variable)
	if err := f.hoist(loop.Range.Start); err != nil {
		return err
	}
	if err := f.value(loop.Range.Start, typ); err != nil {
		return err
	}
	f.set(v)
	end := f.temp(vt)
	if err := f.hoist(loop.Range.End); err != nil {
		return err
	}
	if err := f.value(loop.Range.End, typ); err != nil {
		return err
	}
	f.set(end)
	step := f.temp(vt)
	if err := f.hoist(loop.Step); err != nil {
		return err
	}
	if err := f.value(loop.Step, typ); err != nil {
		return err
	}
	f.set(step)

	head := f.g.resumePoint("for")
	down := f.newLabel("for.down")
	body := f.newLabel("for.body")
	exit := f.newLabel("for.end")
	f.label(head)
	f.get(step)
	f.zero(vt)
	f.emit(
		artifact.Instr{Op: ops.ge},
		artifact.Instr{Op: artifact.OpBrUnless, Label: down},
	)
	f.get(v)
	f.get(end)
	f.emit(
		artifact.Instr{Op: ops.le},
		artifact.Instr{Op: artifact.OpBrUnless, Label: exit},
		artifact.Instr{Op: artifact.OpBr, Label: body},
	)
	f.label(down)
	f.get(v)
	f.get(end)
	f.emit(
		artifact.Instr{Op: ops.ge},
		artifact.Instr{Op: artifact.OpBrUnless, Label: exit},
	)
	f.label(body)
	if err := f.block(loop.Block); err != nil {
		return err
	}
	f.get(v)
	f.get(step)
	f.emit(artifact.Instr{Op: ops.add})
	f.set(v)
	f.backEdge(head)
	f.label(exit)
	return nil
}

// repeat generates a repeat loop. A nil condition loops forever.
// Otherwise, the loop stops when the condition is equal to until.
func (f *frame) repeat(block *ast.Block, cond ast.Expr, until bool) error {
	head := f.g.resumePoint("repeat")
	f.label(head)
	if err := f.block(block); err != nil {
		return err
	}
	if cond == nil {
		f.backEdge(head)
		return nil
	}
	exit := f.newLabel("repeat.end")
	if err := f.hoist(cond); err != nil {
		return err
	}
	if err := f.value(cond, types.Boolean); err != nil {
		return err
	}
	op := artifact.OpBrUnless
	if until {
		op = artifact.OpBrIf
	}
	f.emit(artifact.Instr{Op: op, Label: exit})
	f.backEdge(head)
	f.label(exit)
	return nil
}

func (f *frame) ifStmt(stmt *ast.If) error {
	if err := f.hoist(stmt.Cond); err != nil {
		return err
	}
	if err := f.value(stmt.Cond, types.Boolean); err != nil {
		return err
	}
	elseLabel := f.newLabel("else")
	f.emit(artifact.Instr{Op: artifact.OpBrUnless, Label: elseLabel})
	if err := f.block(stmt.True); err != nil {
		return err
	}
	if stmt.False == nil {
		f.label(elseLabel)
		return nil
	}
	end := f.newLabel("endif")
	f.emit(artifact.Instr{Op: artifact.OpBr, Label: end})
	f.label(elseLabel)
	if err := f.stmt(stmt.False); err != nil {
		return err
	}
	f.label(end)
	return nil
}
