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
	"strconv"

	"github.com/eppabasic/ebc/artifact"
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
)

var (
	integerOps = map[string]artifact.Op{
		types.OpPlus:   artifact.OpI32Add,
		types.OpMinus:  artifact.OpI32Sub,
		types.OpMul:    artifact.OpI32Mul,
		types.OpIntDiv: artifact.OpI32Div,
		types.OpMod:    artifact.OpI32Rem,
		types.OpEq:     artifact.OpI32Eq,
		types.OpNeq:    artifact.OpI32Ne,
		types.OpLt:     artifact.OpI32Lt,
		types.OpLte:    artifact.OpI32Le,
		types.OpGt:     artifact.OpI32Gt,
		types.OpGte:    artifact.OpI32Ge,
	}
	doubleOps = map[string]artifact.Op{
		types.OpPlus:  artifact.OpF64Add,
		types.OpMinus: artifact.OpF64Sub,
		types.OpMul:   artifact.OpF64Mul,
		types.OpDiv:   artifact.OpF64Div,
		types.OpEq:    artifact.OpF64Eq,
		types.OpNeq:   artifact.OpF64Ne,
		types.OpLt:    artifact.OpF64Lt,
		types.OpLte:   artifact.OpF64Le,
		types.OpGt:    artifact.OpF64Gt,
		types.OpGte:   artifact.OpF64Ge,
	}
	booleanOps = map[string]artifact.Op{
		types.OpAnd: artifact.OpI32And,
		types.OpOr:  artifact.OpI32Or,
		types.OpXor: artifact.OpI32Xor,
		types.OpEq:  artifact.OpI32Eq,
		types.OpNeq: artifact.OpI32Ne,
	}
	stringOps = map[string]string{
		types.OpPlus:   ImportConcat,
		types.OpConcat: ImportConcat,
		types.OpEq:     ImportStrEq,
		types.OpNeq:    ImportStrNeq,
	}
)

// value pushes the value of an expression converted to a given type.
func (f *frame) value(expr ast.Expr, to *types.Type) error {
	if err := f.expr(expr); err != nil {
		return err
	}
	f.convert(expr.Type(), to)
	return nil
}

// convert converts the value on the stack. A double is only converted to
// an integer when returned from a function declaring an integer result.
func (f *frame) convert(from, to *types.Type) {
	switch {
	case from == types.Integer && to == types.Double:
		f.emit(artifact.Instr{Op: artifact.OpConvert})
	case from == types.Double && to == types.Integer:
		f.emit(artifact.Instr{Op: artifact.OpTrunc})
	}
}

// expr pushes the value of an expression.
func (f *frame) expr(expr ast.Expr) error {
	if s, ok := f.temps[expr]; ok {
		f.get(s)
		return nil
	}
	switch e := expr.(type) {
	case *ast.Number:
		return f.number(e)
	case *ast.StringLit:
		f.emit(artifact.Instr{Op: artifact.OpI32Const, Int: int64(f.g.strings[e.Value])})
		return nil
	case *ast.Variable:
		if e.Def == nil {
			return fmterr.Internalf("line %d: variable %s has not been resolved", e.Line(), e.Name)
		}
		f.get(f.slot(e.Def))
		return nil
	case *ast.BinaryOp:
		return f.binary(e)
	case *ast.UnaryOp:
		return f.unary(e)
	case *ast.IndexOp:
		item := e.Type()
		if err := f.expr(e.Expr); err != nil {
			return err
		}
		if err := f.indices(e.Index); err != nil {
			return err
		}
		vt := valueType(item)
		f.emit(
			artifact.Instr{Op: artifact.OpArrayAddr, Int: int64(len(e.Index)), Type: vt},
			artifact.Instr{Op: artifact.OpLoad, Type: vt},
		)
		return nil
	case *ast.FunctionCall:
		return f.call(e)
	}
	return fmterr.Internalf("line %d: code generator does not support expression %T", expr.Line(), expr)
}

func (f *frame) number(n *ast.Number) error {
	if n.Type() == types.Integer {
		v, err := strconv.ParseInt(n.Value, 10, 32)
		if err != nil {
			return fmterr.Internal(err)
		}
		f.emit(artifact.Instr{Op: artifact.OpI32Const, Int: v})
		return nil
	}
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return fmterr.Internal(err)
	}
	f.emit(artifact.Instr{Op: artifact.OpF64Const, Float: v})
	return nil
}

// indices pushes array indices or dimensions as integers.
func (f *frame) indices(exprs []ast.Expr) error {
	for _, expr := range exprs {
		if err := f.value(expr, types.Integer); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) binary(e *ast.BinaryOp) error {
	op := e.Operator
	if op == nil {
		return fmterr.Internalf("line %d: operator %s has not been resolved", e.Line(), e.Op)
	}
	left, right := op.Left, op.Right
	if op.Op == types.OpDiv && op.Left == types.Integer {
		left, right = types.Double, types.Double
	}
	if err := f.value(e.Left, left); err != nil {
		return err
	}
	if err := f.value(e.Right, right); err != nil {
		return err
	}
	var table map[string]artifact.Op
	switch left {
	case types.Integer:
		table = integerOps
	case types.Double:
		if op.Op == types.OpMod {
			f.emit(artifact.Instr{Op: artifact.OpCallHost, Name: ImportFMod})
			return nil
		}
		table = doubleOps
	case types.Boolean:
		table = booleanOps
	case types.String:
		if imp, ok := stringOps[op.Op]; ok {
			f.emit(artifact.Instr{Op: artifact.OpCallHost, Name: imp})
			return nil
		}
	}
	if instr, ok := table[op.Op]; ok {
		f.emit(artifact.Instr{Op: instr})
		return nil
	}
	return fmterr.Internalf("line %d: no instruction for operator %s", e.Line(), op)
}

func (f *frame) unary(e *ast.UnaryOp) error {
	op := e.Operator
	if op == nil {
		return fmterr.Internalf("line %d: operator %s has not been resolved", e.Line(), e.Op)
	}
	switch {
	case op.Op == types.OpNeg && op.Left == types.Integer:
		f.emit(artifact.Instr{Op: artifact.OpI32Const})
		if err := f.value(e.Expr, op.Left); err != nil {
			return err
		}
		f.emit(artifact.Instr{Op: artifact.OpI32Sub})
	case op.Op == types.OpNeg && op.Left == types.Double:
		if err := f.value(e.Expr, op.Left); err != nil {
			return err
		}
		f.emit(artifact.Instr{Op: artifact.OpF64Neg})
	case op.Op == types.OpNot:
		if err := f.value(e.Expr, op.Left); err != nil {
			return err
		}
		f.emit(artifact.Instr{Op: artifact.OpI32Eqz})
	default:
		return fmterr.Internalf("line %d: no instruction for operator %s", e.Line(), op)
	}
	return nil
}

// args pushes the arguments of a call converted to the parameter types.
func (f *frame) args(call *ast.FunctionCall) error {
	for i, arg := range call.Args {
		if err := f.value(arg, call.Handle.Params[i]); err != nil {
			return err
		}
	}
	return nil
}

// call pushes the result of a call to a function which does not yield.
func (f *frame) call(call *ast.FunctionCall) error {
	h := call.Handle
	if h == nil {
		return fmterr.Internalf("line %d: call to %s has not been resolved", call.Line(), call.Name)
	}
	if !h.Atomic {
		return fmterr.Internalf("line %d: call to %s may yield but is compiled without a resume point", call.Line(), h)
	}
	if err := f.args(call); err != nil {
		return err
	}
	switch {
	case inline(h):
	case h.HostBound:
		f.emit(artifact.Instr{Op: artifact.OpCallHost, Name: f.g.imports[h]})
	default:
		f.emit(artifact.Instr{Op: artifact.OpCall, Name: f.g.funcName[h]})
	}
	return nil
}
