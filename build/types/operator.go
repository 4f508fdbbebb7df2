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

package types

import (
	"fmt"
	"sync"
)

// Operator is a typed operator. Right is nil for unary operators.
type Operator struct {
	Left   *Type
	Op     string
	Right  *Type
	Return *Type
}

// IsUnary returns true if the operator takes only one operand.
func (op *Operator) IsUnary() bool {
	return op.Right == nil
}

func (op *Operator) String() string {
	if op.IsUnary() {
		return fmt.Sprintf("%s %s -> %s", op.Op, op.Left, op.Return)
	}
	return fmt.Sprintf("%s %s %s -> %s", op.Left, op.Op, op.Right, op.Return)
}

// Operator symbols.
const (
	OpPlus   = "plus"
	OpMinus  = "minus"
	OpMul    = "mul"
	OpDiv    = "div"
	OpIntDiv = "intdiv"
	OpMod    = "mod"
	OpConcat = "concat"
	OpEq     = "eq"
	OpNeq    = "neq"
	OpLt     = "lt"
	OpLte    = "lte"
	OpGt     = "gt"
	OpGte    = "gte"
	OpAnd    = "and"
	OpOr     = "or"
	OpXor    = "xor"
	OpNeg    = "neg"
	OpNot    = "not"
)

type opKey struct {
	left  *Type
	op    string
	right *Type
}

// Registry is a set of operators indexed by their operand types.
// A registry is read-only once built.
type Registry struct {
	ops  map[opKey]*Operator
	list []*Operator
}

func newRegistry() *Registry {
	return &Registry{ops: make(map[opKey]*Operator)}
}

func (r *Registry) add(left *Type, op string, right *Type, ret *Type) {
	o := &Operator{Left: left, Op: op, Right: right, Return: ret}
	r.ops[opKey{left: left, op: op, right: right}] = o
	r.list = append(r.list, o)
}

func (r *Registry) binary(typ *Type, ret *Type, ops ...string) {
	for _, op := range ops {
		r.add(typ, op, typ, ret)
	}
}

// Lookup returns the operator matching exactly the operand types or nil.
// right is nil for unary operators. Casts are not considered.
func (r *Registry) Lookup(left *Type, op string, right *Type) *Operator {
	return r.ops[opKey{left: left, op: op, right: right}]
}

// All returns all the operators in registration order.
func (r *Registry) All() []*Operator {
	return append([]*Operator{}, r.list...)
}

func buildDefaultRegistry() *Registry {
	r := newRegistry()
	comparisons := []string{OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte}

	r.binary(Integer, Integer, OpPlus, OpMinus, OpMul, OpIntDiv, OpMod)
	r.add(Integer, OpDiv, Integer, Double)
	r.binary(Integer, Boolean, comparisons...)
	r.add(Integer, OpNeg, nil, Integer)

	r.binary(Double, Double, OpPlus, OpMinus, OpMul, OpDiv, OpMod)
	r.binary(Double, Boolean, comparisons...)
	r.add(Double, OpNeg, nil, Double)

	r.binary(String, String, OpPlus, OpConcat)
	r.binary(String, Boolean, OpEq, OpNeq)

	r.binary(Boolean, Boolean, OpAnd, OpOr, OpXor, OpEq, OpNeq)
	r.add(Boolean, OpNot, nil, Boolean)
	return r
}

// Operators returns the default operator registry.
var Operators = sync.OnceValue(buildDefaultRegistry)
