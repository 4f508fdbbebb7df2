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

package ast_test

import (
	"testing"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/types"
	"github.com/google/go-cmp/cmp"
)

func sampleTree() *ast.Block {
	x := &ast.VariableDefinition{Base: ast.At(1), Name: "x", Declared: types.Integer}
	return &ast.Block{Nodes: []ast.Stmt{
		x,
		&ast.VariableAssignment{
			Base: ast.At(2),
			Name: "x",
			Expr: &ast.BinaryOp{
				Base:  ast.At(2),
				Left:  &ast.Variable{Base: ast.At(2), Name: "x"},
				Op:    types.OpPlus,
				Right: &ast.Number{Base: ast.At(2), Value: "1"},
			},
		},
		&ast.FunctionCall{
			Base: ast.At(3),
			Name: "Print",
			Args: []ast.Expr{&ast.StringLit{Base: ast.At(3), Value: "done"}},
		},
	}}
}

func TestSprint(t *testing.T) {
	tree := sampleTree()
	num := tree.Nodes[1].(*ast.VariableAssignment).Expr.(*ast.BinaryOp).Right
	num.SetType(types.Integer)
	num.SetAtomic(true)
	got := ast.Sprint(tree)
	want := `Block
  Dim x as Integer
  Assign x
    BinaryOp plus
      Variable x
      Number 1: Integer *
  Call Print
    String "done"
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestInspect(t *testing.T) {
	var got []int
	ast.Inspect(sampleTree(), func(node ast.Node) bool {
		if _, ok := node.(*ast.BinaryOp); ok {
			return false
		}
		got = append(got, node.Line())
		return true
	})
	want := []int{0, 1, 2, 3, 3}
	if !cmp.Equal(got, want) {
		t.Errorf("got lines %v but want %v", got, want)
	}
}

func TestSetType(t *testing.T) {
	num := &ast.Number{Base: ast.At(1), Value: "1"}
	if num.Resolved() {
		t.Fatalf("literal resolved before any pass")
	}
	num.SetType(types.Integer)
	num.SetType(types.Integer)
	if got := num.Type(); got != types.Integer {
		t.Errorf("got type %s but want %s", got, types.Integer)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("changing a resolved type did not panic")
		}
	}()
	num.SetType(types.Double)
}

func TestTypeBeforeResolution(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("querying an unresolved type did not panic")
		}
	}()
	(&ast.Variable{Name: "x"}).Type()
}

func TestFunctionTable(t *testing.T) {
	printInt := &ast.FunctionHandle{Name: "Print", Params: []*types.Type{types.Integer}, HostBound: true}
	printStr := &ast.FunctionHandle{Name: "Print", Params: []*types.Type{types.String}, HostBound: true}
	table := ast.NewFunctionTable(printInt)
	if _, added := table.Add(printStr); !added {
		t.Errorf("overload Print(String) not added")
	}
	user := &ast.FunctionHandle{Name: "PRINT", Params: []*types.Type{types.Integer}}
	if existing, added := table.Add(user); added || existing != printInt {
		t.Errorf("redefinition of Print(Integer) added: %v %t", existing, added)
	}
	if got := len(table.Named("print")); got != 2 {
		t.Errorf("got %d handles named print but want 2", got)
	}
	if got, want := printStr.Signature(), "Print(String)"; got != want {
		t.Errorf("got signature %q but want %q", got, want)
	}
	if got := printStr.ReturnType(); got != types.Void {
		t.Errorf("subprogram returns %s but want %s", got, types.Void)
	}
}
