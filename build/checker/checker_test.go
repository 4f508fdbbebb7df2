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

package checker_test

import (
	"strings"
	"testing"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/checker"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/parser"
	"github.com/eppabasic/ebc/build/scanner"
	"github.com/eppabasic/ebc/build/token"
	"github.com/eppabasic/ebc/build/types"
	"github.com/google/go-cmp/cmp"
)

func hostTable() *ast.FunctionTable {
	return ast.NewFunctionTable(
		&ast.FunctionHandle{Name: "Print", Params: []*types.Type{types.Integer}, HostBound: true, Atomic: true},
		&ast.FunctionHandle{Name: "Print", Params: []*types.Type{types.Double}, HostBound: true, Atomic: true},
		&ast.FunctionHandle{Name: "Print", Params: []*types.Type{types.String}, HostBound: true, Atomic: true},
		&ast.FunctionHandle{Name: "DrawScreen", HostBound: true},
	)
}

type result struct {
	tree  *ast.Block
	funcs *ast.FunctionTable
	errs  *fmterr.Errors
}

func check(t *testing.T, src string, failFast bool) result {
	t.Helper()
	toks, err := scanner.Scan(strings.TrimPrefix(src, "\n"))
	if err != nil {
		t.Fatalf("cannot scan:\n%s\nerror: %v", src, err)
	}
	tree, err := parser.Parse(token.NewStream(toks))
	if err != nil {
		t.Fatalf("cannot parse:\n%s\nerror: %v", src, err)
	}
	res := result{tree: tree, funcs: hostTable(), errs: &fmterr.Errors{}}
	checker.Check(tree, res.funcs, res.errs.NewAppender(failFast))
	return res
}

func diagnostics(errs *fmterr.Errors) []string {
	var ss []string
	for _, diag := range errs.Diagnostics() {
		ss = append(ss, diag.String())
	}
	return ss
}

func TestResolveTypes(t *testing.T) {
	res := check(t, `
dim x = 1
dim y as Double = x
x = x + 2
Print y * x
`, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	got := ast.Sprint(res.tree)
	want := `Block
  Dim x: Integer
    Number 1: Integer
  Dim y as Double: Double
    Variable x: Integer
  Assign x
    BinaryOp plus: Integer
      Variable x: Integer
      Number 2: Integer
  Call Print: Void
    BinaryOp mul: Double
      Variable y: Double
      Variable x: Integer
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
	mul := res.tree.Nodes[3].(*ast.FunctionCall).Args[0].(*ast.BinaryOp)
	if mul.Operator.Left != types.Double || mul.Operator.Right != types.Double {
		t.Errorf("operator %s: Integer operand not widened to Double", mul.Operator)
	}
}

func TestNumberLiterals(t *testing.T) {
	res := check(t, `
dim a = 3
dim b = 3.0
dim c = 3000000000
`, false)
	want := []*types.Type{types.Integer, types.Double, types.Double}
	for i, typ := range want {
		def := res.tree.Nodes[i].(*ast.VariableDefinition)
		if def.Type() != typ {
			t.Errorf("%s: got type %s but want %s", def.Name, def.Type(), typ)
		}
	}
}

func TestPrintOverload(t *testing.T) {
	res := check(t, `
dim x as Integer
Print(x)
`, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	call := res.tree.Nodes[1].(*ast.FunctionCall)
	if got := call.Handle.Params[0]; got != types.Integer {
		t.Errorf("Print(x) resolved to Print(%s) but want Print(Integer)", got)
	}
	if call.Casts != 0 {
		t.Errorf("Print(x) resolved with %d casts but want 0", call.Casts)
	}
}

const overloads = `
function f(a as Double, b as Double) as Integer
  return 1
endfunction
function f(a as Integer, b as Double) as Integer
  return 2
endfunction
function f(a as Double, b as Integer) as Integer
  return 3
endfunction
`

func TestAmbiguousCall(t *testing.T) {
	res := check(t, overloads+"dim r = f(1, 2)\n", false)
	got := diagnostics(res.errs)
	want := []string{"10 function.ambiguous Args=Integer, Integer Candidates=[f(Integer, Double) f(Double, Integer)] Name=f"}
	if !cmp.Equal(got, want) {
		t.Errorf("got:\n%v\nwant:\n%v\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestCheapestOverload(t *testing.T) {
	res := check(t, overloads+"dim r = f(1.5, 2)\n", false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	call := res.tree.Nodes[3].(*ast.VariableDefinition).Initial.(*ast.FunctionCall)
	if got, want := call.Handle.Signature(), "f(Double, Integer)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestForwardCall(t *testing.T) {
	res := check(t, `
Print Twice(2)
function Twice(v as Integer) as Integer
  return v * 2
endfunction
`, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	if got := len(res.funcs.User()); got != 1 {
		t.Errorf("got %d user functions but want 1", got)
	}
}

func TestScopes(t *testing.T) {
	res := check(t, `
dim Count = 1
count = 2
function Add(count as Double) as Double
  return count + 1
endfunction
for i = 1 to 3
  dim j = i
  Print j
next i
`, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	def := res.tree.Nodes[0].(*ast.VariableDefinition)
	if got := res.tree.Nodes[1].(*ast.VariableAssignment).Ref; got != def {
		t.Errorf("assignment to count refers to %v but want %v", got, def)
	}
	fn := res.tree.Nodes[2].(*ast.FunctionDefinition)
	ret := fn.Block.Nodes[0].(*ast.Return)
	param := ret.Expr.(*ast.BinaryOp).Left.(*ast.Variable).Def
	if param != fn.Params[0] {
		t.Errorf("count in Add refers to %v but want the parameter", param)
	}
	loop := res.tree.Nodes[3].(*ast.For)
	if got := loop.Variable.Type(); got != types.Integer {
		t.Errorf("loop variable has type %s but want Integer", got)
	}
}

func TestDiagnostics(t *testing.T) {
	res := check(t, `
x = 1
dim s = "a"
dim n as Integer = s
Print n + 1
if s then
endif
Foo 1
dim b = DrawScreen()
for i = 1 to 2.5
next i
dim s = 2
dim a[2] as Integer
a[1, 1] = 1
s[0] = "b"
Print not s
`, false)
	got := diagnostics(res.errs)
	want := []string{
		"1 variable.undefined Name=x",
		"3 type.mismatch.cast From=String To=Integer",
		"5 type.mismatch.condition From=String To=Boolean",
		"7 function.undefined Args=Integer Name=Foo",
		"8 function.novalue Name=DrawScreen",
		"9 type.mismatch.range From=Double To=Integer",
		"11 variable.redefined Name=s",
		"13 variable.indexcount Got=2 Want=1",
		"14 variable.notarray Type=String",
		"15 operator.undefined Left=String Op=not Right=",
	}
	if !cmp.Equal(got, want) {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"), cmp.Diff(got, want))
	}
}

func TestRedefinitionKeepsFirst(t *testing.T) {
	res := check(t, `
dim s = "a"
dim s = 2
dim t as String = s
`, false)
	got := diagnostics(res.errs)
	want := []string{"2 variable.redefined Name=s"}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
	first := res.tree.Nodes[0].(*ast.VariableDefinition)
	ref := res.tree.Nodes[2].(*ast.VariableDefinition).Initial.(*ast.Variable).Def
	if ref != first {
		t.Errorf("s refers to %v but want the first definition", ref)
	}
}

func TestFailFast(t *testing.T) {
	res := check(t, `
x = 1
y = 2
`, true)
	got := diagnostics(res.errs)
	want := []string{"1 variable.undefined Name=x"}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
}

func TestReturn(t *testing.T) {
	res := check(t, `
function Half(v as Integer) as Integer
  return v / 2
endfunction
sub S()
  return 1
endsub
`, false)
	got := diagnostics(res.errs)
	want := []string{
		"2 return.mismatch From=Double Function=Half To=Integer",
		"5 return.outside",
	}
	if !cmp.Equal(got, want) {
		t.Errorf("got:\n%v\nwant:\n%v", got, want)
	}
	if !res.errs.HasErrors() {
		t.Errorf("a value returned from a subprogram is not an error")
	}
}

func TestReturnMismatchIsWarning(t *testing.T) {
	res := check(t, `
function Half(v as Integer) as Integer
  return v / 2
endfunction
`, false)
	if res.errs.HasErrors() {
		t.Errorf("return type mismatch reported as an error:\n%v", res.errs)
	}
	if got := len(res.errs.Diagnostics()); got != 1 {
		t.Errorf("got %d diagnostics but want 1", got)
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	src := overloads + `
dim total = 0.5
for i = 1 to 10 step 2
  total = total + f(i, 1.5)
next i
Print total
`
	res := check(t, src, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	first := ast.Sprint(res.tree)
	var errs fmterr.Errors
	checker.Check(res.tree, res.funcs, errs.NewAppender(false))
	if !errs.Empty() {
		t.Fatalf("second check reported errors:\n%v", &errs)
	}
	if second := ast.Sprint(res.tree); second != first {
		t.Errorf("second check changed the tree:\n%s", cmp.Diff(first, second))
	}
	if got := len(res.funcs.User()); got != 3 {
		t.Errorf("got %d user functions after two checks but want 3", got)
	}
}

func TestResolvedExpressions(t *testing.T) {
	res := check(t, overloads+`
dim a[3, 3] as Double
for i = 0 to 2
  a[i, i] = f(i, 2.0) + a[0, 0]
next i
repeat
  Print "x" & "y"
until a[1, 1] > 0 or not (1 <> 2)
`, false)
	if !res.errs.Empty() {
		t.Fatalf("unexpected errors:\n%v", res.errs)
	}
	ast.Inspect(res.tree, func(node ast.Node) bool {
		if expr, ok := node.(ast.Expr); ok && !expr.Resolved() {
			t.Errorf("line %d: expression %T not resolved", node.Line(), node)
		}
		return true
	})
}
