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

package toolchain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/toolchain"
	"github.com/google/go-cmp/cmp"
)

const game = `' Bouncing counter
dim score = 0
dim name as String = "player"

function Clamp(x as Integer, lo as Integer, hi as Integer) as Integer
  return Max(lo, Min(x, hi))
endfunction

sub Frame(n as Integer)
  ClearScreen
  Print name & ": "
  Print n
  DrawScreen
endsub

for i = 1 to 10
  score = Clamp(score + i, 0, 20)
  Frame score
next i
Print Sqr(score)
`

func diagnostics(u *toolchain.CompilationUnit) []string {
	var ss []string
	for _, diag := range u.Diagnostics() {
		ss = append(ss, diag.String())
	}
	return ss
}

func TestBuild(t *testing.T) {
	tc := toolchain.New()
	u, art, err := tc.Build(game)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diags := diagnostics(u); len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if err := art.Validate(); err != nil {
		t.Errorf("invalid artifact: %+v", err)
	}
	got := map[string]bool{}
	for _, h := range u.Funcs.User() {
		got[h.Name] = h.Atomic
	}
	want := map[string]bool{"Clamp": true, "Frame": false}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("wrong atomicity flags:\n%s", diff)
	}
	for _, id := range []string{"env.printStr", "env.drawScreen", "stdlib.Math.min", "stdlib.Math.min_i32_i32", "stdlib.Math.sqrt", "rt.concat"} {
		if art.Import(id) == nil {
			t.Errorf("artifact does not import %s", id)
		}
	}
	if imp := art.Import("env.drawScreen"); imp != nil && imp.Atomic {
		t.Errorf("DrawScreen is imported as atomic")
	}
}

func TestPrintOverload(t *testing.T) {
	tc := toolchain.New()
	u, err := tc.Parse("dim x = 3\nPrint x\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := tc.Check(u); err != nil {
		t.Fatal(err)
	}
	call := u.Tree.Nodes[1].(*ast.FunctionCall)
	if call.Handle.Import != "env.printInt" {
		t.Errorf("Print(Integer) resolved to %s (%s)", call.Handle, call.Handle.Import)
	}
	if call.Casts != 0 {
		t.Errorf("got cast cost %d but want 0", call.Casts)
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		src      string
		failFast bool
		want     []string
	}{
		{
			src:  "x = 1\n",
			want: []string{"1 variable.undefined Name=x"},
		},
		{
			src:  "for i = 1 to 3\nnext j\n",
			want: []string{"2 syntax.loop Header=i Next=j"},
		},
		{
			src:  "dim a as Integer = \"a\"\nFoo 1\nPrint 1, 2\n",
			want: []string{
				"1 type.mismatch.cast From=String To=Integer",
				"2 function.undefined Args=Integer Name=Foo",
				"3 function.undefined Args=Integer, Integer Name=Print",
			},
		},
		{
			src:      "dim a as Integer = \"a\"\nFoo 1\n",
			failFast: true,
			want:     []string{"1 type.mismatch.cast From=String To=Integer"},
		},
		{
			src:  "dim s = \"abc\nPrint s\n",
			want: []string{`1 syntax.unexpected Expected=" Found=newline`},
		},
	}
	for i, test := range tests {
		tc := toolchain.New(toolchain.WithFailFast(test.failFast))
		u, art, err := tc.Build(test.src)
		if err == nil {
			t.Errorf("test %d: no error", i)
		}
		if art != nil {
			t.Errorf("test %d: an artifact has been generated", i)
		}
		if diff := cmp.Diff(diagnostics(u), test.want); diff != "" {
			t.Errorf("test %d: got:\n%v\nwant:\n%v\ndiff:\n%s", i, diagnostics(u), test.want, diff)
		}
	}
}

func TestWarningsDoNotBlock(t *testing.T) {
	src := `function Half(x as Integer) as Integer
  return x / 2
endfunction
Print Half(4)
`
	u, art, err := toolchain.New().Build(src)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if art == nil {
		t.Fatal("no artifact")
	}
	want := []string{"2 return.mismatch From=Double Function=Half To=Integer"}
	if diff := cmp.Diff(diagnostics(u), want); diff != "" {
		t.Errorf("got:\n%v\nwant:\n%v\ndiff:\n%s", diagnostics(u), want, diff)
	}
}

func TestCompileRequiresCheck(t *testing.T) {
	tc := toolchain.New()
	u, err := tc.Parse("Print 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tc.Compile(u); err == nil {
		t.Errorf("an unchecked unit has been compiled")
	}
	bad, _ := tc.Parse("Print y\n")
	if err := tc.Check(bad); !errors.Is(err, fmterr.Is(fmterr.KeyUndefinedVar)) {
		t.Errorf("got error %v but want an undefined variable", err)
	}
	if _, err := tc.Compile(bad); err == nil {
		t.Errorf("a unit with errors has been compiled")
	}
}

func TestCheckTwice(t *testing.T) {
	tc := toolchain.New()
	u, err := tc.Parse(game)
	if err != nil {
		t.Fatal(err)
	}
	if err := tc.Check(u); err != nil {
		t.Fatal(err)
	}
	first := ast.Sprint(u.Tree)
	if err := tc.Check(u); err != nil {
		t.Fatal(err)
	}
	if second := ast.Sprint(u.Tree); first != second {
		t.Errorf("second check changed the tree:\n%s", cmp.Diff(first, second))
	}
}

func TestTrace(t *testing.T) {
	var trace strings.Builder
	tc := toolchain.New(toolchain.WithTrace(&trace), toolchain.WithHeapSize(1<<20), toolchain.WithStackSize(4<<10))
	_, art, err := tc.Build(game)
	if err != nil {
		t.Fatal(err)
	}
	if art.HeapSize != 1<<20 {
		t.Errorf("got heap size %d but want %d", art.HeapSize, 1<<20)
	}
	for _, pass := range []string{"scan", "parse", "check", "atomic", "codegen"} {
		if !strings.Contains(trace.String(), pass) {
			t.Errorf("trace has no %s pass:\n%s", pass, trace.String())
		}
	}
}

func TestSmallHeap(t *testing.T) {
	tc := toolchain.New(toolchain.WithHeapSize(1 << 16))
	_, art, err := tc.Build("Print 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := art.StackSize, uint32(1<<14); got != want {
		t.Errorf("got stack size %d but want %d", got, want)
	}
	if art.StackBase+art.StackSize > uint32(art.HeapSize) {
		t.Errorf("stack [%d, %d) outside of a heap of %d bytes", art.StackBase, art.StackBase+art.StackSize, art.HeapSize)
	}
}

func TestStackDoesNotFit(t *testing.T) {
	tc := toolchain.New(toolchain.WithHeapSize(1<<12), toolchain.WithStackSize(1<<12))
	_, _, err := tc.Build("Print 1\n")
	if err == nil || !strings.Contains(err.Error(), "does not fit in a heap") {
		t.Errorf("got error %v but want a stack not fitting in the heap", err)
	}
}

func TestIntrinsics(t *testing.T) {
	funcs := toolchain.Functions()
	if got, want := len(funcs.Handles()), len(toolchain.Intrinsics); got != want {
		t.Errorf("got %d handles but want %d: intrinsics with the same signature", got, want)
	}
	var yields []string
	for _, h := range funcs.Host() {
		if !h.Atomic {
			yields = append(yields, h.Name)
		}
	}
	if diff := cmp.Diff(yields, []string{"DrawScreen"}); diff != "" {
		t.Errorf("wrong yielding intrinsics:\n%s", diff)
	}
	prints := funcs.Named("print")
	var params []string
	for _, h := range prints {
		params = append(params, h.Params[0].String())
	}
	if diff := cmp.Diff(params, []string{"Integer", "Double", "String"}); diff != "" {
		t.Errorf("wrong Print overloads:\n%s", diff)
	}
}
