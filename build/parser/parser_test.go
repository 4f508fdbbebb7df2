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

package parser_test

import (
	"strings"
	"testing"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/parser"
	"github.com/eppabasic/ebc/build/scanner"
	"github.com/eppabasic/ebc/build/token"
	"github.com/google/go-cmp/cmp"
)

func parse(src string) (*ast.Block, error) {
	toks, err := scanner.Scan(src)
	if err != nil {
		return nil, err
	}
	return parser.Parse(token.NewStream(toks))
}

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src: `
dim x = 1 ' start
for i = 1 to 10
  x = x + i
next i
`,
			want: `
Block
  Dim x
    Number 1
  Comment " start"
  For i
    Range
      Number 1
      Number 10
    Number 1
    Block
      Assign x
        BinaryOp plus
          Variable x
          Variable i
`,
		},
		{
			src: `
if a < 1 then
  Print "small"
elseif a < 10 then
  Print "medium", a
else
  Print("large")
endif
`,
			want: `
Block
  If
    BinaryOp lt
      Variable a
      Number 1
    Block
      Call Print
        String "small"
    If
      BinaryOp lt
        Variable a
        Number 10
      Block
        Call Print
          String "medium"
          Variable a
      Block
        Call Print
          String "large"
`,
		},
		{
			src: `
function Half(v as Double) as Double
  return v / 2
endfunction
sub Show(n as Integer, s as String)
  Print s & n
endsub
Show 1, "a"
`,
			want: `
Block
  Function Half(v as Double) as Double
    Dim v as Double
    Block
      Return
        BinaryOp div
          Variable v
          Number 2
  Sub Show(n as Integer, s as String)
    Dim n as Integer
    Dim s as String
    Block
      Call Print
        BinaryOp concat
          Variable s
          Variable n
  Call Show
    Number 1
    String "a"
`,
		},
		{
			src: `
dim a[2, 3] as Integer
a[1, 2] = -b * 2 + 3 \ 4
repeat
  c = not a[0, 0] = 1 or d and e
until c`,
			want: `
Block
  Dim a as Integer
    Dimensions
      Number 2
      Number 3
  Assign a
    Number 1
    Number 2
    BinaryOp plus
      BinaryOp mul
        UnaryOp neg
          Variable b
        Number 2
      BinaryOp intdiv
        Number 3
        Number 4
  RepeatUntil
    Block
      Assign c
        BinaryOp or
          UnaryOp not
            BinaryOp eq
              IndexOp
                Variable a
                Number 0
                Number 0
              Number 1
          BinaryOp and
            Variable d
            Variable e
    Variable c
`,
		},
	}
	for i, test := range tests {
		tree, err := parse(test.src)
		if err != nil {
			t.Errorf("test %d: cannot parse:\n%s\nerror: %v", i, test.src, err)
			continue
		}
		got := ast.Sprint(tree)
		want := strings.TrimPrefix(test.want, "\n")
		if got != want {
			t.Errorf("test %d: got:\n%s\nwant:\n%s\ndiff:\n%s", i, got, want, cmp.Diff(got, want))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src:  "for i = 1 to 10\n  Print i\nnext j\n",
			want: "3 syntax.loop Header=i Next=j",
		},
		{
			src:  "dim x as Float\n",
			want: "1 type.unknown Name=Float",
		},
		{
			src:  "if x then\nPrint 1\n",
			want: "3 syntax.unexpected Expected=statement Found=eos",
		},
		{
			src:  "if x then\nfunction f() as Integer\nendfunction\nendif\n",
			want: "2 syntax.unexpected Expected=statement Found=function",
		},
		{
			src:  "x =\n",
			want: "1 syntax.unexpected Expected=expression Found=newline",
		},
		{
			src:  "repeat\nPrint 1\nendif\n",
			want: "3 syntax.unexpected Expected=forever/until/while Found=endif",
		},
		{
			src:  "Print 1 2\n",
			want: "1 syntax.unexpected Expected=newline Found=number",
		},
		{
			src:  "return 1\n",
			want: "1 syntax.unexpected Expected=statement Found=return",
		},
	}
	for i, test := range tests {
		_, err := parse(test.src)
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", i)
			continue
		}
		diag, ok := err.(*fmterr.Error)
		if !ok {
			t.Errorf("test %d: got error %T: %v", i, err, err)
			continue
		}
		if got := diag.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

func TestNextIsCaseSensitive(t *testing.T) {
	_, err := parse("for i = 1 to 2\nnext I\n")
	if !errorsIs(err, fmterr.KeyLoopStructure) {
		t.Errorf("next I after for i: got %v but want a loop structure error", err)
	}
}

func errorsIs(err error, key fmterr.Key) bool {
	diag, ok := err.(*fmterr.Error)
	return ok && diag.Key == key
}
