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

package fmt_test

import (
	"strings"
	"testing"

	ebfmt "github.com/eppabasic/ebc/base/fmt"
	"github.com/google/go-cmp/cmp"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		first int
		txt   string
		want  string
	}{
		{
			first: 1,
			txt: `
Print 1
Print 2
`,
			want: `
1 Print 1
2 Print 2
`,
		},
		{
			first: 8,
			txt: `
dim a = 1
dim b = 2
dim c = 3
`,
			want: `
08 dim a = 1
09 dim b = 2
10 dim c = 3
`,
		},
	}
	for _, test := range tests {
		got := ebfmt.NumberFrom(test.first, strings.TrimSpace(test.txt))
		want := strings.TrimSpace(test.want)
		if got != want {
			t.Errorf("got:\n%s\nbut want:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
		}
	}
}

func TestLine(t *testing.T) {
	src := "dim a = 1\r\nPrint a\nPrint b"
	tests := []struct {
		n    int
		want string
	}{
		{n: 1, want: "dim a = 1"},
		{n: 2, want: "Print a"},
		{n: 3, want: "Print b"},
		{n: 4, want: ""},
	}
	for _, test := range tests {
		if got := ebfmt.Line(src, test.n); got != test.want {
			t.Errorf("Line(%d) = %q but want %q", test.n, got, test.want)
		}
	}
}
