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

package mdtest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eppabasic/ebc/build/toolchain"
	"github.com/eppabasic/ebc/internal/mdtest"
	"github.com/nalgeon/be"
)

func TestCorpora(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			md, err := os.ReadFile(file)
			be.Err(t, err, nil)
			cases, err := mdtest.Extract(md)
			be.Err(t, err, nil)
			for _, c := range cases {
				t.Run(c.Name, func(t *testing.T) {
					got, err := c.Run(toolchain.New())
					be.Err(t, err, nil)
					for _, a := range c.Assertions {
						t.Run(string(a.Kind), func(t *testing.T) {
							be.Equal(t, got[a.Kind], a.Want)
						})
					}
				})
			}
		})
	}
}

const doc = "# Notes\n\n" +
	"```\nnot a test\n```\n\n" +
	"## Test: first\n\n" +
	"```basic\nPrint 1\n```\n\n" +
	"```diagnostics\n```\n\n" +
	"## Test: second\n\n" +
	"```basic\ndim x = 1\n```\n\n" +
	"```types\nx Integer\n\n```\n"

func TestExtract(t *testing.T) {
	cases, err := mdtest.Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "first")
	be.Equal(t, cases[0].Program, "Print 1\n")
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Kind, mdtest.Diagnostics)
	be.Equal(t, cases[0].Assertions[0].Want, "")

	be.Equal(t, cases[1].Name, "second")
	be.Equal(t, cases[1].Assertions[0].Kind, mdtest.Types)
	be.Equal(t, cases[1].Assertions[0].Want, "x Integer")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{
			doc:  "```basic\nPrint 1\n```\n",
			want: "outside of a test",
		},
		{
			doc:  "## Test: a\n\n```basic\nPrint 1\n```\n\n```basic\nPrint 2\n```\n",
			want: "more than one basic fence",
		},
		{
			doc:  "## Test: a\n\n```basic\nPrint 1\n```\n\n```output\n1\n```\n",
			want: `unknown fence "output"`,
		},
		{
			doc:  "## Test: a\n\n```diagnostics\n```\n",
			want: `test "a" has no basic fence`,
		},
	}
	for _, test := range tests {
		_, err := mdtest.Extract([]byte(test.doc))
		be.Err(t, err, test.want)
	}
}

func TestRunCompiles(t *testing.T) {
	cases, err := mdtest.Extract([]byte("## Test: loop\n\n```basic\nfor i = 1 to 3\n  Print i\nnext i\n```\n\n```diagnostics\n```\n"))
	be.Err(t, err, nil)
	got, err := cases[0].Run(toolchain.New(toolchain.WithHeapSize(1 << 16)))
	be.Err(t, err, nil)
	be.Equal(t, got[mdtest.Diagnostics], "")
}
