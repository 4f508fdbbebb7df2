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

package mdtest

import (
	"fmt"
	"strings"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/toolchain"
)

// Run parses and checks the program of a test case.
// It returns what each assertion of the case observes.
// The program is not compiled when one of the passes reports an error.
func (c *Case) Run(tc *toolchain.Toolchain) (map[Kind]string, error) {
	u, err := tc.Parse(c.Program)
	if err == nil {
		tc.Check(u)
	}
	got := make(map[Kind]string)
	for _, a := range c.Assertions {
		switch a.Kind {
		case Diagnostics:
			got[a.Kind] = diagnostics(u)
		case Atomic:
			got[a.Kind] = atomicity(u)
		case Types:
			got[a.Kind] = variableTypes(u)
		}
	}
	if !u.HasErrors() {
		if _, err := tc.Compile(u); err != nil {
			return got, err
		}
	}
	return got, nil
}

func diagnostics(u *toolchain.CompilationUnit) string {
	var lines []string
	for _, diag := range u.Diagnostics() {
		lines = append(lines, diag.String())
	}
	return strings.Join(lines, "\n")
}

func atomicity(u *toolchain.CompilationUnit) string {
	var lines []string
	for _, h := range u.Funcs.User() {
		lines = append(lines, fmt.Sprintf("%s %t", h.Name, h.Atomic))
	}
	return strings.Join(lines, "\n")
}

func variableTypes(u *toolchain.CompilationUnit) string {
	if u.Tree == nil {
		return ""
	}
	var lines []string
	for _, stmt := range u.Tree.Nodes {
		if def, ok := stmt.(*ast.VariableDefinition); ok {
			lines = append(lines, def.Name+" "+def.Type().String())
		}
	}
	return strings.Join(lines, "\n")
}
