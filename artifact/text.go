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

package artifact

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/template"

	basefmt "github.com/eppabasic/ebc/base/fmt"
	"github.com/eppabasic/ebc/base/stringseq"
	"github.com/eppabasic/ebc/base/tmpl"
)

var (
	importTmpl = template.Must(template.New("import").Parse(
		`import {{.ID}}({{.ParamList}}){{if .Result}} {{.Result}}{{end}}{{if not .Atomic}} yields{{end}} ; {{.Source}}`))
	globalTmpl = template.Must(template.New("global").Parse(
		`global {{.Name}} {{.Type}} @{{.Offset}}`))
)

// ParamList returns the types of the parameters separated by commas.
func (imp *Import) ParamList() string {
	return stringseq.JoinStringer(slices.Values(imp.Params), ", ")
}

func localList(locals []Local) string {
	ss := make([]string, len(locals))
	for i, l := range locals {
		ss[i] = l.Name + " " + l.Type.String()
	}
	return strings.Join(ss, ", ")
}

func body(instrs []Instr) (string, error) {
	return tmpl.IterateFunc(instrs, func(_ int, in Instr) (string, error) {
		if in.Op == OpLabel {
			return in.String(), nil
		}
		return basefmt.Indent(in.String()), nil
	})
}

func (f *Func) text() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s)", f.Name, localList(f.Params))
	if f.Result != None {
		fmt.Fprintf(&b, " %s", f.Result)
	}
	b.WriteString("\n")
	if len(f.Locals) > 0 {
		fmt.Fprintf(&b, "\tlocal %s\n", localList(f.Locals))
	}
	instrs, err := body(f.Body)
	if err != nil {
		return "", err
	}
	b.WriteString(instrs)
	return b.String(), nil
}

// Text returns the text form of the artifact.
func (a *Artifact) Text() (string, error) {
	var sections []string
	sections = append(sections, fmt.Sprintf("abi %s\nheap %d stack %d+%d base %d\nexport %s",
		a.ABI, a.HeapSize, a.StackBase, a.StackSize, a.HeapBase, strings.Join(a.Exports, " ")))
	data, err := tmpl.IterateFunc(a.Data, func(_ int, seg Segment) (string, error) {
		return fmt.Sprintf("data @%d %s", seg.Offset, strconv.Quote(string(seg.Bytes))), nil
	})
	if err != nil {
		return "", err
	}
	imports, err := tmpl.IterateTmpl(a.Imports, importTmpl)
	if err != nil {
		return "", err
	}
	globals, err := tmpl.IterateTmpl(a.Globals, globalTmpl)
	if err != nil {
		return "", err
	}
	funcs, err := tmpl.IterateFunc(a.Funcs, func(_ int, f *Func) (string, error) {
		return f.text()
	})
	if err != nil {
		return "", err
	}
	sections = append(sections, data, imports, globals, funcs)
	if a.Next != nil {
		next, err := body(a.Next.Body)
		if err != nil {
			return "", err
		}
		sections = append(sections, fmt.Sprintf("routine frame %d resume %s\n%s",
			a.Next.FrameSize, strings.Join(a.Next.Resume, " "), next))
	}
	return tmpl.IterateFunc(sections, func(_ int, s string) (string, error) {
		return s, nil
	})
}

func (a *Artifact) String() string {
	s, err := a.Text()
	if err != nil {
		return fmt.Sprintf("artifact error: %v", err)
	}
	return s
}
