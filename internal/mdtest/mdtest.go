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

// Package mdtest extracts test cases from Markdown documents.
//
// A test case starts with a heading "Test: <name>". It holds exactly one
// basic fence with the program and any number of assertion fences:
//
//	diagnostics  one diagnostic per line, as "line key K=v..."
//	atomic       one user function per line, as "Name true|false"
//	types        one top-level variable per line, as "name Type"
//
// Fences without a language are documentation and are ignored.
package mdtest

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind of fence.
type Kind string

// Fence kinds.
const (
	Program     Kind = "basic"
	Diagnostics Kind = "diagnostics"
	Atomic      Kind = "atomic"
	Types       Kind = "types"
)

const testPrefix = "Test: "

// Assertion is the expected output of a pass on the program of a test case.
type Assertion struct {
	Kind Kind
	// Line of the fence in the Markdown document.
	Line int
	// Want is the content of the fence without the trailing newlines.
	Want string
}

// Case is a test case.
type Case struct {
	Name       string
	Line       int
	Program    string
	Assertions []Assertion
}

func isAssertion(kind Kind) bool {
	switch kind {
	case Diagnostics, Atomic, Types:
		return true
	}
	return false
}

type extractor struct {
	source []byte
	cases  []*Case
	cur    *Case
}

// Extract returns the test cases of a Markdown document.
func Extract(md []byte) ([]*Case, error) {
	ex := &extractor{source: md}
	doc := goldmark.New().Parser().Parse(text.NewReader(md))
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var err error
		switch n := node.(type) {
		case *ast.Heading:
			err = ex.heading(n)
		case *ast.FencedCodeBlock:
			err = ex.fence(n)
		}
		if err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ex.flush(); err != nil {
		return nil, err
	}
	return ex.cases, nil
}

func (ex *extractor) lineOf(node ast.Node) int {
	lines := node.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return bytes.Count(ex.source[:lines.At(0).Start], []byte("\n"))
}

func (ex *extractor) heading(h *ast.Heading) error {
	title := string(nodeText(h, ex.source))
	name, ok := strings.CutPrefix(title, testPrefix)
	if !ok {
		return nil
	}
	if err := ex.flush(); err != nil {
		return err
	}
	ex.cur = &Case{Name: strings.TrimSpace(name), Line: ex.lineOf(h) + 1}
	return nil
}

func (ex *extractor) flush() error {
	if ex.cur == nil {
		return nil
	}
	if ex.cur.Program == "" {
		return errors.Errorf("line %d: test %q has no %s fence", ex.cur.Line, ex.cur.Name, Program)
	}
	ex.cases = append(ex.cases, ex.cur)
	ex.cur = nil
	return nil
}

func (ex *extractor) fence(f *ast.FencedCodeBlock) error {
	kind := Kind(f.Language(ex.source))
	if kind == "" {
		return nil
	}
	line := ex.lineOf(f)
	if kind != Program && !isAssertion(kind) {
		return errors.Errorf("line %d: unknown fence %q", line, kind)
	}
	if ex.cur == nil {
		return errors.Errorf("line %d: %s fence outside of a test", line, kind)
	}
	var content bytes.Buffer
	for i := 0; i < f.Lines().Len(); i++ {
		seg := f.Lines().At(i)
		content.Write(seg.Value(ex.source))
	}
	if kind == Program {
		if ex.cur.Program != "" {
			return errors.Errorf("line %d: test %q has more than one %s fence", line, ex.cur.Name, Program)
		}
		ex.cur.Program = content.String()
		return nil
	}
	ex.cur.Assertions = append(ex.cur.Assertions, Assertion{
		Kind: kind,
		Line: line,
		Want: strings.TrimRight(content.String(), "\n"),
	})
	return nil
}

func nodeText(node ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
