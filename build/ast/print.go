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

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a debug representation of a tree.
// Resolved types are printed after a colon and atomic nodes are marked with a star.
func Fprint(w io.Writer, node Node) error {
	return fprint(w, node, 0)
}

// Sprint returns the debug representation of a tree.
func Sprint(node Node) string {
	var s strings.Builder
	Fprint(&s, node)
	return s.String()
}

func fprint(w io.Writer, node Node, depth int) error {
	line := strings.Repeat("  ", depth) + describe(node)
	if typ := resolvedType(node); typ != nil {
		line += ": " + typ.String()
	}
	if node.Atomic() {
		line += " *"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range Children(node) {
		if err := fprint(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func resolvedType(node Node) fmt.Stringer {
	switch n := node.(type) {
	case Expr:
		if n.Resolved() {
			return n.Type()
		}
	case *VariableDefinition:
		if n.Resolved() {
			return n.Type()
		}
	}
	return nil
}

func params(defs []*VariableDefinition) string {
	ss := make([]string, len(defs))
	for i, def := range defs {
		ss[i] = fmt.Sprintf("%s as %s", def.Name, def.Declared)
	}
	return strings.Join(ss, ", ")
}

func describe(node Node) string {
	switch n := node.(type) {
	case *Block:
		return "Block"
	case *Comment:
		return fmt.Sprintf("Comment %q", n.Text)
	case *VariableDefinition:
		if n.Declared != nil {
			return fmt.Sprintf("Dim %s as %s", n.Name, n.Declared)
		}
		return "Dim " + n.Name
	case *VariableAssignment:
		return "Assign " + n.Name
	case *For:
		return "For " + n.Variable.Name
	case *If:
		return "If"
	case *RepeatForever:
		return "RepeatForever"
	case *RepeatUntil:
		return "RepeatUntil"
	case *RepeatWhile:
		return "RepeatWhile"
	case *FunctionDefinition:
		if n.IsSubprogram() {
			return fmt.Sprintf("Sub %s(%s)", n.Name, params(n.Params))
		}
		return fmt.Sprintf("Function %s(%s) as %s", n.Name, params(n.Params), n.Return)
	case *Return:
		return "Return"
	case *FunctionCall:
		return "Call " + n.Name
	case *Number:
		return "Number " + n.Value
	case *StringLit:
		return fmt.Sprintf("String %q", n.Value)
	case *Variable:
		return "Variable " + n.Name
	case *BinaryOp:
		return "BinaryOp " + n.Op
	case *UnaryOp:
		return "UnaryOp " + n.Op
	case *IndexOp:
		return "IndexOp"
	case *Range:
		return "Range"
	case *Dimensions:
		return "Dimensions"
	}
	return fmt.Sprintf("%T", node)
}
