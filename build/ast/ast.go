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

// Package ast defines the abstract syntax tree of EppaBasic programs.
//
// Nodes are built by the parser and decorated in place by the later passes:
// the checker resolves types and references and the atomicity checker
// marks which nodes can run without yielding to the host.
package ast

import (
	"fmt"

	"github.com/eppabasic/ebc/build/types"
)

type (
	// Node is a node in the tree.
	Node interface {
		// Line returns the source line of the node.
		Line() int
		// Atomic returns true if the node runs without yielding to the host.
		Atomic() bool
		// SetAtomic marks the node as atomic or not.
		SetAtomic(bool)
		node()
	}

	// Stmt is a statement.
	Stmt interface {
		Node
		stmtNode()
	}

	// Expr is an expression.
	Expr interface {
		Node
		// Type returns the resolved type of the expression.
		// It panics if the type has not been resolved.
		Type() *types.Type
		// Resolved returns true once the type of the expression has been set.
		Resolved() bool
		// SetType sets the type of the expression.
		SetType(*types.Type)
		exprNode()
	}
)

// ScopeID identifies a scope created by the checker.
// The zero value means that no scope has been assigned.
type ScopeID int

// Base stores the line and the atomicity of a node.
type Base struct {
	line   int
	atomic bool
}

func (n *Base) node() {}

// Line of the node in the source code.
func (n *Base) Line() int {
	return n.line
}

// Atomic returns true if the node has been marked as atomic.
func (n *Base) Atomic() bool {
	return n.atomic
}

// SetAtomic marks a node as atomic or not.
func (n *Base) SetAtomic(atomic bool) {
	n.atomic = atomic
}

type typed struct {
	typ *types.Type
}

// Type returns the resolved type.
func (n *typed) Type() *types.Type {
	if n.typ == nil {
		panic("type of expression queried before resolution")
	}
	return n.typ
}

// Resolved returns true if the type has been resolved.
func (n *typed) Resolved() bool {
	return n.typ != nil
}

// SetType sets the type once. Setting the same type again is a no-op.
func (n *typed) SetType(typ *types.Type) {
	if typ == nil {
		panic("cannot resolve an expression to a nil type")
	}
	if n.typ != nil && n.typ != typ {
		panic(fmt.Sprintf("type of expression already resolved to %s: cannot change it to %s", n.typ, typ))
	}
	n.typ = typ
}

// TypeOf returns the type of an expression or nil if the type has not been resolved.
func TypeOf(expr Expr) *types.Type {
	if expr == nil || !expr.Resolved() {
		return nil
	}
	return expr.Type()
}

// At returns the base of a node at a given line.
func At(line int) Base {
	return Base{line: line}
}
