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

// Children returns the direct children of a node in source order.
func Children(node Node) []Node {
	var children []Node
	addExpr := func(exprs ...Expr) {
		for _, expr := range exprs {
			if expr != nil {
				children = append(children, expr)
			}
		}
	}
	switch n := node.(type) {
	case *Block:
		for _, stmt := range n.Nodes {
			children = append(children, stmt)
		}
	case *VariableDefinition:
		if n.Dimensions != nil {
			children = append(children, n.Dimensions)
		}
		addExpr(n.Initial)
	case *VariableAssignment:
		addExpr(n.Index...)
		addExpr(n.Expr)
	case *For:
		children = append(children, n.Range)
		addExpr(n.Step)
		children = append(children, n.Block)
	case *If:
		addExpr(n.Cond)
		children = append(children, n.True)
		if n.False != nil {
			children = append(children, n.False)
		}
	case *RepeatForever:
		children = append(children, n.Block)
	case *RepeatUntil:
		children = append(children, n.Block)
		addExpr(n.Cond)
	case *RepeatWhile:
		children = append(children, n.Block)
		addExpr(n.Cond)
	case *FunctionDefinition:
		for _, param := range n.Params {
			children = append(children, param)
		}
		children = append(children, n.Block)
	case *Return:
		addExpr(n.Expr)
	case *FunctionCall:
		addExpr(n.Args...)
	case *BinaryOp:
		addExpr(n.Left, n.Right)
	case *UnaryOp:
		addExpr(n.Expr)
	case *IndexOp:
		addExpr(n.Expr)
		addExpr(n.Index...)
	case *Range:
		addExpr(n.Start, n.End)
	case *Dimensions:
		addExpr(n.Sizes...)
	}
	return children
}

// Inspect traverses a tree in depth-first order.
// Children of a node are not visited if f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}
