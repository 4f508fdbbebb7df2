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

// Package atomic finds which parts of a program run without yielding to the host.
//
// Programs are scheduled cooperatively: the code generator inserts yield
// points where a node is not atomic. Loops and conditionals are never atomic.
// A call is atomic if the called function is atomic. The atomicity of user
// functions depends on the atomicity of the functions they call, which may
// call them back: the analysis iterates over the whole program until the
// atomicity of every user function is stable.
package atomic

import (
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"golang.org/x/exp/maps"
)

// Result of the analysis.
type Result struct {
	// Passes is the number of passes over the program to reach a fixed point.
	Passes int
	// Atomic lists the atomicity of every user function.
	Atomic map[*ast.FunctionHandle]bool
}

type checker struct {
	err error
}

// Check computes the atomicity of every node of a checked program.
//
// User functions start non-atomic. A function becomes atomic once its body
// is found atomic given the current flags of its callees. Flags only move
// from non-atomic to atomic, so the analysis terminates after at most one
// pass per user function plus a last pass confirming that no flag changed.
// Functions in a recursive cycle stay non-atomic.
func Check(tree *ast.Block, funcs *ast.FunctionTable) (*Result, error) {
	user := funcs.User()
	for _, handle := range user {
		handle.Atomic = false
	}
	maxPasses := len(user) + 1
	c := &checker{}
	for pass := 1; pass <= maxPasses; pass++ {
		before := snapshot(user)
		c.visit(tree)
		if c.err != nil {
			return nil, c.err
		}
		after := snapshot(user)
		if maps.Equal(before, after) {
			return &Result{Passes: pass, Atomic: after}, nil
		}
	}
	return nil, fmterr.Internalf("atomicity of %d functions did not converge after %d passes", len(user), maxPasses)
}

func snapshot(handles []*ast.FunctionHandle) map[*ast.FunctionHandle]bool {
	flags := make(map[*ast.FunctionHandle]bool, len(handles))
	for _, handle := range handles {
		flags[handle] = handle.Atomic
	}
	return flags
}

// all visits all the nodes and returns true if all of them are atomic.
func (c *checker) all(nodes ...ast.Node) bool {
	atomic := true
	for _, node := range nodes {
		if !c.visit(node) {
			atomic = false
		}
	}
	return atomic
}

func (c *checker) exprs(exprs ...ast.Expr) bool {
	atomic := true
	for _, expr := range exprs {
		if expr != nil && !c.visit(expr) {
			atomic = false
		}
	}
	return atomic
}

func (c *checker) visit(node ast.Node) bool {
	atomic := c.atomic(node)
	node.SetAtomic(atomic)
	return atomic
}

func (c *checker) atomic(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Comment, *ast.Number, *ast.StringLit, *ast.Variable:
		return true
	case *ast.Block:
		atomic := true
		for _, stmt := range n.Nodes {
			if !c.visit(stmt) {
				atomic = false
			}
		}
		return atomic
	case *ast.BinaryOp:
		return c.exprs(n.Left, n.Right)
	case *ast.UnaryOp:
		return c.exprs(n.Expr)
	case *ast.IndexOp:
		return c.exprs(append([]ast.Expr{n.Expr}, n.Index...)...)
	case *ast.Dimensions:
		return c.exprs(n.Sizes...)
	case *ast.Range:
		return c.exprs(n.Start, n.End)
	case *ast.VariableDefinition:
		atomic := c.exprs(n.Initial)
		if n.Dimensions != nil && !c.visit(n.Dimensions) {
			atomic = false
		}
		return atomic
	case *ast.VariableAssignment:
		index := c.exprs(n.Index...)
		return c.exprs(n.Expr) && index
	case *ast.For:
		c.all(n.Range, n.Step, n.Block)
		return false
	case *ast.RepeatForever:
		c.visit(n.Block)
		return false
	case *ast.RepeatUntil:
		c.all(n.Block, n.Cond)
		return false
	case *ast.RepeatWhile:
		c.all(n.Block, n.Cond)
		return false
	case *ast.If:
		c.all(n.Cond, n.True)
		if n.False != nil {
			c.visit(n.False)
		}
		return false
	case *ast.FunctionCall:
		if n.Handle == nil {
			c.fail(fmterr.Internalf("line %d: call to %s has not been resolved", n.Line(), n.Name))
			return false
		}
		args := c.exprs(n.Args...)
		return n.Handle.Atomic && args
	case *ast.FunctionDefinition:
		atomic := c.visit(n.Block)
		if n.Handle != nil {
			n.Handle.Atomic = atomic
		}
		return atomic
	case *ast.Return:
		return c.exprs(n.Expr)
	}
	c.fail(fmterr.Internalf("atomicity checker does not support node %T", node))
	return false
}

func (c *checker) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}
