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

import "github.com/eppabasic/ebc/build/types"

type (
	// Block is a sequence of statements.
	Block struct {
		Base
		Nodes []Stmt
		// Scope is the scope of the block, assigned by the checker.
		Scope ScopeID
	}

	// Comment in the source code.
	Comment struct {
		Base
		Text string
	}

	// VariableDefinition defines a variable.
	// It is also used for function parameters and loop variables.
	VariableDefinition struct {
		Base
		typed
		Name string
		// Declared is the type written after "as" or nil.
		Declared   *types.Type
		Initial    Expr
		Dimensions *Dimensions
	}

	// VariableAssignment assigns a value to a variable or to an element of an array.
	VariableAssignment struct {
		Base
		Name  string
		Index []Expr
		Expr  Expr
		// Ref is the definition of the assigned variable.
		Ref *VariableDefinition
	}

	// For is a counting loop.
	For struct {
		Base
		Variable *VariableDefinition
		Range    *Range
		Step     Expr
		Block    *Block
		Scope    ScopeID
	}

	// If is a conditional statement.
	// An elseif is represented by a nested If in False.
	If struct {
		Base
		Cond  Expr
		True  *Block
		False Stmt // *Block, *If or nil.
	}

	// RepeatForever loops until the program stops.
	RepeatForever struct {
		Base
		Block *Block
	}

	// RepeatUntil loops until its condition is true.
	RepeatUntil struct {
		Base
		Block *Block
		Cond  Expr
	}

	// RepeatWhile loops while its condition is true.
	RepeatWhile struct {
		Base
		Block *Block
		Cond  Expr
	}

	// FunctionDefinition defines a function or a subprogram.
	// Subprograms have no return type.
	FunctionDefinition struct {
		Base
		Name   string
		Params []*VariableDefinition
		Return *types.Type
		Block  *Block
		Handle *FunctionHandle
		Scope  ScopeID
	}

	// Return returns from a function.
	Return struct {
		Base
		typed
		// Expr is the returned value, nil when returning from a subprogram.
		Expr Expr
		// Func is the enclosing function definition, nil at the program level.
		Func *FunctionDefinition
	}

	// FunctionCall calls a function.
	// It is an expression or a statement.
	FunctionCall struct {
		Base
		typed
		Name   string
		Args   []Expr
		Handle *FunctionHandle
		// Casts counts the arguments converted to match the parameters of Handle.
		Casts int
	}

	// Number is a number literal.
	Number struct {
		Base
		typed
		Value string
	}

	// StringLit is a string literal.
	StringLit struct {
		Base
		typed
		Value string
	}

	// Variable references a variable.
	Variable struct {
		Base
		typed
		Name string
		Def  *VariableDefinition
	}

	// BinaryOp is an operator with two operands.
	BinaryOp struct {
		Base
		typed
		Left     Expr
		Op       string
		Right    Expr
		Operator *types.Operator
	}

	// UnaryOp is an operator with one operand.
	UnaryOp struct {
		Base
		typed
		Op       string
		Expr     Expr
		Operator *types.Operator
	}

	// IndexOp reads an element of an array.
	IndexOp struct {
		Base
		typed
		Expr  Expr
		Index []Expr
	}

	// Range is the "start to end" part of a for loop.
	Range struct {
		Base
		typed
		Start Expr
		End   Expr
	}

	// Dimensions are the sizes of an array in a variable definition.
	Dimensions struct {
		Base
		Sizes []Expr
	}
)

func (*Block) stmtNode()              {}
func (*Comment) stmtNode()            {}
func (*VariableDefinition) stmtNode() {}
func (*VariableAssignment) stmtNode() {}
func (*For) stmtNode()                {}
func (*If) stmtNode()                 {}
func (*RepeatForever) stmtNode()      {}
func (*RepeatUntil) stmtNode()        {}
func (*RepeatWhile) stmtNode()        {}
func (*FunctionDefinition) stmtNode() {}
func (*Return) stmtNode()             {}
func (*FunctionCall) stmtNode()       {}

func (*FunctionCall) exprNode() {}
func (*Number) exprNode()       {}
func (*StringLit) exprNode()    {}
func (*Variable) exprNode()     {}
func (*BinaryOp) exprNode()     {}
func (*UnaryOp) exprNode()      {}
func (*IndexOp) exprNode()      {}
func (*Range) exprNode()        {}

// IsSubprogram returns true if the definition has no return type.
func (f *FunctionDefinition) IsSubprogram() bool {
	return f.Return == nil
}

// ParamTypes returns the types of the parameters.
func (f *FunctionDefinition) ParamTypes() []*types.Type {
	params := make([]*types.Type, len(f.Params))
	for i, param := range f.Params {
		params[i] = param.Declared
	}
	return params
}

// Loop returns the body of a loop statement or nil if the statement is not a loop.
func Loop(stmt Stmt) *Block {
	switch s := stmt.(type) {
	case *For:
		return s.Block
	case *RepeatForever:
		return s.Block
	case *RepeatUntil:
		return s.Block
	case *RepeatWhile:
		return s.Block
	}
	return nil
}

var (
	_ Stmt = (*Block)(nil)
	_ Stmt = (*FunctionCall)(nil)
	_ Expr = (*FunctionCall)(nil)
	_ Expr = (*Range)(nil)
)
