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

package checker

import (
	"github.com/eppabasic/ebc/base/ordered"
	"github.com/eppabasic/ebc/build/ast"
)

// ScopeKind is the kind of construct owning a scope.
type ScopeKind int

const (
	// ProgramScope holds the variables defined at the program level.
	ProgramScope ScopeKind = iota
	// FunctionScope holds the parameters of a function.
	FunctionScope
	// LoopScope holds the variable of a for loop.
	LoopScope
	// BlockScope holds the variables defined in a nested block.
	BlockScope
)

func (k ScopeKind) String() string {
	switch k {
	case ProgramScope:
		return "program"
	case FunctionScope:
		return "function"
	case LoopScope:
		return "loop"
	case BlockScope:
		return "block"
	}
	return "unknown"
}

type scope struct {
	kind   ScopeKind
	parent ast.ScopeID
	vars   *ordered.FoldMap[*ast.VariableDefinition]
}

// Scopes stores all the scopes of a program.
// A scope is identified by its index in the arena. Lookups delegate
// to the parent scope on a miss.
type Scopes struct {
	scopes []scope
}

func newScopes() *Scopes {
	// The zero id is reserved for nodes without a scope.
	return &Scopes{scopes: []scope{{}}}
}

func (s *Scopes) newScope(kind ScopeKind, parent ast.ScopeID) ast.ScopeID {
	s.scopes = append(s.scopes, scope{
		kind:   kind,
		parent: parent,
		vars:   ordered.NewFoldMap[*ast.VariableDefinition](),
	})
	return ast.ScopeID(len(s.scopes) - 1)
}

func (s *Scopes) get(id ast.ScopeID) *scope {
	if id <= 0 || int(id) >= len(s.scopes) {
		return nil
	}
	return &s.scopes[id]
}

// define a variable in a scope.
// It returns false if the scope already has a variable with the same name.
func (s *Scopes) define(id ast.ScopeID, def *ast.VariableDefinition) bool {
	return s.get(id).vars.StoreNew(def.Name, def)
}

// Lookup returns the definition of a variable visible from a scope or nil.
// Names are case-insensitive.
func (s *Scopes) Lookup(id ast.ScopeID, name string) *ast.VariableDefinition {
	for sc := s.get(id); sc != nil; sc = s.get(sc.parent) {
		if def, ok := sc.vars.Load(name); ok {
			return def
		}
	}
	return nil
}

// Kind returns the kind of a scope.
func (s *Scopes) Kind(id ast.ScopeID) ScopeKind {
	return s.get(id).kind
}

// Parent returns the enclosing scope or zero for the program scope.
func (s *Scopes) Parent(id ast.ScopeID) ast.ScopeID {
	return s.get(id).parent
}

// Variables returns the variables defined directly in a scope in definition order.
func (s *Scopes) Variables(id ast.ScopeID) []*ast.VariableDefinition {
	var defs []*ast.VariableDefinition
	for def := range s.get(id).vars.Values() {
		defs = append(defs, def)
	}
	return defs
}

// Len returns the number of scopes.
func (s *Scopes) Len() int {
	return len(s.scopes) - 1
}
