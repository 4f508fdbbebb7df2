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
	"slices"
	"strings"

	"github.com/eppabasic/ebc/base/iter"
	"github.com/eppabasic/ebc/base/stringseq"
	"github.com/eppabasic/ebc/build/types"
)

// FunctionHandle is the signature of a function callable from a program.
// Several handles may share a name if their parameters differ.
type FunctionHandle struct {
	Name   string
	Params []*types.Type
	// Return is the return type or nil for subprograms.
	Return *types.Type
	// Atomic is true if a call to the function never yields to the host.
	Atomic bool
	// HostBound is true if the function is implemented by the host.
	HostBound bool
	// Import is the name under which the host provides the function.
	Import string
	// Def is the definition of a user function.
	Def *FunctionDefinition
}

// ParamNames returns the names of the parameter types.
func (h *FunctionHandle) ParamNames() []string {
	return TypeNames(h.Params)
}

// ReturnType returns the type of a call to the function.
func (h *FunctionHandle) ReturnType() *types.Type {
	if h.Return == nil {
		return types.Void
	}
	return h.Return
}

// Signature returns the name of the function followed by its parameter types.
func (h *FunctionHandle) Signature() string {
	return fmt.Sprintf("%s(%s)", h.Name, stringseq.JoinStringer(slices.Values(h.Params), ", "))
}

func (h *FunctionHandle) String() string {
	s := h.Signature()
	if h.Return != nil {
		s += " as " + h.Return.String()
	}
	return s
}

// SameSignature returns true if two handles cannot be told apart by a call.
func (h *FunctionHandle) SameSignature(other *FunctionHandle) bool {
	if !strings.EqualFold(h.Name, other.Name) || len(h.Params) != len(other.Params) {
		return false
	}
	for i, param := range h.Params {
		if param != other.Params[i] {
			return false
		}
	}
	return true
}

// TypeNames returns the names of a list of types.
func TypeNames(typs []*types.Type) []string {
	names := make([]string, len(typs))
	for i, typ := range typs {
		names[i] = typ.String()
	}
	return names
}

// FunctionTable is the ordered set of functions known to a compilation unit.
type FunctionTable struct {
	handles []*FunctionHandle
}

// NewFunctionTable returns a table with the given handles.
func NewFunctionTable(handles ...*FunctionHandle) *FunctionTable {
	return &FunctionTable{handles: append([]*FunctionHandle{}, handles...)}
}

// Add a handle to the table.
// It returns the existing handle if one already has the same signature.
func (t *FunctionTable) Add(h *FunctionHandle) (*FunctionHandle, bool) {
	for _, other := range t.handles {
		if other.SameSignature(h) {
			return other, false
		}
	}
	t.handles = append(t.handles, h)
	return h, true
}

// Handles returns all the handles in registration order.
func (t *FunctionTable) Handles() []*FunctionHandle {
	return t.handles
}

// Named returns all the handles matching a name case-insensitively.
func (t *FunctionTable) Named(name string) []*FunctionHandle {
	var handles []*FunctionHandle
	for _, h := range t.handles {
		if strings.EqualFold(h.Name, name) {
			handles = append(handles, h)
		}
	}
	return handles
}

// User returns the handles of functions defined in the program.
func (t *FunctionTable) User() []*FunctionHandle {
	return slices.Collect(iter.Filter(isUser, t.handles))
}

func isUser(h *FunctionHandle) bool {
	return !h.HostBound
}

// Host returns the handles of functions implemented by the host.
func (t *FunctionTable) Host() []*FunctionHandle {
	return slices.Collect(iter.Filter(func(h *FunctionHandle) bool {
		return h.HostBound
	}, t.handles))
}
