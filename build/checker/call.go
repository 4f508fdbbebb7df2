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
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
)

// resolveCall resolves the arguments of a call and the function it calls.
func (c *Checker) resolveCall(call *ast.FunctionCall, id ast.ScopeID) (*types.Type, error) {
	if call.Handle != nil {
		for _, arg := range call.Args {
			c.resolve(arg, id)
		}
		return call.Handle.ReturnType(), nil
	}
	args := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		typ, err := c.value(arg, id)
		if err != nil {
			return nil, err
		}
		if !typ.IsValid() {
			return types.Invalid, nil
		}
		args[i] = typ
	}
	handle, casts, err := c.selectHandle(call, args)
	if err != nil {
		return nil, err
	}
	call.Handle = handle
	call.Casts = casts
	typ := handle.ReturnType()
	if !call.Resolved() {
		call.SetType(typ)
	}
	return typ, nil
}

// castCost returns the number of arguments which need to be cast to
// match the parameters of a handle or -1 if an argument cannot be cast.
func castCost(handle *ast.FunctionHandle, args []*types.Type) int {
	cost := 0
	for i, arg := range args {
		param := handle.Params[i]
		if arg == param {
			continue
		}
		if !arg.CanCastTo(param) {
			return -1
		}
		cost++
	}
	return cost
}

// selectHandle selects the function called with arguments of the given types.
// A handle is a candidate if its name and its number of parameters match
// and if all arguments can be cast to the parameters. The candidates with the
// fewest casts win. More than one winner makes the call ambiguous.
func (c *Checker) selectHandle(call *ast.FunctionCall, args []*types.Type) (*ast.FunctionHandle, int, error) {
	var candidates []*ast.FunctionHandle
	bestCost := -1
	for _, handle := range c.funcs.Named(call.Name) {
		if len(handle.Params) != len(args) {
			continue
		}
		cost := castCost(handle, args)
		if cost < 0 {
			continue
		}
		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			candidates = candidates[:0]
		}
		if cost == bestCost {
			candidates = append(candidates, handle)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, 0, fmterr.UndefinedFunctionError(call.Line(), call.Name, ast.TypeNames(args))
	case 1:
		return candidates[0], bestCost, nil
	}
	signatures := make([]string, len(candidates))
	for i, candidate := range candidates {
		signatures[i] = candidate.Signature()
	}
	return nil, 0, fmterr.AmbiguousCallError(call.Line(), call.Name, ast.TypeNames(args), signatures)
}
