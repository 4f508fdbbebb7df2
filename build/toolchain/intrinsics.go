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

package toolchain

import (
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/codegen"
	"github.com/eppabasic/ebc/build/types"
)

// Intrinsic is a function provided by the host.
type Intrinsic struct {
	// Import is the qualified name of the host function.
	// An empty import is compiled inline.
	Import string
	Name   string
	Params []*types.Type
	Return *types.Type
	// Yields is true if the program hands control back to the host after a call.
	Yields bool
}

var (
	integer = types.Integer
	double  = types.Double
	str     = types.String
	boolean = types.Boolean
)

func params(typs ...*types.Type) []*types.Type {
	return typs
}

// Intrinsics lists the functions every program can call.
var Intrinsics = []Intrinsic{
	// Drawing.
	{Import: "env.clearColor", Name: "ClearColor", Params: params(integer, integer, integer)},
	{Import: "env.lineColor", Name: "DrawColor", Params: params(integer, integer, integer)},
	{Import: "env.lineColor", Name: "LineColor", Params: params(integer, integer, integer)},
	{Import: "env.fillColor", Name: "FillColor", Params: params(integer, integer, integer)},
	{Import: "env.line", Name: "DrawLine", Params: params(integer, integer, integer, integer)},
	{Import: "env.line", Name: "Line", Params: params(integer, integer, integer, integer)},
	{Import: "env.circle", Name: "DrawCircle", Params: params(integer, integer, integer)},
	{Import: "env.circle", Name: "Circle", Params: params(integer, integer, integer)},
	{Import: "env.fillCircle", Name: "FillCircle", Params: params(integer, integer, integer)},
	{Import: "env.rect", Name: "DrawRect", Params: params(integer, integer, integer, integer)},
	{Import: "env.rect", Name: "Rect", Params: params(integer, integer, integer, integer)},
	{Import: "env.fillRect", Name: "FillRect", Params: params(integer, integer, integer, integer)},
	{Import: "env.dot", Name: "DrawDot", Params: params(integer, integer)},
	{Import: "env.dot", Name: "Dot", Params: params(integer, integer)},
	{Import: "env.clear", Name: "ClearScreen"},
	{Import: "env.clear", Name: "Clear"},
	{Import: "env.drawScreen", Name: "DrawScreen", Yields: true},

	// Math.
	{Import: "stdlib.Math.sin", Name: "Sin", Params: params(double), Return: double},
	{Import: "stdlib.Math.cos", Name: "Cos", Params: params(double), Return: double},
	{Import: "stdlib.Math.tan", Name: "Tan", Params: params(double), Return: double},
	{Import: "stdlib.Math.sqrt", Name: "Sqr", Params: params(double), Return: double},
	{Import: "stdlib.Math.abs", Name: "Abs", Params: params(integer), Return: integer},
	{Import: "stdlib.Math.abs", Name: "Abs", Params: params(double), Return: double},
	{Import: "stdlib.Math.min", Name: "Min", Params: params(double, double), Return: double},
	{Import: "stdlib.Math.min", Name: "Min", Params: params(integer, integer), Return: integer},
	{Import: "stdlib.Math.max", Name: "Max", Params: params(double, double), Return: double},
	{Import: "stdlib.Math.max", Name: "Max", Params: params(integer, integer), Return: integer},
	{Import: "env.rand", Name: "Rand", Params: params(double, double), Return: double},

	// Time.
	{Import: "env.hours", Name: "Hours", Return: integer},
	{Import: "env.minutes", Name: "Minutes", Return: integer},
	{Import: "env.seconds", Name: "Seconds", Return: integer},
	{Import: "env.milliseconds", Name: "MilliSeconds", Return: integer},

	// Input.
	{Import: "env.keyDown", Name: "KeyDown", Params: params(integer), Return: boolean},
	{Import: "env.keyUp", Name: "KeyUp", Params: params(integer), Return: boolean},
	{Import: "env.keyHit", Name: "KeyHit", Params: params(integer), Return: boolean},
	{Import: "env.mouseX", Name: "MouseX", Return: integer},
	{Import: "env.mouseY", Name: "MouseY", Return: integer},
	{Import: "env.mouseDown", Name: "MouseDown", Params: params(integer), Return: boolean},

	// Output.
	{Import: "env.printInt", Name: "Print", Params: params(integer)},
	{Import: "env.printDbl", Name: "Print", Params: params(double)},
	{Import: "env.printStr", Name: "Print", Params: params(str)},

	// Strings and casts.
	{Import: codegen.ImportStrAsc, Name: "Asc", Params: params(str), Return: integer},
	{Name: "Int", Params: params(integer), Return: integer},
}

// Handle returns a new function handle for the intrinsic.
func (in *Intrinsic) Handle() *ast.FunctionHandle {
	return &ast.FunctionHandle{
		Name:      in.Name,
		Params:    in.Params,
		Return:    in.Return,
		Atomic:    !in.Yields,
		HostBound: true,
		Import:    in.Import,
	}
}

// Functions returns a new function table with all the intrinsics.
func Functions() *ast.FunctionTable {
	table := ast.NewFunctionTable()
	for n := range Intrinsics {
		table.Add(Intrinsics[n].Handle())
	}
	return table
}
