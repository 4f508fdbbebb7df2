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

package fmterr

import "strings"

// Diagnostic keys.
const (
	KeySyntax          Key = "syntax.unexpected"
	KeyLoopStructure   Key = "syntax.loop"
	KeyUnknownType     Key = "type.unknown"
	KeyMismatchCast    Key = "type.mismatch.cast"
	KeyMismatchAssign  Key = "type.mismatch.assign"
	KeyMismatchDim     Key = "type.mismatch.dimension"
	KeyMismatchIndex   Key = "type.mismatch.index"
	KeyMismatchRange   Key = "type.mismatch.range"
	KeyMismatchStep    Key = "type.mismatch.step"
	KeyMismatchCond    Key = "type.mismatch.condition"
	KeyUndefinedVar    Key = "variable.undefined"
	KeyRedefinedVar    Key = "variable.redefined"
	KeyUntypedVar      Key = "variable.untyped"
	KeyNotArray        Key = "variable.notarray"
	KeyIndexCount      Key = "variable.indexcount"
	KeyArrayInit       Key = "variable.arrayinit"
	KeyUndefinedFunc   Key = "function.undefined"
	KeyAmbiguousCall   Key = "function.ambiguous"
	KeyRedefinedFunc   Key = "function.redefined"
	KeyNoValue         Key = "function.novalue"
	KeyUndefinedOp     Key = "operator.undefined"
	KeyReturnOutside   Key = "return.outside"
	KeyReturnMismatch  Key = "return.mismatch"
	KeyStringDecode    Key = "runtime.decode"
	typeMismatchPrefix     = "type.mismatch."
)

// IsTypeMismatch returns true if the key is one of the type mismatch keys.
func IsTypeMismatch(key Key) bool {
	return strings.HasPrefix(string(key), typeMismatchPrefix)
}

// SyntaxError reports a missing or unexpected token.
func SyntaxError(line int, expected, found string) *Error {
	return New(line, KeySyntax, Data{"Expected": expected, "Found": found})
}

// InvalidLoopStructureError reports a loop closed with another identifier than the one it declared.
func InvalidLoopStructureError(line int, header, next string) *Error {
	return New(line, KeyLoopStructure, Data{"Header": header, "Next": next})
}

// UnknownTypeError reports an unresolvable type name.
func UnknownTypeError(line int, name string) *Error {
	return New(line, KeyUnknownType, Data{"Name": name})
}

// TypeMismatchError reports a cast failure between two resolved types.
// The key selects the construct in which the cast was required.
func TypeMismatchError(line int, key Key, from, to string) *Error {
	return New(line, key, Data{"From": from, "To": to})
}

// UndefinedVariableError reports a scope lookup miss.
func UndefinedVariableError(line int, name string) *Error {
	return New(line, KeyUndefinedVar, Data{"Name": name})
}

// RedefinedVariableError reports a second definition of a variable in the same scope.
func RedefinedVariableError(line int, name string) *Error {
	return New(line, KeyRedefinedVar, Data{"Name": name})
}

// UntypedVariableError reports a definition with neither a type nor an initializer.
func UntypedVariableError(line int, name string) *Error {
	return New(line, KeyUntypedVar, Data{"Name": name})
}

// NotArrayError reports indexing of a value which is not an array.
func NotArrayError(line int, typ string) *Error {
	return New(line, KeyNotArray, Data{"Type": typ})
}

// IndexCountError reports an indexing with the wrong number of indices.
func IndexCountError(line int, want, got int) *Error {
	return New(line, KeyIndexCount, Data{"Want": want, "Got": got})
}

// ArrayInitializerError reports an array definition with an initial value.
func ArrayInitializerError(line int, name string) *Error {
	return New(line, KeyArrayInit, Data{"Name": name})
}

// UndefinedFunctionError reports a call matching no function.
func UndefinedFunctionError(line int, name string, args []string) *Error {
	return New(line, KeyUndefinedFunc, Data{"Name": name, "Args": strings.Join(args, ", ")})
}

// AmbiguousCallError reports a call matching more than one function at the same cast cost.
func AmbiguousCallError(line int, name string, args []string, candidates []string) *Error {
	return New(line, KeyAmbiguousCall, Data{
		"Name":       name,
		"Args":       strings.Join(args, ", "),
		"Candidates": candidates,
	})
}

// RedefinedFunctionError reports two functions with the same name and parameter types.
func RedefinedFunctionError(line int, name string, params []string) *Error {
	return New(line, KeyRedefinedFunc, Data{"Name": name, "Params": strings.Join(params, ", ")})
}

// NoValueError reports a subprogram used as an expression.
func NoValueError(line int, name string) *Error {
	return New(line, KeyNoValue, Data{"Name": name})
}

// UndefinedOperatorError reports an operator applied to unsupported operand types.
// right is empty for unary operators.
func UndefinedOperatorError(line int, op, left, right string) *Error {
	return New(line, KeyUndefinedOp, Data{"Op": op, "Left": left, "Right": right})
}

// ReturnOutsideError reports a return statement outside of a function.
func ReturnOutsideError(line int) *Error {
	return New(line, KeyReturnOutside, Data{})
}

// ReturnMismatchWarning reports a return value that does not cast to the function return type.
func ReturnMismatchWarning(line int, function, from, to string) *Error {
	return Warning(line, KeyReturnMismatch, Data{"Function": function, "From": from, "To": to})
}

// RuntimeStringDecodeError reports a malformed UTF-8 sequence found while decoding a string.
// The decoding is best effort: the error is reported as a warning.
func RuntimeStringDecodeError(offset int, b byte) *Error {
	return Warning(0, KeyStringDecode, Data{"Offset": offset, "Byte": b})
}
