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

// Package types defines EppaBasic types, cast rules and operators.
package types

import (
	"fmt"
	"strings"

	basesync "github.com/eppabasic/ebc/base/sync"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/gx-org/backend/dtype"
)

// Kind of a type.
type Kind uint

// Kinds supported by EppaBasic.
const (
	InvalidKind = Kind(dtype.Invalid)

	BooleanKind = Kind(dtype.Bool)
	IntegerKind = Kind(dtype.Int32)
	DoubleKind  = Kind(dtype.Float64)

	StringKind = Kind(iota + dtype.MaxDataType)
	ArrayKind
	// VoidKind is the kind of calls to subprograms.
	VoidKind
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case BooleanKind:
		return "boolean"
	case IntegerKind:
		return "integer"
	case DoubleKind:
		return "double"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case VoidKind:
		return "void"
	}
	return "invalid"
}

// Type of a value.
// Types are interned: two types are equal if and only if their pointers are equal.
type Type struct {
	kind Kind
	name string
	item *Type
	dims int
}

// Primitive types.
var (
	Invalid = &Type{kind: InvalidKind, name: "invalid"}
	Integer = &Type{kind: IntegerKind, name: "Integer"}
	Double  = &Type{kind: DoubleKind, name: "Double"}
	Boolean = &Type{kind: BooleanKind, name: "Boolean"}
	String  = &Type{kind: StringKind, name: "String"}

	// Void is the type of a call to a subprogram.
	Void = &Type{kind: VoidKind, name: "Void"}
)

var primitives = map[string]*Type{}

func init() {
	for _, typ := range []*Type{Integer, Double, Boolean, String} {
		primitives[strings.ToLower(typ.name)] = typ
	}
}

// Lookup returns the primitive type matching a name.
// Type names are case-insensitive.
func Lookup(name string) (*Type, bool) {
	typ, ok := primitives[strings.ToLower(name)]
	return typ, ok
}

// ToType returns the primitive type given its name or an unknown type error.
func ToType(line int, name string) (*Type, error) {
	typ, ok := Lookup(name)
	if !ok {
		return nil, fmterr.UnknownTypeError(line, name)
	}
	return typ, nil
}

type arrayKey struct {
	item *Type
	dims int
}

var arrays basesync.Map[arrayKey, *Type]

// ArrayOf returns the array type of a given item type and number of dimensions.
func ArrayOf(item *Type, dims int) *Type {
	key := arrayKey{item: item, dims: dims}
	if typ := arrays.Load(key); typ != nil {
		return typ
	}
	return arrays.LoadOrStore(key, &Type{
		kind: ArrayKind,
		name: fmt.Sprintf("%s[%s]", item.name, strings.Repeat(",", dims-1)),
		item: item,
		dims: dims,
	})
}

// Kind returns the kind of the type.
func (t *Type) Kind() Kind {
	return t.kind
}

// Item returns the type of the elements of an array or nil.
func (t *Type) Item() *Type {
	return t.item
}

// Dims returns the number of dimensions of an array type.
func (t *Type) Dims() int {
	return t.dims
}

// IsArray returns true if the type is an array type.
func (t *Type) IsArray() bool {
	return t.kind == ArrayKind
}

// IsValid returns false for the invalid type.
func (t *Type) IsValid() bool {
	return t != nil && t.kind != InvalidKind
}

// HasValue returns true if the type is neither invalid nor void.
func (t *Type) HasValue() bool {
	return t.IsValid() && t.kind != VoidKind
}

// CanCastTo returns true if a value of type t can be used where a value of type target is expected.
func (t *Type) CanCastTo(target *Type) bool {
	if t == target {
		return true
	}
	return t == Integer && target == Double
}

// CastTargets returns all the types t casts to, t first.
func (t *Type) CastTargets() []*Type {
	if t == Integer {
		return []*Type{Integer, Double}
	}
	return []*Type{t}
}

// DataType returns the data type of a value of type t.
// Strings and arrays are pointers into the heap.
func (t *Type) DataType() dtype.DataType {
	switch t.kind {
	case BooleanKind, IntegerKind, DoubleKind:
		return dtype.DataType(t.kind)
	case StringKind, ArrayKind:
		return dtype.Uint32
	}
	return dtype.Invalid
}

// StorageType returns the data type used to store a value of type t
// in a slot of memory. Booleans are stored as 32-bit integers.
func (t *Type) StorageType() dtype.DataType {
	if t.kind == BooleanKind {
		return dtype.Int32
	}
	return t.DataType()
}

// SlotSize returns the size in bytes of a memory slot holding a value of type t.
func (t *Type) SlotSize() int {
	return dtype.Sizeof(t.StorageType())
}

func (t *Type) String() string {
	if t == nil {
		return "nil"
	}
	return t.name
}
