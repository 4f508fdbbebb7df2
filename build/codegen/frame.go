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

package codegen

import (
	"github.com/eppabasic/ebc/artifact"
	"github.com/eppabasic/ebc/base/uname"
	"github.com/eppabasic/ebc/build/ast"
)

type frameKind int

const (
	// localFrame stores variables in the locals of a plain function.
	localFrame frameKind = iota
	// heapFrame stores variables in a frame of the frame stack.
	heapFrame
)

type slotWhere int

const (
	inGlobal slotWhere = iota
	inLocal
	inFrame
)

// slot is where a variable is stored.
type slot struct {
	where  slotWhere
	name   string
	offset int64
	typ    artifact.ValueType
}

// patch adds the final size of the frame to the Int field of an instruction.
type patch struct {
	index int
	base  int64
}

// frame generates the body of a function or of the main program.
type frame struct {
	g    *generator
	kind frameKind
	// def is nil for the main program.
	def  *ast.FunctionDefinition
	body []artifact.Instr

	slots map[*ast.VariableDefinition]slot
	temps map[ast.Expr]slot

	// Plain functions.
	names  *uname.Unique
	locals []artifact.Local

	// Routine functions.
	size    int
	patches []patch
}

func (g *generator) newFrame(def *ast.FunctionDefinition, kind frameKind) *frame {
	return &frame{
		g:     g,
		kind:  kind,
		def:   def,
		slots: make(map[*ast.VariableDefinition]slot),
		temps: make(map[ast.Expr]slot),
		names: uname.New(),
		size:  artifact.FrameHeader,
	}
}

func (f *frame) emit(ins ...artifact.Instr) {
	f.body = append(f.body, ins...)
}

// emitSized emits an instruction whose Int field is base plus the size of the frame.
func (f *frame) emitSized(in artifact.Instr, base int64) {
	f.patches = append(f.patches, patch{index: len(f.body), base: base})
	f.emit(in)
}

func (f *frame) label(label string) {
	f.emit(artifact.Instr{Op: artifact.OpLabel, Label: label})
}

func (f *frame) newLabel(root string) string {
	return f.g.labels.Name(root)
}

// finish patches the instructions depending on the size of the frame and returns the body.
func (f *frame) finish() []artifact.Instr {
	for _, p := range f.patches {
		f.body[p.index].Int = int64(f.size) + p.base
	}
	return f.body
}

// newSlot allocates the storage of a variable in the frame.
func (f *frame) newSlot(def *ast.VariableDefinition) slot {
	s := f.alloc(def.Name, valueType(def.Type()))
	f.slots[def] = s
	return s
}

func (f *frame) alloc(name string, typ artifact.ValueType) slot {
	if f.kind == localFrame {
		s := slot{where: inLocal, name: f.names.Name(name), typ: typ}
		f.locals = append(f.locals, artifact.Local{Name: s.name, Type: typ})
		return s
	}
	s := slot{where: inFrame, offset: int64(f.size), typ: typ}
	f.size += artifact.SlotSize
	return s
}

// temp allocates a slot holding an intermediate value.
func (f *frame) temp(typ artifact.ValueType) slot {
	return f.alloc("tmp", typ)
}

// slot returns the storage of a variable.
func (f *frame) slot(def *ast.VariableDefinition) slot {
	if s, ok := f.slots[def]; ok {
		return s
	}
	if s, ok := f.g.globals[def]; ok {
		return s
	}
	return f.newSlot(def)
}

func (f *frame) get(s slot) {
	switch s.where {
	case inGlobal:
		f.emit(artifact.Instr{Op: artifact.OpGlobalGet, Name: s.name})
	case inLocal:
		f.emit(artifact.Instr{Op: artifact.OpLocalGet, Name: s.name})
	case inFrame:
		f.emit(artifact.Instr{Op: artifact.OpFrameGet, Int: s.offset, Type: s.typ})
	}
}

func (f *frame) set(s slot) {
	switch s.where {
	case inGlobal:
		f.emit(artifact.Instr{Op: artifact.OpGlobalSet, Name: s.name})
	case inLocal:
		f.emit(artifact.Instr{Op: artifact.OpLocalSet, Name: s.name})
	case inFrame:
		f.emit(artifact.Instr{Op: artifact.OpFrameSet, Int: s.offset, Type: s.typ})
	}
}

func (f *frame) zero(typ artifact.ValueType) {
	switch typ {
	case artifact.F64:
		f.emit(artifact.Instr{Op: artifact.OpF64Const})
	case artifact.I32:
		f.emit(artifact.Instr{Op: artifact.OpI32Const})
	}
}

// returnZero ends a plain function.
func (f *frame) returnZero() {
	f.zero(valueType(f.def.Return))
	f.emit(artifact.Instr{Op: artifact.OpReturn})
}
