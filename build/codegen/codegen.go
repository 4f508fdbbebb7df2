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

// Package codegen lowers a checked program into an artifact.
//
// Functions marked atomic by the atomicity checker are compiled into plain
// functions. The main program and the other functions are compiled into the
// resumable routine of the artifact: their variables live in heap frames and
// every point where the program may hand control back to the host is a
// resume point of the routine.
package codegen

import (
	"slices"
	"strings"

	"github.com/eppabasic/ebc/artifact"
	"github.com/eppabasic/ebc/base/stringseq"
	"github.com/eppabasic/ebc/base/uname"
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/types"
	"github.com/eppabasic/ebc/runtime/strmem"
	"github.com/gx-org/backend/dtype"
	"github.com/pkg/errors"
)

// Default sizes of the memory of a program.
const (
	DefaultHeapSize  = 16 << 20
	DefaultStackSize = 64 << 10
)

// Imports of the runtime primitives operating on strings.
const (
	RuntimeModule = "rt"
	ImportConcat  = "rt.concat"
	ImportStrEq   = "rt.streq"
	ImportStrNeq  = "rt.strneq"
	ImportStrAsc  = "rt.strasc"
	ImportFMod    = "rt.fmod"
)

// Options of the code generator.
type Options struct {
	HeapSize int
	// StackSize is the size of the frame stack.
	// If zero, it is derived from the heap size.
	StackSize int
}

func (o Options) withDefaults() Options {
	if o.HeapSize <= 0 {
		o.HeapSize = DefaultHeapSize
	}
	if o.StackSize <= 0 {
		o.StackSize = StackSizeFor(o.HeapSize)
	}
	return o
}

// StackSizeFor returns the default size of the frame stack of a heap:
// a quarter of the heap up to DefaultStackSize.
func StackSizeFor(heapSize int) int {
	size := min(DefaultStackSize, heapSize/4)
	return size &^ (artifact.SlotSize - 1)
}

// validate checks that the frame stack fits in the heap next to the null page.
func (o Options) validate() error {
	if o.StackSize < artifact.FrameHeader {
		return errors.Errorf("frame stack of %d bytes cannot hold a frame header of %d bytes", o.StackSize, artifact.FrameHeader)
	}
	if o.StackSize+strmem.NullPage > o.HeapSize {
		return errors.Errorf("frame stack of %d bytes does not fit in a heap of %d bytes", o.StackSize, o.HeapSize)
	}
	return nil
}

type generator struct {
	opts  Options
	funcs *ast.FunctionTable
	heap  *strmem.Heap
	art   *artifact.Artifact

	strings map[string]uint32
	globals map[*ast.VariableDefinition]slot

	labels   *uname.Unique
	names    *uname.Unique
	funcName map[*ast.FunctionHandle]string
	entry    map[*ast.FunctionHandle]string
	imports  map[*ast.FunctionHandle]string

	resume  []string
	routine []artifact.Instr
}

// Generate lowers a program into an artifact.
// The program must have been checked by the type and atomicity checkers.
func Generate(tree *ast.Block, funcs *ast.FunctionTable, opts Options) (*artifact.Artifact, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	g := &generator{
		opts:     opts,
		funcs:    funcs,
		heap:     strmem.NewHeap(opts.HeapSize, 0),
		strings:  make(map[string]uint32),
		globals:  make(map[*ast.VariableDefinition]slot),
		labels:   uname.New(),
		names:    uname.New(),
		funcName: make(map[*ast.FunctionHandle]string),
		entry:    make(map[*ast.FunctionHandle]string),
		imports:  make(map[*ast.FunctionHandle]string),
		art: &artifact.Artifact{
			ABI:      artifact.ABI,
			HeapSize: opts.HeapSize,
			Exports:  []string{artifact.ExportInit, artifact.ExportNext},
		},
	}
	if err := g.layout(tree); err != nil {
		return nil, err
	}
	g.declareImports()
	if err := g.program(tree); err != nil {
		return nil, err
	}
	if err := g.art.Validate(); err != nil {
		return nil, fmterr.Internal(err)
	}
	return g.art, nil
}

// valueType returns the machine type storing values of a given type.
func valueType(typ *types.Type) artifact.ValueType {
	if typ == nil || !typ.HasValue() {
		return artifact.None
	}
	if typ.StorageType() == dtype.Float64 {
		return artifact.F64
	}
	return artifact.I32
}

// layout places the string literals, the globals and the frame stack in the heap.
func (g *generator) layout(tree *ast.Block) error {
	var err error
	ast.Inspect(tree, func(node ast.Node) bool {
		if lit, ok := node.(*ast.StringLit); ok && err == nil {
			err = g.literal(lit.Value)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	globalNames := uname.New()
	ast.Inspect(tree, func(node ast.Node) bool {
		if err != nil {
			return false
		}
		switch n := node.(type) {
		case *ast.FunctionDefinition:
			return false
		case *ast.For:
			err = g.global(globalNames, n.Variable)
		case *ast.VariableDefinition:
			err = g.global(globalNames, n)
		}
		return true
	})
	if err != nil {
		return err
	}
	stack, err := g.heap.Alloc(g.opts.StackSize)
	if err != nil {
		return errors.Wrap(err, "cannot allocate the frame stack")
	}
	g.art.StackBase = stack
	g.art.StackSize = uint32(g.opts.StackSize)
	g.art.HeapBase = uint32(g.heap.Used())
	return nil
}

func (g *generator) literal(value string) error {
	if _, ok := g.strings[value]; ok || value == "" {
		return nil
	}
	ptr, err := g.heap.NewString(value)
	if err != nil {
		return errors.Wrapf(err, "cannot allocate string literal %q", value)
	}
	g.strings[value] = ptr
	record := g.heap.Bytes()[ptr : int(ptr)+4+len(value)]
	g.art.Data = append(g.art.Data, artifact.Segment{Offset: ptr, Bytes: slices.Clone(record)})
	return nil
}

func (g *generator) global(names *uname.Unique, def *ast.VariableDefinition) error {
	if _, ok := g.globals[def]; ok {
		return nil
	}
	offset, err := g.heap.Alloc(artifact.SlotSize)
	if err != nil {
		return errors.Wrapf(err, "cannot allocate global %s", def.Name)
	}
	s := slot{where: inGlobal, name: names.Name(def.Name), typ: valueType(def.Type())}
	g.globals[def] = s
	g.art.Globals = append(g.art.Globals, artifact.Global{Name: s.name, Type: s.typ, Offset: offset})
	return nil
}

func valueTypes(typs []*types.Type) []artifact.ValueType {
	vts := make([]artifact.ValueType, len(typs))
	for i, typ := range typs {
		vts[i] = valueType(typ)
	}
	return vts
}

// declareImports declares the runtime primitives and every function provided by the host.
func (g *generator) declareImports() {
	rt := []*artifact.Import{
		{Module: RuntimeModule, Name: "concat", Bind: "concat", Params: []artifact.ValueType{artifact.I32, artifact.I32}, Result: artifact.I32, Atomic: true, Source: "&"},
		{Module: RuntimeModule, Name: "streq", Bind: "streq", Params: []artifact.ValueType{artifact.I32, artifact.I32}, Result: artifact.I32, Atomic: true, Source: "="},
		{Module: RuntimeModule, Name: "strneq", Bind: "strneq", Params: []artifact.ValueType{artifact.I32, artifact.I32}, Result: artifact.I32, Atomic: true, Source: "<>"},
		{Module: RuntimeModule, Name: "fmod", Bind: "fmod", Params: []artifact.ValueType{artifact.F64, artifact.F64}, Result: artifact.F64, Atomic: true, Source: "mod"},
	}
	g.art.Imports = append(g.art.Imports, rt...)
	for _, h := range g.funcs.Host() {
		if inline(h) {
			continue
		}
		g.imports[h] = g.hostImport(h).ID()
	}
}

// hostImport returns the import of a host function, declaring it if needed.
func (g *generator) hostImport(h *ast.FunctionHandle) *artifact.Import {
	module, bind, _ := strings.Cut(h.Import, ".")
	imp := &artifact.Import{
		Module: module,
		Name:   bind,
		Bind:   bind,
		Params: valueTypes(h.Params),
		Result: valueType(h.Return),
		Atomic: h.Atomic,
		Source: h.String(),
	}
	existing := g.art.Import(imp.ID())
	if existing != nil && slices.Equal(existing.Params, imp.Params) && existing.Result == imp.Result {
		return existing
	}
	if existing != nil {
		suffix := stringseq.JoinStringer(slices.Values(imp.Params), "_")
		imp.Name = bind + "_" + suffix
		if found := g.art.Import(imp.ID()); found != nil {
			return found
		}
	}
	g.art.Imports = append(g.art.Imports, imp)
	return imp
}

// inline returns true for host functions compiled without a call.
// Such a function returns its argument.
func inline(h *ast.FunctionHandle) bool {
	return h.HostBound && h.Import == ""
}

// resumePoint returns a new label where the routine can resume.
func (g *generator) resumePoint(root string) string {
	label := g.labels.Name(root)
	g.resume = append(g.resume, label)
	return label
}

// program generates the functions and the routine.
func (g *generator) program(tree *ast.Block) error {
	var routines []*ast.FunctionDefinition
	for _, h := range g.funcs.User() {
		if h.Def == nil {
			return fmterr.Internalf("function %s has no definition", h)
		}
		g.funcName[h] = g.names.Name(h.Name)
		if !h.Atomic {
			g.entry[h] = "fn." + g.funcName[h]
			g.labels.Register(g.entry[h])
			routines = append(routines, h.Def)
		}
	}
	for _, h := range g.funcs.User() {
		if !h.Atomic {
			continue
		}
		f, err := g.function(h.Def)
		if err != nil {
			return err
		}
		g.art.Funcs = append(g.art.Funcs, f)
	}
	g.routine = append(g.routine, artifact.Instr{Op: artifact.OpDispatch})
	prog := g.newFrame(nil, heapFrame)
	start := g.resumePoint("start")
	prog.label(start)
	if err := prog.block(tree); err != nil {
		return err
	}
	prog.emit(artifact.Instr{Op: artifact.OpHalt})
	g.routine = append(g.routine, prog.finish()...)
	for _, def := range routines {
		body, err := g.routineFunction(def)
		if err != nil {
			return err
		}
		g.routine = append(g.routine, body...)
	}
	g.art.Next = &artifact.Routine{
		FrameSize: prog.size,
		Resume:    g.resume,
		Body:      g.routine,
	}
	return nil
}

// function compiles an atomic function into a plain function.
func (g *generator) function(def *ast.FunctionDefinition) (*artifact.Func, error) {
	f := g.newFrame(def, localFrame)
	out := &artifact.Func{
		Name:   g.funcName[def.Handle],
		Result: valueType(def.Return),
	}
	for _, param := range def.Params {
		s := f.newSlot(param)
		out.Params = append(out.Params, artifact.Local{Name: s.name, Type: s.typ})
	}
	if err := f.block(def.Block); err != nil {
		return nil, err
	}
	if !endsWithReturn(def.Block) {
		f.returnZero()
	}
	out.Locals = f.locals
	out.Body = f.finish()
	return out, nil
}

// routineFunction compiles a function which may yield into the routine.
func (g *generator) routineFunction(def *ast.FunctionDefinition) ([]artifact.Instr, error) {
	f := g.newFrame(def, heapFrame)
	for _, param := range def.Params {
		f.newSlot(param)
	}
	f.label(g.entry[def.Handle])
	if err := f.block(def.Block); err != nil {
		return nil, err
	}
	if !endsWithReturn(def.Block) {
		f.emit(artifact.Instr{Op: artifact.OpLeave})
	}
	return f.finish(), nil
}

// endsWithReturn returns true if the last statement of a block is a return.
func endsWithReturn(block *ast.Block) bool {
	if len(block.Nodes) == 0 {
		return false
	}
	_, ok := block.Nodes[len(block.Nodes)-1].(*ast.Return)
	return ok
}
