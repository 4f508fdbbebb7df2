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

// Package artifact defines the compiled form of a program.
//
// An artifact is a flat description of the linear memory of a program and
// of the functions running over it. It declares the host functions it
// imports and exports two entry points:
//
//   - init resets the memory of the program.
//   - next runs the program until it yields or halts. It returns 1 while the
//     program can run and 0 once it has halted.
//
// The main program and the functions which may yield are compiled into a
// single resumable routine, Next. The locals of a routine function are stored
// in a frame of the frame stack instead of machine locals so that they
// survive a yield. A frame starts with a header of FrameHeader bytes: the
// offset of the frame of the caller (i32), the index of the resume point of
// the caller (i32) and the return value (8 bytes). Slots follow the header,
// each of them SlotSize bytes.
package artifact

import (
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// ABI is the version of the interface between artifacts and hosts.
const ABI = "v1.2.0"

// Exported entry points.
const (
	ExportInit = "init"
	ExportNext = "next"
)

// Frame layout of routine functions.
const (
	FrameHeader = 16
	SlotSize    = 8
	// FrameCaller is the offset of the caller frame in the header.
	FrameCaller = 0
	// FrameResume is the offset of the caller resume point in the header.
	FrameResume = 4
	// FrameResult is the offset of the return value in the header.
	FrameResult = 8
)

type (
	// Import is a function provided by the host.
	Import struct {
		Module string
		// Name is unique in the module. It is suffixed with the parameter
		// types when a host function is imported with several signatures.
		Name string
		// Bind is the name of the host function implementing the import.
		Bind   string
		Params []ValueType
		Result ValueType
		// Atomic is false if the program yields after calling the function.
		Atomic bool
		// Source is the signature of the function in the source language.
		Source string
	}

	// Global is a variable of the main program stored in the heap.
	Global struct {
		Name   string
		Type   ValueType
		Offset uint32
	}

	// Segment initializes a section of the heap.
	Segment struct {
		Offset uint32
		Bytes  []byte
	}

	// Local is a parameter or a local variable of a function.
	Local struct {
		Name string
		Type ValueType
	}

	// Func is a function running to completion without yielding.
	Func struct {
		Name   string
		Params []Local
		Result ValueType
		Locals []Local
		Body   []Instr
	}

	// Routine is the resumable routine executed by next.
	Routine struct {
		// FrameSize is the size of the frame of the main program.
		FrameSize int
		// Resume lists the labels where a step can resume.
		// The first resume point is the start of the program.
		Resume []string
		Body   []Instr
	}

	// Artifact is a compiled program.
	Artifact struct {
		ABI string
		// HeapSize is the size of the linear memory in bytes.
		HeapSize int
		// StackBase is the offset of the frame stack.
		StackBase uint32
		// StackSize is the size of the frame stack in bytes.
		StackSize uint32
		// HeapBase is the offset of the first byte available to the allocator.
		HeapBase uint32
		Data     []Segment
		Globals  []Global
		Imports  []*Import
		Funcs    []*Func
		Next     *Routine
		Exports  []string
	}
)

// ID returns the qualified name of the import.
func (imp *Import) ID() string {
	return imp.Module + "." + imp.Name
}

// Import returns an import given its qualified name or nil.
func (a *Artifact) Import(id string) *Import {
	for _, imp := range a.Imports {
		if imp.ID() == id {
			return imp
		}
	}
	return nil
}

// Func returns a function given its name or nil.
func (a *Artifact) Func(name string) *Func {
	for _, f := range a.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global returns a global given its name or nil.
func (a *Artifact) Global(name string) *Global {
	for i := range a.Globals {
		if a.Globals[i].Name == name {
			return &a.Globals[i]
		}
	}
	return nil
}

// CheckABI returns an error if a host implementing the ABI version host
// cannot run the artifact.
func (a *Artifact) CheckABI(host string) error {
	if !semver.IsValid(host) {
		return errors.Errorf("invalid host ABI version %q", host)
	}
	if !semver.IsValid(a.ABI) {
		return errors.Errorf("invalid artifact ABI version %q", a.ABI)
	}
	if semver.Major(host) != semver.Major(a.ABI) {
		return errors.Errorf("host ABI %s is incompatible with artifact ABI %s", host, a.ABI)
	}
	if semver.Compare(host, a.ABI) < 0 {
		return errors.Errorf("host ABI %s is older than artifact ABI %s", host, a.ABI)
	}
	return nil
}

// Validate checks that every reference in the artifact can be resolved.
func (a *Artifact) Validate() error {
	if a.HeapBase > uint32(a.HeapSize) {
		return errors.Errorf("heap base %d is larger than the heap size %d", a.HeapBase, a.HeapSize)
	}
	for _, seg := range a.Data {
		if int(seg.Offset)+len(seg.Bytes) > int(a.StackBase) {
			return errors.Errorf("data segment at %d overlaps the frame stack at %d", seg.Offset, a.StackBase)
		}
	}
	for _, f := range a.Funcs {
		locals := make(map[string]bool)
		for _, l := range slices.Concat(f.Params, f.Locals) {
			locals[l.Name] = true
		}
		if err := a.validateBody(f.Name, f.Body, locals); err != nil {
			return err
		}
	}
	if a.Next == nil {
		return errors.Errorf("artifact has no routine")
	}
	labels := labelsOf(a.Next.Body)
	for _, resume := range a.Next.Resume {
		if !labels[resume] {
			return errors.Errorf("resume point %s is not a label of the routine", resume)
		}
	}
	return a.validateBody(ExportNext, a.Next.Body, nil)
}

func labelsOf(body []Instr) map[string]bool {
	labels := make(map[string]bool)
	for _, in := range body {
		if in.Op == OpLabel {
			labels[in.Label] = true
		}
	}
	return labels
}

func (a *Artifact) validateBody(name string, body []Instr, locals map[string]bool) error {
	labels := labelsOf(body)
	resumes := make(map[string]bool)
	if a.Next != nil {
		for _, r := range a.Next.Resume {
			resumes[r] = true
		}
	}
	for i, in := range body {
		var err error
		switch in.Op {
		case OpBr, OpBrIf, OpBrUnless:
			if !labels[in.Label] {
				err = errors.Errorf("undefined label %s", in.Label)
			}
		case OpYield, OpYieldCheck:
			if !resumes[in.Label] {
				err = errors.Errorf("%s is not a resume point", in.Label)
			}
		case OpEnter:
			if !labels[in.Label] {
				err = errors.Errorf("undefined function label %s", in.Label)
			} else if !resumes[in.Name] {
				err = errors.Errorf("%s is not a resume point", in.Name)
			}
		case OpLocalGet, OpLocalSet:
			if !locals[in.Name] {
				err = errors.Errorf("undefined local %s", in.Name)
			}
		case OpGlobalGet, OpGlobalSet:
			if a.Global(in.Name) == nil {
				err = errors.Errorf("undefined global %s", in.Name)
			}
		case OpCall:
			if a.Func(in.Name) == nil {
				err = errors.Errorf("undefined function %s", in.Name)
			}
		case OpCallHost:
			if a.Import(in.Name) == nil {
				err = errors.Errorf("undefined import %s", in.Name)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "%s: instruction %d (%s)", name, i, in)
		}
	}
	return nil
}
