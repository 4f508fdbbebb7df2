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

// Package toolchain runs the passes compiling a program:
// parse, register the intrinsics, check types, check atomicity and
// generate code.
package toolchain

import (
	"fmt"
	"io"
	"time"

	"github.com/eppabasic/ebc/artifact"
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/atomic"
	"github.com/eppabasic/ebc/build/checker"
	"github.com/eppabasic/ebc/build/codegen"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/parser"
	"github.com/eppabasic/ebc/build/scanner"
	"github.com/eppabasic/ebc/build/token"
	"github.com/pkg/errors"
)

type (
	// Option configures a toolchain.
	Option interface {
		apply(*config)
	}

	optionFunc func(*config)

	config struct {
		failFast  bool
		heapSize  int
		stackSize int
		trace     io.Writer
	}
)

func (f optionFunc) apply(cfg *config) {
	f(cfg)
}

// WithFailFast stops a pass at the first error.
func WithFailFast(failFast bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.failFast = failFast
	})
}

// WithHeapSize sets the size in bytes of the memory of compiled programs.
func WithHeapSize(size int) Option {
	return optionFunc(func(cfg *config) {
		cfg.heapSize = size
	})
}

// WithStackSize sets the size in bytes of the frame stack of compiled programs.
// By default, the size of the stack is derived from the size of the heap.
func WithStackSize(size int) Option {
	return optionFunc(func(cfg *config) {
		cfg.stackSize = size
	})
}

// WithTrace writes a line to w at the end of every pass.
func WithTrace(w io.Writer) Option {
	return optionFunc(func(cfg *config) {
		cfg.trace = w
	})
}

// Toolchain compiles programs.
// A toolchain can compile several units concurrently.
type Toolchain struct {
	cfg config
}

// New returns a new toolchain.
func New(opts ...Option) *Toolchain {
	tc := &Toolchain{cfg: config{
		heapSize: codegen.DefaultHeapSize,
	}}
	for _, opt := range opts {
		opt.apply(&tc.cfg)
	}
	return tc
}

// CompilationUnit is a program going through the passes of the toolchain.
type CompilationUnit struct {
	// Tree is the syntax tree of the program or nil if the program could not be parsed.
	Tree *ast.Block
	// Funcs is the table of the intrinsics and of the functions defined by the program.
	Funcs *ast.FunctionTable
	// Scopes are the scopes built by the type checker.
	Scopes *checker.Scopes
	// Atomicity is the result of the atomicity checker.
	Atomicity *atomic.Result

	errs    fmterr.Errors
	checked bool
}

// Diagnostics returns the errors and warnings reported so far.
func (u *CompilationUnit) Diagnostics() []*fmterr.Error {
	return u.errs.Diagnostics()
}

// Errors returns all the errors reported so far, including internal errors.
func (u *CompilationUnit) Errors() *fmterr.Errors {
	return &u.errs
}

// HasErrors returns true if an error prevents code generation.
func (u *CompilationUnit) HasErrors() bool {
	return u.errs.HasErrors()
}

// Err returns the errors reported so far combined or nil.
func (u *CompilationUnit) Err() error {
	return u.errs.Err()
}

func (tc *Toolchain) tracef(start time.Time, pass string, format string, a ...any) {
	if tc.cfg.trace == nil {
		return
	}
	fmt.Fprintf(tc.cfg.trace, "%-8s %-10v %s\n", pass, time.Since(start).Round(time.Microsecond), fmt.Sprintf(format, a...))
}

// Parse scans and parses a program.
// The unit is returned even if the program has a syntax error.
func (tc *Toolchain) Parse(src string) (*CompilationUnit, error) {
	start := time.Now()
	toks, err := scanner.Scan(src)
	if err != nil {
		u := &CompilationUnit{Funcs: Functions()}
		u.errs.Append(err)
		tc.tracef(start, "scan", "error: %v", err)
		return u, u.Err()
	}
	tc.tracef(start, "scan", "%d tokens", len(toks))
	return tc.ParseTokens(token.NewStream(toks))
}

// ParseTokens parses a program from a token source.
func (tc *Toolchain) ParseTokens(src token.Source) (*CompilationUnit, error) {
	start := time.Now()
	u := &CompilationUnit{Funcs: Functions()}
	tree, err := parser.Parse(src)
	if err != nil {
		u.errs.Append(err)
		tc.tracef(start, "parse", "error: %v", err)
		return u, u.Err()
	}
	u.Tree = tree
	tc.tracef(start, "parse", "%d statements", len(tree.Nodes))
	return u, nil
}

// Check resolves the types of a unit and computes which nodes are atomic.
// Checking a unit twice does not change the types resolved the first time.
func (tc *Toolchain) Check(u *CompilationUnit) error {
	if u.Tree == nil {
		return errors.Errorf("cannot check a unit without a syntax tree")
	}
	start := time.Now()
	before := len(u.errs.Diagnostics())
	scopes, ok := checker.Check(u.Tree, u.Funcs, u.errs.NewAppender(tc.cfg.failFast))
	u.Scopes = scopes
	tc.tracef(start, "check", "%d diagnostics, %d scopes", len(u.errs.Diagnostics())-before, scopes.Len())
	if !ok || u.HasErrors() {
		return u.Err()
	}
	start = time.Now()
	res, err := atomic.Check(u.Tree, u.Funcs)
	if err != nil {
		u.errs.Append(err)
		return u.Err()
	}
	u.Atomicity = res
	u.checked = true
	tc.tracef(start, "atomic", "%d functions, %d passes", len(res.Atomic), res.Passes)
	return nil
}

// Compile generates the artifact of a checked unit.
func (tc *Toolchain) Compile(u *CompilationUnit) (*artifact.Artifact, error) {
	if u.HasErrors() {
		return nil, errors.Errorf("cannot compile a unit with errors: %v", u.Err())
	}
	if !u.checked {
		return nil, errors.Errorf("cannot compile a unit which has not been checked")
	}
	start := time.Now()
	art, err := codegen.Generate(u.Tree, u.Funcs, codegen.Options{
		HeapSize:  tc.cfg.heapSize,
		StackSize: tc.cfg.stackSize,
	})
	if err != nil {
		return nil, err
	}
	tc.tracef(start, "codegen", "%d functions, %d imports, %d globals, %d resume points",
		len(art.Funcs), len(art.Imports), len(art.Globals), len(art.Next.Resume))
	return art, nil
}

// Build parses, checks and compiles a program.
// The unit is returned with its diagnostics even if the build fails.
func (tc *Toolchain) Build(src string) (*CompilationUnit, *artifact.Artifact, error) {
	u, err := tc.Parse(src)
	if err != nil {
		return u, nil, err
	}
	if err := tc.Check(u); err != nil {
		return u, nil, err
	}
	art, err := tc.Compile(u)
	return u, art, err
}
