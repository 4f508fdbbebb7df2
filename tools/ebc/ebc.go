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

// Command ebc checks and compiles EppaBasic programs.
//
// Usage:
//
//	ebc [flags] check file.bas
//	ebc [flags] compile file.bas
//	ebc [flags] ast file.bas
//	ebc [flags] repl
package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/eppabasic/ebc/artifact"
	basefmt "github.com/eppabasic/ebc/base/fmt"
	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/codegen"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/toolchain"
	"github.com/pkg/errors"
)

// Outputs of the compile command.
const (
	emitArtifact = "artifact"
	emitImports  = "imports"
	emitAST      = "ast"
)

var (
	locale    = flag.String("locale", "en", "language of the diagnostics")
	heapSize  = flag.Int("heap", codegen.DefaultHeapSize, "size in bytes of the heap of compiled programs")
	stackSize = flag.Int("stack", 0, "size in bytes of the frame stack of compiled programs (0: a quarter of the heap, at most 64 KiB)")
	failFast  = flag.Bool("fail_fast", false, "stop checking at the first error")
	trace     = flag.Bool("trace", false, "print the duration of every pass on the standard error")
	printAST  = flag.Bool("ast", false, "print the syntax tree of checked programs")
	output    = flag.String("o", "", "file where compile writes its output (default to the standard output)")
	emit      = StringList("emit", "comma-separated outputs of compile: artifact, imports or ast",
		[]string{emitArtifact}, emitArtifact, emitImports, emitAST)
)

// errDiagnostics is returned when the diagnostics of a program have been reported.
var errDiagnostics = errors.New("program has errors")

func exit(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: ebc [flags] <command> [file.bas]

commands:
  check    check a program and report its diagnostics
  compile  compile a program into an artifact
  ast      print the syntax tree of a program
  repl     check statements interactively

flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	cat, ok := fmterr.Catalogs[*locale]
	if !ok {
		exit("unknown locale %q: available locales are %v", *locale, slices.Sorted(maps.Keys(fmterr.Catalogs)))
	}
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	d := &driver{
		tc:     toolchain.New(options()...),
		cat:    cat,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	err := d.run(flag.Arg(0), flag.Args()[1:])
	switch {
	case errors.Is(err, errDiagnostics):
		os.Exit(1)
	case err != nil:
		exit("%+v", err)
	}
}

func options() []toolchain.Option {
	opts := []toolchain.Option{
		toolchain.WithFailFast(*failFast),
		toolchain.WithHeapSize(*heapSize),
		toolchain.WithStackSize(*stackSize),
	}
	if *trace {
		opts = append(opts, toolchain.WithTrace(os.Stderr))
	}
	return opts
}

type driver struct {
	tc     *toolchain.Toolchain
	cat    *fmterr.Catalog
	stdout io.Writer
	stderr io.Writer
}

func (d *driver) run(cmd string, args []string) error {
	if cmd == "repl" {
		return d.repl()
	}
	if len(args) != 1 {
		return errors.Errorf("command %s requires one source file", cmd)
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return errors.WithStack(err)
	}
	switch cmd {
	case "check":
		return d.check(string(src))
	case "compile":
		return d.compile(string(src))
	case "ast":
		return d.printTree(string(src))
	}
	return errors.Errorf("unknown command %q", cmd)
}

// report prints the errors of a unit with the source line where they occur.
func (d *driver) report(src string, errs []error) {
	for _, err := range errs {
		var diag *fmterr.Error
		if !errors.As(err, &diag) {
			fmt.Fprintf(d.stderr, "%+v\n", err)
			continue
		}
		fmt.Fprintln(d.stderr, d.cat.Render(diag))
		if line := basefmt.Line(src, diag.Line); line != "" {
			fmt.Fprint(d.stderr, basefmt.Indent(basefmt.NumberFrom(diag.Line, line+"\n")))
		}
	}
}

func (d *driver) check(src string) error {
	u, err := d.tc.Parse(src)
	if err == nil {
		d.tc.Check(u)
	}
	d.report(src, u.Errors().Errors())
	if *printAST && u.Tree != nil {
		if err := ast.Fprint(d.stdout, u.Tree); err != nil {
			return errors.WithStack(err)
		}
	}
	if u.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func (d *driver) compile(src string) (err error) {
	u, art, buildErr := d.tc.Build(src)
	d.report(src, u.Errors().Errors())
	if u.HasErrors() {
		return errDiagnostics
	}
	if buildErr != nil {
		return buildErr
	}
	w := d.stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.WithStack(err)
		}
		defer func() {
			if cErr := f.Close(); err == nil {
				err = cErr
			}
		}()
		w = f
	}
	return d.write(w, u, art)
}

func (d *driver) write(w io.Writer, u *toolchain.CompilationUnit, art *artifact.Artifact) error {
	for _, out := range *emit {
		switch out {
		case emitArtifact:
			text, err := art.Text()
			if err != nil {
				return err
			}
			fmt.Fprint(w, text)
		case emitImports:
			for _, imp := range art.Imports {
				fmt.Fprintf(w, "%s\t%s\n", imp.ID(), imp.Source)
			}
		case emitAST:
			if err := ast.Fprint(w, u.Tree); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	return nil
}

func (d *driver) printTree(src string) error {
	u, _ := d.tc.Parse(src)
	d.report(src, u.Errors().Errors())
	if u.Tree == nil {
		return errDiagnostics
	}
	if err := ast.Fprint(d.stdout, u.Tree); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
