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

package main

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/toolchain"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestStringList(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	list := stringListVar(fs, "emit", "", []string{"artifact"}, "artifact", "imports", "ast")
	if diff := cmp.Diff(*list, []string{"artifact"}); diff != "" {
		t.Errorf("wrong default:\n%s", diff)
	}
	if err := fs.Parse([]string{"-emit=ast, imports", "-emit", "ast"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*list, []string{"ast", "imports"}); diff != "" {
		t.Errorf("wrong list:\n%s", diff)
	}
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	stringListVar(fs, "emit", "", nil, "artifact")
	if err := fs.Parse([]string{"-emit=wasm"}); err == nil {
		t.Errorf("unknown value has been accepted")
	}
}

func newDriver() (*driver, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &driver{
		tc:     toolchain.New(toolchain.WithHeapSize(1 << 16)),
		cat:    fmterr.English,
		stdout: &stdout,
		stderr: &stderr,
	}, &stdout, &stderr
}

func TestCheck(t *testing.T) {
	d, _, stderr := newDriver()
	err := d.check("dim x = 1\nPrint y\n")
	if !errors.Is(err, errDiagnostics) {
		t.Errorf("got error %v but want %v", err, errDiagnostics)
	}
	want := "line 2: no variable called \"y\" exists in scope\n\t2 Print y\n"
	if got := stderr.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestCheckLocale(t *testing.T) {
	d, _, stderr := newDriver()
	d.cat = fmterr.Finnish
	d.check("Print y\n")
	want := "rivi 1: muuttujaa \"y\" ei ole määritelty\n\t1 Print y\n"
	if got := stderr.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestCompile(t *testing.T) {
	defer func(saved []string) { *emit = saved }(*emit)
	*emit = []string{emitImports}
	d, stdout, stderr := newDriver()
	if err := d.compile("Print 1\n"); err != nil {
		t.Fatalf("%+v\n%s", err, stderr)
	}
	if !strings.Contains(stdout.String(), "env.printInt\tPrint(Integer)\n") {
		t.Errorf("imports do not contain Print(Integer):\n%s", stdout)
	}

	*emit = []string{emitArtifact}
	stdout.Reset()
	if err := d.compile("Print 1\n"); err != nil {
		t.Fatalf("%+v\n%s", err, stderr)
	}
	if !strings.Contains(stdout.String(), "call.host env.printInt") {
		t.Errorf("artifact does not call env.printInt:\n%s", stdout)
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := &session{tc: toolchain.New(), cat: fmterr.English, out: &out}
	for _, line := range []string{"dim n = 1", "if n > 0 then"} {
		if !s.feed(line) {
			t.Fatalf("session ended on %q", line)
		}
	}
	if got := s.prompt(); got != contPrompt {
		t.Errorf("got prompt %q but want %q", got, contPrompt)
	}
	s.feed("  Print n")
	s.feed("endif")
	if got := s.prompt(); got != mainPrompt {
		t.Errorf("got prompt %q but want %q", got, mainPrompt)
	}
	if out.Len() > 0 {
		t.Errorf("unexpected output:\n%s", &out)
	}
	s.feed("Print m")
	if want := "line 5: no variable called \"m\" exists in scope\n"; out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", &out, want)
	}
	out.Reset()
	s.feed(":list")
	want := "  1 dim n = 1\n  2 if n > 0 then\n  3   Print n\n  4 endif\n"
	if diff := cmp.Diff(out.String(), want); diff != "" {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", &out, want, diff)
	}
	if s.feed(":quit") {
		t.Errorf("session did not end on :quit")
	}
}

func TestCompletions(t *testing.T) {
	s := &session{}
	if diff := cmp.Diff(s.completions("Print Sq"), []string{"Print Sqr"}); diff != "" {
		t.Errorf("wrong completions:\n%s", diff)
	}
	if diff := cmp.Diff(s.completions("endf"), []string{"endfunction"}); diff != "" {
		t.Errorf("wrong completions:\n%s", diff)
	}
	if got := s.completions("Print "); got != nil {
		t.Errorf("got completions %v for an empty word", got)
	}
}
