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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eppabasic/ebc/build/ast"
	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/toolchain"
	"github.com/eppabasic/ebc/build/token"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

const (
	mainPrompt  = "ebc> "
	contPrompt  = "...  "
	historyFile = ".ebc_history"
)

// session accumulates the statements entered in the REPL.
// A statement is kept only if the program still checks with it.
type session struct {
	tc  *toolchain.Toolchain
	cat *fmterr.Catalog
	out io.Writer

	lines   []string
	pending []string
}

func (s *session) prompt() string {
	if len(s.pending) > 0 {
		return contPrompt
	}
	return mainPrompt
}

func (s *session) source(extra []string) string {
	all := slices.Concat(s.lines, extra)
	if len(all) == 0 {
		return ""
	}
	return strings.Join(all, "\n") + "\n"
}

// incomplete returns true if the only problem of a unit is a block
// which has not been closed yet.
func incomplete(u *toolchain.CompilationUnit) bool {
	diags := u.Diagnostics()
	if len(diags) != 1 || diags[0].Key != fmterr.KeySyntax {
		return false
	}
	return diags[0].Data["Found"] == string(token.EOS)
}

// feed processes a line of input and returns false when the session ends.
func (s *session) feed(input string) bool {
	if len(s.pending) == 0 && strings.HasPrefix(strings.TrimSpace(input), ":") {
		return s.command(strings.TrimSpace(input))
	}
	if len(s.pending) == 0 && strings.TrimSpace(input) == "" {
		return true
	}
	s.pending = append(s.pending, input)
	src := s.source(s.pending)
	u, err := s.tc.Parse(src)
	if err != nil && incomplete(u) {
		return true
	}
	if err == nil {
		s.tc.Check(u)
	}
	for _, err := range u.Errors().Errors() {
		var diag *fmterr.Error
		if errors.As(err, &diag) && diag.Line <= len(s.lines) {
			// Reported when the line has been entered.
			continue
		}
		if diag != nil {
			fmt.Fprintln(s.out, s.cat.Render(diag))
		} else {
			fmt.Fprintf(s.out, "%+v\n", err)
		}
	}
	if !u.HasErrors() {
		s.lines = append(s.lines, s.pending...)
	}
	s.pending = nil
	return true
}

func (s *session) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return false
	case ":reset":
		s.lines = nil
	case ":list":
		for i, line := range s.lines {
			fmt.Fprintf(s.out, "%3d %s\n", i+1, line)
		}
	case ":atomic", ":ast", ":compile":
		s.inspect(cmd)
	default:
		fmt.Fprintln(s.out, "commands: :list :ast :atomic :compile :reset :quit")
	}
	return true
}

func (s *session) inspect(cmd string) {
	u, art, err := s.tc.Build(s.source(nil))
	if err != nil {
		fmt.Fprintf(s.out, "%+v\n", err)
		return
	}
	switch cmd {
	case ":ast":
		ast.Fprint(s.out, u.Tree)
	case ":atomic":
		for _, h := range u.Funcs.User() {
			fmt.Fprintf(s.out, "%s %t\n", h, h.Atomic)
		}
	case ":compile":
		fmt.Fprint(s.out, art)
	}
}

// completions returns the keywords and the functions starting with a word.
func (s *session) completions(line string) []string {
	start := strings.LastIndexAny(line, " \t(,") + 1
	prefix, word := line[:start], strings.ToLower(line[start:])
	if word == "" {
		return nil
	}
	names := token.Keywords()
	for _, in := range toolchain.Intrinsics {
		names = append(names, in.Name)
	}
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), word) && !slices.Contains(matches, prefix+name) {
			matches = append(matches, prefix+name)
		}
	}
	slices.Sort(matches)
	return matches
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func (d *driver) repl() error {
	s := &session{tc: d.tc, cat: d.cat, out: d.stdout}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(s.completions)
	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	for {
		input, err := line.Prompt(s.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			s.pending = nil
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(d.stdout)
			break
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !s.feed(input) {
			break
		}
	}
	if history == "" {
		return nil
	}
	f, err := os.Create(history)
	if err != nil {
		return nil
	}
	defer f.Close()
	_, err = line.WriteHistory(f)
	return errors.WithStack(err)
}
