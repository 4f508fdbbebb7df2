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

// Package token defines the tokens consumed by the EppaBasic parser.
package token

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind of a token.
type Kind string

// Token kinds.
const (
	EOS        Kind = "eos"
	Newline    Kind = "newline"
	Comment    Kind = "comment"
	Identifier Kind = "identifier"
	Number     Kind = "number"
	String     Kind = "string"

	Eq       Kind = "eq"
	Neq      Kind = "neq"
	Lt       Kind = "lt"
	Lte      Kind = "lte"
	Gt       Kind = "gt"
	Gte      Kind = "gte"
	Plus     Kind = "plus"
	Minus    Kind = "minus"
	Mul      Kind = "mul"
	Div      Kind = "div"
	IntDiv   Kind = "intdiv"
	Concat   Kind = "concat"
	LParen   Kind = "lparen"
	RParen   Kind = "rparen"
	LBracket Kind = "lbracket"
	RBracket Kind = "rbracket"
	Comma    Kind = "comma"

	Dim         Kind = "dim"
	As          Kind = "as"
	For         Kind = "for"
	To          Kind = "to"
	Step        Kind = "step"
	Next        Kind = "next"
	If          Kind = "if"
	Then        Kind = "then"
	Else        Kind = "else"
	ElseIf      Kind = "elseif"
	EndIf       Kind = "endif"
	Repeat      Kind = "repeat"
	Forever     Kind = "forever"
	Until       Kind = "until"
	While       Kind = "while"
	Function    Kind = "function"
	EndFunction Kind = "endfunction"
	Sub         Kind = "sub"
	EndSub      Kind = "endsub"
	Return      Kind = "return"
	And         Kind = "and"
	Or          Kind = "or"
	Xor         Kind = "xor"
	Not         Kind = "not"
	Mod         Kind = "mod"
)

var keywords = map[string]Kind{}

func init() {
	for _, kind := range []Kind{
		Dim, As, For, To, Step, Next,
		If, Then, Else, ElseIf, EndIf,
		Repeat, Forever, Until, While,
		Function, EndFunction, Sub, EndSub, Return,
		And, Or, Xor, Not, Mod,
	} {
		keywords[string(kind)] = kind
	}
}

// Lookup returns the keyword kind of an identifier or Identifier
// if the identifier is not a keyword. Keywords are case-insensitive.
func Lookup(ident string) Kind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return Identifier
}

// Keywords returns the reserved words in lower case, sorted.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// IsKeyword returns true if the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	_, ok := keywords[string(k)]
	return ok
}

// Token is a lexical token.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Number, Comment:
		return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Text, t.Line)
	case String:
		return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Line)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Line)
}

// Source is a stream of tokens with lookahead.
type Source interface {
	// Peek returns the n-th token ahead without consuming it.
	// Peek(1) is the next token.
	Peek(n int) Token
	// Advance consumes and returns the next token.
	Advance() Token
}

// Stream is a Source backed by a slice of tokens.
type Stream struct {
	toks []Token
	pos  int
}

var _ Source = (*Stream)(nil)

// NewStream returns a stream over a list of tokens.
// An end-of-stream token is added if the list does not end with one.
func NewStream(toks []Token) *Stream {
	if len(toks) == 0 || toks[len(toks)-1].Kind != EOS {
		line := 1
		if len(toks) > 0 {
			line = toks[len(toks)-1].Line
		}
		toks = append(append([]Token{}, toks...), Token{Kind: EOS, Line: line})
	}
	return &Stream{toks: toks}
}

// Peek returns the n-th token ahead.
// The end-of-stream token is returned past the end of the stream.
func (s *Stream) Peek(n int) Token {
	i := s.pos + n - 1
	if i < 0 {
		i = 0
	}
	if i >= len(s.toks) {
		i = len(s.toks) - 1
	}
	return s.toks[i]
}

// Advance consumes the next token.
func (s *Stream) Advance() Token {
	tok := s.Peek(1)
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return tok
}
