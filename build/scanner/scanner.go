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

// Package scanner splits EppaBasic source code into tokens.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/build/token"
)

// Scanner reads tokens from source code.
type Scanner struct {
	src  string
	pos  int
	line int
}

// New returns a scanner reading the given source.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Scan returns all the tokens of a source, terminated by an end-of-stream token.
func Scan(src string) ([]token.Token, error) {
	s := New(src)
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOS {
			return toks, nil
		}
	}
}

var operators = map[byte]token.Kind{
	'=':  token.Eq,
	'+':  token.Plus,
	'-':  token.Minus,
	'*':  token.Mul,
	'/':  token.Div,
	'\\': token.IntDiv,
	'&':  token.Concat,
	'(':  token.LParen,
	')':  token.RParen,
	'[':  token.LBracket,
	']':  token.RBracket,
	',':  token.Comma,
}

func (s *Scanner) peekByte(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *Scanner) token(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text, Line: s.line}
}

// Next returns the next token.
// After the end of the source, Next keeps returning an end-of-stream token.
func (s *Scanner) Next() (token.Token, error) {
	s.skipSpaces()
	if s.pos >= len(s.src) {
		return s.token(token.EOS, ""), nil
	}
	c := s.src[s.pos]
	switch {
	case c == '\n':
		tok := s.token(token.Newline, "")
		s.pos++
		s.line++
		return tok, nil
	case c == '\'':
		return s.scanComment(), nil
	case c == '"':
		return s.scanString()
	case c >= '0' && c <= '9', c == '.' && isDigit(s.peekByte(1)):
		return s.scanNumber(), nil
	case c == '<':
		switch s.peekByte(1) {
		case '>':
			s.pos += 2
			return s.token(token.Neq, "<>"), nil
		case '=':
			s.pos += 2
			return s.token(token.Lte, "<="), nil
		}
		s.pos++
		return s.token(token.Lt, "<"), nil
	case c == '>':
		if s.peekByte(1) == '=' {
			s.pos += 2
			return s.token(token.Gte, ">="), nil
		}
		s.pos++
		return s.token(token.Gt, ">"), nil
	}
	if kind, ok := operators[c]; ok {
		s.pos++
		return s.token(kind, string(c)), nil
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	if isIdentStart(r) {
		return s.scanIdentifier(), nil
	}
	found := string(r)
	if r == utf8.RuneError && size <= 1 {
		found = "invalid UTF-8"
	}
	return token.Token{}, fmterr.SyntaxError(s.line, "token", found)
}

func (s *Scanner) skipSpaces() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\f', '\v':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) scanComment() token.Token {
	start := s.pos + 1
	end := strings.IndexByte(s.src[start:], '\n')
	if end < 0 {
		end = len(s.src)
	} else {
		end += start
	}
	s.pos = end
	return s.token(token.Comment, strings.TrimRight(s.src[start:end], "\r"))
}

func (s *Scanner) scanString() (token.Token, error) {
	line := s.line
	s.pos++
	var text strings.Builder
	for {
		if s.pos >= len(s.src) || s.src[s.pos] == '\n' {
			return token.Token{}, fmterr.SyntaxError(line, `"`, string(token.Newline))
		}
		c := s.src[s.pos]
		s.pos++
		if c != '"' {
			text.WriteByte(c)
			continue
		}
		if s.peekByte(0) != '"' {
			break
		}
		// Doubled quote.
		text.WriteByte('"')
		s.pos++
	}
	return token.Token{Kind: token.String, Text: text.String(), Line: line}, nil
}

func (s *Scanner) scanNumber() token.Token {
	start := s.pos
	for isDigit(s.peekByte(0)) {
		s.pos++
	}
	if s.peekByte(0) == '.' && isDigit(s.peekByte(1)) {
		s.pos++
		for isDigit(s.peekByte(0)) {
			s.pos++
		}
	}
	return s.token(token.Number, s.src[start:s.pos])
}

func (s *Scanner) scanIdentifier() token.Token {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		s.pos += size
	}
	text := s.src[start:s.pos]
	return s.token(token.Lookup(text), text)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
