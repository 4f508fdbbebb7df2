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

package token_test

import (
	"testing"

	"github.com/eppabasic/ebc/build/token"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		ident string
		want  token.Kind
	}{
		{ident: "EndFunction", want: token.EndFunction},
		{ident: "REPEAT", want: token.Repeat},
		{ident: "mod", want: token.Mod},
		{ident: "Modulo", want: token.Identifier},
		{ident: "Integer", want: token.Identifier},
	}
	for _, test := range tests {
		if got := token.Lookup(test.ident); got != test.want {
			t.Errorf("Lookup(%q) = %s but want %s", test.ident, got, test.want)
		}
	}
}

func TestStream(t *testing.T) {
	s := token.NewStream([]token.Token{
		{Kind: token.Identifier, Text: "Print", Line: 1},
		{Kind: token.Number, Text: "1", Line: 1},
	})
	if got := s.Peek(2).Kind; got != token.Number {
		t.Errorf("Peek(2) = %s but want %s", got, token.Number)
	}
	if got := s.Advance().Text; got != "Print" {
		t.Errorf("Advance() = %q but want %q", got, "Print")
	}
	s.Advance()
	for range 3 {
		if got := s.Advance().Kind; got != token.EOS {
			t.Errorf("Advance() past the end = %s but want %s", got, token.EOS)
		}
	}
	if got := s.Peek(5).Line; got != 1 {
		t.Errorf("end of stream line = %d but want 1", got)
	}
}
