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

// Package uname generates names unique within a namespace of the output,
// such as the labels of a routine or the globals of an artifact.
package uname

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Unique generates unique names.
type Unique struct {
	next map[string]int
}

// New returns a generator never generating the reserved names.
func New(reserved ...string) *Unique {
	n := &Unique{next: make(map[string]int)}
	for _, name := range reserved {
		n.Register(name)
	}
	return n
}

// Register marks a name as taken.
func (n *Unique) Register(name string) {
	if _, ok := n.next[name]; !ok {
		n.next[name] = 1
	}
}

// Taken returns true if a name has been generated or registered.
func (n *Unique) Taken(name string) bool {
	_, ok := n.next[name]
	return ok
}

// Name returns root if it is not taken. Otherwise, a counter is appended to root.
// Roots ending with a digit get a '_' before the counter so that
// "a1" followed by a counter never reads like "a" followed by a counter.
func (n *Unique) Name(root string) string {
	if !n.Taken(root) {
		n.next[root] = 1
		return root
	}
	prefix := root
	if last, _ := utf8.DecodeLastRuneInString(root); unicode.IsDigit(last) {
		prefix += "_"
	}
	for i := n.next[root]; ; i++ {
		name := prefix + strconv.Itoa(i)
		if n.Taken(name) {
			continue
		}
		n.next[root] = i + 1
		n.next[name] = 1
		return name
	}
}
