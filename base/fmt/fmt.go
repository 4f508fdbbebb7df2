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

// Package fmt provides utility methods for building string representations
// of programs, diagnostics and artifacts.
package fmt

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Number adds a number prefix to all lines in a string.
func Number(x string) string {
	return NumberFrom(1, x)
}

// NumberFrom adds a number prefix, starting at first, to all lines in a string.
func NumberFrom(first int, x string) string {
	lines := slices.Collect(strings.Lines(x))
	last := first + len(lines) - 1
	numDigits := int(math.Log10(float64(max(last, 1)))) + 1
	fmtString := fmt.Sprintf("%%0%dd %%s", numDigits)
	var s strings.Builder
	for i, line := range lines {
		s.WriteString(fmt.Sprintf(fmtString, first+i, line))
	}
	return s.String()
}

// Line returns the line of a text given its 1-based number,
// or an empty string if the text has no such line.
func Line(x string, n int) string {
	i := 1
	for line := range strings.Lines(x) {
		if i == n {
			return strings.TrimRight(line, "\r\n")
		}
		i++
	}
	return ""
}

// IndentSkip skips some lines and indent the rest with a tabulation.
func IndentSkip(skip int, x string) string {
	var y strings.Builder
	n := 0
	for line := range strings.Lines(x) {
		if n >= skip {
			y.WriteString("\t")
		}
		y.WriteString(line)
		n++
	}
	return y.String()
}

// Indent the given string by a tabulation.
func Indent(x string) string {
	return IndentSkip(0, x)
}
