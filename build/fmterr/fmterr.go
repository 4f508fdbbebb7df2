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

// Package fmterr provides structured compiler diagnostics and helpers to
// accumulate them while compiling.
//
// A diagnostic never stores a formatted message. It carries a source line,
// a stable message key and structured data so that a presentation layer can
// render it in any locale (see [Catalog]).
package fmterr

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// Severity of a diagnostic.
	Severity int

	// Key identifies a diagnostic message independently of its locale.
	Key string

	// Data is the structured payload of a diagnostic.
	Data map[string]any

	// Error is a diagnostic attached to a line of source code.
	Error struct {
		Line     int
		Key      Key
		Data     Data
		Severity Severity
	}
)

const (
	// SeverityError marks a diagnostic preventing code generation.
	SeverityError Severity = iota
	// SeverityWarning marks a diagnostic reported to the user only.
	SeverityWarning
)

// String representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// New returns a new error-severity diagnostic.
func New(line int, key Key, data Data) *Error {
	return &Error{Line: line, Key: key, Data: data, Severity: SeverityError}
}

// Warning returns a new warning-severity diagnostic.
func Warning(line int, key Key, data Data) *Error {
	return &Error{Line: line, Key: key, Data: data, Severity: SeverityWarning}
}

// Error renders the diagnostic with the English catalog.
func (err *Error) Error() string {
	return English.Render(err)
}

// IsWarning returns true if the diagnostic does not prevent code generation.
func (err *Error) IsWarning() bool {
	return err.Severity == SeverityWarning
}

// Is reports whether target is a diagnostic with the same key.
// It makes errors.Is usable with the sentinel values returned by [Is].
func (err *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Line == 0 && other.Data == nil && other.Key == err.Key
}

// Is returns a sentinel error matching any diagnostic with the given key
// when used with errors.Is.
func Is(key Key) error {
	return &Error{Key: key}
}

// String returns a locale-independent representation of the diagnostic:
// the line, the key and the data sorted by name.
func (err *Error) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%d %s", err.Line, err.Key)
	names := make([]string, 0, len(err.Data))
	for name := range err.Data {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&s, " %s=%v", name, err.Data[name])
	}
	return s.String()
}
