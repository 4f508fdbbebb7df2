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

package fmterr

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

type (
	// ErrAppender accumulates errors.
	ErrAppender interface {
		// Err returns the accumulator.
		Err() *Appender
	}

	// Errors is an ordered set of errors.
	// Errors are either diagnostics (see [Error]) or internal errors.
	Errors struct {
		errs []error
	}
)

// NewAppender returns a new appender to collect errors.
func (errs *Errors) NewAppender(failFast bool) *Appender {
	return &Appender{errors: errs, failFast: failFast}
}

// Append an error to the list of errors.
// Always returns false so that callers can return the result directly.
func (errs *Errors) Append(err error) bool {
	if err == nil {
		return false
	}
	var all *Errors
	if errors.As(err, &all) && all != errs {
		errs.errs = append(errs.errs, all.errs...)
		return false
	}
	errs.errs = append(errs.errs, err)
	return false
}

// Empty returns true if no error has been declared.
func (errs *Errors) Empty() bool {
	return errs == nil || len(errs.errs) == 0
}

// HasErrors returns true if at least one error is not a warning.
func (errs *Errors) HasErrors() bool {
	if errs == nil {
		return false
	}
	for _, err := range errs.errs {
		var diag *Error
		if errors.As(err, &diag) && diag.IsWarning() {
			continue
		}
		return true
	}
	return false
}

// Errors returns the list of all collected errors.
func (errs *Errors) Errors() []error {
	if errs == nil {
		return nil
	}
	return append([]error{}, errs.errs...)
}

// Diagnostics returns the collected diagnostics, skipping internal errors.
func (errs *Errors) Diagnostics() []*Error {
	if errs == nil {
		return nil
	}
	var diags []*Error
	for _, err := range errs.errs {
		var diag *Error
		if errors.As(err, &diag) {
			diags = append(diags, diag)
		}
	}
	return diags
}

// Err combines all errors that are not warnings into a single error.
// Returns nil if there is no such error.
func (errs *Errors) Err() error {
	if errs == nil {
		return nil
	}
	var combined error
	for _, err := range errs.errs {
		var diag *Error
		if errors.As(err, &diag) && diag.IsWarning() {
			continue
		}
		combined = multierr.Append(combined, err)
	}
	return combined
}

// Error returns the current set of errors as a string.
func (errs *Errors) Error() string {
	var ss []string
	for _, err := range errs.errs {
		ss = append(ss, err.Error())
	}
	return strings.Join(ss, "\n")
}

// Format writes the error into the state of the formatter.
func (errs *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	for _, e := range errs.errs {
		format := fmt.Sprintf("%%%s%s\n", flag, string(verb))
		fmt.Fprintf(s, format, e)
	}
}

// String representation of the error.
func (errs *Errors) String() string {
	return errs.Error()
}

// Appender appends errors to a set and records whether a pass
// must stop at the first error.
type Appender struct {
	errors   *Errors
	failFast bool
}

// Append an error to the list of errors.
// Always returns false.
func (app *Appender) Append(err error) bool {
	return app.errors.Append(err)
}

// AppendInternalf appends an internal error.
func (app *Appender) AppendInternalf(format string, a ...any) bool {
	return app.Append(Internalf(format, a...))
}

// Stop returns true if the appender is in fail fast mode and
// an error has already been appended.
func (app *Appender) Stop() bool {
	return app.failFast && app.errors.HasErrors()
}

// Errors returns the set of errors or nil if no errors has been appended.
func (app *Appender) Errors() *Errors {
	if app.errors.Empty() {
		return nil
	}
	return app.errors
}

// Empty returns true if no errors has been appended.
func (app *Appender) Empty() bool {
	return app.errors.Empty()
}

// String representation of the errors.
func (app *Appender) String() string {
	return app.errors.String()
}
