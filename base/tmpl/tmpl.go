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

// Package tmpl provides helpers to generate text over slices.
package tmpl

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// IterateFunc calls a function on every element of a slice and joins
// the non-empty results with new lines.
func IterateFunc[T any](objs []T, f func(int, T) (string, error)) (string, error) {
	var ss []string
	for i, obj := range objs {
		s, err := f(i, obj)
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		ss = append(ss, s)
	}
	return strings.Join(ss, "\n"), nil
}

// Execute a template and returns its output as a string.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Errorf("cannot execute template %s on %#v: %v", tmpl.Name(), data, err)
	}
	return buf.String(), nil
}

// IterateTmpl executes a template on every element of a slice and joins
// the non-empty results with new lines.
func IterateTmpl[T any](objs []T, tmpl *template.Template) (string, error) {
	return IterateFunc(objs, func(_ int, obj T) (string, error) {
		return Execute(tmpl, obj)
	})
}
