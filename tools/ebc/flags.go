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
	"flag"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// stringList is a flag holding a list of values.
// The list is given as comma-separated values or by repeating the flag.
// The first value given on the command line replaces the default list.
type stringList struct {
	list    *[]string
	allowed []string
	set     bool
}

func (sl *stringList) String() string {
	if sl.list == nil {
		return ""
	}
	return strings.Join(*sl.list, ",")
}

func (sl *stringList) Set(values string) error {
	if !sl.set {
		*sl.list = nil
		sl.set = true
	}
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if len(sl.allowed) > 0 && !slices.Contains(sl.allowed, value) {
			return errors.Errorf("unknown value %q: want one of %s", value, strings.Join(sl.allowed, ", "))
		}
		if !slices.Contains(*sl.list, value) {
			*sl.list = append(*sl.list, value)
		}
	}
	return nil
}

func stringListVar(fs *flag.FlagSet, name, doc string, defaults []string, allowed ...string) *[]string {
	list := slices.Clone(defaults)
	fs.Var(&stringList{list: &list, allowed: allowed}, name, doc)
	return &list
}

// StringList returns a flag to pass a list of strings from the command line.
// If allowed is not empty, values not in allowed are rejected.
func StringList(name, doc string, defaults []string, allowed ...string) *[]string {
	return stringListVar(flag.CommandLine, name, doc, defaults, allowed...)
}
