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

// Package sync provides a generic wrapper around sync.Map.
package sync

import "sync"

// Map is a synchronized map from keys of type K to values of type V.
type Map[K comparable, V any] struct {
	m sync.Map
}

// Load returns the value of a key or the zero value of V.
func (sm *Map[K, V]) Load(k K) (v V) {
	vAny, ok := sm.m.Load(k)
	if !ok {
		return
	}
	return vAny.(V)
}

// LoadOrStore returns the existing value of a key if present.
// Otherwise, it stores and returns v.
func (sm *Map[K, V]) LoadOrStore(k K, v V) V {
	actual, _ := sm.m.LoadOrStore(k, v)
	return actual.(V)
}

// Size returns the number of elements in the map. This takes O(n) time.
func (sm *Map[K, V]) Size() (n int) {
	sm.m.Range(func(any, any) bool {
		n++
		return true
	})
	return
}
