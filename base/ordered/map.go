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

// Package ordered provides ordered data structures.
package ordered

import "strings"

// Map is an ordered map. Iter iterates over the map
// using the same order in which the keys have been added.
type Map[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a key,value pair.
// Returns true if the key was not in the map before.
func (m *Map[K, V]) Store(k K, v V) bool {
	_, in := m.m[k]
	if !in {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
	return !in
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Keys returns an iterator to range over the keys of the map.
func (m *Map[K, V]) Keys() func(func(K) bool) {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				break
			}
		}
	}
}

// Values returns an iterator to range over the values of the map.
func (m *Map[K, V]) Values() func(func(V) bool) {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.m[k]) {
				break
			}
		}
	}
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}

// FoldMap is an ordered map with case-insensitive string keys.
// The first spelling of a key is the one returned when iterating.
type FoldMap[V any] struct {
	spelling map[string]string
	m        *Map[string, V]
}

// NewFoldMap returns a new case-insensitive ordered map.
func NewFoldMap[V any]() *FoldMap[V] {
	return &FoldMap[V]{
		spelling: make(map[string]string),
		m:        NewMap[string, V](),
	}
}

// Store a key,value pair.
// Returns true if no key with the same folded spelling was in the map.
func (m *FoldMap[V]) Store(k string, v V) bool {
	folded := strings.ToLower(k)
	if _, in := m.spelling[folded]; !in {
		m.spelling[folded] = k
	}
	return m.m.Store(folded, v)
}

// StoreNew stores a key,value pair only if no key with the same folded
// spelling is in the map. Returns true if the pair has been stored.
func (m *FoldMap[V]) StoreNew(k string, v V) bool {
	if _, in := m.spelling[strings.ToLower(k)]; in {
		return false
	}
	return m.Store(k, v)
}

// Load returns the value stored with a key, ignoring case.
func (m *FoldMap[V]) Load(k string) (V, bool) {
	return m.m.Load(strings.ToLower(k))
}

// Iter iterates over the entries in insertion order.
func (m *FoldMap[V]) Iter() func(func(string, V) bool) {
	return func(yield func(string, V) bool) {
		for k, v := range m.m.Iter() {
			if !yield(m.spelling[k], v) {
				break
			}
		}
	}
}

// Values iterates over the values in insertion order.
func (m *FoldMap[V]) Values() func(func(V) bool) {
	return m.m.Values()
}

// Size returns the number of elements in the map.
func (m *FoldMap[V]) Size() int {
	return m.m.Size()
}
