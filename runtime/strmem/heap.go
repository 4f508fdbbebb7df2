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

// Package strmem implements the layout of strings and arrays in the linear
// memory of a compiled program.
//
// A string is a pointer to a record made of a 4-byte little-endian length
// followed by that many bytes of UTF-8 text. The null pointer is the empty
// string. An array is a pointer to a record made of a 4-byte number of
// dimensions, one 4-byte length per dimension and the elements in row-major
// order.
package strmem

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Null is the null pointer. It denotes the empty string.
const Null uint32 = 0

// headerSize is the size of the length field of a string.
const headerSize = 4

// align is the alignment of all allocations.
const align = 8

// NullPage is the number of bytes reserved at the start of every heap.
const NullPage = align

var (
	// ErrOutOfMemory is returned when the heap has no space left.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrOutOfBounds is returned when accessing memory outside of the heap.
	ErrOutOfBounds = errors.New("access out of the heap bounds")
	// ErrIndexOutOfRange is returned when an array index is outside of the array.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Heap is a linear memory with a bump allocator.
// Memory is never freed while a program runs: Reset frees everything at once.
type Heap struct {
	mem  []byte
	base uint32
	top  uint32
}

// NewHeap returns a heap of a given size. Allocations start at base.
// The first bytes of the heap are reserved so that no allocation
// returns the null pointer.
func NewHeap(size, base int) *Heap {
	if base < NullPage {
		base = NullPage
	}
	h := &Heap{mem: make([]byte, size), base: alignUp(uint32(base))}
	h.top = h.base
	return h
}

func alignUp(n uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// Bytes returns the content of the heap.
func (h *Heap) Bytes() []byte {
	return h.mem
}

// Used returns the address of the next allocation.
func (h *Heap) Used() int {
	return int(h.top)
}

// Reset frees all allocations.
func (h *Heap) Reset() {
	clear(h.mem[h.base:h.top])
	h.top = h.base
}

// Alloc allocates n zeroed bytes and returns their address.
func (h *Heap) Alloc(n int) (uint32, error) {
	if n < 0 {
		return Null, errors.Errorf("cannot allocate %d bytes", n)
	}
	ptr := h.top
	end := uint64(ptr) + uint64(n)
	if end > uint64(len(h.mem)) {
		return Null, errors.Wrapf(ErrOutOfMemory, "cannot allocate %d bytes: %d bytes left", n, len(h.mem)-int(ptr))
	}
	h.top = alignUp(uint32(end))
	if h.top > uint32(len(h.mem)) {
		h.top = uint32(len(h.mem))
	}
	return ptr, nil
}

func (h *Heap) check(addr uint32, n int) error {
	if uint64(addr)+uint64(n) > uint64(len(h.mem)) {
		return errors.Wrapf(ErrOutOfBounds, "access to [%d, %d) in a heap of %d bytes", addr, uint64(addr)+uint64(n), len(h.mem))
	}
	return nil
}

// LoadUint32 reads a 32-bit little-endian integer.
func (h *Heap) LoadUint32(addr uint32) (uint32, error) {
	if err := h.check(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(h.mem[addr:]), nil
}

// StoreUint32 writes a 32-bit little-endian integer.
func (h *Heap) StoreUint32(addr, v uint32) error {
	if err := h.check(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(h.mem[addr:], v)
	return nil
}

// LoadInt32 reads a 32-bit signed integer.
func (h *Heap) LoadInt32(addr uint32) (int32, error) {
	v, err := h.LoadUint32(addr)
	return int32(v), err
}

// StoreInt32 writes a 32-bit signed integer.
func (h *Heap) StoreInt32(addr uint32, v int32) error {
	return h.StoreUint32(addr, uint32(v))
}
