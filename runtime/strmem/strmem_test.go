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

package strmem_test

import (
	"errors"
	"testing"

	"github.com/eppabasic/ebc/build/fmterr"
	"github.com/eppabasic/ebc/runtime/strmem"
	"github.com/gx-org/backend/dtype"
	"github.com/nalgeon/be"
)

func newString(t *testing.T, h *strmem.Heap, s string) uint32 {
	t.Helper()
	ptr, err := h.NewString(s)
	be.Err(t, err, nil)
	return ptr
}

func TestStringRoundTrip(t *testing.T) {
	h := strmem.NewHeap(1024, 0)
	for _, s := range []string{"", "a", "hello", "ääkkönen"} {
		ptr := newString(t, h, s)
		be.True(t, ptr != strmem.Null)
		got, err := h.String(ptr)
		be.Err(t, err, nil)
		be.Equal(t, got, s)
	}
}

func TestNullIsEmpty(t *testing.T) {
	h := strmem.NewHeap(256, 0)
	n, err := h.Len(strmem.Null)
	be.Err(t, err, nil)
	be.Equal(t, n, 0)
	eq, err := h.Equals(strmem.Null, newString(t, h, ""))
	be.Err(t, err, nil)
	be.True(t, eq)
}

func TestConcatenate(t *testing.T) {
	h := strmem.NewHeap(1024, 16)
	ab := newString(t, h, "ab")
	cd := newString(t, h, "cd")
	abcd, err := h.Concatenate(ab, cd)
	be.Err(t, err, nil)
	abcd, err = h.Concatenate(abcd, newString(t, h, ""))
	be.Err(t, err, nil)
	got, err := h.String(abcd)
	be.Err(t, err, nil)
	be.Equal(t, got, "abcd")

	// Operands are not modified.
	got, err = h.String(ab)
	be.Err(t, err, nil)
	be.Equal(t, got, "ab")

	withNull, err := h.Concatenate(strmem.Null, cd)
	be.Err(t, err, nil)
	got, err = h.String(withNull)
	be.Err(t, err, nil)
	be.Equal(t, got, "cd")
}

func TestEquals(t *testing.T) {
	h := strmem.NewHeap(1024, 0)
	a := newString(t, h, "abc")
	b := newString(t, h, "abc")
	c := newString(t, h, "abd")
	eq, err := h.Equals(a, b)
	be.Err(t, err, nil)
	be.True(t, eq)
	eq, err = h.Equals(a, c)
	be.Err(t, err, nil)
	be.True(t, !eq)
	neq, err := h.NotEquals(a, c)
	be.Err(t, err, nil)
	be.True(t, neq)
}

func TestFirstCodepoint(t *testing.T) {
	h := strmem.NewHeap(1024, 0)
	tests := []struct {
		s    string
		want int32
	}{
		{s: "", want: -1},
		{s: "A", want: 65},
		{s: "ä", want: 0xe4},
		{s: "€uro", want: 0x20ac},
		{s: "😀", want: 0x1f600},
	}
	for _, test := range tests {
		got, err := h.FirstCodepoint(newString(t, h, test.s))
		be.Err(t, err, nil)
		be.Equal(t, got, test.want)
	}
}

func TestDecodeMalformed(t *testing.T) {
	r, size, warn := strmem.DecodeFirst([]byte{0xc3})
	be.Equal(t, r, int32(0x03))
	be.Equal(t, size, 1)
	be.True(t, warn != nil)
	be.Equal(t, warn.Severity, fmterr.SeverityWarning)
	be.Equal(t, warn.Data["Offset"], any(1))

	_, _, warn = strmem.DecodeFirst([]byte{0xff, 'a'})
	be.True(t, warn != nil)
	be.Equal(t, warn.Key, fmterr.KeyStringDecode)
}

func TestOutOfMemory(t *testing.T) {
	h := strmem.NewHeap(64, 0)
	_, err := h.NewString("this string is much too long to fit in such a tiny heap")
	be.True(t, errors.Is(err, strmem.ErrOutOfMemory))
	h.Reset()
	be.Equal(t, h.Used(), 8)
}

func TestArray(t *testing.T) {
	h := strmem.NewHeap(1024, 0)
	a, err := h.NewArray(dtype.Float64, 2, 3)
	be.Err(t, err, nil)
	first, err := a.ElementAddr(0, 0)
	be.Err(t, err, nil)
	last, err := a.ElementAddr(1, 2)
	be.Err(t, err, nil)
	be.Equal(t, last-first, uint32(5*8))

	loaded, err := h.LoadArray(dtype.Float64, a.Ptr)
	be.Err(t, err, nil)
	be.Equal(t, loaded.Shape.AxisLengths, []int{2, 3})

	_, err = a.ElementAddr(2, 0)
	be.True(t, errors.Is(err, strmem.ErrIndexOutOfRange))
	_, err = a.ElementAddr(0)
	be.True(t, err != nil)
}
