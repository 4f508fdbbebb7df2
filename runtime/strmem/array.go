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

package strmem

import (
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/pkg/errors"
)

// Array is a view of an array record in the heap.
type Array struct {
	Ptr   uint32
	Shape *shape.Shape
}

func (a *Array) headerSize() uint32 {
	return uint32(4 * (1 + len(a.Shape.AxisLengths)))
}

// NewArray allocates a zeroed array of items of a given data type.
func (h *Heap) NewArray(item dtype.DataType, lengths ...int) (*Array, error) {
	if len(lengths) == 0 {
		return nil, errors.Errorf("array of %s has no dimension", item)
	}
	for i, n := range lengths {
		if n < 0 {
			return nil, errors.Errorf("dimension %d of an array has a negative length %d", i, n)
		}
	}
	a := &Array{Shape: &shape.Shape{DType: item, AxisLengths: lengths}}
	size := int(a.headerSize()) + a.Shape.Size()*dtype.Sizeof(item)
	ptr, err := h.Alloc(size)
	if err != nil {
		return nil, err
	}
	a.Ptr = ptr
	h.StoreUint32(ptr, uint32(len(lengths)))
	for i, n := range lengths {
		h.StoreUint32(ptr+4*uint32(i+1), uint32(n))
	}
	return a, nil
}

// LoadArray reads the header of an array record of items of a given data type.
func (h *Heap) LoadArray(item dtype.DataType, ptr uint32) (*Array, error) {
	dims, err := h.LoadUint32(ptr)
	if err != nil {
		return nil, err
	}
	lengths := make([]int, dims)
	for i := range lengths {
		n, err := h.LoadUint32(ptr + 4*uint32(i+1))
		if err != nil {
			return nil, err
		}
		lengths[i] = int(n)
	}
	return &Array{Ptr: ptr, Shape: &shape.Shape{DType: item, AxisLengths: lengths}}, nil
}

// ElementAddr returns the address of an element given its indices.
func (a *Array) ElementAddr(indices ...int) (uint32, error) {
	lengths := a.Shape.AxisLengths
	if len(indices) != len(lengths) {
		return Null, errors.Errorf("array has %d dimensions but got %d indices", len(lengths), len(indices))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= lengths[i] {
			return Null, errors.Wrapf(ErrIndexOutOfRange, "index %d of dimension %d is out of [0, %d)", idx, i, lengths[i])
		}
		offset = offset*lengths[i] + idx
	}
	return a.Ptr + a.headerSize() + uint32(offset*dtype.Sizeof(a.Shape.DType)), nil
}
