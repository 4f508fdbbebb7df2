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
	"bytes"
	"math"

	"github.com/eppabasic/ebc/build/fmterr"
)

// Len returns the length in bytes of a string.
func (h *Heap) Len(s uint32) (int, error) {
	if s == Null {
		return 0, nil
	}
	n, err := h.LoadUint32(s)
	if err != nil {
		return 0, err
	}
	if err := h.check(s+headerSize, int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Data returns the bytes of a string without copying them.
func (h *Heap) Data(s uint32) ([]byte, error) {
	n, err := h.Len(s)
	if err != nil || n == 0 {
		return nil, err
	}
	start := s + headerSize
	return h.mem[start : start+uint32(n)], nil
}

// NewString allocates a string record holding a Go string.
func (h *Heap) NewString(text string) (uint32, error) {
	if len(text) > math.MaxUint32-headerSize {
		return Null, ErrOutOfMemory
	}
	ptr, err := h.Alloc(headerSize + len(text))
	if err != nil {
		return Null, err
	}
	h.StoreUint32(ptr, uint32(len(text)))
	copy(h.mem[ptr+headerSize:], text)
	return ptr, nil
}

// String returns a copy of a string as a Go string.
func (h *Heap) String(s uint32) (string, error) {
	data, err := h.Data(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Concatenate allocates a new string with the bytes of a followed by the bytes of b.
// Neither a nor b are modified.
func (h *Heap) Concatenate(a, b uint32) (uint32, error) {
	aLen, err := h.Len(a)
	if err != nil {
		return Null, err
	}
	bLen, err := h.Len(b)
	if err != nil {
		return Null, err
	}
	ptr, err := h.Alloc(headerSize + aLen + bLen)
	if err != nil {
		return Null, err
	}
	h.StoreUint32(ptr, uint32(aLen+bLen))
	dst := ptr + headerSize
	if aLen > 0 {
		copy(h.mem[dst:], h.mem[a+headerSize:a+headerSize+uint32(aLen)])
	}
	if bLen > 0 {
		copy(h.mem[dst+uint32(aLen):], h.mem[b+headerSize:b+headerSize+uint32(bLen)])
	}
	return ptr, nil
}

// Equals returns true if two strings have the same bytes.
// The null pointer is equal to any empty string.
func (h *Heap) Equals(a, b uint32) (bool, error) {
	aData, err := h.Data(a)
	if err != nil {
		return false, err
	}
	bData, err := h.Data(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(aData, bData), nil
}

// NotEquals is the complement of Equals.
func (h *Heap) NotEquals(a, b uint32) (bool, error) {
	eq, err := h.Equals(a, b)
	return !eq, err
}

// FirstCodepoint returns the first codepoint of a string or -1 if the string is empty.
// Malformed text is decoded on a best-effort basis and reported with a warning.
func (h *Heap) FirstCodepoint(s uint32) (int32, error) {
	data, err := h.Data(s)
	if err != nil {
		return -1, err
	}
	if len(data) == 0 {
		return -1, nil
	}
	r, _, warn := DecodeFirst(data)
	if warn != nil {
		warn.Data["Offset"] = int(s) + headerSize + warn.Data["Offset"].(int)
		return r, warn
	}
	return r, nil
}

// DecodeFirst decodes the first UTF-8 sequence of a non-empty slice.
//
// The number of bytes of the sequence is read from the leading byte. Missing
// or malformed continuation bytes stop the decoding: the bits read so far
// are returned with a warning. The warning offset is relative to data.
func DecodeFirst(data []byte) (r int32, size int, warn *fmterr.Error) {
	lead := data[0]
	switch {
	case lead < 0x80:
		return int32(lead), 1, nil
	case lead&0xe0 == 0xc0:
		r, size = int32(lead&0x1f), 2
	case lead&0xf0 == 0xe0:
		r, size = int32(lead&0x0f), 3
	case lead&0xf8 == 0xf0:
		r, size = int32(lead&0x07), 4
	default:
		return int32(lead), 1, fmterr.RuntimeStringDecodeError(0, lead)
	}
	for i := 1; i < size; i++ {
		if i >= len(data) || data[i]&0xc0 != 0x80 {
			var b byte
			if i < len(data) {
				b = data[i]
			}
			return r, i, fmterr.RuntimeStringDecodeError(i, b)
		}
		r = r<<6 | int32(data[i]&0x3f)
	}
	return r, size, nil
}
