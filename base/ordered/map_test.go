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

package ordered_test

import (
	"testing"

	"github.com/eppabasic/ebc/base/ordered"
	"github.com/google/go-cmp/cmp"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			want: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		i := 0
		for gotK, gotV := range m.Iter() {
			wantK, wantV := test.want[i].k, test.want[i].v
			if gotK != wantK || gotV != wantV {
				t.Errorf("test %d entry %d: got %s->%d but want %s->%d", ti, i, gotK, gotV, wantK, wantV)
			}
			i++
		}
	}
}

func TestFoldMap(t *testing.T) {
	m := ordered.NewFoldMap[int]()
	if !m.Store("Score", 1) {
		t.Errorf("first store of Score reported an existing key")
	}
	if m.Store("SCORE", 2) {
		t.Errorf("store of SCORE did not find Score")
	}
	m.Store("lives", 3)
	if v, ok := m.Load("score"); !ok || v != 2 {
		t.Errorf("Load(score) = %d, %v but want 2, true", v, ok)
	}
	var got []string
	for k := range m.Iter() {
		got = append(got, k)
	}
	want := []string{"Score", "lives"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected key order (-want +got):\n%s", diff)
	}
}

func TestFoldMapStoreNew(t *testing.T) {
	m := ordered.NewFoldMap[int]()
	if !m.StoreNew("Score", 1) {
		t.Errorf("first store of Score reported an existing key")
	}
	if m.StoreNew("SCORE", 2) {
		t.Errorf("store of SCORE did not find Score")
	}
	if v, _ := m.Load("score"); v != 1 {
		t.Errorf("Load(score) = %d but want the first value 1", v)
	}
	if got := m.Size(); got != 1 {
		t.Errorf("got size %d but want 1", got)
	}
}
