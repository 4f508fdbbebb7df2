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

package artifact_test

import (
	"strings"
	"testing"

	"github.com/eppabasic/ebc/artifact"
	"github.com/google/go-cmp/cmp"
)

func TestCheckABI(t *testing.T) {
	tests := []struct {
		host string
		ok   bool
	}{
		{host: artifact.ABI, ok: true},
		{host: "v1.9.3", ok: true},
		{host: "v1.1.0", ok: false},
		{host: "v2.0.0", ok: false},
		{host: "1.2.0", ok: false},
	}
	a := &artifact.Artifact{ABI: artifact.ABI}
	for _, test := range tests {
		err := a.CheckABI(test.host)
		if got := err == nil; got != test.ok {
			t.Errorf("CheckABI(%q) = %v but want ok=%v", test.host, err, test.ok)
		}
	}
}

func sample() *artifact.Artifact {
	return &artifact.Artifact{
		ABI:       artifact.ABI,
		HeapSize:  1024,
		StackBase: 32,
		StackSize: 256,
		HeapBase:  288,
		Data:      []artifact.Segment{{Offset: 8, Bytes: []byte("\x02\x00\x00\x00hi")}},
		Globals:   []artifact.Global{{Name: "x", Type: artifact.I32, Offset: 16}},
		Imports: []*artifact.Import{
			{Module: "env", Name: "printStr", Params: []artifact.ValueType{artifact.I32}, Atomic: true, Source: "Print(String)"},
			{Module: "env", Name: "drawScreen", Source: "DrawScreen()"},
		},
		Funcs: []*artifact.Func{{
			Name:   "Twice",
			Params: []artifact.Local{{Name: "n", Type: artifact.I32}},
			Result: artifact.I32,
			Body: []artifact.Instr{
				{Op: artifact.OpLocalGet, Name: "n"},
				{Op: artifact.OpI32Const, Int: 2},
				{Op: artifact.OpI32Mul},
				{Op: artifact.OpReturn},
			},
		}},
		Next: &artifact.Routine{
			FrameSize: artifact.FrameHeader,
			Resume:    []string{"start", "resume1"},
			Body: []artifact.Instr{
				{Op: artifact.OpDispatch},
				{Op: artifact.OpLabel, Label: "start"},
				{Op: artifact.OpI32Const, Int: 8},
				{Op: artifact.OpCallHost, Name: "env.printStr"},
				{Op: artifact.OpCallHost, Name: "env.drawScreen"},
				{Op: artifact.OpYield, Label: "resume1"},
				{Op: artifact.OpLabel, Label: "resume1"},
				{Op: artifact.OpHalt},
			},
		},
		Exports: []string{artifact.ExportInit, artifact.ExportNext},
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Fatalf("%+v", err)
	}
	tests := []struct {
		name   string
		modify func(*artifact.Artifact)
		want   string
	}{
		{
			name: "undefined label",
			modify: func(a *artifact.Artifact) {
				a.Next.Body = append(a.Next.Body, artifact.Instr{Op: artifact.OpBr, Label: "nowhere"})
			},
			want: "undefined label nowhere",
		},
		{
			name: "undefined import",
			modify: func(a *artifact.Artifact) {
				a.Next.Body = append(a.Next.Body, artifact.Instr{Op: artifact.OpCallHost, Name: "env.beep"})
			},
			want: "undefined import env.beep",
		},
		{
			name: "undefined local",
			modify: func(a *artifact.Artifact) {
				a.Funcs[0].Body[0].Name = "m"
			},
			want: "undefined local m",
		},
		{
			name: "yield to a label which is not a resume point",
			modify: func(a *artifact.Artifact) {
				a.Next.Body[5].Label = "start2"
				a.Next.Body = append(a.Next.Body, artifact.Instr{Op: artifact.OpLabel, Label: "start2"})
			},
			want: "start2 is not a resume point",
		},
		{
			name: "overlapping data",
			modify: func(a *artifact.Artifact) {
				a.Data[0].Offset = 30
			},
			want: "overlaps the frame stack",
		},
	}
	for _, test := range tests {
		a := sample()
		test.modify(a)
		err := a.Validate()
		if err == nil {
			t.Errorf("%s: no error", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got error %q but want it to contain %q", test.name, err.Error(), test.want)
		}
	}
}

func TestText(t *testing.T) {
	got, err := sample().Text()
	if err != nil {
		t.Fatal(err)
	}
	want := `abi v1.2.0
heap 1024 stack 32+256 base 288
export init next
data @8 "\x02\x00\x00\x00hi"
import env.printStr(i32) ; Print(String)
import env.drawScreen() yields ; DrawScreen()
global x i32 @16
func Twice(n i32) i32
	local.get n
	i32.const 2
	i32.mul
	return
routine frame 16 resume start resume1
	dispatch
start:
	i32.const 8
	call.host env.printStr
	call.host env.drawScreen
	yield resume1
resume1:
	halt`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
}

func TestInstrString(t *testing.T) {
	tests := []struct {
		in   artifact.Instr
		want string
	}{
		{in: artifact.Instr{Op: artifact.OpF64Const, Float: 0.5}, want: "f64.const 0.5"},
		{in: artifact.Instr{Op: artifact.OpFrameSet, Int: 24, Type: artifact.F64}, want: "frame.set 24 f64"},
		{in: artifact.Instr{Op: artifact.OpEnter, Label: "F", Int: 40, Name: "resume3"}, want: "enter F 40 resume3"},
		{in: artifact.Instr{Op: artifact.OpArrayAddr, Int: 2, Type: artifact.F64}, want: "array.addr 2 f64"},
		{in: artifact.Instr{Op: artifact.OpConvert}, want: "f64.convert_i32_s"},
	}
	for _, test := range tests {
		if got := test.in.String(); got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}
