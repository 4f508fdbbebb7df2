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

package artifact

import (
	"fmt"
	"strconv"
)

// ValueType is the machine type of a value.
type ValueType int

// Machine types.
const (
	// None is the type of instructions and functions without a value.
	None ValueType = iota
	// I32 is a 32-bit integer. Booleans, strings and arrays are I32.
	I32
	// F64 is a 64-bit float.
	F64
)

// Size returns the number of bytes used to store a value in the heap.
func (t ValueType) Size() int {
	switch t {
	case I32:
		return 4
	case F64:
		return 8
	}
	return 0
}

func (t ValueType) String() string {
	switch t {
	case None:
		return "none"
	case I32:
		return "i32"
	case F64:
		return "f64"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// Op is the operation of an instruction.
type Op string

// Constants and variables.
const (
	OpI32Const Op = "i32.const"
	OpF64Const Op = "f64.const"
	// OpLocalGet pushes the local Name of a function.
	OpLocalGet Op = "local.get"
	OpLocalSet Op = "local.set"
	// OpGlobalGet pushes the global Name.
	OpGlobalGet Op = "global.get"
	OpGlobalSet Op = "global.set"
	// OpFrameGet pushes the slot at offset Int of the current frame.
	OpFrameGet Op = "frame.get"
	OpFrameSet Op = "frame.set"
	// OpLoad pops an address and pushes the value of type Type stored at this address.
	OpLoad Op = "load"
	// OpStore pops a value and an address and stores the value at this address.
	OpStore Op = "store"
	// OpDrop discards the top of the stack.
	OpDrop Op = "drop"
)

// Arithmetic. The type of the operands is given by the prefix.
const (
	OpI32Add  Op = "i32.add"
	OpI32Sub  Op = "i32.sub"
	OpI32Mul  Op = "i32.mul"
	OpI32Div  Op = "i32.div_s"
	OpI32Rem  Op = "i32.rem_s"
	OpI32Eq   Op = "i32.eq"
	OpI32Ne   Op = "i32.ne"
	OpI32Lt   Op = "i32.lt_s"
	OpI32Le   Op = "i32.le_s"
	OpI32Gt   Op = "i32.gt_s"
	OpI32Ge   Op = "i32.ge_s"
	OpI32And  Op = "i32.and"
	OpI32Or   Op = "i32.or"
	OpI32Xor  Op = "i32.xor"
	OpI32Eqz  Op = "i32.eqz"
	OpF64Add  Op = "f64.add"
	OpF64Sub  Op = "f64.sub"
	OpF64Mul  Op = "f64.mul"
	OpF64Div  Op = "f64.div"
	OpF64Neg  Op = "f64.neg"
	OpF64Eq   Op = "f64.eq"
	OpF64Ne   Op = "f64.ne"
	OpF64Lt   Op = "f64.lt"
	OpF64Le   Op = "f64.le"
	OpF64Gt   Op = "f64.gt"
	OpF64Ge   Op = "f64.ge"
	OpConvert Op = "f64.convert_i32_s"
	OpTrunc   Op = "i32.trunc_f64_s"
)

// Control flow.
const (
	// OpLabel marks a branch target called Label.
	OpLabel Op = "label"
	// OpBr jumps to Label.
	OpBr Op = "br"
	// OpBrIf pops a condition and jumps to Label if it is not zero.
	OpBrIf Op = "br_if"
	// OpBrUnless pops a condition and jumps to Label if it is zero.
	OpBrUnless Op = "br_unless"
	// OpCall calls the function Name.
	OpCall Op = "call"
	// OpCallHost calls the import Name.
	OpCallHost Op = "call.host"
	// OpReturn returns from a function.
	OpReturn Op = "return"
)

// Arrays.
const (
	// OpArrayNew pops Int lengths and pushes a new array of items of type Type.
	OpArrayNew Op = "array.new"
	// OpArrayAddr pops an array and Int indices and pushes the address of the element.
	// The indices are checked against the lengths of the array.
	OpArrayAddr Op = "array.addr"
)

// Resumable routine.
const (
	// OpDispatch jumps to the resume point stored by the last yield.
	OpDispatch Op = "dispatch"
	// OpEnter starts a call to the routine function at Label.
	// The frame of the callee starts Int bytes after the current frame.
	// The callee returns to the resume point Name.
	OpEnter Op = "enter"
	// OpLeave returns from a routine function to its caller.
	OpLeave Op = "leave"
	// OpResultSet pops the return value of the current routine function.
	OpResultSet Op = "result.set"
	// OpResultGet pushes the return value of the last callee
	// whose frame started Int bytes after the current frame.
	OpResultGet Op = "result.get"
	// OpYield suspends the routine. The next step resumes at Label.
	OpYield Op = "yield"
	// OpYieldCheck suspends the routine if the host decides that the step
	// has run long enough. The next step resumes at Label.
	OpYieldCheck Op = "yield.check"
	// OpHalt stops the program.
	OpHalt Op = "halt"
)

// Instr is an instruction of a function body.
type Instr struct {
	Op    Op
	Type  ValueType
	Int   int64
	Float float64
	Label string
	Name  string
}

// String returns the text form of the instruction.
func (in Instr) String() string {
	switch in.Op {
	case OpI32Const, OpFrameGet, OpFrameSet:
		s := fmt.Sprintf("%s %d", in.Op, in.Int)
		if in.Type != None {
			s += " " + in.Type.String()
		}
		return s
	case OpF64Const:
		return fmt.Sprintf("%s %s", in.Op, strconv.FormatFloat(in.Float, 'g', -1, 64))
	case OpLabel:
		return in.Label + ":"
	case OpBr, OpBrIf, OpBrUnless, OpYield, OpYieldCheck:
		return fmt.Sprintf("%s %s", in.Op, in.Label)
	case OpLocalGet, OpLocalSet, OpGlobalGet, OpGlobalSet, OpCall, OpCallHost:
		return fmt.Sprintf("%s %s", in.Op, in.Name)
	case OpLoad, OpStore, OpResultSet:
		return fmt.Sprintf("%s %s", in.Op, in.Type)
	case OpResultGet:
		return fmt.Sprintf("%s %d %s", in.Op, in.Int, in.Type)
	case OpArrayNew, OpArrayAddr:
		return fmt.Sprintf("%s %d %s", in.Op, in.Int, in.Type)
	case OpEnter:
		return fmt.Sprintf("%s %s %d %s", in.Op, in.Label, in.Int, in.Name)
	}
	return string(in.Op)
}
