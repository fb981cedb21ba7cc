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

// Package codegen declares the contract between the expression
// subsystem and the code generation backend.
//
// Expressions emit their run-time values by invoking the primitive
// operations of an Emitter. The handles returned by the backend are
// opaque: the expression subsystem passes them around but never
// inspects them.
package codegen

import "github.com/vexlang/vex/build/types"

type (
	// Value is an opaque handle on a run-time value materialized by
	// the backend.
	Value any

	// Address is an opaque handle on a run-time storage location.
	Address any
)

// BinOp is a primitive arithmetic or bitwise operation.
type BinOp uint8

// Arithmetic and bitwise primitives.
const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	And
	Or
	Xor
)

// String returns the operation mnemonic.
func (op BinOp) String() string {
	return [...]string{"add", "sub", "mul", "div", "mod", "shl", "shr", "and", "or", "xor"}[op]
}

// CmpOp is a primitive comparison.
type CmpOp uint8

// Comparison primitives.
const (
	Eq CmpOp = iota
	Ne
	Lt
	Gt
	Le
	Ge
)

// String returns the comparison mnemonic.
func (op CmpOp) String() string {
	return [...]string{"eq", "ne", "lt", "gt", "le", "ge"}[op]
}

// UnOp is a primitive unary operation.
type UnOp uint8

// Unary primitives.
const (
	Neg UnOp = iota
	Not
	BitNot
)

// String returns the operation mnemonic.
func (op UnOp) String() string {
	return [...]string{"neg", "not", "bitnot"}[op]
}

// Emitter is implemented by the code generation backend. Each method
// appends one primitive operation to the current basic block and
// returns a handle on its result.
type Emitter interface {
	// Constant materializes a compile-time constant. raw holds one
	// canonical 64-bit word per element; its length is 1 for a uniform
	// constant or the target lane width for a varying one.
	Constant(typ types.Type, raw []uint64) Value

	// Null materializes a null pointer of a type.
	Null(typ types.Type) Value

	// SizeOf materializes the size of a type in bytes.
	SizeOf(typ types.Type) Value

	// Convert a value from one type to another, including the
	// uniform to varying broadcast.
	Convert(x Value, from, to types.Type) Value

	// Arith applies an arithmetic or bitwise primitive.
	Arith(op BinOp, x, y Value, typ types.Type) Value

	// Compare two values, producing a boolean of the operand
	// variability.
	Compare(op CmpOp, x, y Value, typ types.Type) Value

	// Unary applies a unary primitive.
	Unary(op UnOp, x Value, typ types.Type) Value

	// Select returns a per-lane choice between two values.
	Select(test, a, b Value, typ types.Type) Value

	// SymbolAddress returns the storage location of a symbol.
	SymbolAddress(sym *types.Symbol) Address

	// ElementAddress returns the location of an indexed element.
	ElementAddress(base Address, index Value, elem types.Type) Address

	// FieldAddress returns the location of a structure field.
	FieldAddress(base Address, field int, typ types.Type) Address

	// Deref turns a pointer value into a storage location.
	Deref(ptr Value, elem types.Type) Address

	// AddressValue turns a storage location into a pointer value.
	AddressValue(addr Address, typ types.Type) Value

	// Load the value stored at a location.
	Load(addr Address, typ types.Type) Value

	// Store a value at a location.
	Store(x Value, addr Address, typ types.Type)

	// Call a function with materialized arguments.
	Call(fn *types.Symbol, args []Value, ret types.Type) Value

	// Launch a task asynchronously, count gangs at a time.
	Launch(fn *types.Symbol, args []Value, count Value) Value

	// Sync waits for all launched tasks.
	Sync() Value

	// Alloc emits a dynamic allocation for count elements of a type.
	// count may be nil for a single element.
	Alloc(typ types.Type, count Value, varying bool) Value

	// Shuffle extracts vector elements by index (swizzles).
	Shuffle(x Value, idx []int, typ types.Type) Value
}
