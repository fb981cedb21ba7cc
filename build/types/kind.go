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

package types

// Kind of a type.
type Kind uint

// Kinds of data supported by Vex.
const (
	Invalid Kind = iota

	Bool
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64

	Void
	EnumKind
	PointerKind
	ArrayKind
	VectorKind
	StructKind
	ReferenceKind
	FunctionKind
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float"
	case Float64:
		return "double"
	case Void:
		return "void"
	case EnumKind:
		return "enum"
	case PointerKind:
		return "pointer"
	case ArrayKind:
		return "array"
	case VectorKind:
		return "vector"
	case StructKind:
		return "struct"
	case ReferenceKind:
		return "reference"
	case FunctionKind:
		return "function"
	}
	return "invalid"
}

// IsIntegerKind returns true if kind is an integer.
func IsIntegerKind(k Kind) bool {
	switch k {
	case Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64:
		return true
	}
	return false
}

// IsUnsignedKind returns true if kind is an unsigned integer.
func IsUnsignedKind(k Kind) bool {
	switch k {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsFloatKind returns true if kind is a floating point kind.
func IsFloatKind(k Kind) bool {
	return k == Float32 || k == Float64
}

// IsNumericKind returns true if kind is an integer or a float.
func IsNumericKind(k Kind) bool {
	return IsIntegerKind(k) || IsFloatKind(k)
}

// Size returns the size of one element of the kind in bytes,
// or 0 if the kind has no fixed element size.
func (k Kind) Size() int {
	switch k {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32, EnumKind:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}
