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

// Package types defines the Vex type system surface consumed by the
// expression subsystem.
//
// Every value in Vex is either uniform (one instance across the
// parallel execution group) or varying (one instance per lane). A
// uniform value can always be broadcast to its varying counterpart;
// the reverse never happens implicitly.
package types

import (
	"fmt"
	"strings"
)

// Variability distinguishes a single value from a per-lane vector of values.
type Variability uint8

const (
	// Uniform values have exactly one instance across the gang.
	Uniform Variability = iota
	// Varying values have one instance per lane.
	Varying
)

// String returns a string representation of the variability.
func (v Variability) String() string {
	if v == Varying {
		return "varying"
	}
	return "uniform"
}

// Combine returns Varying if either variability is varying.
func (v Variability) Combine(other Variability) Variability {
	if v == Varying || other == Varying {
		return Varying
	}
	return Uniform
}

// Type of a value.
type Type interface {
	// typ marks a structure as a type of this package.
	// It prevents external implementations of the interface so that
	// the set of types stays closed.
	typ()

	// Kind of the type.
	Kind() Kind

	// Variability of the type.
	Variability() Variability

	// Equal returns true if other is the same type.
	Equal(Type) bool

	// IsConst returns true if values of the type cannot be assigned to.
	IsConst() bool

	// AsVarying returns the varying counterpart of the type.
	AsVarying() Type

	// AsUniform returns the uniform counterpart of the type.
	AsUniform() Type

	// String representation of the type.
	String() string
}

type (
	// Atomic is a scalar type: bool, an integer, or a float.
	Atomic struct {
		Knd   Kind
		Var   Variability
		Const bool
	}

	// Enum is an enumeration backed by uint32 values.
	Enum struct {
		Name  string
		Var   Variability
		Const bool
	}

	// Pointer to values of an element type. A varying pointer holds
	// one address per lane.
	Pointer struct {
		Elem  Type
		Var   Variability
		Const bool
	}

	// Array of N elements. N may be 0 for an unsized array.
	Array struct {
		Elem Type
		N    int
	}

	// Vector is a short value vector of N atomic elements, indexable
	// and swizzlable.
	Vector struct {
		Elem *Atomic
		N    int
	}

	// Field of a structure.
	Field struct {
		Name string
		Type Type
	}

	// Struct type with named fields.
	Struct struct {
		Name   string
		Fields []*Field
	}

	// Reference to a value of a target type. References are formed by
	// the compiler, never spelled in the source.
	Reference struct {
		Target Type
	}

	// Function type. Task functions are launchable.
	Function struct {
		Params []Type
		Return Type
		Task   bool
	}

	// VoidType is the type of expressions producing no value.
	VoidType struct{}
)

var (
	_ Type = (*Atomic)(nil)
	_ Type = (*Enum)(nil)
	_ Type = (*Pointer)(nil)
	_ Type = (*Array)(nil)
	_ Type = (*Vector)(nil)
	_ Type = (*Struct)(nil)
	_ Type = (*Reference)(nil)
	_ Type = (*Function)(nil)
	_ Type = VoidType{}
)

// UniformType returns the uniform atomic type of a kind.
func UniformType(k Kind) *Atomic {
	return &Atomic{Knd: k, Var: Uniform}
}

// VaryingType returns the varying atomic type of a kind.
func VaryingType(k Kind) *Atomic {
	return &Atomic{Knd: k, Var: Varying}
}

// BoolType returns the boolean type with a given variability.
func BoolType(v Variability) *Atomic {
	return &Atomic{Knd: Bool, Var: v}
}

func (*Atomic) typ() {}

// Kind of the scalar.
func (t *Atomic) Kind() Kind { return t.Knd }

// Variability of the scalar.
func (t *Atomic) Variability() Variability { return t.Var }

// IsConst returns true if the type is const qualified.
func (t *Atomic) IsConst() bool { return t.Const }

// Equal returns true if other is the same type.
func (t *Atomic) Equal(other Type) bool {
	o, ok := other.(*Atomic)
	if !ok {
		return false
	}
	return t.Knd == o.Knd && t.Var == o.Var
}

// AsVarying returns the varying counterpart of the type.
func (t *Atomic) AsVarying() Type {
	if t.Var == Varying {
		return t
	}
	return &Atomic{Knd: t.Knd, Var: Varying, Const: t.Const}
}

// AsUniform returns the uniform counterpart of the type.
func (t *Atomic) AsUniform() Type {
	if t.Var == Uniform {
		return t
	}
	return &Atomic{Knd: t.Knd, Var: Uniform, Const: t.Const}
}

// String representation of the type.
func (t *Atomic) String() string {
	return t.Var.String() + " " + t.Knd.String()
}

func (*Enum) typ() {}

// Kind of the enumeration.
func (t *Enum) Kind() Kind { return EnumKind }

// Variability of the enumeration.
func (t *Enum) Variability() Variability { return t.Var }

// IsConst returns true if the type is const qualified.
func (t *Enum) IsConst() bool { return t.Const }

// Equal returns true if other is the same enumeration.
func (t *Enum) Equal(other Type) bool {
	o, ok := other.(*Enum)
	if !ok {
		return false
	}
	return t.Name == o.Name && t.Var == o.Var
}

// AsVarying returns the varying counterpart of the type.
func (t *Enum) AsVarying() Type {
	if t.Var == Varying {
		return t
	}
	return &Enum{Name: t.Name, Var: Varying, Const: t.Const}
}

// AsUniform returns the uniform counterpart of the type.
func (t *Enum) AsUniform() Type {
	if t.Var == Uniform {
		return t
	}
	return &Enum{Name: t.Name, Var: Uniform, Const: t.Const}
}

// String representation of the type.
func (t *Enum) String() string {
	return fmt.Sprintf("%s enum %s", t.Var, t.Name)
}

func (*Pointer) typ() {}

// Kind of the pointer.
func (t *Pointer) Kind() Kind { return PointerKind }

// Variability of the pointer itself, not of its element.
func (t *Pointer) Variability() Variability { return t.Var }

// IsConst returns true if the pointer is const qualified.
func (t *Pointer) IsConst() bool { return t.Const }

// Equal returns true if other points to the same element type with the
// same variability.
func (t *Pointer) Equal(other Type) bool {
	o, ok := other.(*Pointer)
	if !ok {
		return false
	}
	return t.Var == o.Var && t.Elem.Equal(o.Elem)
}

// AsVarying returns the varying counterpart of the pointer.
func (t *Pointer) AsVarying() Type {
	if t.Var == Varying {
		return t
	}
	return &Pointer{Elem: t.Elem, Var: Varying, Const: t.Const}
}

// AsUniform returns the uniform counterpart of the pointer.
func (t *Pointer) AsUniform() Type {
	if t.Var == Uniform {
		return t
	}
	return &Pointer{Elem: t.Elem, Var: Uniform, Const: t.Const}
}

// String representation of the type.
func (t *Pointer) String() string {
	return fmt.Sprintf("%s %s *", t.Var, t.Elem)
}

func (*Array) typ() {}

// Kind of the array.
func (t *Array) Kind() Kind { return ArrayKind }

// Variability of the array, which is the variability of its elements.
func (t *Array) Variability() Variability { return t.Elem.Variability() }

// IsConst returns true if the elements are const qualified.
func (t *Array) IsConst() bool { return t.Elem.IsConst() }

// Equal returns true if other is an array of the same size and element type.
func (t *Array) Equal(other Type) bool {
	o, ok := other.(*Array)
	if !ok {
		return false
	}
	return t.N == o.N && t.Elem.Equal(o.Elem)
}

// AsVarying returns the type unchanged: arrays are not broadcast.
func (t *Array) AsVarying() Type { return t }

// AsUniform returns the type unchanged.
func (t *Array) AsUniform() Type { return t }

// String representation of the type.
func (t *Array) String() string {
	return fmt.Sprintf("%s[%d]", t.Elem, t.N)
}

func (*Vector) typ() {}

// Kind of the vector.
func (t *Vector) Kind() Kind { return VectorKind }

// Variability of the vector elements.
func (t *Vector) Variability() Variability { return t.Elem.Var }

// IsConst returns true if the elements are const qualified.
func (t *Vector) IsConst() bool { return t.Elem.Const }

// Equal returns true if other is a vector of the same size and element type.
func (t *Vector) Equal(other Type) bool {
	o, ok := other.(*Vector)
	if !ok {
		return false
	}
	return t.N == o.N && t.Elem.Equal(o.Elem)
}

// AsVarying returns a vector of varying elements.
func (t *Vector) AsVarying() Type {
	if t.Elem.Var == Varying {
		return t
	}
	return &Vector{Elem: t.Elem.AsVarying().(*Atomic), N: t.N}
}

// AsUniform returns a vector of uniform elements.
func (t *Vector) AsUniform() Type {
	if t.Elem.Var == Uniform {
		return t
	}
	return &Vector{Elem: t.Elem.AsUniform().(*Atomic), N: t.N}
}

// String representation of the type.
func (t *Vector) String() string {
	return fmt.Sprintf("%s<%d>", t.Elem, t.N)
}

func (*Struct) typ() {}

// Kind of the structure.
func (t *Struct) Kind() Kind { return StructKind }

// Variability of the structure. Structures themselves are uniform;
// per-lane views are represented by varying pointers to them.
func (t *Struct) Variability() Variability { return Uniform }

// IsConst returns false: const qualification applies to fields.
func (t *Struct) IsConst() bool { return false }

// Equal returns true if other is the same named structure.
func (t *Struct) Equal(other Type) bool {
	o, ok := other.(*Struct)
	if !ok {
		return false
	}
	return t == o || t.Name == o.Name
}

// AsVarying returns the type unchanged.
func (t *Struct) AsVarying() Type { return t }

// AsUniform returns the type unchanged.
func (t *Struct) AsUniform() Type { return t }

// FieldIndex returns the index of a field given its name, or -1 if the
// structure has no such field.
func (t *Struct) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldNames returns the names of all fields of the structure.
func (t *Struct) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// String representation of the type.
func (t *Struct) String() string {
	return "struct " + t.Name
}

func (*Reference) typ() {}

// Kind of the reference.
func (t *Reference) Kind() Kind { return ReferenceKind }

// Variability of the referenced value.
func (t *Reference) Variability() Variability { return t.Target.Variability() }

// IsConst returns true if the referenced value is const qualified.
func (t *Reference) IsConst() bool { return t.Target.IsConst() }

// Equal returns true if other references the same target type.
func (t *Reference) Equal(other Type) bool {
	o, ok := other.(*Reference)
	if !ok {
		return false
	}
	return t.Target.Equal(o.Target)
}

// AsVarying returns a reference to the varying counterpart of the target.
func (t *Reference) AsVarying() Type {
	return &Reference{Target: t.Target.AsVarying()}
}

// AsUniform returns a reference to the uniform counterpart of the target.
func (t *Reference) AsUniform() Type {
	return &Reference{Target: t.Target.AsUniform()}
}

// String representation of the type.
func (t *Reference) String() string {
	return t.Target.String() + " &"
}

func (*Function) typ() {}

// Kind of the function.
func (t *Function) Kind() Kind { return FunctionKind }

// Variability of the function. Functions are uniform values.
func (t *Function) Variability() Variability { return Uniform }

// IsConst returns false.
func (t *Function) IsConst() bool { return false }

// Equal returns true if other has the same signature.
func (t *Function) Equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok {
		return false
	}
	if len(t.Params) != len(o.Params) || t.Task != o.Task {
		return false
	}
	for i, p := range t.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	// A nil Return stands for a function returning nothing.
	if t.Return == nil || o.Return == nil {
		return t.Return == nil && o.Return == nil
	}
	return t.Return.Equal(o.Return)
}

// AsVarying returns the type unchanged.
func (t *Function) AsVarying() Type { return t }

// AsUniform returns the type unchanged.
func (t *Function) AsUniform() Type { return t }

// String representation of the signature.
func (t *Function) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", t.Return, strings.Join(params, ", "))
}

func (VoidType) typ() {}

// Kind of the void type.
func (VoidType) Kind() Kind { return Void }

// Variability of the void type.
func (VoidType) Variability() Variability { return Uniform }

// IsConst returns false.
func (VoidType) IsConst() bool { return false }

// Equal returns true if other is also void.
func (VoidType) Equal(other Type) bool {
	_, ok := other.(VoidType)
	return ok
}

// AsVarying returns the type unchanged.
func (t VoidType) AsVarying() Type { return t }

// AsUniform returns the type unchanged.
func (t VoidType) AsUniform() Type { return t }

// String representation of the type.
func (VoidType) String() string { return "void" }

// Elem returns the element type of a pointer, array, vector, or
// reference, or nil for any other type.
func Elem(t Type) Type {
	switch tt := t.(type) {
	case *Pointer:
		return tt.Elem
	case *Array:
		return tt.Elem
	case *Vector:
		return tt.Elem
	case *Reference:
		return tt.Target
	}
	return nil
}

// IsNumeric returns true if the type is an atomic integer or float, or
// an enumeration.
func IsNumeric(t Type) bool {
	if t.Kind() == EnumKind {
		return true
	}
	return IsNumericKind(t.Kind())
}

// IsInteger returns true if the type is an atomic integer or an enumeration.
func IsInteger(t Type) bool {
	if t.Kind() == EnumKind {
		return true
	}
	return IsIntegerKind(t.Kind())
}

// IsBool returns true if the type is an atomic boolean.
func IsBool(t Type) bool {
	return t.Kind() == Bool
}
