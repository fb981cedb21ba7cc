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

package expr

import (
	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
)

// CanConvertTypes reports whether a conversion path exists from one
// type to another: numeric widening or narrowing, the uniform to
// varying broadcast, enum to integer, pointer compatibility, and array
// decay. A varying value never converts to a uniform type. The
// predicate is pure; it reports nothing.
func CanConvertTypes(from, to types.Type) bool {
	if from.Equal(to) {
		return true
	}
	// A reference converts as its target does.
	if ref, ok := from.(*types.Reference); ok {
		return CanConvertTypes(ref.Target, to)
	}
	if ref, ok := to.(*types.Reference); ok {
		return from.Equal(ref.Target)
	}
	if from.Variability() == types.Varying && to.Variability() == types.Uniform {
		return false
	}
	if isScalar(from) && isScalar(to) {
		return true
	}
	switch f := from.(type) {
	case *types.Pointer:
		if to.Kind() == types.Bool {
			return true
		}
		t, ok := to.(*types.Pointer)
		if !ok {
			return false
		}
		return pointerElemsCompatible(f.Elem, t.Elem)
	case *types.Array:
		// Arrays decay to a pointer to their element type.
		t, ok := to.(*types.Pointer)
		if !ok {
			return false
		}
		return pointerElemsCompatible(f.Elem, t.Elem)
	case *types.Vector:
		t, ok := to.(*types.Vector)
		if !ok {
			return false
		}
		return f.N == t.N
	}
	return false
}

// isScalar returns true for the types with compile-time constant
// representations: atomics and enumerations. They all interconvert.
func isScalar(t types.Type) bool {
	switch t.(type) {
	case *types.Atomic, *types.Enum:
		return true
	}
	return false
}

// pointerElemsCompatible allows pointers to equal element types, and
// void pointers in both directions.
func pointerElemsCompatible(from, to types.Type) bool {
	if from.Kind() == types.Void || to.Kind() == types.Void {
		return true
	}
	return from.Equal(to)
}

// TypeConvertExpr converts an expression to a type, wrapping it in a
// cast node when a conversion path exists. context names what required
// the conversion, for example "function call argument" or
// "assignment", so diagnostics are locatable. At most one conversion
// step is ever inserted.
func TypeConvertExpr(env *Env, e Expr, to types.Type, context string) (Expr, bool) {
	from := e.Type()
	if from == nil {
		return nil, env.Errs().AppendInternalf(e.Pos(), "converting an unchecked expression for %s", context)
	}
	if from.Equal(to) {
		return e, true
	}
	if !CanConvertTypes(from, to) {
		return nil, env.Errs().Appendf(fmterr.TypeError, e.Pos(),
			"cannot convert %s from type %s to type %s", context, from, to)
	}
	// References are transparent: read through them first.
	if ref, ok := from.(*types.Reference); ok {
		e = &DereferenceExpr{Src: e.Pos(), X: e, typ: ref.Target}
		return TypeConvertExpr(env, e, to, context)
	}
	if ref, ok := to.(*types.Reference); ok {
		if !IsLValue(e) {
			return nil, env.Errs().Appendf(fmterr.TypeError, e.Pos(),
				"cannot bind %s to a reference for %s: not an lvalue", e, context)
		}
		return &ReferenceExpr{Src: e.Pos(), X: e, typ: &types.Reference{Target: ref.Target}}, true
	}
	return &TypeCastExpr{Src: e.Pos(), To: to, X: e, typ: to}, true
}

// numericRank orders the atomic kinds for operand promotion. A higher
// rank absorbs a lower one; unsigned wins over signed at equal width.
func numericRank(k types.Kind) int {
	switch k {
	case types.Bool:
		return 0
	case types.Int8:
		return 1
	case types.Uint8:
		return 2
	case types.Int16:
		return 3
	case types.Uint16:
		return 4
	case types.Int32, types.EnumKind:
		return 5
	case types.Uint32:
		return 6
	case types.Int64:
		return 7
	case types.Uint64:
		return 8
	case types.Float32:
		return 9
	case types.Float64:
		return 10
	}
	return -1
}

// scalarKind maps a scalar type to its element kind, with enumerations
// behaving as their uint32 representation.
func scalarKind(t types.Type) types.Kind {
	if t.Kind() == types.EnumKind {
		return types.Uint32
	}
	return t.Kind()
}

// commonType returns the type two scalar operands promote to: the
// higher-ranked element kind, varying if either operand is varying.
// The second result is false if either operand is not a scalar.
func commonType(x, y types.Type) (types.Type, bool) {
	if !isScalar(x) || !isScalar(y) {
		return nil, false
	}
	kx, ky := scalarKind(x), scalarKind(y)
	knd := kx
	if numericRank(ky) > numericRank(kx) {
		knd = ky
	}
	return &types.Atomic{Knd: knd, Var: x.Variability().Combine(y.Variability())}, true
}
