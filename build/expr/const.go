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
	"fmt"
	"go/token"
	"math"
	"strings"

	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// Element is a Go type that can populate a compile-time constant.
type Element interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// ConstExpr is a compile-time constant of an atomic or enumeration
// type. It stores one element for a uniform constant, or one element
// per lane for a varying constant. All elements share one storage
// interpreted through the element kind tag: one canonical 64-bit word
// per element.
type ConstExpr struct {
	Src token.Pos

	typ types.Type
	knd types.Kind
	raw []uint64
}

var _ Expr = (*ConstExpr)(nil)

// NewConst returns a constant of the given type holding vals. One
// value builds a uniform constant; a varying constant takes one value
// per lane of the target.
func NewConst[T Element](typ types.Type, pos token.Pos, vals ...T) *ConstExpr {
	knd := constKind(typ)
	raw := make([]uint64, len(vals))
	for i, v := range vals {
		raw[i] = normalize(knd, encode(v))
	}
	return &ConstExpr{Src: pos, typ: typ, knd: knd, raw: raw}
}

func newConstRaw(typ types.Type, pos token.Pos, raw []uint64) *ConstExpr {
	knd := constKind(typ)
	for i, w := range raw {
		raw[i] = normalize(knd, w)
	}
	return &ConstExpr{Src: pos, typ: typ, knd: knd, raw: raw}
}

// constKind returns the element kind tag used to interpret the storage
// of a constant of a type, or Invalid if the type has no compile-time
// constant representation.
func constKind(typ types.Type) types.Kind {
	switch t := typ.(type) {
	case *types.Atomic:
		return t.Knd
	case *types.Enum:
		// Enumerations store their uint32 element values.
		return types.Uint32
	}
	return types.Invalid
}

// encode a Go value into a canonical word: booleans as 0 or 1, signed
// integers sign-extended, floats widened to float64 bit patterns.
func encode[T Element](v T) uint64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return uint64(int64(x))
	case int16:
		return uint64(int64(x))
	case int32:
		return uint64(int64(x))
	case int64:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case float32:
		return math.Float64bits(float64(x))
	case float64:
		return math.Float64bits(x)
	}
	return 0
}

// normalize a word to the value range of a kind, wrapping integers to
// their width and rounding floats to float32 precision when needed.
func normalize(knd types.Kind, w uint64) uint64 {
	switch knd {
	case types.Bool:
		if w != 0 {
			return 1
		}
		return 0
	case types.Int8:
		return uint64(int64(int8(w)))
	case types.Int16:
		return uint64(int64(int16(w)))
	case types.Int32:
		return uint64(int64(int32(w)))
	case types.Uint8:
		return uint64(uint8(w))
	case types.Uint16:
		return uint64(uint16(w))
	case types.Uint32:
		return uint64(uint32(w))
	case types.Float32:
		return math.Float64bits(float64(float32(math.Float64frombits(w))))
	}
	return w
}

func (*ConstExpr) expr() {}

// Pos of the constant in the source.
func (n *ConstExpr) Pos() token.Pos { return n.Src }

// Type of the constant.
func (n *ConstExpr) Type() types.Type { return n.typ }

// Kind is the element kind tag of the stored values.
func (n *ConstExpr) Kind() types.Kind { return n.knd }

// Count returns the number of stored elements: 1 for a uniform
// constant, the target lane width for a varying one.
func (n *ConstExpr) Count() int { return len(n.raw) }

// IsZero returns true if the constant is integer-kinded and every
// element is zero. A zero literal may stand for a null pointer.
func (n *ConstExpr) IsZero() bool {
	if !types.IsIntegerKind(n.knd) {
		return false
	}
	for _, w := range n.raw {
		if w != 0 {
			return false
		}
	}
	return true
}

// TypeCheck validates the element count against the type variability
// and the target lane width.
func (n *ConstExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.knd == types.Invalid {
		return nil, env.Errs().AppendInternalf(n.Src, "constant of type %s has no compile-time representation", n.typ)
	}
	want := 1
	if n.typ.Variability() == types.Varying {
		want = env.LaneWidth()
	}
	if len(n.raw) != want {
		return nil, env.Errs().AppendInternalf(n.Src, "%s constant holds %d values, want %d", n.typ, len(n.raw), want)
	}
	return n, true
}

// Optimize returns the constant unchanged: it is already fully folded.
func (n *ConstExpr) Optimize(*Env) (Expr, bool) { return n, true }

// Value materializes the constant in the backend.
func (n *ConstExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	return em.Constant(n.typ, n.raw), nil
}

// EstimateCost of a constant is zero.
func (n *ConstExpr) EstimateCost() int { return costConst }

// String returns the constant values.
func (n *ConstExpr) String() string {
	ss := make([]string, len(n.raw))
	for i := range n.raw {
		switch {
		case n.knd == types.Bool:
			ss[i] = fmt.Sprint(n.raw[i] != 0)
		case types.IsFloatKind(n.knd):
			ss[i] = fmt.Sprint(math.Float64frombits(n.raw[i]))
		case types.IsUnsignedKind(n.knd):
			ss[i] = fmt.Sprint(n.raw[i])
		default:
			ss[i] = fmt.Sprint(int64(n.raw[i]))
		}
	}
	if len(ss) == 1 {
		return ss[0]
	}
	return "[" + strings.Join(ss, ",") + "]"
}

// word returns element i as stored.
func (n *ConstExpr) word(i int) uint64 { return n.raw[i] }

// float64At interprets element i as a float64. Booleans are not
// numerically interpretable.
func (n *ConstExpr) float64At(i int) (float64, bool) {
	switch {
	case n.knd == types.Bool:
		return 0, false
	case types.IsFloatKind(n.knd):
		return math.Float64frombits(n.raw[i]), true
	case types.IsUnsignedKind(n.knd):
		return float64(n.raw[i]), true
	default:
		return float64(int64(n.raw[i])), true
	}
}

// int64At interprets element i as an int64, truncating floats toward
// zero.
func (n *ConstExpr) int64At(i int) (int64, bool) {
	switch {
	case n.knd == types.Bool:
		return 0, false
	case types.IsFloatKind(n.knd):
		return int64(math.Float64frombits(n.raw[i])), true
	default:
		return int64(n.raw[i]), true
	}
}

// uint64At interprets element i as a uint64, truncating floats toward
// zero and wrapping negative values.
func (n *ConstExpr) uint64At(i int) (uint64, bool) {
	switch {
	case n.knd == types.Bool:
		return 0, false
	case types.IsFloatKind(n.knd):
		return uint64(int64(math.Float64frombits(n.raw[i]))), true
	default:
		return n.raw[i], true
	}
}

// extract writes converted elements into buf and returns how many were
// written: Count() values, or len(buf) replicated values when a
// forced-varying broadcast of a uniform constant is requested. A zero
// return means the stored kind does not interpret as the requested
// kind.
func extract[T Element](n *ConstExpr, buf []T, forceVarying bool, at func(int) (T, bool)) int {
	c := n.Count()
	if c > len(buf) {
		c = len(buf)
	}
	for i := 0; i < c; i++ {
		v, ok := at(i)
		if !ok {
			return 0
		}
		buf[i] = v
	}
	if forceVarying && n.Count() == 1 {
		for i := 1; i < len(buf); i++ {
			buf[i] = buf[0]
		}
		return len(buf)
	}
	return c
}

// AsBool writes the elements as booleans: a numeric element is true if
// it is not zero.
func (n *ConstExpr) AsBool(buf []bool, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (bool, bool) {
		if types.IsFloatKind(n.knd) {
			// Compare the value, not the bit pattern: -0.0 is false.
			return math.Float64frombits(n.raw[i]) != 0, true
		}
		return n.raw[i] != 0, true
	})
}

// AsInt8 writes the elements as int8 values.
func (n *ConstExpr) AsInt8(buf []int8, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (int8, bool) {
		v, ok := n.int64At(i)
		return int8(v), ok
	})
}

// AsUint8 writes the elements as uint8 values.
func (n *ConstExpr) AsUint8(buf []uint8, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (uint8, bool) {
		v, ok := n.uint64At(i)
		return uint8(v), ok
	})
}

// AsInt16 writes the elements as int16 values.
func (n *ConstExpr) AsInt16(buf []int16, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (int16, bool) {
		v, ok := n.int64At(i)
		return int16(v), ok
	})
}

// AsUint16 writes the elements as uint16 values.
func (n *ConstExpr) AsUint16(buf []uint16, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (uint16, bool) {
		v, ok := n.uint64At(i)
		return uint16(v), ok
	})
}

// AsInt32 writes the elements as int32 values, truncating floats
// toward zero.
func (n *ConstExpr) AsInt32(buf []int32, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (int32, bool) {
		v, ok := n.int64At(i)
		return int32(v), ok
	})
}

// AsUint32 writes the elements as uint32 values.
func (n *ConstExpr) AsUint32(buf []uint32, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (uint32, bool) {
		v, ok := n.uint64At(i)
		return uint32(v), ok
	})
}

// AsInt64 writes the elements as int64 values, truncating floats
// toward zero.
func (n *ConstExpr) AsInt64(buf []int64, forceVarying bool) int {
	return extract(n, buf, forceVarying, n.int64At)
}

// AsUint64 writes the elements as uint64 values.
func (n *ConstExpr) AsUint64(buf []uint64, forceVarying bool) int {
	return extract(n, buf, forceVarying, n.uint64At)
}

// AsFloat32 writes the elements as float32 values. Boolean constants
// are rejected.
func (n *ConstExpr) AsFloat32(buf []float32, forceVarying bool) int {
	return extract(n, buf, forceVarying, func(i int) (float32, bool) {
		v, ok := n.float64At(i)
		return float32(v), ok
	})
}

// AsFloat64 writes the elements as float64 values. Boolean constants
// are rejected.
func (n *ConstExpr) AsFloat64(buf []float64, forceVarying bool) int {
	return extract(n, buf, forceVarying, n.float64At)
}

// convertTo returns a new constant of another atomic or enum type,
// converting the elements with the same rules as run-time casts. The
// target lane width fills in the element count when broadcasting a
// uniform constant to a varying type.
func (n *ConstExpr) convertTo(env *Env, to types.Type) (*ConstExpr, bool) {
	toKnd := constKind(to)
	if toKnd == types.Invalid {
		return nil, false
	}
	count := n.Count()
	force := false
	if to.Variability() == types.Varying && n.typ.Variability() == types.Uniform {
		count = env.LaneWidth()
		force = true
	}
	if toKnd == types.Bool {
		buf := make([]bool, count)
		if n.AsBool(buf, force) == 0 {
			return nil, false
		}
		return NewConst(to, n.Src, buf...), true
	}
	if n.knd == types.Bool && toKnd != types.Bool {
		// Boolean constants convert to integers as 0 or 1 but have no
		// float interpretation.
		if !types.IsIntegerKind(toKnd) {
			return nil, false
		}
		buf := make([]uint64, count)
		c := n.Count()
		for i := 0; i < c; i++ {
			buf[i] = n.raw[i]
		}
		if force {
			for i := 1; i < count; i++ {
				buf[i] = buf[0]
			}
		}
		return newConstRaw(to, n.Src, buf), true
	}
	switch {
	case types.IsFloatKind(toKnd):
		buf := make([]float64, count)
		if n.AsFloat64(buf, force) == 0 {
			return nil, false
		}
		if toKnd == types.Float32 {
			buf32 := make([]float32, count)
			for i, v := range buf {
				buf32[i] = float32(v)
			}
			return NewConst(to, n.Src, buf32...), true
		}
		return NewConst(to, n.Src, buf...), true
	case types.IsUnsignedKind(toKnd):
		buf := make([]uint64, count)
		if n.AsUint64(buf, force) == 0 {
			return nil, false
		}
		raw := make([]uint64, count)
		copy(raw, buf)
		return newConstRaw(to, n.Src, raw), true
	default:
		buf := make([]int64, count)
		if n.AsInt64(buf, force) == 0 {
			return nil, false
		}
		raw := make([]uint64, count)
		for i, v := range buf {
			raw[i] = uint64(v)
		}
		return newConstRaw(to, n.Src, raw), true
	}
}
