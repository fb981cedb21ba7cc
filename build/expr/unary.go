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
	"go/token"
	"math"

	"github.com/pkg/errors"

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// UnaryOp is the operator of a unary expression.
type UnaryOp uint8

// Unary operators.
const (
	PreInc UnaryOp = iota
	PreDec
	PostInc
	PostDec
	Neg
	LogicalNot
	BitNot
)

// String returns the operator as written in the source.
func (op UnaryOp) String() string {
	switch op {
	case PreInc, PostInc:
		return "++"
	case PreDec, PostDec:
		return "--"
	case Neg:
		return "-"
	case LogicalNot:
		return "!"
	}
	return "~"
}

func (op UnaryOp) isIncDec() bool {
	return op <= PostDec
}

// UnaryExpr applies a unary operator to an expression.
type UnaryExpr struct {
	Src token.Pos
	Op  UnaryOp
	X   Expr

	typ types.Type
}

var _ Expr = (*UnaryExpr)(nil)

func (*UnaryExpr) expr() {}

// Pos of the expression in the source.
func (n *UnaryExpr) Pos() token.Pos { return n.Src }

// Type of the expression.
func (n *UnaryExpr) Type() types.Type { return n.typ }

// TypeCheck validates the operand and applies the operator typing
// rule: increment and decrement require an assignable numeric or
// pointer lvalue, negation a numeric operand, bit-not an integer, and
// logical-not coerces its operand to a boolean.
func (n *UnaryExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	t := n.X.Type()
	switch n.Op {
	case PreInc, PreDec, PostInc, PostDec:
		if !IsLValue(n.X) {
			return nil, env.Errs().Appendf(fmterr.StructuralError, n.Src,
				"operand of %s is not an lvalue", n.Op)
		}
		if t.IsConst() {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot apply %s to const type %s", n.Op, t)
		}
		if !types.IsNumeric(t) && t.Kind() != types.PointerKind {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot apply %s to type %s", n.Op, t)
		}
		n.typ = t
	case Neg:
		if !types.IsNumeric(t) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot negate type %s", t)
		}
		n.typ = t
	case BitNot:
		if !types.IsInteger(t) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"operand of %s must be an integer, not %s", n.Op, t)
		}
		n.typ = t
	case LogicalNot:
		want := types.BoolType(t.Variability())
		x, ok := TypeConvertExpr(env, n.X, want, "logical not operand")
		if !ok {
			return nil, false
		}
		n.X = x
		n.typ = want
	default:
		return nil, env.Errs().AppendInternalf(n.Src, "unary operator %d not supported", n.Op)
	}
	return n, true
}

// Optimize folds the operator when the operand is a compile-time
// constant. Increment and decrement are never folded: they mutate
// storage.
func (n *UnaryExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	c, ok := n.X.(*ConstExpr)
	if !ok || n.Op.isIncDec() {
		return n, true
	}
	raw := make([]uint64, c.Count())
	for i := range raw {
		w := c.word(i)
		switch {
		case n.Op == LogicalNot:
			if w == 0 {
				raw[i] = 1
			}
		case n.Op == BitNot:
			raw[i] = ^w
		case types.IsFloatKind(c.Kind()):
			raw[i] = math.Float64bits(-math.Float64frombits(w))
		default:
			raw[i] = uint64(-int64(w))
		}
	}
	return newConstRaw(n.typ, n.Src, raw), true
}

// Value emits the operator. Increment and decrement load the operand
// location, adjust by one, store back, and yield the new value for the
// prefix forms or the original value for the postfix forms.
func (n *UnaryExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	if n.Op.isIncDec() {
		lv, ok := n.X.(LValuer)
		if !ok {
			return nil, errors.Errorf("operand of %s has no storage location", n.Op)
		}
		addr, err := lv.LValue(em)
		if err != nil {
			return nil, err
		}
		old := em.Load(addr, n.typ)
		one := em.Constant(n.typ.AsUniform(), []uint64{oneWord(scalarKind(n.typ))})
		if n.typ.Variability() == types.Varying {
			one = em.Convert(one, n.typ.AsUniform(), n.typ)
		}
		op := codegen.Add
		if n.Op == PreDec || n.Op == PostDec {
			op = codegen.Sub
		}
		nw := em.Arith(op, old, one, n.typ)
		em.Store(nw, addr, n.typ)
		if n.Op == PostInc || n.Op == PostDec {
			return old, nil
		}
		return nw, nil
	}
	x, err := n.X.Value(em)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case Neg:
		return em.Unary(codegen.Neg, x, n.typ), nil
	case LogicalNot:
		return em.Unary(codegen.Not, x, n.typ), nil
	default:
		return em.Unary(codegen.BitNot, x, n.typ), nil
	}
}

// oneWord returns the canonical word for the value one of a kind.
func oneWord(knd types.Kind) uint64 {
	if types.IsFloatKind(knd) {
		return math.Float64bits(1)
	}
	return 1
}

// EstimateCost of the unary operator and its operand.
func (n *UnaryExpr) EstimateCost() int {
	own := costArith
	if n.Op.isIncDec() {
		own += costLoad
	}
	return own + sumCost(n.X)
}

// String returns the expression source form.
func (n *UnaryExpr) String() string {
	if n.Op == PostInc || n.Op == PostDec {
		return n.X.String() + n.Op.String()
	}
	return n.Op.String() + n.X.String()
}
