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

	"github.com/pkg/errors"

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// AssignExpr stores a value into an lvalue. Compound forms such as +=
// apply Op between the current value and the right side before the
// store; the plain form sets Compound to false and ignores Op.
type AssignExpr struct {
	Src      token.Pos
	Op       BinaryOp
	Compound bool
	LHS      Expr
	RHS      Expr

	typ types.Type
}

var _ Expr = (*AssignExpr)(nil)

func (*AssignExpr) expr() {}

// Pos of the expression in the source.
func (n *AssignExpr) Pos() token.Pos { return n.Src }

// Type of the expression: the type of the left side.
func (n *AssignExpr) Type() types.Type { return n.typ }

func (n *AssignExpr) opString() string {
	if !n.Compound {
		return "="
	}
	return n.Op.String() + "="
}

// TypeCheck validates that the left side is a mutable lvalue, that the
// compound operator applies to its type, and converts the right side to
// the left side's type.
func (n *AssignExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.LHS) {
		return nil, false
	}
	if !typeCheck(env, &n.RHS) {
		return nil, false
	}
	if !IsLValue(n.LHS) {
		return nil, env.Errs().Appendf(fmterr.StructuralError, n.Src,
			"left side of %s is not an lvalue", n.opString())
	}
	t := n.LHS.Type()
	if ref, ok := t.(*types.Reference); ok {
		t = ref.Target
	}
	if t.IsConst() {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot assign to const type %s", t)
	}
	if n.Compound && !n.compoundApplies(env, t) {
		return nil, false
	}
	rt := t
	if n.Compound && n.Op.isShift() {
		// Shift counts keep their own element kind; only the
		// variability must not exceed the left side's.
		rt = n.RHS.Type()
		if rt.Variability() == types.Varying && t.Variability() == types.Uniform {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"varying shift count in %s of uniform type %s", n.opString(), t)
		}
		if !types.IsInteger(rt) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"shift count must be an integer, not %s", rt)
		}
	} else if n.Compound && t.Kind() == types.PointerKind {
		rt = n.RHS.Type()
		if !types.IsInteger(rt) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot apply %s to %s and %s", n.opString(), t, rt)
		}
	} else {
		var ok bool
		if n.RHS, ok = TypeConvertExpr(env, n.RHS, t, "assignment"); !ok {
			return nil, false
		}
	}
	n.typ = t
	return n, true
}

// compoundApplies checks the operator against the left side type:
// addition and subtraction accept numerics and pointers, the
// multiplicative forms numerics, and the rest integers.
func (n *AssignExpr) compoundApplies(env *Env, t types.Type) bool {
	switch n.Op {
	case Add, Sub:
		if types.IsNumeric(t) || t.Kind() == types.PointerKind {
			return true
		}
	case Mul, Div:
		if types.IsNumeric(t) {
			return true
		}
	default:
		if types.IsInteger(t) {
			return true
		}
	}
	return env.Errs().Appendf(fmterr.TypeError, n.Src,
		"cannot apply %s to type %s", n.opString(), t)
}

// Optimize folds the right side. The store itself never folds.
func (n *AssignExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.LHS) {
		return nil, false
	}
	if !optimize(env, &n.RHS) {
		return nil, false
	}
	return n, true
}

// Value emits the store and yields the stored value.
func (n *AssignExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	lv, ok := n.LHS.(LValuer)
	if !ok {
		return nil, errors.Errorf("left side of %s has no storage location", n.opString())
	}
	addr, err := lv.LValue(em)
	if err != nil {
		return nil, err
	}
	v, err := n.RHS.Value(em)
	if err != nil {
		return nil, err
	}
	if n.Compound {
		old := em.Load(addr, n.typ)
		v = em.Arith(binOpOf(n.Op), old, v, n.typ)
	}
	em.Store(v, addr, n.typ)
	return v, nil
}

// EstimateCost of the store, the compound load if any, and the
// operands.
func (n *AssignExpr) EstimateCost() int {
	own := costAssign
	if n.Compound {
		own += costLoad
	}
	return own + sumCost(n.LHS, n.RHS)
}

// String returns the expression source form.
func (n *AssignExpr) String() string {
	return fmt.Sprintf("%s %s %s", n.LHS, n.opString(), n.RHS)
}
