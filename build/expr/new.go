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

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// NullPointerExpr is the written null pointer. Until a conversion gives
// it a concrete pointer type it points at void.
type NullPointerExpr struct {
	Src token.Pos

	typ types.Type
}

var _ Expr = (*NullPointerExpr)(nil)

func (*NullPointerExpr) expr() {}

// Pos of the expression in the source.
func (n *NullPointerExpr) Pos() token.Pos { return n.Src }

// Type of the null pointer.
func (n *NullPointerExpr) Type() types.Type { return n.typ }

// TypeCheck assigns the void pointer type.
func (n *NullPointerExpr) TypeCheck(*Env) (Expr, bool) {
	if n.typ == nil {
		n.typ = &types.Pointer{Elem: types.VoidType{}, Var: types.Uniform}
	}
	return n, true
}

// Optimize returns the node unchanged.
func (n *NullPointerExpr) Optimize(*Env) (Expr, bool) { return n, true }

// Value materializes the null pointer.
func (n *NullPointerExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	return em.Null(n.typ), nil
}

// EstimateCost of a null pointer is zero.
func (n *NullPointerExpr) EstimateCost() int { return costConst }

// String returns the expression source form.
func (n *NullPointerExpr) String() string { return "NULL" }

// NewExpr is a dynamic allocation of one or Count elements of a type.
// A varying allocation reserves storage per lane and yields a varying
// pointer. Init, when not nil, initializes the first element.
type NewExpr struct {
	Src       token.Pos
	Elem      types.Type
	Count     Expr
	Init      Expr
	IsVarying bool

	typ types.Type
}

var _ Expr = (*NewExpr)(nil)

func (*NewExpr) expr() {}

// Pos of the expression in the source.
func (n *NewExpr) Pos() token.Pos { return n.Src }

// Type of the expression: a pointer to the allocated element type.
func (n *NewExpr) Type() types.Type { return n.typ }

// TypeCheck validates the element count and the initializer.
func (n *NewExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if n.Elem == nil || n.Elem.Kind() == types.Void {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot allocate elements of type %v", n.Elem)
	}
	if n.Count != nil {
		if !typeCheck(env, &n.Count) {
			return nil, false
		}
		if !types.IsInteger(n.Count.Type()) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"allocation count must be an integer, not %s", n.Count.Type())
		}
		if n.Count.Type().Variability() == types.Varying && !n.IsVarying {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"varying allocation count in a uniform new")
		}
	}
	if n.Init != nil {
		if !typeCheck(env, &n.Init) {
			return nil, false
		}
		if _, isList := n.Init.(*ExprList); !isList {
			var ok bool
			if n.Init, ok = TypeConvertExpr(env, n.Init, n.Elem, "allocation initializer"); !ok {
				return nil, false
			}
		}
	}
	v := types.Uniform
	if n.IsVarying {
		v = types.Varying
	}
	n.typ = &types.Pointer{Elem: n.Elem, Var: v}
	return n, true
}

// Optimize folds the count and the initializer. The allocation itself
// never folds.
func (n *NewExpr) Optimize(env *Env) (Expr, bool) {
	if n.Count != nil && !optimize(env, &n.Count) {
		return nil, false
	}
	if n.Init != nil && !optimize(env, &n.Init) {
		return nil, false
	}
	return n, true
}

// Value emits the allocation and the initializing store.
func (n *NewExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	var count codegen.Value
	if n.Count != nil {
		var err error
		if count, err = n.Count.Value(em); err != nil {
			return nil, err
		}
	}
	ptr := em.Alloc(n.Elem, count, n.IsVarying)
	if n.Init != nil {
		if _, isList := n.Init.(*ExprList); !isList {
			v, err := n.Init.Value(em)
			if err != nil {
				return nil, err
			}
			em.Store(v, em.Deref(ptr, n.Elem), n.Elem)
		}
	}
	return ptr, nil
}

// EstimateCost of the allocation and its operands.
func (n *NewExpr) EstimateCost() int {
	return costNew + sumCost(n.Count, n.Init)
}

// String returns the expression source form.
func (n *NewExpr) String() string {
	q := "uniform"
	if n.IsVarying {
		q = "varying"
	}
	s := fmt.Sprintf("new %s %s", q, n.Elem)
	if n.Count != nil {
		s += fmt.Sprintf("[%s]", n.Count)
	}
	if n.Init != nil {
		s += fmt.Sprintf("(%s)", n.Init)
	}
	return s
}
