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

// ReferenceExpr binds an lvalue to a reference. The checking pass
// inserts it when a reference parameter or return type requires one;
// it never appears in source.
type ReferenceExpr struct {
	Src token.Pos
	X   Expr

	typ types.Type
}

var _ Expr = (*ReferenceExpr)(nil)

func (*ReferenceExpr) expr() {}

// Pos of the expression in the source.
func (n *ReferenceExpr) Pos() token.Pos { return n.Src }

// Type of the expression: a reference to the operand type.
func (n *ReferenceExpr) Type() types.Type { return n.typ }

// TypeCheck validates that the operand denotes storage.
func (n *ReferenceExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	if !IsLValue(n.X) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot bind %s to a reference: not an lvalue", n.X)
	}
	n.typ = &types.Reference{Target: n.X.Type()}
	return n, true
}

// Optimize folds the operand. The binding itself never folds.
func (n *ReferenceExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	return n, true
}

// Value emits the operand location as the reference value.
func (n *ReferenceExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	lv, ok := n.X.(LValuer)
	if !ok {
		return nil, errors.Errorf("reference operand %s has no storage location", n.X)
	}
	addr, err := lv.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.AddressValue(addr, n.typ), nil
}

// EstimateCost of forming the reference is the operand's address
// computation.
func (n *ReferenceExpr) EstimateCost() int {
	return costSymbol + sumCost(n.X)
}

// String returns the operand form: references are invisible in source.
func (n *ReferenceExpr) String() string { return n.X.String() }

// DereferenceExpr reads through a pointer or a reference.
type DereferenceExpr struct {
	Src token.Pos
	X   Expr

	typ types.Type
}

var (
	_ LValuer      = (*DereferenceExpr)(nil)
	_ baseSymboler = (*DereferenceExpr)(nil)
)

func (*DereferenceExpr) expr() {}

// Pos of the expression in the source.
func (n *DereferenceExpr) Pos() token.Pos { return n.Src }

// Type of the pointed-to value.
func (n *DereferenceExpr) Type() types.Type { return n.typ }

// TypeCheck validates that the operand is a pointer or a reference and
// computes the element type. Dereferencing a varying pointer gathers,
// so the element picks up varying-ness from the pointer.
func (n *DereferenceExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	switch t := n.X.Type().(type) {
	case *types.Pointer:
		n.typ = t.Elem
		if t.Variability() == types.Varying {
			n.typ = n.typ.AsVarying()
		}
	case *types.Reference:
		n.typ = t.Target
	default:
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot dereference type %s", n.X.Type())
	}
	return n, true
}

// Optimize folds the operand.
func (n *DereferenceExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	return n, true
}

// LValue emits the pointed-to location.
func (n *DereferenceExpr) LValue(em codegen.Emitter) (codegen.Address, error) {
	ptr, err := n.X.Value(em)
	if err != nil {
		return nil, err
	}
	return em.Deref(ptr, n.typ), nil
}

// Value loads the pointed-to value.
func (n *DereferenceExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	addr, err := n.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.Load(addr, n.typ), nil
}

func (n *DereferenceExpr) baseSymbol() *types.Symbol { return BaseSymbol(n.X) }

// EstimateCost of the load through the pointer.
func (n *DereferenceExpr) EstimateCost() int {
	return costLoad + sumCost(n.X)
}

// String returns the expression source form.
func (n *DereferenceExpr) String() string {
	return fmt.Sprintf("*%s", n.X)
}

// AddressOfExpr takes the address of an lvalue.
type AddressOfExpr struct {
	Src token.Pos
	X   Expr

	typ types.Type
}

var _ Expr = (*AddressOfExpr)(nil)

func (*AddressOfExpr) expr() {}

// Pos of the expression in the source.
func (n *AddressOfExpr) Pos() token.Pos { return n.Src }

// Type of the expression: a pointer to the operand type.
func (n *AddressOfExpr) Type() types.Type { return n.typ }

// TypeCheck validates that the operand denotes storage. The address of
// storage is a single pointer even when the stored value is varying,
// so the pointer itself is uniform.
func (n *AddressOfExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	if !IsLValue(n.X) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot take the address of %s: not an lvalue", n.X)
	}
	elem := n.X.Type()
	if ref, ok := elem.(*types.Reference); ok {
		elem = ref.Target
	}
	n.typ = &types.Pointer{Elem: elem, Var: types.Uniform}
	return n, true
}

// Optimize folds the operand. The address itself never folds.
func (n *AddressOfExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	return n, true
}

// Value emits the operand location as a pointer value.
func (n *AddressOfExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	lv, ok := n.X.(LValuer)
	if !ok {
		return nil, errors.Errorf("operand of & %s has no storage location", n.X)
	}
	addr, err := lv.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.AddressValue(addr, n.typ), nil
}

// EstimateCost of the address computation and the operand.
func (n *AddressOfExpr) EstimateCost() int {
	return costSymbol + sumCost(n.X)
}

// String returns the expression source form.
func (n *AddressOfExpr) String() string {
	return fmt.Sprintf("&%s", n.X)
}
