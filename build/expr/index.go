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

// IndexExpr accesses one element of an array, pointer, or vector. A
// varying index gathers, so the element type picks up varying-ness
// from either the base or the index.
type IndexExpr struct {
	Src   token.Pos
	Base  Expr
	Index Expr

	typ types.Type
}

var (
	_ LValuer      = (*IndexExpr)(nil)
	_ baseSymboler = (*IndexExpr)(nil)
)

func (*IndexExpr) expr() {}

// Pos of the expression in the source.
func (n *IndexExpr) Pos() token.Pos { return n.Src }

// Type of the accessed element.
func (n *IndexExpr) Type() types.Type { return n.typ }

// TypeCheck validates that the base is indexable and the index an
// integer, and computes the element type.
func (n *IndexExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.Base) {
		return nil, false
	}
	if !typeCheck(env, &n.Index) {
		return nil, false
	}
	if !types.IsInteger(n.Index.Type()) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"index must be an integer, not %s", n.Index.Type())
	}
	bt := n.Base.Type()
	if ref, ok := bt.(*types.Reference); ok {
		bt = ref.Target
	}
	elem := types.Elem(bt)
	if elem == nil {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"type %s cannot be indexed", bt)
	}
	if bt.Variability() == types.Varying || n.Index.Type().Variability() == types.Varying {
		elem = elem.AsVarying()
	}
	n.typ = elem
	return n, true
}

// Optimize folds the base and the index.
func (n *IndexExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.Base) {
		return nil, false
	}
	if !optimize(env, &n.Index) {
		return nil, false
	}
	return n, true
}

// LValue emits the element location: the base location or the
// dereferenced base pointer, offset by the index.
func (n *IndexExpr) LValue(em codegen.Emitter) (codegen.Address, error) {
	idx, err := n.Index.Value(em)
	if err != nil {
		return nil, err
	}
	bt := n.Base.Type()
	if ref, ok := bt.(*types.Reference); ok {
		bt = ref.Target
	}
	if bt.Kind() == types.PointerKind {
		ptr, err := n.Base.Value(em)
		if err != nil {
			return nil, err
		}
		return em.ElementAddress(em.Deref(ptr, n.typ), idx, n.typ), nil
	}
	base, ok := n.Base.(LValuer)
	if !ok {
		return nil, errors.Errorf("indexed expression %s has no storage location", n.Base)
	}
	addr, err := base.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.ElementAddress(addr, idx, n.typ), nil
}

// Value loads the accessed element.
func (n *IndexExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	addr, err := n.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.Load(addr, n.typ), nil
}

func (n *IndexExpr) baseSymbol() *types.Symbol { return BaseSymbol(n.Base) }

// EstimateCost of the element load and the operands.
func (n *IndexExpr) EstimateCost() int {
	return costLoad + sumCost(n.Base, n.Index)
}

// String returns the expression source form.
func (n *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", n.Base, n.Index)
}
