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

// TypeCastExpr converts a value to another type. The node covers both
// source-level casts and the implicit conversions the checking pass
// inserts.
type TypeCastExpr struct {
	Src token.Pos
	To  types.Type
	X   Expr

	typ types.Type
}

var _ Expr = (*TypeCastExpr)(nil)

func (*TypeCastExpr) expr() {}

// Pos of the expression in the source.
func (n *TypeCastExpr) Pos() token.Pos { return n.Src }

// Type of the expression: the destination type.
func (n *TypeCastExpr) Type() types.Type { return n.typ }

// TypeCheck validates that a conversion path exists to the destination
// type.
func (n *TypeCastExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	from := n.X.Type()
	if from.Equal(n.To) {
		return n.X, true
	}
	if !CanConvertTypes(from, n.To) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot cast type %s to type %s", from, n.To)
	}
	n.typ = n.To
	return n, true
}

// Optimize folds casts of compile-time constants by converting their
// elements.
func (n *TypeCastExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	if n.X.Type().Equal(n.typ) {
		return n.X, true
	}
	c, ok := n.X.(*ConstExpr)
	if !ok {
		return n, true
	}
	folded, ok := c.convertTo(env, n.typ)
	if !ok {
		return n, true
	}
	return folded, true
}

// Value emits the conversion.
func (n *TypeCastExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	x, err := n.X.Value(em)
	if err != nil {
		return nil, err
	}
	return em.Convert(x, n.X.Type(), n.typ), nil
}

// EstimateCost of the conversion and its operand.
func (n *TypeCastExpr) EstimateCost() int {
	return costCast + sumCost(n.X)
}

// String returns the expression source form.
func (n *TypeCastExpr) String() string {
	return fmt.Sprintf("(%s)%s", n.To, n.X)
}
