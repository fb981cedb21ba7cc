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

// SelectExpr is the ternary form test ? True : False. A varying test
// selects per lane and forces a varying result.
type SelectExpr struct {
	Src   token.Pos
	Test  Expr
	True  Expr
	False Expr

	typ types.Type
}

var _ Expr = (*SelectExpr)(nil)

func (*SelectExpr) expr() {}

// Pos of the expression in the source.
func (n *SelectExpr) Pos() token.Pos { return n.Src }

// Type of the expression.
func (n *SelectExpr) Type() types.Type { return n.typ }

// TypeCheck coerces the test to a boolean, promotes both branches to a
// common type, and widens the result to varying when the test selects
// per lane.
func (n *SelectExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.Test) {
		return nil, false
	}
	if !typeCheck(env, &n.True) {
		return nil, false
	}
	if !typeCheck(env, &n.False) {
		return nil, false
	}
	var ok bool
	testType := types.BoolType(n.Test.Type().Variability())
	if n.Test, ok = TypeConvertExpr(env, n.Test, testType, "selection test"); !ok {
		return nil, false
	}
	tt, ft := n.True.Type(), n.False.Type()
	var result types.Type
	if tt.Equal(ft) {
		result = tt
	} else if result, ok = commonType(tt, ft); !ok {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"selection branches have mismatched types %s and %s", tt, ft)
	}
	if testType.Variability() == types.Varying && result.Variability() == types.Uniform {
		result = result.AsVarying()
	}
	if n.True, ok = TypeConvertExpr(env, n.True, result, "selection branch"); !ok {
		return nil, false
	}
	if n.False, ok = TypeConvertExpr(env, n.False, result, "selection branch"); !ok {
		return nil, false
	}
	n.typ = result
	return n, true
}

// Optimize folds a constant test to the selected branch. A varying
// constant test folds only when every lane agrees.
func (n *SelectExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.Test) {
		return nil, false
	}
	if !optimize(env, &n.True) {
		return nil, false
	}
	if !optimize(env, &n.False) {
		return nil, false
	}
	c, ok := n.Test.(*ConstExpr)
	if !ok {
		return n, true
	}
	if isBoolConst(c, true) {
		return n.True, true
	}
	if isBoolConst(c, false) {
		return n.False, true
	}
	return n, true
}

// Value emits both branches and the per-lane selection.
func (n *SelectExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	test, err := n.Test.Value(em)
	if err != nil {
		return nil, err
	}
	tv, err := n.True.Value(em)
	if err != nil {
		return nil, err
	}
	fv, err := n.False.Value(em)
	if err != nil {
		return nil, err
	}
	return em.Select(test, tv, fv, n.typ), nil
}

// EstimateCost of the selection and its three operands.
func (n *SelectExpr) EstimateCost() int {
	return costSelect + sumCost(n.Test, n.True, n.False)
}

// String returns the expression source form.
func (n *SelectExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Test, n.True, n.False)
}
