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
	"strings"

	"github.com/pkg/errors"

	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// ExprList is a brace-enclosed list of expressions. It appears only as
// an initializer; it has no value of its own and its consumers take it
// apart element by element.
type ExprList struct {
	Src   token.Pos
	Exprs []Expr

	typ types.Type
}

var _ Expr = (*ExprList)(nil)

func (*ExprList) expr() {}

// Pos of the list in the source.
func (n *ExprList) Pos() token.Pos { return n.Src }

// Type of the list. A list types as void: only its elements carry
// types.
func (n *ExprList) Type() types.Type { return n.typ }

// TypeCheck validates every element.
func (n *ExprList) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	for i := range n.Exprs {
		if !typeCheck(env, &n.Exprs[i]) {
			return nil, false
		}
	}
	n.typ = types.VoidType{}
	return n, true
}

// Optimize folds every element.
func (n *ExprList) Optimize(env *Env) (Expr, bool) {
	for i := range n.Exprs {
		if !optimize(env, &n.Exprs[i]) {
			return nil, false
		}
	}
	return n, true
}

// Value reports an error: a list is not a value.
func (n *ExprList) Value(codegen.Emitter) (codegen.Value, error) {
	return nil, errors.Errorf("an expression list is not a value")
}

// EstimateCost of all the elements.
func (n *ExprList) EstimateCost() int {
	return sumCost(n.Exprs...)
}

// String returns the list in its source form.
func (n *ExprList) String() string {
	ss := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		ss[i] = e.String()
	}
	return "{ " + strings.Join(ss, ", ") + " }"
}
