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

	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// SizeOfExpr is the size in bytes of a type, or of the type of an
// expression when X is not nil. The operand expression is never
// evaluated.
type SizeOfExpr struct {
	Src token.Pos
	X   Expr
	Of  types.Type

	typ types.Type
}

var _ Expr = (*SizeOfExpr)(nil)

func (*SizeOfExpr) expr() {}

// Pos of the expression in the source.
func (n *SizeOfExpr) Pos() token.Pos { return n.Src }

// Type of the expression: a uniform uint64.
func (n *SizeOfExpr) Type() types.Type { return n.typ }

// TypeCheck resolves the measured type from the operand expression if
// one was given.
func (n *SizeOfExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if n.X != nil {
		if !typeCheck(env, &n.X) {
			return nil, false
		}
		n.Of = n.X.Type()
	}
	if n.Of == nil {
		return nil, env.Errs().AppendInternalf(n.Src, "sizeof without a type or an expression")
	}
	n.typ = &types.Atomic{Knd: types.Uint64, Var: types.Uniform}
	return n, true
}

// Optimize folds to a constant when the size is fully determined by the
// target.
func (n *SizeOfExpr) Optimize(env *Env) (Expr, bool) {
	size := sizeOfType(env, n.Of)
	if size == 0 {
		return n, true
	}
	return NewConst(n.typ, n.Src, uint64(size)), true
}

// sizeOfType computes the byte size of a type on the target, with a
// varying value occupying one element per lane. A zero result means the
// size is not known until code generation.
func sizeOfType(env *Env, t types.Type) int {
	lanes := 1
	if t.Variability() == types.Varying {
		lanes = env.LaneWidth()
	}
	switch u := t.(type) {
	case *types.Atomic:
		return u.Knd.Size() * lanes
	case *types.Enum:
		return types.Uint32.Size() * lanes
	case *types.Pointer:
		return env.Target().PointerSize * lanes
	case *types.Array:
		return u.N * sizeOfType(env, u.Elem)
	case *types.Vector:
		return u.N * sizeOfType(env, u.Elem)
	case *types.Struct:
		// Fields are laid out without padding.
		total := 0
		for _, f := range u.Fields {
			fs := sizeOfType(env, f.Type)
			if fs == 0 {
				return 0
			}
			total += fs
		}
		return total
	case *types.Reference:
		return sizeOfType(env, u.Target)
	}
	return 0
}

// Value emits the size as a backend constant.
func (n *SizeOfExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	return em.SizeOf(n.Of), nil
}

// EstimateCost of a size is zero: it is a target constant.
func (n *SizeOfExpr) EstimateCost() int { return costConst }

// String returns the expression source form.
func (n *SizeOfExpr) String() string {
	if n.X != nil {
		return fmt.Sprintf("sizeof(%s)", n.X)
	}
	return fmt.Sprintf("sizeof(%s)", n.Of)
}
