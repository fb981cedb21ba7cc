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

// MemberExpr accesses a structure field or a vector swizzle. A pointer
// base is dereferenced first, so both the dot and arrow source forms
// build the same node.
type MemberExpr struct {
	Src    token.Pos
	Base   Expr
	Member string

	field   int
	swizzle []int
	deref   bool
	typ     types.Type
}

var (
	_ LValuer      = (*MemberExpr)(nil)
	_ baseSymboler = (*MemberExpr)(nil)
)

func (*MemberExpr) expr() {}

// Pos of the expression in the source.
func (n *MemberExpr) Pos() token.Pos { return n.Src }

// Type of the accessed member.
func (n *MemberExpr) Type() types.Type { return n.typ }

// TypeCheck resolves the member name against the base type: a field of
// a structure, or a swizzle pattern over a vector.
func (n *MemberExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.Base) {
		return nil, false
	}
	bt := n.Base.Type()
	if ref, ok := bt.(*types.Reference); ok {
		bt = ref.Target
	}
	varying := false
	if ptr, ok := bt.(*types.Pointer); ok {
		n.deref = true
		varying = ptr.Variability() == types.Varying
		bt = ptr.Elem
	}
	switch t := bt.(type) {
	case *types.Struct:
		return n.checkField(env, t, varying)
	case *types.Vector:
		return n.checkSwizzle(env, t)
	}
	return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
		"type %s has no member %s", bt, n.Member)
}

func (n *MemberExpr) checkField(env *Env, t *types.Struct, varying bool) (Expr, bool) {
	idx := t.FieldIndex(n.Member)
	if idx < 0 {
		if near := nearestName(n.Member, t.FieldNames()); near != "" {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"%s has no field %s; did you mean %s?", t, n.Member, near)
		}
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"%s has no field %s", t, n.Member)
	}
	n.field = idx
	n.typ = t.Fields[idx].Type
	if varying {
		// A gather through a varying pointer reads one field per lane.
		n.typ = n.typ.AsVarying()
	}
	return n, true
}

// swizzleLane maps one swizzle letter to its element index. Both the
// positional and the color names address the same elements.
func swizzleLane(c byte) int {
	switch c {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	}
	return -1
}

func (n *MemberExpr) checkSwizzle(env *Env, t *types.Vector) (Expr, bool) {
	idx := make([]int, len(n.Member))
	for i := 0; i < len(n.Member); i++ {
		lane := swizzleLane(n.Member[i])
		if lane < 0 || lane >= t.N {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"%s does not name elements of %s", n.Member, t)
		}
		idx[i] = lane
	}
	if len(idx) == 0 {
		return nil, env.Errs().Appendf(fmterr.StructuralError, n.Src, "empty member name")
	}
	n.swizzle = idx
	if len(idx) == 1 {
		n.typ = t.Elem
	} else {
		n.typ = &types.Vector{Elem: t.Elem, N: len(idx)}
	}
	return n, true
}

// nearestName returns the candidate within a small edit distance of
// name, or the empty string.
func nearestName(name string, candidates []string) string {
	best, bestDist := "", 3
	for _, cand := range candidates {
		if d := editDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between two short names.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// isLValue reports whether the access denotes storage: a field of an
// addressable base, or a single-element swizzle of one.
func (n *MemberExpr) isLValue() bool {
	if len(n.swizzle) > 1 {
		return false
	}
	return n.deref || IsLValue(n.Base)
}

// Optimize folds the base.
func (n *MemberExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.Base) {
		return nil, false
	}
	return n, true
}

// baseAddress emits the location of the aggregate holding the member.
func (n *MemberExpr) baseAddress(em codegen.Emitter) (codegen.Address, error) {
	if n.deref {
		ptr, err := n.Base.Value(em)
		if err != nil {
			return nil, err
		}
		return em.Deref(ptr, n.typ), nil
	}
	base, ok := n.Base.(LValuer)
	if !ok {
		return nil, errors.Errorf("member base %s has no storage location", n.Base)
	}
	return base.LValue(em)
}

// LValue emits the member location.
func (n *MemberExpr) LValue(em codegen.Emitter) (codegen.Address, error) {
	addr, err := n.baseAddress(em)
	if err != nil {
		return nil, err
	}
	if n.swizzle != nil {
		lane := em.Constant(&types.Atomic{Knd: types.Int32, Var: types.Uniform},
			[]uint64{uint64(n.swizzle[0])})
		return em.ElementAddress(addr, lane, n.typ), nil
	}
	return em.FieldAddress(addr, n.field, n.typ), nil
}

// Value loads a field, or shuffles the vector elements a swizzle
// names.
func (n *MemberExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	if len(n.swizzle) > 1 {
		base, err := n.Base.Value(em)
		if err != nil {
			return nil, err
		}
		return em.Shuffle(base, n.swizzle, n.typ), nil
	}
	addr, err := n.LValue(em)
	if err != nil {
		return nil, err
	}
	return em.Load(addr, n.typ), nil
}

func (n *MemberExpr) baseSymbol() *types.Symbol { return BaseSymbol(n.Base) }

// EstimateCost of the member load and the base.
func (n *MemberExpr) EstimateCost() int {
	return costLoad + sumCost(n.Base)
}

// String returns the expression source form.
func (n *MemberExpr) String() string {
	return fmt.Sprintf("%s.%s", n.Base, n.Member)
}
