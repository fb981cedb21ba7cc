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
	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// FunctionSymbolExpr names a function at a call site. Several
// declared functions may share the name; resolution against the call
// argument types narrows the candidates to one, at most once per call
// site: the match is memoized.
type FunctionSymbolExpr struct {
	Src        token.Pos
	Name       string
	Candidates []*types.Symbol

	matched *types.Symbol
	tried   bool
}

var (
	_ Expr         = (*FunctionSymbolExpr)(nil)
	_ baseSymboler = (*FunctionSymbolExpr)(nil)
)

func (*FunctionSymbolExpr) expr() {}

// Pos of the function name in the source.
func (n *FunctionSymbolExpr) Pos() token.Pos { return n.Src }

// Type of the matched function, or nil until resolution.
func (n *FunctionSymbolExpr) Type() types.Type {
	if n.matched == nil {
		return nil
	}
	return n.matched.Type
}

// Matched returns the function selected by overload resolution, or nil.
func (n *FunctionSymbolExpr) Matched() *types.Symbol { return n.matched }

// TypeCheck validates the candidate set. A single candidate resolves
// immediately; an overloaded name waits for the call site to provide
// argument types.
func (n *FunctionSymbolExpr) TypeCheck(env *Env) (Expr, bool) {
	if len(n.Candidates) == 0 {
		return nil, env.Errs().Appendf(fmterr.StructuralError, n.Src, "%s is not a function", n.Name)
	}
	for _, cand := range n.Candidates {
		if _, ok := cand.Type.(*types.Function); !ok {
			return nil, env.Errs().Appendf(fmterr.StructuralError, cand.Pos, "%s is not a function", cand.Name)
		}
	}
	if len(n.Candidates) == 1 {
		n.matched = n.Candidates[0]
		n.tried = true
	}
	return n, true
}

// Optimize returns the node unchanged.
func (n *FunctionSymbolExpr) Optimize(*Env) (Expr, bool) { return n, true }

// Value is invalid: functions are not first-class values in Vex.
func (n *FunctionSymbolExpr) Value(codegen.Emitter) (codegen.Value, error) {
	return nil, errors.Errorf("function %s used as a value", n.Name)
}

func (n *FunctionSymbolExpr) baseSymbol() *types.Symbol { return n.matched }

// EstimateCost of naming a function is zero.
func (n *FunctionSymbolExpr) EstimateCost() int { return costSymbol }

// String returns the function name.
func (n *FunctionSymbolExpr) String() string { return n.Name }

// Resolve selects the candidate matching the call argument types, in
// two phases. First only exact parameter matches are considered; if no
// unique exact match exists, candidates reachable through type
// conversion are. couldBeNull flags arguments that are the literal
// zero: for those slots a pointer parameter is preferred over a
// numeric one, resolving the null-literal ambiguity deterministically.
// couldBeNull may be nil. The result is memoized: resolving an already
// resolved call site returns the cached match without searching.
func (n *FunctionSymbolExpr) Resolve(env *Env, pos token.Pos, args []types.Type, couldBeNull []bool) (*types.Symbol, bool) {
	if n.tried {
		return n.matched, n.matched != nil
	}
	n.tried = true

	exact := n.filter(args, couldBeNull, func(param, arg types.Type, _ bool) bool {
		return param.Equal(arg)
	})
	if len(exact) == 1 {
		n.matched = exact[0]
		return n.matched, true
	}
	if len(exact) > 1 {
		return nil, n.reportAmbiguous(env, pos, args, exact)
	}

	conv := n.filter(args, couldBeNull, func(param, arg types.Type, null bool) bool {
		// A literal zero converts to any pointer parameter as null.
		if null && param.Kind() == types.PointerKind {
			return true
		}
		return CanConvertTypes(arg, param)
	})
	if len(conv) > 1 && couldBeNull != nil {
		conv = preferPointerParams(conv, couldBeNull)
	}
	switch len(conv) {
	case 1:
		n.matched = conv[0]
		return n.matched, true
	case 0:
		return nil, env.Errs().Appendf(fmterr.OverloadError, pos,
			"no matching function for call to %s(%s)", n.Name, typeList(args))
	default:
		return nil, n.reportAmbiguous(env, pos, args, conv)
	}
}

func (n *FunctionSymbolExpr) reportAmbiguous(env *Env, pos token.Pos, args []types.Type, cands []*types.Symbol) bool {
	ss := make([]string, len(cands))
	for i, cand := range cands {
		ss[i] = cand.Type.String()
	}
	return env.Errs().Appendf(fmterr.OverloadError, pos,
		"call to %s(%s) is ambiguous between %s", n.Name, typeList(args), strings.Join(ss, " and "))
}

// filter returns the candidates whose parameters all accept the
// corresponding argument under a per-slot predicate.
func (n *FunctionSymbolExpr) filter(args []types.Type, couldBeNull []bool, accept func(param, arg types.Type, couldBeNull bool) bool) []*types.Symbol {
	var kept []*types.Symbol
	for _, cand := range n.Candidates {
		fn, ok := cand.Type.(*types.Function)
		if !ok || len(fn.Params) != len(args) {
			continue
		}
		all := true
		for i, param := range fn.Params {
			null := i < len(couldBeNull) && couldBeNull[i]
			if !accept(param, args[i], null) {
				all = false
				break
			}
		}
		if all {
			kept = append(kept, cand)
		}
	}
	return kept
}

// preferPointerParams keeps the candidates with the most pointer
// parameters in the slots whose argument is a literal zero.
func preferPointerParams(cands []*types.Symbol, couldBeNull []bool) []*types.Symbol {
	best := -1
	var kept []*types.Symbol
	for _, cand := range cands {
		fn := cand.Type.(*types.Function)
		score := 0
		for i, param := range fn.Params {
			if i < len(couldBeNull) && couldBeNull[i] && param.Kind() == types.PointerKind {
				score++
			}
		}
		switch {
		case score > best:
			best = score
			kept = []*types.Symbol{cand}
		case score == best:
			kept = append(kept, cand)
		}
	}
	return kept
}

func typeList(args []types.Type) string {
	ss := make([]string, len(args))
	for i, arg := range args {
		ss[i] = arg.String()
	}
	return strings.Join(ss, ", ")
}
