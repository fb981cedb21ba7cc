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
	"strings"

	"github.com/pkg/errors"

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// FunctionCallExpr calls a function, or launches a task asynchronously
// when IsLaunch is set. LaunchCount, when not nil, is the number of
// gangs to launch; it defaults to one.
type FunctionCallExpr struct {
	Src         token.Pos
	Fn          Expr
	Args        []Expr
	IsLaunch    bool
	LaunchCount Expr

	typ types.Type
}

var _ Expr = (*FunctionCallExpr)(nil)

func (*FunctionCallExpr) expr() {}

// Pos of the call in the source.
func (n *FunctionCallExpr) Pos() token.Pos { return n.Src }

// Type of the call: the return type of the callee.
func (n *FunctionCallExpr) Type() types.Type { return n.typ }

// TypeCheck resolves the callee against the argument types and converts
// each argument to its parameter type. Tasks must be launched and
// plain functions must not be.
func (n *FunctionCallExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	for i := range n.Args {
		if !typeCheck(env, &n.Args[i]) {
			return nil, false
		}
	}
	fn, ok := n.callee(env)
	if !ok {
		return nil, false
	}
	if len(fn.Params) != len(n.Args) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"call to %s passes %d arguments, want %d", n.Fn, len(n.Args), len(fn.Params))
	}
	for i, param := range fn.Params {
		if param.Kind() == types.PointerKind && couldBeNull(n.Args[i]) {
			n.Args[i] = &NullPointerExpr{Src: n.Args[i].Pos(), typ: param}
			continue
		}
		if n.Args[i], ok = TypeConvertExpr(env, n.Args[i], param, "function call argument"); !ok {
			return nil, false
		}
	}
	if n.IsLaunch != fn.Task {
		if fn.Task {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"task %s must be called through launch", n.Fn)
		}
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"%s is not a task and cannot be launched", n.Fn)
	}
	if n.LaunchCount != nil {
		if !typeCheck(env, &n.LaunchCount) {
			return nil, false
		}
		count := &types.Atomic{Knd: types.Int32, Var: types.Uniform}
		if n.LaunchCount, ok = TypeConvertExpr(env, n.LaunchCount, count, "launch count"); !ok {
			return nil, false
		}
	}
	n.typ = fn.Return
	if n.typ == nil {
		n.typ = types.VoidType{}
	}
	return n, true
}

// callee types the called expression and returns its function type,
// running overload resolution when the callee is an overloaded name.
func (n *FunctionCallExpr) callee(env *Env) (*types.Function, bool) {
	fsym, overloaded := n.Fn.(*FunctionSymbolExpr)
	if !overloaded {
		if !typeCheck(env, &n.Fn) {
			return nil, false
		}
		fn, ok := n.Fn.Type().(*types.Function)
		if !ok {
			return nil, env.Errs().Appendf(fmterr.StructuralError, n.Src,
				"%s is not a function", n.Fn)
		}
		return fn, true
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		return nil, false
	}
	args := make([]types.Type, len(n.Args))
	nulls := make([]bool, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.Type()
		nulls[i] = couldBeNull(arg)
	}
	sym, ok := fsym.Resolve(env, n.Src, args, nulls)
	if !ok {
		return nil, false
	}
	return sym.Type.(*types.Function), true
}

// Optimize folds the arguments and the launch count. Calls themselves
// never fold.
func (n *FunctionCallExpr) Optimize(env *Env) (Expr, bool) {
	for i := range n.Args {
		if !optimize(env, &n.Args[i]) {
			return nil, false
		}
	}
	if n.LaunchCount != nil && !optimize(env, &n.LaunchCount) {
		return nil, false
	}
	return n, true
}

// Value emits the arguments and the call or launch.
func (n *FunctionCallExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	sym := BaseSymbol(n.Fn)
	if sym == nil {
		return nil, errors.Errorf("callee %s is not a resolved function", n.Fn)
	}
	args := make([]codegen.Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.Value(em)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if !n.IsLaunch {
		return em.Call(sym, args, n.typ), nil
	}
	var count codegen.Value
	if n.LaunchCount != nil {
		var err error
		if count, err = n.LaunchCount.Value(em); err != nil {
			return nil, err
		}
	} else {
		count = em.Constant(&types.Atomic{Knd: types.Int32, Var: types.Uniform}, []uint64{1})
	}
	return em.Launch(sym, args, count), nil
}

// EstimateCost of the call and its arguments. Launches carry the task
// dispatch overhead.
func (n *FunctionCallExpr) EstimateCost() int {
	own := costCall
	if n.IsLaunch {
		own = costLaunch
	}
	return own + sumCost(n.Args...) + sumCost(n.LaunchCount)
}

// String returns the call in its source form.
func (n *FunctionCallExpr) String() string {
	ss := make([]string, len(n.Args))
	for i, arg := range n.Args {
		ss[i] = arg.String()
	}
	call := fmt.Sprintf("%s(%s)", n.Fn, strings.Join(ss, ", "))
	if n.IsLaunch {
		return "launch " + call
	}
	return call
}
