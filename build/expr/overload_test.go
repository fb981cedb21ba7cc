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

package expr_test

import (
	"testing"

	"github.com/vexlang/vex/build/expr"
	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
)

func fnSym(name string, params ...types.Type) *types.Symbol {
	return &types.Symbol{
		Name: name,
		Type: &types.Function{
			Params: params,
			Return: types.VoidType{},
		},
	}
}

func TestOverloadExactMatch(t *testing.T) {
	env := newEnv()
	intFn := fnSym("f", uniform(types.Int32))
	floatFn := fnSym("f", uniform(types.Float32))
	fsym := &expr.FunctionSymbolExpr{
		Name:       "f",
		Candidates: []*types.Symbol{intFn, floatFn},
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		t.Fatalf("type check failed: %v", env.Errs().ToError())
	}
	got, ok := fsym.Resolve(env, 0, []types.Type{uniform(types.Float32)}, nil)
	if !ok {
		t.Fatalf("resolution failed: %v", env.Errs().ToError())
	}
	if got != floatFn {
		t.Errorf("resolved to %s(%s), want the float overload", got.Name, got.Type)
	}
}

func TestOverloadConvertibleMatch(t *testing.T) {
	env := newEnv()
	fn := fnSym("f", uniform(types.Float64))
	fsym := &expr.FunctionSymbolExpr{
		Name:       "f",
		Candidates: []*types.Symbol{fn},
	}
	call := &expr.FunctionCallExpr{
		Fn:   fsym,
		Args: []expr.Expr{expr.NewConst(uniform(types.Int32), 0, int32(1))},
	}
	n := mustCheck(t, env, call)
	checked, ok := n.(*expr.FunctionCallExpr)
	if !ok {
		t.Fatalf("check returned %T", n)
	}
	if got := checked.Args[0].Type(); !got.Equal(uniform(types.Float64)) {
		t.Errorf("argument converted to %s, want uniform float64", got)
	}
}

func TestOverloadNullPrefersPointer(t *testing.T) {
	env := newEnv()
	ptrFn := fnSym("g", &types.Pointer{Elem: uniform(types.Int32), Var: types.Uniform})
	floatFn := fnSym("g", uniform(types.Float32))
	fsym := &expr.FunctionSymbolExpr{
		Name:       "g",
		Candidates: []*types.Symbol{floatFn, ptrFn},
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		t.Fatalf("type check failed: %v", env.Errs().ToError())
	}
	zero := uniform(types.Int32)
	got, ok := fsym.Resolve(env, 0, []types.Type{zero}, []bool{true})
	if !ok {
		t.Fatalf("resolution failed: %v", env.Errs().ToError())
	}
	if got != ptrFn {
		t.Errorf("literal zero resolved to %s(%s), want the pointer overload", got.Name, got.Type)
	}
}

func TestOverloadAmbiguous(t *testing.T) {
	env := newEnv()
	fsym := &expr.FunctionSymbolExpr{
		Name: "h",
		Candidates: []*types.Symbol{
			fnSym("h", uniform(types.Float32)),
			fnSym("h", uniform(types.Float64)),
		},
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		t.Fatalf("type check failed: %v", env.Errs().ToError())
	}
	if _, ok := fsym.Resolve(env, 0, []types.Type{uniform(types.Int32)}, nil); ok {
		t.Fatalf("ambiguous call resolved")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.OverloadError) {
		t.Errorf("reported %v, want an overload error", env.Errs().ToError())
	}
}

func TestOverloadNoMatch(t *testing.T) {
	env := newEnv()
	fsym := &expr.FunctionSymbolExpr{
		Name:       "h",
		Candidates: []*types.Symbol{fnSym("h", uniform(types.Int32), uniform(types.Int32))},
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		t.Fatalf("type check failed: %v", env.Errs().ToError())
	}
	if _, ok := fsym.Resolve(env, 0, []types.Type{uniform(types.Int32)}, nil); ok {
		t.Fatalf("call with a missing argument resolved")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.OverloadError) {
		t.Errorf("reported %v, want an overload error", env.Errs().ToError())
	}
}

func TestOverloadMemoized(t *testing.T) {
	env := newEnv()
	intFn := fnSym("f", uniform(types.Int32))
	floatFn := fnSym("f", uniform(types.Float32))
	fsym := &expr.FunctionSymbolExpr{
		Name:       "f",
		Candidates: []*types.Symbol{intFn, floatFn},
	}
	if _, ok := fsym.TypeCheck(env); !ok {
		t.Fatalf("type check failed: %v", env.Errs().ToError())
	}
	first, ok := fsym.Resolve(env, 0, []types.Type{uniform(types.Int32)}, nil)
	if !ok {
		t.Fatalf("resolution failed: %v", env.Errs().ToError())
	}
	// A second resolution returns the cached match without searching,
	// even against other argument types.
	second, ok := fsym.Resolve(env, 0, []types.Type{uniform(types.Float32)}, nil)
	if !ok {
		t.Fatalf("second resolution failed: %v", env.Errs().ToError())
	}
	if second != first {
		t.Errorf("second resolution returned %s(%s), want the cached %s(%s)",
			second.Name, second.Type, first.Name, first.Type)
	}
}

func TestCallTaskGating(t *testing.T) {
	task := &types.Symbol{
		Name: "t",
		Type: &types.Function{Task: true, Return: types.VoidType{}},
	}
	env := newEnv()
	call := &expr.FunctionCallExpr{
		Fn: &expr.FunctionSymbolExpr{Name: "t", Candidates: []*types.Symbol{task}},
	}
	if _, ok := call.TypeCheck(env); ok {
		t.Fatalf("plain call of a task accepted")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.TypeError) {
		t.Errorf("reported %v, want a type error", env.Errs().ToError())
	}

	env = newEnv()
	launch := &expr.FunctionCallExpr{
		Fn:       &expr.FunctionSymbolExpr{Name: "t", Candidates: []*types.Symbol{task}},
		IsLaunch: true,
	}
	if _, ok := launch.TypeCheck(env); !ok {
		t.Fatalf("launch of a task rejected: %v", env.Errs().ToError())
	}
}
