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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vexlang/vex/build/expr"
	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

func localSym(name string, typ types.Type) *expr.SymbolExpr {
	return &expr.SymbolExpr{Sym: &types.Symbol{Name: name, Type: typ}}
}

func TestAssignRequiresLValue(t *testing.T) {
	env := newEnv()
	node := &expr.AssignExpr{
		LHS: expr.NewConst(uniform(types.Int32), 0, int32(1)),
		RHS: expr.NewConst(uniform(types.Int32), 0, int32(2)),
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("assignment to a constant accepted")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.StructuralError) {
		t.Errorf("reported %v, want a structural error", env.Errs().ToError())
	}
}

func TestAssignToConstType(t *testing.T) {
	env := newEnv()
	node := &expr.AssignExpr{
		LHS: localSym("c", &types.Atomic{Knd: types.Int32, Var: types.Uniform, Const: true}),
		RHS: expr.NewConst(uniform(types.Int32), 0, int32(2)),
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("assignment to a const symbol accepted")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.TypeError) {
		t.Errorf("reported %v, want a type error", env.Errs().ToError())
	}
}

func TestAssignVaryingToUniform(t *testing.T) {
	env := newEnv()
	node := &expr.AssignExpr{
		LHS: localSym("u", uniform(types.Int32)),
		RHS: localSym("v", varying(types.Int32)),
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("assignment of a varying value to a uniform symbol accepted")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.TypeError) {
		t.Errorf("reported %v, want a type error", env.Errs().ToError())
	}
}

func TestAssignEmission(t *testing.T) {
	env := newEnv()
	node := &expr.AssignExpr{
		LHS: localSym("x", uniform(types.Int32)),
		RHS: expr.NewConst(uniform(types.Int32), 0, int32(7)),
	}
	n := mustCheck(t, env, node)
	rec := &codegen.Recorder{}
	if _, err := n.Value(rec); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"addr x",
		"const uniform int32 x1",
		"store uniform int32",
	}
	if !cmp.Equal(rec.Ops, want) {
		t.Errorf("emitted %v, want %v", rec.Ops, want)
	}
}

func TestCompoundAssignEmission(t *testing.T) {
	env := newEnv()
	node := &expr.AssignExpr{
		Op:       expr.Add,
		Compound: true,
		LHS:      localSym("x", uniform(types.Int32)),
		RHS:      expr.NewConst(uniform(types.Int32), 0, int32(1)),
	}
	n := mustCheck(t, env, node)
	rec := &codegen.Recorder{}
	if _, err := n.Value(rec); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"addr x",
		"const uniform int32 x1",
		"load uniform int32",
		"add uniform int32",
		"store uniform int32",
	}
	if !cmp.Equal(rec.Ops, want) {
		t.Errorf("emitted %v, want %v", rec.Ops, want)
	}
}

func TestBoolComparisonBroadcast(t *testing.T) {
	env := newEnv()
	node := &expr.BinaryExpr{
		Op: expr.Eq,
		X:  localSym("u", uniform(types.Bool)),
		Y:  localSym("v", varying(types.Bool)),
	}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(varying(types.Bool)) {
		t.Fatalf("comparison type = %s, want varying bool", got)
	}
	if got := node.X.Type(); got.Variability() != types.Varying {
		t.Fatalf("left operand kept type %s; the uniform side must broadcast", got)
	}
	rec := &codegen.Recorder{}
	if _, err := n.Value(rec); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"addr u",
		"load uniform bool",
		"convert uniform bool -> varying bool",
		"addr v",
		"load varying bool",
		"cmp eq varying bool",
	}
	if !cmp.Equal(rec.Ops, want) {
		t.Errorf("emitted %v, want %v", rec.Ops, want)
	}
}

func TestPointerComparisonBroadcast(t *testing.T) {
	env := newEnv()
	node := &expr.BinaryExpr{
		Op: expr.Ne,
		X:  localSym("p", &types.Pointer{Elem: uniform(types.Int32), Var: types.Uniform}),
		Y:  localSym("q", &types.Pointer{Elem: uniform(types.Int32), Var: types.Varying}),
	}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(varying(types.Bool)) {
		t.Fatalf("comparison type = %s, want varying bool", got)
	}
	if got := node.X.Type(); got.Variability() != types.Varying {
		t.Errorf("left operand kept type %s; the uniform side must broadcast", got)
	}
}

func TestSelectVaryingTest(t *testing.T) {
	env := newEnv()
	node := &expr.SelectExpr{
		Test:  localSym("mask", varying(types.Bool)),
		True:  expr.NewConst(uniform(types.Int32), 0, int32(1)),
		False: expr.NewConst(uniform(types.Int32), 0, int32(2)),
	}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(varying(types.Int32)) {
		t.Errorf("selection with a varying test has type %s, want varying int32", got)
	}
}

func TestSelectConstantTestFolds(t *testing.T) {
	env := newEnv()
	x := localSym("x", uniform(types.Int32))
	node := &expr.SelectExpr{
		Test:  expr.NewConst(uniform(types.Bool), 0, true),
		True:  x,
		False: expr.NewConst(uniform(types.Int32), 0, int32(2)),
	}
	n := mustCheck(t, env, node)
	if n != expr.Expr(x) {
		t.Errorf("constant true test folded to %s (%T), want the true branch", n, n)
	}
}

func TestMemberField(t *testing.T) {
	point := &types.Struct{
		Name: "Point",
		Fields: []*types.Field{
			{Name: "x", Type: uniform(types.Float32)},
			{Name: "y", Type: uniform(types.Float32)},
		},
	}
	env := newEnv()
	node := &expr.MemberExpr{
		Base:   localSym("p", point),
		Member: "y",
	}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(uniform(types.Float32)) {
		t.Errorf("field access has type %s, want uniform float32", got)
	}
	rec := &codegen.Recorder{}
	if _, err := n.Value(rec); err != nil {
		t.Fatal(err)
	}
	want := []string{"addr p", "fieldaddr 1", "load uniform float32"}
	if !cmp.Equal(rec.Ops, want) {
		t.Errorf("emitted %v, want %v", rec.Ops, want)
	}
}

func TestMemberNearMiss(t *testing.T) {
	point := &types.Struct{
		Name: "Point",
		Fields: []*types.Field{
			{Name: "origin", Type: uniform(types.Float32)},
		},
	}
	env := newEnv()
	node := &expr.MemberExpr{
		Base:   localSym("p", point),
		Member: "orgin",
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("access to a missing field accepted")
	}
	err := env.Errs().ToError()
	if !fmterr.IsKind(err, fmterr.TypeError) {
		t.Fatalf("reported %v, want a type error", err)
	}
	if !strings.Contains(err.Error(), "did you mean origin?") {
		t.Errorf("diagnostic %q does not suggest the near field name", err)
	}
}

func TestMemberSwizzle(t *testing.T) {
	vec := &types.Vector{Elem: uniform(types.Float32), N: 3}
	env := newEnv()
	node := &expr.MemberExpr{
		Base:   localSym("v", vec),
		Member: "zyx",
	}
	n := mustCheck(t, env, node)
	want := &types.Vector{Elem: uniform(types.Float32), N: 3}
	if got := n.Type(); !got.Equal(want) {
		t.Errorf("swizzle has type %s, want %s", got, want)
	}
	rec := &codegen.Recorder{}
	if _, err := n.Value(rec); err != nil {
		t.Fatal(err)
	}
	wantOps := []string{"addr v", "load uniform float32<3>", "shuffle [2 1 0]"}
	if !cmp.Equal(rec.Ops, wantOps) {
		t.Errorf("emitted %v, want %v", rec.Ops, wantOps)
	}
}

func TestMemberSwizzleOutOfRange(t *testing.T) {
	vec := &types.Vector{Elem: uniform(types.Float32), N: 2}
	env := newEnv()
	node := &expr.MemberExpr{
		Base:   localSym("v", vec),
		Member: "xyz",
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("swizzle past the vector width accepted")
	}
}

func TestIndexVaryingPromotion(t *testing.T) {
	arr := &types.Array{Elem: uniform(types.Float32), N: 16}
	env := newEnv()
	node := &expr.IndexExpr{
		Base:  localSym("a", arr),
		Index: localSym("i", varying(types.Int32)),
	}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(varying(types.Float32)) {
		t.Errorf("gather has type %s, want varying float32", got)
	}
}

func TestUnaryLogicalNotCoerces(t *testing.T) {
	env := newEnv()
	node := &expr.UnaryExpr{
		Op: expr.LogicalNot,
		X:  expr.NewConst(uniform(types.Int32), 0, int32(3)),
	}
	n := mustCheck(t, env, node)
	c, ok := n.(*expr.ConstExpr)
	if !ok {
		t.Fatalf("logical not of a constant did not fold: got %T", n)
	}
	if got := c.String(); got != "false" {
		t.Errorf("!3 = %s, want false", got)
	}
}

func TestUnaryIncRequiresLValue(t *testing.T) {
	env := newEnv()
	node := &expr.UnaryExpr{
		Op: expr.PreInc,
		X:  expr.NewConst(uniform(types.Int32), 0, int32(3)),
	}
	if _, ok := node.TypeCheck(env); ok {
		t.Fatalf("increment of a constant accepted")
	}
	if !fmterr.IsKind(env.Errs().ToError(), fmterr.StructuralError) {
		t.Errorf("reported %v, want a structural error", env.Errs().ToError())
	}
}

func TestDereferenceGathers(t *testing.T) {
	env := newEnv()
	ptr := &types.Pointer{Elem: uniform(types.Float32), Var: types.Varying}
	node := &expr.DereferenceExpr{X: localSym("p", ptr)}
	n := mustCheck(t, env, node)
	if got := n.Type(); !got.Equal(varying(types.Float32)) {
		t.Errorf("dereference of a varying pointer has type %s, want varying float32", got)
	}
}

func TestSizeOfFolds(t *testing.T) {
	env := newEnv()
	node := &expr.SizeOfExpr{Of: varying(types.Float32)}
	n := mustCheck(t, env, node)
	c, ok := n.(*expr.ConstExpr)
	if !ok {
		t.Fatalf("sizeof did not fold: got %T", n)
	}
	want := 4 * env.LaneWidth()
	buf := make([]uint64, 1)
	c.AsUint64(buf, false)
	if int(buf[0]) != want {
		t.Errorf("sizeof(varying float32) = %d, want %d", buf[0], want)
	}
}

func TestCheckAllReportsEverything(t *testing.T) {
	env := newEnv()
	exprs := []expr.Expr{
		&expr.AssignExpr{
			LHS: expr.NewConst(uniform(types.Int32), 0, int32(1)),
			RHS: expr.NewConst(uniform(types.Int32), 0, int32(2)),
		},
		&expr.UnaryExpr{
			Op: expr.BitNot,
			X:  expr.NewConst(uniform(types.Float32), 0, float32(1)),
		},
		expr.NewConst(uniform(types.Int32), 0, int32(3)),
	}
	if expr.CheckAll(env, exprs) {
		t.Fatalf("CheckAll accepted invalid trees")
	}
	if got := env.Errs().Count(); got != 2 {
		t.Errorf("reported %d diagnostics, want 2", got)
	}
}
