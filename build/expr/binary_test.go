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

func TestBinaryFolding(t *testing.T) {
	tests := []struct {
		name string
		node *expr.BinaryExpr
		want string
	}{
		{
			name: "integer addition",
			node: &expr.BinaryExpr{
				Op: expr.Add,
				X:  expr.NewConst(uniform(types.Int32), 0, int32(2)),
				Y:  expr.NewConst(uniform(types.Int32), 0, int32(3)),
			},
			want: "5",
		},
		{
			name: "float multiplication",
			node: &expr.BinaryExpr{
				Op: expr.Mul,
				X:  expr.NewConst(uniform(types.Float64), 0, 1.5),
				Y:  expr.NewConst(uniform(types.Float64), 0, 4.0),
			},
			want: "6",
		},
		{
			name: "mixed operands promote",
			node: &expr.BinaryExpr{
				Op: expr.Add,
				X:  expr.NewConst(uniform(types.Int32), 0, int32(1)),
				Y:  expr.NewConst(uniform(types.Float64), 0, 0.5),
			},
			want: "1.5",
		},
		{
			name: "signed wraparound",
			node: &expr.BinaryExpr{
				Op: expr.Add,
				X:  expr.NewConst(uniform(types.Int8), 0, int8(127)),
				Y:  expr.NewConst(uniform(types.Int8), 0, int8(1)),
			},
			want: "-128",
		},
		{
			name: "comparison",
			node: &expr.BinaryExpr{
				Op: expr.Lt,
				X:  expr.NewConst(uniform(types.Int32), 0, int32(2)),
				Y:  expr.NewConst(uniform(types.Int32), 0, int32(3)),
			},
			want: "true",
		},
		{
			name: "unsigned comparison",
			node: &expr.BinaryExpr{
				Op: expr.Gt,
				X:  expr.NewConst(uniform(types.Uint32), 0, uint32(0x80000000)),
				Y:  expr.NewConst(uniform(types.Uint32), 0, uint32(1)),
			},
			want: "true",
		},
		{
			name: "shift",
			node: &expr.BinaryExpr{
				Op: expr.Shl,
				X:  expr.NewConst(uniform(types.Int32), 0, int32(1)),
				Y:  expr.NewConst(uniform(types.Int32), 0, int32(4)),
			},
			want: "16",
		},
		{
			name: "logical and",
			node: &expr.BinaryExpr{
				Op: expr.LogicalAnd,
				X:  expr.NewConst(uniform(types.Bool), 0, true),
				Y:  expr.NewConst(uniform(types.Bool), 0, false),
			},
			want: "false",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newEnv()
			n := mustCheck(t, env, test.node)
			c, ok := n.(*expr.ConstExpr)
			if !ok {
				t.Fatalf("expression did not fold: got %T", n)
			}
			if got := c.String(); got != test.want {
				t.Errorf("folded %s: got %s, want %s", test.node.Op, got, test.want)
			}
		})
	}
}

func TestBinaryDivisionByZero(t *testing.T) {
	for _, op := range []expr.BinaryOp{expr.Div, expr.Mod} {
		env := newEnv()
		node := &expr.BinaryExpr{
			Op: op,
			X:  expr.NewConst(uniform(types.Int32), 0, int32(7)),
			Y:  expr.NewConst(uniform(types.Int32), 0, int32(0)),
		}
		if _, ok := node.TypeCheck(env); !ok {
			t.Fatalf("%s: type check failed: %v", op, env.Errs().ToError())
		}
		if _, ok := node.Optimize(env); ok {
			t.Errorf("%s by zero folded; it must fail", op)
		}
		if !fmterr.IsKind(env.Errs().ToError(), fmterr.ConstantError) {
			t.Errorf("%s by zero reported %v, want a constant error", op, env.Errs().ToError())
		}
	}
}

func TestBinaryFloatDivisionByZeroFolds(t *testing.T) {
	env := newEnv()
	node := &expr.BinaryExpr{
		Op: expr.Div,
		X:  expr.NewConst(uniform(types.Float64), 0, 1.0),
		Y:  expr.NewConst(uniform(types.Float64), 0, 0.0),
	}
	n := mustCheck(t, env, node)
	c, ok := n.(*expr.ConstExpr)
	if !ok {
		t.Fatalf("float division by zero did not fold: got %T", n)
	}
	if got := c.String(); got != "+Inf" {
		t.Errorf("1.0/0.0 folded to %s, want +Inf", got)
	}
}

func TestBinaryBroadcast(t *testing.T) {
	env := newEnv()
	vals := make([]int32, env.LaneWidth())
	for i := range vals {
		vals[i] = int32(i)
	}
	node := &expr.BinaryExpr{
		Op: expr.Add,
		X:  expr.NewConst(varying(types.Int32), 0, vals...),
		Y:  expr.NewConst(uniform(types.Int32), 0, int32(10)),
	}
	n := mustCheck(t, env, node)
	c, ok := n.(*expr.ConstExpr)
	if !ok {
		t.Fatalf("mixed-variability addition did not fold: got %T", n)
	}
	if c.Type().Variability() != types.Varying {
		t.Fatalf("result variability = %s, want varying", c.Type().Variability())
	}
	buf := make([]int32, env.LaneWidth())
	c.AsInt32(buf, false)
	for i, v := range buf {
		if want := int32(i) + 10; v != want {
			t.Errorf("lane %d = %d, want %d", i, v, want)
		}
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	env := newEnv()
	node := &expr.BinaryExpr{
		Op: expr.Add,
		X:  expr.NewConst(uniform(types.Int32), 0, int32(2)),
		Y:  expr.NewConst(uniform(types.Int32), 0, int32(3)),
	}
	n := mustCheck(t, env, node)
	again, ok := n.Optimize(env)
	if !ok {
		t.Fatalf("second optimize failed: %v", env.Errs().ToError())
	}
	if again != n {
		t.Errorf("optimizing an optimized node changed it: %s then %s", n, again)
	}
}

func TestBinaryIdentities(t *testing.T) {
	env := newEnv()
	sym := &expr.SymbolExpr{Sym: &types.Symbol{
		Name: "x",
		Type: uniform(types.Int32),
	}}
	node := &expr.BinaryExpr{
		Op: expr.Add,
		X:  sym,
		Y:  expr.NewConst(uniform(types.Int32), 0, int32(0)),
	}
	n := mustCheck(t, env, node)
	if n != expr.Expr(sym) {
		t.Errorf("x + 0 folded to %s (%T), want the symbol itself", n, n)
	}
}

func TestBinaryTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		node *expr.BinaryExpr
	}{
		{
			name: "modulo of floats",
			node: &expr.BinaryExpr{
				Op: expr.Mod,
				X:  expr.NewConst(uniform(types.Float32), 0, float32(1)),
				Y:  expr.NewConst(uniform(types.Float32), 0, float32(2)),
			},
		},
		{
			name: "shift of floats",
			node: &expr.BinaryExpr{
				Op: expr.Shl,
				X:  expr.NewConst(uniform(types.Float32), 0, float32(1)),
				Y:  expr.NewConst(uniform(types.Int32), 0, int32(2)),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newEnv()
			if _, ok := test.node.TypeCheck(env); ok {
				t.Fatalf("type check accepted %s", test.node)
			}
			if !fmterr.IsKind(env.Errs().ToError(), fmterr.TypeError) {
				t.Errorf("reported %v, want a type error", env.Errs().ToError())
			}
		})
	}
}
