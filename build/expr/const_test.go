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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vexlang/vex/build/expr"
	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/target"
)

func newEnv() *expr.Env {
	return expr.NewEnv(target.AVX2(), fmterr.NewAppender(nil, nil))
}

func uniform(k types.Kind) *types.Atomic { return types.UniformType(k) }
func varying(k types.Kind) *types.Atomic { return types.VaryingType(k) }

func mustCheck(t *testing.T, env *expr.Env, e expr.Expr) expr.Expr {
	t.Helper()
	n, ok := expr.Check(env, e)
	if !ok {
		t.Fatalf("check of %s failed: %v", e, env.Errs().ToError())
	}
	return n
}

func TestConstCount(t *testing.T) {
	env := newEnv()
	u := expr.NewConst(uniform(types.Int32), 0, int32(7))
	if _, ok := u.TypeCheck(env); !ok {
		t.Fatalf("uniform constant rejected: %v", env.Errs().ToError())
	}
	if got := u.Count(); got != 1 {
		t.Errorf("uniform count = %d, want 1", got)
	}

	vals := make([]int32, env.LaneWidth())
	for i := range vals {
		vals[i] = int32(i)
	}
	v := expr.NewConst(varying(types.Int32), 0, vals...)
	if _, ok := v.TypeCheck(env); !ok {
		t.Fatalf("varying constant rejected: %v", env.Errs().ToError())
	}
	if got := v.Count(); got != env.LaneWidth() {
		t.Errorf("varying count = %d, want %d", got, env.LaneWidth())
	}

	bad := expr.NewConst(varying(types.Int32), 0, int32(1), 2, 3)
	if _, ok := bad.TypeCheck(newEnv()); ok {
		t.Errorf("constant with 3 elements accepted for an %d-lane varying type", env.LaneWidth())
	}
}

func TestConstExtractTruncation(t *testing.T) {
	c := expr.NewConst(uniform(types.Float64), 0, 3.9)
	buf := make([]int32, 1)
	if n := c.AsInt32(buf, false); n != 1 {
		t.Fatalf("AsInt32 wrote %d elements, want 1", n)
	}
	if buf[0] != 3 {
		t.Errorf("int32(3.9) = %d, want 3", buf[0])
	}

	c = expr.NewConst(uniform(types.Float64), 0, -3.9)
	if n := c.AsInt32(buf, false); n != 1 {
		t.Fatalf("AsInt32 wrote %d elements, want 1", n)
	}
	if buf[0] != -3 {
		t.Errorf("int32(-3.9) = %d, want -3", buf[0])
	}
}

func TestConstBoolExtraction(t *testing.T) {
	c := expr.NewConst(uniform(types.Bool), 0, true)
	fbuf := make([]float64, 1)
	if n := c.AsFloat64(fbuf, false); n != 0 {
		t.Errorf("boolean extracted as float64 wrote %d elements, want 0", n)
	}
	ibuf := make([]int64, 1)
	if n := c.AsInt64(ibuf, false); n != 0 {
		t.Errorf("boolean extracted as int64 wrote %d elements, want 0", n)
	}

	c = expr.NewConst(uniform(types.Int32), 0, int32(-2))
	bbuf := make([]bool, 1)
	if n := c.AsBool(bbuf, false); n != 1 {
		t.Fatalf("AsBool wrote %d elements, want 1", n)
	}
	if !bbuf[0] {
		t.Errorf("bool(-2) = false, want true")
	}
}

func TestConstForceVarying(t *testing.T) {
	env := newEnv()
	c := expr.NewConst(uniform(types.Int32), 0, int32(5))
	buf := make([]int32, env.LaneWidth())
	if n := c.AsInt32(buf, true); n != env.LaneWidth() {
		t.Fatalf("forced broadcast wrote %d elements, want %d", n, env.LaneWidth())
	}
	want := make([]int32, env.LaneWidth())
	for i := range want {
		want[i] = 5
	}
	if !cmp.Equal(buf, want) {
		t.Errorf("broadcast elements = %v, want %v", buf, want)
	}
}

func TestConstUnsignedWraps(t *testing.T) {
	c := expr.NewConst(uniform(types.Int32), 0, int32(-1))
	buf := make([]uint8, 1)
	if n := c.AsUint8(buf, false); n != 1 {
		t.Fatalf("AsUint8 wrote %d elements, want 1", n)
	}
	if buf[0] != 255 {
		t.Errorf("uint8(-1) = %d, want 255", buf[0])
	}
}

func TestConstCastFolding(t *testing.T) {
	tests := []struct {
		name string
		cast *expr.TypeCastExpr
		want string
	}{
		{
			name: "float to int truncates toward zero",
			cast: &expr.TypeCastExpr{
				To: uniform(types.Int32),
				X:  expr.NewConst(uniform(types.Float32), 0, float32(-3.9)),
			},
			want: "-3",
		},
		{
			name: "int to float",
			cast: &expr.TypeCastExpr{
				To: uniform(types.Float64),
				X:  expr.NewConst(uniform(types.Int32), 0, int32(4)),
			},
			want: "4",
		},
		{
			name: "bool to int",
			cast: &expr.TypeCastExpr{
				To: uniform(types.Int32),
				X:  expr.NewConst(uniform(types.Bool), 0, true),
			},
			want: "1",
		},
		{
			name: "negative zero to bool is false",
			cast: &expr.TypeCastExpr{
				To: uniform(types.Bool),
				X:  expr.NewConst(uniform(types.Float64), 0, math.Copysign(0, -1)),
			},
			want: "false",
		},
		{
			name: "nonzero float to bool",
			cast: &expr.TypeCastExpr{
				To: uniform(types.Bool),
				X:  expr.NewConst(uniform(types.Float32), 0, float32(0.5)),
			},
			want: "true",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newEnv()
			n := mustCheck(t, env, test.cast)
			c, ok := n.(*expr.ConstExpr)
			if !ok {
				t.Fatalf("cast did not fold: got %T", n)
			}
			if got := c.String(); got != test.want {
				t.Errorf("folded cast = %s, want %s", got, test.want)
			}
		})
	}
}

func TestConstCastBoolToFloatDoesNotFold(t *testing.T) {
	env := newEnv()
	cast := &expr.TypeCastExpr{
		To: uniform(types.Float32),
		X:  expr.NewConst(uniform(types.Bool), 0, true),
	}
	n := mustCheck(t, env, cast)
	if _, folded := n.(*expr.ConstExpr); folded {
		t.Errorf("bool to float cast folded; it must stay a run-time conversion")
	}
}

func TestConstBroadcastFold(t *testing.T) {
	env := newEnv()
	cast := &expr.TypeCastExpr{
		To: varying(types.Int32),
		X:  expr.NewConst(uniform(types.Int32), 0, int32(9)),
	}
	n := mustCheck(t, env, cast)
	c, ok := n.(*expr.ConstExpr)
	if !ok {
		t.Fatalf("broadcast of a constant did not fold: got %T", n)
	}
	if c.Count() != env.LaneWidth() {
		t.Fatalf("broadcast count = %d, want %d", c.Count(), env.LaneWidth())
	}
	buf := make([]int32, env.LaneWidth())
	c.AsInt32(buf, false)
	for i, v := range buf {
		if v != 9 {
			t.Errorf("lane %d = %d, want 9", i, v)
		}
	}
}
