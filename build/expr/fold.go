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
	"math"

	"golang.org/x/exp/constraints"

	"github.com/vexlang/vex/build/types"
)

// foldWords applies a binary operator to two canonical constant words
// of element kind knd and returns the raw result word. Integer division
// by zero must be ruled out by the caller. Shift counts of at least the
// word width behave as repeated single-bit shifts: left shifts drain to
// zero, arithmetic right shifts fill with the sign.
func foldWords(op BinaryOp, knd types.Kind, x, y uint64) uint64 {
	switch {
	case types.IsFloatKind(knd):
		return foldFloat(op, math.Float64frombits(x), math.Float64frombits(y))
	case knd == types.Bool || types.IsUnsignedKind(knd):
		return foldInt(op, x, y)
	default:
		// The one signed quotient with no representable result wraps
		// instead of trapping.
		if int64(x) == math.MinInt64 && int64(y) == -1 {
			if op == Div {
				return x
			}
			if op == Mod {
				return 0
			}
		}
		return uint64(foldInt(op, int64(x), int64(y)))
	}
}

func foldFloat(op BinaryOp, x, y float64) uint64 {
	switch op {
	case Add:
		return math.Float64bits(x + y)
	case Sub:
		return math.Float64bits(x - y)
	case Mul:
		return math.Float64bits(x * y)
	case Div:
		return math.Float64bits(x / y)
	}
	return boolWord(compare(op, x, y))
}

func foldInt[T constraints.Integer](op BinaryOp, x, y T) T {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	case Mod:
		return x % y
	case Shl:
		return x << uint64(y)
	case Shr:
		return x >> uint64(y)
	case BitAnd, LogicalAnd:
		return x & y
	case BitXor:
		return x ^ y
	case BitOr, LogicalOr:
		return x | y
	}
	return T(boolWord(compare(op, x, y)))
}

func compare[T constraints.Ordered](op BinaryOp, x, y T) bool {
	switch op {
	case Lt:
		return x < y
	case Gt:
		return x > y
	case Le:
		return x <= y
	case Ge:
		return x >= y
	case Eq:
		return x == y
	}
	return x != y
}

func boolWord(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
