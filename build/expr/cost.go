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

// Heuristic per-node cost weights. Every node reports its own weight
// plus the cost of its children, so the estimate grows with subtree
// size. Only the relative order matters: later passes use the totals
// to moderate inlining and unrolling, and higher means costlier.
const (
	costConst  = 0
	costSymbol = 0
	costArith  = 1
	costAssign = 1
	costCast   = 1
	costSelect = 2
	costLoad   = 2
	costCall   = 4
	costSync   = 8
	costNew    = 16
	costLaunch = 16
)

// sumCost totals the cost of child expressions, skipping absent ones.
func sumCost(exprs ...Expr) int {
	total := 0
	for _, e := range exprs {
		if e == nil {
			continue
		}
		total += e.EstimateCost()
	}
	return total
}
