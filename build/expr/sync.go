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

	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// SyncExpr waits for every launched task to finish. It has no value.
type SyncExpr struct {
	Src token.Pos

	typ types.Type
}

var _ Expr = (*SyncExpr)(nil)

func (*SyncExpr) expr() {}

// Pos of the expression in the source.
func (n *SyncExpr) Pos() token.Pos { return n.Src }

// Type of the expression: void.
func (n *SyncExpr) Type() types.Type { return n.typ }

// TypeCheck assigns the void type.
func (n *SyncExpr) TypeCheck(*Env) (Expr, bool) {
	n.typ = types.VoidType{}
	return n, true
}

// Optimize returns the node unchanged: a barrier never folds.
func (n *SyncExpr) Optimize(*Env) (Expr, bool) { return n, true }

// Value emits the barrier.
func (n *SyncExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	return em.Sync(), nil
}

// EstimateCost of waiting on outstanding tasks.
func (n *SyncExpr) EstimateCost() int { return costSync }

// String returns the expression source form.
func (n *SyncExpr) String() string { return "sync" }
