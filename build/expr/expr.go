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

// Package expr is the expression subsystem of the Vex compiler front
// end.
//
// The parser builds raw trees of expression nodes. TypeCheck validates
// a tree bottom-up and assigns every node its type, inserting implicit
// conversions where the language requires them. Optimize then folds
// compile-time-known values bottom-up until a fixed point. Both passes
// consume their receiver and return a new owner: the returned node may
// be a replacement and the original must not be retained. After both
// passes succeed the tree is immutable and the code generation backend
// reads it through Value and LValue.
package expr

import (
	"go/token"

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
	"github.com/vexlang/vex/target"
)

// Expr is implemented by every expression variant.
type Expr interface {
	// expr marks a structure as an expression node. It keeps the set
	// of variants closed to this package.
	expr()

	// Pos of the expression in the source.
	Pos() token.Pos

	// Type of the expression. Only valid after a successful TypeCheck.
	Type() types.Type

	// TypeCheck validates the children of the node, applies the typing
	// rule of the variant, and returns the canonical node. A false
	// result means a diagnostic has already been reported and the node
	// must be discarded.
	TypeCheck(env *Env) (Expr, bool)

	// Optimize assumes a type-checked node and attempts constant
	// folding, returning an equal-or-simpler node. Applying Optimize
	// to its own result is the identity.
	Optimize(env *Env) (Expr, bool)

	// Value emits the primitives materializing the run-time value of
	// the expression.
	Value(em codegen.Emitter) (codegen.Value, error)

	// EstimateCost returns a heuristic cost of evaluating the
	// expression, monotonic in subtree size. Later passes use it to
	// moderate inlining and unrolling decisions.
	EstimateCost() int

	// String returns the expression source form, for diagnostics.
	String() string
}

// LValuer is implemented by variants that can denote a storage
// location: symbol references, indexing, qualifying member accesses,
// and dereferences. Every other variant has no lvalue.
type LValuer interface {
	Expr

	// LValue emits the primitives computing the storage location of
	// the expression.
	LValue(em codegen.Emitter) (codegen.Address, error)
}

type baseSymboler interface {
	baseSymbol() *types.Symbol
}

// BaseSymbol returns the root variable an expression value derives
// from, or nil if the expression does not trace to one variable.
func BaseSymbol(e Expr) *types.Symbol {
	if b, ok := e.(baseSymboler); ok {
		return b.baseSymbol()
	}
	return nil
}

// IsLValue returns true if the expression denotes a storage location
// that can be assigned to, const qualification aside.
func IsLValue(e Expr) bool {
	switch n := e.(type) {
	case *SymbolExpr:
		return true
	case *IndexExpr:
		return true
	case *DereferenceExpr:
		return true
	case *MemberExpr:
		return n.isLValue()
	}
	return false
}

// Env carries the target configuration and the diagnostics appender
// through the checking and folding passes.
type Env struct {
	target *target.Target
	errs   *fmterr.Appender
}

// NewEnv returns a new checking environment.
func NewEnv(t *target.Target, errs *fmterr.Appender) *Env {
	return &Env{target: t, errs: errs}
}

// Errs returns the diagnostics appender.
func (env *Env) Errs() *fmterr.Appender { return env.errs }

// Target returns the compilation target.
func (env *Env) Target() *target.Target { return env.target }

// LaneWidth returns the number of lanes of the target.
func (env *Env) LaneWidth() int { return env.target.LaneWidth }

// typeCheck checks a child expression, storing the canonical node back
// through dst.
func typeCheck(env *Env, dst *Expr) bool {
	n, ok := (*dst).TypeCheck(env)
	if !ok {
		return false
	}
	*dst = n
	return true
}

// optimize folds a child expression, storing the simplified node back
// through dst.
func optimize(env *Env, dst *Expr) bool {
	n, ok := (*dst).Optimize(env)
	if !ok {
		return false
	}
	*dst = n
	return true
}
