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

// SymbolExpr is a reference to a declared variable or parameter.
type SymbolExpr struct {
	Src token.Pos
	Sym *types.Symbol
}

var (
	_ LValuer      = (*SymbolExpr)(nil)
	_ baseSymboler = (*SymbolExpr)(nil)
)

func (*SymbolExpr) expr() {}

// Pos of the reference in the source.
func (n *SymbolExpr) Pos() token.Pos { return n.Src }

// Type of the referenced symbol.
func (n *SymbolExpr) Type() types.Type {
	if n.Sym == nil {
		return nil
	}
	return n.Sym.Type
}

// TypeCheck validates that the symbol has a declared type.
func (n *SymbolExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.Sym == nil || n.Sym.Type == nil {
		return nil, env.Errs().AppendInternalf(n.Src, "symbol reference without a declared type")
	}
	return n, true
}

// Optimize returns the reference unchanged.
func (n *SymbolExpr) Optimize(*Env) (Expr, bool) { return n, true }

// Value loads the symbol from its storage location.
func (n *SymbolExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	return em.Load(em.SymbolAddress(n.Sym), n.Sym.Type), nil
}

// LValue returns the storage location of the symbol.
func (n *SymbolExpr) LValue(em codegen.Emitter) (codegen.Address, error) {
	return em.SymbolAddress(n.Sym), nil
}

func (n *SymbolExpr) baseSymbol() *types.Symbol { return n.Sym }

// EstimateCost of a symbol reference is zero.
func (n *SymbolExpr) EstimateCost() int { return costSymbol }

// String returns the symbol name.
func (n *SymbolExpr) String() string { return n.Sym.Name }
