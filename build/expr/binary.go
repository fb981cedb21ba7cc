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

	"github.com/vexlang/vex/build/fmterr"
	"github.com/vexlang/vex/build/types"
	"github.com/vexlang/vex/codegen"
)

// BinaryOp is the operator of a binary expression.
type BinaryOp uint8

// Binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	BitAnd
	BitXor
	BitOr
	LogicalAnd
	LogicalOr
	Comma
)

var binaryOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Shl: "<<", Shr: ">>",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=", Eq: "==", Ne: "!=",
	BitAnd: "&", BitXor: "^", BitOr: "|",
	LogicalAnd: "&&", LogicalOr: "||",
	Comma: ",",
}

// String returns the operator as written in the source.
func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

func (op BinaryOp) isComparison() bool {
	return op >= Lt && op <= Ne
}

func (op BinaryOp) isShift() bool {
	return op == Shl || op == Shr
}

func (op BinaryOp) isLogical() bool {
	return op == LogicalAnd || op == LogicalOr
}

// BinaryExpr applies a binary operator to two expressions.
type BinaryExpr struct {
	Src token.Pos
	Op  BinaryOp
	X   Expr
	Y   Expr

	typ types.Type
}

var _ Expr = (*BinaryExpr)(nil)

func (*BinaryExpr) expr() {}

// Pos of the expression in the source.
func (n *BinaryExpr) Pos() token.Pos { return n.Src }

// Type of the expression.
func (n *BinaryExpr) Type() types.Type { return n.typ }

// TypeCheck validates the operands, promotes them to a common type, and
// computes the result type. Comparisons yield a boolean of the combined
// variability of the operands; shifts keep the type of the shifted
// operand; pointer arithmetic keeps the pointer type.
func (n *BinaryExpr) TypeCheck(env *Env) (Expr, bool) {
	if n.typ != nil {
		return n, true
	}
	if !typeCheck(env, &n.X) {
		return nil, false
	}
	if !typeCheck(env, &n.Y) {
		return nil, false
	}
	tx, ty := n.X.Type(), n.Y.Type()
	switch {
	case n.Op == Comma:
		n.typ = ty
	case n.Op.isLogical():
		want := types.BoolType(tx.Variability().Combine(ty.Variability()))
		context := fmt.Sprintf("operand of %s", n.Op)
		var ok bool
		if n.X, ok = TypeConvertExpr(env, n.X, want, context); !ok {
			return nil, false
		}
		if n.Y, ok = TypeConvertExpr(env, n.Y, want, context); !ok {
			return nil, false
		}
		n.typ = want
	case n.Op.isShift():
		if !types.IsInteger(tx) || !types.IsInteger(ty) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"operands of %s must be integers, not %s and %s", n.Op, tx, ty)
		}
		// The result keeps the shifted operand's element kind but picks
		// up varying-ness from the shift amount.
		want := tx
		if ty.Variability() == types.Varying {
			want = tx.AsVarying()
		}
		var ok bool
		if n.X, ok = TypeConvertExpr(env, n.X, want, "shifted operand"); !ok {
			return nil, false
		}
		n.typ = want
	case n.Op.isComparison():
		return n.checkComparison(env, tx, ty)
	case n.Op == BitAnd || n.Op == BitXor || n.Op == BitOr:
		bools := types.IsBool(tx) && types.IsBool(ty)
		if !bools && (!types.IsInteger(tx) || !types.IsInteger(ty)) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"operands of %s must be integers or booleans, not %s and %s", n.Op, tx, ty)
		}
		return n.promoteOperands(env, tx, ty)
	default:
		return n.checkArith(env, tx, ty)
	}
	return n, true
}

// checkArith types Add through Mod: numeric promotion, plus the pointer
// arithmetic forms of Add and Sub.
func (n *BinaryExpr) checkArith(env *Env, tx, ty types.Type) (Expr, bool) {
	px, xIsPtr := tx.(*types.Pointer)
	py, yIsPtr := ty.(*types.Pointer)
	switch {
	case (n.Op == Add || n.Op == Sub) && xIsPtr && types.IsInteger(ty):
		n.typ = ptrCombine(px, ty.Variability())
		return n, true
	case n.Op == Add && yIsPtr && types.IsInteger(tx):
		// Normalize int+ptr to ptr+int so emission sees the pointer on
		// the left.
		n.X, n.Y = n.Y, n.X
		n.typ = ptrCombine(py, tx.Variability())
		return n, true
	case n.Op == Sub && xIsPtr && yIsPtr:
		if !pointerElemsCompatible(px.Elem, py.Elem) {
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot subtract %s from %s", ty, tx)
		}
		n.typ = &types.Atomic{Knd: types.Int64, Var: tx.Variability().Combine(ty.Variability())}
		return n, true
	}
	if !types.IsNumeric(tx) || !types.IsNumeric(ty) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"operands of %s must be numeric, not %s and %s", n.Op, tx, ty)
	}
	if n.Op == Mod && (!types.IsInteger(tx) || !types.IsInteger(ty)) {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"operands of %s must be integers, not %s and %s", n.Op, tx, ty)
	}
	return n.promoteOperands(env, tx, ty)
}

// checkComparison types Lt through Ne: scalar operands promote to a
// common type, pointers compare against compatible pointers, and a
// literal zero compares against any pointer as null.
func (n *BinaryExpr) checkComparison(env *Env, tx, ty types.Type) (Expr, bool) {
	boolOf := func() types.Type {
		return types.BoolType(tx.Variability().Combine(ty.Variability()))
	}
	px, xIsPtr := tx.(*types.Pointer)
	py, yIsPtr := ty.(*types.Pointer)
	if (n.Op == Eq || n.Op == Ne) && (xIsPtr || yIsPtr) {
		switch {
		case xIsPtr && yIsPtr:
			if !pointerElemsCompatible(px.Elem, py.Elem) {
				return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
					"cannot compare %s with %s", tx, ty)
			}
		case xIsPtr && couldBeNull(n.Y):
			n.Y = &NullPointerExpr{Src: n.Y.Pos(), typ: ptrCombine(px, ty.Variability())}
		case yIsPtr && couldBeNull(n.X):
			n.X = &NullPointerExpr{Src: n.X.Pos(), typ: ptrCombine(py, tx.Variability())}
		default:
			return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
				"cannot compare %s with %s", tx, ty)
		}
		if !n.broadcastOperands(env) {
			return nil, false
		}
		n.typ = boolOf()
		return n, true
	}
	if types.IsBool(tx) && types.IsBool(ty) {
		if !n.broadcastOperands(env) {
			return nil, false
		}
		n.typ = boolOf()
		return n, true
	}
	ct, ok := commonType(tx, ty)
	if !ok {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"cannot compare %s with %s", tx, ty)
	}
	context := fmt.Sprintf("operand of %s", n.Op)
	if n.X, ok = TypeConvertExpr(env, n.X, ct, context); !ok {
		return nil, false
	}
	if n.Y, ok = TypeConvertExpr(env, n.Y, ct, context); !ok {
		return nil, false
	}
	n.typ = types.BoolType(ct.Variability())
	return n, true
}

// broadcastOperands widens a uniform operand to the varying counterpart
// of its type when the other operand is varying. Comparisons of bools
// and pointers bypass commonType, so the broadcast happens here.
func (n *BinaryExpr) broadcastOperands(env *Env) bool {
	tx, ty := n.X.Type(), n.Y.Type()
	if tx.Variability() == ty.Variability() {
		return true
	}
	context := fmt.Sprintf("operand of %s", n.Op)
	ok := true
	if tx.Variability() == types.Uniform {
		n.X, ok = TypeConvertExpr(env, n.X, tx.AsVarying(), context)
	} else {
		n.Y, ok = TypeConvertExpr(env, n.Y, ty.AsVarying(), context)
	}
	return ok
}

// promoteOperands converts both operands to their common type and makes
// it the result type.
func (n *BinaryExpr) promoteOperands(env *Env, tx, ty types.Type) (Expr, bool) {
	ct, ok := commonType(tx, ty)
	if !ok {
		return nil, env.Errs().Appendf(fmterr.TypeError, n.Src,
			"operands of %s have mismatched types %s and %s", n.Op, tx, ty)
	}
	context := fmt.Sprintf("operand of %s", n.Op)
	if n.X, ok = TypeConvertExpr(env, n.X, ct, context); !ok {
		return nil, false
	}
	if n.Y, ok = TypeConvertExpr(env, n.Y, ct, context); !ok {
		return nil, false
	}
	n.typ = ct
	return n, true
}

// ptrCombine returns the pointer type with its variability widened by
// another operand's.
func ptrCombine(p *types.Pointer, v types.Variability) types.Type {
	if p.Variability().Combine(v) == types.Varying {
		return p.AsVarying()
	}
	return p
}

// couldBeNull reports whether an expression is a compile-time integer
// zero, the written form of a null pointer.
func couldBeNull(e Expr) bool {
	c, ok := e.(*ConstExpr)
	return ok && c.IsZero()
}

// Optimize folds the operator when both operands are compile-time
// constants. An integer division or modulus by a constant zero reports
// an error and leaves the node unfolded.
func (n *BinaryExpr) Optimize(env *Env) (Expr, bool) {
	if !optimize(env, &n.X) {
		return nil, false
	}
	if !optimize(env, &n.Y) {
		return nil, false
	}
	cx, okx := n.X.(*ConstExpr)
	cy, oky := n.Y.(*ConstExpr)
	if n.Op == Comma {
		// A constant left operand has no effect to preserve.
		if okx {
			return n.Y, true
		}
		return n, true
	}
	if !okx || !oky {
		return n.foldIdentities(cx, okx, cy, oky), true
	}
	if constKind(n.typ) == types.Invalid && !n.Op.isComparison() {
		// Pointer arithmetic does not fold.
		return n, true
	}
	if (n.Op == Div || n.Op == Mod) && types.IsIntegerKind(cy.Kind()) && hasZero(cy) {
		return nil, env.Errs().Appendf(fmterr.ConstantError, n.Src,
			"%s by zero in a constant expression", n.Op)
	}
	count := cx.Count()
	if cy.Count() > count {
		count = cy.Count()
	}
	raw := make([]uint64, count)
	for i := range raw {
		x := cx.word(i % cx.Count())
		y := cy.word(i % cy.Count())
		raw[i] = foldWords(n.Op, cx.Kind(), x, y)
	}
	return newConstRaw(n.typ, n.Src, raw), true
}

// foldIdentities simplifies forms with one constant operand where the
// operator has a neutral element that leaves the other operand intact.
func (n *BinaryExpr) foldIdentities(cx *ConstExpr, okx bool, cy *ConstExpr, oky bool) Expr {
	same := func(e Expr) bool { return e.Type().Equal(n.typ) }
	switch n.Op {
	case Add:
		if okx && cx.IsZero() && same(n.Y) {
			return n.Y
		}
		if oky && cy.IsZero() && same(n.X) {
			return n.X
		}
	case Sub, Shl, Shr, BitOr, BitXor:
		if oky && cy.IsZero() && same(n.X) {
			return n.X
		}
	case LogicalAnd:
		if okx && isBoolConst(cx, true) {
			return n.Y
		}
	case LogicalOr:
		if okx && isBoolConst(cx, false) {
			return n.Y
		}
	}
	return n
}

// isBoolConst reports whether every element of a boolean constant
// equals want.
func isBoolConst(c *ConstExpr, want bool) bool {
	if c.Kind() != types.Bool {
		return false
	}
	buf := make([]bool, c.Count())
	c.AsBool(buf, false)
	for _, v := range buf {
		if v != want {
			return false
		}
	}
	return true
}

// hasZero reports whether any element of a constant is zero.
func hasZero(c *ConstExpr) bool {
	for i := 0; i < c.Count(); i++ {
		if c.word(i) == 0 {
			return true
		}
	}
	return false
}

// Value emits the operator over both operand values.
func (n *BinaryExpr) Value(em codegen.Emitter) (codegen.Value, error) {
	x, err := n.X.Value(em)
	if err != nil {
		return nil, err
	}
	y, err := n.Y.Value(em)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Op == Comma:
		return y, nil
	case n.Op.isComparison():
		return em.Compare(cmpOpOf(n.Op), x, y, n.X.Type()), nil
	case n.Op == LogicalAnd:
		return em.Arith(codegen.And, x, y, n.typ), nil
	case n.Op == LogicalOr:
		return em.Arith(codegen.Or, x, y, n.typ), nil
	}
	return em.Arith(binOpOf(n.Op), x, y, n.typ), nil
}

func binOpOf(op BinaryOp) codegen.BinOp {
	switch op {
	case Add:
		return codegen.Add
	case Sub:
		return codegen.Sub
	case Mul:
		return codegen.Mul
	case Div:
		return codegen.Div
	case Mod:
		return codegen.Mod
	case Shl:
		return codegen.Shl
	case Shr:
		return codegen.Shr
	case BitAnd:
		return codegen.And
	case BitOr:
		return codegen.Or
	}
	return codegen.Xor
}

func cmpOpOf(op BinaryOp) codegen.CmpOp {
	switch op {
	case Eq:
		return codegen.Eq
	case Ne:
		return codegen.Ne
	case Lt:
		return codegen.Lt
	case Gt:
		return codegen.Gt
	case Le:
		return codegen.Le
	}
	return codegen.Ge
}

// EstimateCost of the operator and its operands. The comma form costs
// only its operands.
func (n *BinaryExpr) EstimateCost() int {
	own := costArith
	if n.Op == Comma {
		own = 0
	}
	return own + sumCost(n.X, n.Y)
}

// String returns the expression source form.
func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.X, n.Op, n.Y)
}
