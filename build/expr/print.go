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
	"io"
	"strings"
)

// Fprint writes an indented dump of an expression tree, one node per
// line with its variant, source form, and type. fset may be nil to
// omit positions.
func Fprint(w io.Writer, fset *token.FileSet, e Expr) {
	fprint(w, fset, e, 0)
}

func fprint(w io.Writer, fset *token.FileSet, e Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	typ := "<unchecked>"
	if e.Type() != nil {
		typ = e.Type().String()
	}
	pos := ""
	if fset != nil && e.Pos().IsValid() {
		pos = " @" + fset.Position(e.Pos()).String()
	}
	fmt.Fprintf(w, "%s%s %s : %s%s\n", indent, variantName(e), e, typ, pos)
	for _, child := range children(e) {
		if child == nil {
			continue
		}
		fprint(w, fset, child, depth+1)
	}
}

// variantName returns the node type without the package qualifier.
func variantName(e Expr) string {
	name := fmt.Sprintf("%T", e)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// children returns the direct sub-expressions of a node, in evaluation
// order. Absent optional children appear as nil.
func children(e Expr) []Expr {
	switch n := e.(type) {
	case *UnaryExpr:
		return []Expr{n.X}
	case *BinaryExpr:
		return []Expr{n.X, n.Y}
	case *AssignExpr:
		return []Expr{n.LHS, n.RHS}
	case *SelectExpr:
		return []Expr{n.Test, n.True, n.False}
	case *ExprList:
		return n.Exprs
	case *FunctionCallExpr:
		all := append([]Expr{n.Fn}, n.Args...)
		return append(all, n.LaunchCount)
	case *IndexExpr:
		return []Expr{n.Base, n.Index}
	case *MemberExpr:
		return []Expr{n.Base}
	case *TypeCastExpr:
		return []Expr{n.X}
	case *ReferenceExpr:
		return []Expr{n.X}
	case *DereferenceExpr:
		return []Expr{n.X}
	case *AddressOfExpr:
		return []Expr{n.X}
	case *SizeOfExpr:
		return []Expr{n.X}
	case *NewExpr:
		return []Expr{n.Count, n.Init}
	}
	// ConstExpr, SymbolExpr, FunctionSymbolExpr, SyncExpr, and
	// NullPointerExpr are leaves.
	return nil
}
