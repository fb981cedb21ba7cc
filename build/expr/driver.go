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

// Check runs both passes over one expression tree: TypeCheck, then
// Optimize. The returned node replaces the argument; a false result
// means diagnostics were appended to the environment and the tree must
// be discarded.
func Check(env *Env, e Expr) (Expr, bool) {
	e, ok := e.TypeCheck(env)
	if !ok {
		return nil, false
	}
	return e.Optimize(env)
}

// CheckAll runs both passes over independent expression trees, for
// example the initializers of a declaration list. All trees are checked
// even after one fails, so one pass reports every diagnostic.
func CheckAll(env *Env, exprs []Expr) bool {
	ok := true
	for i := range exprs {
		n, good := Check(env, exprs[i])
		if !good {
			ok = false
			continue
		}
		exprs[i] = n
	}
	return ok
}
