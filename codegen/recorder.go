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

package codegen

import (
	"fmt"

	"github.com/vexlang/vex/build/types"
)

// Recorder is an Emitter that records the mnemonics of the primitives
// requested from it. It backs tests that assert on the emission
// sequence of an expression without a real backend.
type Recorder struct {
	// Ops is the sequence of primitives emitted so far.
	Ops []string

	next int
}

var _ Emitter = (*Recorder)(nil)

func (r *Recorder) record(format string, a ...any) Value {
	r.Ops = append(r.Ops, fmt.Sprintf(format, a...))
	r.next++
	return r.next
}

// Constant records a constant materialization.
func (r *Recorder) Constant(typ types.Type, raw []uint64) Value {
	return r.record("const %s x%d", typ, len(raw))
}

// Null records a null pointer materialization.
func (r *Recorder) Null(typ types.Type) Value {
	return r.record("null %s", typ)
}

// SizeOf records a size computation.
func (r *Recorder) SizeOf(typ types.Type) Value {
	return r.record("sizeof %s", typ)
}

// Convert records a conversion.
func (r *Recorder) Convert(x Value, from, to types.Type) Value {
	return r.record("convert %s -> %s", from, to)
}

// Arith records an arithmetic primitive.
func (r *Recorder) Arith(op BinOp, x, y Value, typ types.Type) Value {
	return r.record("%s %s", op, typ)
}

// Compare records a comparison primitive.
func (r *Recorder) Compare(op CmpOp, x, y Value, typ types.Type) Value {
	return r.record("cmp %s %s", op, typ)
}

// Unary records a unary primitive.
func (r *Recorder) Unary(op UnOp, x Value, typ types.Type) Value {
	return r.record("%s %s", op, typ)
}

// Select records a select primitive.
func (r *Recorder) Select(test, a, b Value, typ types.Type) Value {
	return r.record("select %s", typ)
}

// SymbolAddress records a symbol address request.
func (r *Recorder) SymbolAddress(sym *types.Symbol) Address {
	return r.record("addr %s", sym)
}

// ElementAddress records an element address computation.
func (r *Recorder) ElementAddress(base Address, index Value, elem types.Type) Address {
	return r.record("elemaddr %s", elem)
}

// FieldAddress records a field address computation.
func (r *Recorder) FieldAddress(base Address, field int, typ types.Type) Address {
	return r.record("fieldaddr %d", field)
}

// Deref records a pointer dereference.
func (r *Recorder) Deref(ptr Value, elem types.Type) Address {
	return r.record("deref %s", elem)
}

// AddressValue records an address materialization.
func (r *Recorder) AddressValue(addr Address, typ types.Type) Value {
	return r.record("addrvalue %s", typ)
}

// Load records a load.
func (r *Recorder) Load(addr Address, typ types.Type) Value {
	return r.record("load %s", typ)
}

// Store records a store.
func (r *Recorder) Store(x Value, addr Address, typ types.Type) {
	r.record("store %s", typ)
}

// Call records a function call.
func (r *Recorder) Call(fn *types.Symbol, args []Value, ret types.Type) Value {
	return r.record("call %s", fn)
}

// Launch records a task launch.
func (r *Recorder) Launch(fn *types.Symbol, args []Value, count Value) Value {
	return r.record("launch %s", fn)
}

// Sync records a synchronization.
func (r *Recorder) Sync() Value {
	return r.record("sync")
}

// Alloc records a dynamic allocation.
func (r *Recorder) Alloc(typ types.Type, count Value, varying bool) Value {
	return r.record("alloc %s", typ)
}

// Shuffle records a swizzle.
func (r *Recorder) Shuffle(x Value, idx []int, typ types.Type) Value {
	return r.record("shuffle %v", idx)
}
