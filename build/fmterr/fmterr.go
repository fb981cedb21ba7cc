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

// Package fmterr formats and accumulates compiler diagnostics.
//
// Every failure path of the expression subsystem reports exactly one
// diagnostic through an Appender before returning a failure result.
// A failure is local to the failing subexpression: siblings keep being
// checked so one compilation attempt yields as many diagnostics as
// possible.
package fmterr

import (
	"fmt"
	"go/token"

	"github.com/pkg/errors"
)

// Kind classifies a diagnostic.
type Kind uint8

// Diagnostic kinds.
const (
	// Internal marks a bug in the compiler itself.
	Internal Kind = iota
	// TypeError reports an incompatible conversion, an assignment to a
	// const target, or an invalid operand for an operator.
	TypeError
	// StructuralError reports calling a non-callable, indexing a
	// non-indexable, assigning to a non-lvalue, or accessing a missing
	// member.
	StructuralError
	// OverloadError reports an unresolved or ambiguous call.
	OverloadError
	// ConstantError reports a failure while folding compile-time
	// values, such as an integer division by zero.
	ConstantError
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case TypeError:
		return "type error"
	case StructuralError:
		return "structural error"
	case OverloadError:
		return "overload error"
	case ConstantError:
		return "constant error"
	}
	return "internal error"
}

// Severity of a diagnostic.
type Severity uint8

// Severities.
const (
	Warning Severity = iota
	Error
)

// String returns a string representation of the severity.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is an error attached to a position in Vex source code.
type Diagnostic struct {
	kind Kind
	sev  Severity
	pos  token.Position
	err  error
}

// Errorf builds a diagnostic at a position.
func Errorf(kind Kind, pos token.Position, format string, a ...any) *Diagnostic {
	return &Diagnostic{
		kind: kind,
		sev:  Error,
		pos:  pos,
		err:  errors.Errorf(format, a...),
	}
}

// Kind of the diagnostic.
func (d *Diagnostic) Kind() Kind { return d.kind }

// Severity of the diagnostic.
func (d *Diagnostic) Severity() Severity { return d.sev }

// Position of the diagnostic in the source.
func (d *Diagnostic) Position() token.Position { return d.pos }

// Unwrap returns the underlying error.
func (d *Diagnostic) Unwrap() error { return d.err }

// Error returns the diagnostic as a string.
func (d *Diagnostic) Error() string {
	if !d.pos.IsValid() {
		return fmt.Sprintf("%s: %s", d.kind, d.err)
	}
	return fmt.Sprintf("%s: %s: %s", d.pos, d.kind, d.err)
}

// IsKind returns true if err is or wraps a diagnostic of the given
// kind. Combined errors match if any of their diagnostics does.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if d, ok := err.(*Diagnostic); ok && d.kind == kind {
			return true
		}
		if m, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range m.Unwrap() {
				if IsKind(e, kind) {
					return true
				}
			}
			return false
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
