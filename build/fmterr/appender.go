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

package fmterr

import (
	"go/token"
	"sync"

	"go.uber.org/multierr"
)

// Sink receives diagnostics as they are reported.
type Sink interface {
	// Report a diagnostic. Called exactly once per failure.
	Report(pos token.Position, sev Severity, err error)
}

// Appender resolves positions against a file set and accumulates
// diagnostics. An outer driver may check independent declarations in
// parallel: appending is serialized.
type Appender struct {
	fset *token.FileSet
	sink Sink

	mu   sync.Mutex
	errs []error
	num  int
}

// NewAppender returns a new appender resolving positions with fset.
// fset may be nil, in which case diagnostics carry no position. sink
// may be nil, in which case diagnostics are only accumulated.
func NewAppender(fset *token.FileSet, sink Sink) *Appender {
	return &Appender{fset: fset, sink: sink}
}

// Position resolves a position against the appender file set.
func (app *Appender) Position(pos token.Pos) token.Position {
	if app.fset == nil {
		return token.Position{}
	}
	return app.fset.Position(pos)
}

// FileSet returns the file set used to resolve positions.
func (app *Appender) FileSet() *token.FileSet {
	return app.fset
}

// Append an error to the accumulated diagnostics.
// Always returns false so failure paths can report and return in one
// statement.
func (app *Appender) Append(err error) bool {
	app.mu.Lock()
	app.errs = append(app.errs, err)
	app.num++
	app.mu.Unlock()
	if app.sink != nil {
		pos := token.Position{}
		sev := Error
		if d, ok := err.(*Diagnostic); ok {
			pos, sev = d.pos, d.sev
		}
		app.sink.Report(pos, sev, err)
	}
	return false
}

// Appendf reports a diagnostic of a kind at a position.
// Always returns false.
func (app *Appender) Appendf(kind Kind, pos token.Pos, format string, a ...any) bool {
	return app.Append(Errorf(kind, app.Position(pos), format, a...))
}

// AppendInternalf reports a compiler bug at a position.
// Always returns false.
func (app *Appender) AppendInternalf(pos token.Pos, format string, a ...any) bool {
	return app.Appendf(Internal, pos, "internal error, please report: "+format, a...)
}

// Empty returns true if no diagnostic has been reported.
func (app *Appender) Empty() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.num == 0
}

// Count returns the number of diagnostics reported so far. The driver
// suppresses code generation when the count is not zero.
func (app *Appender) Count() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.num
}

// Errors returns the diagnostics reported so far.
func (app *Appender) Errors() []error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return append([]error{}, app.errs...)
}

// ToError combines all diagnostics into one error, or returns nil if
// none was reported.
func (app *Appender) ToError() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return multierr.Combine(app.errs...)
}
