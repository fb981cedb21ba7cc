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

package types

import "go/token"

// StorageClass of a symbol.
type StorageClass uint8

// Storage classes of Vex symbols.
const (
	StorageLocal StorageClass = iota
	StorageGlobal
	StorageParam
	StorageExport
)

// String returns a string representation of the storage class.
func (s StorageClass) String() string {
	switch s {
	case StorageGlobal:
		return "global"
	case StorageParam:
		return "param"
	case StorageExport:
		return "export"
	}
	return "local"
}

// Symbol is a named entity declared in the program: a variable, a
// function parameter, or a function. Expressions refer to symbols but
// never own them; the symbol table does.
type Symbol struct {
	Name    string
	Type    Type
	Storage StorageClass
	Pos     token.Pos
}

// String returns the symbol name.
func (s *Symbol) String() string {
	return s.Name
}
