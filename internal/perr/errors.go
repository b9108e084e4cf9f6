// Copyright (c) 2024 The Penguinc Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package perr is the compiler's error taxonomy (spec.md §7). Every fatal
// error raised by any phase is a *CompileError wrapped with a stack trace
// so -v can print where in the compiler the failure originated.
package perr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the closed set of failure categories from spec.md §7.
type Kind int

const (
	DuplicateDeclaration Kind = iota
	UndeclaredName
	TypeMismatch
	InvalidType
	InvalidAttribute
	InternalConsistency
	UnsupportedConstruct
)

func (k Kind) String() string {
	switch k {
	case DuplicateDeclaration:
		return "duplicate declaration"
	case UndeclaredName:
		return "undeclared name"
	case TypeMismatch:
		return "type mismatch"
	case InvalidType:
		return "invalid type"
	case InvalidAttribute:
		return "invalid attribute"
	case InternalConsistency:
		return "internal consistency"
	case UnsupportedConstruct:
		return "unsupported construct"
	default:
		return "unknown error"
	}
}

// CompileError carries at minimum a kind and the offending construct, per
// spec.md §7; Want/Got record declared/received types where relevant.
type CompileError struct {
	Kind      Kind
	Construct string
	Want      string
	Got       string
}

func (e *CompileError) Error() string {
	if e.Want != "" || e.Got != "" {
		return fmt.Sprintf("%s: %s (want %s, got %s)", e.Kind, e.Construct, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Construct)
}

// New builds a *CompileError and wraps it with a stack trace, so the CLI's
// -v mode can print provenance for internal-consistency failures without
// every call site having to remember to do so.
func New(kind Kind, construct string) error {
	return errors.WithStack(&CompileError{Kind: kind, Construct: construct})
}

// Newf is New with a formatted construct description.
func Newf(kind Kind, format string, args ...interface{}) error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Mismatch builds a TypeMismatch error recording the expected and actual
// types/descriptions.
func Mismatch(construct, want, got string) error {
	return errors.WithStack(&CompileError{Kind: TypeMismatch, Construct: construct, Want: want, Got: got})
}

// As unwraps err to a *CompileError, if any is in its chain.
func As(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
