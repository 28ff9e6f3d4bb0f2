/*
 * errors.go, part of cdft.
 *
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package cdft

import (
	"errors"
	"fmt"
	"strings"
)

//Kind identifies the class of an Error.
type Kind int

const (
	InvalidGeometry Kind = iota + 1
	GeometryMismatch
	OrbitalIndexOutOfRange
	DegenerateHardness
	UnknownHardnessMethod
	InconsistentBandParameters
	MissingInput
	SkippedEmptyMolecule
	DegenerateNormalization
)

var kindNames = map[Kind]string{
	InvalidGeometry:            "invalid geometry",
	GeometryMismatch:           "geometry mismatch",
	OrbitalIndexOutOfRange:     "orbital index out of range",
	DegenerateHardness:         "degenerate hardness",
	UnknownHardnessMethod:      "unknown hardness method",
	InconsistentBandParameters: "inconsistent band parameters",
	MissingInput:               "missing input",
	SkippedEmptyMolecule:       "skipped empty molecule",
	DegenerateNormalization:    "degenerate normalization",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

//Critical returns false for the kinds a caller can reasonably
//skip or replace with a fallback (numerical degeneracies, empty molecules).
func (k Kind) Critical() bool {
	switch k {
	case DegenerateHardness, DegenerateNormalization, SkippedEmptyMolecule:
		return false
	}
	return true
}

//Error is the error type returned by all the packages in cdft. It fulfills the goChem
//error contract (Error, Decorate, Critical) and adds a Kind, so errors.Is can be used against the
//Err* values below.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

//NewError returns a new error of the given kind. caller, if not empty,
//is the first decoration of the error.
func NewError(kind Kind, message, caller string) *Error {
	err := &Error{kind: kind, message: message}
	err.Decorate(caller)
	return err
}

//Errorf is NewError with a formatted message.
func Errorf(kind Kind, caller, format string, a ...interface{}) *Error {
	return NewError(kind, fmt.Sprintf(format, a...), caller)
}

func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("cdft: %s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("cdft: %s: %s (%s)", err.kind, err.message, strings.Join(err.deco, " <- "))
}

//Decorate adds new information to the error, normally the name of the calling function,
//and returns the current decoration slice. An empty string just returns the slice.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error should abort the current molecule.
func (err *Error) Critical() bool { return err.kind.Critical() }

//Kind returns the kind of the error
func (err *Error) Kind() Kind { return err.kind }

//Message returns the undecorated message.
func (err *Error) Message() string { return err.message }

//Is reports whether target is an *Error of the same kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == err.kind
}

//Sentinels to use with errors.Is
var (
	ErrInvalidGeometry            = &Error{kind: InvalidGeometry}
	ErrGeometryMismatch           = &Error{kind: GeometryMismatch}
	ErrOrbitalIndexOutOfRange     = &Error{kind: OrbitalIndexOutOfRange}
	ErrDegenerateHardness         = &Error{kind: DegenerateHardness}
	ErrUnknownHardnessMethod      = &Error{kind: UnknownHardnessMethod}
	ErrInconsistentBandParameters = &Error{kind: InconsistentBandParameters}
	ErrMissingInput               = &Error{kind: MissingInput}
	ErrSkippedEmptyMolecule       = &Error{kind: SkippedEmptyMolecule}
	ErrDegenerateNormalization    = &Error{kind: DegenerateNormalization}
)

//ErrDecorate decorates err with caller if err is an *Error, and returns it.
//Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

//IsKind returns true if err, or an error it wraps, is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind == k
}

//IsCritical returns true for every error except non-critical *Error values.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Critical()
	}
	return true
}
