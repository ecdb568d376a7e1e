/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package featerr classifies the fatal conditions of a feature extraction run.
package featerr

import (
	"errors"
	"fmt"
)

type ErrKind int16

const (
	Unknown ErrKind = iota
	// Schema is a malformed input table or a payload that does not fit its slice.
	Schema
	// Catalog is a range or constant-signal catalog that disagrees with the source catalog.
	Catalog
	// Invariant is a scaled value outside [0, 1] or a non-finite value in the output sequence.
	Invariant
	// Sink is a failure to persist the output sequence.
	Sink
)

func (ek ErrKind) String() string {
	switch ek {
	case Schema:
		return "Schema"
	case Catalog:
		return "Catalog"
	case Invariant:
		return "Invariant"
	case Sink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Error is a fatal error tagged with the kind of condition that caused it.
type Error struct {
	kind ErrKind
	msg  string
	err  error
}

func New(kind ErrKind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind, keeping it reachable through errors.Unwrap.
func Wrap(kind ErrKind, err error, msg string) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() ErrKind {
	return e.kind
}

// KindOf returns the kind of the first *Error in err's chain, Unknown otherwise.
func KindOf(err error) ErrKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return Unknown
}
