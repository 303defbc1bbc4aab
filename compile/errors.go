// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"github.com/yalcin-go/llrb/stack"
)

// wrapStackErr translates a stack package error into this package's own
// StackOverflowError/StackUnderflowError, so every error compile.CompileISeq
// returns is one of the typed kinds below.
func wrapStackErr(err error) error {
	switch e := err.(type) {
	case stack.OverflowError:
		return StackOverflowError{Capacity: e.Capacity}
	case stack.UnderflowError:
		return StackUnderflowError{Have: e.Size, Want: e.Want}
	default:
		return err
	}
}

// Error wraps one of the typed errors below with the offset and opcode name
// active when it was raised, the way validate.Error wraps a validator
// failure with its offset and function index. It is what CompileISeq
// returns; callers that want to discriminate on error kind should use
// errors.As on the wrapped Err.
type Error struct {
	Offset int
	Opcode string
	Err    error
}

func (e Error) Error() string {
	return fmt.Sprintf("compile: at %d (%s): %v", e.Offset, e.Opcode, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

// StackOverflowError is raised when a push would exceed stack_max.
type StackOverflowError struct {
	Capacity int
}

func (e StackOverflowError) Error() string {
	return fmt.Sprintf("compile: stack overflow (capacity %d)", e.Capacity)
}

// StackUnderflowError is raised when an instruction needs more values than
// the abstract stack currently holds.
type StackUnderflowError struct {
	Have int
	Want int
}

func (e StackUnderflowError) Error() string {
	return fmt.Sprintf("compile: stack underflow (have %d, want %d)", e.Have, e.Want)
}

// UnknownHelperError is raised when the translator requests a helper name
// the registry has no signature for.
type UnknownHelperError struct {
	Name string
}

func (e UnknownHelperError) Error() string {
	return fmt.Sprintf("compile: unknown helper %q", e.Name)
}

// UnsupportedOpcodeError is raised for any opcode the translator has no
// case for.
type UnsupportedOpcodeError struct {
	Name string
}

func (e UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("compile: unsupported opcode %q", e.Name)
}

// StackShapeAtLeaveError is raised when leave is reached with a stack depth
// other than 1.
type StackShapeAtLeaveError struct {
	Depth int
}

func (e StackShapeAtLeaveError) Error() string {
	return fmt.Sprintf("compile: leave reached with stack depth %d, want 1", e.Depth)
}

// StackShapeAtReturnError describes a branch-block that finished evaluation
// with a stack depth other than 1. The driver in this package does not
// check for that condition, so CompileISeq never returns this error.
type StackShapeAtReturnError struct {
	Depth int
}

func (e StackShapeAtReturnError) Error() string {
	return fmt.Sprintf("compile: block finished with stack depth %d, want 1", e.Depth)
}

// InconsistentJoinError is raised when a deferred φ's pending_values and
// pending_blocks buffers have different lengths.
type InconsistentJoinError struct {
	Values int
	Blocks int
}

func (e InconsistentJoinError) Error() string {
	return fmt.Sprintf("compile: inconsistent join (%d pending values, %d pending blocks)", e.Values, e.Blocks)
}

// TypeMismatchError describes a helper signature that names an IR type this
// module cannot map an operand to. Helper signatures are built from ir.Type
// values only and are not checked against call operands, so CompileISeq
// never returns this error.
type TypeMismatchError struct {
	Helper string
	Detail string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("compile: type mismatch calling %q: %s", e.Helper, e.Detail)
}
