// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytecode describes the host VM's compiled-method bytecode: the
// instruction stream handed to the front-end compiler, and the read-only
// opcode metadata (name, length, operand kinds) the host provides alongside
// it. Nothing in this package executes bytecode; it only describes its
// shape.
package bytecode

import "fmt"

// Word is a single element of the host's encoded instruction stream. Each
// instruction occupies 1+operandCount words, the first of which is an
// opcode handle resolvable via an OpTable.
type Word uint64

// ISeq is the bytecode for a single compiled method body: the host's
// iseq_encoded/iseq_size/stack_max record, plus the auxiliary counts the
// front-end needs to size locals.
type ISeq struct {
	// Size is the length of Encoded, in words (iseq_size).
	Size int
	// Encoded is the instruction stream (iseq_encoded).
	Encoded []Word
	// StackMax is the runtime stack high-water mark; sizes the abstract
	// operand stack.
	StackMax int
	// LocalsCount is the number of local variable slots in the frame,
	// including arguments.
	LocalsCount int
	// ArgsCount is the number of argument slots among LocalsCount.
	ArgsCount int
}

// OperandKind classifies one operand word of an instruction.
type OperandKind int

const (
	// OperandLiteral is a raw numeric literal, pushed or used verbatim.
	OperandLiteral OperandKind = iota
	// OperandOffset is a relative branch offset; leader.Analyze and the
	// translator resolve it to an absolute instruction offset.
	OperandOffset
	// OperandValueRef is a reference to a value (an interned ID, symbol,
	// or similar), forwarded verbatim to a helper.
	OperandValueRef
	// OperandCallInfo is a call-info word, forwarded verbatim to a
	// dispatch helper.
	OperandCallInfo
	// OperandInlineCache is an inline-cache word, forwarded verbatim to a
	// dispatch helper.
	OperandInlineCache
	// OperandISeqRef references a nested iseq (e.g. a block or lambda
	// body); forwarded verbatim, never interpreted by this package.
	OperandISeqRef
)

func (k OperandKind) String() string {
	switch k {
	case OperandLiteral:
		return "literal"
	case OperandOffset:
		return "offset"
	case OperandValueRef:
		return "value_ref"
	case OperandCallInfo:
		return "call_info"
	case OperandInlineCache:
		return "inline_cache"
	case OperandISeqRef:
		return "iseq_ref"
	default:
		return fmt.Sprintf("<unknown operand kind %d>", int(k))
	}
}

// Op is the metadata for one opcode (numeric code, name, operand kinds), as
// returned by OpTable.Decode for an opcode handle Word in Encoded.
type Op struct {
	Code         int
	Name         string
	OperandKinds []OperandKind
}

// Length returns the number of words this instruction occupies, including
// the leading opcode word.
func (op Op) Length() int {
	return 1 + len(op.OperandKinds)
}

// OpTable resolves opcode handles in an instruction stream to metadata:
// name, length in words, and operand kinds. It is supplied read-only by
// the host; no front-end component mutates an OpTable.
type OpTable interface {
	// Decode resolves the opcode handle stored at word addr in encoded.
	Decode(encoded []Word, addr int) (Op, error)
}

// UnknownOpcodeError is returned by an OpTable when a word does not
// resolve to a known opcode.
type UnknownOpcodeError struct {
	Word Word
	Addr int
}

func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("bytecode: unknown opcode %#x at word offset %d", uint64(e.Word), e.Addr)
}
