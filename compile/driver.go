// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/yalcin-go/llrb/bytecode"
	"github.com/yalcin-go/llrb/ir"
	"github.com/yalcin-go/llrb/runtime"
	"github.com/yalcin-go/llrb/stack"
)

// driver walks the block table, compiling one basic block per call to
// enter. It is created once per CompileISeq call and never
// shared across compilations.
type driver struct {
	module   *ir.Module
	fn       *ir.Function
	iseq     *bytecode.ISeq
	table    bytecode.OpTable
	registry *runtime.Registry
	entries  map[int]*blockEntry
}

// entryAt looks up the block-table entry for a leader offset. Every offset
// passed to enter is either 0, a branch target, or a computed fall-through
// successor — all three are leaders by construction (leader.Analyze's three
// rules), so a missing entry indicates a bug in the caller rather than
// malformed bytecode.
func (d *driver) entryAt(offset int) *blockEntry {
	e, ok := d.entries[offset]
	if !ok {
		panic("compile: no block-table entry for leader offset")
	}
	return e
}

// enter compiles the block at offset, or returns immediately if it was
// already visited. incoming is the abstract stack state handed off by the
// caller, or nil if none was available (true only for the entry block and
// the jump-with-empty-stack fast path).
func (d *driver) enter(offset int, incoming *stack.Stack) error {
	entry := d.entryAt(offset)
	if entry.compiled {
		return nil
	}
	entry.compiled = true
	b := entry.block

	var st *stack.Stack
	if incoming != nil {
		st = incoming
	} else {
		st = stack.New(d.iseq.StackMax)
	}

	if len(entry.pendingValues) > 0 {
		if len(entry.pendingValues) != len(entry.pendingBlocks) {
			return Error{Offset: offset, Opcode: b.Label, Err: InconsistentJoinError{
				Values: len(entry.pendingValues),
				Blocks: len(entry.pendingBlocks),
			}}
		}
		phi := b.NewPhi(ir.Int64)
		for i := range entry.pendingValues {
			phi.AddIncoming(entry.pendingValues[i], entry.pendingBlocks[i])
		}
		entry.phi = phi
		if err := st.Push(phi); err != nil {
			return Error{Offset: offset, Opcode: b.Label, Err: wrapStackErr(err)}
		}
	}

	pos := offset
	for pos <= entry.blockEnd {
		op, err := d.table.Decode(d.iseq.Encoded, pos)
		if err != nil {
			return Error{Offset: pos, Opcode: "?", Err: err}
		}
		logger.Printf("compiling %s at %d in %s (stack depth %d)", op.Name, pos, b.Label, st.Len())

		jumped, err := d.translateInstr(b, op, pos, st)
		if err != nil {
			return Error{Offset: pos, Opcode: op.Name, Err: err}
		}
		if jumped {
			return nil
		}
		pos += op.Length()
	}

	// Block ran off its end without a terminator: fall through to the
	// next leader, if one exists.
	next := entry.blockEnd + 1
	if next >= d.iseq.Size {
		return nil
	}
	nextEntry := d.entryAt(next)
	b.NewBr(nextEntry.block)

	var cont *stack.Stack
	if st.Len() > 0 {
		v, err := st.Pop()
		if err != nil {
			return Error{Offset: pos, Opcode: b.Label, Err: wrapStackErr(err)}
		}
		deposit(nextEntry, v, b)
	}
	cont = st
	return d.enter(next, cont)
}
