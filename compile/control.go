// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/yalcin-go/llrb/bytecode"
	"github.com/yalcin-go/llrb/ir"
	"github.com/yalcin-go/llrb/stack"
)

// target resolves a relative branch offset operand to an absolute
// instruction address: pos + length(insn) + operand. Every control-flow
// opcode resolves its destination through here, the same arithmetic the
// leader scan uses.
func (d *driver) target(pos int, op bytecode.Op, operandIdx int) int {
	return pos + op.Length() + int(int64(d.operand(pos, operandIdx)))
}

// rtest lowers the host's truthiness predicate as a single AND + ICMP:
// (v & ^NilMask) != 0.
func (d *driver) rtest(b *ir.Block, v ir.Value) ir.Value {
	notNilMask := ^bytecode.NilMask
	mask := b.NewIntConst(ir.Int64, int64(notNilMask))
	masked := b.NewAnd(v, mask)
	zero := b.NewIntConst(ir.Int64, 0)
	return b.NewICmpNE(masked, zero)
}

// translateControl handles the control-flow opcode family.
// Unlike every other opcode, each of these either emits a terminator and
// stops (leave, throw, and jump with a non-empty stack), or recurses into
// one or both successors itself before returning; the caller
// (driver.enter) does not recurse on its behalf.
func (d *driver) translateControl(b *ir.Block, op bytecode.Op, pos int, st *stack.Stack) (bool, error) {
	switch op.Name {

	case "leave":
		if st.Len() != 1 {
			return false, StackShapeAtLeaveError{Depth: st.Len()}
		}
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		if _, err := d.call(b, "push_result", d.frame(), val); err != nil {
			return false, err
		}
		b.NewRet(d.frame())
		return true, nil

	case "throw":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		throwState := d.constOperand(b, pos, 0)
		if _, err := d.call(b, "insn_throw", d.thread(), d.frame(), throwState, val); err != nil {
			return false, err
		}
		b.NewRet(b.NewIntConst(ir.Int64, 0))
		return true, nil

	case "jump":
		dest := d.target(pos, op, 0)
		destEntry := d.entryAt(dest)
		if st.Len() == 0 {
			b.NewBr(destEntry.block)
			return true, d.enter(dest, nil)
		}
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		deposit(destEntry, val, b)
		b.NewBr(destEntry.block)
		// Do not recurse: the matching entry is reached later via the
		// fall-through chain of whatever block precedes it.
		return true, nil

	case "branchif", "branchunless":
		return true, d.translateBranch(b, op, pos, st)

	case "branchnil":
		return true, d.translateBranchNil(b, op, pos, st)

	case "opt_case_dispatch":
		// Stubbed: discard the dispatch value and fall through. Every
		// branch target opt_case_dispatch names was already registered as
		// a leader by leader.Analyze, so the CFG stays well-formed even
		// though those alternate targets are never reached from here.
		if _, err := st.Pop(); err != nil {
			return false, wrapStackErr(err)
		}
		fallthroughOff := pos + op.Length()
		fallEntry := d.entryAt(fallthroughOff)
		b.NewBr(fallEntry.block)
		if st.Len() > 0 {
			v, err := st.Pop()
			if err != nil {
				return false, wrapStackErr(err)
			}
			deposit(fallEntry, v, b)
		}
		return true, d.enter(fallthroughOff, st)

	default:
		return false, UnsupportedOpcodeError{Name: op.Name}
	}
}

// translateBranch handles branchif/branchunless. Both successors see an
// identical pre-branch stack prefix, so the stack is structurally copied
// before recursing; the single merge-candidate value (if any) is popped
// off each copy and routed to its destination's φ instead of being carried
// in the copy itself. For a backward branch_dest the value popped off the
// destination copy is dropped, not routed. At most one value ever merges
// at a join.
func (d *driver) translateBranch(b *ir.Block, op bytecode.Op, pos int, st *stack.Stack) error {
	branchDest := d.target(pos, op, 0)
	fallthroughOff := pos + op.Length()

	cond, err := st.Pop()
	if err != nil {
		return wrapStackErr(err)
	}
	rt := d.rtest(b, cond)

	fallEntry := d.entryAt(fallthroughOff)
	destEntry := d.entryAt(branchDest)

	fallCopy := st.Copy()
	destCopy := st.Copy()

	if st.Len() > 0 {
		v, err := fallCopy.Pop()
		if err != nil {
			return wrapStackErr(err)
		}
		deposit(fallEntry, v, b)

		v2, err := destCopy.Pop()
		if err != nil {
			return wrapStackErr(err)
		}
		if branchDest > pos {
			// Forward jump only: a backward branchDest is a loop
			// back-edge, which deliberately skips φ-origination here.
			deposit(destEntry, v2, b)
		}
	}

	thenBlock, elseBlock := destEntry.block, fallEntry.block
	if op.Name == "branchunless" {
		thenBlock, elseBlock = fallEntry.block, destEntry.block
	}
	b.NewCondBr(rt, thenBlock, elseBlock)

	if err := d.enter(fallthroughOff, fallCopy); err != nil {
		return err
	}
	return d.enter(branchDest, destCopy)
}

// translateBranchNil handles branchnil: routes a nil literal
// to branch_dest's φ and recurses only into the fall-through.
func (d *driver) translateBranchNil(b *ir.Block, op bytecode.Op, pos int, st *stack.Stack) error {
	branchDest := d.target(pos, op, 0)
	fallthroughOff := pos + op.Length()

	cond, err := st.Pop()
	if err != nil {
		return wrapStackErr(err)
	}
	nilConst := b.NewIntConst(ir.Int64, int64(bytecode.Qnil))
	cmp := b.NewICmpNE(cond, nilConst)

	fallEntry := d.entryAt(fallthroughOff)
	destEntry := d.entryAt(branchDest)

	b.NewCondBr(cmp, fallEntry.block, destEntry.block)
	deposit(destEntry, nilConst, b)

	return d.enter(fallthroughOff, st)
}
