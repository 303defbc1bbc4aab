// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Block represents a single basic block within a function's control-flow
// graph: a label plus an ordered instruction list. At most one φ-node may
// sit at a block's head; Phi caches it once created.
type Block struct {
	ID       int
	Label    string
	Function *Function
	Instrs   []Value
	Phi      *Phi
}

func (f *Function) newID() int {
	f.valueSeq++
	return f.valueSeq
}

func (b *Block) push(v Value) {
	b.Instrs = append(b.Instrs, v)
}

// Terminated reports whether the block already ends in a branch, a
// conditional branch, or a return. Every emitted block must end in exactly
// one of the three.
func (b *Block) Terminated() bool {
	if len(b.Instrs) == 0 {
		return false
	}
	switch last := b.Instrs[len(b.Instrs)-1].(type) {
	case *Instr:
		switch last.op {
		case OpBr, OpCondBr, OpRet:
			return true
		}
	}
	return false
}

// NewPhi creates a φ-node at this block's head. Callers must not call
// NewPhi twice for the same block; the compile package enforces this via
// blockEntry.phi caching.
func (b *Block) NewPhi(typ Type) *Phi {
	p := &Phi{id: b.Function.newID(), typ: typ, block: b}
	b.Instrs = append([]Value{p}, b.Instrs...)
	b.Phi = p
	return p
}

// NewIntConst materializes a constant integer value.
func (b *Block) NewIntConst(typ Type, v int64) Value {
	i := &Instr{id: b.Function.newID(), op: OpConst, typ: typ, extra: v, block: b}
	b.push(i)
	return i
}

// NewCall emits a call to fn with the given arguments and pushes the
// result (void calls still produce a Value of Type() == Void; callers
// that don't need it simply don't push it onto the abstract stack).
func (b *Block) NewCall(fn *Func, args ...Value) Value {
	i := &Instr{id: b.Function.newID(), op: OpCall, typ: fn.Type.Ret, args: args, extra: fn, block: b}
	b.push(i)
	return i
}

// NewAnd emits a bitwise AND of a and c.
func (b *Block) NewAnd(a, c Value) Value {
	i := &Instr{id: b.Function.newID(), op: OpAnd, typ: Int64, args: []Value{a, c}, block: b}
	b.push(i)
	return i
}

// NewICmpNE emits an integer not-equal compare, producing an i32 boolean.
func (b *Block) NewICmpNE(a, c Value) Value {
	i := &Instr{id: b.Function.newID(), op: OpICmpNE, typ: Int32, args: []Value{a, c}, block: b}
	b.push(i)
	return i
}

// NewBr emits an unconditional branch to target, terminating the block.
func (b *Block) NewBr(target *Block) {
	i := &Instr{id: b.Function.newID(), op: OpBr, typ: Void, extra: target, block: b}
	b.push(i)
}

// NewCondBr emits a conditional branch: to thenBlock if cond is non-zero,
// elseBlock otherwise. Terminates the block.
func (b *Block) NewCondBr(cond Value, thenBlock, elseBlock *Block) {
	i := &Instr{id: b.Function.newID(), op: OpCondBr, typ: Void, args: []Value{cond}, extra: [2]*Block{thenBlock, elseBlock}, block: b}
	b.push(i)
}

// NewRet emits a return of v (or a bare return if v is nil, for void
// functions), terminating the block.
func (b *Block) NewRet(v Value) {
	var args []Value
	if v != nil {
		args = []Value{v}
	}
	i := &Instr{id: b.Function.newID(), op: OpRet, typ: Void, args: args, block: b}
	b.push(i)
}
