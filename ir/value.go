// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// Op identifies what operation produced a Value.
type Op int

const (
	OpParam Op = iota
	OpConst
	OpCall
	OpAnd
	OpICmpNE
	OpPhi
	OpBr
	OpCondBr
	OpRet
)

func (op Op) String() string {
	switch op {
	case OpParam:
		return "param"
	case OpConst:
		return "const"
	case OpCall:
		return "call"
	case OpAnd:
		return "and"
	case OpICmpNE:
		return "icmp ne"
	case OpPhi:
		return "phi"
	case OpBr:
		return "br"
	case OpCondBr:
		return "condbr"
	case OpRet:
		return "ret"
	default:
		return fmt.Sprintf("<unknown op %d>", int(op))
	}
}

// Instr is the concrete Value implementation for every non-φ instruction:
// parameters, constants, calls, bitwise/compare ops, branches, and
// returns. A single type covers them all, distinguished by Op.
type Instr struct {
	id    int
	op    Op
	typ   Type
	args  []Value
	extra interface{} // constant value, callee *Func, or branch target(s)
	block *Block
}

func (v *Instr) ID() int     { return v.id }
func (v *Instr) Type() Type  { return v.typ }
func (v *Instr) Args() []Value {
	return v.args
}
func (v *Instr) Op() Op { return v.op }

// Extra returns the op-specific payload: the constant for OpConst, the
// *Func for OpCall, the *Block (or pair of *Block) for OpBr/OpCondBr.
func (v *Instr) Extra() interface{} { return v.extra }

func (v *Instr) String() string {
	switch v.op {
	case OpConst:
		return fmt.Sprintf("v%d = const %s %d", v.id, v.typ, v.extra.(int64))
	case OpParam:
		return fmt.Sprintf("v%d = param %s %d", v.id, v.typ, v.extra.(int))
	case OpCall:
		fn := v.extra.(*Func)
		s := fmt.Sprintf("v%d = call %s %s(", v.id, v.typ, fn.Name)
		for i, a := range v.args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ")"
	case OpAnd:
		return fmt.Sprintf("v%d = and %s %s, %s", v.id, v.typ, v.args[0], v.args[1])
	case OpICmpNE:
		return fmt.Sprintf("v%d = icmp ne %s, %s", v.id, v.args[0], v.args[1])
	case OpBr:
		return fmt.Sprintf("br %s", v.extra.(*Block).Label)
	case OpCondBr:
		targets := v.extra.([2]*Block)
		return fmt.Sprintf("condbr %s, %s, %s", v.args[0], targets[0].Label, targets[1].Label)
	case OpRet:
		if len(v.args) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", v.args[0])
	default:
		return fmt.Sprintf("v%d = %s", v.id, v.op)
	}
}

// Edge is one incoming arm of a φ-node: the value contributed and the
// predecessor block it arrives from.
type Edge struct {
	Value Value
	Block *Block
}

// Phi is a φ-node at a block's head: its value is selected per predecessor
// edge. It satisfies Value so it can be pushed onto the abstract operand
// stack like any other result.
type Phi struct {
	id       int
	typ      Type
	block    *Block
	Incoming []Edge
}

func (p *Phi) ID() int    { return p.id }
func (p *Phi) Type() Type { return p.typ }

// AddIncoming appends one (value, predecessor) pair to the φ-node. Called
// either while draining a block's pending-incoming buffers (deferred
// route) or directly once the φ already exists (incremental route).
func (p *Phi) AddIncoming(val Value, pred *Block) {
	p.Incoming = append(p.Incoming, Edge{Value: val, Block: pred})
}

func (p *Phi) String() string {
	s := fmt.Sprintf("v%d = phi %s", p.id, p.typ)
	for i, e := range p.Incoming {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(" [%s, %s]", e.Value, e.Block.Label)
	}
	return s
}
