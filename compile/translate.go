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

// thread and frame are the function's two parameters.
func (d *driver) thread() ir.Value { return d.fn.Param(0) }
func (d *driver) frame() ir.Value  { return d.fn.Param(1) }

func (d *driver) operand(pos, i int) bytecode.Word {
	return d.iseq.Encoded[pos+1+i]
}

func (d *driver) constOperand(b *ir.Block, pos, i int) ir.Value {
	return b.NewIntConst(ir.Int64, int64(d.operand(pos, i)))
}

// call resolves name in the registry and emits a call, declaring the helper
// in the module on first use.
func (d *driver) call(b *ir.Block, name string, args ...ir.Value) (ir.Value, error) {
	fn, err := d.registry.GetFunction(d.module, name)
	if err != nil {
		if e, ok := err.(runtime.UnknownHelperError); ok {
			return nil, UnknownHelperError{Name: e.Name}
		}
		return nil, err
	}
	return b.NewCall(fn, args...), nil
}

// pop pops n values off st, restoring original push order (values[0] is the
// deepest of the n, values[n-1] the former top) — the shape every composite
// constructor and dispatch opcode needs to replay its operands in order.
func pop(st *stack.Stack, n int) ([]ir.Value, error) {
	values := make([]ir.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := st.Pop()
		if err != nil {
			return nil, wrapStackErr(err)
		}
		values[i] = v
	}
	return values, nil
}

// translateInstr compiles one instruction into b, mutating st to reflect
// its abstract stack effect. It reports whether the instruction terminated
// the block: true means the driver must stop walking this block, because
// either a terminator was translated or (for the control-flow opcodes) the
// driver has already recursed into every successor itself.
func (d *driver) translateInstr(b *ir.Block, op bytecode.Op, pos int, st *stack.Stack) (bool, error) {
	switch op.Name {

	// --- literals and self ---

	case "putnil":
		v := b.NewIntConst(ir.Int64, int64(bytecode.Qnil))
		return false, wrapStackErr(st.Push(v))

	case "putobject":
		v := d.constOperand(b, pos, 0)
		return false, wrapStackErr(st.Push(v))

	case "putobject_INT2FIX_0":
		v := b.NewIntConst(ir.Int64, int64(bytecode.INT2FIX(0)))
		return false, wrapStackErr(st.Push(v))

	case "putobject_INT2FIX_1":
		v := b.NewIntConst(ir.Int64, int64(bytecode.INT2FIX(1)))
		return false, wrapStackErr(st.Push(v))

	case "putiseq":
		v := d.constOperand(b, pos, 0)
		return false, wrapStackErr(st.Push(v))

	case "putself":
		v, err := d.call(b, "self_from_cfp", d.frame())
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "putspecialobject":
		v, err := d.call(b, "putspecialobject", d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "putstring":
		v, err := d.call(b, "putstring", d.thread(), d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	// --- variable access ---

	case "getglobal":
		v, err := d.call(b, "getglobal", d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setglobal":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		_, err = d.call(b, "setglobal", d.constOperand(b, pos, 0), val)
		return false, err

	case "getinstancevariable":
		self, err := d.call(b, "self_from_cfp", d.frame())
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "getinstancevariable", self, d.constOperand(b, pos, 0), d.constOperand(b, pos, 1))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setinstancevariable":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		self, err := d.call(b, "self_from_cfp", d.frame())
		if err != nil {
			return false, err
		}
		_, err = d.call(b, "setinstancevariable", self, d.constOperand(b, pos, 0), d.constOperand(b, pos, 1), val)
		return false, err

	case "getclassvariable":
		v, err := d.call(b, "getclassvariable", d.frame(), d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setclassvariable":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		_, err = d.call(b, "setclassvariable", d.frame(), d.constOperand(b, pos, 0), val)
		return false, err

	case "getconstant":
		v, err := d.call(b, "getconstant", d.thread(), d.frame(), d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setconstant":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		_, err = d.call(b, "setconstant", d.frame(), d.constOperand(b, pos, 0), val)
		return false, err

	case "getspecial":
		v, err := d.call(b, "getspecial", d.thread(), d.constOperand(b, pos, 0), d.constOperand(b, pos, 1))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setspecial":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		_, err = d.call(b, "setspecial", d.constOperand(b, pos, 0), val)
		return false, err

	case "getlocal_OP__WC__0":
		v, err := d.call(b, "getlocal_level0", d.frame(), d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "setlocal_OP__WC__0":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		_, err = d.call(b, "setlocal_level0", d.frame(), d.constOperand(b, pos, 0), val)
		return false, err

	case "getlocal_OP__WC__1", "setlocal_OP__WC__1":
		// Outer-scope locals need a helper ABI the host has not defined
		// yet; abort rather than guess a signature.
		return false, UnsupportedOpcodeError{Name: op.Name}

	// --- stack manipulation: pure abstract-stack edits, no IR ---

	case "pop":
		_, err := st.Pop()
		return false, wrapStackErr(err)

	case "dup":
		v, err := st.TopN(0)
		if err != nil {
			return false, wrapStackErr(err)
		}
		return false, wrapStackErr(st.Push(v))

	case "dupn":
		n := int(d.operand(pos, 0))
		return false, wrapStackErr(st.DupN(n))

	case "swap":
		return false, wrapStackErr(st.Swap())

	case "topn":
		n := int(d.operand(pos, 0))
		v, err := st.TopN(n)
		if err != nil {
			return false, wrapStackErr(err)
		}
		return false, wrapStackErr(st.Push(v))

	case "setn":
		n := int(d.operand(pos, 0))
		top, err := st.TopN(0)
		if err != nil {
			return false, wrapStackErr(err)
		}
		return false, wrapStackErr(st.SetN(n, top))

	case "adjuststack":
		n := int(d.operand(pos, 0))
		return false, wrapStackErr(st.Adjust(n))

	// --- composite constructors ---

	case "newarray":
		n := int(d.operand(pos, 0))
		elems, err := pop(st, n)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "newarray", append([]ir.Value{d.thread()}, elems...)...)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "duparray":
		v, err := d.call(b, "duparray", d.thread(), d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "concatarray":
		pair, err := pop(st, 2)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "concatarray", d.thread(), pair[0], pair[1])
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "splatarray":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		v, err := d.call(b, "splatarray", d.thread(), d.constOperand(b, pos, 0), val)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "newhash":
		// newhash must preserve source key order: pop, which
		// restores original push order, already gives key0, value0, key1,
		// value1, ... in source order.
		n := int(d.operand(pos, 0))
		elems, err := pop(st, n)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "newhash", append([]ir.Value{d.thread()}, elems...)...)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "newrange":
		pair, err := pop(st, 2)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "newrange", d.thread(), pair[0], pair[1], d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "toregexp":
		cnt := int(d.operand(pos, 1))
		elems, err := pop(st, cnt)
		if err != nil {
			return false, err
		}
		args := append([]ir.Value{d.thread(), d.constOperand(b, pos, 1), d.constOperand(b, pos, 0)}, elems...)
		v, err := d.call(b, "toregexp", args...)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "concatstrings":
		n := int(d.operand(pos, 0))
		elems, err := pop(st, n)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "concatstrings", append([]ir.Value{d.thread()}, elems...)...)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "tostring":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		v, err := d.call(b, "tostring", d.thread(), val)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "freezestring":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		v, err := d.call(b, "freezestring", d.thread(), val, d.constOperand(b, pos, 0))
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	// --- method dispatch ---

	case "send", "opt_send_without_block", "invokesuper":
		return false, d.translateDispatch(b, op, pos, st)

	case "opt_plus", "opt_minus", "opt_lt":
		pair, err := pop(st, 2)
		if err != nil {
			return false, err
		}
		helper := map[string]string{"opt_plus": "opt_plus", "opt_minus": "opt_minus", "opt_lt": "opt_lt"}[op.Name]
		v, err := d.call(b, helper, pair[0], pair[1])
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "opt_mult", "opt_div", "opt_mod", "opt_eq", "opt_neq", "opt_le", "opt_gt", "opt_ge",
		"opt_ltlt", "opt_aref", "opt_regexpmatch2":
		pair, err := pop(st, 2)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "rb_funcall", d.thread(), d.constOperand(b, pos, 0), pair[0], pair[1])
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "opt_aset":
		triple, err := pop(st, 3)
		if err != nil {
			return false, err
		}
		v, err := d.call(b, "rb_funcall", d.thread(), d.constOperand(b, pos, 0), triple[0], triple[1], triple[2])
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "opt_length", "opt_size", "opt_empty_p", "opt_succ", "opt_not":
		val, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		v, err := d.call(b, "rb_funcall", d.thread(), d.constOperand(b, pos, 0), val)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "opt_aref_with":
		recv, err := st.Pop()
		if err != nil {
			return false, wrapStackErr(err)
		}
		key := d.constOperand(b, pos, 0)
		v, err := d.call(b, "rb_funcall", d.thread(), d.constOperand(b, pos, 1), recv, key)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	case "opt_aset_with":
		pair, err := pop(st, 2)
		if err != nil {
			return false, err
		}
		recv, val := pair[0], pair[1]
		key := d.constOperand(b, pos, 0)
		v, err := d.call(b, "rb_funcall", d.thread(), d.constOperand(b, pos, 1), recv, key, val)
		if err != nil {
			return false, err
		}
		return false, wrapStackErr(st.Push(v))

	// --- control flow, handled in control.go ---

	case "leave", "throw", "jump", "branchif", "branchunless", "branchnil", "opt_case_dispatch":
		return d.translateControl(b, op, pos, st)

	// --- instrumentation ---

	case "trace":
		_, err := d.call(b, "trace", d.thread(), d.frame(), d.constOperand(b, pos, 0))
		return false, err

	case "getinlinecache":
		v := b.NewIntConst(ir.Int64, int64(bytecode.Qnil))
		return false, wrapStackErr(st.Push(v))

	case "setinlinecache":
		return false, nil

	default:
		return false, UnsupportedOpcodeError{Name: op.Name}
	}
}

// translateDispatch lowers send/opt_send_without_block/invokesuper: pop the
// receiver plus ci.orig_argc arguments, call the helper with (thread,
// frame, call-info, call-cache, iseq-or-none, stack-size, receiver,
// args...), push the result. Call-info is otherwise an opaque operand
// word; this front-end reads its low byte as argc, which is the one piece
// of its structure the translator must interpret to know how many stack
// entries the opcode consumes.
func (d *driver) translateDispatch(b *ir.Block, op bytecode.Op, pos int, st *stack.Stack) error {
	ci := d.operand(pos, 0)
	argc := int(ci & 0xff)

	argv, err := pop(st, argc+1) // receiver + args, in source order
	if err != nil {
		return err
	}
	receiver, args := argv[0], argv[1:]

	none := b.NewIntConst(ir.Int64, int64(bytecode.Qundef))
	stackSize := b.NewIntConst(ir.Int64, int64(st.Len()))

	fixed := []ir.Value{d.thread(), d.frame(), d.constOperand(b, pos, 0), d.constOperand(b, pos, 1), none, stackSize, receiver}
	v, err := d.call(b, op.Name, append(fixed, args...)...)
	if err != nil {
		return err
	}
	return wrapStackErr(st.Push(v))
}
