// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

// The opcode set the translator understands. This is a concrete reference
// table: real data a host can use as-is, or replace with its own numbering
// via a different OpTable implementation.

func op(code int, name string, kinds ...OperandKind) Op {
	return Op{Code: code, Name: name, OperandKinds: kinds}
}

var (
	Putnil               = op(0, "putnil")
	Putobject            = op(1, "putobject", OperandLiteral)
	PutobjectInt2Fix0    = op(2, "putobject_INT2FIX_0")
	PutobjectInt2Fix1    = op(3, "putobject_INT2FIX_1")
	Putiseq              = op(4, "putiseq", OperandISeqRef)
	Putself              = op(5, "putself")
	Putspecialobject     = op(6, "putspecialobject", OperandLiteral)
	Putstring            = op(7, "putstring", OperandValueRef)

	Getglobal            = op(8, "getglobal", OperandValueRef)
	Setglobal            = op(9, "setglobal", OperandValueRef)
	Getinstancevariable  = op(10, "getinstancevariable", OperandValueRef, OperandInlineCache)
	Setinstancevariable  = op(11, "setinstancevariable", OperandValueRef, OperandInlineCache)
	Getclassvariable     = op(12, "getclassvariable", OperandValueRef)
	Setclassvariable     = op(13, "setclassvariable", OperandValueRef)
	Getconstant          = op(14, "getconstant", OperandValueRef)
	Setconstant          = op(15, "setconstant", OperandValueRef)
	Getspecial           = op(16, "getspecial", OperandLiteral, OperandLiteral)
	Setspecial           = op(17, "setspecial", OperandLiteral)
	GetlocalWC0          = op(18, "getlocal_OP__WC__0", OperandLiteral)
	SetlocalWC0          = op(19, "setlocal_OP__WC__0", OperandLiteral)
	GetlocalWC1          = op(20, "getlocal_OP__WC__1", OperandLiteral)
	SetlocalWC1          = op(21, "setlocal_OP__WC__1", OperandLiteral)

	Pop         = op(22, "pop")
	Dup         = op(23, "dup")
	Dupn        = op(24, "dupn", OperandLiteral)
	Swap        = op(25, "swap")
	Topn        = op(26, "topn", OperandLiteral)
	Setn        = op(27, "setn", OperandLiteral)
	Adjuststack = op(28, "adjuststack", OperandLiteral)

	Newarray      = op(29, "newarray", OperandLiteral)
	Duparray      = op(30, "duparray", OperandValueRef)
	Concatarray   = op(31, "concatarray")
	Splatarray    = op(32, "splatarray", OperandLiteral)
	Newhash       = op(33, "newhash", OperandLiteral)
	Newrange      = op(34, "newrange", OperandLiteral)
	Toregexp      = op(35, "toregexp", OperandLiteral, OperandLiteral)
	Concatstrings = op(36, "concatstrings", OperandLiteral)
	Tostring      = op(37, "tostring")
	Freezestring  = op(38, "freezestring", OperandValueRef)

	Send                = op(39, "send", OperandCallInfo, OperandInlineCache)
	OptSendWithoutBlock = op(40, "opt_send_without_block", OperandCallInfo, OperandInlineCache)
	Invokesuper         = op(41, "invokesuper", OperandCallInfo, OperandInlineCache)

	OptPlus        = op(42, "opt_plus", OperandCallInfo, OperandInlineCache)
	OptMinus       = op(43, "opt_minus", OperandCallInfo, OperandInlineCache)
	OptMult        = op(44, "opt_mult", OperandCallInfo, OperandInlineCache)
	OptDiv         = op(45, "opt_div", OperandCallInfo, OperandInlineCache)
	OptMod         = op(46, "opt_mod", OperandCallInfo, OperandInlineCache)
	OptEq          = op(47, "opt_eq", OperandCallInfo, OperandInlineCache)
	OptNeq         = op(48, "opt_neq", OperandCallInfo, OperandInlineCache)
	OptLt          = op(49, "opt_lt", OperandCallInfo, OperandInlineCache)
	OptLe          = op(50, "opt_le", OperandCallInfo, OperandInlineCache)
	OptGt          = op(51, "opt_gt", OperandCallInfo, OperandInlineCache)
	OptGe          = op(52, "opt_ge", OperandCallInfo, OperandInlineCache)
	OptLtlt        = op(53, "opt_ltlt", OperandCallInfo, OperandInlineCache)
	OptAref        = op(54, "opt_aref", OperandCallInfo, OperandInlineCache)
	OptAset        = op(55, "opt_aset", OperandCallInfo, OperandInlineCache)
	OptLength      = op(56, "opt_length", OperandCallInfo, OperandInlineCache)
	OptSize        = op(57, "opt_size", OperandCallInfo, OperandInlineCache)
	OptEmptyP      = op(58, "opt_empty_p", OperandCallInfo, OperandInlineCache)
	OptSucc        = op(59, "opt_succ", OperandCallInfo, OperandInlineCache)
	OptNot         = op(60, "opt_not", OperandCallInfo, OperandInlineCache)
	OptRegexpmatch2 = op(61, "opt_regexpmatch2", OperandCallInfo, OperandInlineCache)
	OptArefWith    = op(62, "opt_aref_with", OperandValueRef, OperandCallInfo, OperandInlineCache)
	OptAsetWith    = op(63, "opt_aset_with", OperandValueRef, OperandCallInfo, OperandInlineCache)

	Leave           = op(64, "leave")
	Throw           = op(65, "throw", OperandLiteral)
	Jump            = op(66, "jump", OperandOffset)
	Branchif        = op(67, "branchif", OperandOffset)
	Branchunless    = op(68, "branchunless", OperandOffset)
	Branchnil       = op(69, "branchnil", OperandOffset)
	OptCaseDispatch = op(70, "opt_case_dispatch", OperandValueRef, OperandOffset)

	Trace          = op(71, "trace", OperandLiteral)
	Getinlinecache = op(72, "getinlinecache", OperandOffset, OperandInlineCache)
	Setinlinecache = op(73, "setinlinecache", OperandInlineCache)
)

// DefaultOpTable is a ready-made OpTable over the opcode set above, indexed
// by Op.Code. A host with a different opcode numbering supplies its own
// OpTable implementation instead; nothing in leader or compile assumes
// DefaultOpTable specifically.
var DefaultOpTable = newTable(
	Putnil, Putobject, PutobjectInt2Fix0, PutobjectInt2Fix1, Putiseq, Putself,
	Putspecialobject, Putstring,
	Getglobal, Setglobal, Getinstancevariable, Setinstancevariable,
	Getclassvariable, Setclassvariable, Getconstant, Setconstant,
	Getspecial, Setspecial, GetlocalWC0, SetlocalWC0, GetlocalWC1, SetlocalWC1,
	Pop, Dup, Dupn, Swap, Topn, Setn, Adjuststack,
	Newarray, Duparray, Concatarray, Splatarray, Newhash, Newrange, Toregexp,
	Concatstrings, Tostring, Freezestring,
	Send, OptSendWithoutBlock, Invokesuper,
	OptPlus, OptMinus, OptMult, OptDiv, OptMod, OptEq, OptNeq, OptLt, OptLe,
	OptGt, OptGe, OptLtlt, OptAref, OptAset, OptLength, OptSize, OptEmptyP,
	OptSucc, OptNot, OptRegexpmatch2, OptArefWith, OptAsetWith,
	Leave, Throw, Jump, Branchif, Branchunless, Branchnil, OptCaseDispatch,
	Trace, Getinlinecache, Setinlinecache,
)

// table is a slice-backed OpTable keyed by Op.Code, the concrete
// implementation behind DefaultOpTable.
type table struct {
	byCode []Op
}

func newTable(ops ...Op) *table {
	t := &table{}
	for _, o := range ops {
		for len(t.byCode) <= o.Code {
			t.byCode = append(t.byCode, Op{})
		}
		t.byCode[o.Code] = o
	}
	return t
}

func (t *table) Decode(encoded []Word, addr int) (Op, error) {
	if addr < 0 || addr >= len(encoded) {
		return Op{}, UnknownOpcodeError{Addr: addr}
	}
	code := int(encoded[addr])
	if code < 0 || code >= len(t.byCode) || t.byCode[code].Name == "" {
		return Op{}, UnknownOpcodeError{Word: encoded[addr], Addr: addr}
	}
	return t.byCode[code], nil
}

// Terminator reports whether opName unconditionally ends a basic block:
// the offset immediately after one is always a block leader.
func Terminator(opName string) bool {
	switch opName {
	case "jump", "branchif", "branchunless", "branchnil", "opt_case_dispatch", "throw", "leave":
		return true
	default:
		return false
	}
}
