// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// End-to-end compilation scenarios: leader analysis through the block
// driver and translator, exercised against small, hand-built bytecode
// sequences.
package llrb_test

import (
	"strings"
	"testing"

	"github.com/yalcin-go/llrb/bytecode"
	"github.com/yalcin-go/llrb/compile"
	"github.com/yalcin-go/llrb/ir"
)

func wordFromInt64(v int64) bytecode.Word {
	return bytecode.Word(v)
}

func code(words ...bytecode.Word) *bytecode.ISeq {
	return &bytecode.ISeq{Size: len(words), Encoded: words, StackMax: 8}
}

func mustCompile(t *testing.T, bc *bytecode.ISeq) string {
	t.Helper()
	m, err := compile.CompileISeq(bc, bytecode.DefaultOpTable, nil, "f")
	if err != nil {
		t.Fatalf("CompileISeq: %v", err)
	}
	return m.Print()
}

func TestConstantReturn(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.Putnil.Code),
		bytecode.Word(bytecode.Leave.Code),
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "push_result") {
		t.Fatalf("expected a push_result call, got:\n%s", out)
	}
	if !strings.Contains(out, "const i64 8") { // Qnil == 0x8
		t.Fatalf("expected Qnil (8) to be pushed, got:\n%s", out)
	}
	if !strings.Contains(out, "ret ") {
		t.Fatalf("expected a return, got:\n%s", out)
	}
}

func TestIntegerLiteral(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.PutobjectInt2Fix1.Code),
		bytecode.Word(bytecode.Leave.Code),
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "const i64 3") { // INT2FIX(1) == 3
		t.Fatalf("expected INT2FIX(1) == 3, got:\n%s", out)
	}
}

func TestArgumentPassthrough(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0,
		bytecode.Word(bytecode.Leave.Code),
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "getlocal_level0") {
		t.Fatalf("expected a getlocal_level0 call, got:\n%s", out)
	}
}

func TestSimpleAdd(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0,
		bytecode.Word(bytecode.GetlocalWC0.Code), 1,
		bytecode.Word(bytecode.OptPlus.Code), 0, 0,
		bytecode.Word(bytecode.Leave.Code),
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "opt_plus") {
		t.Fatalf("expected an opt_plus call, got:\n%s", out)
	}
}

func TestGuardedReturn(t *testing.T) {
	// getlocal 0; branchunless L; putobject_INT2FIX_1; jump E; L: putnil; E: leave
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0, // 0,1
		bytecode.Word(bytecode.Branchunless.Code), 3, // 2,3 -> target 2+2+3=7
		bytecode.Word(bytecode.PutobjectInt2Fix1.Code), // 4
		bytecode.Word(bytecode.Jump.Code), 1, // 5,6 -> target 5+2+1=8
		bytecode.Word(bytecode.Putnil.Code), // 7 (L)
		bytecode.Word(bytecode.Leave.Code), // 8 (E)
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "= phi i64") {
		t.Fatalf("expected a phi at the join, got:\n%s", out)
	}
	if !strings.Contains(out, "label_4") || !strings.Contains(out, "label_7") {
		t.Fatalf("expected the phi's incoming blocks to be label_4 and label_7, got:\n%s", out)
	}
}

func TestCountedLoop(t *testing.T) {
	// putobject_INT2FIX_0; setlocal 0
	// L: getlocal 0; putobject 6000000; opt_lt; branchunless End
	//    getlocal 0; putobject_INT2FIX_1; opt_plus; setlocal 0; jump L
	// End: putnil; leave
	bc := code(
		bytecode.Word(bytecode.PutobjectInt2Fix0.Code), // 0
		bytecode.Word(bytecode.SetlocalWC0.Code), 0, // 1,2
		bytecode.Word(bytecode.GetlocalWC0.Code), 0, // 3,4 (L)
		bytecode.Word(bytecode.Putobject.Code), 6000000, // 5,6
		bytecode.Word(bytecode.OptLt.Code), 0, 0, // 7,8,9
		bytecode.Word(bytecode.Branchunless.Code), 10, // 10,11 -> target 10+2+10=22
		bytecode.Word(bytecode.GetlocalWC0.Code), 0, // 12,13
		bytecode.Word(bytecode.PutobjectInt2Fix1.Code), // 14
		bytecode.Word(bytecode.OptPlus.Code), 0, 0, // 15,16,17
		bytecode.Word(bytecode.SetlocalWC0.Code), 0, // 18,19
		bytecode.Word(bytecode.Jump.Code), wordFromInt64(-19), // 20,21 -> target 20+2-19=3
		bytecode.Word(bytecode.Putnil.Code), // 22 (End)
		bytecode.Word(bytecode.Leave.Code), // 23
	)
	out := mustCompile(t, bc)
	for _, want := range []string{"opt_lt", "opt_plus", "setlocal_level0", "getlocal_level0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "= phi") {
		t.Fatalf("the loop back-edge must not originate a phi, got:\n%s", out)
	}
}

func TestBranchNil(t *testing.T) {
	// getlocal 0; branchnil L; putnil; L: leave
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0, // 0,1
		bytecode.Word(bytecode.Branchnil.Code), 1, // 2,3 -> target 2+2+1=5
		bytecode.Word(bytecode.Putnil.Code), // 4
		bytecode.Word(bytecode.Leave.Code), // 5 (L)
	)
	out := mustCompile(t, bc)
	if !strings.Contains(out, "icmp ne") {
		t.Fatalf("expected a != Qnil compare, got:\n%s", out)
	}
	if !strings.Contains(out, "= phi i64") {
		t.Fatalf("expected a phi merging the nil literal with the fall-through value, got:\n%s", out)
	}
	if !strings.Contains(out, "label_0") || !strings.Contains(out, "label_4") {
		t.Fatalf("expected incoming edges from label_0 and label_4, got:\n%s", out)
	}
}

func TestCompileTwiceIsomorphic(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0,
		bytecode.Word(bytecode.Branchunless.Code), 3,
		bytecode.Word(bytecode.PutobjectInt2Fix1.Code),
		bytecode.Word(bytecode.Jump.Code), 1,
		bytecode.Word(bytecode.Putnil.Code),
		bytecode.Word(bytecode.Leave.Code),
	)
	first := mustCompile(t, bc)
	second := mustCompile(t, bc)
	if first != second {
		t.Fatalf("compiling the same bytecode twice diverged:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestRTestLowering(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0,
		bytecode.Word(bytecode.Branchif.Code), 1, // target 2+2+1=5
		bytecode.Word(bytecode.Putnil.Code), // 4
		bytecode.Word(bytecode.Leave.Code), // 5
	)
	out := mustCompile(t, bc)
	// (v & ^Qnil) != 0: the mask prints as -9 in two's complement.
	if !strings.Contains(out, "const i64 -9") {
		t.Fatalf("expected the ^Qnil mask constant, got:\n%s", out)
	}
	if !strings.Contains(out, "and i64") || !strings.Contains(out, "icmp ne") {
		t.Fatalf("expected a single AND + ICMP, got:\n%s", out)
	}
}

func TestOneTerminatorPerBlock(t *testing.T) {
	bc := code(
		bytecode.Word(bytecode.GetlocalWC0.Code), 0,
		bytecode.Word(bytecode.Branchunless.Code), 3,
		bytecode.Word(bytecode.PutobjectInt2Fix1.Code),
		bytecode.Word(bytecode.Jump.Code), 1,
		bytecode.Word(bytecode.Putnil.Code),
		bytecode.Word(bytecode.Leave.Code),
	)
	m, err := compile.CompileISeq(bc, bytecode.DefaultOpTable, nil, "f")
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range m.Functions[0].Blocks {
		terminators := 0
		for _, v := range b.Instrs {
			instr, ok := v.(*ir.Instr)
			if !ok {
				continue
			}
			switch instr.Op() {
			case ir.OpBr, ir.OpCondBr, ir.OpRet:
				terminators++
			}
		}
		if terminators != 1 {
			t.Fatalf("%s has %d terminators, want exactly 1:\n%s", b.Label, terminators, m.Print())
		}
	}
}
