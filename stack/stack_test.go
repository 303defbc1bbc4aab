// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack_test

import (
	"testing"

	"github.com/yalcin-go/llrb/ir"
	"github.com/yalcin-go/llrb/stack"
)

func val(n int64) ir.Value {
	b := ir.NewModule("m").NewFunction("f", nil, ir.Int64).NewBlock(0)
	return b.NewIntConst(ir.Int64, n)
}

func TestPushPop(t *testing.T) {
	s := stack.New(2)
	v := val(1)
	if err := s.Push(v); err != nil {
		t.Fatal(err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	got, err := s.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatal("Pop() did not return the pushed value")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Pop = %d, want 0", s.Len())
	}
}

func TestOverflow(t *testing.T) {
	s := stack.New(1)
	if err := s.Push(val(1)); err != nil {
		t.Fatal(err)
	}
	err := s.Push(val(2))
	if _, ok := err.(stack.OverflowError); !ok {
		t.Fatalf("Push past capacity: err = %v, want OverflowError", err)
	}
}

func TestUnderflow(t *testing.T) {
	s := stack.New(1)
	_, err := s.Pop()
	if _, ok := err.(stack.UnderflowError); !ok {
		t.Fatalf("Pop on empty stack: err = %v, want UnderflowError", err)
	}
}

func TestTopNSetN(t *testing.T) {
	s := stack.New(3)
	a, b, c := val(1), val(2), val(3)
	s.Push(a)
	s.Push(b)
	s.Push(c)

	if got, _ := s.TopN(0); got != c {
		t.Fatal("TopN(0) should be the top of stack")
	}
	if got, _ := s.TopN(2); got != a {
		t.Fatal("TopN(2) should be the bottom of stack")
	}

	d := val(4)
	if err := s.SetN(2, d); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.TopN(2); got != d {
		t.Fatal("SetN(2) did not overwrite the bottom entry")
	}
}

func TestDupNSwap(t *testing.T) {
	s := stack.New(4)
	a, b := val(1), val(2)
	s.Push(a)
	s.Push(b)

	if err := s.DupN(2); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Fatalf("Len() after DupN(2) = %d, want 4", s.Len())
	}

	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	top, _ := s.TopN(0)
	if top != a {
		t.Fatal("Swap did not exchange the top two values")
	}
}

func TestAdjust(t *testing.T) {
	s := stack.New(3)
	s.Push(val(1))
	s.Push(val(2))
	if err := s.Adjust(1); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() after Adjust(1) = %d, want 1", s.Len())
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := stack.New(2)
	v := val(1)
	s.Push(v)

	cp := s.Copy()
	cp.Push(val(2))

	if s.Len() != 1 {
		t.Fatalf("original Len() = %d after mutating the copy, want 1", s.Len())
	}
	if cp.Len() != 2 {
		t.Fatalf("copy Len() = %d, want 2", cp.Len())
	}
}
