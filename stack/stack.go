// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack implements the abstract operand stack used by the compile
// package to mirror the host VM's runtime stack discipline at compile
// time. It carries ir.Value handles instead of runtime values.
package stack

import "github.com/yalcin-go/llrb/ir"

// OverflowError is returned by Push when the stack is already at capacity.
type OverflowError struct {
	Capacity int
}

func (e OverflowError) Error() string {
	return "stack: overflow (capacity " + itoa(e.Capacity) + ")"
}

// UnderflowError is returned by Pop/TopN/SetN when there are too few
// values on the stack to satisfy the request.
type UnderflowError struct {
	Size int
	Want int
}

func (e UnderflowError) Error() string {
	return "stack: underflow (have " + itoa(e.Size) + ", want " + itoa(e.Want) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Stack is a fixed-capacity LIFO of IR value handles. Capacity is set once,
// from the bytecode's stack_max, and is never grown: a Push
// past capacity is a compile-time fatal error, exactly as an underflowing
// Pop is.
type Stack struct {
	values []ir.Value
	cap    int
}

// New allocates a fresh stack of the given capacity.
func New(capacity int) *Stack {
	return &Stack{values: make([]ir.Value, 0, capacity), cap: capacity}
}

// Len returns the current stack depth.
func (s *Stack) Len() int {
	return len(s.values)
}

// Push appends v to the top of the stack.
func (s *Stack) Push(v ir.Value) error {
	if len(s.values) >= s.cap {
		return OverflowError{Capacity: s.cap}
	}
	s.values = append(s.values, v)
	return nil
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (ir.Value, error) {
	if len(s.values) == 0 {
		return nil, UnderflowError{Size: 0, Want: 1}
	}
	n := len(s.values) - 1
	v := s.values[n]
	s.values = s.values[:n]
	return v, nil
}

// TopN returns the value k entries below the top, without mutation. TopN(0)
// is the top of the stack.
func (s *Stack) TopN(k int) (ir.Value, error) {
	idx := len(s.values) - 1 - k
	if idx < 0 {
		return nil, UnderflowError{Size: len(s.values), Want: k + 1}
	}
	return s.values[idx], nil
}

// SetN overwrites the value k entries below the top with v, per the `setn`
// opcode.
func (s *Stack) SetN(k int, v ir.Value) error {
	idx := len(s.values) - 1 - k
	if idx < 0 {
		return UnderflowError{Size: len(s.values), Want: k + 1}
	}
	s.values[idx] = v
	return nil
}

// DupN duplicates the top n entries, in order, per the `dupn` opcode.
func (s *Stack) DupN(n int) error {
	if n > len(s.values) {
		return UnderflowError{Size: len(s.values), Want: n}
	}
	start := len(s.values) - n
	dup := make([]ir.Value, n)
	copy(dup, s.values[start:])
	for _, v := range dup {
		if err := s.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Swap exchanges the top two values.
func (s *Stack) Swap() error {
	if len(s.values) < 2 {
		return UnderflowError{Size: len(s.values), Want: 2}
	}
	n := len(s.values)
	s.values[n-1], s.values[n-2] = s.values[n-2], s.values[n-1]
	return nil
}

// Adjust drops n values from the top (the `adjuststack` opcode).
func (s *Stack) Adjust(n int) error {
	if n > len(s.values) {
		return UnderflowError{Size: len(s.values), Want: n}
	}
	s.values = s.values[:len(s.values)-n]
	return nil
}

// Copy returns a structural copy of s: same size, same capacity, a copied
// body array. Both successors of a conditional branch must compile with an
// identical pre-branch stack prefix, so the driver takes a Copy before
// recursing into each one.
func (s *Stack) Copy() *Stack {
	cp := &Stack{values: make([]ir.Value, len(s.values), s.cap), cap: s.cap}
	copy(cp.values, s.values)
	return cp
}
