// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package leader implements the single linear pass over a method's
// bytecode that discovers basic-block leaders: offset 0, every
// branch-offset operand's target, and the successor of every terminator. It is the front end's only consumer of the raw instruction
// stream that doesn't also build IR.
package leader

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/yalcin-go/llrb/bytecode"
)

// PrintDebugInfo toggles trace logging of the leader scan.
var PrintDebugInfo = false

var logger = log.New(io.Discard, "", log.Lshortfile)

// SetDebugMode enables or disables trace logging.
func SetDebugMode(v bool) {
	PrintDebugInfo = v
	w := io.Discard
	if v {
		w = os.Stderr
	}
	logger = log.New(w, "", log.Lshortfile)
}

// OffsetError wraps a bytecode.UnknownOpcodeError (or any OpTable.Decode
// error) with the offset where the leader scan encountered it.
type OffsetError struct {
	Offset int
	Err    error
}

func (e OffsetError) Error() string {
	return fmt.Sprintf("leader: at offset %d: %v", e.Offset, e.Err)
}

// Analyze scans bc once using table to step over variable-width
// instructions, and returns the sorted, deduplicated set of basic-block
// leader offsets.
func Analyze(bc *bytecode.ISeq, table bytecode.OpTable) ([]int, error) {
	leaders := map[int]struct{}{0: {}} // rule 1: offset 0 is always a leader
	starts := map[int]bool{}

	pos := 0
	for pos < bc.Size {
		op, err := table.Decode(bc.Encoded, pos)
		if err != nil {
			return nil, OffsetError{Offset: pos, Err: err}
		}
		length := op.Length()
		logger.Printf("at %d: %s (len %d)", pos, op.Name, length)
		if pos+length > len(bc.Encoded) {
			return nil, OffsetError{Offset: pos, Err: fmt.Errorf("%s runs past the end of the instruction stream", op.Name)}
		}
		starts[pos] = true

		for i, kind := range op.OperandKinds {
			if kind != bytecode.OperandOffset {
				continue
			}
			operand := int64(bc.Encoded[pos+1+i])
			target := pos + length + int(operand)
			leaders[target] = struct{}{}
			logger.Printf("  branch operand -> leader %d", target)
		}

		next := pos + length
		if bytecode.Terminator(op.Name) && next < bc.Size {
			// rule 3: the instruction immediately after a terminator is a
			// leader, provided it's still inside the stream.
			leaders[next] = struct{}{}
			logger.Printf("  terminator -> leader %d", next)
		}

		pos = next
	}

	out := make([]int, 0, len(leaders))
	for off := range leaders {
		if off != 0 && !starts[off] {
			return nil, OffsetError{Offset: off, Err: fmt.Errorf("branch target is not the start of an instruction")}
		}
		out = append(out, off)
	}
	sort.Ints(out)
	return out, nil
}
