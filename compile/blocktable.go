// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import "github.com/yalcin-go/llrb/ir"

// blockEntry is the per-leader block-table record: the emitted block, its
// end offset, the visited flag, and the φ bookkeeping for incoming stack
// values. Entries live in a sparse map keyed by leader offset, so only
// leaders cost anything regardless of iseq_size.
type blockEntry struct {
	block    *ir.Block
	blockEnd int
	compiled bool

	phi *ir.Phi

	pendingValues []ir.Value
	pendingBlocks []*ir.Block
}

// buildBlockTable creates one blockEntry per leader, computing each one's
// block_end as the offset immediately preceding the next leader (or
// iseq_size-1 for the last one).
func buildBlockTable(fn *ir.Function, leaders []int, iseqSize int) map[int]*blockEntry {
	entries := make(map[int]*blockEntry, len(leaders))
	for i, off := range leaders {
		end := iseqSize - 1
		if i+1 < len(leaders) {
			end = leaders[i+1] - 1
		}
		entries[off] = &blockEntry{
			block:    fn.NewBlock(off),
			blockEnd: end,
		}
	}
	return entries
}

// deposit adds val as a φ-contribution from pred to entry: if entry.phi
// already exists, add-incoming directly; otherwise append to the pending
// buffers for the driver to drain when it enters entry.
func deposit(entry *blockEntry, val ir.Value, pred *ir.Block) {
	if entry.phi != nil {
		entry.phi.AddIncoming(val, pred)
		return
	}
	entry.pendingValues = append(entry.pendingValues, val)
	entry.pendingBlocks = append(entry.pendingBlocks, pred)
}
