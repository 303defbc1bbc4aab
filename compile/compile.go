// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile is the top-level orchestrator, block table, block driver,
// and instruction translator that together turn one method's bytecode into
// an ir.Module: leader analysis first, then a recursive walk over the
// discovered blocks, translating one instruction at a time against the
// abstract operand stack.
package compile

import (
	"github.com/yalcin-go/llrb/bytecode"
	"github.com/yalcin-go/llrb/ir"
	"github.com/yalcin-go/llrb/leader"
	"github.com/yalcin-go/llrb/runtime"
)

// CompileISeq compiles one method's bytecode into a module containing a
// single function named name, plus any helper declarations it references.
// table supplies opcode metadata; registry resolves helper names. A nil
// registry uses runtime.NewRegistry.
func CompileISeq(bc *bytecode.ISeq, table bytecode.OpTable, registry *runtime.Registry, name string) (*ir.Module, error) {
	if registry == nil {
		registry = runtime.NewRegistry()
	}

	leaders, err := leader.Analyze(bc, table)
	if err != nil {
		return nil, Error{Offset: -1, Opcode: "leader-analysis", Err: err}
	}

	module := ir.NewModule(name + "_module")
	fn := module.NewFunction(name, []ir.Type{ir.Int64, ir.Int64}, ir.Int64)
	entries := buildBlockTable(fn, leaders, bc.Size)

	d := &driver{
		module:   module,
		fn:       fn,
		iseq:     bc,
		table:    table,
		registry: registry,
		entries:  entries,
	}

	logger.Printf("compiling %q: %d leaders", name, len(leaders))
	if err := d.enter(0, nil); err != nil {
		return nil, err
	}
	return module, nil
}
