// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"strings"
)

// Print returns a textual representation of the module: its external
// declarations followed by its one function, block by block. It exists so
// tests and cmd/llrbc have a stable, human-readable form to assert on or
// print, without this module owning an actual machine-code backend.
func (m *Module) Print() string {
	var buf strings.Builder
	for _, fn := range m.Externs() {
		fmt.Fprintf(&buf, "declare %s %s\n", fn.Name, fn.Type)
	}
	for _, f := range m.Functions {
		buf.WriteString(f.Print())
	}
	return buf.String()
}

// Print returns a textual representation of f: its signature followed by
// each block's label and instructions in emission order.
func (f *Function) Print() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "func %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%%%d %s", i, p)
	}
	fmt.Fprintf(&buf, ") %s {\n", f.Ret)
	for _, b := range f.Blocks {
		fmt.Fprintf(&buf, "%s:\n", b.Label)
		for _, v := range b.Instrs {
			fmt.Fprintf(&buf, "\t%s\n", v)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}
