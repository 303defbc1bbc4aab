// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Module is a compilation unit: the single emitted function plus every
// external helper function declaration it references. An
// external declaration is added at most once, the first time it is
// requested; the runtime package is the sole caller of DeclareFunc.
type Module struct {
	Name      string
	Functions []*Function
	externs   map[string]*Func
	externSeq []string
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name, externs: make(map[string]*Func)}
}

// NewFunction creates the module's function: name, parameter types, and
// return type. Called once per compilation by the orchestrator.
func (m *Module) NewFunction(name string, params []Type, ret Type) *Function {
	f := &Function{Name: name, Params: params, Ret: ret, Module: m}
	m.Functions = append(m.Functions, f)
	return f
}

// DeclareFunc returns the existing declaration for name if one exists, or
// creates and caches a new one. The bool result reports whether a new
// declaration was created.
func (m *Module) DeclareFunc(name string, typ FuncType) (*Func, bool) {
	if fn, ok := m.externs[name]; ok {
		return fn, false
	}
	fn := &Func{Name: name, Type: typ}
	m.externs[name] = fn
	m.externSeq = append(m.externSeq, name)
	return fn, true
}

// Externs returns the module's external function declarations in the
// order they were first requested — used by Print and by the structural
// invariant "every distinct helper name appears once".
func (m *Module) Externs() []*Func {
	out := make([]*Func, len(m.externSeq))
	for i, name := range m.externSeq {
		out[i] = m.externs[name]
	}
	return out
}
