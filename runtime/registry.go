// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime resolves the symbolic helper names emitted by the
// compile package to typed external function declarations in an ir.Module.
// Helpers are declared in the module on first use; subsequent lookups are
// served from the module's own cache (ir.Module.DeclareFunc already
// memoizes by name), so Registry itself only needs to own the static
// name→signature table.
package runtime

import (
	"fmt"
	"sync"

	"github.com/yalcin-go/llrb/ir"
)

// UnknownHelperError is returned when a requested helper name has no entry
// in the registry's static table.
type UnknownHelperError struct {
	Name string
}

func (e UnknownHelperError) Error() string {
	return fmt.Sprintf("runtime: unknown helper %q", e.Name)
}

// Registry resolves helper names to ir.Func declarations. A single
// Registry may be shared by concurrent compilations: the signature table is
// guarded by mu (Register may change it), and per-module declaration
// caching lives on ir.Module, which a single compilation owns exclusively.
type Registry struct {
	mu         sync.RWMutex
	signatures map[string]ir.FuncType
}

// NewRegistry returns a Registry pre-populated with the stock helper set
// in defaultSignatures.
func NewRegistry() *Registry {
	r := &Registry{signatures: make(map[string]ir.FuncType, len(defaultSignatures))}
	for name, typ := range defaultSignatures {
		r.signatures[name] = typ
	}
	return r
}

// Register adds or replaces a helper signature. Hosts with additional or
// renamed helpers call this before compiling; it is not used during normal
// operation with the stock helper set from NewRegistry.
func (r *Registry) Register(name string, typ ir.FuncType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signatures[name] = typ
}

// GetFunction resolves name to a declaration in module, declaring it on
// first use.
func (r *Registry) GetFunction(module *ir.Module, name string) (*ir.Func, error) {
	r.mu.RLock()
	typ, ok := r.signatures[name]
	r.mu.RUnlock()
	if !ok {
		return nil, UnknownHelperError{Name: name}
	}
	fn, _ := module.DeclareFunc(name, typ)
	return fn, nil
}

// thread and frame are both opaque 64-bit pointers in this ABI; i64 is
// used for any operand kind the front-end forwards verbatim (call-info,
// inline-cache, value-ref, iseq-ref, offset), since helpers receive those
// words unchanged.
const i64 = ir.Int64

func sig(ret ir.Type, params ...ir.Type) ir.FuncType {
	return ir.FuncType{Ret: ret, Params: params}
}

func variadic(ret ir.Type, params ...ir.Type) ir.FuncType {
	return ir.FuncType{Ret: ret, Params: params, Variadic: true}
}

// defaultSignatures is the static helper name→signature table.
var defaultSignatures = map[string]ir.FuncType{
	"rb_funcall": variadic(i64, i64, i64),

	"newarray":      variadic(i64, i64),
	"duparray":      sig(i64, i64, i64),
	"newhash":       variadic(i64, i64),
	"newrange":      variadic(i64, i64),
	"toregexp":      variadic(i64, i64),
	"concatstrings": variadic(i64, i64),
	"concatarray":   variadic(i64, i64),
	"splatarray":    variadic(i64, i64),
	"tostring":      variadic(i64, i64),
	"freezestring":  variadic(i64, i64),

	"putstring": sig(i64, i64, i64),

	"getglobal": sig(i64, i64),
	"setglobal": sig(ir.Void, i64, i64),

	"getinstancevariable": sig(i64, i64, i64, i64),
	"setinstancevariable": sig(ir.Void, i64, i64, i64, i64),
	"getclassvariable":    sig(i64, i64, i64),
	"setclassvariable":    sig(ir.Void, i64, i64, i64),
	"getconstant":         sig(i64, i64, i64, i64),
	"setconstant":         sig(ir.Void, i64, i64, i64),
	"getspecial":          sig(i64, i64, i64, i64),
	"setspecial":          sig(ir.Void, i64, i64),

	"getlocal_level0": sig(i64, i64, i64),
	"setlocal_level0": sig(ir.Void, i64, i64, i64),

	"insn_throw":   sig(i64, i64, i64, i64, i64),
	"defined":      sig(i64, i64, i64, i64, i64, i64),
	"checkmatch":   sig(i64, i64, i64, i64),
	"checkkeyword": sig(i64, i64, i64),

	"putspecialobject":       sig(i64, i64),
	"send":                   variadic(i64, i64, i64, i64, i64, i64, i64, i64),
	"opt_send_without_block": variadic(i64, i64, i64, i64, i64, i64, i64, i64),
	"invokesuper":            variadic(i64, i64, i64, i64, i64, i64, i64, i64),

	"self_from_cfp": sig(i64, i64),
	"push_result":   sig(ir.Void, i64, i64),

	"opt_plus":  sig(i64, i64, i64),
	"opt_minus": sig(i64, i64, i64),
	"opt_lt":    sig(i64, i64, i64),

	"trace": sig(ir.Void, i64, i64, i64),
}
