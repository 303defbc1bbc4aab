// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"io"
	"log"
	"os"
)

// PrintDebugInfo toggles trace logging of the block driver and translator,
// the same knob the leader package exposes.
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
