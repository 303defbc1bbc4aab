// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache is a content-addressed, on-disk cache of previously
// compiled modules' textual IR, keyed by a digest of the source bytecode.
// It exists so a host that recompiles the same method across process runs
// (a common JIT workload) doesn't pay the front-end's cost twice. Entries
// are written once and read back through a memory mapping that stays open
// for later reads; Get returns a string copy of the mapped bytes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// ErrMiss is returned by Get when no entry exists for a key.
var ErrMiss = errors.New("cache: miss")

// Key digests the raw bytecode word stream that produced a compiled
// module; two identical instruction streams always produce the same key,
// regardless of the function name the caller later assigns it.
func Key(encoded []uint64) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, w := range encoded {
		for i := 0; i < 8; i++ {
			buf[i] = byte(w >> (8 * i))
		}
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store is a directory of cache entries, one file per key. A single Store
// may be shared by concurrent compilations: mu guards the map
// of currently open memory mappings, not the on-disk files themselves,
// since writes are create-once (Put never overwrites an existing key).
type Store struct {
	dir string

	mu   sync.RWMutex
	open map[string]mmap.MMap
}

// Open returns a Store backed by dir, creating it if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Store{dir: dir, open: make(map[string]mmap.MMap)}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".ir")
}

// Get returns the cached textual IR for key, memory-mapping the backing
// file on first access and serving subsequent calls from the already-open
// mapping. Returns ErrMiss if no entry exists.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	m, ok := s.open[key]
	s.mu.RUnlock()
	if ok {
		return string(m), nil
	}

	f, err := os.Open(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	if fi.Size() == 0 {
		return "", nil
	}

	m, err = mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}

	s.mu.Lock()
	s.open[key] = m
	s.mu.Unlock()

	return string(m), nil
}

// Put writes text as the cache entry for key if one doesn't already exist.
// It does not itself open a mapping; the next Get does.
func (s *Store) Put(key, text string) error {
	path := s.path(key)
	if _, err := os.Stat(path); err == nil {
		return nil // already cached
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return os.Rename(tmp, path)
}

// Close unmaps every open entry.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for key, m := range s.open {
		if err := m.Unmap(); err != nil && first == nil {
			first = err
		}
		delete(s.open, key)
	}
	return first
}
