// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache_test

import (
	"testing"

	"github.com/yalcin-go/llrb/cache"
)

func TestKeyIsDeterministic(t *testing.T) {
	a := cache.Key([]uint64{1, 2, 3})
	b := cache.Key([]uint64{1, 2, 3})
	if a != b {
		t.Fatal("Key should be deterministic for identical input")
	}
	c := cache.Key([]uint64{1, 2, 4})
	if a == c {
		t.Fatal("Key should differ for different input")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	key := cache.Key([]uint64{1, 2, 3})
	want := "func f(%0 i64) i64 {\nlabel_0:\n\tret %0\n}\n"
	if err := s.Put(key, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("Get() = %q, want %q", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	s, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Get("not-a-real-key"); err != cache.ErrMiss {
		t.Fatalf("err = %v, want ErrMiss", err)
	}
}

func TestPutDoesNotOverwrite(t *testing.T) {
	s, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	key := cache.Key([]uint64{9})
	if err := s.Put(key, "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(key, "second"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first" {
		t.Fatalf("Get() = %q, want the first write to stick", got)
	}
}
