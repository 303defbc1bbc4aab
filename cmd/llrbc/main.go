// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command llrbc is a host-side driver for the compile package: it reads a
// JSON-encoded method bytecode record, runs it through compile.CompileISeq,
// and prints the resulting module's textual IR.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yalcin-go/llrb/bytecode"
	"github.com/yalcin-go/llrb/cache"
	"github.com/yalcin-go/llrb/compile"
	"github.com/yalcin-go/llrb/leader"
	"github.com/yalcin-go/llrb/runtime"
)

func main() {
	log.SetPrefix("llrbc: ")
	log.SetFlags(0)

	app := &cli.App{
		Name:  "llrbc",
		Usage: "compile one method's bytecode to SSA IR",
		Commands: []*cli.Command{
			compileCommand(),
			cacheCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// iseqFile is the on-disk JSON shape a caller supplies: a plain numeric
// mirror of bytecode.ISeq, since bytecode.Word has no JSON methods of its
// own and this module otherwise never serializes an ISeq.
type iseqFile struct {
	Size        int      `json:"size"`
	Encoded     []uint64 `json:"encoded"`
	StackMax    int      `json:"stack_max"`
	LocalsCount int      `json:"locals_count"`
	ArgsCount   int      `json:"args_count"`
}

func (f iseqFile) toISeq() *bytecode.ISeq {
	encoded := make([]bytecode.Word, len(f.Encoded))
	for i, w := range f.Encoded {
		encoded[i] = bytecode.Word(w)
	}
	return &bytecode.ISeq{
		Size:        f.Size,
		Encoded:     encoded,
		StackMax:    f.StackMax,
		LocalsCount: f.LocalsCount,
		ArgsCount:   f.ArgsCount,
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile a JSON-encoded bytecode file to textual SSA IR",
		ArgsUsage: "<iseq.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "v", Usage: "enable verbose trace logging"},
			&cli.StringFlag{Name: "name", Value: "compiled_method", Usage: "name of the emitted function"},
			&cli.StringFlag{Name: "cache-dir", Usage: "consult/populate an on-disk compiled-module cache in this directory"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("compile requires an <iseq.json> argument", 1)
			}
			return runCompile(os.Stdout, c.Args().First(), c.String("name"), c.Bool("v"), c.String("cache-dir"))
		},
	}
}

func runCompile(w io.Writer, path, name string, verbose bool, cacheDir string) error {
	leader.SetDebugMode(verbose)
	compile.SetDebugMode(verbose)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var decoded iseqFile
	if err := json.NewDecoder(f).Decode(&decoded); err != nil {
		return fmt.Errorf("llrbc: decoding %s: %w", path, err)
	}
	bc := decoded.toISeq()

	var store *cache.Store
	var key string
	if cacheDir != "" {
		store, err = cache.Open(cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
		// The printed module embeds the function name, so it is part of the key.
		key = cache.Key(decoded.Encoded) + "-" + hex.EncodeToString([]byte(name))
		if text, err := store.Get(key); err == nil {
			fmt.Fprint(w, text)
			return nil
		}
	}

	module, err := compile.CompileISeq(bc, bytecode.DefaultOpTable, runtime.NewRegistry(), name)
	if err != nil {
		return err
	}
	text := module.Print()
	if store != nil {
		if err := store.Put(key, text); err != nil {
			log.Printf("cache: %v", err)
		}
	}
	fmt.Fprint(w, text)
	return nil
}

func cacheCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", Required: true, Usage: "cache directory"}
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect or clear the on-disk compiled-module cache",
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "list cached entries",
				Flags: []cli.Flag{dirFlag},
				Action: func(c *cli.Context) error {
					return runCacheLs(os.Stdout, c.String("dir"))
				},
			},
			{
				Name:  "clear",
				Usage: "remove every cached entry",
				Flags: []cli.Flag{dirFlag},
				Action: func(c *cli.Context) error {
					return os.RemoveAll(c.String("dir"))
				},
			},
		},
	}
}

func runCacheLs(w io.Writer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(w, e.Name())
	}
	return nil
}
