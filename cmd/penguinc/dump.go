// Copyright (c) 2024 The Penguinc Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/compile"
)

// newDumpCmd builds the `dump cst|ast|typed-ast|ir|alloc-ir|asm <input>`
// tree (spec.md §6): one subcommand per pipeline stage, each running the
// pipeline only as far as it needs to and pretty-printing with
// spew.Sdump rather than a hand-rolled recursive printer.
func newDumpCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "dump",
		Short: "Print an intermediate compiler artifact",
	}
	parent.AddCommand(
		dumpStage("cst", "Dump the raw token stream", dumpCST),
		dumpStage("ast", "Dump the parsed, untyped AST", dumpAST),
		dumpStage("typed-ast", "Dump the type-checked AST plus symbol table", dumpTypedAST),
		dumpStage("ir", "Dump the IR before register allocation", dumpIR),
		dumpStage("alloc-ir", "Dump the IR after register allocation and rewriting", dumpAllocIR),
		dumpStage("asm", "Dump the generated RGBDS assembly text", dumpAsm),
	)
	return parent
}

func dumpStage(name, short string, run func(src string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <input>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer recoverAsError(&err)
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			out, err := run(src)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func dumpCST(src string) (string, error) {
	return spew.Sdump(ast.Tokenize(src)), nil
}

func dumpAST(src string) (string, error) {
	return spew.Sdump(compile.Parse(src)), nil
}

func dumpTypedAST(src string) (string, error) {
	prog, env, err := compile.ParseAndCheck(src)
	if err != nil {
		return "", err
	}
	return spew.Sdump(prog) + "\n--- symbol table ---\n" + spew.Sdump(env.Procs()), nil
}

func dumpIR(src string) (string, error) {
	_, _, irProg, err := compile.GenerateIR(src)
	if err != nil {
		return "", err
	}
	return spew.Sdump(irProg), nil
}

func dumpAllocIR(src string) (string, error) {
	_, _, _, alloc, err := compile.GenerateAlloc(src)
	if err != nil {
		return "", err
	}
	return spew.Sdump(alloc), nil
}

func dumpAsm(src string) (string, error) {
	r, err := compile.Run(src)
	if err != nil {
		return "", err
	}
	return r.Asm, nil
}
