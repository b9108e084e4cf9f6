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

// Package compile wires the per-stage packages (ast, check, ir, liveness,
// regalloc, rewrite, codegen) into the single forward pipeline spec.md §1
// describes: source text in, RGBDS assembly text out. cmd/penguinc is the
// only other package that imports it, but it is kept separate from
// cmd/penguinc so each dump subcommand can stop the pipeline early without
// duplicating this wiring.
package compile

import (
	"github.com/pkg/errors"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/check"
	"github.com/cs-25-sw-4-15/penguinlang/internal/codegen"
	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/regalloc"
	"github.com/cs-25-sw-4-15/penguinlang/internal/rewrite"
	"github.com/cs-25-sw-4-15/penguinlang/internal/symbols"
)

// Result carries every stage's output, so dump subcommands can inspect
// whichever one the user asked for without recomputing upstream stages.
type Result struct {
	AST   *ast.Program
	Env   *symbols.Env
	IR    *ir.Program // pre-allocation: named temporaries and variables
	Alloc *ir.Program // post-rewrite: physical register / spill operands
	Asm   string
}

// Parse runs only the frontend's parse stage, for the `dump ast`
// subcommand.
func Parse(src string) *ast.Program { return ast.Parse(src) }

// ParseAndCheck runs the frontend (spec.md §§3-4.1): parse, then type
// check against the seeded hardware vocabulary.
func ParseAndCheck(src string) (*ast.Program, *symbols.Env, error) {
	prog := ast.Parse(src)
	env, err := check.Check(prog)
	if err != nil {
		return prog, nil, errors.Wrap(err, "type check failed")
	}
	return prog, env, nil
}

// GenerateIR runs the frontend and lowers the result to pre-allocation
// IR, stopping before register allocation.
func GenerateIR(src string) (*ast.Program, *symbols.Env, *ir.Program, error) {
	prog, env, err := ParseAndCheck(src)
	if err != nil {
		return prog, env, nil, err
	}
	irProg, err := ir.Generate(prog, env)
	if err != nil {
		return prog, env, nil, errors.Wrap(err, "IR generation failed")
	}
	return prog, env, irProg, nil
}

// GenerateAlloc runs every stage up to and including register allocation
// and rewriting, stopping before code generation.
func GenerateAlloc(src string) (*ast.Program, *symbols.Env, *ir.Program, *ir.Program, error) {
	prog, env, irProg, err := GenerateIR(src)
	if err != nil {
		return prog, env, irProg, nil, err
	}
	alloc, err := AllocateAndRewrite(irProg)
	if err != nil {
		return prog, env, irProg, nil, errors.Wrap(err, "register allocation failed")
	}
	return prog, env, irProg, alloc, nil
}

// Run executes the complete pipeline over src.
func Run(src string) (*Result, error) {
	prog, env, irProg, alloc, err := GenerateAlloc(src)
	if err != nil {
		return nil, err
	}

	asm, err := codegen.Generate(alloc)
	if err != nil {
		return nil, errors.Wrap(err, "code generation failed")
	}

	return &Result{AST: prog, Env: env, IR: irProg, Alloc: alloc, Asm: asm}, nil
}

// AllocateAndRewrite runs liveness + linear-scan allocation + rewriting
// independently over the top-level instruction list and every procedure
// body (spec.md §4.4: each procedure is its own register-allocation
// unit), returning a new *ir.Program whose instruction lists use
// physical-register/spill operands.
func AllocateAndRewrite(prog *ir.Program) (*ir.Program, error) {
	out := ir.NewProgram()
	out.Globals = prog.Globals
	out.GlobalSize = prog.GlobalSize
	out.GlobalOrder = prog.GlobalOrder
	out.IncBins = prog.IncBins
	out.Data = prog.Data
	out.ProcOrder = prog.ProcOrder

	mainAlloc := regalloc.Allocate(prog.Main, nil)
	out.Main = rewrite.Rewrite(prog.Main, mainAlloc)

	for name, p := range prog.Procs {
		alloc := regalloc.Allocate(p.Instrs, p.Params)
		out.Procs[name] = &ir.Proc{
			Name:    p.Name,
			Params:  p.Params,
			RetType: p.RetType,
			Instrs:  rewrite.Rewrite(p.Instrs, alloc),
		}
	}
	return out, nil
}
