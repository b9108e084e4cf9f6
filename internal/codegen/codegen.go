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

// Package codegen renders a rewritten, register-allocated ir.Program as
// RGBDS-flavoured Game Boy assembly text (spec.md §5): a fixed ROM header
// and runtime helper section, one label per user procedure, an INCBIN
// data section for registered assets, and a WRAM section for global
// scalars and lists. The buffer-and-operand-dispatch shape follows the
// teacher's x86 backend (falcon's compile/codegen/asm_x86.go), adapted
// from SSA-value operands to this compiler's named three-address operands.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/asmfmt"
	"github.com/pkg/errors"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/plog"
)

// buffer accumulates assembly source line by line.
type buffer struct {
	lines []string

	// pushDepth is how many bytes the current instruction's own push
	// sequence has added to SP since its containing procedure's frame was
	// established. Spill-slot addressing ("ld hl, sp+N") must add this in,
	// since regalloc/rewrite compute N assuming SP never moves except via
	// the procedure's own ChangeSP frame bracket (spec.md §4.5).
	pushDepth int
}

// pushCallerSaved preserves bc/de/hl across a call or fixed-scratch-register
// sequence (spec.md §4.6), so a variable regalloc happened to place in one
// of those registers survives a `call`, a multiply/divide/modulo helper
// invocation, a shift loop, or a logical and/or — all of which clobber them
// as fixed scratch with no corresponding ir.Instr def/use regalloc can see.
func (b *buffer) pushCallerSaved() {
	b.inst("push bc")
	b.inst("push de")
	b.inst("push hl")
	b.pushDepth += 6
}

// popCallerSaved restores what pushCallerSaved saved, in the matching
// reverse order.
func (b *buffer) popCallerSaved() {
	b.inst("pop hl")
	b.inst("pop de")
	b.inst("pop bc")
	b.pushDepth -= 6
}

func (b *buffer) raw(s string) {
	for _, l := range strings.Split(strings.Trim(s, "\n"), "\n") {
		b.lines = append(b.lines, l)
	}
}

func (b *buffer) blank() { b.lines = append(b.lines, "") }

func (b *buffer) comment(format string, args ...interface{}) {
	b.lines = append(b.lines, "; "+fmt.Sprintf(format, args...))
}

func (b *buffer) section(name, kind string) {
	b.blank()
	b.lines = append(b.lines, fmt.Sprintf("SECTION %q, %s", name, kind))
}

func (b *buffer) label(name string) {
	b.lines = append(b.lines, name+":")
}

func (b *buffer) inst(format string, args ...interface{}) {
	b.lines = append(b.lines, "\t"+fmt.Sprintf(format, args...))
}

func (b *buffer) String() string { return strings.Join(b.lines, "\n") + "\n" }

// Generate lowers prog into a complete RGBDS source file, formatted
// through asmfmt (spec.md §2.5 and §5).
func Generate(prog *ir.Program) (string, error) {
	plog.Phase("Codegen")

	b := &buffer{}
	emitHeader(b)
	if err := emitEntry(b, prog); err != nil {
		return "", err
	}
	for _, name := range prog.ProcOrder {
		if err := emitProc(b, prog.Procs[name], prog); err != nil {
			return "", errors.Wrapf(err, "codegen: procedure %q", name)
		}
	}
	b.raw(runtime)
	emitData(b, prog)
	emitGlobals(b, prog)

	formatted, err := asmfmt.Format(bytes.NewReader([]byte(b.String())))
	if err != nil {
		// asmfmt targets Go's plan9 assembler syntax; RGBDS source it
		// can't parse falls back to the unformatted buffer rather than
		// failing the whole build over cosmetics.
		return b.String(), nil
	}
	return string(formatted), nil
}

func emitHeader(b *buffer) {
	b.comment("Generated by penguinc. Do not edit by hand.")
	b.section("Header", "ROM0[$100]")
	b.inst("jp Start")
	b.inst("ds $150 - @, 0 ; room for rgbfix's logo/checksum patch")
}

func emitEntry(b *buffer, prog *ir.Program) error {
	b.section("Start", "ROM0[$150]")
	b.label("Start")
	b.inst("di")
	b.inst("ld sp, $FFFE")
	b.inst("call PenguinInitDisplayRegs")
	for _, in := range prog.Main {
		if err := emitInstr(b, in, prog); err != nil {
			return errors.Wrap(err, "codegen: top-level code")
		}
	}
	b.inst("jp PenguinDone")
	return nil
}

func emitProc(b *buffer, p *ir.Proc, prog *ir.Program) error {
	b.blank()
	b.comment("procedure %s", p.Name)
	b.label(procLabel(p.Name))
	for _, in := range p.Instrs {
		if err := emitInstr(b, in, prog); err != nil {
			return err
		}
	}
	if len(p.Instrs) == 0 || p.Instrs[len(p.Instrs)-1].Op != ir.OpReturn {
		b.inst("ret")
	}
	return nil
}

func emitData(b *buffer, prog *ir.Program) {
	if len(prog.Data) == 0 {
		return
	}
	b.section("PenguinAssets", "ROM0")
	for _, in := range prog.Data {
		b.label(in.IncBinLabel)
		b.inst("INCBIN %q", in.IncBinPath)
	}
}

func emitGlobals(b *buffer, prog *ir.Program) {
	if len(prog.GlobalOrder) > 0 {
		b.section("PenguinGlobals", "WRAM0[$C000]")
		for _, name := range prog.GlobalOrder {
			n := prog.GlobalSize[name]
			b.label(symName(name))
			b.inst("ds %d ; %d element(s), 2 bytes each", n*2, n)
		}
		b.blank()
	}
	b.section("PenguinInputShadow", "WRAM0")
	for _, sym := range inputShadow {
		b.label(sym)
		b.inst("ds 1")
	}
}

func procLabel(name string) string { return "Proc_" + symName(name) }
