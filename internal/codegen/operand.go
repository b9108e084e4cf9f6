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

package codegen

import (
	"strings"

	"github.com/cs-25-sw-4-15/penguinlang/internal/rewrite"
)

// isReg reports whether tok is one of the rewriter's plain physical
// register tokens, as opposed to a "[sp+N]" spill reference.
func isReg(tok string) bool {
	switch tok {
	case "a", "b", "c", "d", "e", "h", "l":
		return true
	default:
		return false
	}
}

// symName turns an IR operand name into a valid RGBDS symbol: dots appear
// in oam-entry sub-fields ("player.x") and "$" in qualified local-list
// keys ("update$buf"), neither of which RGBDS accepts in a plain label.
func symName(name string) string {
	r := strings.NewReplacer(".", "_", "$", "_")
	return r.Replace(name)
}

// loadToA appends the instructions that copy tok's value into the
// accumulator. The only addressing mode SM83 offers for a stack-relative
// spill slot is HL-indirect, so a spilled operand costs an extra
// `ld hl, sp+N` over a register operand (spec.md §4.5, internal/rewrite's
// package doc).
func (b *buffer) loadToA(tok string) {
	if tok == "a" {
		return
	}
	if isReg(tok) {
		b.inst("ld a, %s", tok)
		return
	}
	if off, ok := rewrite.ParseSpillOperand(tok); ok {
		b.inst("ld hl, sp%+d", off+b.pushDepth)
		b.inst("ld a, [hl]")
		return
	}
	b.inst("ld a, %s ; unresolved operand", tok)
}

// storeFromA appends the instructions that copy the accumulator into tok.
func (b *buffer) storeFromA(tok string) {
	if tok == "" || tok == "a" {
		return
	}
	if isReg(tok) {
		b.inst("ld %s, a", tok)
		return
	}
	if off, ok := rewrite.ParseSpillOperand(tok); ok {
		b.inst("ld hl, sp%+d", off+b.pushDepth)
		b.inst("ld [hl], a")
		return
	}
	b.inst("ld %s, a ; unresolved operand", tok)
}

// aluRHS returns the right-hand operand text an 8-bit ALU instruction
// (add a,X / sub a,X / and a,X ...) can reference directly, spilling
// through HL first when tok is a stack slot, since ALU ops only accept a
// plain register or (hl) as their second operand.
func (b *buffer) aluRHS(tok string) string {
	if tok == "a" || isReg(tok) {
		return tok
	}
	if off, ok := rewrite.ParseSpillOperand(tok); ok {
		b.inst("ld hl, sp%+d", off+b.pushDepth)
		return "[hl]"
	}
	return tok
}

// loadImm8 loads an immediate Penguin int constant, truncated to the
// 8-bit cell every scalar occupies (internal/ir's Program reserves a
// 2-byte work-RAM slot per scalar for future headroom, but codegen only
// ever exercises the low byte, matching the SM83's native 8-bit ALU).
func (b *buffer) loadImm8(dst string, v int) {
	if dst == "a" || isReg(dst) {
		b.inst("ld %s, %d", dst, uint8(v))
		return
	}
	b.inst("ld a, %d", uint8(v))
	b.storeFromA(dst)
}
