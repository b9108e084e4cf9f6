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

// Package rewrite applies a regalloc.Allocation to an IR instruction
// list (spec.md §4.5): every register-class operand name is replaced in
// place by its assigned physical register letter or, if spilled, a
// "[sp+N]" stack-slot reference. When anything is spilled, a ChangeSP at
// the top reserves the spill frame and another releases it before every
// Return (and at the end, if the list does not end in one). The code generator
// consumes "[sp+N]" operands directly through SM83's HL-indirect
// addressing (LD HL,SP+e8 then (HL)), so no separate reload/store
// instructions need to be synthesised here.
package rewrite

import (
	"fmt"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/regalloc"
)

const spillSlotBytes = 2

// SpillOperand formats a spill slot's operand token; codegen parses it
// back with ParseSpillOperand.
func SpillOperand(slot int) string {
	return fmt.Sprintf("[sp+%d]", slot)
}

// ParseSpillOperand reports whether operand is a spill-slot reference and,
// if so, its byte offset.
func ParseSpillOperand(operand string) (offset int, ok bool) {
	if _, err := fmt.Sscanf(operand, "[sp+%d]", &offset); err == nil {
		return offset, true
	}
	return 0, false
}

// Rewrite returns a new instruction list with every operand resolved
// against alloc. The input list is left untouched.
func Rewrite(instrs []*ir.Instr, alloc *regalloc.Allocation) []*ir.Instr {
	frame := alloc.NumSpillSlots * spillSlotBytes
	out := make([]*ir.Instr, 0, len(instrs)+2)

	if frame > 0 {
		out = append(out, &ir.Instr{Op: ir.OpChangeSP, Imm: -frame})
	}
	for _, in := range instrs {
		if frame > 0 && in.Op == ir.OpReturn {
			out = append(out, &ir.Instr{Op: ir.OpChangeSP, Imm: frame})
		}
		out = append(out, rewriteInstr(in, alloc))
	}
	if frame > 0 && (len(instrs) == 0 || instrs[len(instrs)-1].Op != ir.OpReturn) {
		out = append(out, &ir.Instr{Op: ir.OpChangeSP, Imm: frame})
	}

	ir.Renumber(out)
	return out
}

func rewriteInstr(in *ir.Instr, alloc *regalloc.Allocation) *ir.Instr {
	out := *in
	if in.Dst != "" {
		out.Dst = operand(in.Dst, alloc)
	}
	if len(in.Src) > 0 {
		out.Src = make([]string, len(in.Src))
		for i, s := range in.Src {
			out.Src[i] = operand(s, alloc)
		}
	}
	return &out
}

func operand(name string, alloc *regalloc.Allocation) string {
	iv, ok := alloc.Intervals[name]
	if !ok {
		// Not a register-class variable under this allocation (shouldn't
		// happen for a well-formed instruction list); leave unchanged so
		// the assembler's own validation catches it.
		return name
	}
	if iv.Spilled {
		return SpillOperand(iv.SpillSlot)
	}
	return iv.Reg
}
