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

package ir

// Defs returns the register-class operand this instruction defines, if
// any. Every opcode that produces a value writes it through Dst, so a
// single accessor covers the whole instruction set; liveness and
// allocation never need a per-opcode switch.
func (i *Instr) Defs() []string {
	if i.Dst != "" {
		return []string{i.Dst}
	}
	return nil
}

// Uses returns the register-class operands this instruction reads. Memory
// and hardware operands (Var, HWName, Callee, Label) are resolved at
// codegen time and never occupy a register, so they are not uses in the
// allocator's sense.
func (i *Instr) Uses() []string {
	return i.Src
}

// IsBlockEnd reports whether this instruction ends a basic block: control
// never falls through it without a recorded, explicit target.
func (i *Instr) IsBlockEnd() bool {
	switch i.Op {
	case OpJump, OpCondJump, OpReturn:
		return true
	default:
		return false
	}
}

// Successors returns the label names this instruction can transfer
// control to directly (not counting ordinary fallthrough to the next
// instruction).
func (i *Instr) Successors() []string {
	switch i.Op {
	case OpJump:
		return []string{i.Label}
	case OpCondJump:
		return []string{i.TrueLabel, i.FalseLabel}
	default:
		return nil
	}
}
