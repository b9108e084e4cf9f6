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
	"fmt"

	"github.com/pkg/errors"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/regalloc"
)

// emitInstr translates one rewritten IR instruction into its RGBDS
// equivalent. Register-class operands (plain letters or "[sp+N]" spill
// tokens) are already resolved by internal/rewrite; this function only
// decides addressing modes and picks the ALU opcode.
func emitInstr(b *buffer, in *ir.Instr, prog *ir.Program) error {
	switch in.Op {
	case ir.OpBinaryOp:
		return emitBinaryOp(b, in)
	case ir.OpUnaryOp:
		return emitUnaryOp(b, in)
	case ir.OpAssign:
		b.loadToA(in.Src[0])
		b.storeFromA(in.Dst)
	case ir.OpConstant:
		b.loadImm8(in.Dst, in.Imm)
	case ir.OpLoad:
		b.inst("ld a, [%s]", symName(in.Var))
		b.storeFromA(in.Dst)
	case ir.OpStore:
		b.loadToA(in.Src[0])
		b.inst("ld [%s], a", symName(in.Var))
	case ir.OpIndexedLoad:
		emitIndexedAddr(b, in.Var, in.Src[0])
		b.inst("ld a, [hl]")
		b.storeFromA(in.Dst)
	case ir.OpIndexedStore:
		emitIndexedAddr(b, in.Var, in.Src[0])
		b.loadToA(in.Src[1])
		b.inst("ld [hl], a")
	case ir.OpLabel:
		b.label(in.Label)
	case ir.OpJump:
		b.inst("jp %s", in.Label)
	case ir.OpCondJump:
		b.loadToA(in.Src[0])
		b.inst("or a")
		b.inst("jp nz, %s", in.TrueLabel)
		b.inst("jp %s", in.FalseLabel)
	case ir.OpCall:
		return emitCall(b, in, prog)
	case ir.OpReturn:
		if len(in.Src) > 0 {
			b.loadToA(in.Src[0])
		}
		b.inst("ret")
	case ir.OpArgLoad:
		emitArgLoad(b, in)
	case ir.OpHardwareLoad:
		return emitHardwareLoad(b, in)
	case ir.OpHardwareStore:
		return emitHardwareStore(b, in)
	case ir.OpHardwareIndexedLoad:
		return emitHardwareIndexedLoad(b, in)
	case ir.OpHardwareIndexedStore:
		return emitHardwareIndexedStore(b, in)
	case ir.OpHardwareMemCpy:
		return emitHardwareMemCpy(b, in)
	case ir.OpIncBin:
		// Data-section-only instruction; emitData walks prog.Data directly.
	case ir.OpChangeSP:
		b.inst("add sp, %d", in.Imm)
	default:
		return errors.Errorf("codegen: unhandled opcode %v", in.Op)
	}
	return nil
}

// emitIndexedAddr computes hl = base + 2*idx, since every list element
// occupies a 2-byte work-RAM slot (ir.Program.AddGlobalArray). idx is
// loaded first because reading a spilled idx goes through hl.
func emitIndexedAddr(b *buffer, base, idx string) {
	b.loadToA(idx)
	b.inst("ld hl, %s", symName(base))
	b.inst("add a, a") // a = idx * 2
	b.inst("add a, l")
	b.inst("ld l, a")
	b.inst("ld a, 0")
	b.inst("adc a, h")
	b.inst("ld h, a")
}

func emitBinaryOp(b *buffer, in *ir.Instr) error {
	lhs, rhs := in.Src[0], in.Src[1]
	switch in.BinOp {
	case ast.Add:
		b.loadToA(lhs)
		b.inst("add a, %s", b.aluRHS(rhs))
		b.storeFromA(in.Dst)
	case ast.Sub:
		b.loadToA(lhs)
		b.inst("sub %s", b.aluRHS(rhs))
		b.storeFromA(in.Dst)
	case ast.BAnd:
		b.loadToA(lhs)
		b.inst("and %s", b.aluRHS(rhs))
		b.storeFromA(in.Dst)
	case ast.BOr:
		b.loadToA(lhs)
		b.inst("or %s", b.aluRHS(rhs))
		b.storeFromA(in.Dst)
	case ast.BXor:
		b.loadToA(lhs)
		b.inst("xor %s", b.aluRHS(rhs))
		b.storeFromA(in.Dst)
	case ast.Mul:
		emitCallWithAB(b, "PenguinMult", lhs, rhs, in.Dst)
	case ast.Div:
		emitCallWithAB(b, "PenguinDiv", lhs, rhs, in.Dst)
	case ast.Mod:
		emitCallWithAB(b, "PenguinMod", lhs, rhs, in.Dst)
	case ast.Shl:
		emitShift(b, lhs, rhs, in.Dst, "sla")
	case ast.Shr:
		emitShift(b, lhs, rhs, in.Dst, "srl")
	case ast.Lt:
		emitCompare(b, lhs, rhs, in.Dst, "c")
	case ast.Le:
		emitCompareNot(b, lhs, rhs, in.Dst, true)
	case ast.Gt:
		emitCompareNot(b, lhs, rhs, in.Dst, false)
	case ast.Ge:
		emitCompare(b, lhs, rhs, in.Dst, "nc")
	case ast.Eq:
		emitCompare(b, lhs, rhs, in.Dst, "z")
	case ast.Ne:
		emitCompare(b, lhs, rhs, in.Dst, "nz")
	case ast.LAnd:
		emitLogical(b, lhs, rhs, in.Dst, "and")
	case ast.LOr:
		emitLogical(b, lhs, rhs, in.Dst, "or")
	default:
		return errors.Errorf("codegen: unhandled binary operator %v", in.BinOp)
	}
	return nil
}

// emitCallWithAB routes through a runtime helper that expects its
// operands in b (left) and c (right) and returns its result in a; SM83
// has no multiply or divide instruction (see runtime.go). bc/de/hl are
// pushed first since lhs/rhs can be any live variable, including one
// regalloc already placed in one of those registers (spec.md §4.6).
func emitCallWithAB(b *buffer, routine, lhs, rhs, dst string) {
	b.pushCallerSaved()
	b.loadToA(lhs)
	b.inst("ld b, a")
	b.loadToA(rhs)
	b.inst("ld c, a")
	b.inst("call %s", routine)
	b.popCallerSaved()
	b.storeFromA(dst)
}

// emitShift shifts lhs left/right by a compile-time-unknown count held in
// rhs, one bit at a time — SM83's sla/srl only ever move by one bit. b/c
// are fixed scratch for the whole loop, so bc/de/hl are saved around it
// the same as a call (spec.md §4.6).
func emitShift(b *buffer, lhs, rhs, dst, op string) {
	b.pushCallerSaved()
	b.loadToA(lhs)
	b.inst("ld b, a")
	b.loadToA(rhs)
	b.inst("ld c, a")
	loop := newLocalLabel()
	done := newLocalLabel()
	b.label(loop)
	b.inst("ld a, c")
	b.inst("or a")
	b.inst("jp z, %s", done)
	b.inst("%s b", op)
	b.inst("dec c")
	b.inst("jp %s", loop)
	b.label(done)
	b.inst("ld a, b")
	b.popCallerSaved()
	b.storeFromA(dst)
}

// emitCompare produces dst = 1 if lhs OP rhs else 0, where cond is the
// SM83 flag condition ("z", "nz", "c", "nc") that holds after `cp rhs`
// exactly when the comparison is true.
func emitCompare(b *buffer, lhs, rhs, dst, cond string) {
	b.loadToA(lhs)
	b.inst("cp %s", b.aluRHS(rhs))
	yes := newLocalLabel()
	end := newLocalLabel()
	b.inst("jp %s, %s", cond, yes)
	b.inst("ld a, 0")
	b.inst("jp %s", end)
	b.label(yes)
	b.inst("ld a, 1")
	b.label(end)
	b.storeFromA(dst)
}

// emitCompareNot implements <= and > in terms of `cp` plus a z-flag
// check, since SM83 only exposes carry (< / >=) and zero (== / !=)
// directly: le = (a < b) || (a == b), gt = !le.
func emitCompareNot(b *buffer, lhs, rhs, dst string, wantLE bool) {
	b.loadToA(lhs)
	b.inst("cp %s", b.aluRHS(rhs))
	lt := newLocalLabel()
	eq := newLocalLabel()
	end := newLocalLabel()
	b.inst("jp c, %s", lt)
	b.inst("jp z, %s", eq)
	if wantLE {
		b.inst("ld a, 0") // not <=
	} else {
		b.inst("ld a, 1") // >
	}
	b.inst("jp %s", end)
	b.label(lt)
	if wantLE {
		b.inst("ld a, 1")
	} else {
		b.inst("ld a, 0")
	}
	b.inst("jp %s", end)
	b.label(eq)
	if wantLE {
		b.inst("ld a, 1") // <=
	} else {
		b.inst("ld a, 0") // not >
	}
	b.label(end)
	b.storeFromA(dst)
}

// emitLogical evaluates a short-circuit-free boolean and/or: both
// operands are already computed eagerly by the IR generator, so this
// just normalises each to 0/1 and combines bitwise. d is fixed scratch
// for the combine step, so bc/de/hl are saved around it (spec.md §4.6).
func emitLogical(b *buffer, lhs, rhs, dst, op string) {
	b.pushCallerSaved()
	normalizeBool(b, lhs)
	b.inst("ld d, a")
	normalizeBool(b, rhs)
	b.inst("%s d", op)
	b.popCallerSaved()
	b.storeFromA(dst)
}

func normalizeBool(b *buffer, tok string) {
	b.loadToA(tok)
	b.inst("or a")
	nz := newLocalLabel()
	end := newLocalLabel()
	b.inst("jp nz, %s", nz)
	b.inst("ld a, 0")
	b.inst("jp %s", end)
	b.label(nz)
	b.inst("ld a, 1")
	b.label(end)
}

func emitUnaryOp(b *buffer, in *ir.Instr) error {
	src := in.Src[0]
	switch in.UnOp {
	case ast.Pos:
		b.loadToA(src)
		b.storeFromA(in.Dst)
	case ast.Neg:
		b.loadToA(src)
		b.inst("cpl")
		b.inst("inc a")
		b.storeFromA(in.Dst)
	case ast.BNot:
		b.loadToA(src)
		b.inst("cpl")
		b.storeFromA(in.Dst)
	case ast.LNot:
		normalizeBool(b, src)
		b.inst("xor 1")
		b.storeFromA(in.Dst)
	default:
		return errors.Errorf("codegen: unhandled unary operator %v", in.UnOp)
	}
	return nil
}

// emitArgLoad handles a procedure's formal parameter. internal/check
// rejects any signature longer than len(regalloc.ParamRegs) before this
// ever runs, so the fallback below is unreachable from a checked program;
// it stays as a defensive default for IR built directly, bypassing check.
func emitArgLoad(b *buffer, in *ir.Instr) {
	if in.ArgIndex < len(regalloc.ParamRegs) {
		// The caller placed this argument directly in its pinned
		// register; regalloc pins the same register for this parameter,
		// so the value is already where it needs to be.
		return
	}
	b.comment("parameter #%d has no stack-passing convention; reads as 0", in.ArgIndex)
	b.loadImm8(in.Dst, 0)
}

// emitCall saves bc/de/hl across the call before placing arguments (spec.md
// §4.6): a live variable crossing a call has no representation in the
// callee's register file otherwise, since regalloc allocates each
// procedure's body independently and shares no registers across the call
// boundary beyond the pinned argument convention.
func emitCall(b *buffer, in *ir.Instr, prog *ir.Program) error {
	if _, ok := prog.Procs[in.Callee]; ok {
		b.pushCallerSaved()
		emitArgPlacement(b, in.Src)
		b.inst("call %s", procLabel(in.Callee))
		b.popCallerSaved()
		b.storeFromA(in.Dst)
		return nil
	}
	if routine, ok := hardwareVoidRoutine[in.Callee]; ok {
		b.pushCallerSaved()
		b.inst("call %s", routine)
		b.popCallerSaved()
		return nil
	}
	if routine, ok := hardwareIntRoutine[in.Callee]; ok {
		b.pushCallerSaved()
		b.inst("call %s", routine)
		b.popCallerSaved()
		b.storeFromA(in.Dst)
		return nil
	}
	return errors.Errorf("codegen: call to unresolved procedure %q", in.Callee)
}

// emitArgPlacement moves each argument operand into the register
// convention pins for that position (b, c, d, e); arguments beyond the
// fourth have no calling convention (see emitArgLoad) and are skipped.
func emitArgPlacement(b *buffer, args []string) {
	for i, a := range args {
		if i >= len(regalloc.ParamRegs) {
			b.comment("argument #%d dropped: no stack-passing convention", i)
			continue
		}
		reg := regalloc.ParamRegs[i]
		if a == reg {
			continue
		}
		b.loadToA(a)
		b.inst("ld %s, a", reg)
	}
}

func emitHardwareLoad(b *buffer, in *ir.Instr) error {
	if addr, ok := tilesetBlockAddr(in.HWName); ok {
		b.inst("ld a, [%d] ; %s", addr, in.HWName)
		b.storeFromA(in.Dst)
		return nil
	}
	if sym, ok := inputShadow[in.HWName]; ok {
		b.inst("ld a, [%s]", sym)
		b.storeFromA(in.Dst)
		return nil
	}
	return errors.Errorf("codegen: unresolved hardware scalar %q", in.HWName)
}

func emitHardwareStore(b *buffer, in *ir.Instr) error {
	// Only the input-flag shadow bytes are writable: tileset/tilemap
	// scalars are aggregate-typed, so a same-typed assignment to them
	// always takes the HardwareMemCpy path in genAggregateAssignment
	// instead of reaching here.
	sym, ok := inputShadow[in.HWName]
	if !ok {
		return errors.Errorf("codegen: hardware scalar %q is not writable from Penguin source", in.HWName)
	}
	b.loadToA(in.Src[0])
	b.inst("ld [%s], a", sym)
	return nil
}

func emitHardwareIndexedLoad(b *buffer, in *ir.Instr) error {
	off, ok := oamFieldOffset(in.HWName)
	if !ok {
		return errors.Errorf("codegen: unresolved hardware list %q", in.HWName)
	}
	emitOAMAddr(b, in.Src[0], off)
	b.inst("ld a, [hl]")
	b.storeFromA(in.Dst)
	return nil
}

func emitHardwareIndexedStore(b *buffer, in *ir.Instr) error {
	off, ok := oamFieldOffset(in.HWName)
	if !ok {
		return errors.Errorf("codegen: unresolved hardware list %q", in.HWName)
	}
	emitOAMAddr(b, in.Src[0], off)
	b.loadToA(in.Src[1])
	b.inst("ld [hl], a")
	return nil
}

// emitOAMAddr computes OAMBase + idx*4 + fieldOffset into hl, matching
// real hardware OAM's 4-byte-per-sprite stride.
func emitOAMAddr(b *buffer, idx string, fieldOffset int) {
	b.loadToA(idx)
	b.inst("add a, a")
	b.inst("add a, a") // a = idx * 4
	b.inst("add a, %d", fieldOffset)
	b.inst("ld l, a")
	b.inst("ld h, %d", oamBase>>8)
}

func emitHardwareMemCpy(b *buffer, in *ir.Instr) error {
	dst, ok := tilesetBlockAddr(in.HWName)
	if !ok {
		switch in.HWName {
		case "display_tilemap0":
			dst = vramTilemap0
		default:
			return errors.Errorf("codegen: unresolved hardware memcpy target %q", in.HWName)
		}
	}
	b.inst("ld hl, %s", in.IncBinLabel)
	b.inst("ld de, %d", dst)
	b.inst("ld bc, %d", in.Imm)
	b.inst("call PenguinMemCopy")
	return nil
}

var localLabelN int

// newLocalLabel names a codegen-internal control-flow label, scoped as an
// RGBDS local label (dot-prefixed) so it never collides with user-program
// labels, which are always one of internal/ir's global-label prefixes
// (else_, endif_, loop_, ...).
func newLocalLabel() string {
	localLabelN++
	return fmt.Sprintf(".cg%d", localLabelN)
}
