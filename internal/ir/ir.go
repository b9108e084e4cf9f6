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

// Package ir is the three-address intermediate representation from
// spec.md §3: a closed, enumerated instruction set (including hardware
// opcodes) operating on symbolic operand names. Before allocation those
// names are temporaries (t0, t1, ...) or user variable names; the
// rewriter (internal/rewrite) replaces them with physical register names
// or "[sp+N]" spill-slot tokens in place.
package ir

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/types"
)

// Op is the closed instruction opcode sum (spec.md §3).
type Op int

const (
	OpBinaryOp Op = iota
	OpUnaryOp
	OpAssign
	OpConstant
	OpLoad
	OpStore
	OpIndexedLoad
	OpIndexedStore
	OpLabel
	OpJump
	OpCondJump
	OpCall
	OpReturn
	OpArgLoad
	OpHardwareLoad
	OpHardwareStore
	OpHardwareIndexedLoad
	OpHardwareIndexedStore
	OpHardwareMemCpy
	OpIncBin
	OpChangeSP
)

func (op Op) String() string {
	switch op {
	case OpBinaryOp:
		return "binop"
	case OpUnaryOp:
		return "unop"
	case OpAssign:
		return "assign"
	case OpConstant:
		return "const"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpIndexedLoad:
		return "iload"
	case OpIndexedStore:
		return "istore"
	case OpLabel:
		return "label"
	case OpJump:
		return "jump"
	case OpCondJump:
		return "condjump"
	case OpCall:
		return "call"
	case OpReturn:
		return "return"
	case OpArgLoad:
		return "argload"
	case OpHardwareLoad:
		return "hwload"
	case OpHardwareStore:
		return "hwstore"
	case OpHardwareIndexedLoad:
		return "hwiload"
	case OpHardwareIndexedStore:
		return "hwistore"
	case OpHardwareMemCpy:
		return "hwmemcpy"
	case OpIncBin:
		return "incbin"
	case OpChangeSP:
		return "changesp"
	default:
		return "<bad op>"
	}
}

// Instr is one three-address instruction. Not every field is meaningful
// for every Op; each field's comment names the opcodes that use it. This
// mirrors the single-struct, tagged-union instruction shape the teacher
// corpus uses for linear IR (falcon's codegen.Instruction), generalised
// to the fixed SM83 opcode set spec.md §3 enumerates.
type Instr struct {
	ID int // position in its containing instruction list; assigned by renumber

	Op Op

	Dst string   // result operand name: BinaryOp, UnaryOp, Assign, Constant, Load, IndexedLoad, Call (if capturing), ArgLoad, HardwareLoad, HardwareIndexedLoad
	Src []string // operand names in evaluation order: BinaryOp (left,right), UnaryOp (operand), Assign (src), Store (value), IndexedLoad (index), IndexedStore (index,value), HardwareStore (value), HardwareIndexedLoad (index), HardwareIndexedStore (index,value), CondJump (cond), Call (args...), Return (value, optional)

	Imm int // Constant's literal value; ChangeSP's byte delta (signed); HardwareMemCpy's byte count

	BinOp ast.BinOp // BinaryOp's operator
	UnOp  ast.UnOp  // UnaryOp's operator

	Var    string // Store/Load/IndexedLoad/IndexedStore's backing array/scalar name (the work-RAM slot or array base, resolved through Program.Globals)
	HWName string // HardwareLoad/HardwareStore/HardwareIndexedLoad/HardwareIndexedStore/HardwareMemCpy's hardware symbol, e.g. "display_oam_x"

	Label      string // Label's own name; Jump's target
	TrueLabel  string // CondJump's true target
	FalseLabel string // CondJump's false target or fallthrough

	Callee   string // Call's procedure name
	ArgIndex int    // ArgLoad's 0-based parameter position

	IncBinPath  string // IncBin's source file path
	IncBinLabel string // IncBin's synthetic label (also the MemCpy source)
}

func (i *Instr) String() string {
	switch i.Op {
	case OpBinaryOp:
		return fmt.Sprintf("%s = %s %v %s", i.Dst, i.Src[0], i.BinOp, i.Src[1])
	case OpUnaryOp:
		return fmt.Sprintf("%s = %v %s", i.Dst, i.UnOp, i.Src[0])
	case OpAssign:
		return fmt.Sprintf("%s = %s", i.Dst, i.Src[0])
	case OpConstant:
		return fmt.Sprintf("%s = const %d", i.Dst, i.Imm)
	case OpLoad:
		return fmt.Sprintf("%s = load %s", i.Dst, i.Var)
	case OpStore:
		return fmt.Sprintf("store %s = %s", i.Var, i.Src[0])
	case OpIndexedLoad:
		return fmt.Sprintf("%s = %s[%s]", i.Dst, i.Var, i.Src[0])
	case OpIndexedStore:
		return fmt.Sprintf("%s[%s] = %s", i.Var, i.Src[0], i.Src[1])
	case OpLabel:
		return fmt.Sprintf("%s:", i.Label)
	case OpJump:
		return fmt.Sprintf("jump %s", i.Label)
	case OpCondJump:
		return fmt.Sprintf("condjump %s ? %s : %s", i.Src[0], i.TrueLabel, i.FalseLabel)
	case OpCall:
		return fmt.Sprintf("%s = call %s(%v)", i.Dst, i.Callee, i.Src)
	case OpReturn:
		if len(i.Src) == 0 {
			return "return"
		}
		return fmt.Sprintf("return %s", i.Src[0])
	case OpArgLoad:
		return fmt.Sprintf("%s = arg#%d", i.Dst, i.ArgIndex)
	case OpHardwareLoad:
		return fmt.Sprintf("%s = hw[%s]", i.Dst, i.HWName)
	case OpHardwareStore:
		return fmt.Sprintf("hw[%s] = %s", i.HWName, i.Src[0])
	case OpHardwareIndexedLoad:
		return fmt.Sprintf("%s = hw[%s][%s]", i.Dst, i.HWName, i.Src[0])
	case OpHardwareIndexedStore:
		return fmt.Sprintf("hw[%s][%s] = %s", i.HWName, i.Src[0], i.Src[1])
	case OpHardwareMemCpy:
		return fmt.Sprintf("memcpy %s <- %s (%d bytes)", i.HWName, i.IncBinLabel, i.Imm)
	case OpIncBin:
		return fmt.Sprintf("incbin %s %q", i.IncBinLabel, i.IncBinPath)
	case OpChangeSP:
		return fmt.Sprintf("sp += %d", i.Imm)
	default:
		return "<bad instr>"
	}
}

// Proc is one procedure's lowered body, plus the formal parameter names
// and return type the allocator needs to pin parameter registers.
type Proc struct {
	Name    string
	Params  []string
	RetType *types.Type
	Instrs  []*Instr
}

// IncBinRequest is one deduplicated binary-include request (spec.md §3).
type IncBinRequest struct {
	Path  string
	Label string
}

// Program is the IR generator's whole output: the top-level instruction
// list, the procedure table, the global work-RAM address map, and the
// deduplicated set of binary-include requests.
type Program struct {
	Main  []*Instr
	Procs map[string]*Proc
	// ProcOrder keeps procedure emission deterministic; map iteration
	// order in Go is randomised and the code generator must produce the
	// same listing on every run (spec.md §5: "labels must be globally
	// unique" implies a stable, reproducible emission order too).
	ProcOrder []string

	Globals     map[string]int // variable (or array base) name -> work-RAM address
	GlobalSize  map[string]int // array name -> element count (1 for plain scalars)
	GlobalOrder []string
	nextWord    int // next free two-byte slot offset from 0xC000

	IncBins []IncBinRequest
	// Data holds one OpIncBin per registered asset, in registration order;
	// the code generator walks it to emit the ROM data section. Unlike
	// Main/Procs this list is never fed through liveness or allocation.
	Data []*Instr
}

func NewProgram() *Program {
	return &Program{
		Procs:      make(map[string]*Proc),
		Globals:    make(map[string]int),
		GlobalSize: make(map[string]int),
	}
}

// AddGlobal allocates the next two-byte work-RAM slot for name, starting
// at 0xC000 per spec.md §6, unless it was already allocated.
func (p *Program) AddGlobal(name string) int {
	return p.AddGlobalArray(name, 1)
}

// AddGlobalArray allocates n contiguous two-byte work-RAM slots for a
// list-typed global, unless name was already allocated.
func (p *Program) AddGlobalArray(name string, n int) int {
	if addr, ok := p.Globals[name]; ok {
		return addr
	}
	addr := 0xC000 + 2*p.nextWord
	p.Globals[name] = addr
	p.GlobalSize[name] = n
	p.GlobalOrder = append(p.GlobalOrder, name)
	p.nextWord += n
	return addr
}

// AddIncBin registers a binary-include request, deduplicating by path so
// the same asset is never embedded twice (spec.md §3: "a set of
// deduplicated binary-include requests"), and appends the corresponding
// IncBin instruction to the data section on first registration.
func (p *Program) AddIncBin(path, label string) string {
	if existing, found := lo.Find(p.IncBins, func(b IncBinRequest) bool { return b.Path == path }); found {
		return existing.Label
	}
	p.IncBins = append(p.IncBins, IncBinRequest{Path: path, Label: label})
	p.Data = append(p.Data, &Instr{Op: OpIncBin, IncBinPath: path, IncBinLabel: label})
	return label
}

// Renumber assigns sequential IDs to an instruction list; liveness and
// allocation both index instructions by position, so this must run
// before either (and again after the rewriter inserts instructions).
func Renumber(instrs []*Instr) {
	for i, ins := range instrs {
		ins.ID = i
	}
}
