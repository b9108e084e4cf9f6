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

import (
	"testing"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGlobalAllocatesSequentialTwoByteSlots(t *testing.T) {
	p := NewProgram()
	a := p.AddGlobal("x")
	b := p.AddGlobal("y")
	assert.Equal(t, 0xC000, a)
	assert.Equal(t, 0xC002, b)
	assert.Equal(t, []string{"x", "y"}, p.GlobalOrder)
}

func TestAddGlobalIsIdempotent(t *testing.T) {
	p := NewProgram()
	a := p.AddGlobal("x")
	again := p.AddGlobal("x")
	assert.Equal(t, a, again)
	assert.Len(t, p.GlobalOrder, 1)
}

func TestAddGlobalArrayReservesNSlots(t *testing.T) {
	p := NewProgram()
	base := p.AddGlobalArray("xs", 3)
	next := p.AddGlobal("y")
	assert.Equal(t, 0xC000, base)
	assert.Equal(t, 0xC006, next, "3 elements * 2 bytes each")
	assert.Equal(t, 3, p.GlobalSize["xs"])
}

func TestAddIncBinDeduplicatesByPath(t *testing.T) {
	p := NewProgram()
	l1 := p.AddIncBin("assets/tiles.png", "asset_0")
	l2 := p.AddIncBin("assets/tiles.png", "asset_1")
	assert.Equal(t, l1, l2, "same path returns the first label")
	assert.Len(t, p.IncBins, 1)
	assert.Len(t, p.Data, 1)
	assert.Equal(t, OpIncBin, p.Data[0].Op)
}

func TestAddIncBinDistinctPathsEachRegister(t *testing.T) {
	p := NewProgram()
	p.AddIncBin("a.png", "asset_0")
	p.AddIncBin("b.png", "asset_1")
	assert.Len(t, p.IncBins, 2)
	assert.Len(t, p.Data, 2)
}

func TestRenumberAssignsSequentialIDs(t *testing.T) {
	instrs := []*Instr{
		{Op: OpConstant, Dst: "t0", Imm: 1},
		{Op: OpConstant, Dst: "t1", Imm: 2},
		{Op: OpBinaryOp, Dst: "t2", BinOp: ast.Add, Src: []string{"t0", "t1"}},
	}
	Renumber(instrs)
	for i, ins := range instrs {
		assert.Equal(t, i, ins.ID)
	}
}

func TestInstrStringFormatsEveryOp(t *testing.T) {
	cases := []struct {
		instr *Instr
		want  string
	}{
		{&Instr{Op: OpConstant, Dst: "t0", Imm: 5}, "t0 = const 5"},
		{&Instr{Op: OpAssign, Dst: "x", Src: []string{"t0"}}, "x = t0"},
		{&Instr{Op: OpLoad, Dst: "t1", Var: "g"}, "t1 = load g"},
		{&Instr{Op: OpStore, Var: "g", Src: []string{"t1"}}, "store g = t1"},
		{&Instr{Op: OpLabel, Label: "loop_0"}, "loop_0:"},
		{&Instr{Op: OpJump, Label: "loop_0"}, "jump loop_0"},
		{&Instr{Op: OpReturn}, "return"},
		{&Instr{Op: OpReturn, Src: []string{"t0"}}, "return t0"},
		{&Instr{Op: OpArgLoad, Dst: "a", ArgIndex: 0}, "a = arg#0"},
		{&Instr{Op: OpHardwareLoad, Dst: "t0", HWName: "input_A"}, "t0 = hw[input_A]"},
		{&Instr{Op: OpChangeSP, Imm: -2}, "sp += -2"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.instr.String())
	}
}

func TestDefsUsesAndControlFlowClassification(t *testing.T) {
	bin := &Instr{Op: OpBinaryOp, Dst: "t2", Src: []string{"t0", "t1"}}
	require.Equal(t, []string{"t2"}, bin.Defs())
	require.Equal(t, []string{"t0", "t1"}, bin.Uses())
	assert.False(t, bin.IsBlockEnd())
	assert.Nil(t, bin.Successors())

	store := &Instr{Op: OpStore, Var: "g", Src: []string{"t0"}}
	assert.Nil(t, store.Defs())

	jmp := &Instr{Op: OpJump, Label: "L"}
	assert.True(t, jmp.IsBlockEnd())
	assert.Equal(t, []string{"L"}, jmp.Successors())

	cj := &Instr{Op: OpCondJump, TrueLabel: "T", FalseLabel: "F"}
	assert.True(t, cj.IsBlockEnd())
	assert.Equal(t, []string{"T", "F"}, cj.Successors())

	ret := &Instr{Op: OpReturn}
	assert.True(t, ret.IsBlockEnd())
}
