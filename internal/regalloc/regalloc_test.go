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

package regalloc

import (
	"testing"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/liveness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateEmptyInstrsProducesEmptyAllocation(t *testing.T) {
	a := Allocate(nil, nil)
	assert.Empty(t, a.Order)
	assert.Empty(t, a.Intervals)
	assert.Equal(t, 0, a.NumSpillSlots)
}

func TestAllocateNeverHandsOutAccumulatorRegister(t *testing.T) {
	instrs := []*ir.Instr{
		{Op: ir.OpConstant, Dst: "t0", Imm: 1},
		{Op: ir.OpReturn, Src: []string{"t0"}},
	}
	a := Allocate(instrs, nil)
	iv := a.Intervals["t0"]
	require.NotNil(t, iv)
	assert.NotEqual(t, "a", iv.Reg)
	assert.Contains(t, GeneralPurpose, iv.Reg)
}

func TestAllocatePinsFirstFourParamsToFixedRegisters(t *testing.T) {
	params := []string{"p0", "p1", "p2", "p3", "p4"}
	instrs := []*ir.Instr{
		{Op: ir.OpArgLoad, Dst: "p0", ArgIndex: 0},
		{Op: ir.OpArgLoad, Dst: "p1", ArgIndex: 1},
		{Op: ir.OpArgLoad, Dst: "p2", ArgIndex: 2},
		{Op: ir.OpArgLoad, Dst: "p3", ArgIndex: 3},
		{Op: ir.OpArgLoad, Dst: "p4", ArgIndex: 4},
		{Op: ir.OpReturn, Src: []string{"p0", "p1", "p2", "p3", "p4"}},
	}
	a := Allocate(instrs, params)

	assert.Equal(t, "b", a.Intervals["p0"].Reg)
	assert.Equal(t, "c", a.Intervals["p1"].Reg)
	assert.Equal(t, "d", a.Intervals["p2"].Reg)
	assert.Equal(t, "e", a.Intervals["p3"].Reg)

	// the 5th parameter isn't pinned; it competes for whatever's left.
	assert.False(t, a.Intervals["p4"].Spilled)
	assert.NotEmpty(t, a.Intervals["p4"].Reg)
	for _, iv := range a.Intervals {
		assert.False(t, iv.Spilled)
	}
}

func TestAllocateSpillsWhenMoreThanSixVariablesAreSimultaneouslyLive(t *testing.T) {
	instrs := []*ir.Instr{
		{Op: ir.OpConstant, Dst: "t0", Imm: 0},
		{Op: ir.OpConstant, Dst: "t1", Imm: 1},
		{Op: ir.OpConstant, Dst: "t2", Imm: 2},
		{Op: ir.OpConstant, Dst: "t3", Imm: 3},
		{Op: ir.OpConstant, Dst: "t4", Imm: 4},
		{Op: ir.OpConstant, Dst: "t5", Imm: 5},
		{Op: ir.OpConstant, Dst: "t6", Imm: 6},
		{Op: ir.OpReturn, Src: []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}},
	}
	a := Allocate(instrs, nil)

	var spilled []string
	seenRegs := map[string]bool{}
	for _, name := range []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"} {
		iv := a.Intervals[name]
		require.NotNil(t, iv)
		if iv.Spilled {
			spilled = append(spilled, name)
			continue
		}
		assert.False(t, seenRegs[iv.Reg], "register %s handed out twice among simultaneously-live vars", iv.Reg)
		seenRegs[iv.Reg] = true
	}

	require.Len(t, spilled, 1, "exactly one of 7 fully-overlapping intervals must spill on a 6-register machine")
	assert.Equal(t, "t6", spilled[0], "the interval that starts last loses out under the furthest-ending heuristic")
	assert.Equal(t, 1, a.NumSpillSlots)
	assert.GreaterOrEqual(t, a.Intervals["t6"].SpillSlot, 0)
}

func TestAllocateReusesRegisterAfterIntervalExpires(t *testing.T) {
	instrs := []*ir.Instr{
		{Op: ir.OpConstant, Dst: "t0", Imm: 1},
		{Op: ir.OpBinaryOp, Dst: "dummy", Src: []string{"t0", "t0"}},
		{Op: ir.OpConstant, Dst: "t1", Imm: 2},
		{Op: ir.OpReturn, Src: []string{"t1"}},
	}
	a := Allocate(instrs, nil)

	t0, t1 := a.Intervals["t0"], a.Intervals["t1"]
	require.NotNil(t, t0)
	require.NotNil(t, t1)
	assert.False(t, t0.Spilled)
	assert.False(t, t1.Spilled)
	assert.Equal(t, t0.Reg, t1.Reg, "t0's register is free again once its interval ends before t1 starts")
}

func TestAllocateOrderFollowsIntervalStartPosition(t *testing.T) {
	instrs := []*ir.Instr{
		{Op: ir.OpConstant, Dst: "second", Imm: 1},
		{Op: ir.OpConstant, Dst: "first", Imm: 2},
		{Op: ir.OpReturn, Src: []string{"second", "first"}},
	}
	a := Allocate(instrs, nil)
	require.Len(t, a.Order, 2)
	assert.Equal(t, "second", a.Order[0], "defined at instruction 0")
	assert.Equal(t, "first", a.Order[1], "defined at instruction 1")
}

func TestBuildIntervalsSpansDefinitionToLastUse(t *testing.T) {
	instrs := []*ir.Instr{
		{Op: ir.OpConstant, Dst: "t0", Imm: 1},
		{Op: ir.OpReturn, Src: []string{"t0"}},
	}
	ir.Renumber(instrs)
	live := liveness.Analyze(instrs)
	intervals := buildIntervals(live)
	require.Len(t, intervals, 1)
	assert.Equal(t, "t0", intervals[0].Var)
	assert.Equal(t, 0, intervals[0].Start)
	assert.Equal(t, 1, intervals[0].End)
}
