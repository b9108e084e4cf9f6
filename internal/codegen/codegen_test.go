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
	"testing"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSectionAndLabelFormatting(t *testing.T) {
	b := &buffer{}
	b.section("Start", "ROM0[$150]")
	b.label("Start")
	b.inst("di")
	out := b.String()
	assert.Contains(t, out, `SECTION "Start", ROM0[$150]`)
	assert.Contains(t, out, "Start:")
	assert.Contains(t, out, "\tdi")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestBufferRawSplitsMultilineInput(t *testing.T) {
	b := &buffer{}
	b.raw("line one\nline two\n")
	assert.Equal(t, []string{"line one", "line two"}, b.lines)
}

func TestProcLabelPrefixesAndSanitizes(t *testing.T) {
	assert.Equal(t, "Proc_add", procLabel("add"))
	assert.Equal(t, "Proc_update_buf", procLabel("update$buf"))
}

func TestGenerateProducesHeaderEntryAndGlobals(t *testing.T) {
	prog := ir.NewProgram()
	prog.AddGlobal("x")
	prog.Main = []*ir.Instr{
		{Op: ir.OpConstant, Dst: "b", Imm: 1},
		{Op: ir.OpStore, Var: "x", Src: []string{"b"}},
	}
	ir.Renumber(prog.Main)

	out, err := Generate(prog)
	require.NoError(t, err)
	assert.Contains(t, out, "jp Start")
	assert.Contains(t, out, "Start:")
	assert.Contains(t, out, "call PenguinInitDisplayRegs")
	assert.Contains(t, out, "jp PenguinDone")
	assert.Contains(t, out, `SECTION "PenguinGlobals", WRAM0[$C000]`)
	assert.Contains(t, out, "PenguinMemCopy")
}

func TestGenerateEmitsOneLabelPerProcedure(t *testing.T) {
	prog := ir.NewProgram()
	prog.ProcOrder = []string{"f"}
	prog.Procs["f"] = &ir.Proc{
		Name: "f",
		Instrs: []*ir.Instr{
			{Op: ir.OpReturn},
		},
	}
	ir.Renumber(prog.Procs["f"].Instrs)

	out, err := Generate(prog)
	require.NoError(t, err)
	assert.Contains(t, out, "Proc_f:")
}

func TestGenerateEmitsIncBinSectionForRegisteredAssets(t *testing.T) {
	prog := ir.NewProgram()
	prog.AddIncBin("assets/tiles.png", "Asset_0")

	out, err := Generate(prog)
	require.NoError(t, err)
	assert.Contains(t, out, `SECTION "PenguinAssets", ROM0`)
	assert.Contains(t, out, `INCBIN "assets/tiles.png"`)
}

func TestGenerateSurfacesProcedureCodegenErrors(t *testing.T) {
	prog := ir.NewProgram()
	prog.ProcOrder = []string{"bad"}
	prog.Procs["bad"] = &ir.Proc{
		Name:   "bad",
		Instrs: []*ir.Instr{{Op: ir.Op(255)}},
	}
	_, err := Generate(prog)
	assert.Error(t, err)
}
