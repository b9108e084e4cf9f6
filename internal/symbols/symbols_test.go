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

package symbols

import (
	"testing"

	"github.com/cs-25-sw-4-15/penguinlang/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvSeedsHardwareVocabulary(t *testing.T) {
	e := New()

	ty, ok := e.Lookup("display_tileset_block_0")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TTileset, ty))

	ty, ok = e.Lookup(HardwareTilemap)
	require.True(t, ok)
	assert.True(t, types.Equal(types.TTilemap, ty))

	ty, ok = e.Lookup("display_oam_x")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TListInt, ty))

	ty, ok = e.Lookup("input_A")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TInt, ty))

	p, ok := e.LookupProc("control_LCDon")
	require.True(t, ok)
	assert.True(t, p.Hardware)
	assert.True(t, types.Equal(types.TVoid, p.RetType))

	p, ok = e.LookupProc("control_checkA")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TInt, p.RetType))
}

func TestScopeShadowingAndRedeclaration(t *testing.T) {
	e := New()
	e.Declare("x", types.TInt)
	assert.True(t, e.DeclaredInCurrentScope("x"))

	e.PushScope()
	assert.False(t, e.DeclaredInCurrentScope("x"), "inner scope starts empty")
	e.Declare("x", types.TString)

	ty, ok := e.Lookup("x")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TString, ty), "innermost scope shadows outer")

	e.PopScope()
	ty, ok = e.Lookup("x")
	require.True(t, ok)
	assert.True(t, types.Equal(types.TInt, ty), "popping restores outer binding")
}

func TestLookupMissingNameFails(t *testing.T) {
	e := New()
	_, ok := e.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestDeclareProcAndHasProc(t *testing.T) {
	e := New()
	assert.False(t, e.HasProc("add"))
	e.DeclareProc(&Proc{Name: "add", RetType: types.TInt})
	assert.True(t, e.HasProc("add"))

	p, ok := e.LookupProc("add")
	require.True(t, ok)
	assert.Equal(t, "add", p.Name)
	assert.False(t, p.Hardware)
}

func TestProcsReturnsWholeTable(t *testing.T) {
	e := New()
	e.DeclareProc(&Proc{Name: "custom", RetType: types.TVoid})
	all := e.Procs()
	_, ok := all["custom"]
	assert.True(t, ok)
	_, ok = all["control_LCDon"]
	assert.True(t, ok, "seeded hardware procs are in the same table")
}

func TestIsHardwareScalar(t *testing.T) {
	assert.True(t, IsHardwareScalar("display_tileset_block_1"))
	assert.True(t, IsHardwareScalar(HardwareTilemap))
	assert.True(t, IsHardwareScalar("input_Start"))
	assert.False(t, IsHardwareScalar("display_oam_x"), "OAM lists are hardware lists, not scalars")
	assert.False(t, IsHardwareScalar("user_var"))
}

func TestIsHardwareList(t *testing.T) {
	assert.True(t, IsHardwareList("display_oam_tile"))
	assert.False(t, IsHardwareList("input_A"))
	assert.False(t, IsHardwareList("user_list"))
}
