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

// Package symbols is the lexically scoped symbol table plus the flat
// procedure table from spec.md §3, pre-populated with the hardware
// vocabulary spec.md §4.1 requires the checker to seed before the main
// pass runs.
package symbols

import "github.com/cs-25-sw-4-15/penguinlang/internal/types"

// Proc is a procedure's signature: ordered formal parameters and a return
// type (types.TVoid for procedures that don't return a value).
type Proc struct {
	Name    string
	Params  []Param
	RetType *types.Type
	// Hardware marks procedures seeded by the pre-pass (spec.md §4.1):
	// the IR generator emits dedicated hardware opcodes for their calls
	// instead of a regular Call.
	Hardware bool
}

type Param struct {
	Name string
	Type *types.Type
}

// Env is a stack of scopes (innermost last) plus the flat procedure
// table. Redeclaration within one scope is forbidden; shadowing across
// nested scopes is allowed (spec.md §3).
type Env struct {
	scopes []map[string]*types.Type
	procs  map[string]*Proc
}

// New returns an Env pre-populated with the hardware vocabulary and an
// empty outermost scope, per spec.md §4.1.
func New() *Env {
	e := &Env{procs: make(map[string]*Proc)}
	e.PushScope()
	e.seedHardware()
	return e
}

func (e *Env) PushScope() {
	e.scopes = append(e.scopes, make(map[string]*types.Type))
}

func (e *Env) PopScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// DeclaredInCurrentScope reports whether name already exists in the
// innermost scope (the redeclaration check in spec.md §3).
func (e *Env) DeclaredInCurrentScope(name string) bool {
	_, ok := e.scopes[len(e.scopes)-1][name]
	return ok
}

// Declare binds name to t in the current (innermost) scope. Callers must
// have already checked DeclaredInCurrentScope.
func (e *Env) Declare(name string, t *types.Type) {
	e.scopes[len(e.scopes)-1][name] = t
}

// Lookup resolves name innermost-scope-first, per spec.md §3.
func (e *Env) Lookup(name string) (*types.Type, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DeclareProc registers a procedure signature in the flat, scope-independent
// procedure table (spec.md §3: "populated eagerly... in a pre-pass so
// calls may precede textual definitions").
func (e *Env) DeclareProc(p *Proc) {
	e.procs[p.Name] = p
}

func (e *Env) HasProc(name string) bool {
	_, ok := e.procs[name]
	return ok
}

func (e *Env) LookupProc(name string) (*Proc, bool) {
	p, ok := e.procs[name]
	return p, ok
}

// Procs returns every registered procedure, for components (IR generator)
// that need to iterate the whole table.
func (e *Env) Procs() map[string]*Proc {
	return e.procs
}

// --- Hardware vocabulary (spec.md §4.1) -------------------------------

// HardwareTilesets/HardwareLists/HardwareInputs are exposed so other
// components (IR generation, code generation) can recognise hardware
// names without re-deriving the seed list.
var HardwareTilesets = []string{
	"display_tileset_block_0",
	"display_tileset_block_1",
	"display_tileset_block_2",
}

const HardwareTilemap = "display_tilemap0"

var HardwareOamLists = []string{
	"display_oam_x",
	"display_oam_y",
	"display_oam_tile",
	"display_oam_attr",
}

var HardwareInputs = []string{
	"input_Right", "input_Left", "input_Up", "input_Down",
	"input_A", "input_B", "input_Start", "input_Select",
}

// HardwareVoidProcs/HardwareIntProcs are the control module routines from
// spec.md §4.1.
var HardwareVoidProcs = []string{
	"control_LCDon", "control_LCDoff", "control_waitVBlank",
	"control_updateInput", "control_initDisplayRegs",
}

var HardwareIntProcs = []string{
	"control_checkLeft", "control_checkRight", "control_checkUp", "control_checkDown",
	"control_checkA", "control_checkB", "control_checkStart", "control_checkSelect",
}

func (e *Env) seedHardware() {
	for _, name := range HardwareTilesets {
		e.Declare(name, types.TTileset)
	}
	e.Declare(HardwareTilemap, types.TTilemap)
	for _, name := range HardwareOamLists {
		e.Declare(name, types.TListInt)
	}
	for _, name := range HardwareInputs {
		e.Declare(name, types.TInt)
	}
	for _, name := range HardwareVoidProcs {
		e.DeclareProc(&Proc{Name: name, RetType: types.TVoid, Hardware: true})
	}
	for _, name := range HardwareIntProcs {
		e.DeclareProc(&Proc{Name: name, RetType: types.TInt, Hardware: true})
	}
}

// IsHardwareScalar reports whether name is a pre-seeded hardware scalar
// (a tileset/tilemap name, or an input flag) rather than a user global.
func IsHardwareScalar(name string) bool {
	for _, n := range HardwareTilesets {
		if n == name {
			return true
		}
	}
	if name == HardwareTilemap {
		return true
	}
	for _, n := range HardwareInputs {
		if n == name {
			return true
		}
	}
	return false
}

// IsHardwareList reports whether name is one of the four OAM component
// lists (spec.md's indexed hardware lists).
func IsHardwareList(name string) bool {
	for _, n := range HardwareOamLists {
		if n == name {
			return true
		}
	}
	return false
}
