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

// Package types is the closed semantic type system Penguin programs are
// checked against: int, string, void, the three hardware aggregate types,
// oam-entry, and list<T>.
package types

import "fmt"

// Kind is the tag of a Type. The set is closed: every switch over Kind in
// this module is expected to be exhaustive.
type Kind int

const (
	Int Kind = iota
	String
	Void
	Tileset
	Tilemap
	Sprite
	OamEntry
	List
)

// Type is a tagged value. List carries an Elem; every other kind is a
// singleton reachable through the package-level vars below.
type Type struct {
	Kind Kind
	Elem *Type // non-nil only when Kind == List
}

var (
	TInt      = &Type{Kind: Int}
	TString   = &Type{Kind: String}
	TVoid     = &Type{Kind: Void}
	TTileset  = &Type{Kind: Tileset}
	TTilemap  = &Type{Kind: Tilemap}
	TSprite   = &Type{Kind: Sprite}
	TOamEntry = &Type{Kind: OamEntry}
)

// ListOf returns a list<elem> type; each call allocates a new value, so
// list types are compared with Equal. Only
// list<int> is ever user-constructible per spec.md §3, but the type model
// stays generic in Elem so hardware lists can reuse it.
func ListOf(elem *Type) *Type {
	return &Type{Kind: List, Elem: elem}
}

var TListInt = ListOf(TInt)

func (t *Type) String() string {
	switch t.Kind {
	case Int:
		return "int"
	case String:
		return "string"
	case Void:
		return "void"
	case Tileset:
		return "tileset"
	case Tilemap:
		return "tilemap"
	case Sprite:
		return "sprite"
	case OamEntry:
		return "oam-entry"
	case List:
		return fmt.Sprintf("list<%v>", t.Elem)
	default:
		return "<invalid type>"
	}
}

// Equal compares by structural identity: two list types are equal iff
// their element types are equal, everything else compares by Kind.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == List {
		return Equal(a.Elem, b.Elem)
	}
	return true
}

// Indexable reports whether a value of this type may appear as the base of
// a ListAccess: list<T>, tileset, and tilemap are; sprite is explicitly not.
func (t *Type) Indexable() bool {
	switch t.Kind {
	case List, Tileset, Tilemap:
		return true
	default:
		return false
	}
}

// IndexResult returns the type produced by indexing this type, or nil if
// the type is not indexable.
func (t *Type) IndexResult() *Type {
	switch t.Kind {
	case List:
		return t.Elem
	case Tileset, Tilemap:
		return TInt
	default:
		return nil
	}
}

// oamAttrs is the fixed attribute map for oam-entry (spec.md §3: exactly
// three attributes, x, y, tile, each int).
var oamAttrs = map[string]*Type{
	"x":    TInt,
	"y":    TInt,
	"tile": TInt,
}

// Attribute resolves an attribute name on a base type, returning the
// attribute's type and whether it exists. Only oam-entry carries
// user-facing attributes through this path; hardware-module attribute
// access (display.tileset_block_0, control.LCDon, ...) is resolved
// directly against the pre-seeded symbol table, not through this map,
// because those names are flattened to scalars/procedures rather than
// being structural fields of a Penguin type.
func (t *Type) Attribute(name string) (*Type, bool) {
	if t.Kind != OamEntry {
		return nil, false
	}
	at, ok := oamAttrs[name]
	return at, ok
}

// IsHardwareAggregate reports whether values of this type must be
// initialised from a string (binary asset path) rather than a Penguin
// expression of the same type, per spec.md §3's string-literal contract.
func (t *Type) IsHardwareAggregate() bool {
	switch t.Kind {
	case Tileset, Tilemap, Sprite:
		return true
	default:
		return false
	}
}

// FromName maps a Penguin declared type name to its Type, reporting
// ok=false for any name outside the closed set (spec.md's "invalid type
// name" failure kind). list<int> is spelled "list" in declarations, since
// Penguin's only user-constructible aggregate has a fixed element type.
// oam-entry is spelled "oam_entry" in source (a hyphen is not a legal
// identifier character in Penguin grammar) even though Type.String()
// reports it back as "oam-entry"; FromName accepts the source spelling.
func FromName(name string) (*Type, bool) {
	switch name {
	case "int":
		return TInt, true
	case "string":
		return TString, true
	case "void":
		return TVoid, true
	case "tileset":
		return TTileset, true
	case "tilemap":
		return TTilemap, true
	case "sprite":
		return TSprite, true
	case "oam_entry":
		return TOamEntry, true
	case "list":
		return TListInt, true
	default:
		return nil, false
	}
}
