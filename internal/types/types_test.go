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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromNameAcceptsSourceSpellings(t *testing.T) {
	cases := map[string]*Type{
		"int":       TInt,
		"string":    TString,
		"void":      TVoid,
		"tileset":   TTileset,
		"tilemap":   TTilemap,
		"sprite":    TSprite,
		"oam_entry": TOamEntry,
		"list":      TListInt,
	}
	for name, want := range cases {
		got, ok := FromName(name)
		require.True(t, ok, "FromName(%q)", name)
		assert.True(t, Equal(want, got))
	}
}

func TestFromNameRejectsDisplaySpellingAndUnknown(t *testing.T) {
	_, ok := FromName("oam-entry")
	assert.False(t, ok, "oam-entry is the display spelling, not the source spelling")

	_, ok = FromName("nonsense")
	assert.False(t, ok)
}

func TestTypeStringRoundTripsDisplaySpelling(t *testing.T) {
	assert.Equal(t, "oam-entry", TOamEntry.String())
	assert.Equal(t, "int", TInt.String())
	assert.Equal(t, "list<int>", TListInt.String())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(TInt, TInt))
	assert.False(t, Equal(TInt, TString))
	assert.True(t, Equal(ListOf(TInt), ListOf(TInt)))
	assert.False(t, Equal(ListOf(TInt), ListOf(TString)))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(TInt, nil))
}

func TestIndexableAndIndexResult(t *testing.T) {
	assert.True(t, TListInt.Indexable())
	assert.True(t, Equal(TInt, TListInt.IndexResult()))

	assert.True(t, TTileset.Indexable())
	assert.True(t, Equal(TInt, TTileset.IndexResult()))

	assert.True(t, TTilemap.Indexable())
	assert.False(t, TSprite.Indexable())
	assert.Nil(t, TSprite.IndexResult())

	assert.False(t, TInt.Indexable())
	assert.Nil(t, TInt.IndexResult())
}

func TestAttributeOnlyResolvesOnOamEntry(t *testing.T) {
	at, ok := TOamEntry.Attribute("x")
	require.True(t, ok)
	assert.True(t, Equal(TInt, at))

	_, ok = TOamEntry.Attribute("tile")
	assert.True(t, ok)

	_, ok = TOamEntry.Attribute("color")
	assert.False(t, ok, "oam-entry has exactly x, y, tile")

	_, ok = TInt.Attribute("x")
	assert.False(t, ok, "non-oam-entry types have no attributes")
}

func TestIsHardwareAggregate(t *testing.T) {
	assert.True(t, TTileset.IsHardwareAggregate())
	assert.True(t, TTilemap.IsHardwareAggregate())
	assert.True(t, TSprite.IsHardwareAggregate())
	assert.False(t, TOamEntry.IsHardwareAggregate())
	assert.False(t, TInt.IsHardwareAggregate())
	assert.False(t, TListInt.IsHardwareAggregate())
}
