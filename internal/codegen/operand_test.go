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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReg(t *testing.T) {
	for _, r := range []string{"a", "b", "c", "d", "e", "h", "l"} {
		assert.True(t, isReg(r))
	}
	assert.False(t, isReg("[sp+0]"))
	assert.False(t, isReg("hl"))
	assert.False(t, isReg(""))
}

func TestSymNameReplacesDotsAndDollars(t *testing.T) {
	assert.Equal(t, "player_x", symName("player.x"))
	assert.Equal(t, "update_buf", symName("update$buf"))
	assert.Equal(t, "plain", symName("plain"))
}

func TestLoadToAFromPlainRegisterIsASingleMove(t *testing.T) {
	b := &buffer{}
	b.loadToA("b")
	assert.Equal(t, []string{"\tld a, b"}, b.lines)
}

func TestLoadToAFromAccumulatorIsANoop(t *testing.T) {
	b := &buffer{}
	b.loadToA("a")
	assert.Empty(t, b.lines)
}

func TestLoadToAFromSpillSlotGoesThroughHL(t *testing.T) {
	b := &buffer{}
	b.loadToA("[sp+2]")
	assert.Equal(t, []string{"\tld hl, sp+2", "\tld a, [hl]"}, b.lines)
}

func TestStoreFromAToSpillSlotGoesThroughHL(t *testing.T) {
	b := &buffer{}
	b.storeFromA("[sp+4]")
	assert.Equal(t, []string{"\tld hl, sp+4", "\tld [hl], a"}, b.lines)
}

func TestStoreFromAToAccumulatorIsANoop(t *testing.T) {
	b := &buffer{}
	b.storeFromA("a")
	assert.Empty(t, b.lines)
}

func TestAluRHSPassesRegistersThroughUnchanged(t *testing.T) {
	b := &buffer{}
	assert.Equal(t, "c", b.aluRHS("c"))
	assert.Empty(t, b.lines)
}

func TestAluRHSLoadsSpillSlotsThroughHLIndirect(t *testing.T) {
	b := &buffer{}
	got := b.aluRHS("[sp+0]")
	assert.Equal(t, "[hl]", got)
	assert.Equal(t, []string{"\tld hl, sp+0"}, b.lines)
}

func TestLoadImm8ToRegisterIsDirect(t *testing.T) {
	b := &buffer{}
	b.loadImm8("b", 5)
	assert.Equal(t, []string{"\tld b, 5"}, b.lines)
}

func TestLoadImm8TruncatesToEightBits(t *testing.T) {
	b := &buffer{}
	b.loadImm8("b", 257) // 257 mod 256 == 1
	assert.Equal(t, []string{"\tld b, 1"}, b.lines)
}

func TestLoadImm8ToSpillSlotGoesThroughAccumulator(t *testing.T) {
	b := &buffer{}
	b.loadImm8("[sp+0]", 9)
	assert.Equal(t, []string{"\tld a, 9", "\tld hl, sp+0", "\tld [hl], a"}, b.lines)
}

func TestLoadToAAddsPushDepthToSpillOffset(t *testing.T) {
	b := &buffer{pushDepth: 6}
	b.loadToA("[sp+2]")
	assert.Equal(t, []string{"\tld hl, sp+8"}, b.lines[:1])
}

func TestStoreFromAAddsPushDepthToSpillOffset(t *testing.T) {
	b := &buffer{pushDepth: 6}
	b.storeFromA("[sp+4]")
	assert.Equal(t, []string{"\tld hl, sp+10", "\tld [hl], a"}, b.lines)
}

func TestAluRHSAddsPushDepthToSpillOffset(t *testing.T) {
	b := &buffer{pushDepth: 6}
	got := b.aluRHS("[sp+0]")
	assert.Equal(t, "[hl]", got)
	assert.Equal(t, []string{"\tld hl, sp+6"}, b.lines)
}

func TestPushCallerSavedTracksDepthAndPopRestoresIt(t *testing.T) {
	b := &buffer{}
	b.pushCallerSaved()
	assert.Equal(t, 6, b.pushDepth)
	assert.Equal(t, []string{"\tpush bc", "\tpush de", "\tpush hl"}, b.lines)

	b.popCallerSaved()
	assert.Equal(t, 0, b.pushDepth)
	assert.Equal(t, []string{"\tpush bc", "\tpush de", "\tpush hl", "\tpop hl", "\tpop de", "\tpop bc"}, b.lines)
}
