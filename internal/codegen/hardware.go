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

// Fixed Game Boy hardware addresses (Pan Docs' canonical map). The VRAM
// and OAM bases are emitted directly; the reg* I/O register constants are
// not referenced by the generated code, whose runtime routines name those
// registers symbolically (LCDC, LY, BGP, ...).
const (
	regLCDC = 0xFF40
	regSTAT = 0xFF41
	regSCY  = 0xFF42
	regSCX  = 0xFF43
	regLY   = 0xFF44
	regBGP  = 0xFF47
	regJOYP = 0xFF00

	vramTileData = 0x8000
	vramTilemap0 = 0x9800
	oamBase      = 0xFE00
)

// tilesetBlockAddr returns the VRAM tile-data destination for one of the
// three user-addressable tileset banks (spec.md §4.1's hardware vocabulary).
func tilesetBlockAddr(name string) (int, bool) {
	switch name {
	case "display_tileset_block_0":
		return vramTileData, true
	case "display_tileset_block_1":
		return vramTileData + tilesetBlockBytes, true
	case "display_tileset_block_2":
		return vramTileData + 2*tilesetBlockBytes, true
	default:
		return 0, false
	}
}

const (
	tilesetBlockBytes = 2048
	tilemapBytes      = 1024
	spriteBytes       = 16
	oamEntryStride    = 4 // bytes per hardware OAM entry: Y, X, tile, attr
)

// oamFieldOffset is this compiler's field order within a 4-byte OAM entry,
// matching real Game Boy OAM layout except that the synthesized "attr"
// list is ignored by user code (oam-entry only exposes x, y, tile).
func oamFieldOffset(list string) (int, bool) {
	switch list {
	case "display_oam_y":
		return 0, true
	case "display_oam_x":
		return 1, true
	case "display_oam_tile":
		return 2, true
	case "display_oam_attr":
		return 3, true
	default:
		return 0, false
	}
}

// inputShadow is the work-RAM byte PenguinUpdateInput latches each
// button's state into; control_checkX reads it back, since decoding the
// joypad register's two multiplexed nibbles inline at every read site
// would be needlessly repetitive.
var inputShadow = map[string]string{
	"input_Right":  "InputRight",
	"input_Left":   "InputLeft",
	"input_Up":     "InputUp",
	"input_Down":   "InputDown",
	"input_A":      "InputA",
	"input_B":      "InputB",
	"input_Start":  "InputStart",
	"input_Select": "InputSelect",
}

// hardwareVoidRoutine/hardwareIntRoutine map the flattened hardware
// procedure name the checker and IR generator pass around to the fixed
// runtime label codegen defines for it.
var hardwareVoidRoutine = map[string]string{
	"control_LCDon":          "PenguinLCDOn",
	"control_LCDoff":         "PenguinLCDOff",
	"control_waitVBlank":     "PenguinWaitVBlank",
	"control_updateInput":    "PenguinUpdateInput",
	"control_initDisplayRegs": "PenguinInitDisplayRegs",
}

var hardwareIntRoutine = map[string]string{
	"control_checkLeft":   "PenguinCheckLeft",
	"control_checkRight":  "PenguinCheckRight",
	"control_checkUp":     "PenguinCheckUp",
	"control_checkDown":   "PenguinCheckDown",
	"control_checkA":      "PenguinCheckA",
	"control_checkB":      "PenguinCheckB",
	"control_checkStart":  "PenguinCheckStart",
	"control_checkSelect": "PenguinCheckSelect",
}
