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

// runtime is the fixed helper-routine text every generated ROM links
// against: SM83 has no multiply/divide instruction, so PenguinMult/
// PenguinDiv/PenguinMod are loop-and-add/subtract routines; the
// Penguin{LCDOn,LCDOff,WaitVBlank,UpdateInput,InitDisplayRegs,CheckX}
// family are the fixed bindings for spec.md's control/input hardware
// vocabulary, and PenguinDone is the halt loop every program falls into
// after Main returns.
const runtime = `
; ---- arithmetic helpers (SM83 has no multiply or divide instruction) ----

; PenguinMult: a = b * c, by repeated addition (8-bit, wraps on overflow).
; c is consumed as the down-counter.
PenguinMult:
	xor a          ; a = running product
.loop
	ld e, a
	ld a, c
	or a
	jr z, .done
	ld a, e
	add a, b
	dec c
	jr .loop
.done
	ld a, e
	ret

; PenguinDiv: a = b / c (8-bit unsigned, c must be nonzero)
PenguinDiv:
	ld d, 0
	ld a, b
.divLoop
	cp c
	jr c, .divDone
	sub c
	inc d
	jr .divLoop
.divDone
	ld a, d
	ret

; PenguinMod: a = b % c (8-bit unsigned, c must be nonzero)
PenguinMod:
	ld a, b
.modLoop
	cp c
	jr c, .modDone
	sub c
	jr .modLoop
.modDone
	ret

; PenguinMemCopy: copy bc bytes from [hl] to [de], incrementing both
; pointers. Used to blit incbin'd tile/tilemap assets into VRAM.
PenguinMemCopy:
	ld a, b
	or c
	ret z
	ld a, [hl+]
	ld [de], a
	inc de
	dec bc
	jr PenguinMemCopy

; ---- display / LCDC control ----

PenguinLCDOn:
	ld a, [LCDC]
	set 7, a
	ld [LCDC], a
	ret

PenguinLCDOff:
	ld a, [LCDC]
	res 7, a
	ld [LCDC], a
	ret

PenguinWaitVBlank:
.wait
	ld a, [LY]
	cp 144
	jr c, .wait
	ret

PenguinInitDisplayRegs:
	ld a, %11100100 ; BGP default palette
	ld [BGP], a
	xor a
	ld [SCX], a
	ld [SCY], a
	ret

; ---- joypad ----

PenguinUpdateInput:
	ld a, %00100000 ; select direction keys
	ld [JOYP], a
	ld a, [JOYP]
	ld a, [JOYP]
	cpl
	and $0F
	ld b, a
	ld a, %00010000 ; select button keys
	ld [JOYP], a
	ld a, [JOYP]
	ld a, [JOYP]
	cpl
	and $0F
	ld c, a
	ld a, %00110000
	ld [JOYP], a

	ld a, b
	and %0001
	ld [InputRight], a
	ld a, b
	and %0010
	srl a
	ld [InputLeft], a
	ld a, b
	and %0100
	swap a
	srl a
	srl a
	srl a
	ld [InputUp], a
	ld a, b
	and %1000
	swap a
	srl a
	srl a
	srl a
	ld [InputDown], a

	ld a, c
	and %0001
	ld [InputA], a
	ld a, c
	and %0010
	srl a
	ld [InputB], a
	ld a, c
	and %0100
	swap a
	srl a
	srl a
	srl a
	ld [InputSelect], a
	ld a, c
	and %1000
	swap a
	srl a
	srl a
	srl a
	ld [InputStart], a
	ret

PenguinCheckRight:
	ld a, [InputRight]
	ret
PenguinCheckLeft:
	ld a, [InputLeft]
	ret
PenguinCheckUp:
	ld a, [InputUp]
	ret
PenguinCheckDown:
	ld a, [InputDown]
	ret
PenguinCheckA:
	ld a, [InputA]
	ret
PenguinCheckB:
	ld a, [InputB]
	ret
PenguinCheckStart:
	ld a, [InputStart]
	ret
PenguinCheckSelect:
	ld a, [InputSelect]
	ret

; ---- program exit ----

PenguinDone:
.spin
	halt
	nop
	jr .spin
`
