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

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasicProgram(t *testing.T) {
	toks := Tokenize(`int x = 1 + 2;`)
	require.Equal(t, []string{
		"IDENT", "IDENT", "ASSIGN", "INT", "PLUS", "INT", "SEMI", "EOF",
	}, kinds(toks))
	assert.Equal(t, "x", toks[1].Text)
	assert.Equal(t, "1", toks[3].Text)
}

func TestTokenizeKeywordsAndOperators(t *testing.T) {
	toks := Tokenize(`if else loop return procedure not && || <= >= == != << >>`)
	require.Equal(t, []string{
		"IF", "ELSE", "LOOP", "RETURN", "PROCEDURE", "NOT",
		"ANDAND", "OROR", "LE", "GE", "EQ", "NE", "SHL", "SHR", "EOF",
	}, kinds(toks))
}

func TestTokenizeStringLiteral(t *testing.T) {
	toks := Tokenize(`tileset t = "assets/tiles.png";`)
	require.Len(t, toks, 6)
	assert.Equal(t, "STRING", toks[3].Kind)
	assert.Equal(t, "assets/tiles.png", toks[3].Text)
}

func TestTokenizeSkipsLineComments(t *testing.T) {
	toks := Tokenize("int x; // trailing comment\nint y;")
	require.Equal(t, []string{
		"IDENT", "IDENT", "SEMI", "IDENT", "IDENT", "SEMI", "EOF",
	}, kinds(toks))
	assert.Equal(t, 2, toks[3].Line)
}

func TestTokenizeTracksLineNumbers(t *testing.T) {
	toks := Tokenize("int x;\nint y;\nint z;")
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[3].Line)
	assert.Equal(t, 3, toks[6].Line)
}

func TestTokenizeUnexpectedCharacterPanics(t *testing.T) {
	assert.Panics(t, func() { Tokenize("int x = @;") })
}

func TestTokenizeBangWithoutEqualsPanics(t *testing.T) {
	assert.Panics(t, func() { Tokenize("x = !y;") })
}
