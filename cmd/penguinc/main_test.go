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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
procedure int add(int a, int b) {
	return a + b;
}

int x = add(1, 2);
`

func writeTempSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.pgn")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestReadSourceReadsFileContents(t *testing.T) {
	path := writeTempSource(t, sample)
	got, err := readSource(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestReadSourceMissingFileReturnsWrappedError(t *testing.T) {
	_, err := readSource(filepath.Join(t.TempDir(), "nope.pgn"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestRecoverAsErrorConvertsPanicToSyntaxError(t *testing.T) {
	var err error
	func() {
		defer recoverAsError(&err)
		panic("unexpected token")
	}()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, err.Error(), "unexpected token")
}

func TestRecoverAsErrorIsANoopWithoutPanic(t *testing.T) {
	var err error
	func() {
		defer recoverAsError(&err)
	}()
	assert.NoError(t, err)
}

func TestNewRootCmdRegistersBuildAndDumpSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["build"])
	assert.True(t, names["dump"])
}

func TestNewDumpCmdRegistersEveryPipelineStage(t *testing.T) {
	dump := newDumpCmd()
	want := []string{"cst", "ast", "typed-ast", "ir", "alloc-ir", "asm"}
	got := map[string]bool{}
	for _, c := range dump.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "dump subcommand %q should be registered", name)
	}
}

func TestBuildCommandWritesAssemblyFile(t *testing.T) {
	src := writeTempSource(t, sample)
	out := filepath.Join(t.TempDir(), "out.s")

	root := newRootCmd()
	root.SetArgs([]string{"build", src, "-o", out})
	require.NoError(t, root.Execute())

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "jp Start")
}

func TestBuildCommandDefaultOutputFlagIsOutS(t *testing.T) {
	cmd := newBuildCmd()
	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "out.s", flag.DefValue)
}

func TestBuildCommandPropagatesCompileErrors(t *testing.T) {
	src := writeTempSource(t, `int x = "not an int";`)
	out := filepath.Join(t.TempDir(), "out.s")

	root := newRootCmd()
	root.SetArgs([]string{"build", src, "-o", out})
	err := root.Execute()
	assert.Error(t, err)
}

func TestBuildCommandPropagatesMissingFileAsError(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"build", filepath.Join(t.TempDir(), "missing.pgn")})
	err := root.Execute()
	assert.Error(t, err)
}

func TestDumpASTProducesNonEmptyStructuredDump(t *testing.T) {
	out, err := dumpAST(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDumpCSTProducesNonEmptyStructuredDump(t *testing.T) {
	out, err := dumpCST(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDumpTypedASTIncludesSymbolTableSection(t *testing.T) {
	out, err := dumpTypedAST(sample)
	require.NoError(t, err)
	assert.Contains(t, out, "symbol table")
}

func TestDumpTypedASTPropagatesCheckErrors(t *testing.T) {
	_, err := dumpTypedAST(`int x = y;`)
	assert.Error(t, err)
}

func TestDumpIRProducesNonEmptyStructuredDump(t *testing.T) {
	out, err := dumpIR(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDumpAllocIRProducesNonEmptyStructuredDump(t *testing.T) {
	out, err := dumpAllocIR(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDumpAsmProducesAssemblyText(t *testing.T) {
	out, err := dumpAsm(sample)
	require.NoError(t, err)
	assert.Contains(t, out, "jp Start")
}
