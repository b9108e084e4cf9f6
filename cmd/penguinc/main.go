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

// Command penguinc compiles Penguin source to RGBDS assembly text
// (spec.md §1). It never invokes an assembler or linker; producing a
// runnable .gb ROM from the emitted .s listing is left to rgbds, same as
// spec.md's Non-goals specify.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cs-25-sw-4-15/penguinlang/internal/perr"
	"github.com/cs-25-sw-4-15/penguinlang/internal/plog"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "penguinc",
		Short:         "Penguin language compiler: source to Game Boy assembly",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			plog.SetVerbose(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and error stack traces")
	root.AddCommand(newBuildCmd(), newDumpCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportAndExit(err)
	}
}

// recoverAsError turns a panic from the hand-written lexer/parser (which
// signal a syntax error by panicking rather than returning an error) into
// a regular RunE error, so malformed input is a clean non-zero exit
// instead of a Go stack trace dump.
func recoverAsError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("syntax error: %v", r)
	}
}

// reportAndExit prints the terminal error at Error level (spec.md §2.2)
// and, under -v, the *perr.CompileError's kind plus its captured stack
// trace, then exits non-zero.
func reportAndExit(err error) {
	plog.L.Error(err)
	if verbose {
		if ce, ok := perr.As(err); ok {
			fmt.Fprintf(os.Stderr, "kind: %s\n", ce.Kind)
		}
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(1)
}
