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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cs-25-sw-4-15/penguinlang/internal/compile"
	"github.com/cs-25-sw-4-15/penguinlang/internal/plog"
)

func newBuildCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <input>",
		Short: "Compile a Penguin source file to an RGBDS assembly listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer recoverAsError(&err)
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			result, err := compile.Run(src)
			if err != nil {
				return err
			}
			plog.L.Infof("wrote %s", output)
			return os.WriteFile(output, []byte(result.Asm), 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "out.s", "assembly listing output path")
	return cmd
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}
