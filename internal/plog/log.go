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

// Package plog is the compiler-wide logger. A single configured logrus
// instance is shared by every phase so -v on the CLI controls verbosity
// uniformly instead of each package inventing its own switch.
package plog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var L = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose raises the logger to debug level; Phase logs phase entry at
// this level.
func SetVerbose(verbose bool) {
	if verbose {
		L.SetLevel(logrus.DebugLevel)
	} else {
		L.SetLevel(logrus.InfoLevel)
	}
}

// Phase logs entry into a compiler phase at debug level.
func Phase(name string) {
	L.Debugf("== %s ==", name)
}
