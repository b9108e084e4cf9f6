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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddContainsRemove(t *testing.T) {
	s := NewSet[string]()
	assert.False(t, s.Contains("a"))

	added := s.Add("a")
	assert.True(t, added)
	assert.True(t, s.Contains("a"))

	addedAgain := s.Add("a")
	assert.False(t, addedAgain, "re-adding an existing member reports no change")
	assert.Equal(t, 1, s.Length())

	removed := s.Remove("a")
	assert.True(t, removed)
	assert.False(t, s.Contains("a"))

	removedAgain := s.Remove("a")
	assert.False(t, removedAgain)
}

func TestSetForEachVisitsEveryMember(t *testing.T) {
	s := NewSet[int]()
	s.Add(1)
	s.Add(2)
	s.Add(3)

	seen := map[int]bool{}
	s.ForEach(func(v int) { seen[v] = true })

	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}
