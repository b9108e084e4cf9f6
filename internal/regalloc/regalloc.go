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

// Package regalloc assigns each IR variable to one of the SM83's six
// general-purpose registers, or to a spill slot, via linear-scan
// allocation (spec.md §4.4): a single left-to-right pass over live
// intervals sorted by start position, expiring intervals that have ended
// and, on register pressure, spilling whichever active interval ends
// furthest in the future (Poletto & Sarkar's classic heuristic).
package regalloc

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/liveness"
	"github.com/cs-25-sw-4-15/penguinlang/internal/utils"
)

// GeneralPurpose is the fixed allocation order for the SM83's six 8-bit
// general-purpose registers. "a" is never handed out: it is reserved as
// the accumulator and scratch register every codegen pattern assumes is
// free (spec.md §4.4, §6).
var GeneralPurpose = []string{"b", "c", "d", "e", "h", "l"}

// ParamRegs is the pinned register assignment for a procedure's first
// four formal parameters, in declaration order (spec.md §4.4). Parameters
// beyond the fourth compete for a register like any other interval.
var ParamRegs = []string{"b", "c", "d", "e"}

const spillSlotBytes = 2

// Interval is one variable's live range, in instruction-ID coordinates,
// plus the outcome of allocation: either a physical register or a
// stack-relative spill slot.
type Interval struct {
	Var        string
	Start, End int

	Reg       string // assigned physical register, "" if Spilled
	Spilled   bool
	SpillSlot int // byte offset from the spill area's base, valid iff Spilled
}

// Allocation is one procedure's (or the top-level program's) complete
// assignment.
type Allocation struct {
	Liveness      *liveness.Result
	Intervals     map[string]*Interval
	Order         []string // variable names in interval-start order
	NumSpillSlots int
}

// Allocate runs liveness analysis over instrs and then linear-scan
// allocation, pinning the first four names in params to b, c, d, e.
func Allocate(instrs []*ir.Instr, params []string) *Allocation {
	ir.Renumber(instrs)
	live := liveness.Analyze(instrs)

	intervals := buildIntervals(live)
	pinned := make(map[string]string, len(params))
	for i, p := range params {
		if i >= len(ParamRegs) {
			break
		}
		pinned[p] = ParamRegs[i]
	}

	slices.SortFunc(intervals, func(a, b *Interval) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return strings.Compare(a.Var, b.Var)
	})

	a := &Allocation{Liveness: live, Intervals: make(map[string]*Interval, len(intervals))}

	var active []*Interval
	free := utils.NewSet[string]()
	for _, reg := range GeneralPurpose {
		free.Add(reg)
	}
	nextSpillSlot := 0

	expireOld := func(cur *Interval) {
		active = lo.Filter(active, func(it *Interval, _ int) bool {
			if it.End >= cur.Start {
				return true
			}
			if !it.Spilled {
				free.Add(it.Reg)
			}
			return false
		})
	}

	for _, iv := range intervals {
		expireOld(iv)
		a.Order = append(a.Order, iv.Var)
		a.Intervals[iv.Var] = iv

		if reg, ok := pinned[iv.Var]; ok {
			iv.Reg = reg
			free.Remove(reg)
			active = append(active, iv)
			sortByEnd(active)
			continue
		}

		if free.Length() > 0 {
			reg := pickFree(free)
			free.Remove(reg)
			iv.Reg = reg
			active = append(active, iv)
			sortByEnd(active)
			continue
		}

		// Register pressure: spill whichever active interval (including
		// possibly iv itself) ends furthest in the future.
		spillCandidate := furthestEnding(active)
		if spillCandidate != nil && spillCandidate.End > iv.End {
			iv.Reg = spillCandidate.Reg
			spillCandidate.Reg = ""
			spillCandidate.Spilled = true
			spillCandidate.SpillSlot = nextSpillSlot
			nextSpillSlot += spillSlotBytes

			active = replaceInActive(active, spillCandidate, iv)
			sortByEnd(active)
		} else {
			iv.Spilled = true
			iv.SpillSlot = nextSpillSlot
			nextSpillSlot += spillSlotBytes
		}
	}

	a.NumSpillSlots = nextSpillSlot / spillSlotBytes
	return a
}

func buildIntervals(live *liveness.Result) []*Interval {
	starts := make([]int, live.NumVars())
	ends := make([]int, live.NumVars())
	seen := make([]bool, live.NumVars())

	touch := func(idx, i int) {
		if !seen[idx] {
			starts[idx] = i
			seen[idx] = true
		}
		if i > ends[idx] {
			ends[idx] = i
		}
	}

	for i, in := range live.Instrs {
		for _, v := range in.Defs() {
			touch(live.VarIndex[v], i)
		}
		live.LiveIn[i].Each(func(idx int) { touch(idx, i) })
	}

	intervals := make([]*Interval, 0, live.NumVars())
	for idx, name := range live.VarNames {
		if !seen[idx] {
			continue
		}
		intervals = append(intervals, &Interval{Var: name, Start: starts[idx], End: ends[idx]})
	}
	return intervals
}

func sortByEnd(active []*Interval) {
	slices.SortFunc(active, func(a, b *Interval) int { return a.End - b.End })
}

func furthestEnding(active []*Interval) *Interval {
	var best *Interval
	for _, it := range active {
		if it.Spilled {
			continue
		}
		if best == nil || it.End > best.End {
			best = it
		}
	}
	return best
}

func replaceInActive(active []*Interval, old, repl *Interval) []*Interval {
	kept := lo.Reject(active, func(it *Interval, _ int) bool { return it == old })
	return append(kept, repl)
}

// pickFree returns an arbitrary member of free in GeneralPurpose order, so
// allocation is deterministic across runs despite Set's unordered storage.
func pickFree(free *utils.Set[string]) string {
	for _, reg := range GeneralPurpose {
		if free.Contains(reg) {
			return reg
		}
	}
	panic("regalloc: pickFree called with no free register")
}
