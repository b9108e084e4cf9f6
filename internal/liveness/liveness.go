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

// Package liveness builds, per procedure, a basic-block control-flow graph
// from leaders, then runs the classic iterative backward fixed-point over
// block-level use/def sets to find live-in/live-out, and finally refines
// those into per-instruction sets (spec.md §4.3). Sets are bitmaps indexed
// by a dense per-procedure variable numbering, the way the teacher
// represents flow-analysis sets.
package liveness

import (
	"golang.org/x/exp/slices"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ir"
	"github.com/cs-25-sw-4-15/penguinlang/internal/utils"
)

// block is a maximal straight-line run of instructions: [Start, End).
type block struct {
	start, end int      // instruction index range
	succ       []int    // successor block indices
	use, def   *utils.BitMap
	in, out    *utils.BitMap
}

// Result is the liveness analysis' output for one instruction list.
type Result struct {
	Instrs []*ir.Instr

	VarIndex map[string]int
	VarNames []string

	// LiveIn/LiveOut are indexed by instruction ID (ir.Instr.ID).
	LiveIn, LiveOut []*utils.BitMap
}

// NumVars is the dense variable count the bitmaps are sized to.
func (r *Result) NumVars() int { return len(r.VarNames) }

// LiveAt reports whether name is live immediately after instruction id.
func (r *Result) LiveAt(id int, name string) bool {
	idx, ok := r.VarIndex[name]
	if !ok {
		return false
	}
	return r.LiveOut[id].IsSet(idx)
}

// Analyze runs liveness over one procedure's (or the program's top-level)
// instruction list. instrs must already be ir.Renumber-ed.
func Analyze(instrs []*ir.Instr) *Result {
	r := &Result{Instrs: instrs, VarIndex: make(map[string]int)}
	for _, in := range instrs {
		for _, v := range in.Defs() {
			r.internVar(v)
		}
		for _, v := range in.Uses() {
			r.internVar(v)
		}
	}

	blocks, labelBlock := buildBlocks(instrs)
	n := r.NumVars()
	for _, b := range blocks {
		b.use = utils.NewBitMap(n)
		b.def = utils.NewBitMap(n)
		for i := b.start; i < b.end; i++ {
			in := instrs[i]
			for _, v := range in.Uses() {
				idx := r.VarIndex[v]
				if !b.def.IsSet(idx) {
					b.use.Set(idx)
				}
			}
			for _, v := range in.Defs() {
				b.def.Set(r.VarIndex[v])
			}
		}
		b.in = utils.NewBitMap(n)
		b.out = utils.NewBitMap(n)
	}
	linkSuccessors(instrs, blocks, labelBlock)

	// Iterative backward fixed point (spec.md §4.3): repeat until no
	// block's in/out set changes. Blocks are walked in reverse textual
	// order each pass, which converges in far fewer passes than forward
	// order for a backward problem.
	changed := true
	for changed {
		changed = false
		for i := len(blocks) - 1; i >= 0; i-- {
			b := blocks[i]
			newOut := utils.NewBitMap(n)
			for _, s := range b.succ {
				newOut.Unite(blocks[s].in)
			}
			newIn := newOut.Copy()
			newIn.Remove(b.def)
			newIn.Unite(b.use)

			if !bitmapEqual(newOut, b.out) || !bitmapEqual(newIn, b.in) {
				changed = true
			}
			b.out = newOut
			b.in = newIn
		}
	}

	r.LiveIn = make([]*utils.BitMap, len(instrs))
	r.LiveOut = make([]*utils.BitMap, len(instrs))
	for _, b := range blocks {
		live := b.out.Copy()
		for i := b.end - 1; i >= b.start; i-- {
			in := instrs[i]
			r.LiveOut[i] = live.Copy()
			for _, v := range in.Defs() {
				live.Reset(r.VarIndex[v])
			}
			for _, v := range in.Uses() {
				live.Set(r.VarIndex[v])
			}
			r.LiveIn[i] = live.Copy()
		}
	}
	return r
}

func (r *Result) internVar(name string) int {
	if idx, ok := r.VarIndex[name]; ok {
		return idx
	}
	idx := len(r.VarNames)
	r.VarIndex[name] = idx
	r.VarNames = append(r.VarNames, name)
	return idx
}

// buildBlocks partitions instrs into basic blocks using the leader
// algorithm: instruction 0, every jump/branch target, and every
// instruction immediately following a block-ending instruction starts a
// new block.
func buildBlocks(instrs []*ir.Instr) ([]*block, map[string]int) {
	labelIdx := make(map[string]int, len(instrs))
	for i, in := range instrs {
		if in.Op == ir.OpLabel {
			labelIdx[in.Label] = i
		}
	}

	leaderSet := map[int]bool{0: true}
	for i, in := range instrs {
		for _, target := range in.Successors() {
			if idx, ok := labelIdx[target]; ok {
				leaderSet[idx] = true
			}
		}
		if in.IsBlockEnd() && i+1 < len(instrs) {
			leaderSet[i+1] = true
		}
	}
	leaders := make([]int, 0, len(leaderSet))
	for l := range leaderSet {
		leaders = append(leaders, l)
	}
	slices.Sort(leaders)

	blocks := make([]*block, 0, len(leaders))
	labelBlock := make(map[string]int, len(labelIdx))
	for bi, start := range leaders {
		end := len(instrs)
		if bi+1 < len(leaders) {
			end = leaders[bi+1]
		}
		blocks = append(blocks, &block{start: start, end: end})
		for i := start; i < end; i++ {
			if instrs[i].Op == ir.OpLabel {
				labelBlock[instrs[i].Label] = bi
			}
		}
	}
	return blocks, labelBlock
}

func linkSuccessors(instrs []*ir.Instr, blocks []*block, labelBlock map[string]int) {
	for bi, b := range blocks {
		if b.end == b.start {
			continue // empty block (e.g. an empty procedure body)
		}
		last := instrs[b.end-1]
		switch {
		case last.Op == ir.OpJump:
			if tb, ok := labelBlock[last.Label]; ok {
				b.succ = append(b.succ, tb)
			}
		case last.Op == ir.OpCondJump:
			for _, target := range last.Successors() {
				if tb, ok := labelBlock[target]; ok {
					b.succ = append(b.succ, tb)
				}
			}
		case last.Op == ir.OpReturn:
			// no successors: procedure/program exit
		default:
			// falls through to the next block, if any
			if bi+1 < len(blocks) {
				b.succ = append(b.succ, bi+1)
			}
		}
	}
}

func bitmapEqual(a, b *utils.BitMap) bool {
	if a.Size() != b.Size() {
		return false
	}
	eq := true
	a.Each(func(i int) {
		if !b.IsSet(i) {
			eq = false
		}
	})
	b.Each(func(i int) {
		if !a.IsSet(i) {
			eq = false
		}
	})
	return eq
}
