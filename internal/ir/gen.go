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

package ir

import (
	"fmt"

	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/perr"
	"github.com/cs-25-sw-4-15/penguinlang/internal/plog"
	"github.com/cs-25-sw-4-15/penguinlang/internal/symbols"
	"github.com/cs-25-sw-4-15/penguinlang/internal/types"
)

// Hardware aggregate block sizes, in bytes, assumed by HardwareMemCpy
// (spec.md §4.2). A tileset block is one of the three 128-tile VRAM
// banks (128 * 16 bytes/tile); the background tilemap is a full 32x32
// byte grid; a sprite is the graphics data for a single 8x8 tile.
const (
	tilesetBlockBytes = 2048
	tilemapBytes      = 1024
	spriteBytes       = 16
)

// oamEntryFields is the fixed attribute set oam-entry values are
// flattened into: three independent scalar slots per entry variable.
var oamEntryFields = []string{"x", "y", "tile"}

// gen lowers a type-checked ast.Program into an ir.Program (spec.md §4.2).
// It trusts its input completely: every error it can return signals a bug
// in the checker's validation, not a user-facing compile error, so it
// always reports perr.InternalConsistency.
type gen struct {
	env  *symbols.Env
	prog *Program

	tmpN, labelN int

	instrs *[]*Instr // the instruction list currently being appended to
	cur    *Proc     // nil while emitting top-level (Main) code

	globalScalars map[string]bool   // name -> is a memory-backed scalar global
	globalLists   map[string]bool   // name -> is a memory-backed global list
	globalAgg     map[string]string // name -> incbin label, for global tileset/tilemap/sprite vars

	localShadow map[string]bool   // reset per procedure: locally declared/parameter scalar names
	localLists  map[string]string // reset per procedure: local list name -> qualified storage key
	localAgg    map[string]string // reset per procedure: local aggregate var name -> incbin label
}

// Generate lowers prog into IR, given the symbol environment Check
// produced (spec.md §9: the IR generator needs the finalised procedure
// table, not just the AST).
func Generate(prog *ast.Program, env *symbols.Env) (*Program, error) {
	plog.Phase("IRGen")
	g := &gen{
		env:           env,
		prog:          NewProgram(),
		globalScalars: make(map[string]bool),
		globalLists:   make(map[string]bool),
		globalAgg:     make(map[string]string),
	}
	g.instrs = &g.prog.Main

	for _, s := range prog.Stmts {
		if err := g.collectTopLevel(s); err != nil {
			return nil, err
		}
	}
	for _, s := range prog.Stmts {
		if def, ok := s.(*ast.ProcedureDef); ok {
			if err := g.genProcedureDef(def); err != nil {
				return nil, err
			}
			continue
		}
		if err := g.genStmt(s); err != nil {
			return nil, err
		}
	}
	Renumber(g.prog.Main)
	return g.prog, nil
}

func (g *gen) newTemp() string {
	t := fmt.Sprintf("t%d", g.tmpN)
	g.tmpN++
	return t
}

func (g *gen) newLabel(prefix string) string {
	l := fmt.Sprintf("%s_%d", prefix, g.labelN)
	g.labelN++
	return l
}

func (g *gen) emit(i *Instr) { *g.instrs = append(*g.instrs, i) }

// --- Pass A: classify every top-level declaration as a global ------------

func (g *gen) collectTopLevel(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Declaration:
		return g.registerGlobal(n.Name, n.TypeName)
	case *ast.Initialization:
		return g.registerGlobal(n.Name, n.TypeName)
	case *ast.ListInitialization:
		g.globalLists[n.Name] = true
		g.prog.AddGlobalArray(n.Name, len(n.Elements))
		return nil
	case *ast.ProcedureDef:
		return nil
	default:
		// Any other statement kind is legal at top level (loops,
		// conditionals, calls) but declares nothing.
		return nil
	}
}

func (g *gen) registerGlobal(name, typeName string) error {
	t, ok := types.FromName(typeName)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: unchecked type name %q", typeName)
	}
	switch {
	case t.IsHardwareAggregate():
		// No storage reserved yet; the label is bound when the
		// Initialization (string-literal path) is actually generated.
	case t.Kind == types.OamEntry:
		for _, f := range oamEntryFields {
			sub := name + "." + f
			g.globalScalars[sub] = true
			g.prog.AddGlobal(sub)
		}
	default:
		g.globalScalars[name] = true
		g.prog.AddGlobal(name)
	}
	return nil
}

// --- Procedures ------------------------------------------------------------

func (g *gen) genProcedureDef(def *ast.ProcedureDef) error {
	proc, ok := g.env.LookupProc(def.Name)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: generating undefined procedure %q", def.Name)
	}

	p := &Proc{Name: def.Name, RetType: proc.RetType}
	for _, prm := range proc.Params {
		p.Params = append(p.Params, prm.Name)
	}

	prevCur, prevInstrs := g.cur, g.instrs
	prevShadow, prevLists, prevAgg := g.localShadow, g.localLists, g.localAgg
	g.cur = p
	g.instrs = &p.Instrs
	g.localShadow = make(map[string]bool)
	g.localLists = make(map[string]string)
	g.localAgg = make(map[string]string)

	for i, prm := range proc.Params {
		g.localShadow[prm.Name] = true
		g.emit(&Instr{Op: OpArgLoad, Dst: prm.Name, ArgIndex: i})
	}

	err := g.genStmts(def.Body)

	Renumber(p.Instrs)
	g.cur, g.instrs = prevCur, prevInstrs
	g.localShadow, g.localLists, g.localAgg = prevShadow, prevLists, prevAgg

	if err != nil {
		return err
	}
	g.prog.Procs[def.Name] = p
	g.prog.ProcOrder = append(g.prog.ProcOrder, def.Name)
	return nil
}

// --- Statements --------------------------------------------------------

func (g *gen) genStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *gen) genStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Declaration:
		return g.genDeclaration(n)
	case *ast.Initialization:
		return g.genInitialization(n)
	case *ast.ListInitialization:
		return g.genListInitialization(n)
	case *ast.Assignment:
		return g.genAssignment(n)
	case *ast.Conditional:
		return g.genConditional(n)
	case *ast.Loop:
		return g.genLoop(n)
	case *ast.Return:
		return g.genReturn(n)
	case *ast.ProcedureCallStatement:
		_, err := g.genExpr(n.Call)
		return err
	case *ast.ProcedureDef:
		return g.genProcedureDef(n)
	default:
		return perr.Newf(perr.InternalConsistency, "ir: unhandled statement kind %T", s)
	}
}

func (g *gen) genDeclaration(n *ast.Declaration) error {
	t, ok := types.FromName(n.TypeName)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: unchecked type name %q", n.TypeName)
	}
	switch {
	case t.IsHardwareAggregate():
		return nil // bound lazily; an un-initialised aggregate never emits anything
	case t.Kind == types.OamEntry:
		for _, f := range oamEntryFields {
			g.declareScalar(n.Name+"."+f, 0)
		}
		return nil
	case t.Kind == types.List:
		return perr.New(perr.InternalConsistency, "ir: bare list declaration")
	default:
		g.declareScalar(n.Name, 0)
		return nil
	}
}

// declareScalar binds name as a fresh scalar, local (register-class) if
// generating inside a procedure, global (memory-backed) otherwise, and
// zero-initialises it.
func (g *gen) declareScalar(name string, zero int) {
	z := g.newTemp()
	g.emit(&Instr{Op: OpConstant, Dst: z, Imm: zero})
	if g.cur != nil {
		g.localShadow[name] = true
		g.emit(&Instr{Op: OpAssign, Dst: name, Src: []string{z}})
		return
	}
	g.globalScalars[name] = true
	g.prog.AddGlobal(name)
	g.emit(&Instr{Op: OpStore, Var: name, Src: []string{z}})
}

func (g *gen) genInitialization(n *ast.Initialization) error {
	t, ok := types.FromName(n.TypeName)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: unchecked type name %q", n.TypeName)
	}

	if t.IsHardwareAggregate() {
		lit, isStr := n.Value.(*ast.StringLiteral)
		if !isStr {
			return perr.New(perr.InternalConsistency, "ir: aggregate initialised without a string literal")
		}
		label := g.prog.AddIncBin(lit.Value, g.newLabel("asset"))
		if g.cur != nil {
			g.localAgg[n.Name] = label
		} else {
			g.globalAgg[n.Name] = label
		}
		return nil
	}

	if t.Kind == types.OamEntry {
		return perr.New(perr.InternalConsistency, "ir: oam-entry initialisation has no literal form")
	}

	val, err := g.genExpr(n.Value)
	if err != nil {
		return err
	}
	g.storeScalar(n.Name, val)
	return nil
}

func (g *gen) storeScalar(name, val string) {
	if g.cur != nil {
		g.localShadow[name] = true
		g.emit(&Instr{Op: OpAssign, Dst: name, Src: []string{val}})
		return
	}
	g.globalScalars[name] = true
	g.prog.AddGlobal(name)
	g.emit(&Instr{Op: OpStore, Var: name, Src: []string{val}})
}

func (g *gen) genListInitialization(n *ast.ListInitialization) error {
	key := n.Name
	if g.cur != nil {
		key = g.cur.Name + "$" + n.Name
	}
	base := g.prog.AddGlobalArray(key, len(n.Elements))
	if g.cur != nil {
		g.localLists[n.Name] = key
	} else {
		g.globalLists[n.Name] = true
	}
	for i, elemExpr := range n.Elements {
		val, err := g.genExpr(elemExpr)
		if err != nil {
			return err
		}
		idx := g.newTemp()
		g.emit(&Instr{Op: OpConstant, Dst: idx, Imm: i})
		g.emit(&Instr{Op: OpIndexedStore, Var: key, Src: []string{idx, val}})
	}
	_ = base
	return nil
}

func (g *gen) genAssignment(n *ast.Assignment) error {
	if n.Value.Type() != nil && n.Value.Type().IsHardwareAggregate() {
		return g.genAggregateAssignment(n)
	}

	val, err := g.genExpr(n.Value)
	if err != nil {
		return err
	}

	switch target := n.Target.(type) {
	case *ast.VarTarget:
		if symbols.IsHardwareScalar(target.Name) {
			g.emit(&Instr{Op: OpHardwareStore, HWName: target.Name, Src: []string{val}})
			return nil
		}
		g.storeScalar(target.Name, val)
		return nil

	case *ast.IndexTarget:
		idx, err := g.genExpr(target.Index)
		if err != nil {
			return err
		}
		if symbols.IsHardwareList(target.Name) {
			g.emit(&Instr{Op: OpHardwareIndexedStore, HWName: target.Name, Src: []string{idx, val}})
			return nil
		}
		key, ok := g.resolveListKey(target.Name)
		if !ok {
			return perr.Newf(perr.InternalConsistency, "ir: unresolved list %q", target.Name)
		}
		g.emit(&Instr{Op: OpIndexedStore, Var: key, Src: []string{idx, val}})
		return nil

	case *ast.AttrTarget:
		sub := target.Name + "." + target.Attr
		g.storeScalar(sub, val)
		return nil

	default:
		return perr.Newf(perr.InternalConsistency, "ir: unhandled assignment target %T", n.Target)
	}
}

// genAggregateAssignment handles `display.<slot> = t;`: a hardware tileset
// bank or the tilemap is bulk-copied in from the ROM image an earlier
// tileset/tilemap Initialization bound to an asset path.
func (g *gen) genAggregateAssignment(n *ast.Assignment) error {
	target, ok := n.Target.(*ast.VarTarget)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: aggregate assignment to non-scalar target %T", n.Target)
	}
	rhs, ok := n.Value.(*ast.Variable)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: aggregate assignment from non-variable %T", n.Value)
	}
	label, ok := g.resolveAggLabel(rhs.Name)
	if !ok {
		return perr.Newf(perr.InternalConsistency, "ir: unbound aggregate variable %q", rhs.Name)
	}
	size := aggregateSize(n.Value.Type())
	g.emit(&Instr{Op: OpHardwareMemCpy, HWName: target.Name, IncBinLabel: label, Imm: size})
	return nil
}

func aggregateSize(t *types.Type) int {
	switch t.Kind {
	case types.Tileset:
		return tilesetBlockBytes
	case types.Tilemap:
		return tilemapBytes
	case types.Sprite:
		return spriteBytes
	default:
		return 0
	}
}

func (g *gen) genConditional(n *ast.Conditional) error {
	cond, err := g.genExpr(n.Cond)
	if err != nil {
		return err
	}
	elseLabel := g.newLabel("else")
	endLabel := g.newLabel("endif")
	thenLabel := g.newLabel("then")
	g.emit(&Instr{Op: OpCondJump, Src: []string{cond}, TrueLabel: thenLabel, FalseLabel: elseLabel})
	g.emit(&Instr{Op: OpLabel, Label: thenLabel})
	if err := g.genStmts(n.Then); err != nil {
		return err
	}
	g.emit(&Instr{Op: OpJump, Label: endLabel})
	g.emit(&Instr{Op: OpLabel, Label: elseLabel})
	if n.Else != nil {
		if err := g.genStmts(n.Else); err != nil {
			return err
		}
	}
	g.emit(&Instr{Op: OpLabel, Label: endLabel})
	return nil
}

func (g *gen) genLoop(n *ast.Loop) error {
	topLabel := g.newLabel("loop")
	bodyLabel := g.newLabel("loopbody")
	endLabel := g.newLabel("loopend")
	g.emit(&Instr{Op: OpLabel, Label: topLabel})
	cond, err := g.genExpr(n.Cond)
	if err != nil {
		return err
	}
	g.emit(&Instr{Op: OpCondJump, Src: []string{cond}, TrueLabel: bodyLabel, FalseLabel: endLabel})
	g.emit(&Instr{Op: OpLabel, Label: bodyLabel})
	if err := g.genStmts(n.Body); err != nil {
		return err
	}
	g.emit(&Instr{Op: OpJump, Label: topLabel})
	g.emit(&Instr{Op: OpLabel, Label: endLabel})
	return nil
}

func (g *gen) genReturn(n *ast.Return) error {
	if n.Value == nil {
		g.emit(&Instr{Op: OpReturn})
		return nil
	}
	val, err := g.genExpr(n.Value)
	if err != nil {
		return err
	}
	g.emit(&Instr{Op: OpReturn, Src: []string{val}})
	return nil
}

// --- Expressions -----------------------------------------------------------

func (g *gen) genExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		t := g.newTemp()
		g.emit(&Instr{Op: OpConstant, Dst: t, Imm: n.Value})
		return t, nil

	case *ast.StringLiteral:
		return "", perr.New(perr.InternalConsistency, "ir: string literal used outside an aggregate initialisation")

	case *ast.Variable:
		return g.genVariable(n.Name)

	case *ast.ListAccess:
		idx, err := g.genExpr(n.Index)
		if err != nil {
			return "", err
		}
		if symbols.IsHardwareList(n.Name) {
			t := g.newTemp()
			g.emit(&Instr{Op: OpHardwareIndexedLoad, Dst: t, HWName: n.Name, Src: []string{idx}})
			return t, nil
		}
		key, ok := g.resolveListKey(n.Name)
		if !ok {
			return "", perr.Newf(perr.InternalConsistency, "ir: unresolved list %q", n.Name)
		}
		t := g.newTemp()
		g.emit(&Instr{Op: OpIndexedLoad, Dst: t, Var: key, Src: []string{idx}})
		return t, nil

	case *ast.AttributeAccess:
		base, ok := n.Base.(*ast.Variable)
		if !ok {
			return "", perr.Newf(perr.InternalConsistency, "ir: attribute access on non-variable base %T", n.Base)
		}
		return g.genVariable(base.Name + "." + n.Attr)

	case *ast.UnaryOp:
		val, err := g.genExpr(n.Expr)
		if err != nil {
			return "", err
		}
		t := g.newTemp()
		g.emit(&Instr{Op: OpUnaryOp, Dst: t, UnOp: n.Op, Src: []string{val}})
		return t, nil

	case *ast.BinaryOp:
		left, err := g.genExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := g.genExpr(n.Right)
		if err != nil {
			return "", err
		}
		t := g.newTemp()
		g.emit(&Instr{Op: OpBinaryOp, Dst: t, BinOp: n.Op, Src: []string{left, right}})
		return t, nil

	case *ast.ProcedureCall:
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			val, err := g.genExpr(a)
			if err != nil {
				return "", err
			}
			args = append(args, val)
		}
		var dst string
		proc, _ := g.env.LookupProc(n.Name)
		if proc != nil && !types.Equal(proc.RetType, types.TVoid) {
			dst = g.newTemp()
		}
		g.emit(&Instr{Op: OpCall, Dst: dst, Callee: n.Name, Src: args})
		return dst, nil

	default:
		return "", perr.Newf(perr.InternalConsistency, "ir: unhandled expression kind %T", e)
	}
}

// genVariable reads a plain scalar name: a hardware scalar, a local
// (register-class) variable, a memory-backed global, or — only reachable
// when the name is used as a bare aggregate value, e.g. passed as a
// procedure argument — an asset label, returned verbatim as a best-effort
// operand since the register allocator has no representation for it.
func (g *gen) genVariable(name string) (string, error) {
	if symbols.IsHardwareScalar(name) {
		t := g.newTemp()
		g.emit(&Instr{Op: OpHardwareLoad, Dst: t, HWName: name})
		return t, nil
	}
	if g.cur != nil && g.localShadow[name] {
		return name, nil
	}
	if g.globalScalars[name] {
		t := g.newTemp()
		g.emit(&Instr{Op: OpLoad, Dst: t, Var: name})
		return t, nil
	}
	if label, ok := g.resolveAggLabel(name); ok {
		return label, nil
	}
	return "", perr.Newf(perr.InternalConsistency, "ir: unresolved variable %q", name)
}

func (g *gen) resolveListKey(name string) (string, bool) {
	if g.cur != nil {
		if key, ok := g.localLists[name]; ok {
			return key, true
		}
	}
	if g.globalLists[name] {
		return name, true
	}
	return "", false
}

func (g *gen) resolveAggLabel(name string) (string, bool) {
	if g.cur != nil {
		if label, ok := g.localAgg[name]; ok {
			return label, true
		}
	}
	label, ok := g.globalAgg[name]
	return label, ok
}
