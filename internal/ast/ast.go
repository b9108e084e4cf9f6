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

// Package ast is the contract the type checker consumes (spec.md §3): a
// tagged sum of statement and expression nodes produced by a parser that
// sits outside the compiler core. Every expression node gains a resolved
// *types.Type during type checking; that annotation is the checker's only
// output mutation.
package ast

import "github.com/cs-25-sw-4-15/penguinlang/internal/types"

// Node is the root of every AST node. Statements and expressions both
// implement it so a single visitor can walk a program uniformly.
type Node interface {
	astNode()
}

// Expr is any expression node; it carries a type slot filled in by the
// checker (testable property 1 in spec.md §8: type annotation completeness).
type Expr interface {
	Node
	Type() *types.Type
	SetType(*types.Type)
}

// Stmt is any statement node.
type Stmt interface {
	Node
}

// typed is embedded by every expression struct to provide the Type/SetType
// pair without repeating it on each node.
type typed struct {
	resolved *types.Type
}

func (t *typed) Type() *types.Type      { return t.resolved }
func (t *typed) SetType(ty *types.Type) { t.resolved = ty }

// Program is the sequence of top-level statements (spec.md §3).
type Program struct {
	Stmts []Stmt
}

func (*Program) astNode() {}

// --- Statements --------------------------------------------------------

// Declaration is `type name;` with no initialiser.
type Declaration struct {
	Name     string
	TypeName string
}

func (*Declaration) astNode() {}

// Initialization is `type name = expr;`.
type Initialization struct {
	Name     string
	TypeName string
	Value    Expr
}

func (*Initialization) astNode() {}

// ListInitialization is `list name = [e0, e1, ...];`.
type ListInitialization struct {
	Name     string
	Elements []Expr
}

func (*ListInitialization) astNode() {}

// AssignTarget is the closed set of legal assignment targets: a bare
// variable, a list/tileset/tilemap index, or an oam/hardware attribute.
type AssignTarget interface {
	Node
	assignTarget()
}

// VarTarget is `name = ...`.
type VarTarget struct{ Name string }

func (*VarTarget) astNode()       {}
func (*VarTarget) assignTarget()  {}

// IndexTarget is `name[index] = ...`.
type IndexTarget struct {
	Name  string
	Index Expr
}

func (*IndexTarget) astNode()      {}
func (*IndexTarget) assignTarget() {}

// AttrTarget is `name.attr = ...` (oam entries) or a canonicalised
// hardware scalar/list access, e.g. `display.oam_x[0] = ...` lowers its
// base through IndexTarget with Name "display_oam_x"; AttrTarget instead
// covers plain attribute writes such as `entry.x = ...`.
type AttrTarget struct {
	Name string
	Attr string
}

func (*AttrTarget) astNode()      {}
func (*AttrTarget) assignTarget() {}

// Assignment is `target = expr;`.
type Assignment struct {
	Target AssignTarget
	Value  Expr
}

func (*Assignment) astNode() {}

// Conditional is `if (cond) { then } else { else }`; Else may be nil.
type Conditional struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (*Conditional) astNode() {}

// Loop is `loop (cond) { body }`.
type Loop struct {
	Cond Expr
	Body []Stmt
}

func (*Loop) astNode() {}

// Return is `return;` or `return expr;`.
type Return struct {
	Value Expr // nil for bare return
}

func (*Return) astNode() {}

// ProcedureCallStatement is a call used as a statement, discarding any
// return value.
type ProcedureCallStatement struct {
	Call *ProcedureCall
}

func (*ProcedureCallStatement) astNode() {}

// Param is a formal parameter (name, type) pair.
type Param struct {
	Name     string
	TypeName string
}

// ProcedureDef is `procedure [int] name(params) { body }`.
type ProcedureDef struct {
	Name     string
	Params   []Param
	RetType  string // "" means void
	Body     []Stmt
}

func (*ProcedureDef) astNode() {}

// --- Expressions ---------------------------------------------------------

// BinOp is the closed set of binary operators recognised by the checker's
// categorisation (arithmetic, shift, comparison, bitwise, logical).
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	BAnd
	BOr
	BXor
	LAnd
	LOr
)

// UnOp is the closed set of unary operators.
type UnOp int

const (
	Pos UnOp = iota
	Neg
	BNot
	LNot
)

type BinaryOp struct {
	typed
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*BinaryOp) astNode() {}

type UnaryOp struct {
	typed
	Op   UnOp
	Expr Expr
}

func (*UnaryOp) astNode() {}

type IntegerLiteral struct {
	typed
	Value int
}

func (*IntegerLiteral) astNode() {}

// StringLiteral is the asset-path RHS of a tileset/tilemap/sprite
// Initialization (spec.md §3). Anywhere else the checker types it as
// string, so it is rejected wherever a non-string type is expected.
type StringLiteral struct {
	typed
	Value string
}

func (*StringLiteral) astNode() {}

type Variable struct {
	typed
	Name string
}

func (*Variable) astNode() {}

type ListAccess struct {
	typed
	Name  string
	Index Expr
}

func (*ListAccess) astNode() {}

// AttributeAccess covers both oam-entry.field and dotted hardware-module
// calls/names (display.tileset_block_0, control.LCDon) before
// canonicalisation. The checker canonicalises hardware dotted names to
// flat identifiers (module_fn) at the earliest point, per spec.md §9.
type AttributeAccess struct {
	typed
	Base Expr
	Attr string
}

func (*AttributeAccess) astNode() {}

type ProcedureCall struct {
	typed
	Name string
	Args []Expr
}

func (*ProcedureCall) astNode() {}
