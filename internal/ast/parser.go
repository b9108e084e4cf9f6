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
	"fmt"
	"strconv"
)

// hardwareModules are the base names the parser canonicalises dotted
// access against (spec.md §9: "canonicalise to flat names at the
// earliest point"). Anything else dotted (entry.x) is kept as a
// structural AttributeAccess/AttrTarget for the checker to resolve
// against the base expression's type.
var hardwareModules = map[string]bool{
	"display": true,
	"control": true,
	"input":   true,
}

// typeNames is the closed set of declared-type spellings the parser
// recognises as starting a Declaration/Initialization/ProcedureDef return
// type. "oam_entry" is this frontend's source spelling of the type the
// rest of the compiler calls "oam-entry" (types.TOamEntry) — a hyphen
// is not a legal identifier character in Penguin source, so the type
// model's display name and the grammar's spelling intentionally differ.
var typeNames = map[string]bool{
	"int": true, "string": true, "void": true,
	"tileset": true, "tilemap": true, "sprite": true,
	"list": true, "oam_entry": true,
}

type parser struct {
	lx   *lexer
	tok  token
	peek *token
}

// Parse parses Penguin source text into a Program. It panics with a
// string describing the syntax error on malformed input; the caller
// (cmd/penguinc) recovers and reports it the same way the checker/codegen
// report internal errors, since parsing is outside the specified core and
// shares no error taxonomy with it.
func Parse(src string) *Program {
	p := &parser{lx: newLexer(src)}
	p.advance()
	stmts := make([]Stmt, 0)
	for p.tok.kind != tkEOF {
		stmts = append(stmts, p.parseStmt())
	}
	return &Program{Stmts: stmts}
}

func (p *parser) advance() {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return
	}
	p.tok = p.lx.next()
}

func (p *parser) lookahead() token {
	if p.peek == nil {
		t := p.lx.next()
		p.peek = &t
	}
	return *p.peek
}

func (p *parser) expect(k tokenKind, what string) token {
	if p.tok.kind != k {
		panic(fmt.Sprintf("line %d: expected %s", p.tok.line, what))
	}
	t := p.tok
	p.advance()
	return t
}

func (p *parser) expectIdent() string {
	return p.expect(tkIdent, "identifier").text
}

// --- Statements ----------------------------------------------------------

func (p *parser) parseStmt() Stmt {
	switch p.tok.kind {
	case tkProcedure:
		return p.parseProcedureDef()
	case tkIf:
		return p.parseConditional()
	case tkLoop:
		return p.parseLoop()
	case tkReturn:
		return p.parseReturn()
	case tkIdent:
		if typeNames[p.tok.text] {
			return p.parseDeclOrInit()
		}
		return p.parseAssignOrCall()
	default:
		panic(fmt.Sprintf("line %d: unexpected token starting statement", p.tok.line))
	}
}

func (p *parser) parseBlock() []Stmt {
	p.expect(tkLBrace, "'{'")
	stmts := make([]Stmt, 0)
	for p.tok.kind != tkRBrace {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(tkRBrace, "'}'")
	return stmts
}

func (p *parser) parseDeclOrInit() Stmt {
	typeName := p.expectIdent()
	if typeName == "list" {
		name := p.expectIdent()
		p.expect(tkAssign, "'='")
		p.expect(tkLBracket, "'['")
		elems := make([]Expr, 0)
		if p.tok.kind != tkRBracket {
			elems = append(elems, p.parseExpr())
			for p.tok.kind == tkComma {
				p.advance()
				elems = append(elems, p.parseExpr())
			}
		}
		p.expect(tkRBracket, "']'")
		p.expect(tkSemi, "';'")
		return &ListInitialization{Name: name, Elements: elems}
	}

	name := p.expectIdent()
	if p.tok.kind == tkAssign {
		p.advance()
		value := p.parseExpr()
		p.expect(tkSemi, "';'")
		return &Initialization{Name: name, TypeName: typeName, Value: value}
	}
	p.expect(tkSemi, "';'")
	return &Declaration{Name: name, TypeName: typeName}
}

func (p *parser) parseProcedureDef() Stmt {
	p.expect(tkProcedure, "'procedure'")
	retType := ""
	// `procedure int Name(...)` vs `procedure Name(...)` (void)
	if p.tok.kind == tkIdent && typeNames[p.tok.text] && p.lookahead().kind == tkIdent {
		retType = p.tok.text
		p.advance()
	}
	name := p.expectIdent()
	p.expect(tkLParen, "'('")
	params := make([]Param, 0)
	if p.tok.kind != tkRParen {
		params = append(params, p.parseParam())
		for p.tok.kind == tkComma {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(tkRParen, "')'")
	body := p.parseBlock()
	return &ProcedureDef{Name: name, Params: params, RetType: retType, Body: body}
}

func (p *parser) parseParam() Param {
	typeName := p.expectIdent()
	name := p.expectIdent()
	return Param{Name: name, TypeName: typeName}
}

func (p *parser) parseConditional() Stmt {
	p.expect(tkIf, "'if'")
	p.expect(tkLParen, "'('")
	cond := p.parseExpr()
	p.expect(tkRParen, "')'")
	then := p.parseBlock()
	var els []Stmt
	if p.tok.kind == tkElse {
		p.advance()
		els = p.parseBlock()
	}
	return &Conditional{Cond: cond, Then: then, Else: els}
}

func (p *parser) parseLoop() Stmt {
	p.expect(tkLoop, "'loop'")
	p.expect(tkLParen, "'('")
	cond := p.parseExpr()
	p.expect(tkRParen, "')'")
	body := p.parseBlock()
	return &Loop{Cond: cond, Body: body}
}

func (p *parser) parseReturn() Stmt {
	p.expect(tkReturn, "'return'")
	if p.tok.kind == tkSemi {
		p.advance()
		return &Return{}
	}
	val := p.parseExpr()
	p.expect(tkSemi, "';'")
	return &Return{Value: val}
}

// parseAssignOrCall disambiguates `target = expr;` from `call(...);` by
// reading the leading identifier and then branching on the tokens that
// follow it.
func (p *parser) parseAssignOrCall() Stmt {
	base := p.expectIdent()

	if hardwareModules[base] && p.tok.kind == tkDot {
		p.advance()
		field := p.expectIdent()
		flat := base + "_" + field
		if p.tok.kind == tkLParen {
			call := p.parseCallArgs(flat)
			p.expect(tkSemi, "';'")
			return &ProcedureCallStatement{Call: call}
		}
		if p.tok.kind == tkLBracket {
			p.advance()
			idx := p.parseExpr()
			p.expect(tkRBracket, "']'")
			p.expect(tkAssign, "'='")
			val := p.parseExpr()
			p.expect(tkSemi, "';'")
			return &Assignment{Target: &IndexTarget{Name: flat, Index: idx}, Value: val}
		}
		p.expect(tkAssign, "'='")
		val := p.parseExpr()
		p.expect(tkSemi, "';'")
		return &Assignment{Target: &VarTarget{Name: flat}, Value: val}
	}

	if p.tok.kind == tkDot {
		p.advance()
		attr := p.expectIdent()
		p.expect(tkAssign, "'='")
		val := p.parseExpr()
		p.expect(tkSemi, "';'")
		return &Assignment{Target: &AttrTarget{Name: base, Attr: attr}, Value: val}
	}

	if p.tok.kind == tkLBracket {
		p.advance()
		idx := p.parseExpr()
		p.expect(tkRBracket, "']'")
		p.expect(tkAssign, "'='")
		val := p.parseExpr()
		p.expect(tkSemi, "';'")
		return &Assignment{Target: &IndexTarget{Name: base, Index: idx}, Value: val}
	}

	if p.tok.kind == tkLParen {
		call := p.parseCallArgs(base)
		p.expect(tkSemi, "';'")
		return &ProcedureCallStatement{Call: call}
	}

	p.expect(tkAssign, "'='")
	val := p.parseExpr()
	p.expect(tkSemi, "';'")
	return &Assignment{Target: &VarTarget{Name: base}, Value: val}
}

func (p *parser) parseCallArgs(name string) *ProcedureCall {
	p.expect(tkLParen, "'('")
	args := make([]Expr, 0)
	if p.tok.kind != tkRParen {
		args = append(args, p.parseExpr())
		for p.tok.kind == tkComma {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(tkRParen, "')'")
	return &ProcedureCall{Name: name, Args: args}
}

// --- Expressions -----------------------------------------------------------
//
// Precedence, low to high: || , && , | , ^ , & , ==/!= , relational ,
// shift , additive , multiplicative , unary , postfix/primary.

func (p *parser) parseExpr() Expr { return p.parseLogicalOr() }

func (p *parser) parseLogicalOr() Expr {
	left := p.parseLogicalAnd()
	for p.tok.kind == tkOrOr {
		p.advance()
		right := p.parseLogicalAnd()
		left = &BinaryOp{Op: LOr, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseLogicalAnd() Expr {
	left := p.parseBitOr()
	for p.tok.kind == tkAndAnd {
		p.advance()
		right := p.parseBitOr()
		left = &BinaryOp{Op: LAnd, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseBitOr() Expr {
	left := p.parseBitXor()
	for p.tok.kind == tkPipe {
		p.advance()
		right := p.parseBitXor()
		left = &BinaryOp{Op: BOr, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseBitXor() Expr {
	left := p.parseBitAnd()
	for p.tok.kind == tkCaret {
		p.advance()
		right := p.parseBitAnd()
		left = &BinaryOp{Op: BXor, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseBitAnd() Expr {
	left := p.parseEquality()
	for p.tok.kind == tkAmp {
		p.advance()
		right := p.parseEquality()
		left = &BinaryOp{Op: BAnd, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseEquality() Expr {
	left := p.parseRelational()
	for p.tok.kind == tkEq || p.tok.kind == tkNe {
		op := Eq
		if p.tok.kind == tkNe {
			op = Ne
		}
		p.advance()
		right := p.parseRelational()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseRelational() Expr {
	left := p.parseShift()
	for p.tok.kind == tkLt || p.tok.kind == tkLe || p.tok.kind == tkGt || p.tok.kind == tkGe {
		var op BinOp
		switch p.tok.kind {
		case tkLt:
			op = Lt
		case tkLe:
			op = Le
		case tkGt:
			op = Gt
		case tkGe:
			op = Ge
		}
		p.advance()
		right := p.parseShift()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseShift() Expr {
	left := p.parseAdditive()
	for p.tok.kind == tkShl || p.tok.kind == tkShr {
		op := Shl
		if p.tok.kind == tkShr {
			op = Shr
		}
		p.advance()
		right := p.parseAdditive()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for p.tok.kind == tkPlus || p.tok.kind == tkMinus {
		op := Add
		if p.tok.kind == tkMinus {
			op = Sub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseMultiplicative() Expr {
	left := p.parseUnary()
	for p.tok.kind == tkStar || p.tok.kind == tkSlash || p.tok.kind == tkPercent {
		var op BinOp
		switch p.tok.kind {
		case tkStar:
			op = Mul
		case tkSlash:
			op = Div
		case tkPercent:
			op = Mod
		}
		p.advance()
		right := p.parseUnary()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() Expr {
	switch p.tok.kind {
	case tkPlus:
		p.advance()
		return &UnaryOp{Op: Pos, Expr: p.parseUnary()}
	case tkMinus:
		p.advance()
		return &UnaryOp{Op: Neg, Expr: p.parseUnary()}
	case tkTilde:
		p.advance()
		return &UnaryOp{Op: BNot, Expr: p.parseUnary()}
	case tkNot:
		p.advance()
		return &UnaryOp{Op: LNot, Expr: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() Expr {
	prim := p.parsePrimary()
	for {
		switch p.tok.kind {
		case tkDot:
			p.advance()
			attr := p.expectIdent()
			prim = &AttributeAccess{Base: prim, Attr: attr}
		case tkLBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(tkRBracket, "']'")
			if v, ok := prim.(*Variable); ok {
				prim = &ListAccess{Name: v.Name, Index: idx}
			} else {
				panic(fmt.Sprintf("line %d: indexing a non-name expression is not supported", p.tok.line))
			}
		default:
			return prim
		}
	}
}

func (p *parser) parsePrimary() Expr {
	switch p.tok.kind {
	case tkInt:
		v, err := strconv.Atoi(p.tok.text)
		if err != nil {
			panic(fmt.Sprintf("line %d: bad integer literal %q", p.tok.line, p.tok.text))
		}
		p.advance()
		return &IntegerLiteral{Value: v}
	case tkString:
		s := p.tok.text
		p.advance()
		return &StringLiteral{Value: s}
	case tkLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(tkRParen, "')'")
		return e
	case tkIdent:
		name := p.tok.text
		p.advance()
		if hardwareModules[name] && p.tok.kind == tkDot {
			p.advance()
			field := p.expectIdent()
			flat := name + "_" + field
			if p.tok.kind == tkLParen {
				return p.parseCallArgs(flat)
			}
			return &Variable{Name: flat}
		}
		if p.tok.kind == tkLParen {
			return p.parseCallArgs(name)
		}
		return &Variable{Name: name}
	default:
		panic(fmt.Sprintf("line %d: unexpected token in expression", p.tok.line))
	}
}
