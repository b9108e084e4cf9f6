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

// Package check is the recursive walk over the AST described in
// spec.md §4.1: it annotates every expression with its resolved type,
// enforces scope/declaration rules, and rejects illegal operator/operand
// and call combinations. Every entry point returns an error instead of
// panicking (spec.md §9: "use a fallible result type... and propagate
// without unwinding").
package check

import (
	"github.com/cs-25-sw-4-15/penguinlang/internal/ast"
	"github.com/cs-25-sw-4-15/penguinlang/internal/perr"
	"github.com/cs-25-sw-4-15/penguinlang/internal/plog"
	"github.com/cs-25-sw-4-15/penguinlang/internal/symbols"
	"github.com/cs-25-sw-4-15/penguinlang/internal/types"
)

// maxProcedureParams is the widest signature the calling convention
// supports: only the first four parameters have a register assigned to
// them (spec.md §4.4's b/c/d/e pinning). A longer signature is rejected
// here rather than silently compiling a callee that reads zero for every
// parameter past the fourth.
const maxProcedureParams = 4

type checker struct {
	env     *symbols.Env
	current *symbols.Proc // nil at top level

	// aggregateInit tracks which tileset/tilemap/sprite globals have
	// already been initialised from a binary path, so a second
	// assignment to them is rejected (spec.md §4.1).
	aggregateInit map[string]bool
}

// Check type-checks a whole program and returns the populated symbol
// environment (the IR generator's pre-pass needs the finalised procedure
// table, per spec.md §9: "pass the finalised procedure table explicitly").
func Check(prog *ast.Program) (*symbols.Env, error) {
	plog.Phase("TypeCheck")
	c := &checker{env: symbols.New(), aggregateInit: make(map[string]bool)}

	if err := c.registerProcs(prog.Stmts); err != nil {
		return nil, err
	}
	if err := c.checkStmts(prog.Stmts); err != nil {
		return nil, err
	}
	return c.env, nil
}

// registerProcs is the pre-pass from spec.md §3: every ProcedureDef is
// registered before the main pass runs, so calls may precede definitions.
func (c *checker) registerProcs(stmts []ast.Stmt) error {
	for _, s := range stmts {
		def, ok := s.(*ast.ProcedureDef)
		if !ok {
			continue
		}
		if c.env.HasProc(def.Name) {
			return perr.New(perr.DuplicateDeclaration, "procedure "+def.Name)
		}
		retType := types.TVoid
		if def.RetType != "" {
			t, ok := types.FromName(def.RetType)
			if !ok {
				return perr.New(perr.InvalidType, def.RetType)
			}
			retType = t
		}
		if len(def.Params) > maxProcedureParams {
			return perr.Newf(perr.UnsupportedConstruct, "%s: %d parameters exceeds the %d this calling convention supports", def.Name, len(def.Params), maxProcedureParams)
		}
		params := make([]symbols.Param, 0, len(def.Params))
		for _, p := range def.Params {
			t, ok := types.FromName(p.TypeName)
			if !ok {
				return perr.New(perr.InvalidType, p.TypeName)
			}
			params = append(params, symbols.Param{Name: p.Name, Type: t})
		}
		c.env.DeclareProc(&symbols.Proc{Name: def.Name, Params: params, RetType: retType})
	}
	return nil
}

func (c *checker) checkStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Declaration:
		return c.checkDeclaration(n)
	case *ast.Initialization:
		return c.checkInitialization(n)
	case *ast.ListInitialization:
		return c.checkListInitialization(n)
	case *ast.Assignment:
		return c.checkAssignment(n)
	case *ast.Conditional:
		return c.checkConditional(n)
	case *ast.Loop:
		return c.checkLoop(n)
	case *ast.Return:
		return c.checkReturn(n)
	case *ast.ProcedureCallStatement:
		_, err := c.checkExpr(n.Call)
		return err
	case *ast.ProcedureDef:
		return c.checkProcedureDef(n)
	default:
		return perr.Newf(perr.InternalConsistency, "unhandled statement kind %T", s)
	}
}

func (c *checker) checkDeclaration(n *ast.Declaration) error {
	if c.env.DeclaredInCurrentScope(n.Name) {
		return perr.New(perr.DuplicateDeclaration, n.Name)
	}
	t, ok := types.FromName(n.TypeName)
	if !ok {
		return perr.New(perr.InvalidType, n.TypeName)
	}
	c.env.Declare(n.Name, t)
	return nil
}

func (c *checker) checkInitialization(n *ast.Initialization) error {
	if c.env.DeclaredInCurrentScope(n.Name) {
		return perr.New(perr.DuplicateDeclaration, n.Name)
	}
	declared, ok := types.FromName(n.TypeName)
	if !ok {
		return perr.New(perr.InvalidType, n.TypeName)
	}

	if declared.IsHardwareAggregate() {
		if lit, isStr := n.Value.(*ast.StringLiteral); isStr {
			lit.SetType(types.TString)
			c.env.Declare(n.Name, declared)
			c.aggregateInit[n.Name] = true
			return nil
		}
	}

	valType, err := c.checkExpr(n.Value)
	if err != nil {
		return err
	}
	if !types.Equal(valType, declared) {
		return perr.Mismatch(n.Name, declared.String(), valType.String())
	}
	c.env.Declare(n.Name, declared)
	return nil
}

func (c *checker) checkListInitialization(n *ast.ListInitialization) error {
	if c.env.DeclaredInCurrentScope(n.Name) {
		return perr.New(perr.DuplicateDeclaration, n.Name)
	}
	for _, e := range n.Elements {
		t, err := c.checkExpr(e)
		if err != nil {
			return err
		}
		if !types.Equal(t, types.TInt) {
			return perr.Mismatch(n.Name+" element", "int", t.String())
		}
	}
	c.env.Declare(n.Name, types.TListInt)
	return nil
}

func (c *checker) checkAssignment(n *ast.Assignment) error {
	valType, err := c.checkExpr(n.Value)
	if err != nil {
		return err
	}

	switch target := n.Target.(type) {
	case *ast.VarTarget:
		declared, ok := c.env.Lookup(target.Name)
		if !ok {
			return perr.New(perr.UndeclaredName, target.Name)
		}
		if c.aggregateInit[target.Name] {
			return perr.Newf(perr.TypeMismatch, "%s is already initialised", target.Name)
		}
		if !types.Equal(declared, valType) {
			return perr.Mismatch(target.Name, declared.String(), valType.String())
		}
		return nil

	case *ast.IndexTarget:
		baseType, ok := c.env.Lookup(target.Name)
		if !ok {
			return perr.New(perr.UndeclaredName, target.Name)
		}
		if !baseType.Indexable() {
			return perr.Mismatch(target.Name, "indexable", baseType.String())
		}
		idxType, err := c.checkExpr(target.Index)
		if err != nil {
			return err
		}
		if !types.Equal(idxType, types.TInt) {
			return perr.Mismatch(target.Name+" index", "int", idxType.String())
		}
		elemType := baseType.IndexResult()
		if !types.Equal(elemType, valType) {
			return perr.Mismatch(target.Name+"[]", elemType.String(), valType.String())
		}
		return nil

	case *ast.AttrTarget:
		baseType, ok := c.env.Lookup(target.Name)
		if !ok {
			return perr.New(perr.UndeclaredName, target.Name)
		}
		attrType, ok := baseType.Attribute(target.Attr)
		if !ok {
			return perr.New(perr.InvalidAttribute, target.Name+"."+target.Attr)
		}
		if !types.Equal(attrType, valType) {
			return perr.Mismatch(target.Name+"."+target.Attr, attrType.String(), valType.String())
		}
		return nil

	default:
		return perr.Newf(perr.InternalConsistency, "unhandled assignment target %T", n.Target)
	}
}

func (c *checker) checkConditional(n *ast.Conditional) error {
	condType, err := c.checkExpr(n.Cond)
	if err != nil {
		return err
	}
	if !types.Equal(condType, types.TInt) {
		return perr.Mismatch("if condition", "int", condType.String())
	}
	c.env.PushScope()
	err = c.checkStmts(n.Then)
	c.env.PopScope()
	if err != nil {
		return err
	}
	if n.Else != nil {
		c.env.PushScope()
		err = c.checkStmts(n.Else)
		c.env.PopScope()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkLoop(n *ast.Loop) error {
	condType, err := c.checkExpr(n.Cond)
	if err != nil {
		return err
	}
	if !types.Equal(condType, types.TInt) {
		return perr.Mismatch("loop condition", "int", condType.String())
	}
	c.env.PushScope()
	err = c.checkStmts(n.Body)
	c.env.PopScope()
	return err
}

func (c *checker) checkReturn(n *ast.Return) error {
	if c.current == nil {
		return perr.New(perr.InternalConsistency, "return outside procedure")
	}
	if n.Value == nil {
		if !types.Equal(c.current.RetType, types.TVoid) {
			return perr.Mismatch(c.current.Name+" return", c.current.RetType.String(), "void")
		}
		return nil
	}
	if types.Equal(c.current.RetType, types.TVoid) {
		return perr.Mismatch(c.current.Name+" return", "void", "a value")
	}
	valType, err := c.checkExpr(n.Value)
	if err != nil {
		return err
	}
	if !types.Equal(valType, c.current.RetType) {
		return perr.Mismatch(c.current.Name+" return", c.current.RetType.String(), valType.String())
	}
	return nil
}

func (c *checker) checkProcedureDef(n *ast.ProcedureDef) error {
	proc, _ := c.env.LookupProc(n.Name)
	prevCurrent := c.current
	c.current = proc

	c.env.PushScope()
	for _, p := range n.Params {
		t, _ := types.FromName(p.TypeName)
		if c.env.DeclaredInCurrentScope(p.Name) {
			c.env.PopScope()
			c.current = prevCurrent
			return perr.New(perr.DuplicateDeclaration, p.Name)
		}
		c.env.Declare(p.Name, t)
	}
	err := c.checkStmts(n.Body)
	c.env.PopScope()
	c.current = prevCurrent
	return err
}

// --- Expressions ---------------------------------------------------------

func (c *checker) checkExpr(e ast.Expr) (*types.Type, error) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		n.SetType(types.TInt)
		return types.TInt, nil

	case *ast.StringLiteral:
		// The RHS of an aggregate Initialization is handled before
		// reaching here. Anywhere else the literal is typed string, so it
		// fails any comparison against a non-string type; a `string`
		// declaration accepts it.
		n.SetType(types.TString)
		return types.TString, nil

	case *ast.Variable:
		t, ok := c.env.Lookup(n.Name)
		if !ok {
			return nil, perr.New(perr.UndeclaredName, n.Name)
		}
		n.SetType(t)
		return t, nil

	case *ast.ListAccess:
		baseType, ok := c.env.Lookup(n.Name)
		if !ok {
			return nil, perr.New(perr.UndeclaredName, n.Name)
		}
		if !baseType.Indexable() {
			return nil, perr.Mismatch(n.Name, "indexable", baseType.String())
		}
		idxType, err := c.checkExpr(n.Index)
		if err != nil {
			return nil, err
		}
		if !types.Equal(idxType, types.TInt) {
			return nil, perr.Mismatch(n.Name+" index", "int", idxType.String())
		}
		result := baseType.IndexResult()
		n.SetType(result)
		return result, nil

	case *ast.AttributeAccess:
		baseType, err := c.checkExpr(n.Base)
		if err != nil {
			return nil, err
		}
		attrType, ok := baseType.Attribute(n.Attr)
		if !ok {
			return nil, perr.New(perr.InvalidAttribute, n.Attr)
		}
		n.SetType(attrType)
		return attrType, nil

	case *ast.UnaryOp:
		leftType, err := c.checkExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		if !types.Equal(leftType, types.TInt) {
			return nil, perr.Mismatch("unary operand", "int", leftType.String())
		}
		n.SetType(types.TInt)
		return types.TInt, nil

	case *ast.BinaryOp:
		leftType, err := c.checkExpr(n.Left)
		if err != nil {
			return nil, err
		}
		rightType, err := c.checkExpr(n.Right)
		if err != nil {
			return nil, err
		}
		if !types.Equal(leftType, types.TInt) || !types.Equal(rightType, types.TInt) {
			return nil, perr.Mismatch("binary operand", "int", leftType.String()+" / "+rightType.String())
		}
		n.SetType(types.TInt)
		return types.TInt, nil

	case *ast.ProcedureCall:
		proc, ok := c.env.LookupProc(n.Name)
		if !ok {
			return nil, perr.New(perr.UndeclaredName, n.Name)
		}
		if len(n.Args) != len(proc.Params) {
			return nil, perr.Newf(perr.TypeMismatch, "%s: expected %d arguments, got %d", n.Name, len(proc.Params), len(n.Args))
		}
		for i, arg := range n.Args {
			argType, err := c.checkExpr(arg)
			if err != nil {
				return nil, err
			}
			if !types.Equal(argType, proc.Params[i].Type) {
				return nil, perr.Mismatch(n.Name+" argument "+proc.Params[i].Name, proc.Params[i].Type.String(), argType.String())
			}
		}
		n.SetType(proc.RetType)
		return proc.RetType, nil

	default:
		return nil, perr.Newf(perr.InternalConsistency, "unhandled expression kind %T", e)
	}
}
