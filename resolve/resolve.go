// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for SPL syntax trees.
//
// The resolver checks that every identifier is declared before use,
// and assigns each declaration a program-unique name: v100, v101, ...
// for variables and f500, f501, ... for functions.
//
// Blocks (begin ... end) and function declarations open scopes. A
// variable declaration whose name is already visible in an enclosing
// scope does not shadow it: the outer binding stays in force and the
// declaration is ignored. Function names must be unique across the
// whole program.
//
// Resolution takes two passes over the tree. The first declares
// globals, functions, parameters and locals, recording the contents
// of each scope against the node that opened it; the second re-enters
// the same scopes and resolves every other identifier. So a function
// may be called before its declaration, but a variable must still be
// declared in a visible scope.
package resolve // import "github.com/u22633601/COS-341-Project-sub000/resolve"

import (
	"fmt"

	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/types"
)

const debug = false

// First unique numbers for variables and functions.
const (
	firstVar  = 100
	firstFunc = 500
)

// An ErrorKind distinguishes the two ways resolution can fail.
type ErrorKind uint8

const (
	Duplicate  ErrorKind = iota // name declared twice in one scope
	Undeclared                  // name used but not visible
)

// A ScopeError describes a failed resolution.
type ScopeError struct {
	Pos  syntax.Position
	Name string
	Kind ErrorKind
	Msg  string
}

func (e *ScopeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// A binding is the declaration a name refers to within a scope.
type binding struct {
	sym *Symbol
}

type scope map[string]*binding

// Program resolves the syntax tree of a complete program and returns
// its symbol table. On failure it returns a *ScopeError describing the
// first problem found.
func Program(tree *syntax.Tree) (*SymbolTable, error) {
	r := newResolver(tree)
	if err := r.declarations(tree.Root); err != nil {
		return nil, err
	}
	r.checkBalance()
	if err := r.uses(tree.Root); err != nil {
		return nil, err
	}
	r.checkBalance()
	return r.table, nil
}

type resolver struct {
	tree   *syntax.Tree
	table  *SymbolTable
	stack  []scope
	scopes map[syntax.NodeID]scope // scope opened by each ALGO or DECL node
	funcs  map[string]*Symbol      // every function declared so far
	nvar   int
	nfunc  int
}

func newResolver(tree *syntax.Tree) *resolver {
	table := NewSymbolTable()
	table.Names = make(map[syntax.NodeID]string)
	return &resolver{
		tree:   tree,
		table:  table,
		stack:  []scope{make(scope)},
		scopes: make(map[syntax.NodeID]scope),
		funcs:  make(map[string]*Symbol),
		nvar:   firstVar,
		nfunc:  firstFunc,
	}
}

func (r *resolver) push(s scope) { r.stack = append(r.stack, s) }

func (r *resolver) pop() { r.stack = r.stack[:len(r.stack)-1] }

func (r *resolver) checkBalance() {
	if len(r.stack) != 1 {
		panic(fmt.Sprintf("internal error: scope stack has depth %d after a pass", len(r.stack)))
	}
}

// lookup finds name in the innermost scope that binds it.
func (r *resolver) lookup(name string) *binding {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if b, ok := r.stack[i][name]; ok {
			return b
		}
	}
	return nil
}

// ident returns the identifier leaf below a VNAME or FNAME node.
func (r *resolver) ident(id syntax.NodeID) *syntax.Node {
	return r.tree.Child(id, 0)
}

// vtype returns the type named by a VTYP or FTYP node.
func (r *resolver) vtype(id syntax.NodeID) types.Type {
	t, _ := types.Parse(r.tree.Child(id, 0).Token.Lexeme)
	return t
}

// declarations is the first pass.
func (r *resolver) declarations(id syntax.NodeID) error {
	n := r.tree.Node(id)
	switch n.Symbol {
	case syntax.ALGO:
		s := make(scope)
		r.scopes[id] = s
		r.push(s)
		defer r.pop()

	case syntax.GLOBVARS:
		if len(n.Children) == 0 {
			return nil
		}
		if err := r.declareVar(n.Children[1], r.vtype(n.Children[0]), Global); err != nil {
			return err
		}
		return r.declarations(n.Children[3])

	case syntax.LOCVARS:
		for i := 0; i < 9; i += 3 {
			if err := r.declareVar(n.Children[i+1], r.vtype(n.Children[i]), Local); err != nil {
				return err
			}
		}
		return nil

	case syntax.DECL:
		header := n.Children[0]
		fn, err := r.declareFunc(header)
		if err != nil {
			return err
		}
		s := make(scope)
		r.scopes[id] = s
		r.push(s)
		defer r.pop()
		h := r.tree.Node(header)
		for i, p := range []int{3, 5, 7} {
			if err := r.declareVar(h.Children[p], types.Num, Param); err != nil {
				return err
			}
			fn.Params[i] = r.table.Names[r.ident(h.Children[p]).ID]
		}
		return r.declarations(n.Children[1])
	}

	for _, c := range n.Children {
		if err := r.declarations(c); err != nil {
			return err
		}
	}
	return nil
}

// declareVar declares the variable named by the VNAME node id in the
// current scope.
func (r *resolver) declareVar(id syntax.NodeID, typ types.Type, kind Kind) error {
	leaf := r.ident(id)
	name := leaf.Token.Lexeme
	cur := r.stack[len(r.stack)-1]
	if _, dup := cur[name]; dup {
		return &ScopeError{
			Pos:  leaf.Token.Pos,
			Name: name,
			Kind: Duplicate,
			Msg:  fmt.Sprintf("Variable '%s' is already declared in this scope", name),
		}
	}
	if outer := r.lookup(name); outer != nil {
		// No shadowing: the enclosing declaration stays in force,
		// and the name is now taken in this scope too.
		cur[name] = outer
		r.table.Names[leaf.ID] = outer.sym.Unique
		return nil
	}
	sym := &Symbol{
		Name:   name,
		Unique: fmt.Sprintf("v%d", r.nvar),
		Type:   typ,
		Kind:   kind,
		Pos:    leaf.Token.Pos,
	}
	r.nvar++
	cur[name] = &binding{sym}
	r.table.Names[leaf.ID] = sym.Unique
	if kind == Global {
		r.table.Symbols[name] = sym
	}
	if debug {
		fmt.Printf("declare %s %s as %s\n", kind, name, sym.Unique)
	}
	return nil
}

// declareFunc declares the function of the HEADER node id in the
// current scope.
func (r *resolver) declareFunc(id syntax.NodeID) (*Symbol, error) {
	h := r.tree.Node(id)
	leaf := r.ident(h.Children[1])
	name := leaf.Token.Lexeme
	if prev, dup := r.funcs[name]; dup {
		msg := fmt.Sprintf("Function '%s' is already declared in this scope", name)
		if prev.Pos.IsValid() {
			msg = fmt.Sprintf("Function '%s' is already declared at %s", name, prev.Pos)
		}
		return nil, &ScopeError{Pos: leaf.Token.Pos, Name: name, Kind: Duplicate, Msg: msg}
	}
	sym := &Symbol{
		Name:   name,
		Unique: fmt.Sprintf("f%d", r.nfunc),
		Type:   r.vtype(h.Children[0]),
		Kind:   Function,
		Pos:    leaf.Token.Pos,
	}
	r.nfunc++
	r.stack[len(r.stack)-1][name] = &binding{sym}
	r.funcs[name] = sym
	r.table.Symbols[name] = sym
	r.table.Names[leaf.ID] = sym.Unique
	return sym, nil
}

// uses is the second pass.
func (r *resolver) uses(id syntax.NodeID) error {
	n := r.tree.Node(id)
	switch n.Symbol {
	case syntax.GLOBVARS, syntax.LOCVARS, syntax.HEADER:
		return nil // declarations only

	case syntax.ALGO:
		r.push(r.scopes[id])
		defer r.pop()

	case syntax.DECL:
		r.push(r.scopes[id])
		defer r.pop()
		return r.uses(n.Children[1])

	case syntax.VNAME, syntax.FNAME:
		leaf := r.ident(id)
		name := leaf.Token.Lexeme
		b := r.lookup(name)
		if b == nil {
			return &ScopeError{
				Pos:  leaf.Token.Pos,
				Name: name,
				Kind: Undeclared,
				Msg:  fmt.Sprintf("Variable or function '%s' is not declared in the current scope.", name),
			}
		}
		if b.sym.Kind == Function {
			b.sym.Used = true
		}
		r.table.Names[leaf.ID] = b.sym.Unique
		return nil
	}

	for _, c := range n.Children {
		if err := r.uses(c); err != nil {
			return err
		}
	}
	return nil
}
