// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typecheck checks the types of a resolved SPL program.
//
// The checker infers a type for every expression and checks it against
// the assignment, call, condition or return that uses it. Unlike the
// parser and resolver it does not stop at the first problem: all errors
// are collected and returned together as an ErrorList, sorted by
// position. An expression whose type cannot be inferred has type
// Unknown, which is accepted everywhere so that one mistake is reported
// once.
//
// Local variables are typed from the tree itself. Global variables are
// typed from their declarations and, failing that, from the symbol
// table, which is also the fallback for function signatures. So Check
// works both on a freshly resolved program and on a tree and symbol
// table read back from files.
package typecheck // import "github.com/u22633601/COS-341-Project-sub000/typecheck"

import (
	"fmt"
	"sort"

	"github.com/u22633601/COS-341-Project-sub000/resolve"
	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/types"
)

// An Error is a type error at a particular place.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return fmt.Sprintf("Line %d: Type Error: %s", e.Pos.Line, e.Msg) }

func (e Error) String() string { return e.Error() }

// An ErrorList is a non-empty list of type errors.
type ErrorList []Error

func (e ErrorList) Error() string {
	switch len(e) {
	case 0:
		return "no type errors"
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e[0], len(e)-1)
}

func (e ErrorList) Len() int      { return len(e) }
func (e ErrorList) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e ErrorList) Less(i, j int) bool {
	x, y := e[i].Pos, e[j].Pos
	if x.Line != y.Line {
		return x.Line < y.Line
	}
	return x.Col < y.Col
}

// Check type-checks the program tree. The symbol table may be nil.
// It returns nil or an ErrorList.
func Check(tree *syntax.Tree, symbols *resolve.SymbolTable) error {
	c := &checker{
		tree:    tree,
		symbols: symbols,
		funcs:   make(map[string]types.Type),
		scopes:  []scope{make(scope)},
	}
	c.headers()
	c.stmt(tree.Root)
	if len(c.errors) == 0 {
		return nil
	}
	sort.Stable(c.errors)
	return c.errors
}

type scope map[string]types.Type

// A funcInfo describes the function whose body is being checked.
type funcInfo struct {
	name    string
	typ     types.Type
	returns bool // body contains a return statement
}

type checker struct {
	tree    *syntax.Tree
	symbols *resolve.SymbolTable
	funcs   map[string]types.Type // return types declared by HEADERs
	scopes  []scope
	fn      *funcInfo // nil in the main algorithm
	errors  ErrorList
}

func (c *checker) errorf(tok *syntax.Token, format string, args ...interface{}) {
	var pos syntax.Position
	if tok != nil {
		pos = tok.Pos
	}
	c.errors = append(c.errors, Error{pos, fmt.Sprintf(format, args...)})
}

func (c *checker) node(id syntax.NodeID) *syntax.Node { return c.tree.Node(id) }

// leaf returns the token of the identifier below a VNAME or FNAME.
func (c *checker) leaf(id syntax.NodeID) *syntax.Token { return c.tree.Child(id, 0).Token }

func (c *checker) vtype(id syntax.NodeID) types.Type {
	t, _ := types.Parse(c.tree.Child(id, 0).Token.Lexeme)
	return t
}

// headers records the return type of every function declared in the
// program, so that calls may precede declarations.
func (c *checker) headers() {
	syntax.Walk(c.tree, c.tree.Root, func(n *syntax.Node) bool {
		if n == nil || n.Symbol != syntax.HEADER {
			return n != nil
		}
		name := c.leaf(n.Children[1])
		typ := c.vtype(n.Children[0])
		if _, dup := c.funcs[name.Lexeme]; !dup {
			c.funcs[name.Lexeme] = typ
		}
		if sym, ok := c.lookupSymbol(name.Lexeme, true); ok && sym.Type != typ {
			c.errorf(name, "Return type mismatch for function %s: declared as %s, but defined as %s",
				name.Lexeme, sym.Type, typ)
		}
		return false
	})
}

func (c *checker) lookupSymbol(name string, function bool) (*resolve.Symbol, bool) {
	if c.symbols == nil {
		return nil, false
	}
	sym, ok := c.symbols.Lookup(name)
	if !ok || (sym.Kind == resolve.Function) != function {
		return nil, false
	}
	return sym, true
}

// declare adds a variable to the current scope. If the name is
// already visible the existing declaration stands, and the current
// scope binds the name to its type.
func (c *checker) declare(vname syntax.NodeID, typ types.Type) {
	name := c.leaf(vname).Lexeme
	cur := c.scopes[len(c.scopes)-1]
	if _, ok := cur[name]; ok {
		return
	}
	if t, ok := c.lookup(name); ok {
		typ = t
	}
	cur[name] = typ
}

func (c *checker) lookup(name string) (types.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return types.Unknown, false
}

// variable returns the type of the variable named by a VNAME node.
func (c *checker) variable(vname syntax.NodeID) types.Type {
	tok := c.leaf(vname)
	if t, ok := c.lookup(tok.Lexeme); ok {
		return t
	}
	if sym, ok := c.lookupSymbol(tok.Lexeme, false); ok {
		return sym.Type
	}
	c.errorf(tok, "Undefined variable: %s", tok.Lexeme)
	return types.Unknown
}

// function returns the return type of the function named by an FNAME
// node.
func (c *checker) function(fname syntax.NodeID) (types.Type, bool) {
	tok := c.leaf(fname)
	if t, ok := c.funcs[tok.Lexeme]; ok {
		return t, true
	}
	if sym, ok := c.lookupSymbol(tok.Lexeme, true); ok {
		return sym.Type, true
	}
	c.errorf(tok, "Undefined function: %s", tok.Lexeme)
	return types.Unknown, false
}

// stmt checks the declarations and statements below node id.
func (c *checker) stmt(id syntax.NodeID) {
	n := c.node(id)
	switch n.Symbol {
	case syntax.GLOBVARS:
		if len(n.Children) == 0 {
			return
		}
		vname, typ := n.Children[1], c.vtype(n.Children[0])
		tok := c.leaf(vname)
		if sym, ok := c.lookupSymbol(tok.Lexeme, false); ok && sym.Type != typ {
			c.errorf(tok, "Type mismatch in declaration: %s declared as %s, but symbol table says %s",
				tok.Lexeme, typ, sym.Type)
		}
		c.declare(vname, typ)
		c.stmt(n.Children[3])
		return

	case syntax.DECL:
		c.decl(n)
		return

	case syntax.COMMAND:
		c.command(n)
		return

	case syntax.BRANCH:
		if t := c.cond(n.Children[1]); t.Known() && t != types.Bool {
			c.errorf(c.tree.Child(n.ID, 0).Token, "Condition must be a boolean expression, found type: %s", t)
		}
		c.stmt(n.Children[3])
		c.stmt(n.Children[5])
		return
	}

	for _, child := range n.Children {
		c.stmt(child)
	}
}

func (c *checker) decl(n *syntax.Node) {
	header := c.node(n.Children[0])
	body := c.node(n.Children[1])
	name := c.leaf(header.Children[1])

	c.scopes = append(c.scopes, make(scope))
	for _, p := range []int{3, 5, 7} {
		c.declare(header.Children[p], types.Num)
	}
	locals := c.node(body.Children[1])
	for i := 0; i < 9; i += 3 {
		c.declare(locals.Children[i+1], c.vtype(locals.Children[i]))
	}

	outer := c.fn
	c.fn = &funcInfo{name: name.Lexeme, typ: c.vtype(header.Children[0])}
	c.stmt(body.Children[2]) // ALGO
	if c.fn.typ == types.Num && !c.fn.returns {
		c.errorf(name, "Function %s must have a return statement", name.Lexeme)
	}
	c.fn = outer

	c.stmt(body.Children[4]) // SUBFUNCS
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *checker) command(n *syntax.Node) {
	first := c.node(n.Children[0])
	switch first.Symbol {
	case "skip", "halt":
	case "print":
		c.atomic(n.Children[1])
	case "return":
		c.ret(first.Token, n.Children[1])
	case syntax.ASSIGN:
		c.assign(first)
	case syntax.CALL:
		c.call(first.ID, true)
	case syntax.BRANCH:
		c.stmt(first.ID)
	default:
		panic(fmt.Sprintf("unexpected command %s", first.Symbol))
	}
}

func (c *checker) ret(tok *syntax.Token, atomic syntax.NodeID) {
	t := c.atomic(atomic)
	switch {
	case c.fn == nil:
		// return in the main algorithm is not checked
	case c.fn.typ == types.Void:
		c.errorf(tok, "Void function %s cannot return a value", c.fn.name)
	default:
		c.fn.returns = true
		if t.Known() && t != types.Num {
			c.errorf(tok, "Function %s has return type num but is returning %s", c.fn.name, t)
		}
	}
}

func (c *checker) assign(n *syntax.Node) {
	target := n.Children[0]
	vt := c.variable(target)
	if c.tree.Child(n.ID, 1).Symbol == "<" {
		return // input
	}
	et := c.term(n.Children[2])
	if vt.Known() && et.Known() && vt != et {
		tok := c.leaf(target)
		c.errorf(tok, "Type mismatch in assignment: %s is %s but expression is %s", tok.Lexeme, vt, et)
	}
}

// call checks a call to a user function. A call used as a command must
// be to a void function; one used in an expression must not be.
func (c *checker) call(id syntax.NodeID, command bool) types.Type {
	n := c.node(id)
	fname := c.leaf(n.Children[0])
	ft, ok := c.function(n.Children[0])
	for _, a := range []int{2, 4, 6} {
		if t := c.atomic(n.Children[a]); t.Known() && t != types.Num {
			arg := c.tree.FirstToken(n.Children[a])
			c.errorf(arg, "Parameter %s must be of type num for function %s", arg.Lexeme, fname.Lexeme)
		}
	}
	switch {
	case !ok:
		return types.Unknown
	case command && ft == types.Num:
		c.errorf(fname, "Function %s has return type num and must be used in an assignment", fname.Lexeme)
	case !command && ft == types.Void:
		c.errorf(fname, "Function %s has return type void and cannot be used in an expression", fname.Lexeme)
		return types.Unknown
	}
	return ft
}

func (c *checker) atomic(id syntax.NodeID) types.Type {
	x := c.tree.Child(id, 0)
	if x.Symbol == syntax.VNAME {
		return c.variable(x.ID)
	}
	if c.tree.Child(x.ID, 0).Token.Class == syntax.NUMBER {
		return types.Num
	}
	return types.Text
}

func (c *checker) term(id syntax.NodeID) types.Type {
	x := c.tree.Child(id, 0)
	switch x.Symbol {
	case syntax.ATOMIC:
		return c.atomic(x.ID)
	case syntax.CALL:
		return c.call(x.ID, false)
	}
	return c.op(x.ID)
}

// op infers the type of an OP or ARG node.
func (c *checker) op(id syntax.NodeID) types.Type {
	n := c.node(id)
	switch n.Symbol {
	case syntax.ARG:
		x := c.node(n.Children[0])
		if x.Symbol == syntax.ATOMIC {
			return c.atomic(x.ID)
		}
		return c.op(x.ID)
	}
	operator := c.tree.Child(n.Children[0], 0).Token
	if len(n.Children) == 4 {
		return c.unary(operator, c.op(n.Children[2]))
	}
	return c.binary(operator, c.op(n.Children[2]), c.op(n.Children[4]))
}

// cond infers the type of a COND, SIMPLE or COMPOSIT node.
func (c *checker) cond(id syntax.NodeID) types.Type {
	n := c.node(id)
	if n.Symbol == syntax.COND {
		return c.cond(n.Children[0])
	}
	operator := c.tree.Child(n.Children[0], 0).Token
	if len(n.Children) == 4 {
		return c.unary(operator, c.cond(n.Children[2]))
	}
	operand := c.cond
	if n.Symbol == syntax.SIMPLE {
		operand = c.atomic
	}
	return c.binary(operator, operand(n.Children[2]), operand(n.Children[4]))
}

// unary and binary return Unknown once they report an operand, so
// that a fault is reported once.
func (c *checker) unary(op *syntax.Token, x types.Type) types.Type {
	switch op.Lexeme {
	case "not":
		if x.Known() && x != types.Bool {
			c.errorf(op, "Argument of not must be boolean, found type: %s", x)
			return types.Unknown
		}
		return types.Bool
	case "sqrt":
		if x.Known() && x != types.Num {
			c.errorf(op, "Argument of sqrt must be numeric, found type: %s", x)
			return types.Unknown
		}
		return types.Num
	}
	panic(fmt.Sprintf("unexpected unary operator %s", op.Lexeme))
}

func (c *checker) binary(op *syntax.Token, x, y types.Type) types.Type {
	// want reports the first operand whose type is not t, and yields
	// result if there was none.
	want := func(t types.Type, what string, result types.Type) types.Type {
		for _, z := range []types.Type{x, y} {
			if z.Known() && z != t {
				c.errorf(op, "Arguments of %s must be %s, found type: %s", op.Lexeme, what, z)
				return types.Unknown
			}
		}
		return result
	}
	switch op.Lexeme {
	case "add", "sub", "mul", "div":
		return want(types.Num, "numeric", types.Num)
	case "grt":
		return want(types.Num, "numeric", types.Bool)
	case "and", "or":
		return want(types.Bool, "boolean", types.Bool)
	case "eq":
		if x.Known() && y.Known() {
			if x != y {
				c.errorf(op, "Arguments of eq must be of the same type")
				return types.Unknown
			}
			if !x.Declarable() {
				c.errorf(op, "Arguments of eq must be num or text, found type: %s", x)
				return types.Unknown
			}
		}
		return types.Bool
	}
	panic(fmt.Sprintf("unexpected binary operator %s", op.Lexeme))
}
