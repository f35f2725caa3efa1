// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strings"

// Nonterminal symbols of the SPL grammar.
// START is the augmented start symbol; it appears only in rule 0.
const (
	START     = "S"
	PROG      = "PROG"
	GLOBVARS  = "GLOBVARS"
	VTYP      = "VTYP"
	VNAME     = "VNAME"
	ALGO      = "ALGO"
	INSTRUC   = "INSTRUC"
	COMMAND   = "COMMAND"
	ATOMIC    = "ATOMIC"
	CONST     = "CONST"
	ASSIGN    = "ASSIGN"
	CALL      = "CALL"
	BRANCH    = "BRANCH"
	TERM      = "TERM"
	OP        = "OP"
	ARG       = "ARG"
	COND      = "COND"
	SIMPLE    = "SIMPLE"
	COMPOSIT  = "COMPOSIT"
	UNOP      = "UNOP"
	BINOP     = "BINOP"
	FNAME     = "FNAME"
	FUNCTIONS = "FUNCTIONS"
	DECL      = "DECL"
	HEADER    = "HEADER"
	FTYP      = "FTYP"
	BODY      = "BODY"
	PROLOG    = "PROLOG"
	EPILOG    = "EPILOG"
	LOCVARS   = "LOCVARS"
	SUBFUNCS  = "SUBFUNCS"
)

// A Rule is a grammar production LHS ::= RHS.
// An empty RHS is an epsilon production.
type Rule struct {
	LHS string
	RHS []string
}

// Len returns the arity of the rule: the number of stack frames a
// reduction by it pops.
func (r Rule) Len() int { return len(r.RHS) }

func (r Rule) String() string {
	if len(r.RHS) == 0 {
		return r.LHS + " ::= ε"
	}
	return r.LHS + " ::= " + strings.Join(r.RHS, " ")
}

// isNonterminal reports whether sym names a nonterminal.
// Nonterminals are spelled in capital letters; everything else is a
// terminal, either a literal lexeme (begin, ",") or a token class
// (<variable>).
func isNonterminal(sym string) bool {
	if sym == "" {
		return false
	}
	for _, c := range sym {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func rule(lhs, rhs string) Rule {
	return Rule{LHS: lhs, RHS: strings.Fields(rhs)}
}

// grammar is the fixed SPL grammar. Rule 0 is the augmented start
// rule S ::= PROG, accepted on end of input.
//
// The second INSTRUC alternative makes the ';' after a branch optional,
// so both "... else ALGO ; end" and "... else ALGO end" are accepted.
var grammar = []Rule{
	rule(START, PROG),
	rule(PROG, "main GLOBVARS ALGO FUNCTIONS"),
	rule(GLOBVARS, ""),
	rule(GLOBVARS, "VTYP VNAME , GLOBVARS"),
	rule(VTYP, "num"),
	rule(VTYP, "text"),
	rule(VNAME, "<variable>"),
	rule(ALGO, "begin INSTRUC end"),
	rule(INSTRUC, ""),
	rule(INSTRUC, "COMMAND ; INSTRUC"),
	rule(INSTRUC, "BRANCH INSTRUC"),
	rule(COMMAND, "skip"),
	rule(COMMAND, "halt"),
	rule(COMMAND, "print ATOMIC"),
	rule(COMMAND, "return ATOMIC"),
	rule(COMMAND, "ASSIGN"),
	rule(COMMAND, "CALL"),
	rule(COMMAND, "BRANCH"),
	rule(ATOMIC, "VNAME"),
	rule(ATOMIC, "CONST"),
	rule(CONST, "<number>"),
	rule(CONST, "<text>"),
	rule(ASSIGN, "VNAME < input"),
	rule(ASSIGN, "VNAME = TERM"),
	rule(CALL, "FNAME ( ATOMIC , ATOMIC , ATOMIC )"),
	rule(BRANCH, "if COND then ALGO else ALGO"),
	rule(TERM, "ATOMIC"),
	rule(TERM, "CALL"),
	rule(TERM, "OP"),
	rule(OP, "UNOP ( ARG )"),
	rule(OP, "BINOP ( ARG , ARG )"),
	rule(ARG, "ATOMIC"),
	rule(ARG, "OP"),
	rule(COND, "SIMPLE"),
	rule(COND, "COMPOSIT"),
	rule(SIMPLE, "BINOP ( ATOMIC , ATOMIC )"),
	rule(COMPOSIT, "BINOP ( SIMPLE , SIMPLE )"),
	rule(COMPOSIT, "UNOP ( SIMPLE )"),
	rule(UNOP, "not"),
	rule(UNOP, "sqrt"),
	rule(BINOP, "or"),
	rule(BINOP, "and"),
	rule(BINOP, "eq"),
	rule(BINOP, "grt"),
	rule(BINOP, "add"),
	rule(BINOP, "sub"),
	rule(BINOP, "mul"),
	rule(BINOP, "div"),
	rule(FNAME, "<function>"),
	rule(FUNCTIONS, ""),
	rule(FUNCTIONS, "DECL FUNCTIONS"),
	rule(DECL, "HEADER BODY"),
	rule(HEADER, "FTYP FNAME ( VNAME , VNAME , VNAME )"),
	rule(FTYP, "num"),
	rule(FTYP, "void"),
	rule(BODY, "PROLOG LOCVARS ALGO EPILOG SUBFUNCS end"),
	rule(PROLOG, "{"),
	rule(EPILOG, "}"),
	rule(LOCVARS, "VTYP VNAME , VTYP VNAME , VTYP VNAME ,"),
	rule(SUBFUNCS, "FUNCTIONS"),
}

// Grammar returns a copy of the SPL grammar rules, indexed as in
// Node.Rule.
func Grammar() []Rule {
	rules := make([]Rule, len(grammar))
	copy(rules, grammar)
	return rules
}
