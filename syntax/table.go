// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file builds the canonical LR(1) action/goto table from a
// declarative rule list.
//
// Items carry a single lookahead terminal. Item sets are kept sorted
// so that two sets with the same items have the same key, and states
// are numbered in the order a breadth-first walk of the automaton
// discovers them, visiting symbols in sorted order. The same rule list
// therefore always yields the same table.

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
)

// An ActionKind is the kind of an entry in the action table.
type ActionKind uint8

const (
	NoAction ActionKind = iota // syntax error
	Shift
	Reduce
	Accept
)

// An Action is an entry in the action table.
// Arg is the target state of a Shift or the rule index of a Reduce.
type Action struct {
	Kind ActionKind
	Arg  int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.Arg)
	case Reduce:
		return fmt.Sprintf("r%d", a.Arg)
	case Accept:
		return "acc"
	}
	return "-"
}

// A ParseTable is an immutable LR(1) action/goto table.
type ParseTable struct {
	Rules []Rule // Rules[0] is the augmented start rule

	actions []map[string]Action
	gotos   []map[string]int
}

// NumStates returns the number of automaton states.
func (t *ParseTable) NumStates() int { return len(t.actions) }

// Action returns the action for the given state and terminal.
// The zero Action (NoAction) means the terminal is not expected.
func (t *ParseTable) Action(state int, terminal string) Action {
	if state < 0 || state >= len(t.actions) {
		return Action{}
	}
	return t.actions[state][terminal]
}

// Goto returns the state entered after reducing to the nonterminal nt
// in the given state.
func (t *ParseTable) Goto(state int, nt string) (int, bool) {
	if state < 0 || state >= len(t.gotos) {
		return 0, false
	}
	next, ok := t.gotos[state][nt]
	return next, ok
}

// Expected returns the terminals that have an action in the given
// state, in sorted order.
func (t *ParseTable) Expected(state int) []string {
	if state < 0 || state >= len(t.actions) {
		return nil
	}
	var terms []string
	for term := range t.actions[state] {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// WriteTo writes a human-readable listing of the rules and of every
// state's actions and gotos to w.
func (t *ParseTable) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 1, ' ', 0)
	for i, r := range t.Rules {
		fmt.Fprintf(tw, "r%d\t%s\n", i, r)
	}
	fmt.Fprintln(tw)
	for state := range t.actions {
		fmt.Fprintf(tw, "state %d\n", state)
		for _, term := range t.Expected(state) {
			fmt.Fprintf(tw, "\t%s\t%s\n", term, t.actions[state][term])
		}
		nts := make([]string, 0, len(t.gotos[state]))
		for nt := range t.gotos[state] {
			nts = append(nts, nt)
		}
		sort.Strings(nts)
		for _, nt := range nts {
			fmt.Fprintf(tw, "\t%s\tgoto %d\n", nt, t.gotos[state][nt])
		}
	}
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// A GrammarError reports a defect in a rule list: a conflict, an
// undefined, unreachable, or unproductive nonterminal. It is a bug in
// the grammar, never in the input being parsed.
type GrammarError struct {
	Problems []string
}

func (e *GrammarError) Error() string {
	return "invalid grammar: " + strings.Join(e.Problems, "; ")
}

var (
	tableOnce sync.Once
	table     *ParseTable
)

// Table returns the parse table of the SPL grammar.
// It is built on first use and shared, read-only, by all callers.
// Table panics if the grammar is invalid.
func Table() *ParseTable {
	tableOnce.Do(func() { table = mustBuildTable(grammar) })
	return table
}

func mustBuildTable(rules []Rule) *ParseTable {
	t, err := BuildTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// BuildTable computes the canonical LR(1) table for rules.
// rules[0] must be the augmented start rule S ::= X, whose left-hand
// side occurs in no other rule; the table accepts after X on end of
// input. A non-nil error is a *GrammarError.
func BuildTable(rules []Rule) (*ParseTable, error) {
	b := &tableBuilder{
		rules:   rules,
		byLHS:   make(map[string][]int),
		first:   make(map[string]map[string]bool),
		null:    make(map[string]bool),
		stateOf: make(map[string]int),
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.computeFirst()
	b.build()
	if len(b.problems) > 0 {
		return nil, &GrammarError{Problems: b.problems}
	}
	return &ParseTable{Rules: rules, actions: b.actions, gotos: b.gotos}, nil
}

// An item is an LR(1) item: a rule, a dot position within its
// right-hand side, and one lookahead terminal.
type item struct {
	rule, dot int
	la        string
}

func (x item) less(y item) bool {
	if x.rule != y.rule {
		return x.rule < y.rule
	}
	if x.dot != y.dot {
		return x.dot < y.dot
	}
	return x.la < y.la
}

type itemSet []item

func (s itemSet) key() string {
	var buf strings.Builder
	for _, x := range s {
		fmt.Fprintf(&buf, "%d.%d.%s|", x.rule, x.dot, x.la)
	}
	return buf.String()
}

type tableBuilder struct {
	rules    []Rule
	byLHS    map[string][]int
	first    map[string]map[string]bool // nonterminal -> FIRST set (no epsilon)
	null     map[string]bool            // nullable nonterminals
	states   []itemSet
	stateOf  map[string]int
	actions  []map[string]Action
	gotos    []map[string]int
	problems []string
}

func (b *tableBuilder) errorf(format string, args ...interface{}) {
	b.problems = append(b.problems, fmt.Sprintf(format, args...))
}

// validate rejects rule lists with undefined, unreachable, or
// unproductive nonterminals.
func (b *tableBuilder) validate() error {
	if len(b.rules) == 0 {
		return &GrammarError{Problems: []string{"no rules"}}
	}
	for i, r := range b.rules {
		if !isNonterminal(r.LHS) {
			b.errorf("rule %d: left-hand side %q is not a nonterminal", i, r.LHS)
		}
		b.byLHS[r.LHS] = append(b.byLHS[r.LHS], i)
	}
	start := b.rules[0].LHS
	if len(b.byLHS[start]) != 1 {
		b.errorf("start symbol %s must have exactly one rule", start)
	}
	for i, r := range b.rules {
		for _, sym := range r.RHS {
			if sym == start {
				b.errorf("rule %d (%s): start symbol %s on right-hand side", i, r, start)
			}
			if isNonterminal(sym) && b.byLHS[sym] == nil {
				b.errorf("rule %d (%s): undefined nonterminal %s", i, r, sym)
			}
			if sym == EOFLexeme {
				b.errorf("rule %d (%s): end-of-input marker on right-hand side", i, r)
			}
		}
	}

	// reachability from the start symbol
	reached := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]
		for _, ri := range b.byLHS[nt] {
			for _, sym := range b.rules[ri].RHS {
				if isNonterminal(sym) && !reached[sym] {
					reached[sym] = true
					queue = append(queue, sym)
				}
			}
		}
	}

	// productivity: a nonterminal is productive if some rule for it
	// has only terminals and productive nonterminals on its right.
	productive := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range b.rules {
			if productive[r.LHS] {
				continue
			}
			ok := true
			for _, sym := range r.RHS {
				if isNonterminal(sym) && !productive[sym] {
					ok = false
					break
				}
			}
			if ok {
				productive[r.LHS] = true
				changed = true
			}
		}
	}

	for _, nt := range b.nonterminals() {
		if !reached[nt] {
			b.errorf("unreachable nonterminal %s", nt)
		}
		if !productive[nt] {
			b.errorf("unproductive nonterminal %s", nt)
		}
	}
	if len(b.problems) > 0 {
		return &GrammarError{Problems: b.problems}
	}
	return nil
}

// nonterminals returns the defined nonterminals in order of first
// definition.
func (b *tableBuilder) nonterminals() []string {
	var nts []string
	seen := make(map[string]bool)
	for _, r := range b.rules {
		if !seen[r.LHS] {
			seen[r.LHS] = true
			nts = append(nts, r.LHS)
		}
	}
	return nts
}

// computeFirst computes the FIRST sets and nullability of every
// nonterminal by iterating to a fixed point.
func (b *tableBuilder) computeFirst() {
	for _, nt := range b.nonterminals() {
		b.first[nt] = make(map[string]bool)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range b.rules {
			set := b.first[r.LHS]
			nullable := true
			for _, sym := range r.RHS {
				if !isNonterminal(sym) {
					if !set[sym] {
						set[sym] = true
						changed = true
					}
					nullable = false
					break
				}
				for t := range b.first[sym] {
					if !set[t] {
						set[t] = true
						changed = true
					}
				}
				if !b.null[sym] {
					nullable = false
					break
				}
			}
			if nullable && !b.null[r.LHS] {
				b.null[r.LHS] = true
				changed = true
			}
		}
	}
}

// firstOf returns FIRST(seq la): the terminals that can begin a string
// derived from seq followed by the terminal la.
func (b *tableBuilder) firstOf(seq []string, la string) []string {
	set := make(map[string]bool)
	nullable := true
	for _, sym := range seq {
		if !isNonterminal(sym) {
			set[sym] = true
			nullable = false
			break
		}
		for t := range b.first[sym] {
			set[t] = true
		}
		if !b.null[sym] {
			nullable = false
			break
		}
	}
	if nullable {
		set[la] = true
	}
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// closure returns the sorted closure of the kernel items.
func (b *tableBuilder) closure(kernel []item) itemSet {
	seen := make(map[item]bool)
	var work, out []item
	for _, x := range kernel {
		if !seen[x] {
			seen[x] = true
			work = append(work, x)
		}
	}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		out = append(out, x)

		rhs := b.rules[x.rule].RHS
		if x.dot >= len(rhs) || !isNonterminal(rhs[x.dot]) {
			continue
		}
		las := b.firstOf(rhs[x.dot+1:], x.la)
		for _, ri := range b.byLHS[rhs[x.dot]] {
			for _, la := range las {
				y := item{rule: ri, dot: 0, la: la}
				if !seen[y] {
					seen[y] = true
					work = append(work, y)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// gotoOf returns the closure of the items of s with the dot advanced
// over sym.
func (b *tableBuilder) gotoOf(s itemSet, sym string) itemSet {
	var kernel []item
	for _, x := range s {
		rhs := b.rules[x.rule].RHS
		if x.dot < len(rhs) && rhs[x.dot] == sym {
			kernel = append(kernel, item{rule: x.rule, dot: x.dot + 1, la: x.la})
		}
	}
	return b.closure(kernel)
}

// addState returns the number of the state for s, adding it if new.
func (b *tableBuilder) addState(s itemSet) int {
	k := s.key()
	if n, ok := b.stateOf[k]; ok {
		return n
	}
	n := len(b.states)
	b.states = append(b.states, s)
	b.stateOf[k] = n
	b.actions = append(b.actions, make(map[string]Action))
	b.gotos = append(b.gotos, make(map[string]int))
	return n
}

func (b *tableBuilder) build() {
	b.addState(b.closure([]item{{rule: 0, dot: 0, la: EOFLexeme}}))
	for n := 0; n < len(b.states); n++ {
		s := b.states[n]

		// transitions, in sorted symbol order
		var syms []string
		seen := make(map[string]bool)
		for _, x := range s {
			rhs := b.rules[x.rule].RHS
			if x.dot < len(rhs) && !seen[rhs[x.dot]] {
				seen[rhs[x.dot]] = true
				syms = append(syms, rhs[x.dot])
			}
		}
		sort.Strings(syms)
		for _, sym := range syms {
			next := b.addState(b.gotoOf(s, sym))
			if isNonterminal(sym) {
				b.gotos[n][sym] = next
			} else {
				b.setAction(n, sym, Action{Kind: Shift, Arg: next})
			}
		}

		// reductions
		for _, x := range s {
			if x.dot < len(b.rules[x.rule].RHS) {
				continue
			}
			if x.rule == 0 {
				b.setAction(n, x.la, Action{Kind: Accept})
			} else {
				b.setAction(n, x.la, Action{Kind: Reduce, Arg: x.rule})
			}
		}
	}
}

// setAction records an action, reporting a conflict if the cell
// already holds a different one.
func (b *tableBuilder) setAction(state int, term string, a Action) {
	prev, ok := b.actions[state][term]
	if !ok {
		b.actions[state][term] = a
		return
	}
	if prev == a {
		return
	}
	kind := "shift/reduce"
	if prev.Kind == Reduce && a.Kind == Reduce {
		kind = "reduce/reduce"
	}
	b.errorf("%s conflict in state %d on %q: %s vs %s", kind, state, term, b.describe(prev), b.describe(a))
}

func (b *tableBuilder) describe(a Action) string {
	switch a.Kind {
	case Reduce:
		return fmt.Sprintf("reduce %s", b.rules[a.Arg])
	case Shift:
		return fmt.Sprintf("shift to state %d", a.Arg)
	}
	return a.String()
}
