// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func matches(pattern, str string) bool {
	ok, err := regexp.MatchString(pattern, str)
	if err != nil {
		panic(err)
	}
	return ok
}

func TestTableDeterminism(t *testing.T) {
	var tables []string
	for i := 0; i < 2; i++ {
		table, err := BuildTable(Grammar())
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if _, err := table.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		tables = append(tables, buf.String())
	}
	if tables[0] != tables[1] {
		t.Error("two builds of the grammar produced different tables")
	}
	if Table().NumStates() == 0 {
		t.Error("empty table")
	}
}

func TestTableEntries(t *testing.T) {
	table := Table()
	if got := table.Action(0, "main"); got.Kind != Shift {
		t.Errorf("Action(0, main) = %v, want shift", got)
	}
	if got := table.Action(0, "begin"); got.Kind != NoAction {
		t.Errorf("Action(0, begin) = %v, want none", got)
	}
	if got := table.Action(-1, "main"); got.Kind != NoAction {
		t.Errorf("Action(-1, main) = %v, want none", got)
	}
	if _, ok := table.Goto(0, PROG); !ok {
		t.Error("no goto on PROG from the start state")
	}
	if _, ok := table.Goto(0, ALGO); ok {
		t.Error("unexpected goto on ALGO from the start state")
	}

	// Exactly one state accepts, on end of input only.
	var accepting int
	for s := 0; s < table.NumStates(); s++ {
		for _, term := range table.Expected(s) {
			if table.Action(s, term).Kind == Accept {
				accepting++
				if term != EOFLexeme {
					t.Errorf("state %d accepts on %q", s, term)
				}
			}
		}
	}
	if accepting != 1 {
		t.Errorf("%d accepting entries, want 1", accepting)
	}

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d bytes", n, buf.Len())
	}
	if !matches(`(?m)^r1\s+PROG ::= main GLOBVARS ALGO FUNCTIONS$`, buf.String()) {
		t.Errorf("listing lacks rule 1:\n%.400s", buf.String())
	}
}

func TestGrammarErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		rules []Rule
		want  string
	}{
		{"ambiguous",
			[]Rule{rule("S", "E"), rule("E", "E + E"), rule("E", "x")},
			`shift/reduce conflict in state \d+ on "\+"`},
		{"reduce/reduce",
			[]Rule{rule("S", "A"), rule("A", "B"), rule("A", "C"), rule("B", "x"), rule("C", "x")},
			`reduce/reduce conflict in state \d+ on "\$"`},
		{"undefined",
			[]Rule{rule("S", "A"), rule("A", "x B")},
			`undefined nonterminal B`},
		{"unreachable",
			[]Rule{rule("S", "A"), rule("A", "x"), rule("B", "y")},
			`unreachable nonterminal B`},
		{"unproductive",
			[]Rule{rule("S", "A"), rule("A", "x"), rule("A", "y B"), rule("B", "B z")},
			`unproductive nonterminal B`},
		{"start on right",
			[]Rule{rule("S", "A"), rule("A", "x S")},
			`start symbol S on right-hand side`},
		{"empty", nil, `no rules`},
	} {
		_, err := BuildTable(test.rules)
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			t.Errorf("%s: got %v, want *GrammarError", test.name, err)
			continue
		}
		if !matches(test.want, err.Error()) {
			t.Errorf("%s: error %q does not match %q", test.name, err, test.want)
		}
	}
}

func TestMustBuildTablePanics(t *testing.T) {
	defer func() {
		if _, ok := recover().(*GrammarError); !ok {
			t.Error("mustBuildTable did not panic with a *GrammarError")
		}
	}()
	mustBuildTable([]Rule{rule("S", "E"), rule("E", "E + E"), rule("E", "x")})
}

// A table with a goto entry removed makes the automaton fail with an
// internal error rather than a syntax error.
func TestMissingGoto(t *testing.T) {
	table, err := BuildTable(Grammar())
	if err != nil {
		t.Fatal(err)
	}
	for s := range table.gotos {
		delete(table.gotos[s], GLOBVARS)
	}
	tokens, err := Scan("test.spl", "main begin end")
	if err != nil {
		t.Fatal(err)
	}
	p := Parser{Table: table}
	_, err = p.Parse(tokens)
	serr, ok := err.(*SyntaxError)
	if !ok || !serr.Internal {
		t.Fatalf("got %v, want internal error", err)
	}
	if !strings.Contains(serr.Msg, "no goto entry for GLOBVARS") {
		t.Errorf("got %q", serr.Msg)
	}
}

func TestRuleString(t *testing.T) {
	if got, want := rule(GLOBVARS, "").String(), "GLOBVARS ::= ε"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Grammar()[0]; got.LHS != START || got.Len() != 1 {
		t.Errorf("rule 0 = %s, want the augmented start rule", got)
	}
}
