// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines the shift-reduce automaton that drives a
// ParseTable over a token stream.

import (
	"fmt"
	"io"
	"strings"
)

// A SyntaxError reports a token for which the automaton has no action.
// Internal errors indicate a defect in the table rather than in the
// input: a missing goto entry or a runaway automaton.
type SyntaxError struct {
	Token    Token
	Position int // index of Token in the stream
	State    int
	Internal bool
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Token.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Token.Pos, e.Msg)
	}
	return e.Msg
}

// A Parser parses token streams with a parse table.
// The zero Parser uses Table() and no tracing.
type Parser struct {
	Table *ParseTable

	// Trace, if non-nil, receives one line per automaton step.
	Trace io.Writer

	// MaxSteps bounds the number of steps. If zero, the bound is
	// ten steps per token, counting the end-of-input token.
	MaxSteps int
}

// Parse parses tokens with the SPL parse table.
// See Parser.Parse.
func Parse(tokens []Token) (*Tree, error) {
	var p Parser
	return p.Parse(tokens)
}

// Parse runs the automaton over tokens and returns the syntax tree.
// The end-of-input token is appended if tokens does not end with one.
// On failure it returns a *SyntaxError.
func (p *Parser) Parse(tokens []Token) (*Tree, error) {
	table := p.Table
	if table == nil {
		table = Table()
	}
	if n := len(tokens); n == 0 || tokens[n-1].Class != EOF {
		var pos Position
		if n > 0 {
			pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], eofToken(pos))
	}
	limit := p.MaxSteps
	if limit <= 0 {
		limit = 10 * len(tokens)
	}

	tree := new(Tree)
	states := []int{0}
	var nodes []NodeID
	i := 0
	for step := 0; ; step++ {
		tok := tokens[i]
		state := states[len(states)-1]
		if step >= limit {
			return nil, &SyntaxError{
				Token: tok, Position: i, State: state, Internal: true,
				Msg: fmt.Sprintf("internal error: step limit %d exceeded", limit),
			}
		}

		term, act := lookup(table, state, tok)
		if p.Trace != nil {
			fmt.Fprintf(p.Trace, "%4d  state %-3d  %-12s %s\n", step, state, tok.Lexeme, act)
		}

		switch act.Kind {
		case Shift:
			if tok.Class == EOF {
				return nil, &SyntaxError{
					Token: tok, Position: i, State: state, Internal: true,
					Msg: "internal error: shift of end of input",
				}
			}
			nodes = append(nodes, tree.addLeaf(term, tok))
			states = append(states, act.Arg)
			i++

		case Reduce:
			r := table.Rules[act.Arg]
			n := r.Len()
			children := make([]NodeID, n)
			copy(children, nodes[len(nodes)-n:])
			nodes = nodes[:len(nodes)-n]
			states = states[:len(states)-n]
			id := tree.addInner(r.LHS, act.Arg, children)
			top := states[len(states)-1]
			next, ok := table.Goto(top, r.LHS)
			if !ok {
				return nil, &SyntaxError{
					Token: tok, Position: i, State: top, Internal: true,
					Msg: fmt.Sprintf("internal error: no goto entry for %s in state %d", r.LHS, top),
				}
			}
			nodes = append(nodes, id)
			states = append(states, next)

		case Accept:
			if len(nodes) != 1 {
				return nil, &SyntaxError{
					Token: tok, Position: i, State: state, Internal: true,
					Msg: fmt.Sprintf("internal error: %d nodes on stack at accept", len(nodes)),
				}
			}
			tree.Root = nodes[0]
			return tree, nil

		default:
			return nil, unexpected(table, tok, i, state)
		}
	}
}

// lookup returns the terminal matched by tok in state and the action.
// The exact lexeme takes precedence over the token class.
func lookup(table *ParseTable, state int, tok Token) (string, Action) {
	if a := table.Action(state, tok.Lexeme); a.Kind != NoAction {
		return tok.Lexeme, a
	}
	term := tok.Class.Terminal()
	return term, table.Action(state, term)
}

func unexpected(table *ParseTable, tok Token, i, state int) *SyntaxError {
	var msg string
	if tok.Class == EOF {
		msg = fmt.Sprintf("unexpected end of input in state %d", state)
	} else {
		msg = fmt.Sprintf("unexpected token '%s' (class %s) at position %d in state %d",
			tok.Lexeme, tok.Class, i, state)
	}
	if want := table.Expected(state); len(want) > 0 && len(want) <= 4 {
		msg += ", want " + strings.Join(want, " or ")
	}
	return &SyntaxError{Token: tok, Position: i, State: state, Msg: msg}
}
