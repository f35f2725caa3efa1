// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file reads and writes the XML token stream (lexer.xml) and the
// XML syntax tree (parser.xml).

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// lessThanWord is the spelling of "<" in XML token streams.
const lessThanWord = "lst"

type xmlTokenStream struct {
	XMLName xml.Name   `xml:"TOKENSTREAM"`
	Tokens  []xmlToken `xml:"TOK"`
}

type xmlToken struct {
	ID    int    `xml:"ID"`
	Class string `xml:"CLASS"`
	Word  string `xml:"WORD"`
	Line  int32  `xml:"LINE,omitempty"`
	Col   int32  `xml:"COL,omitempty"`
}

func encodeWord(lexeme string) string {
	if lexeme == "<" {
		return lessThanWord
	}
	return lexeme
}

func decodeWord(word string, class Class) string {
	if word == lessThanWord && (class == OPERATOR || class == KEYWORD) {
		return "<"
	}
	return word
}

// WriteTokens writes tokens to w as an XML token stream.
// The end-of-input token, if present, is not written.
func WriteTokens(w io.Writer, tokens []Token) error {
	var stream xmlTokenStream
	for _, tok := range tokens {
		if tok.Class == EOF {
			continue
		}
		stream.Tokens = append(stream.Tokens, xmlToken{
			ID:    tok.ID,
			Class: tok.Class.String(),
			Word:  encodeWord(tok.Lexeme),
			Line:  tok.Pos.Line,
			Col:   tok.Pos.Col,
		})
	}
	return writeXML(w, stream)
}

// ReadTokens reads an XML token stream.
// Token IDs must be strictly increasing and classes known.
func ReadTokens(r io.Reader) ([]Token, error) {
	var stream xmlTokenStream
	if err := xml.NewDecoder(r).Decode(&stream); err != nil {
		return nil, fmt.Errorf("reading token stream: %w", err)
	}
	tokens := make([]Token, 0, len(stream.Tokens))
	for i, t := range stream.Tokens {
		class, ok := ParseClass(t.Class)
		if !ok || class == EOF {
			return nil, fmt.Errorf("token %d: unknown class %q", t.ID, t.Class)
		}
		if i > 0 && t.ID <= tokens[i-1].ID {
			return nil, fmt.Errorf("token %d: IDs not increasing (previous %d)", t.ID, tokens[i-1].ID)
		}
		word := strings.TrimSpace(t.Word)
		if word == "" {
			return nil, fmt.Errorf("token %d: empty word", t.ID)
		}
		tokens = append(tokens, Token{
			ID:     t.ID,
			Class:  class,
			Lexeme: decodeWord(word, class),
			Pos:    Position{Line: t.Line, Col: t.Col},
		})
	}
	return tokens, nil
}

type xmlTree struct {
	XMLName xml.Name   `xml:"SYNTREE"`
	Root    xmlRoot    `xml:"ROOT"`
	Inner   []xmlInner `xml:"INNERNODES>IN"`
	Leaves  []xmlLeaf  `xml:"LEAFNODES>LEAF"`
}

type xmlRoot struct {
	UNID     int    `xml:"UNID"`
	Symbol   string `xml:"SYMB"`
	Rule     *int   `xml:"RULE"`
	Children []int  `xml:"CHILDREN>ID"`
}

type xmlInner struct {
	Parent   int    `xml:"PARENT"`
	UNID     int    `xml:"UNID"`
	Symbol   string `xml:"SYMB"`
	Rule     *int   `xml:"RULE"`
	Children []int  `xml:"CHILDREN>ID"`
}

type xmlLeaf struct {
	Parent   int         `xml:"PARENT"`
	UNID     int         `xml:"UNID"`
	Terminal xmlTerminal `xml:"TERMINAL"`
}

type xmlTerminal struct {
	ID    int    `xml:"ID,omitempty"`
	Class string `xml:"CLASS,omitempty"`
	Word  string `xml:"WORD,omitempty"`
	Line  int32  `xml:"LINE,omitempty"`
	Col   int32  `xml:"COL,omitempty"`
	Text  string `xml:",chardata"` // bare lexeme, in older trees
}

// WriteTree writes t to w in the XML tree format. The root is written
// as ROOT; other inner nodes in INNERNODES and leaves in LEAFNODES,
// each in ID order.
func WriteTree(w io.Writer, t *Tree) error {
	var out xmlTree
	for i := range t.Nodes {
		n := &t.Nodes[i]
		rule := n.Rule
		switch {
		case n.ID == t.Root:
			out.Root = xmlRoot{UNID: int(n.ID), Symbol: n.Symbol, Rule: &rule, Children: ids(n.Children)}
		case n.IsLeaf():
			out.Leaves = append(out.Leaves, xmlLeaf{
				Parent: int(n.Parent),
				UNID:   int(n.ID),
				Terminal: xmlTerminal{
					ID:    n.Token.ID,
					Class: n.Token.Class.String(),
					Word:  encodeWord(n.Token.Lexeme),
					Line:  n.Token.Pos.Line,
					Col:   n.Token.Pos.Col,
				},
			})
		default:
			out.Inner = append(out.Inner, xmlInner{
				Parent:   int(n.Parent),
				UNID:     int(n.ID),
				Symbol:   n.Symbol,
				Rule:     &rule,
				Children: ids(n.Children),
			})
		}
	}
	return writeXML(w, out)
}

func ids(children []NodeID) []int {
	out := make([]int, len(children))
	for i, c := range children {
		out[i] = int(c)
	}
	return out
}

func writeXML(w io.Writer, v interface{}) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadTree reads an XML syntax tree and checks it against the SPL
// grammar. UNIDs need not be dense; nodes are renumbered in UNID
// order. Inner nodes without a RULE element are matched to the rule
// whose right-hand side fits their children.
func ReadTree(r io.Reader) (*Tree, error) {
	var in xmlTree
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("reading syntax tree: %w", err)
	}

	type rawNode struct {
		unid, parent int
		symbol       string
		rule         *int
		children     []int
		leaf         *xmlTerminal
	}
	raw := []rawNode{{unid: in.Root.UNID, parent: int(NoNode), symbol: in.Root.Symbol, rule: in.Root.Rule, children: in.Root.Children}}
	for _, n := range in.Inner {
		raw = append(raw, rawNode{unid: n.UNID, parent: n.Parent, symbol: n.Symbol, rule: n.Rule, children: n.Children})
	}
	for i := range in.Leaves {
		n := &in.Leaves[i]
		raw = append(raw, rawNode{unid: n.UNID, parent: n.Parent, leaf: &n.Terminal})
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].unid < raw[j].unid })

	index := make(map[int]NodeID, len(raw))
	for i, n := range raw {
		if _, dup := index[n.unid]; dup {
			return nil, fmt.Errorf("duplicate UNID %d", n.unid)
		}
		index[n.unid] = NodeID(i)
	}
	lookupID := func(unid int) (NodeID, error) {
		id, ok := index[unid]
		if !ok {
			return 0, fmt.Errorf("reference to unknown node %d", unid)
		}
		return id, nil
	}

	tree := &Tree{Nodes: make([]Node, len(raw))}
	for i, n := range raw {
		node := &tree.Nodes[i]
		node.ID = NodeID(i)
		node.Parent = NoNode
		if n.unid == in.Root.UNID {
			tree.Root = node.ID
		} else {
			p, err := lookupID(n.parent)
			if err != nil {
				return nil, fmt.Errorf("node %d: parent: %v", n.unid, err)
			}
			node.Parent = p
		}
		if n.leaf != nil {
			tok, err := n.leaf.token()
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %v", n.unid, err)
			}
			node.Rule = -1
			node.Token = &tok
			continue
		}
		node.Symbol = strings.TrimSpace(n.symbol)
		node.Rule = -1
		if n.rule != nil {
			node.Rule = *n.rule
		}
		node.Children = make([]NodeID, 0, len(n.children))
		for _, c := range n.children {
			id, err := lookupID(c)
			if err != nil {
				return nil, fmt.Errorf("node %d: child: %v", n.unid, err)
			}
			node.Children = append(node.Children, id)
		}
	}

	table := Table()
	if err := tree.assignRules(table, tree.Root, make(map[NodeID]bool)); err != nil {
		return nil, fmt.Errorf("invalid syntax tree: %w", err)
	}
	if err := tree.Check(table); err != nil {
		return nil, fmt.Errorf("invalid syntax tree: %w", err)
	}
	return tree, nil
}

func (x *xmlTerminal) token() (Token, error) {
	word := strings.TrimSpace(x.Word)
	if word == "" {
		word = strings.TrimSpace(x.Text)
	}
	if word == "" {
		return Token{}, fmt.Errorf("empty terminal")
	}
	var class Class
	if x.Class != "" {
		c, ok := ParseClass(x.Class)
		if !ok {
			return Token{}, fmt.Errorf("unknown class %q", x.Class)
		}
		class = c
	} else {
		class = classifyLexeme(word)
		if class == ILLEGAL {
			return Token{}, fmt.Errorf("invalid terminal %q", word)
		}
	}
	return Token{
		ID:     x.ID,
		Class:  class,
		Lexeme: decodeWord(word, class),
		Pos:    Position{Line: x.Line, Col: x.Col},
	}, nil
}

// classifyLexeme returns the class of a bare lexeme, as found in trees
// that do not record token classes.
func classifyLexeme(word string) Class {
	switch {
	case word == lessThanWord:
		return OPERATOR
	case len(word) == 1 && strings.Contains(punctuation, word):
		return OPERATOR
	case len(word) >= 2 && word[0] == '"' && word[len(word)-1] == '"':
		return TEXT
	}
	return classify(word)
}

// assignRules sets the Rule of every inner node lacking one and the
// Symbol of every leaf (the grammar terminal it matched), top down.
// A node reached twice makes the children lists cyclic or shared.
func (t *Tree) assignRules(table *ParseTable, id NodeID, seen map[NodeID]bool) error {
	if seen[id] {
		return fmt.Errorf("node %d reached twice", id)
	}
	seen[id] = true
	n := t.Node(id)
	if n.IsLeaf() {
		return nil
	}
	if n.Rule < 0 {
		n.Rule = matchRule(t, table, n)
		if n.Rule < 0 {
			return fmt.Errorf("node %d (%s): no rule matches its %d children", id, n.Symbol, len(n.Children))
		}
	}
	if n.Rule >= len(table.Rules) {
		return fmt.Errorf("node %d (%s): rule %d out of range", id, n.Symbol, n.Rule)
	}
	rhs := table.Rules[n.Rule].RHS
	for i, c := range n.Children {
		child := t.Node(c)
		if child.IsLeaf() {
			if seen[c] {
				return fmt.Errorf("node %d reached twice", c)
			}
			seen[c] = true
			if i < len(rhs) {
				child.Symbol = rhs[i]
			}
			continue
		}
		if err := t.assignRules(table, c, seen); err != nil {
			return err
		}
	}
	return nil
}

func matchRule(t *Tree, table *ParseTable, n *Node) int {
outer:
	for ri, r := range table.Rules {
		if r.LHS != n.Symbol || r.Len() != len(n.Children) {
			continue
		}
		for i, c := range n.Children {
			child := t.Node(c)
			want := r.RHS[i]
			if child.IsLeaf() {
				if child.Token.Lexeme != want && child.Token.Class.Terminal() != want {
					continue outer
				}
			} else if child.Symbol != want {
				continue outer
			}
		}
		return ri
	}
	return -1
}
