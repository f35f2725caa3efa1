// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
)

// A NodeID identifies a node of a Tree: it is the node's index in
// Tree.Nodes.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// A Node is an inner node (a reduction by a grammar rule) or a leaf (a
// shifted token).
type Node struct {
	ID       NodeID
	Parent   NodeID
	Symbol   string   // nonterminal of an inner node; matched terminal of a leaf
	Rule     int      // rule index of an inner node; -1 for a leaf
	Children []NodeID // in source order; nil for a leaf
	Token    *Token   // non-nil iff leaf
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.Token != nil }

// A Tree is a concrete syntax tree stored as an arena of nodes.
// Children are created before their parents, so the root is the last
// node.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

func (t *Tree) addLeaf(sym string, tok Token) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{ID: id, Parent: NoNode, Symbol: sym, Rule: -1, Token: &tok})
	return id
}

func (t *Tree) addInner(sym string, rule int, children []NodeID) NodeID {
	id := NodeID(len(t.Nodes))
	if children == nil {
		children = []NodeID{}
	}
	for _, c := range children {
		t.Nodes[c].Parent = id
	}
	t.Nodes = append(t.Nodes, Node{ID: id, Parent: NoNode, Symbol: sym, Rule: rule, Children: children})
	return id
}

// Walk traverses the subtree rooted at id in depth-first order.
// It starts by calling f(n); if f returns true, Walk calls itself
// recursively for each child of n in order, then calls f(nil).
func Walk(t *Tree, id NodeID, f func(n *Node) bool) {
	n := t.Node(id)
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		Walk(t, c, f)
	}
	f(nil)
}

// Leaves returns the leaves of the subtree rooted at id, in source
// order.
func (t *Tree) Leaves(id NodeID) []*Node {
	var leaves []*Node
	Walk(t, id, func(n *Node) bool {
		if n != nil && n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// FirstToken returns the first token of the subtree rooted at id, or
// nil if the subtree derives the empty string.
func (t *Tree) FirstToken(id NodeID) *Token {
	n := t.Node(id)
	if n.IsLeaf() {
		return n.Token
	}
	for _, c := range n.Children {
		if tok := t.FirstToken(c); tok != nil {
			return tok
		}
	}
	return nil
}

// Child returns the i'th child of node id.
func (t *Tree) Child(id NodeID, i int) *Node { return t.Node(t.Node(id).Children[i]) }

// String returns the tree as an S-expression:
// inner nodes as (SYMBOL child...), leaves as their lexeme.
// Empty inner nodes print as (SYMBOL).
func (t *Tree) String() string {
	if len(t.Nodes) == 0 {
		return "()"
	}
	var buf bytes.Buffer
	t.writeSExpr(&buf, t.Root)
	return buf.String()
}

func (t *Tree) writeSExpr(buf *bytes.Buffer, id NodeID) {
	n := t.Node(id)
	if n.IsLeaf() {
		buf.WriteString(n.Token.Lexeme)
		return
	}
	buf.WriteByte('(')
	buf.WriteString(n.Symbol)
	for _, c := range n.Children {
		buf.WriteByte(' ')
		t.writeSExpr(buf, c)
	}
	buf.WriteByte(')')
}

// Check verifies the structural invariants of t against the rules of
// table: parent and child links agree, every inner node has exactly as
// many children as its rule's arity and is labelled with the rule's
// left-hand side, and every node is reachable from the root.
func (t *Tree) Check(table *ParseTable) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	if t.Root < 0 || int(t.Root) >= len(t.Nodes) {
		return fmt.Errorf("root %d out of range", t.Root)
	}
	if p := t.Nodes[t.Root].Parent; p != NoNode {
		return fmt.Errorf("root %d has parent %d", t.Root, p)
	}
	seen := make([]bool, len(t.Nodes))
	var check func(id NodeID) error
	check = func(id NodeID) error {
		if seen[id] {
			return fmt.Errorf("node %d reached twice", id)
		}
		seen[id] = true
		n := &t.Nodes[id]
		if n.ID != id {
			return fmt.Errorf("node at index %d has ID %d", id, n.ID)
		}
		if n.IsLeaf() {
			if len(n.Children) > 0 {
				return fmt.Errorf("leaf %d has children", id)
			}
			return nil
		}
		if n.Rule < 0 || n.Rule >= len(table.Rules) {
			return fmt.Errorf("node %d: rule %d out of range", id, n.Rule)
		}
		r := table.Rules[n.Rule]
		if r.LHS != n.Symbol {
			return fmt.Errorf("node %d: symbol %s, rule %s", id, n.Symbol, r)
		}
		if len(n.Children) != r.Len() {
			return fmt.Errorf("node %d: %d children, rule %s has arity %d", id, len(n.Children), r, r.Len())
		}
		for i, c := range n.Children {
			if c < 0 || int(c) >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", id, c)
			}
			child := &t.Nodes[c]
			if child.Parent != id {
				return fmt.Errorf("node %d: child %d has parent %d", id, c, child.Parent)
			}
			if want := r.RHS[i]; child.IsLeaf() {
				tok := child.Token
				if child.Symbol != want || (tok.Lexeme != want && tok.Class.Terminal() != want) {
					return fmt.Errorf("leaf %d: %s does not match %s in rule %s", c, tok, want, r)
				}
			} else if !isNonterminal(want) || child.Symbol != want {
				return fmt.Errorf("node %d: child %d is %s, rule %s wants %s", id, c, child.Symbol, r, want)
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.Root); err != nil {
		return err
	}
	for id, ok := range seen {
		if !ok {
			return fmt.Errorf("node %d unreachable from root", id)
		}
	}
	return nil
}
