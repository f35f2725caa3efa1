// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file encodes syntax trees as google.protobuf.Struct messages,
// so that they can be stored in the protobuf wire, JSON or text
// formats without a generated message type.
//
// The encoding of a tree is
//
//	{root: 12, nodes: [node...]}
//
// where each node is {id, parent, symbol, rule, children} for an inner
// node and {id, parent, symbol, token: {id, class, lexeme, line, col}}
// for a leaf.

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Formats accepted by MarshalTree and UnmarshalTree.
const (
	FormatWire = "wire"
	FormatJSON = "json"
	FormatText = "text"
)

func num(x int) *structpb.Value { return structpb.NewNumberValue(float64(x)) }

// EncodeTree returns the Struct encoding of t.
func EncodeTree(t *Tree) *structpb.Struct {
	nodes := make([]*structpb.Value, len(t.Nodes))
	for i := range t.Nodes {
		n := &t.Nodes[i]
		fields := map[string]*structpb.Value{
			"id":     num(int(n.ID)),
			"parent": num(int(n.Parent)),
			"symbol": structpb.NewStringValue(n.Symbol),
		}
		if n.IsLeaf() {
			fields["token"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
				"id":     num(n.Token.ID),
				"class":  structpb.NewStringValue(n.Token.Class.String()),
				"lexeme": structpb.NewStringValue(n.Token.Lexeme),
				"line":   num(int(n.Token.Pos.Line)),
				"col":    num(int(n.Token.Pos.Col)),
			}})
		} else {
			children := make([]*structpb.Value, len(n.Children))
			for j, c := range n.Children {
				children[j] = num(int(c))
			}
			fields["rule"] = num(n.Rule)
			fields["children"] = structpb.NewListValue(&structpb.ListValue{Values: children})
		}
		nodes[i] = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"root":  num(int(t.Root)),
		"nodes": structpb.NewListValue(&structpb.ListValue{Values: nodes}),
	}}
}

// DecodeTree is the inverse of EncodeTree. The decoded tree is checked
// against the SPL grammar.
func DecodeTree(s *structpb.Struct) (*Tree, error) {
	root, err := intField(s, "root")
	if err != nil {
		return nil, err
	}
	list := s.GetFields()["nodes"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("tree: missing nodes")
	}
	tree := &Tree{Root: NodeID(root), Nodes: make([]Node, len(list.Values))}
	for i, v := range list.Values {
		ns := v.GetStructValue()
		if ns == nil {
			return nil, fmt.Errorf("node %d: not a struct", i)
		}
		id, err := intField(ns, "id")
		if err != nil {
			return nil, fmt.Errorf("node %d: %v", i, err)
		}
		if id != i {
			return nil, fmt.Errorf("node %d: has id %d", i, id)
		}
		parent, err := intField(ns, "parent")
		if err != nil {
			return nil, fmt.Errorf("node %d: %v", i, err)
		}
		n := &tree.Nodes[i]
		n.ID = NodeID(id)
		n.Parent = NodeID(parent)
		n.Symbol = ns.GetFields()["symbol"].GetStringValue()
		n.Rule = -1

		if ts := ns.GetFields()["token"].GetStructValue(); ts != nil {
			tok, err := decodeToken(ts)
			if err != nil {
				return nil, fmt.Errorf("node %d: %v", i, err)
			}
			n.Token = &tok
			continue
		}
		if n.Rule, err = intField(ns, "rule"); err != nil {
			return nil, fmt.Errorf("node %d: %v", i, err)
		}
		n.Children = []NodeID{}
		for _, c := range ns.GetFields()["children"].GetListValue().GetValues() {
			n.Children = append(n.Children, NodeID(c.GetNumberValue()))
		}
	}
	if err := tree.Check(Table()); err != nil {
		return nil, fmt.Errorf("invalid syntax tree: %w", err)
	}
	return tree, nil
}

func decodeToken(s *structpb.Struct) (Token, error) {
	id, err := intField(s, "id")
	if err != nil {
		return Token{}, err
	}
	class, ok := ParseClass(s.GetFields()["class"].GetStringValue())
	if !ok {
		return Token{}, fmt.Errorf("token %d: unknown class %q", id, s.GetFields()["class"].GetStringValue())
	}
	line, _ := intField(s, "line")
	col, _ := intField(s, "col")
	return Token{
		ID:     id,
		Class:  class,
		Lexeme: s.GetFields()["lexeme"].GetStringValue(),
		Pos:    Position{Line: int32(line), Col: int32(col)},
	}, nil
}

func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	x, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	if x.NumberValue != float64(int(x.NumberValue)) {
		return 0, fmt.Errorf("field %q is not an integer: %v", name, x.NumberValue)
	}
	return int(x.NumberValue), nil
}

// MarshalTree encodes t in the named protobuf format.
func MarshalTree(t *Tree, format string) ([]byte, error) {
	msg := EncodeTree(t)
	switch format {
	case FormatWire, "":
		return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	case FormatJSON:
		return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	case FormatText:
		return prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	}
	return nil, fmt.Errorf("unknown tree format %q (want wire, json or text)", format)
}

// UnmarshalTree decodes a tree encoded by MarshalTree.
func UnmarshalTree(data []byte, format string) (*Tree, error) {
	var msg structpb.Struct
	var err error
	switch format {
	case FormatWire, "":
		err = proto.Unmarshal(data, &msg)
	case FormatJSON:
		err = protojson.Unmarshal(data, &msg)
	case FormatText:
		err = prototext.Unmarshal(data, &msg)
	default:
		return nil, fmt.Errorf("unknown tree format %q (want wire, json or text)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s tree: %w", format, err)
	}
	return DecodeTree(&msg)
}
