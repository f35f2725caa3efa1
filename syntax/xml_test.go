// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/u22633601/COS-341-Project-sub000/spltest"
	"github.com/u22633601/COS-341-Project-sub000/syntax"
)

const sample = `main num V_x , text V_y ,
begin
  V_x < input ;
  V_y = "hi" ;
  if grt ( V_x , 0 ) then begin print V_y ; end else begin halt ; end
end
num F_f ( V_a , V_b , V_c )
{ num V_s , num V_t , num V_u ,
  begin V_s = mul ( V_a , V_b ) ; return V_s ; end
}
end
`

// unifiedDiff returns a line diff of two documents.
func unifiedDiff(want, got string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	return diff
}

func TestTokenStreamRoundTrip(t *testing.T) {
	tokens, err := syntax.Scan("sample.spl", sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := syntax.WriteTokens(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if !strings.Contains(text, "<WORD>lst</WORD>") {
		t.Errorf("'<' not written as lst:\n%s", text)
	}
	if !strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML header:\n%.80s", text)
	}
	got, err := syntax.ReadTokens(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tokens, got); diff != "" {
		t.Errorf("token stream round trip (-want +got):\n%s", diff)
	}
}

func TestReadTokens(t *testing.T) {
	const stream = `<TOKENSTREAM>
  <TOK><ID>1</ID><CLASS>reserved_keyword</CLASS><WORD>main</WORD></TOK>
  <TOK><ID>2</ID><CLASS>reserved_keyword</CLASS><WORD>begin</WORD></TOK>
  <TOK><ID>3</ID><CLASS>V</CLASS><WORD>V_x</WORD></TOK>
  <TOK><ID>5</ID><CLASS>operator</CLASS><WORD>lst</WORD></TOK>
  <TOK><ID>6</ID><CLASS>reserved_keyword</CLASS><WORD>input</WORD></TOK>
  <TOK><ID>7</ID><CLASS>operator</CLASS><WORD>;</WORD></TOK>
  <TOK><ID>8</ID><CLASS>reserved_keyword</CLASS><WORD>end</WORD></TOK>
</TOKENSTREAM>`
	tokens, err := syntax.ReadTokens(strings.NewReader(stream))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := syntax.Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	want := `(PROG main (GLOBVARS) (ALGO begin (INSTRUC (COMMAND (ASSIGN (VNAME V_x) < input)) ; (INSTRUC)) end) (FUNCTIONS))`
	if got := tree.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if tokens[0].Pos.IsValid() {
		t.Errorf("token without LINE has position %s", tokens[0].Pos)
	}

	for _, test := range []struct {
		stream, want string
	}{
		{`<TOKENSTREAM><TOK><ID>1</ID><CLASS>identifier</CLASS><WORD>x</WORD></TOK></TOKENSTREAM>`,
			`token 1: unknown class "identifier"`},
		{`<TOKENSTREAM><TOK><ID>2</ID><CLASS>keyword</CLASS><WORD>main</WORD></TOK>` +
			`<TOK><ID>2</ID><CLASS>keyword</CLASS><WORD>begin</WORD></TOK></TOKENSTREAM>`,
			`token 2: IDs not increasing (previous 2)`},
		{`<TOKENSTREAM><TOK><ID>1</ID><CLASS>keyword</CLASS><WORD></WORD></TOK></TOKENSTREAM>`,
			`token 1: empty word`},
		{`<TOKENSTREAM><TOK>`, `reading token stream`},
	} {
		_, err := syntax.ReadTokens(strings.NewReader(test.stream))
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("ReadTokens(%s) = %v, want error containing %q", test.stream, err, test.want)
		}
	}
}

func TestTreeXMLRoundTrip(t *testing.T) {
	tree := spltest.MustParse(t, sample)
	var buf bytes.Buffer
	if err := syntax.WriteTree(&buf, tree); err != nil {
		t.Fatal(err)
	}
	first := buf.String()
	for _, want := range []string{"<SYNTREE>", "<ROOT>", "<INNERNODES>", "<LEAFNODES>", "<SYMB>PROG</SYMB>", "<WORD>lst</WORD>"} {
		if !strings.Contains(first, want) {
			t.Errorf("tree XML lacks %s", want)
		}
	}

	got, err := syntax.ReadTree(strings.NewReader(first))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Errorf("tree round trip (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := syntax.WriteTree(&buf, got); err != nil {
		t.Fatal(err)
	}
	if second := buf.String(); second != first {
		t.Errorf("rewritten tree differs:\n%s", unifiedDiff(first, second))
	}
}

// A tree in the older format: sparse UNIDs, no rule numbers, bare
// terminals without class or line.
const legacyTree = `<SYNTREE>
  <ROOT><UNID>111</UNID><SYMB>PROG</SYMB><CHILDREN><ID>100</ID><ID>101</ID><ID>109</ID><ID>110</ID></CHILDREN></ROOT>
  <INNERNODES>
    <IN><PARENT>111</PARENT><UNID>101</UNID><SYMB>GLOBVARS</SYMB><CHILDREN></CHILDREN></IN>
    <IN><PARENT>107</PARENT><UNID>104</UNID><SYMB>COMMAND</SYMB><CHILDREN><ID>103</ID></CHILDREN></IN>
    <IN><PARENT>107</PARENT><UNID>106</UNID><SYMB>INSTRUC</SYMB><CHILDREN></CHILDREN></IN>
    <IN><PARENT>109</PARENT><UNID>107</UNID><SYMB>INSTRUC</SYMB><CHILDREN><ID>104</ID><ID>105</ID><ID>106</ID></CHILDREN></IN>
    <IN><PARENT>111</PARENT><UNID>109</UNID><SYMB>ALGO</SYMB><CHILDREN><ID>102</ID><ID>107</ID><ID>108</ID></CHILDREN></IN>
    <IN><PARENT>111</PARENT><UNID>110</UNID><SYMB>FUNCTIONS</SYMB><CHILDREN></CHILDREN></IN>
  </INNERNODES>
  <LEAFNODES>
    <LEAF><PARENT>111</PARENT><UNID>100</UNID><TERMINAL>main</TERMINAL></LEAF>
    <LEAF><PARENT>109</PARENT><UNID>102</UNID><TERMINAL>begin</TERMINAL></LEAF>
    <LEAF><PARENT>104</PARENT><UNID>103</UNID><TERMINAL>halt</TERMINAL></LEAF>
    <LEAF><PARENT>107</PARENT><UNID>105</UNID><TERMINAL>;</TERMINAL></LEAF>
    <LEAF><PARENT>109</PARENT><UNID>108</UNID><TERMINAL>end</TERMINAL></LEAF>
  </LEAFNODES>
</SYNTREE>`

func TestReadLegacyTree(t *testing.T) {
	got, err := syntax.ReadTree(strings.NewReader(legacyTree))
	if err != nil {
		t.Fatal(err)
	}
	want := spltest.MustParse(t, "main begin halt ; end")
	if got.String() != want.String() {
		t.Errorf("got %s, want %s", got, want)
	}
	// Node numbering follows UNID order, which here matches the
	// order in which the parser creates nodes.
	for i := range want.Nodes {
		w, g := &want.Nodes[i], &got.Nodes[i]
		if w.Symbol != g.Symbol || w.Rule != g.Rule || w.Parent != g.Parent {
			t.Errorf("node %d: got %s rule %d parent %d, want %s rule %d parent %d",
				i, g.Symbol, g.Rule, g.Parent, w.Symbol, w.Rule, w.Parent)
		}
	}
}

func TestReadTreeErrors(t *testing.T) {
	for _, test := range []struct {
		name, xml, want string
	}{
		{"bad parent",
			strings.Replace(legacyTree, "<PARENT>104</PARENT><UNID>103</UNID>", "<PARENT>999</PARENT><UNID>103</UNID>", 1),
			"reference to unknown node 999"},
		{"wrong parent",
			strings.Replace(legacyTree, "<PARENT>104</PARENT><UNID>103</UNID>", "<PARENT>107</PARENT><UNID>103</UNID>", 1),
			"child 3 has parent 7"},
		{"no matching rule",
			strings.Replace(legacyTree, "<TERMINAL>halt</TERMINAL>", "<TERMINAL>input</TERMINAL>", 1),
			"node 4 (COMMAND): no rule matches its 1 children"},
		{"duplicate",
			strings.Replace(legacyTree, "<UNID>105</UNID>", "<UNID>104</UNID>", 1),
			"duplicate UNID 104"},
		{"bad terminal",
			strings.Replace(legacyTree, "<TERMINAL>halt</TERMINAL>", "<TERMINAL>Halt</TERMINAL>", 1),
			`invalid terminal "Halt"`},
		{"cycle",
			strings.Replace(legacyTree,
				"<SYMB>PROG</SYMB><CHILDREN><ID>100</ID><ID>101</ID><ID>109</ID>",
				"<SYMB>PROG</SYMB><RULE>1</RULE><CHILDREN><ID>100</ID><ID>101</ID><ID>111</ID>", 1),
			"invalid syntax tree: node 11 reached twice"},
		{"shared leaf",
			strings.Replace(legacyTree,
				"<SYMB>INSTRUC</SYMB><CHILDREN><ID>104</ID><ID>105</ID><ID>106</ID>",
				"<SYMB>INSTRUC</SYMB><RULE>9</RULE><CHILDREN><ID>104</ID><ID>105</ID><ID>105</ID>", 1),
			"invalid syntax tree: node 5 reached twice"},
		{"not xml", "<SYNTREE>", "reading syntax tree"},
	} {
		_, err := syntax.ReadTree(strings.NewReader(test.xml))
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: got %v, want error containing %q", test.name, err, test.want)
		}
	}
}

func TestTreeProtoRoundTrip(t *testing.T) {
	tree := spltest.MustParse(t, sample)
	for _, format := range []string{syntax.FormatWire, syntax.FormatJSON, syntax.FormatText} {
		data, err := syntax.MarshalTree(tree, format)
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		got, err := syntax.UnmarshalTree(data, format)
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		if diff := cmp.Diff(tree, got); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", format, diff)
		}
	}
	if _, err := syntax.MarshalTree(tree, "yaml"); err == nil {
		t.Error("MarshalTree accepted format yaml")
	}
}

func TestDecodeTreeRejectsCorruption(t *testing.T) {
	tree := spltest.MustParse(t, "main begin skip ; end")
	msg := syntax.EncodeTree(tree)
	nodes := msg.Fields["nodes"].GetListValue().Values
	// Relabel the COMMAND node.
	cmd := nodes[4].GetStructValue()
	if cmd.Fields["symbol"].GetStringValue() != syntax.COMMAND {
		t.Fatalf("node 4 is %v, want COMMAND", cmd.Fields["symbol"])
	}
	cmd.Fields["symbol"].Kind = nil
	if _, err := syntax.DecodeTree(msg); err == nil {
		t.Error("DecodeTree accepted a tree with an unlabelled node")
	}
}
