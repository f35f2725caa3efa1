// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scan(src string) (string, error) {
	tokens, err := Scan("test.spl", src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, tok := range tokens {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s:%s", tok.Class.String()[:1], tok.Lexeme)
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, ``},
		{"  \n\t ", ``},
		{`main begin skip ; end`, `k:main k:begin k:skip o:; k:end`},
		{`V_x,V_y`, `v:V_x o:, v:V_y`},
		{`eq(V_x, V_y)`, `k:eq o:( v:V_x o:, v:V_y o:)`},
		{`V_x<input`, `v:V_x o:< k:input`},
		{`V_x = sqrt ( 16 )`, `v:V_x o:= k:sqrt o:( n:16 o:)`},
		{`"hello world" -1.5 0 42`, `t:"hello world" n:-1.5 n:0 n:42`},
		{`F_average ( V_a , 1 , "t" )`, `f:F_average o:( v:V_a o:, n:1 o:, t:"t" o:)`},
		{`{ num V_s , } end`, `o:{ k:num v:V_s o:, o:} k:end`},
		{`V_a1b2 F_x9`, `v:V_a1b2 f:F_x9`},
		{`0.5 10.25 -0 -7`, `n:0.5 n:10.25 n:-0 n:-7`},
	} {
		got, err := scan(test.input)
		if err != nil {
			t.Errorf("scan `%s` failed: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`1.50`, `1:1: Invalid token encountered: 1.50`},
		{`007`, `1:1: Invalid token encountered: 007`},
		{`main V_X`, `1:6: Invalid token encountered: V_X`},
		{`V_`, `1:1: Invalid token encountered: V_`},
		{`F_Average`, `1:1: Invalid token encountered: F_Average`},
		{"main\n  while", `2:3: Invalid token encountered: while`},
		{`Main`, `1:1: Invalid token encountered: Main`},
		{`x+y`, `1:1: Invalid token encountered: x+y`},
		{`print "abc`, `1:7: unterminated text literal "abc`},
		{"print \"ab\ncd\"", "1:7: unterminated text literal \"ab"},
	} {
		_, err := scan(test.input)
		if err == nil {
			t.Errorf("scan `%s` succeeded, want error %q", test.input, test.want)
			continue
		}
		if err.Error() != test.want {
			t.Errorf("scan `%s` failed with %q, want %q", test.input, err, test.want)
		}
		if _, ok := err.(*ScanError); !ok {
			t.Errorf("scan `%s` returned %T, want *ScanError", test.input, err)
		}
	}
}

func TestScannerPositions(t *testing.T) {
	tokens, err := Scan("test.spl", "main\n  num V_x ,\n\tbegin")
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		{ID: 1, Class: KEYWORD, Lexeme: "main", Pos: MakePosition(1, 1)},
		{ID: 2, Class: KEYWORD, Lexeme: "num", Pos: MakePosition(2, 3)},
		{ID: 3, Class: VARIABLE, Lexeme: "V_x", Pos: MakePosition(2, 7)},
		{ID: 4, Class: OPERATOR, Lexeme: ",", Pos: MakePosition(2, 11)},
		{ID: 5, Class: KEYWORD, Lexeme: "begin", Pos: MakePosition(3, 2)},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScanReader(t *testing.T) {
	tokens, err := Scan("test.spl", strings.NewReader("halt ;"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0].Lexeme != "halt" || tokens[1].Lexeme != ";" {
		t.Errorf("got %v", tokens)
	}
	if _, err := Scan("test.spl", 42); err == nil {
		t.Error("Scan of int source succeeded")
	}
}

func TestParseClass(t *testing.T) {
	for _, test := range []struct {
		name string
		want Class
	}{
		{"variable", VARIABLE},
		{"V", VARIABLE},
		{"f", FUNCTION},
		{"t", TEXT},
		{"number", NUMBER},
		{"reserved_keyword", KEYWORD},
		{" operator ", OPERATOR},
	} {
		got, ok := ParseClass(test.name)
		if !ok || got != test.want {
			t.Errorf("ParseClass(%q) = %v, %t, want %v", test.name, got, ok, test.want)
		}
	}
	if _, ok := ParseClass("identifier"); ok {
		t.Error("ParseClass(identifier) succeeded")
	}
	if got := VARIABLE.Terminal(); got != "<variable>" {
		t.Errorf("VARIABLE.Terminal() = %q", got)
	}
}
