// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strings"
)

// A Class is the lexical class of a token.
type Class uint8

const (
	ILLEGAL Class = iota
	EOF

	VARIABLE // V_x
	FUNCTION // F_x
	TEXT     // "Hello"
	NUMBER   // -1.5
	KEYWORD  // main begin num ...
	OPERATOR // = < ; , ( ) { }
)

var classNames = [...]string{
	ILLEGAL:  "illegal",
	EOF:      "eof",
	VARIABLE: "variable",
	FUNCTION: "function",
	TEXT:     "text",
	NUMBER:   "number",
	KEYWORD:  "keyword",
	OPERATOR: "operator",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// Terminal returns the grammar terminal that stands for every token of
// class c, such as "<variable>".
func (c Class) Terminal() string { return "<" + c.String() + ">" }

// ParseClass returns the class named s. Besides the names printed by
// Class.String it accepts the one-letter class names (v, f, t, n) and
// "reserved_keyword" found in older token streams.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "variable", "v":
		return VARIABLE, true
	case "function", "f":
		return FUNCTION, true
	case "text", "t":
		return TEXT, true
	case "number", "n":
		return NUMBER, true
	case "keyword", "reserved_keyword":
		return KEYWORD, true
	case "operator":
		return OPERATOR, true
	case "eof":
		return EOF, true
	}
	return ILLEGAL, false
}

// EOFLexeme is the lexeme of the synthetic end-of-input token.
const EOFLexeme = "$"

// A Token is an immutable lexical token.
// ID is its position in the stream; IDs are strictly increasing.
type Token struct {
	ID     int
	Class  Class
	Lexeme string
	Pos    Position // zero if the token stream carries no positions
}

func (tok Token) String() string {
	return fmt.Sprintf("%s %q", tok.Class, tok.Lexeme)
}

func eofToken(pos Position) Token {
	return Token{ID: -1, Class: EOF, Lexeme: EOFLexeme, Pos: pos}
}

// IsFunctionName reports whether name carries the function sigil.
func IsFunctionName(name string) bool { return strings.HasPrefix(name, "F_") }

// IsVariableName reports whether name carries the variable sigil.
func IsVariableName(name string) bool { return strings.HasPrefix(name, "V_") }

// A Position describes the location of a token in the source text.
// Line and Col are 1-based; the zero Position is not valid.
type Position struct {
	Line int32
	Col  int32
}

// MakePosition returns position with the specified components.
func MakePosition(line, col int32) Position { return Position{line, col} }

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line >= 1 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.Col > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%d", p.Line)
}
