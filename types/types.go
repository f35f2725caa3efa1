// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the SPL type lattice.
//
// Variables are declared num or text. Functions return num or void.
// Bool is never declarable; it is the type of relational and logical
// expressions and of if conditions. Unknown is used internally by the
// type checker for expressions whose type could not be inferred.
package types

import "fmt"

// A Type is one of the SPL types.
type Type uint8

const (
	Unknown Type = iota
	Num
	Text
	Bool
	Void
)

var typeNames = [...]string{
	Unknown: "unknown",
	Num:     "num",
	Text:    "text",
	Bool:    "bool",
	Void:    "void",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Known reports whether t is a real type, not Unknown.
func (t Type) Known() bool { return t != Unknown }

// Declarable reports whether a variable may be declared with type t.
func (t Type) Declarable() bool { return t == Num || t == Text }

// Parse returns the type named by s, which must be a type keyword
// (num, text, void) or bool.
func Parse(s string) (Type, error) {
	switch s {
	case "num":
		return Num, nil
	case "text":
		return Text, nil
	case "bool":
		return Bool, nil
	case "void":
		return Void, nil
	}
	return Unknown, fmt.Errorf("unknown type %q", s)
}
