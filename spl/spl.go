// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spl runs the SPL front end over a source file: scanning,
// parsing, scope resolution and type checking, in that order.
//
// Each stage consumes the complete output of the one before. The
// scanner, parser and resolver stop at their first error; the type
// checker reports every error it finds. Analyze returns either all
// the artifacts of a valid program or an error, never both.
package spl // import "github.com/u22633601/COS-341-Project-sub000/spl"

import (
	"errors"
	"fmt"
	"io"

	"github.com/u22633601/COS-341-Project-sub000/resolve"
	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/typecheck"
)

// A Stage is one step of the pipeline.
type Stage uint8

const (
	Scan Stage = iota
	Parse
	Resolve
	TypeCheck
)

var stageNames = [...]string{
	Scan:      "scan",
	Parse:     "parse",
	Resolve:   "scope",
	TypeCheck: "typecheck",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// A Result holds the artifacts of a program that passed every stage.
type Result struct {
	Tokens  []syntax.Token
	Tree    *syntax.Tree
	Symbols *resolve.SymbolTable
}

// An Error is the failure of one stage. Err is a *syntax.ScanError,
// *syntax.SyntaxError, *resolve.ScopeError, typecheck.ErrorList, or an
// I/O error.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// An Analyzer runs the pipeline. The zero Analyzer is ready to use.
type Analyzer struct {
	// Trace, if non-nil, receives the parser's step trace.
	Trace io.Writer
}

// Analyze runs the pipeline with the zero Analyzer.
func Analyze(filename string, src interface{}) (*Result, error) {
	var a Analyzer
	return a.Analyze(filename, src)
}

// Analyze scans, parses, resolves and type-checks the named file, or
// src if it is non-nil (see syntax.Scan). On failure it returns an
// *Error.
func (a *Analyzer) Analyze(filename string, src interface{}) (*Result, error) {
	tokens, err := syntax.Scan(filename, src)
	if err != nil {
		return nil, &Error{Scan, err}
	}
	p := syntax.Parser{Trace: a.Trace}
	tree, err := p.Parse(tokens)
	if err != nil {
		return nil, &Error{Parse, err}
	}
	symbols, err := resolve.Program(tree)
	if err != nil {
		return nil, &Error{Resolve, err}
	}
	if err := typecheck.Check(tree, symbols); err != nil {
		return nil, &Error{TypeCheck, err}
	}
	return &Result{Tokens: tokens, Tree: tree, Symbols: symbols}, nil
}

// ErrorLines returns the report for err, one line per problem: each
// type error on its own line, any other error as a single line.
func ErrorLines(err error) []string {
	var list typecheck.ErrorList
	if errors.As(err, &list) {
		lines := make([]string, len(list))
		for i, e := range list {
			lines[i] = e.String()
		}
		return lines
	}
	var serr *Error
	if errors.As(err, &serr) {
		err = serr.Err
	}
	return []string{err.Error()}
}
