// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spltest defines utilities for testing the SPL front end.
package spltest // import "github.com/u22633601/COS-341-Project-sub000/spltest"

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/u22633601/COS-341-Project-sub000/syntax"
)

// A Reporter is a value to which test failures may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of the module,
// regardless of the directory in which the test runs.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join(pkgdir, filename)
	}
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}

// MustParse scans and parses src, reporting any error as fatal.
func MustParse(r Reporter, src string) *syntax.Tree {
	r.Helper()
	tokens, err := syntax.Scan("test.spl", src)
	if err != nil {
		r.Fatalf("scan: %v", err)
	}
	tree, err := syntax.Parse(tokens)
	if err != nil {
		r.Fatalf("parse: %v", err)
	}
	return tree
}

// Program joins lines into an SPL source text, one line per element,
// so that tests can refer to errors by line number.
func Program(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
