// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/types"
)

// A Kind classifies a named entity.
type Kind uint8

const (
	Global Kind = iota
	Param
	Local
	Function
)

var kindNames = [...]string{
	Global:   "global",
	Param:    "param",
	Local:    "local",
	Function: "function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// A Symbol is a declared variable or function.
type Symbol struct {
	Name   string // source name, such as V_x or F_average
	Unique string // program-unique name, such as v100 or f500
	Type   types.Type
	Kind   Kind
	Pos    syntax.Position // of the declaring identifier, if known
	Params [3]string       // unique names of a function's parameters
	Used   bool            // function is called somewhere
}

// A SymbolTable holds the global variables and all functions of a
// program, keyed by source name. Function names are unique
// program-wide, so nested functions appear here too.
type SymbolTable struct {
	Symbols map[string]*Symbol

	// Names maps every identifier leaf of the resolved tree to the
	// unique name it refers to. It is nil for tables read from a file.
	Names map[syntax.NodeID]string
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Symbols: make(map[string]*Symbol)}
}

// Lookup returns the symbol named name.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.Symbols[name]
	return sym, ok
}

// Len returns the number of symbols.
func (t *SymbolTable) Len() int { return len(t.Symbols) }

// Sorted returns the symbols ordered by unique name: by prefix letter,
// then numerically, so that f500 < f501 < v100 < v99999.
func (t *SymbolTable) Sorted() []*Symbol {
	syms := make([]*Symbol, 0, len(t.Symbols))
	for _, sym := range t.Symbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return uniqueLess(syms[i].Unique, syms[j].Unique) })
	return syms
}

func uniqueLess(x, y string) bool {
	xp, xn := splitUnique(x)
	yp, yn := splitUnique(y)
	if xp != yp {
		return xp < yp
	}
	if xn != yn {
		return xn < yn
	}
	return x < y
}

// splitUnique splits a unique name such as v123 into its letter prefix
// and number. Names not of that form sort by prefix alone.
func splitUnique(u string) (string, int) {
	i := strings.IndexFunc(u, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return u, -1
	}
	n, err := strconv.Atoi(u[i:])
	if err != nil {
		return u, -1
	}
	return u[:i], n
}

// WriteSymbols writes the table to w, one "name : unique : type" line
// per symbol, in Sorted order.
func WriteSymbols(w io.Writer, t *SymbolTable) error {
	bw := bufio.NewWriter(w)
	for _, sym := range t.Sorted() {
		fmt.Fprintf(bw, "%s : %s : %s\n", sym.Name, sym.Unique, sym.Type)
	}
	return bw.Flush()
}

// A ConfigError reports a malformed symbol table file.
type ConfigError struct {
	File string
	Line int // 0 if the error concerns the whole file
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// ReadSymbols reads a table written by WriteSymbols. Blank lines are
// ignored. Lines without exactly three colon-separated fields, unknown
// types, types a symbol of its kind cannot have, duplicate names and an
// empty file are errors of type *ConfigError.
func ReadSymbols(filename string, r io.Reader) (*SymbolTable, error) {
	t := NewSymbolTable()
	uniques := make(map[string]string)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		errorf := func(format string, args ...interface{}) error {
			return &ConfigError{File: filename, Line: line, Msg: fmt.Sprintf(format, args...)}
		}
		fields := strings.Split(text, ":")
		if len(fields) != 3 {
			return nil, errorf("invalid format: want name : unique : type, got %q", text)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		name, unique, typeName := fields[0], fields[1], fields[2]
		if name == "" || unique == "" {
			return nil, errorf("invalid format: empty name")
		}
		typ, err := types.Parse(typeName)
		if err != nil {
			return nil, errorf("%v", err)
		}
		kind := Global
		if syntax.IsFunctionName(name) {
			kind = Function
			if typ != types.Num && typ != types.Void {
				return nil, errorf("function %s has type %s, want num or void", name, typ)
			}
		} else if !typ.Declarable() {
			return nil, errorf("variable %s has type %s, want num or text", name, typ)
		}
		if _, dup := t.Symbols[name]; dup {
			return nil, errorf("duplicate symbol %s", name)
		}
		if prev, dup := uniques[unique]; dup {
			return nil, errorf("unique name %s used by both %s and %s", unique, prev, name)
		}
		uniques[unique] = name
		t.Symbols[name] = &Symbol{Name: name, Unique: unique, Type: typ, Kind: kind}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(t.Symbols) == 0 {
		return nil, &ConfigError{File: filename, Msg: "symbol table is empty"}
	}
	return t, nil
}
