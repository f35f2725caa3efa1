// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package casefile extracts test cases from Markdown documents.
//
// Each case starts at a heading of the form "Test: name" and holds one
// fenced spl block, the program, followed by one or more expectation
// blocks:
//
//	tree     the S-expression of the syntax tree
//	symbols  the symbol table as written by resolve.WriteSymbols
//	errors   the error report, one line per error
//
// Prose and unlabelled code blocks are ignored.
package casefile // import "github.com/u22633601/COS-341-Project-sub000/internal/casefile"

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages.
const (
	Program = "spl"
	Tree    = "tree"
	Symbols = "symbols"
	Errors  = "errors"
)

// A Case is one test case.
type Case struct {
	Name   string
	Line   int               // of the heading
	Source string            // the spl block
	Want   map[string]string // expectation blocks by language
}

// Has reports whether the case has an expectation of the given kind.
func (c *Case) Has(lang string) bool {
	_, ok := c.Want[lang]
	return ok
}

// Read extracts the cases of the named file.
func Read(filename string) ([]Case, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cases, nil
}

// Extract extracts the cases of a Markdown document.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases []Case
		cur   *Case
	)
	finish := func() error {
		if cur == nil {
			return nil
		}
		if cur.Source == "" {
			return fmt.Errorf("line %d: test %q has no %s block", cur.Line, cur.Name, Program)
		}
		if len(cur.Want) == 0 {
			return fmt.Errorf("line %d: test %q has no expectations", cur.Line, cur.Name)
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			title := headingText(n, source)
			if !strings.HasPrefix(title, "Test: ") {
				break
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{
				Name: strings.TrimPrefix(title, "Test: "),
				Line: lineOf(n, source),
				Want: make(map[string]string),
			}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang == "" {
				break
			}
			line := lineOf(n, source)
			if cur == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s block outside of a test", line, lang)
			}
			content := blockText(n, source)
			switch lang {
			case Program:
				if cur.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: test %q has two %s blocks", line, cur.Name, Program)
				}
				cur.Source = content
			case Tree, Symbols, Errors:
				if cur.Has(lang) {
					return ast.WalkStop, fmt.Errorf("line %d: test %q has two %s blocks", line, cur.Name, lang)
				}
				cur.Want[lang] = strings.TrimRight(content, "\n")
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown block language %q in test %q", line, lang, cur.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockText(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the first line of a block node.
func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 0
	}
	start := n.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}
