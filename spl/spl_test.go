// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spl_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/u22633601/COS-341-Project-sub000/internal/casefile"
	"github.com/u22633601/COS-341-Project-sub000/resolve"
	"github.com/u22633601/COS-341-Project-sub000/spl"
	"github.com/u22633601/COS-341-Project-sub000/spltest"
	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/typecheck"
)

func TestCases(t *testing.T) {
	files, err := filepath.Glob(spltest.DataFile("spl", "testdata/*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		cases, err := casefile.Read(file)
		be.Err(t, err, nil)
		for _, c := range cases {
			c := c
			t.Run(c.Name, func(t *testing.T) {
				result, err := spl.Analyze("test.spl", c.Source)
				if want, ok := c.Want[casefile.Errors]; ok {
					be.True(t, err != nil)
					if err == nil {
						return
					}
					got := spl.ErrorLines(err)
					lines := strings.Split(want, "\n")
					be.Equal(t, len(got), len(lines))
					for i := 0; i < len(got) && i < len(lines); i++ {
						if !strings.HasPrefix(got[i], lines[i]) {
							t.Errorf("error %d is %q, want prefix %q", i, got[i], lines[i])
						}
					}
					return
				}
				be.Err(t, err, nil)
				if err != nil {
					return
				}
				if want, ok := c.Want[casefile.Tree]; ok {
					be.Equal(t, result.Tree.String(), want)
				}
				if want, ok := c.Want[casefile.Symbols]; ok {
					var buf bytes.Buffer
					be.Err(t, resolve.WriteSymbols(&buf, result.Symbols), nil)
					be.Equal(t, strings.TrimRight(buf.String(), "\n"), want)
				}
			})
		}
	}
}

func TestStages(t *testing.T) {
	for _, test := range []struct {
		src   string
		stage spl.Stage
	}{
		{"main begin V_X = 1 ; end", spl.Scan},
		{"main begin skip end", spl.Parse},
		{"main begin V_x = 1 ; end", spl.Resolve},
		{`main num V_x , begin V_x = "a" ; end`, spl.TypeCheck},
	} {
		_, err := spl.Analyze("test.spl", test.src)
		var serr *spl.Error
		if !errors.As(err, &serr) {
			t.Errorf("Analyze(%q) = %v, want *spl.Error", test.src, err)
			continue
		}
		be.Equal(t, serr.Stage, test.stage)
		be.True(t, strings.HasPrefix(err.Error(), test.stage.String()+": "))
	}

	_, err := spl.Analyze("test.spl", `main num V_x , begin V_x = "a" ; end`)
	var list typecheck.ErrorList
	be.True(t, errors.As(err, &list))
	var syntaxErr *syntax.SyntaxError
	be.True(t, !errors.As(err, &syntaxErr))
}

func TestAnalyzerTrace(t *testing.T) {
	var trace bytes.Buffer
	a := spl.Analyzer{Trace: &trace}
	result, err := a.Analyze("test.spl", "main begin halt ; end")
	be.Err(t, err, nil)
	be.Equal(t, result.Symbols.Len(), 0)
	be.Equal(t, len(result.Tokens), 5)
	be.True(t, strings.Contains(trace.String(), "halt"))
}
