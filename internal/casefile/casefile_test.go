// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package casefile_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/u22633601/COS-341-Project-sub000/internal/casefile"
)

const doc = "# Cases\n" +
	"\n" +
	"Some prose.\n" +
	"\n" +
	"```\n" +
	"an unlabelled block\n" +
	"```\n" +
	"\n" +
	"## Test: skip\n" +
	"\n" +
	"```spl\n" +
	"main begin skip ; end\n" +
	"```\n" +
	"\n" +
	"```tree\n" +
	"(PROG main (GLOBVARS) (ALGO begin (INSTRUC (COMMAND skip) ; (INSTRUC)) end) (FUNCTIONS))\n" +
	"```\n" +
	"\n" +
	"## Test: bad\n" +
	"\n" +
	"```spl\n" +
	"main begin skip end\n" +
	"```\n" +
	"\n" +
	"```errors\n" +
	"1:17: unexpected token 'end'\n" +
	"```\n"

func TestExtract(t *testing.T) {
	cases, err := casefile.Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "skip")
	be.Equal(t, c.Line, 9)
	be.Equal(t, c.Source, "main begin skip ; end\n")
	be.True(t, c.Has(casefile.Tree))
	be.True(t, !c.Has(casefile.Errors))
	be.Equal(t, c.Want[casefile.Tree], "(PROG main (GLOBVARS) (ALGO begin (INSTRUC (COMMAND skip) ; (INSTRUC)) end) (FUNCTIONS))")

	be.Equal(t, cases[1].Name, "bad")
	be.Equal(t, cases[1].Want[casefile.Errors], "1:17: unexpected token 'end'")
}

func TestExtractErrors(t *testing.T) {
	for _, test := range []struct {
		doc, want string
	}{
		{"```spl\nmain begin end\n```\n", "spl block outside of a test"},
		{"## Test: a\n\n```tree\n(PROG)\n```\n", `test "a" has no spl block`},
		{"## Test: a\n\n```spl\nmain begin end\n```\n", `test "a" has no expectations`},
		{"## Test: a\n\n```spl\nmain begin end\n```\n\n```spl\nmain begin end\n```\n", `test "a" has two spl blocks`},
		{"## Test: a\n\n```spl\nmain begin end\n```\n\n```python\npass\n```\n", `unknown block language "python"`},
	} {
		_, err := casefile.Extract([]byte(test.doc))
		be.True(t, err != nil)
		if err != nil && !strings.Contains(err.Error(), test.want) {
			t.Errorf("Extract(%q) = %v, want error containing %q", test.doc, err, test.want)
		}
	}
}
