// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive checker for SPL programs.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// The REPL reads lines until a blank line, then runs the whole
// front end over the accumulated program. For a valid program it
// prints the symbol table; otherwise it prints the errors.
package repl // import "github.com/u22633601/COS-341-Project-sub000/repl"

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/u22633601/COS-341-Project-sub000/resolve"
	"github.com/u22633601/COS-341-Project-sub000/spl"
)

// Verdict printed for a program without errors.
const OK = "No type errors found."

// REPL executes a read, check, print loop.
func REPL(a *spl.Analyzer) {
	rl, err := readline.New("> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, a); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, checks, and prints one program.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. SPL errors are printed.
func rep(rl *readline.Instance, a *spl.Analyzer) error {
	var src strings.Builder
	rl.SetPrompt("> ")
	for {
		line, err := rl.Readline()
		if err == io.EOF && src.Len() > 0 {
			Check(os.Stdout, os.Stderr, a, src.String())
			return io.EOF
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			if src.Len() == 0 {
				return nil
			}
			break
		}
		src.WriteString(line)
		src.WriteByte('\n')
		rl.SetPrompt(". ")
	}
	Check(os.Stdout, os.Stderr, a, src.String())
	return nil
}

// Check analyzes src and prints the verdict: the symbol table and OK
// to out, or the errors to errout. It reports whether src is valid.
func Check(out, errout io.Writer, a *spl.Analyzer, src string) bool {
	result, err := a.Analyze("<stdin>", src)
	if err != nil {
		printError(errout, err)
		return false
	}
	if err := resolve.WriteSymbols(out, result.Symbols); err != nil {
		printError(errout, err)
		return false
	}
	fmt.Fprintln(out, OK)
	return true
}

// PrintError prints the error to stderr,
// one line per type error.
func PrintError(err error) {
	printError(os.Stderr, err)
}

func printError(w io.Writer, err error) {
	for _, line := range spl.ErrorLines(err) {
		fmt.Fprintln(w, line)
	}
}
