// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/u22633601/COS-341-Project-sub000/repl"
	"github.com/u22633601/COS-341-Project-sub000/resolve"
	"github.com/u22633601/COS-341-Project-sub000/spl"
	"github.com/u22633601/COS-341-Project-sub000/syntax"
	"github.com/u22633601/COS-341-Project-sub000/typecheck"
)

// Default file names of the intermediate artifacts.
const (
	tokenFile  = "lexer.xml"
	treeFile   = "parser.xml"
	treePBFile = "parser.pb"
	symbolFile = "Symbol.txt"
)

const formatXML = "xml"

// errFailed is returned by a subcommand that has already reported
// why it failed.
var errFailed = errors.New("failed")

// A command runs subcommands against a set of standard streams.
type command struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	trace          io.Writer // parser trace, if non-nil
	log            *log.Logger
}

// run runs the subcommand named by args[0] and returns the exit code.
func (c *command) run(args []string) int {
	subcommands := map[string]func([]string) error{
		"lex":       c.lex,
		"parse":     c.parse,
		"scope":     c.scope,
		"typecheck": c.typecheck,
		"check":     c.check,
		"table":     c.table,
	}
	f, ok := subcommands[args[0]]
	if !ok {
		c.log.Printf("unknown command %q; run spl -h for usage", args[0])
		return 1
	}
	if err := f(args[1:]); err != nil {
		if err != errFailed && err != flag.ErrHelp {
			c.printError(err)
		}
		return 1
	}
	return 0
}

func (c *command) printError(err error) {
	for _, line := range spl.ErrorLines(err) {
		fmt.Fprintln(c.stderr, line)
	}
}

func (c *command) flags(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "usage: spl %s %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// files returns the positional arguments of fs, with defaults for
// those not given. It fails if there are too many.
func files(fs *flag.FlagSet, defaults ...string) ([]string, error) {
	if fs.NArg() > len(defaults) {
		fs.Usage()
		return nil, errFailed
	}
	names := append([]string(nil), defaults...)
	copy(names, fs.Args())
	return names, nil
}

func (c *command) open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(c.stdin), nil
	}
	return os.Open(name)
}

func (c *command) readFile(name string) ([]byte, error) {
	f, err := c.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeFile writes the output of write to the named file, or to
// standard output if name is "-".
func (c *command) writeFile(name string, write func(io.Writer) error) error {
	if name == "-" {
		return write(c.stdout)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0644)
}

func (c *command) verdict(name, what string) {
	if name != "-" {
		fmt.Fprintf(c.stdout, "%s been written to %s\n", what, name)
	}
}

func checkFormat(format string) error {
	switch format {
	case formatXML, syntax.FormatWire, syntax.FormatJSON, syntax.FormatText:
		return nil
	}
	return fmt.Errorf("unknown tree format %q", format)
}

func (c *command) readTree(name, format string) (*syntax.Tree, error) {
	data, err := c.readFile(name)
	if err != nil {
		return nil, err
	}
	if format == formatXML {
		return syntax.ReadTree(bytes.NewReader(data))
	}
	return syntax.UnmarshalTree(data, format)
}

func (c *command) lex(args []string) error {
	fs := c.flags("lex", "[-o lexer.xml] <file>")
	out := fs.String("o", tokenFile, "write the token stream to `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errFailed
	}
	src, err := c.readFile(fs.Arg(0))
	if err != nil {
		return err
	}
	tokens, err := syntax.Scan(fs.Arg(0), src)
	if err != nil {
		return err
	}
	if err := c.writeFile(*out, func(w io.Writer) error { return syntax.WriteTokens(w, tokens) }); err != nil {
		return err
	}
	c.verdict(*out, "Tokens have")
	return nil
}

func (c *command) parse(args []string) error {
	fs := c.flags("parse", "[-o file] [-format f] [lexer.xml]")
	out := fs.String("o", "", "write the tree to `file` (default parser.xml, or parser.pb in other formats)")
	format := fs.String("format", formatXML, "tree `format`: xml, wire, json or text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	names, err := files(fs, tokenFile)
	if err != nil {
		return err
	}
	f, err := c.open(names[0])
	if err != nil {
		return err
	}
	defer f.Close()
	tokens, err := syntax.ReadTokens(f)
	if err != nil {
		return err
	}
	p := syntax.Parser{Trace: c.trace}
	tree, err := p.Parse(tokens)
	if err != nil {
		return err
	}

	if *out == "" {
		*out = treeFile
		if *format != formatXML {
			*out = treePBFile
		}
	}
	err = c.writeFile(*out, func(w io.Writer) error {
		if *format == formatXML {
			return syntax.WriteTree(w, tree)
		}
		data, err := syntax.MarshalTree(tree, *format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	if err != nil {
		return err
	}
	c.verdict(*out, "Syntax tree has")
	return nil
}

func (c *command) scope(args []string) error {
	fs := c.flags("scope", "[-o Symbol.txt] [-format f] [parser.xml]")
	out := fs.String("o", symbolFile, "write the symbol table to `file`")
	format := fs.String("format", formatXML, "tree `format`: xml, wire, json or text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	names, err := files(fs, treeFile)
	if err != nil {
		return err
	}
	tree, err := c.readTree(names[0], *format)
	if err != nil {
		return err
	}
	symbols, err := resolve.Program(tree)
	if err != nil {
		return err
	}
	if err := c.writeFile(*out, func(w io.Writer) error { return resolve.WriteSymbols(w, symbols) }); err != nil {
		return err
	}
	c.verdict(*out, "Symbol table has")
	return nil
}

func (c *command) typecheck(args []string) error {
	fs := c.flags("typecheck", "[-format f] [parser.xml [Symbol.txt]]")
	format := fs.String("format", formatXML, "tree `format`: xml, wire, json or text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	names, err := files(fs, treeFile, symbolFile)
	if err != nil {
		return err
	}
	tree, err := c.readTree(names[0], *format)
	if err != nil {
		return err
	}
	f, err := c.open(names[1])
	if err != nil {
		return err
	}
	defer f.Close()
	symbols, err := resolve.ReadSymbols(names[1], f)
	if err != nil {
		return err
	}
	if err := typecheck.Check(tree, symbols); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, repl.OK)
	return nil
}

func (c *command) check(args []string) error {
	fs := c.flags("check", "<file>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errFailed
	}
	src, err := c.readFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if !repl.Check(c.stdout, c.stderr, &spl.Analyzer{Trace: c.trace}, string(src)) {
		return errFailed
	}
	return nil
}

func (c *command) table(args []string) error {
	fs := c.flags("table", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errFailed
	}
	_, err := syntax.Table().WriteTo(c.stdout)
	return err
}
