// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The spl command checks SPL programs.
//
// Each stage of the front end can be run on its own, reading and
// writing the intermediate files lexer.xml, parser.xml and Symbol.txt:
//
//	spl lex prog.spl            writes lexer.xml
//	spl parse [lexer.xml]       writes parser.xml
//	spl scope [parser.xml]      writes Symbol.txt
//	spl typecheck [parser.xml [Symbol.txt]]
//	spl check prog.spl          runs every stage in memory
//	spl table                   prints the parse table
//
// With no arguments, it starts a read-check-print loop if standard
// input is a terminal, and otherwise checks the program read from it.
package main // import "github.com/u22633601/COS-341-Project-sub000/cmd/spl"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/u22633601/COS-341-Project-sub000/repl"
	"github.com/u22633601/COS-341-Project-sub000/spl"
	"golang.org/x/term"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	verbose    = flag.Bool("v", false, "trace parser steps to standard error")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("spl: ")
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	c := &command{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    log.New(os.Stderr, "spl: ", 0),
	}
	if *verbose {
		c.trace = os.Stderr
	}

	if flag.NArg() == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Welcome to SPL. End each program with a blank line.")
			repl.REPL(&spl.Analyzer{Trace: c.trace})
			return 0
		}
		return c.run([]string{"check", "-"})
	}
	return c.run(flag.Args())
}

const usage = `usage: spl [flags] <command> [arguments]

Commands:
    lex [-o lexer.xml] <file>                  write the token stream of a source file
    parse [-o file] [-format f] [lexer.xml]    parse a token stream into a syntax tree
    scope [-o Symbol.txt] [-format f] [parser.xml]
                                               resolve names and write the symbol table
    typecheck [-format f] [parser.xml [Symbol.txt]]
                                               type-check a tree against a symbol table
    check <file>                               run every stage on a source file
    table                                      print the parse table

A file named "-" is standard input. Tree formats are xml (the default),
wire, json and text.

Flags:
`

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
