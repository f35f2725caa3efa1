// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A simple, stateless scanner for SPL source text.
// Words are classified by regular expression; punctuation is always a
// token of its own, so "V_x," and "V_x ," scan the same.

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const punctuation = "=<;,(){}"

var (
	variableRE = regexp.MustCompile(`^V_[a-z][a-z0-9]*$`)
	functionRE = regexp.MustCompile(`^F_[a-z][a-z0-9]*$`)
	numberRE   = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]*[1-9])?$`)
)

var keywords = map[string]bool{
	"main": true, "begin": true, "end": true,
	"skip": true, "halt": true, "print": true, "return": true, "input": true,
	"if": true, "then": true, "else": true,
	"num": true, "text": true, "void": true,
	"not": true, "sqrt": true,
	"or": true, "and": true, "eq": true, "grt": true,
	"add": true, "sub": true, "mul": true, "div": true,
}

// A ScanError reports a word that is not a token of any class.
type ScanError struct {
	Pos  Position
	Word string
	Msg  string
}

func (e *ScanError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Scan returns the tokens of an SPL source file, without the final EOF
// token. Token IDs start at 1.
//
// If src != nil, Scan reads the source from src; otherwise it reads
// the named file. src may be a string, []byte, or io.Reader.
func Scan(filename string, src interface{}) ([]Token, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	sc := scanner{src: data, line: 1, col: 1}
	return sc.scan()
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case nil:
		return os.ReadFile(filename)
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

type scanner struct {
	src       []byte
	pos       int
	line, col int32
	tokens    []Token
}

func (sc *scanner) scan() ([]Token, error) {
	for {
		sc.skipSpace()
		if sc.pos >= len(sc.src) {
			return sc.tokens, nil
		}
		start := Position{sc.line, sc.col}
		c := sc.src[sc.pos]
		switch {
		case strings.IndexByte(punctuation, c) >= 0:
			sc.advance(1)
			sc.emit(OPERATOR, string(c), start)

		case c == '"':
			end := sc.pos + 1
			for end < len(sc.src) && sc.src[end] != '"' && sc.src[end] != '\n' {
				end++
			}
			if end >= len(sc.src) || sc.src[end] != '"' {
				word := string(sc.src[sc.pos:end])
				return nil, &ScanError{Pos: start, Word: word, Msg: "unterminated text literal " + word}
			}
			word := string(sc.src[sc.pos : end+1])
			sc.advance(len(word))
			sc.emit(TEXT, word, start)

		default:
			end := sc.pos
			for end < len(sc.src) && !isSpace(sc.src[end]) &&
				sc.src[end] != '"' && strings.IndexByte(punctuation, sc.src[end]) < 0 {
				end++
			}
			word := string(sc.src[sc.pos:end])
			class := classify(word)
			if class == ILLEGAL {
				return nil, &ScanError{Pos: start, Word: word, Msg: "Invalid token encountered: " + word}
			}
			sc.advance(len(word))
			sc.emit(class, word, start)
		}
	}
}

func (sc *scanner) emit(class Class, lexeme string, pos Position) {
	sc.tokens = append(sc.tokens, Token{
		ID:     len(sc.tokens) + 1,
		Class:  class,
		Lexeme: lexeme,
		Pos:    pos,
	})
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.src) && isSpace(sc.src[sc.pos]) {
		if sc.src[sc.pos] == '\n' {
			sc.line++
			sc.col = 1
			sc.pos++
			continue
		}
		sc.advance(1)
	}
}

// advance moves forward n bytes within the current line.
func (sc *scanner) advance(n int) {
	sc.pos += n
	sc.col += int32(n)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// classify returns the class of a whitespace- and punctuation-free word.
func classify(word string) Class {
	switch {
	case variableRE.MatchString(word):
		return VARIABLE
	case functionRE.MatchString(word):
		return FUNCTION
	case numberRE.MatchString(word):
		return NUMBER
	case keywords[word]:
		return KEYWORD
	}
	return ILLEGAL
}
