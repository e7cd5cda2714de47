/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package lisp

import (
	"strings"
	"testing"
)

func TestReadInteger(t *testing.T) {
	if n := Read("123"); !n.IsInt() || n.Int() != 123 {
		t.Fatalf("123: got %v", n)
	}
	if n := Read("+123"); !n.IsInt() || n.Int() != 123 {
		t.Fatalf("+123: got %v", n)
	}
	if n := Read("-123"); !n.IsInt() || n.Int() != -123 {
		t.Fatalf("-123: got %v", n)
	}
	if n := Read("  42"); !n.IsInt() || n.Int() != 42 {
		t.Fatalf("leading whitespace: got %v", n)
	}
}

func TestReadChar(t *testing.T) {
	if n := Read("'a'"); !n.IsChar() || n.Char() != 'a' {
		t.Fatalf("'a': got %v", n)
	}
	// a quote char cannot be written, a quote right after the opening one is rejected
	if n := Read("'''"); !n.IsError() {
		t.Fatalf("quote char must fail")
	}
	if n := Read("'a"); !n.IsError() {
		t.Fatalf("unterminated char must fail")
	}
}

func TestReadBool(t *testing.T) {
	if n := Read("#t"); !n.IsBool() || !n.Bool() {
		t.Fatalf("#t: got %v", n)
	}
	if n := Read("#f"); !n.IsBool() || n.Bool() {
		t.Fatalf("#f: got %v", n)
	}
}

func TestReadSymbol(t *testing.T) {
	if n := Read("hello"); !n.IsSymbol() || n.Symbol() != "hello" {
		t.Fatalf("hello: got %v", n)
	}
	// lone sign characters begin symbols
	if n := Read("+"); !n.IsSymbol() || n.Symbol() != "+" {
		t.Fatalf("+: got %v", n)
	}
	if n := Read("integer->char"); !n.IsSymbol() {
		t.Fatalf("arrow name: got %v", n)
	}
	if n := Read("zero?"); !n.IsSymbol() || n.Symbol() != "zero?" {
		t.Fatalf("zero?: got %v", n)
	}
}

func TestReadSymbolTruncation(t *testing.T) {
	long := strings.Repeat("a", 40)
	n := Read(long)
	if !n.IsSymbol() || n.Symbol() != strings.Repeat("a", 32) {
		t.Fatalf("long symbol: got %q", n.Symbol())
	}
}

func TestReadList(t *testing.T) {
	if n := Read("()"); !n.IsNil() {
		t.Fatalf("(): got %v", n)
	}
	n := Read("(add1 5)")
	if !Equal(n, NewUnaryCall("add1", NewInt(5))) {
		t.Fatalf("(add1 5): got %s", n)
	}
	n = Read("( +   5  8 )")
	if !Equal(n, NewBinaryCall("+", NewInt(5), NewInt(8))) {
		t.Fatalf("(+ 5 8): got %s", n)
	}
	n = Read("(car (cons 1 2))")
	want := NewUnaryCall("car", NewBinaryCall("cons", NewInt(1), NewInt(2)))
	if !Equal(n, want) {
		t.Fatalf("nested list: got %s", n)
	}
}

func TestReadErrors(t *testing.T) {
	for _, input := range []string{"", "@", "(1 2", "(", "#x"} {
		if n := Read(input); !n.IsError() {
			t.Fatalf("%q must fail, got %s", input, n)
		}
	}
}

func TestReadDeepNesting(t *testing.T) {
	deep := strings.Repeat("(", 5000) + "1" + strings.Repeat(")", 5000)
	if n := Read(deep); !n.IsError() {
		t.Fatalf("overly deep nesting must yield the error sentinel")
	}
	ok := strings.Repeat("(add1 ", 50) + "1" + strings.Repeat(")", 50)
	if n := Read(ok); n.IsError() {
		t.Fatalf("moderate nesting must parse")
	}
}

func TestReadRoundTrip(t *testing.T) {
	programs := []string{
		"123",
		"-7",
		"'a'",
		"#t",
		"#f",
		"()",
		"(add1 5)",
		"(+ 5 8)",
		"(let ((a 1) (b 2)) (+ a b))",
		"(if (< 1 2) 'y' 'n')",
		"(labels ((id (code (x) x))) (labelcall id 5))",
	}
	for _, p := range programs {
		first := Read(p)
		if first.IsError() {
			t.Fatalf("%q did not parse", p)
		}
		again := Read(first.String())
		if !Equal(first, again) {
			t.Fatalf("%q: round trip produced %s", p, again)
		}
	}
}
