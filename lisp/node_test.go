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

import "testing"

func TestNodeConstructors(t *testing.T) {
	n := NewInt(-42)
	if !n.IsInt() || n.Int() != -42 {
		t.Fatalf("int node broken: %v", n)
	}
	c := NewChar('q')
	if !c.IsChar() || c.Char() != 'q' {
		t.Fatalf("char node broken")
	}
	b := NewBool(true)
	if !b.IsBool() || !b.Bool() {
		t.Fatalf("bool node broken")
	}
	if !NewNil().IsNil() || !NewError().IsError() {
		t.Fatalf("sentinel nodes broken")
	}
	s := NewSymbol("hello")
	if !s.IsSymbol() || s.Symbol() != "hello" {
		t.Fatalf("symbol node broken: %q", s.Symbol())
	}
}

func TestNodePair(t *testing.T) {
	p := NewPair(NewInt(1), NewInt(2))
	if !p.IsPair() {
		t.Fatalf("pair predicate broken")
	}
	if p.Pair().Car.Int() != 1 || p.Pair().Cdr.Int() != 2 {
		t.Fatalf("pair slots broken")
	}
}

func TestNodeCallShapes(t *testing.T) {
	u := NewUnaryCall("add1", NewInt(5))
	if !u.IsPair() || u.Pair().Car.Symbol() != "add1" {
		t.Fatalf("unary call head broken")
	}
	if u.Pair().Cdr.Pair().Car.Int() != 5 || !u.Pair().Cdr.Pair().Cdr.IsNil() {
		t.Fatalf("unary call args broken")
	}
	b := NewBinaryCall("+", NewInt(5), NewInt(8))
	if b.Pair().Cdr.Pair().Car.Int() != 5 || b.Pair().Cdr.Pair().Cdr.Pair().Car.Int() != 8 {
		t.Fatalf("binary call args broken")
	}
}

func TestNodeEqual(t *testing.T) {
	a := NewBinaryCall("+", NewInt(1), NewPair(NewSymbol("x"), NewNil()))
	b := NewBinaryCall("+", NewInt(1), NewPair(NewSymbol("x"), NewNil()))
	if !Equal(a, b) {
		t.Fatalf("equal trees not recognized")
	}
	if Equal(a, NewBinaryCall("+", NewInt(2), NewPair(NewSymbol("x"), NewNil()))) {
		t.Fatalf("different trees compare equal")
	}
	if Equal(NewInt(1), NewChar(1)) {
		t.Fatalf("int and char compare equal")
	}
}
