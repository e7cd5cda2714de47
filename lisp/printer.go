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
	"strconv"
	"strings"
	"unsafe"
)

// String renders a node back to source form. Reading the result yields a
// structurally equal tree for every well-formed program.
func (n Node) String() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch {
	case n.IsInt():
		b.WriteString(strconv.FormatInt(int64(n.Int()), 10))
	case n.IsChar():
		b.WriteByte('\'')
		b.WriteByte(n.Char())
		b.WriteByte('\'')
	case n.IsBool():
		if n.Bool() {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case n.IsNil():
		b.WriteString("()")
	case n.IsSymbol():
		b.WriteString(n.Symbol())
	case n.IsPair():
		b.WriteByte('(')
		writeSpine(b, n)
		b.WriteByte(')')
	default:
		b.WriteString("<error>")
	}
}

func writeSpine(b *strings.Builder, n Node) {
	writeNode(b, n.Pair().Car)
	rest := n.Pair().Cdr
	for rest.IsPair() {
		b.WriteByte(' ')
		writeNode(b, rest.Pair().Car)
		rest = rest.Pair().Cdr
	}
	if !rest.IsNil() {
		b.WriteString(" . ")
		writeNode(b, rest)
	}
}

// FormatResult renders an encoded runtime word. Pair references are
// followed through memory, so the heap the program ran against must
// still be alive when this is called.
func FormatResult(v Word) string {
	var b strings.Builder
	writeWord(&b, v)
	return b.String()
}

func writeWord(b *strings.Builder, v Word) {
	switch {
	case v == NilTag:
		b.WriteString("()")
	case v == ErrorTag:
		b.WriteString("<error>")
	case IsIntegerWord(v):
		b.WriteString(strconv.FormatInt(int64(DecodeInteger(v)), 10))
	case IsCharWord(v):
		b.WriteByte('\'')
		b.WriteByte(DecodeChar(v))
		b.WriteByte('\'')
	case IsBoolWord(v):
		if DecodeBool(v) {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case IsPairWord(v):
		b.WriteByte('(')
		writeWordSpine(b, v)
		b.WriteByte(')')
	case IsSymbolWord(v):
		b.WriteString("<symbol>")
	default:
		b.WriteString("<unknown>")
	}
}

func writeWordSpine(b *strings.Builder, v Word) {
	cell := (*[2]Word)(unsafe.Pointer(Address(v)))
	writeWord(b, cell[0])
	rest := cell[1]
	for IsPairWord(rest) {
		b.WriteByte(' ')
		cell = (*[2]Word)(unsafe.Pointer(Address(rest)))
		writeWord(b, cell[0])
		rest = cell[1]
	}
	if rest != NilTag {
		b.WriteString(" . ")
		writeWord(b, rest)
	}
}
