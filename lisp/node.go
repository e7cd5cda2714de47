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
	"unsafe"
)

// Node is a compact tagged container for one syntax-tree value (24 bytes).
// Numeric payloads live in num, heap payloads (pairs, symbol bytes) in ptr.
// Trees are plain GC values; a dropped root releases its whole spine.
type Node struct {
	num Word
	ptr unsafe.Pointer
	aux uint64 // type tag + extra data (len, etc.)
}

// Type tags (upper 16 bits of aux)
const (
	nodeNil = iota
	nodeInt
	nodeChar
	nodeBool
	nodePair
	nodeSymbol
	nodeError
)

func makeAux(tag uint16, val uint64) uint64 {
	return uint64(tag)<<48 | (val & ((1 << 48) - 1))
}
func auxTag(aux uint64) uint16 { return uint16(aux >> 48) }
func auxVal(aux uint64) uint64 { return aux & ((1 << 48) - 1) }

// Pair is a two-slot heap cell.
type Pair struct {
	Car Node
	Cdr Node
}

//
// Constructors
//

func NewNil() Node { return Node{aux: makeAux(nodeNil, 0)} }

func NewError() Node { return Node{aux: makeAux(nodeError, 0)} }

func NewInt(i Word) Node {
	return Node{num: i, aux: makeAux(nodeInt, 0)}
}

func NewChar(c byte) Node {
	return Node{num: Word(c), aux: makeAux(nodeChar, 0)}
}

func NewBool(b bool) Node {
	if b {
		return Node{aux: makeAux(nodeBool, 1)}
	}
	return Node{aux: makeAux(nodeBool, 0)}
}

func NewPair(car Node, cdr Node) Node {
	return Node{ptr: unsafe.Pointer(&Pair{car, cdr}), aux: makeAux(nodePair, 0)}
}

func NewSymbol(sym string) Node {
	if len(sym) == 0 {
		return Node{aux: makeAux(nodeSymbol, 0)}
	}
	return Node{ptr: unsafe.Pointer(unsafe.StringData(sym)), aux: makeAux(nodeSymbol, uint64(len(sym)))}
}

// NewUnaryCall builds (name arg).
func NewUnaryCall(name string, arg Node) Node {
	return NewPair(NewSymbol(name), NewPair(arg, NewNil()))
}

// NewBinaryCall builds (name arg1 arg2).
func NewBinaryCall(name string, arg1 Node, arg2 Node) Node {
	return NewPair(NewSymbol(name), NewPair(arg1, NewPair(arg2, NewNil())))
}

//
// Predicates
//

func (n Node) IsNil() bool    { return auxTag(n.aux) == nodeNil }
func (n Node) IsInt() bool    { return auxTag(n.aux) == nodeInt }
func (n Node) IsChar() bool   { return auxTag(n.aux) == nodeChar }
func (n Node) IsBool() bool   { return auxTag(n.aux) == nodeBool }
func (n Node) IsPair() bool   { return auxTag(n.aux) == nodePair }
func (n Node) IsSymbol() bool { return auxTag(n.aux) == nodeSymbol }
func (n Node) IsError() bool  { return auxTag(n.aux) == nodeError }

//
// Accessors
//

func (n Node) Int() Word { return n.num }

func (n Node) Char() byte { return byte(n.num) }

func (n Node) Bool() bool { return auxVal(n.aux) != 0 }

func (n Node) Pair() *Pair { return (*Pair)(n.ptr) }

func (n Node) Symbol() string {
	l := auxVal(n.aux)
	if l == 0 {
		return ""
	}
	return unsafe.String((*byte)(n.ptr), int(l))
}

// Equal compares two trees structurally.
func Equal(a Node, b Node) bool {
	if auxTag(a.aux) != auxTag(b.aux) {
		return false
	}
	switch auxTag(a.aux) {
	case nodeInt, nodeChar:
		return a.num == b.num
	case nodeBool:
		return a.Bool() == b.Bool()
	case nodePair:
		return Equal(a.Pair().Car, b.Pair().Car) && Equal(a.Pair().Cdr, b.Pair().Cdr)
	case nodeSymbol:
		return a.Symbol() == b.Symbol()
	default: // nil, error
		return true
	}
}
