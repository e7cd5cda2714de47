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
	"runtime"
	"unsafe"
)

// Code owns one block of executable memory. It is filled exactly once
// during construction and mapped read-execute from then on; the block
// is never writable and executable at the same time.
type Code struct {
	mem  []byte
	base uintptr
}

// Invoke runs the compiled program. The heap slice backs all pair
// allocations the program performs; the caller guarantees it is large
// enough and must not share it between concurrent invocations. The
// returned word is still encoded.
func (c *Code) Invoke(heap []Word) Word {
	var hp uintptr
	if len(heap) > 0 {
		hp = uintptr(unsafe.Pointer(&heap[0]))
	}
	ret := jitCall(c.base, hp)
	runtime.KeepAlive(heap)
	return Word(ret)
}
