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

import "fmt"

// Buffer collects emitted machine code. Positions returned by Len stay
// valid across appends, which is what the jump backpatching relies on.
type Buffer struct {
	buf []byte
}

func (b *Buffer) Write8(v byte) {
	b.buf = append(b.buf, v)
}

// Write32 appends v little-endian.
func (b *Buffer) Write32(v uint32) {
	for i := 0; i < 4; i++ {
		b.Write8(byte(v >> (i * BitsPerByte)))
	}
}

func (b *Buffer) WriteArray(a []byte) {
	b.buf = append(b.buf, a...)
}

// WriteAt32 overwrites four bytes at pos, little-endian.
func (b *Buffer) WriteAt32(pos int, v uint32) error {
	if pos < 0 || pos+4 > len(b.buf) {
		return fmt.Errorf("patch position %d out of range (size %d)", pos, len(b.buf))
	}
	for i := 0; i < 4; i++ {
		b.buf[pos+i] = byte(v >> (i * BitsPerByte))
	}
	return nil
}

func (b *Buffer) Len() int {
	return len(b.buf)
}

func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Freeze copies the emitted bytes into fresh executable memory.
func (b *Buffer) Freeze() (*Code, error) {
	return NewCode(b.buf)
}
