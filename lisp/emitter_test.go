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
	"bytes"
	"testing"
)

func checkEmit(t *testing.T, emit func(b *Buffer), want []byte) {
	t.Helper()
	var b Buffer
	emit(&b)
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("got % x, want % x", b.Bytes(), want)
	}
}

func TestEmitMov(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.MovRegReg(Rsi, Rcx) },
		[]byte{0x48, 0x89, 0xce})
	checkEmit(t, func(b *Buffer) { b.MovRegReg(Rbp, Rsp) },
		[]byte{0x48, 0x89, 0xe5})
	checkEmit(t, func(b *Buffer) { b.MovRegImm32(Rax, 0x1ec) },
		[]byte{0x48, 0xc7, 0xc0, 0xec, 0x01, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.MovRegImm32(Rax, -4) },
		[]byte{0x48, 0xc7, 0xc0, 0xfc, 0xff, 0xff, 0xff})
}

func TestEmitArith(t *testing.T) {
	// accumulator short forms
	checkEmit(t, func(b *Buffer) { b.AddRegImm32(Rax, 4) },
		[]byte{0x48, 0x05, 0x04, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.SubRegImm32(Rax, 4) },
		[]byte{0x48, 0x2d, 0x04, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.CmpRegImm32(Rax, 0x1f) },
		[]byte{0x48, 0x3d, 0x1f, 0x00, 0x00, 0x00})
	// generic forms
	checkEmit(t, func(b *Buffer) { b.AddRegImm32(Rsi, 16) },
		[]byte{0x48, 0x81, 0xc6, 0x10, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.SubRegImm32(Rsi, 16) },
		[]byte{0x48, 0x81, 0xee, 0x10, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.CmpRegImm32(Rcx, 1) },
		[]byte{0x48, 0x81, 0xf9, 0x01, 0x00, 0x00, 0x00})
}

func TestEmitShiftLogic(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.ShlRegImm8(Rax, 6) },
		[]byte{0x48, 0xc1, 0xe0, 0x06})
	checkEmit(t, func(b *Buffer) { b.ShrRegImm8(Rax, 6) },
		[]byte{0x48, 0xc1, 0xe8, 0x06})
	checkEmit(t, func(b *Buffer) { b.OrRegImm8(Rax, 0x1f) },
		[]byte{0x48, 0x83, 0xc8, 0x1f})
	checkEmit(t, func(b *Buffer) { b.AndRegImm8(Rax, 0x03) },
		[]byte{0x48, 0x83, 0xe0, 0x03})
}

func TestEmitSetcc(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.SetccImm8(CondEqual, Al) },
		[]byte{0x0f, 0x94, 0xc0})
	checkEmit(t, func(b *Buffer) { b.SetccImm8(Less, Al) },
		[]byte{0x0f, 0x9c, 0xc0})
}

func TestEmitIndirect(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.StoreIndirectReg(Indirect{Rbp, -8}, Rax) },
		[]byte{0x48, 0x89, 0x45, 0xf8})
	checkEmit(t, func(b *Buffer) { b.LoadRegIndirect(Rax, Indirect{Rbp, -8}) },
		[]byte{0x48, 0x8b, 0x45, 0xf8})
	checkEmit(t, func(b *Buffer) { b.AddRegIndirect(Rax, Indirect{Rbp, -8}) },
		[]byte{0x48, 0x03, 0x45, 0xf8})
	checkEmit(t, func(b *Buffer) { b.SubRegIndirect(Rax, Indirect{Rbp, -8}) },
		[]byte{0x48, 0x2b, 0x45, 0xf8})
	checkEmit(t, func(b *Buffer) { b.CmpRegIndirect(Rax, Indirect{Rbp, -8}) },
		[]byte{0x48, 0x3b, 0x45, 0xf8})
	checkEmit(t, func(b *Buffer) { b.LoadRegIndirect(Rax, Indirect{Rax, -1}) },
		[]byte{0x48, 0x8b, 0x40, 0xff})
}

func TestEmitIndirectRspUsesSIB(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.StoreIndirectReg(Indirect{Rsp, -16}, Rax) },
		[]byte{0x48, 0x89, 0x44, 0x24, 0xf0})
	checkEmit(t, func(b *Buffer) { b.LoadRegIndirect(Rax, Indirect{Rsp, -8}) },
		[]byte{0x48, 0x8b, 0x44, 0x24, 0xf8})
}

func TestEmitControl(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.Jcc(CondEqual, 0x0c) },
		[]byte{0x0f, 0x84, 0x0c, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.Jmp(7) },
		[]byte{0xe9, 0x07, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.Ret() },
		[]byte{0xc3})
	// a call back to offset 0 from an empty buffer: rel32 = -5
	checkEmit(t, func(b *Buffer) { b.CallImm32(0) },
		[]byte{0xe8, 0xfb, 0xff, 0xff, 0xff})
}

func TestEmitRspAdjust(t *testing.T) {
	checkEmit(t, func(b *Buffer) { b.RspAdjust(0) },
		[]byte{})
	checkEmit(t, func(b *Buffer) { b.RspAdjust(-8) },
		[]byte{0x48, 0x81, 0xec, 0x08, 0x00, 0x00, 0x00})
	checkEmit(t, func(b *Buffer) { b.RspAdjust(8) },
		[]byte{0x48, 0x81, 0xc4, 0x08, 0x00, 0x00, 0x00})
}
