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

// x86-64 instruction encoders. Every general-purpose operation carries the
// REX.W prefix; displacements through a base register are 8-bit signed,
// with a SIB byte when the base is RSP.

// Reg is a hardware register index in instruction encoding order.
type Reg uint8

const (
	Rax Reg = 0
	Rcx Reg = 1
	Rdx Reg = 2
	Rbx Reg = 3
	Rsp Reg = 4
	Rbp Reg = 5
	Rsi Reg = 6
	Rdi Reg = 7
)

// PartialReg is a byte register for setcc.
type PartialReg uint8

const (
	Al PartialReg = 0
	Cl PartialReg = 1
	Dl PartialReg = 2
	Bl PartialReg = 3
)

// Cond selects the condition code nibble of jcc/setcc.
type Cond uint8

const (
	Overflow    Cond = 0
	NotOverflow Cond = 1
	Carry       Cond = 2 // below
	NotCarry    Cond = 3 // above or equal
	CondEqual   Cond = 4 // zero
	NotEqual    Cond = 5 // not zero
	Sign        Cond = 8
	Less        Cond = 0xc
)

// Indirect addresses memory at Reg+Disp.
type Indirect struct {
	Reg  Reg
	Disp int8
}

const rexPrefix = 0x48

func (b *Buffer) MovRegReg(dst Reg, src Reg) {
	b.Write8(rexPrefix)
	b.Write8(0x89)
	b.Write8(0xc0 | byte(src)<<3 | byte(dst))
}

func (b *Buffer) MovRegImm32(dst Reg, src int32) {
	b.Write8(rexPrefix)
	b.Write8(0xc7)
	b.Write8(0xc0 | byte(dst))
	b.Write32(uint32(src))
}

func (b *Buffer) AddRegImm32(dst Reg, src int32) {
	b.Write8(rexPrefix)
	if dst == Rax {
		b.Write8(0x05)
	} else {
		b.Write8(0x81)
		b.Write8(0xc0 | byte(dst))
	}
	b.Write32(uint32(src))
}

func (b *Buffer) SubRegImm32(dst Reg, src int32) {
	b.Write8(rexPrefix)
	if dst == Rax {
		b.Write8(0x2d)
	} else {
		b.Write8(0x81)
		b.Write8(0xe8 | byte(dst))
	}
	b.Write32(uint32(src))
}

func (b *Buffer) ShlRegImm8(dst Reg, src uint8) {
	b.Write8(rexPrefix)
	b.Write8(0xc1)
	b.Write8(0xe0 | byte(dst))
	b.Write8(src)
}

func (b *Buffer) ShrRegImm8(dst Reg, src uint8) {
	b.Write8(rexPrefix)
	b.Write8(0xc1)
	b.Write8(0xe8 | byte(dst))
	b.Write8(src)
}

func (b *Buffer) OrRegImm8(dst Reg, src uint8) {
	b.Write8(rexPrefix)
	b.Write8(0x83)
	b.Write8(0xc8 | byte(dst))
	b.Write8(src)
}

func (b *Buffer) AndRegImm8(dst Reg, src uint8) {
	b.Write8(rexPrefix)
	b.Write8(0x83)
	b.Write8(0xe0 | byte(dst))
	b.Write8(src)
}

func (b *Buffer) CmpRegImm32(left Reg, right int32) {
	b.Write8(rexPrefix)
	if left == Rax {
		b.Write8(0x3d)
	} else {
		b.Write8(0x81)
		b.Write8(0xf8 | byte(left))
	}
	b.Write32(uint32(right))
}

func (b *Buffer) SetccImm8(cond Cond, dst PartialReg) {
	b.Write8(0x0f)
	b.Write8(0x90 | byte(cond))
	b.Write8(0xc0 | byte(dst))
}

// modRMIndirect writes the mod=01 ModRM byte for reg,[mem.Reg+disp8],
// plus the SIB byte RSP-based addressing needs.
func (b *Buffer) modRMIndirect(reg Reg, mem Indirect) {
	b.Write8(0x40 | byte(reg)<<3 | byte(mem.Reg))
	if mem.Reg == Rsp {
		b.Write8(0x24)
	}
	b.Write8(byte(mem.Disp))
}

func (b *Buffer) StoreIndirectReg(dst Indirect, src Reg) {
	b.Write8(rexPrefix)
	b.Write8(0x89)
	b.modRMIndirect(src, dst)
}

func (b *Buffer) LoadRegIndirect(dst Reg, src Indirect) {
	b.Write8(rexPrefix)
	b.Write8(0x8b)
	b.modRMIndirect(dst, src)
}

func (b *Buffer) AddRegIndirect(dst Reg, src Indirect) {
	b.Write8(rexPrefix)
	b.Write8(0x03)
	b.modRMIndirect(dst, src)
}

func (b *Buffer) SubRegIndirect(dst Reg, src Indirect) {
	b.Write8(rexPrefix)
	b.Write8(0x2b)
	b.modRMIndirect(dst, src)
}

func (b *Buffer) CmpRegIndirect(left Reg, right Indirect) {
	b.Write8(rexPrefix)
	b.Write8(0x3b)
	b.modRMIndirect(left, right)
}

// Jcc emits a conditional near jump and returns the position of its
// 32-bit displacement for Backpatch32.
func (b *Buffer) Jcc(cond Cond, rel int32) int {
	b.Write8(0x0f)
	b.Write8(0x80 | byte(cond))
	pos := b.Len()
	b.Write32(uint32(rel))
	return pos
}

// Jmp emits an unconditional near jump, returning the displacement
// position like Jcc.
func (b *Buffer) Jmp(rel int32) int {
	b.Write8(0xe9)
	pos := b.Len()
	b.Write32(uint32(rel))
	return pos
}

// CallImm32 emits a PC-relative call to an absolute buffer offset.
func (b *Buffer) CallImm32(target int) {
	b.Write8(0xe8)
	b.Write32(uint32(int32(target - (b.Len() + 4))))
}

// Backpatch32 resolves a recorded jump displacement to the current
// position.
func (b *Buffer) Backpatch32(pos int) error {
	return b.WriteAt32(pos, uint32(int32(b.Len()-(pos+4))))
}

// RspAdjust grows (negative delta) or shrinks the stack by emitting a
// sub or add on RSP; zero emits nothing.
func (b *Buffer) RspAdjust(delta int32) {
	if delta == 0 {
		return
	}
	b.Write8(rexPrefix)
	b.Write8(0x81)
	if delta < 0 {
		b.Write8(0xe8 | byte(Rsp))
		b.Write32(uint32(-delta))
	} else {
		b.Write8(0xc0 | byte(Rsp))
		b.Write32(uint32(delta))
	}
}

func (b *Buffer) Ret() {
	b.Write8(0xc3)
}
