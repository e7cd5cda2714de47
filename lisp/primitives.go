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

// Primitive describes one built-in operator of the dialect: its arity
// and the machine-code sequence it expands to.
type Primitive struct {
	Name  string
	Doc   string
	Nargs int
	Emit  func(c *compiler, args Node, stackIndex int, env *Env) error
}

var primitives = make(map[string]*Primitive)

func declare(p *Primitive) {
	primitives[p.Name] = p
}

func init() {
	declare(&Primitive{"add1", "increment an integer", 1, emitAdd1})
	declare(&Primitive{"sub1", "decrement an integer", 1, emitSub1})
	declare(&Primitive{"integer->char", "retag an integer as a character", 1, emitIntegerToChar})
	declare(&Primitive{"char->integer", "retag a character as an integer", 1, emitCharToInteger})
	declare(&Primitive{"nil?", "test for the empty list", 1, emitNilP})
	declare(&Primitive{"zero?", "test for integer zero", 1, emitZeroP})
	declare(&Primitive{"not", "logical negation; only #f is false", 1, emitNot})
	declare(&Primitive{"integer?", "test the integer tag", 1, emitIntegerP})
	declare(&Primitive{"boolean?", "test the boolean tag", 1, emitBooleanP})
	declare(&Primitive{"+", "integer addition", 2, emitAdd})
	declare(&Primitive{"-", "integer subtraction", 2, emitSub})
	declare(&Primitive{"=", "integer equality", 2, emitEq})
	declare(&Primitive{"<", "integer less-than", 2, emitLess})
	declare(&Primitive{"car", "first slot of a pair", 1, emitCar})
	declare(&Primitive{"cdr", "second slot of a pair", 1, emitCdr})
	declare(&Primitive{"cons", "allocate a pair on the heap", 2, emitCons})
}

func operand1(args Node) Node {
	return args.Pair().Car
}

func operand2(args Node) Node {
	return args.Pair().Cdr.Pair().Car
}

func emitAdd1(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.AddRegImm32(Rax, int32(EncodeInteger(1)))
	return nil
}

func emitSub1(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.AddRegImm32(Rax, int32(EncodeInteger(-1)))
	return nil
}

func emitIntegerToChar(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.ShlRegImm8(Rax, CharShift-IntegerShift)
	c.buf.OrRegImm8(Rax, CharTag)
	return nil
}

func emitCharToInteger(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.ShrRegImm8(Rax, CharShift-IntegerShift)
	return nil
}

func emitNilP(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.compareImm32(NilTag)
	return nil
}

func emitZeroP(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.compareImm32(int32(EncodeInteger(0)))
	return nil
}

func emitNot(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.compareImm32(int32(EncodeBool(false)))
	return nil
}

func emitIntegerP(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.AndRegImm8(Rax, IntegerMask)
	c.compareImm32(IntegerTag)
	return nil
}

// emitBooleanP masks with the tag value rather than the full immediate
// mask; any word whose low five bits are all set, the error sentinel
// among them, is classified as a boolean. Kept
// bit-for-bit compatible with the established encoding.
func emitBooleanP(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.AndRegImm8(Rax, BoolTag)
	c.compareImm32(BoolTag)
	return nil
}

func emitAdd(c *compiler, args Node, stackIndex int, env *Env) error {
	return c.binary(args, stackIndex, env, func(slot Indirect) {
		c.buf.AddRegIndirect(Rax, slot)
	})
}

func emitSub(c *compiler, args Node, stackIndex int, env *Env) error {
	return c.binary(args, stackIndex, env, func(slot Indirect) {
		c.buf.SubRegIndirect(Rax, slot)
	})
}

func emitEq(c *compiler, args Node, stackIndex int, env *Env) error {
	return c.binary(args, stackIndex, env, func(slot Indirect) {
		c.buf.CmpRegIndirect(Rax, slot)
		c.boolFromCond(CondEqual)
	})
}

func emitLess(c *compiler, args Node, stackIndex int, env *Env) error {
	return c.binary(args, stackIndex, env, func(slot Indirect) {
		c.buf.CmpRegIndirect(Rax, slot)
		c.boolFromCond(Less)
	})
}

func emitCar(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.LoadRegIndirect(Rax, Indirect{Rax, CarOffset - PairTag})
	return nil
}

func emitCdr(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	c.buf.LoadRegIndirect(Rax, Indirect{Rax, CdrOffset - PairTag})
	return nil
}

// emitCons evaluates the car first, parks it in a stack slot while the
// cdr is computed, then fills the next free heap cell and bumps the heap
// register past it.
func emitCons(c *compiler, args Node, stackIndex int, env *Env) error {
	if err := c.expr(operand1(args), stackIndex, env); err != nil {
		return err
	}
	slot, err := c.spillSlot(stackIndex)
	if err != nil {
		return err
	}
	c.buf.StoreIndirectReg(slot, Rax)
	if err := c.expr(operand2(args), stackIndex-WordSize, env); err != nil {
		return err
	}
	c.buf.StoreIndirectReg(Indirect{Rsi, CdrOffset}, Rax)
	c.buf.LoadRegIndirect(Rax, slot)
	c.buf.StoreIndirectReg(Indirect{Rsi, CarOffset}, Rax)
	c.buf.MovRegReg(Rax, Rsi)
	c.buf.OrRegImm8(Rax, PairTag)
	c.buf.AddRegImm32(Rsi, PairSize)
	return nil
}
