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
	"fmt"
	"math"
)

// compiler is the state threaded through one lowering: the output
// buffer, the procedure entries visible to labelcall, and the register
// locals are addressed from (RBP in a framed top-level expression, RSP
// inside a labels form).
type compiler struct {
	buf    *Buffer
	labels *LabelEnv
	base   Reg
}

// CompileFunction lowers one program to a callable. The entry moves the
// heap-buffer argument from RCX into the heap register, then either
// compiles a frameless labels unit or wraps the expression in an RBP
// frame. On error the buffer contents are unspecified; discard them.
func CompileFunction(buf *Buffer, node Node) error {
	buf.MovRegReg(Rsi, Rcx)
	if isLabelsForm(node) {
		return compileLabels(buf, node)
	}
	buf.Write8(0x55) // push rbp
	buf.MovRegReg(Rbp, Rsp)
	c := &compiler{buf: buf, base: Rbp}
	if err := c.expr(node, -WordSize, nil); err != nil {
		return err
	}
	buf.Write8(0x5d) // pop rbp
	buf.Ret()
	return nil
}

func isLabelsForm(node Node) bool {
	return node.IsPair() && node.Pair().Car.IsSymbol() && node.Pair().Car.Symbol() == "labels"
}

// compileLabels lays out (labels ((name (code (formals…) body))…) main):
// a forward jump over the procedure bodies, each body as bare code
// ending in ret, then the main expression. Everything is RSP-relative;
// no frame is set up.
func compileLabels(buf *Buffer, node Node) error {
	c := &compiler{buf: buf, base: Rsp}
	args := node.Pair().Cdr
	if listLen(args) != 2 {
		return fmt.Errorf("labels expects a binding list and a body")
	}
	bindings := args.Pair().Car
	body := args.Pair().Cdr.Pair().Car

	bodyJmp := buf.Jmp(0)
	for b := bindings; !b.IsNil(); b = b.Pair().Cdr {
		if !b.IsPair() {
			return fmt.Errorf("labels bindings must form a list")
		}
		bind := b.Pair().Car
		if listLen(bind) != 2 || !bind.Pair().Car.IsSymbol() {
			return fmt.Errorf("labels binding must be (name (code …))")
		}
		name := bind.Pair().Car.Symbol()
		entry := buf.Len()
		c.labels = &LabelEnv{name, entry, c.labels}
		if err := c.code(bind.Pair().Cdr.Pair().Car); err != nil {
			return err
		}
	}
	if err := buf.Backpatch32(bodyJmp); err != nil {
		return err
	}
	if err := c.expr(body, -WordSize, nil); err != nil {
		return err
	}
	buf.Ret()
	return nil
}

// code compiles (code (formals…) body). Formals sit just below the
// callee's RSP, placed there by the caller; the body runs in the
// caller's frame and returns with a bare ret.
func (c *compiler) code(node Node) error {
	if !node.IsPair() || !node.Pair().Car.IsSymbol() || node.Pair().Car.Symbol() != "code" {
		return fmt.Errorf("labels binding value must be a code form")
	}
	args := node.Pair().Cdr
	if listLen(args) != 2 {
		return fmt.Errorf("code expects a formals list and a body")
	}
	var env *Env
	offset := -WordSize
	for f := args.Pair().Car; !f.IsNil(); f = f.Pair().Cdr {
		if !f.IsPair() || !f.Pair().Car.IsSymbol() {
			return fmt.Errorf("code formals must be symbols")
		}
		if offset < math.MinInt8 {
			return fmt.Errorf("too many formals")
		}
		env = &Env{f.Pair().Car.Symbol(), offset, env}
		offset -= WordSize
	}
	if err := c.expr(args.Pair().Cdr.Pair().Car, offset, env); err != nil {
		return err
	}
	c.buf.Ret()
	return nil
}

// expr lowers one expression, leaving its encoded value in RAX.
func (c *compiler) expr(node Node, stackIndex int, env *Env) error {
	switch {
	case node.IsInt():
		value := node.Int()
		if value > IntegerMax || value < IntegerMin {
			return fmt.Errorf("integer literal %d out of range", value)
		}
		enc := EncodeInteger(value)
		if enc > math.MaxInt32 || enc < math.MinInt32 {
			return fmt.Errorf("integer literal %d out of immediate range", value)
		}
		c.buf.MovRegImm32(Rax, int32(enc))
		return nil
	case node.IsChar():
		c.buf.MovRegImm32(Rax, int32(EncodeChar(node.Char())))
		return nil
	case node.IsBool():
		c.buf.MovRegImm32(Rax, int32(EncodeBool(node.Bool())))
		return nil
	case node.IsNil():
		c.buf.MovRegImm32(Rax, NilTag)
		return nil
	case node.IsSymbol():
		offset, ok := env.Find(node.Symbol())
		if !ok {
			return fmt.Errorf("unbound variable %q", node.Symbol())
		}
		c.buf.LoadRegIndirect(Rax, Indirect{c.base, int8(offset)})
		return nil
	case node.IsPair():
		return c.call(node.Pair().Car, node.Pair().Cdr, stackIndex, env)
	}
	return fmt.Errorf("cannot compile this expression")
}

func (c *compiler) call(callable Node, args Node, stackIndex int, env *Env) error {
	if !callable.IsSymbol() {
		return fmt.Errorf("operator must be a symbol")
	}
	name := callable.Symbol()
	switch name {
	case "let":
		return c.let(args, stackIndex, env)
	case "if":
		return c.ifForm(args, stackIndex, env)
	case "labelcall":
		return c.labelcall(args, stackIndex, env)
	case "labels":
		return fmt.Errorf("labels form is only allowed at the top level")
	case "code":
		return fmt.Errorf("code form is only allowed inside a labels binding")
	}
	p, ok := primitives[name]
	if !ok {
		return fmt.Errorf("unknown operator %q", name)
	}
	if listLen(args) != p.Nargs {
		return fmt.Errorf("%s expects %d operand(s)", p.Name, p.Nargs)
	}
	return p.Emit(c, args, stackIndex, env)
}

// let compiles parallel bindings: every initializer sees only the outer
// environment, so no binding can observe an earlier one.
func (c *compiler) let(args Node, stackIndex int, env *Env) error {
	if listLen(args) != 2 {
		return fmt.Errorf("let expects a binding list and a body")
	}
	return c.letRec(args.Pair().Car, args.Pair().Cdr.Pair().Car, stackIndex, env, env)
}

func (c *compiler) letRec(bindings Node, body Node, stackIndex int, outer *Env, bodyEnv *Env) error {
	if bindings.IsNil() {
		return c.expr(body, stackIndex, bodyEnv)
	}
	if !bindings.IsPair() {
		return fmt.Errorf("let bindings must form a list")
	}
	bind := bindings.Pair().Car
	if listLen(bind) != 2 || !bind.Pair().Car.IsSymbol() {
		return fmt.Errorf("let binding must be (name expression)")
	}
	if err := c.expr(bind.Pair().Cdr.Pair().Car, stackIndex, outer); err != nil {
		return err
	}
	slot, err := c.spillSlot(stackIndex)
	if err != nil {
		return err
	}
	c.buf.StoreIndirectReg(slot, Rax)
	next := &Env{bind.Pair().Car.Symbol(), stackIndex, bodyEnv}
	return c.letRec(bindings.Pair().Cdr, body, stackIndex-WordSize, outer, next)
}

// ifForm treats exactly the encoded #f as false; everything else,
// including 0 and the empty list, takes the then branch.
func (c *compiler) ifForm(args Node, stackIndex int, env *Env) error {
	if listLen(args) != 3 {
		return fmt.Errorf("if expects a condition and two branches")
	}
	cond := args.Pair().Car
	then := args.Pair().Cdr.Pair().Car
	els := args.Pair().Cdr.Pair().Cdr.Pair().Car
	if err := c.expr(cond, stackIndex, env); err != nil {
		return err
	}
	c.buf.CmpRegImm32(Rax, int32(EncodeBool(false)))
	elsePos := c.buf.Jcc(CondEqual, 0)
	if err := c.expr(then, stackIndex, env); err != nil {
		return err
	}
	endPos := c.buf.Jmp(0)
	if err := c.buf.Backpatch32(elsePos); err != nil {
		return err
	}
	if err := c.expr(els, stackIndex, env); err != nil {
		return err
	}
	return c.buf.Backpatch32(endPos)
}

// labelcall places the arguments below one slot kept free for the
// return address, slides RSP down over the caller's locals window, and
// calls the procedure entry.
func (c *compiler) labelcall(args Node, stackIndex int, env *Env) error {
	if !args.IsPair() || !args.Pair().Car.IsSymbol() {
		return fmt.Errorf("labelcall expects a label name")
	}
	if listLen(args) < 1 {
		return fmt.Errorf("labelcall arguments must form a list")
	}
	name := args.Pair().Car.Symbol()
	argIndex := stackIndex - WordSize
	for a := args.Pair().Cdr; !a.IsNil(); a = a.Pair().Cdr {
		if err := c.expr(a.Pair().Car, argIndex, env); err != nil {
			return err
		}
		slot, err := c.spillSlot(argIndex)
		if err != nil {
			return err
		}
		c.buf.StoreIndirectReg(slot, Rax)
		argIndex -= WordSize
	}
	entry, ok := c.labels.Find(name)
	if !ok {
		return fmt.Errorf("unknown label %q", name)
	}
	adjust := stackIndex + WordSize
	c.buf.RspAdjust(int32(adjust))
	c.buf.CallImm32(entry)
	c.buf.RspAdjust(int32(-adjust))
	return nil
}

// spillSlot converts a stack index into an operand, refusing frames the
// 8-bit displacement cannot address.
func (c *compiler) spillSlot(stackIndex int) (Indirect, error) {
	if stackIndex < math.MinInt8 || stackIndex > math.MaxInt8 {
		return Indirect{}, fmt.Errorf("expression needs more than %d stack slots", -math.MinInt8/WordSize)
	}
	return Indirect{c.base, int8(stackIndex)}, nil
}

func (c *compiler) boolFromCond(cond Cond) {
	c.buf.MovRegImm32(Rax, 0)
	c.buf.SetccImm8(cond, Al)
	c.buf.ShlRegImm8(Rax, BoolShift)
	c.buf.OrRegImm8(Rax, BoolTag)
}

func (c *compiler) compareImm32(value int32) {
	c.buf.CmpRegImm32(Rax, value)
	c.boolFromCond(CondEqual)
}

func (c *compiler) binary(args Node, stackIndex int, env *Env, combine func(Indirect)) error {
	if err := c.expr(operand2(args), stackIndex, env); err != nil {
		return err
	}
	slot, err := c.spillSlot(stackIndex)
	if err != nil {
		return err
	}
	c.buf.StoreIndirectReg(slot, Rax)
	if err := c.expr(operand1(args), stackIndex-WordSize, env); err != nil {
		return err
	}
	combine(slot)
	return nil
}

// listLen returns the length of a proper list, -1 otherwise.
func listLen(n Node) int {
	length := 0
	for n.IsPair() {
		length++
		n = n.Pair().Cdr
	}
	if !n.IsNil() {
		return -1
	}
	return length
}
