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

//go:build unix

package lisp

import (
	"fmt"
	"syscall"
	"unsafe"
)

// NewCode maps a fresh page range read-write, copies the emitted bytes
// in and flips the range to read-execute.
func NewCode(code []byte) (*Code, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("no code to map")
	}
	page := syscall.Getpagesize()
	n := (len(code) + page - 1) &^ (page - 1)
	mem, err := syscall.Mmap(-1, 0, n, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	copy(mem, code)
	if err := syscall.Mprotect(mem, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		syscall.Munmap(mem)
		return nil, fmt.Errorf("mprotect: %w", err)
	}
	return &Code{mem: mem, base: uintptr(unsafe.Pointer(&mem[0]))}, nil
}

// Release unmaps the block. The Code must not be invoked afterwards.
func (c *Code) Release() error {
	if c.mem == nil {
		return nil
	}
	mem := c.mem
	c.mem = nil
	c.base = 0
	return syscall.Munmap(mem)
}
