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

//go:build windows

package lisp

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	kernel32           = syscall.NewLazyDLL("kernel32.dll")
	procVirtualAlloc   = kernel32.NewProc("VirtualAlloc")
	procVirtualProtect = kernel32.NewProc("VirtualProtect")
	procVirtualFree    = kernel32.NewProc("VirtualFree")
)

const (
	memCommit     = 0x1000
	memReserve    = 0x2000
	memRelease    = 0x8000
	pageReadwrite = 0x04
	pageExecute   = 0x10
)

// NewCode commits a read-write region, copies the emitted bytes in and
// re-protects the region to execute-only.
func NewCode(code []byte) (*Code, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("no code to map")
	}
	addr, _, callErr := procVirtualAlloc.Call(0, uintptr(len(code)), memCommit|memReserve, pageReadwrite)
	if addr == 0 {
		return nil, fmt.Errorf("VirtualAlloc: %w", callErr)
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(code))
	copy(mem, code)
	var oldProtect uint32
	ok, _, callErr := procVirtualProtect.Call(addr, uintptr(len(code)), pageExecute, uintptr(unsafe.Pointer(&oldProtect)))
	if ok == 0 {
		procVirtualFree.Call(addr, 0, memRelease)
		return nil, fmt.Errorf("VirtualProtect: %w", callErr)
	}
	return &Code{mem: mem, base: addr}, nil
}

// Release frees the region. The Code must not be invoked afterwards.
func (c *Code) Release() error {
	if c.mem == nil {
		return nil
	}
	base := c.base
	c.mem = nil
	c.base = 0
	ok, _, callErr := procVirtualFree.Call(base, 0, memRelease)
	if ok == 0 {
		return fmt.Errorf("VirtualFree: %w", callErr)
	}
	return nil
}
