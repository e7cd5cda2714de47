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

import "errors"
import "github.com/launix-de/NonLockingReadMap"

// ErrParse marks input the reader rejected, as opposed to a compile
// failure.
var ErrParse = errors.New("malformed input")

// Compile reads one expression and lowers it, returning the filled
// buffer. The buffer is discarded on any failure.
func Compile(input string) (*Buffer, error) {
	node := Read(input)
	if node.IsError() {
		return nil, ErrParse
	}
	var buf Buffer
	if err := CompileFunction(&buf, node); err != nil {
		return nil, err
	}
	return &buf, nil
}

// EvalString compiles, maps and runs one expression against the given
// heap buffer.
func EvalString(input string, heap []Word) (Word, error) {
	buf, err := Compile(input)
	if err != nil {
		return 0, err
	}
	code, err := buf.Freeze()
	if err != nil {
		return 0, err
	}
	defer code.Release()
	return code.Invoke(heap), nil
}

// program is one finished compilation kept for reuse, keyed by its
// source text.
type program struct {
	Source string
	Code   *Code
}

func (p program) GetKey() string { return p.Source }

func (p program) ComputeSize() uint {
	return uint(32 + len(p.Source) + len(p.Code.mem))
}

// programCache avoids recompiling repeated inputs; reads are
// non-blocking, so concurrent sessions share it freely.
var programCache = NonLockingReadMap.New[program, string]()

// EvalStringCached is EvalString with a process-wide compile cache.
// The executable regions it creates stay mapped for the lifetime of
// the process.
func EvalStringCached(input string, heap []Word) (Word, error) {
	if p := programCache.Get(input); p != nil {
		return p.Code.Invoke(heap), nil
	}
	buf, err := Compile(input)
	if err != nil {
		return 0, err
	}
	code, err := buf.Freeze()
	if err != nil {
		return 0, err
	}
	programCache.Set(&program{Source: input, Code: code})
	return code.Invoke(heap), nil
}
