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

import "io"
import "os"
import "fmt"
import "errors"
import "runtime/debug"
import "github.com/chzyer/readline"

const newprompt = "\033[32mlisp>\033[0m "
const resultprompt = "\033[31m=\033[0m "

// Repl reads one expression per line, compiles it to native code, runs
// it against a fresh heap and prints the decoded result. An empty line
// or EOF ends the session.
func Repl(heapWords int, showHex bool) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".lispjit-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		if line == "" {
			break
		}
		evalLine(line, heapWords, showHex)
	}
	fmt.Println("Good bye")
}

// evalLine is one REPL iteration behind an anti-panic barrier, so a
// fault in the invoke path cannot take the prompt down.
func evalLine(line string, heapWords int, showHex bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r, string(debug.Stack()))
		}
	}()
	buf, err := Compile(line)
	if errors.Is(err, ErrParse) {
		fmt.Fprintln(os.Stderr, "Parse error!")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Compile error:", err)
		return
	}
	if showHex {
		for _, b := range buf.Bytes() {
			fmt.Fprintf(os.Stderr, "%02x ", b)
		}
		fmt.Fprintln(os.Stderr)
	}
	code, err := buf.Freeze()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Compile error:", err)
		return
	}
	defer code.Release()
	heap := make([]Word, heapWords)
	result := code.Invoke(heap)
	fmt.Print(resultprompt)
	fmt.Println(FormatResult(result))
}
