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
/*
	lispjit compiles a small parenthesized expression language straight
	to x86-64 machine code and runs it from executable memory
*/
package main

import "os"
import "fmt"
import "flag"
import "log"
import "time"
import "github.com/dc0d/onexit"
import "github.com/docker/go-units"
import "github.com/fsnotify/fsnotify"
import "github.com/launix-de/lispjit/lisp"

// workaround for flags package to allow multiple values
type arrayFlags []string

func (i *arrayFlags) String() string {
	return "dummy"
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func main() {
	fmt.Print(`lispjit Copyright (C) 2026   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;

`)

	// parse command line options
	var commands arrayFlags
	flag.Var(&commands, "c", "Execute expression and print its value")

	heapSize := "32KB"
	flag.StringVar(&heapSize, "heap", heapSize, "Heap buffer size per evaluation (accepts 4KB, 1MB, ...)")

	watchFile := ""
	flag.StringVar(&watchFile, "watch", "", "Recompile and run this file on every change")

	wsPort := ""
	flag.StringVar(&wsPort, "ws", "", "Serve a websocket evaluation endpoint on this port")

	showHex := flag.Bool("hex", false, "Dump the emitted machine code as hex before running")

	flag.Parse()

	heapBytes, err := units.RAMInBytes(heapSize)
	if err != nil || heapBytes <= 0 {
		fmt.Fprintln(os.Stderr, "invalid -heap value: "+heapSize)
		os.Exit(1)
	}
	heapWords := int((heapBytes + lisp.WordSize - 1) / lisp.WordSize)

	for _, command := range commands {
		heap := make([]lisp.Word, heapWords)
		result, err := lisp.EvalString(command, heap)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(lisp.FormatResult(result))
	}
	if len(commands) > 0 {
		return
	}

	if watchFile != "" {
		watch(watchFile, heapWords)
		return
	}

	if wsPort != "" {
		log.Println("websocket evaluator listening on port " + wsPort)
		if err := lisp.WSServe(wsPort, heapWords); err != nil {
			log.Fatal(err)
		}
		return
	}

	lisp.Repl(heapWords, *showHex)
}

// watch keeps recompiling and running one source file whenever it
// changes, a quick feedback loop while editing programs.
func watch(filename string, heapWords int) {
	rerun := func() {
		bytes, err := os.ReadFile(filename)
		if err != nil {
			log.Println(err)
			return
		}
		heap := make([]lisp.Word, heapWords)
		result, err := lisp.EvalString(string(bytes), heap)
		if err != nil {
			log.Println(filename+":", err)
			return
		}
		log.Println(filename, "=>", lisp.FormatResult(result))
	}
	rerun() // run once at the beginning in sync
	// watch for changes
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}
	onexit.Register(func() { watcher.Close() })
	go func() {
		for {
			select {
			case <-watcher.Events:
				// flush all other events
				for {
					time.Sleep(10 * time.Millisecond) // delay a bit, so we don't read empty files
					select {
					case <-watcher.Events:
						// ignore
					default:
						goto to_rerun
					}
				}
			to_rerun:
				func() {
					defer func() {
						if err := recover(); err != nil {
							// error happens during reload: log to console
							fmt.Println(err)
						}
					}()
					rerun()
				}()
				watcher.Add(filename) // text editors rename, so we have to rewatch
			}
		}
	}()
	err = watcher.Add(filename)
	if err != nil {
		panic(err)
	}
	select {}
}
