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
import "log"
import "time"
import "errors"
import "net/http"
import "runtime/debug"
import "github.com/gorilla/websocket"

// WSServe exposes the compiler on a websocket endpoint: every text
// frame received on /eval is one expression, the reply frame carries
// its formatted value or an error tag. Each connection evaluates
// against its own heap; compiled code is shared through the program
// cache.
func WSServe(port string, heapWords int) error {
	upgrader := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	mux := http.NewServeMux()
	mux.HandleFunc("/eval", func(res http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(res, req, nil)
		if err != nil {
			log.Println("websocket upgrade:", err)
			return
		}
		log.Println("new session from", req.RemoteAddr)
		go wsSession(conn, heapWords)
	})
	server := &http.Server{
		Addr:           fmt.Sprintf(":%v", port),
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return server.ListenAndServe()
}

func wsSession(conn *websocket.Conn, heapWords int) {
	defer conn.Close()
	heap := make([]Word, heapWords)
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(evalFrame(string(msg), heap))); err != nil {
			return
		}
	}
}

func evalFrame(input string, heap []Word) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("panic:", r, string(debug.Stack()))
			reply = "Compile error"
		}
	}()
	result, err := EvalStringCached(input, heap)
	if errors.Is(err, ErrParse) {
		return "Parse error!"
	}
	if err != nil {
		return "Compile error: " + err.Error()
	}
	return FormatResult(result)
}
