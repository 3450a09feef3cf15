// Package dispatch turns a decoded command array into a wire reply,
// implementing the minimal command table of spec.md §4.4: PING, ECHO,
// GET, SET, SELECT. It mirrors the teacher's internal/handlers shape
// (one function per command, a name-keyed table, a per-connection
// Session carrying the selected database) narrowed to this server's
// command surface.
package dispatch

import (
	"github.com/akashmaji946/respkv/internal/logging"
	"github.com/akashmaji946/respkv/internal/resp"
	"github.com/akashmaji946/respkv/internal/respserver"
)

// Session is the per-connection state a dispatcher needs across calls:
// which database is currently selected (spec.md §4.4 SELECT). Each
// connection owns exactly one Session; it is not shared across
// goroutines.
type Session struct {
	DBIndex int
}

// NewSession returns a Session selecting database 0, the default on
// connect (spec.md §4.3).
func NewSession() *Session {
	return &Session{DBIndex: 0}
}

// Dispatcher resolves command names against the server's stores. It is
// shared read-only across every connection goroutine.
type Dispatcher struct {
	server *respserver.Server
	log    *logging.Logger
}

// New builds a Dispatcher bound to server, logging unexpected conditions
// through log.
func New(server *respserver.Server, log *logging.Logger) *Dispatcher {
	return &Dispatcher{server: server, log: log}
}

var (
	errWrongArgs  = resp.SimpleError("ERR wrong number of arguments")
	errUnknownCmd = func(name string) []byte { return resp.SimpleError("Unknown command: " + name) }
	errNotArray   = resp.SimpleError("Unable to parse request")
	errIndexOOB   = resp.SimpleError("Invalid database index")
)

// Dispatch decodes one already-parsed command view and returns the reply
// bytes to write back. req must be a KindArray of bulk strings (spec.md
// §4.4 "a command is a RESP array of bulk strings"); any other shape, or
// a decode-time error view, yields a protocol error reply rather than a
// panic.
func (d *Dispatcher) Dispatch(sess *Session, req resp.DataView) []byte {
	if req.IsError() {
		return resp.SimpleError(req.ErrorMessage())
	}
	if req.Kind != resp.KindArray || len(req.Children) == 0 {
		return errNotArray
	}

	args := make([][]byte, len(req.Children))
	for i, child := range req.Children {
		if child.Kind != resp.KindBulkString {
			return errNotArray
		}
		b, err := child.Bytes()
		if err != nil {
			return errNotArray
		}
		args[i] = b
	}

	name := string(args[0])
	handler, ok := handlers[name]
	if !ok {
		return errUnknownCmd(name)
	}
	return handler(d, sess, args[1:])
}

type handlerFunc func(d *Dispatcher, sess *Session, args [][]byte) []byte

var handlers = map[string]handlerFunc{
	"PING":   handlePing,
	"ECHO":   handleEcho,
	"GET":    handleGet,
	"SET":    handleSet,
	"SELECT": handleSelect,
}
