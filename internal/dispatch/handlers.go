package dispatch

import (
	"strconv"
	"time"

	"github.com/akashmaji946/respkv/internal/resp"
)

func handlePing(d *Dispatcher, sess *Session, args [][]byte) []byte {
	if len(args) != 0 {
		return errWrongArgs
	}
	return resp.Pong()
}

func handleEcho(d *Dispatcher, sess *Session, args [][]byte) []byte {
	if len(args) != 1 {
		return errWrongArgs
	}
	return resp.BulkString(args[0])
}

func handleGet(d *Dispatcher, sess *Session, args [][]byte) []byte {
	if len(args) != 1 {
		return errWrongArgs
	}
	store := d.server.Get(sess.DBIndex)
	entry, ok := store.Get(string(args[0]), time.Now())
	if !ok {
		return resp.Null()
	}
	return resp.BulkString(entry.Data)
}

// handleSet implements the arity-3 and arity-5 forms of SET (spec.md §4.4):
// SET key value [EX seconds | PX milliseconds].
func handleSet(d *Dispatcher, sess *Session, args [][]byte) []byte {
	switch len(args) {
	case 2:
		store := d.server.Get(sess.DBIndex)
		store.Set(string(args[0]), args[1], time.Time{})
		return resp.OK()
	case 4:
		key, value, unit, rawTTL := args[0], args[1], string(args[2]), string(args[3])
		ttl, err := strconv.ParseInt(rawTTL, 10, 64)
		if err != nil {
			return resp.SimpleError("ERR value is not an integer or out of range")
		}
		if ttl <= 0 {
			return resp.SimpleError("ERR invalid expire time")
		}

		var deadline time.Time
		switch unit {
		case "EX":
			deadline = time.Now().Add(time.Duration(ttl) * time.Second)
		case "PX":
			deadline = time.Now().Add(time.Duration(ttl) * time.Millisecond)
		default:
			return resp.SimpleError("ERR unsupported SET option")
		}

		store := d.server.Get(sess.DBIndex)
		store.Set(string(key), value, deadline)
		return resp.OK()
	default:
		return errWrongArgs
	}
}

func handleSelect(d *Dispatcher, sess *Session, args [][]byte) []byte {
	if len(args) != 1 {
		return errWrongArgs
	}
	idx, err := strconv.Atoi(string(args[0]))
	if err != nil || !d.server.IsValid(idx) {
		return errIndexOOB
	}
	sess.DBIndex = idx
	return resp.OK()
}
