package dispatch

import (
	"testing"
	"time"

	"github.com/akashmaji946/respkv/internal/resp"
	"github.com/akashmaji946/respkv/internal/respserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(numDBs int) (*Dispatcher, *Session) {
	srv := respserver.New(numDBs)
	return New(srv, nil), NewSession()
}

func bulkArray(parts ...string) resp.DataView {
	children := make([]resp.DataView, len(parts))
	for i, p := range parts {
		children[i] = resp.DataView{Kind: resp.KindBulkString, Payload: []byte(p)}
	}
	return resp.DataView{Kind: resp.KindArray, Children: children}
}

func TestDispatchPing(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("PING"))
	assert.Equal(t, "+PONG\r\n", string(reply))
}

func TestDispatchEcho(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("ECHO", "hello"))
	assert.Equal(t, "$5\r\nhello\r\n", string(reply))
}

func TestDispatchSetThenGet(t *testing.T) {
	d, sess := newTestDispatcher(1)

	reply := d.Dispatch(sess, bulkArray("SET", "foo", "bar"))
	assert.Equal(t, "+OK\r\n", string(reply))

	reply = d.Dispatch(sess, bulkArray("GET", "foo"))
	assert.Equal(t, "$3\r\nbar\r\n", string(reply))
}

func TestDispatchSetWithPXExpires(t *testing.T) {
	d, sess := newTestDispatcher(1)

	reply := d.Dispatch(sess, bulkArray("SET", "k", "v", "PX", "50"))
	require.Equal(t, "+OK\r\n", string(reply))

	time.Sleep(100 * time.Millisecond)

	reply = d.Dispatch(sess, bulkArray("GET", "k"))
	assert.Equal(t, "_\r\n", string(reply))
}

func TestDispatchSetWithExSetsTTL(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("SET", "k", "v", "EX", "100"))
	assert.Equal(t, "+OK\r\n", string(reply))

	reply = d.Dispatch(sess, bulkArray("GET", "k"))
	assert.Equal(t, "$1\r\nv\r\n", string(reply))
}

func TestDispatchSetRejectsNonPositiveTTL(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("SET", "k", "v", "EX", "0"))
	assert.Equal(t, byte('-'), reply[0])
}

func TestDispatchSelectOutOfRange(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("SELECT", "9"))
	assert.Equal(t, "-Invalid database index\r\n", string(reply))
	assert.Equal(t, 0, sess.DBIndex, "a failed SELECT must not change the session")
}

func TestDispatchSelectIsolatesSessions(t *testing.T) {
	d, _ := newTestDispatcher(2)
	sessA := NewSession()
	sessB := NewSession()

	reply := d.Dispatch(sessA, bulkArray("SELECT", "1"))
	require.Equal(t, "+OK\r\n", string(reply))

	assert.Equal(t, 1, sessA.DBIndex)
	assert.Equal(t, 0, sessB.DBIndex)
}

func TestDispatchUnknownCommand(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("FLUSHALL"))
	assert.Contains(t, string(reply), "Unknown command")
}

func TestDispatchLowercaseIsUnknown(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("ping"))
	assert.Contains(t, string(reply), "Unknown command")
}

func TestDispatchGetMiss(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("GET", "absent"))
	assert.Equal(t, "_\r\n", string(reply))
}

func TestDispatchWrongArity(t *testing.T) {
	d, sess := newTestDispatcher(1)
	reply := d.Dispatch(sess, bulkArray("GET"))
	assert.Equal(t, byte('-'), reply[0])
}

func TestDispatchPropagatesDecodeError(t *testing.T) {
	d, sess := newTestDispatcher(1)
	bad := resp.DataView{Kind: resp.KindSimpleError, Payload: []byte("ERR bad input")}
	reply := d.Dispatch(sess, bad)
	assert.Equal(t, "-ERR bad input\r\n", string(reply))
}
