package orchestration

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/akashmaji946/respkv/internal/dispatch"
	"github.com/akashmaji946/respkv/internal/logging"
	"github.com/akashmaji946/respkv/internal/maintenance"
	"github.com/akashmaji946/respkv/internal/pool"
	"github.com/akashmaji946/respkv/internal/respserver"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, net.Addr) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := respserver.New(1)
	log := logging.New(logging.LevelCritical)
	d := dispatch.New(srv, log)
	p := pool.New(4096, 4, 2)
	w := maintenance.New(srv, log, 20)

	orch := New(ln, d, p, w, log, time.Hour)
	go orch.Run()
	return orch, ln.Addr()
}

func TestEndToEndPingOverTCP(t *testing.T) {
	orch, addr := newTestServer(t)
	defer orch.Shutdown()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)

	reply := make([]byte, 64)
	n, err := bufio.NewReader(conn).Read(reply)
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", string(reply[:n]))
}

func TestEndToEndSetThenGetOverTCP(t *testing.T) {
	orch, addr := newTestServer(t)
	defer orch.Shutdown()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	_, err = conn.Write([]byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	require.NoError(t, err)
	buf := make([]byte, 64)
	n, err := reader.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", string(buf[:n]))

	_, err = conn.Write([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	n, err = reader.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "$3\r\nbar\r\n", string(buf[:n]))
}

func TestShutdownReturnsWithOpenConnection(t *testing.T) {
	orch, addr := newTestServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		orch.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
