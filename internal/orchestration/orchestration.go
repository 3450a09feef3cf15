// Package orchestration wires a listener, the command dispatcher, and the
// maintenance worker into a running server: one goroutine per accepted
// connection, plus a ticker driving maintenance sweeps, matching the
// teacher's accept-loop/WaitGroup/signal-channel shape (cmd/main.go)
// translated from its single cooperative-goroutine ambition into Go's
// native goroutine-per-connection model (spec.md §5: "the Go-native
// analogue of the single-executor-thread model is a goroutine per
// connection that suspends only at I/O boundaries").
package orchestration

import (
	"net"
	"sync"
	"time"

	"github.com/akashmaji946/respkv/internal/dispatch"
	"github.com/akashmaji946/respkv/internal/logging"
	"github.com/akashmaji946/respkv/internal/maintenance"
	"github.com/akashmaji946/respkv/internal/observability"
	"github.com/akashmaji946/respkv/internal/pool"
	"github.com/akashmaji946/respkv/internal/resp"
)

// Server owns a listener, the shared dispatcher, buffer pool, and
// maintenance worker, and runs the accept loop plus the maintenance
// ticker until Shutdown is called.
type Server struct {
	listener   net.Listener
	dispatcher *dispatch.Dispatcher
	pool       *pool.Pool
	worker     *maintenance.Worker
	log        *logging.Logger
	conns      *observability.ConnectionCounter

	sweepInterval time.Duration

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// New builds a Server that accepts on listener. sweepInterval is the period
// between maintenance ticks (spec.md §4.5; configured as
// cleanup_interval_seconds).
func New(
	listener net.Listener,
	dispatcher *dispatch.Dispatcher,
	bufPool *pool.Pool,
	worker *maintenance.Worker,
	log *logging.Logger,
	sweepInterval time.Duration,
) *Server {
	return &Server{
		listener:      listener,
		dispatcher:    dispatcher,
		pool:          bufPool,
		worker:        worker,
		log:           log,
		conns:         &observability.ConnectionCounter{},
		sweepInterval: sweepInterval,
		shutdown:      make(chan struct{}),
	}
}

// Connections returns the live connection counter, for an observability
// builder to read.
func (s *Server) Connections() *observability.ConnectionCounter {
	return s.conns
}

// Run starts the accept loop and the maintenance ticker and blocks until
// Shutdown closes the listener, at which point Run waits for every
// in-flight connection goroutine to finish before returning (the
// teacher's wg.Wait() drain on shutdown).
func (s *Server) Run() {
	s.wg.Add(1)
	go s.maintenanceLoop()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				s.log.Info("listener closed, draining connections")
			default:
				s.log.Warn("accept failed", "error", err)
			}
			break
		}
		s.wg.Add(1)
		s.conns.Inc()
		go s.handleConnection(conn)
	}
	s.wg.Wait()
}

// Shutdown closes the listener and signals the maintenance loop to stop.
// It does not forcibly close in-flight connections; Run drains them.
func (s *Server) Shutdown() {
	s.once.Do(func() {
		close(s.shutdown)
		_ = s.listener.Close()
	})
}

func (s *Server) maintenanceLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case now := <-ticker.C:
			s.runSweep(now)
		}
	}
}

// runSweep honors the no-overlapping-sweeps contract (spec.md §4.5): if
// the previous sweep is still in flight when the ticker fires, this tick
// is skipped rather than queued, and the next tick will try again.
func (s *Server) runSweep(now time.Time) {
	if !s.worker.TryBeginSweep() {
		s.log.Trace("maintenance sweep still in flight, skipping tick")
		return
	}
	defer s.worker.EndSweep()
	s.worker.DoWork(now)
}

// handleConnection reads one RESP command per read() call, dispatches
// it, and writes the reply, until the connection errors or closes.
// Request fragmentation across multiple reads is not handled (spec.md
// §9's explicit non-goal): a command split across TCP segments is
// decoded as whatever bytes a single read() happened to return.
func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		conn.Close()
		s.conns.Dec()
		s.wg.Done()
	}()

	sess := dispatch.NewSession()
	buf, err := s.pool.Acquire(s.pool.BaseSize())
	if err != nil {
		s.log.Error("failed to acquire connection buffer", "error", err)
		return
	}
	defer s.pool.Release(buf)

	for {
		n, err := conn.Read(buf.Bytes())
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		view := resp.Decode(buf.Bytes()[:n])
		reply := s.dispatcher.Dispatch(sess, view)

		if _, err := conn.Write(reply); err != nil {
			s.log.Warn("write failed, closing connection", "error", err)
			return
		}
	}
}
