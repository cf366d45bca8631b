package server

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-lab/errors"
	"trivia-lab/observability"
	"trivia-lab/protocol"
	"trivia-lab/services"
)

// pollInterval bounds every blocking socket operation so connection
// goroutines stay responsive to context cancellation.
const pollInterval = 500 * time.Millisecond

const writeTimeout = 5 * time.Second

// Server owns the listening socket and one goroutine pair per accepted
// connection: a reader that drains complete frames into the dispatcher and
// a writer that flushes the bounded outbound queue. All state mutation goes
// through the mutex-guarded GameStore, which preserves the single-writer
// invariant the command handlers rely on.
type Server struct {
	addr           string
	connBufferSize int

	listener   net.Listener
	store      *services.GameStore
	dispatcher *Dispatcher
	metrics    *observability.Metrics
	log        *slog.Logger
	handlers   sync.WaitGroup
}

func NewServer(
	addr string,
	connBufferSize int,
	store *services.GameStore,
	dispatcher *Dispatcher,
	metrics *observability.Metrics,
	log *slog.Logger,
) *Server {
	return &Server{
		addr:           addr,
		connBufferSize: connBufferSize,
		store:          store,
		dispatcher:     dispatcher,
		metrics:        metrics,
		log:            log,
	}
}

// Listen binds the listening socket. Separated from Run so callers can
// learn the bound address (port 0 in tests) before serving.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.log.Info("Server is up and listening", "address", listener.Addr().String())
	return nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Run accepts connections until the context is canceled, then waits for
// every connection handler to finish its cleanup (including the persisting
// logout) before returning. A failure on one connection never stops the
// accept loop.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Listener closed, waiting for connections to drain")
				s.handlers.Wait()
				return nil
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}

		s.metrics.IncrConnectionsAccepted()
		s.handlers.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection runs the read/dispatch loop for one client. Every exit
// path funnels through the same cleanup as an explicit logout: release the
// session (persisting), then close the socket.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.handlers.Done()

	sessionID := uuid.New().String()
	log := s.log.With("session", sessionID, "peer", conn.RemoteAddr().String())
	log.Info("New connection")

	outbound := make(chan string, s.connBufferSize)
	writerDone := make(chan struct{})
	go s.writeLoop(conn, outbound, writerDone, log)

	defer func() {
		s.store.MarkLoggedOut(sessionID)
		close(outbound)
		<-writerDone
		_ = conn.Close()
		s.metrics.IncrConnectionsClosed()
		log.Info("Connection closed")
	}()

	// Inbound bytes accumulate here so frames coalesced into one TCP
	// segment are all decoded, and a frame split across segments is
	// completed on a later read.
	buf := make([]byte, 0, protocol.MaxMessageLength)
	chunk := make([]byte, protocol.MaxMessageLength)

	for {
		if ctx.Err() != nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			var netErr net.Error
			if goerrors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !goerrors.Is(err, io.EOF) {
				log.Warn("Read failed", "error", err)
			}
			return
		}

		keepOpen, err := s.drainFrames(&buf, sessionID, outbound, log)
		if err != nil {
			// A corrupt frame cannot be resynchronized on a stream
			// socket; drop the connection silently.
			s.metrics.IncrFramesRejected()
			log.Warn("Dropping connection on malformed frame", "error", err)
			return
		}
		if !keepOpen {
			return
		}
	}
}

// drainFrames decodes every complete frame in buf, dispatches it and queues
// the reply. Returns keepOpen=false after a LOGOUT.
func (s *Server) drainFrames(buf *[]byte, sessionID string, outbound chan<- string, log *slog.Logger) (bool, error) {
	for {
		cmd, data, err := protocol.ParseMessage(*buf)
		if goerrors.Is(err, errors.ErrIncompleteFrame) {
			if len(*buf) > protocol.MaxMessageLength {
				return false, errors.ErrMalformedFrame
			}
			return true, nil
		}
		if err != nil {
			return false, err
		}

		*buf = (*buf)[protocol.HeaderLength+len(data):]
		s.metrics.IncrFramesDecoded()

		reply, keepOpen := s.dispatcher.Dispatch(sessionID, cmd, data)
		if reply != nil {
			s.enqueue(outbound, reply.Command, reply.Data, log)
		}
		if !keepOpen {
			return false, nil
		}
	}
}

// enqueue encodes a reply and appends it to the connection's outbound
// queue. Delivery is at most once: a full queue drops the reply with a
// warning instead of blocking the read loop.
func (s *Server) enqueue(outbound chan<- string, cmd, data string, log *slog.Logger) {
	frame, err := protocol.BuildMessage(cmd, data)
	if err != nil {
		log.Error("Failed to build reply", "command", cmd, "error", err)
		return
	}
	select {
	case outbound <- frame:
	default:
		s.metrics.IncrRepliesDropped()
		log.Warn("Outbound queue full, dropping reply", "command", cmd)
	}
}

// writeLoop flushes queued frames until the queue is closed or a write
// fails. Failed writes are not retried; the reader notices the dead peer on
// its next read and runs the shared cleanup path.
func (s *Server) writeLoop(conn net.Conn, outbound <-chan string, done chan<- struct{}, log *slog.Logger) {
	defer close(done)
	for frame := range outbound {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := io.WriteString(conn, frame); err != nil {
			s.metrics.IncrRepliesDropped()
			log.Warn("Write failed, dropping frame", "error", err)
			return
		}
		s.metrics.IncrRepliesSent()
	}
}
