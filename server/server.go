// Package server carries the line transport and the per-connection command
// loop on top of the chat core.
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"telnet-irc/domain"
	"telnet-irc/messages"
)

// frameLimit bounds one protocol line, longer lines drop the connection.
const frameLimit = 8192

// Server accepts TCP connections and runs one command loop per connection.
type Server struct {
	router *Router
	log    *slog.Logger

	listener net.Listener
	conns    sync.Map // net.Conn -> struct{}
	wg       sync.WaitGroup
}

func New(router *Router, log *slog.Logger) *Server {
	return &Server{router: router, log: log}
}

// Listen binds the server. The listener is closed when ctx is cancelled,
// which unblocks Serve.
func (s *Server) Listen(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.log.Info("listening", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
		s.conns.Range(func(key, _ any) bool {
			_ = key.(net.Conn).Close()
			return true
		})
	}()
	return nil
}

// Addr reports the bound address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until the listener closes, then waits for the
// per-connection goroutines to drain.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			break
		}
		s.conns.Store(conn, struct{}{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
	s.wg.Wait()
	return nil
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Listen(ctx, addr); err != nil {
		return err
	}
	return s.Serve()
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.conns.Delete(conn)
	}()

	log := s.log.With("remote", conn.RemoteAddr().String())
	log.Debug("connection opened")

	sink := &connSink{conn: conn}
	sess := &Session{}

	if err := sink.WriteLine(messages.Get("welcome")); err != nil {
		return
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, frameLimit), frameLimit)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if s.handleLine(sess, sink, line, log) {
			log.Debug("connection closed by client")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("read failed", "error", err)
	}

	// Dropped without /leave: run the same cleanup path so the session and
	// the room permit are released.
	s.router.Dispatch(sess, sink, domain.LeaveCommand{})
	log.Debug("connection dropped")
}

// handleLine decodes and dispatches one line. Internal panics are recovered
// here and rendered as a generic error line; the connection stays open.
func (s *Server) handleLine(sess *Session, sink *connSink, line string, log *slog.Logger) (closed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("handler panic", "panic", rec)
			_ = sink.WriteLine(fmt.Sprintf("Error: %v\r\n", rec))
		}
	}()

	cmd, err := Decode(line)
	if err != nil {
		_ = sink.WriteLine(fmt.Sprintf("Error: %s\r\n", err))
		return false
	}
	return s.router.Dispatch(sess, sink, cmd)
}

// connSink adapts a net.Conn to the contract.Sink the chat core writes to.
// The mutex keeps concurrent broadcast writes from interleaving.
type connSink struct {
	mu   sync.Mutex
	conn net.Conn
}

func (c *connSink) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.conn, line)
	return err
}
