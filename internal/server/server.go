// Package server exposes shell sessions over TCP: one engine instance
// per connection, fully independent of every other connection. The
// wire protocol is raw bytes; point telnet (or netcat in raw mode) at
// the listen address and type.
package server

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

// pollInterval paces the serve loop while a suspendable command is
// pending and no input is being drawn.
const pollInterval = 20 * time.Millisecond

// Config carries everything a connection's shell needs.
type Config struct {
	Addr     string
	Hostname string
	Banner   string
	Tree     *cmdtree.Directory
	Creds    engine.Credentials // nil disables access control
	// NewExecutor builds a fresh executor per connection so command
	// bodies never share state across sessions.
	NewExecutor func() engine.Executor
}

// Server accepts connections and runs one shell per connection.
type Server struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, log: log}
}

// ListenAndServe blocks, serving until the listener fails.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	log := s.log.With(zap.String("remote", conn.RemoteAddr().String()))
	log.Info("connected")

	w := newWire(conn)
	sh := engine.New(s.cfg.Tree, w, s.cfg.NewExecutor(),
		engine.WithLogger(log),
		engine.WithHostname(s.cfg.Hostname),
		engine.WithBanner(s.cfg.Banner),
		engine.WithCredentials(s.cfg.Creds),
	)

	sh.Activate()
	w.flush()

	for {
		if sh.Step() {
			continue
		}
		w.flush()
		if sh.Busy() {
			// Suspendable command in flight: poll, draw no input.
			time.Sleep(pollInterval)
			continue
		}
		b, ok := <-w.in
		if !ok {
			break
		}
		w.unread(b)
	}

	sh.Deactivate()
	log.Info("disconnected")
}

// wire adapts a net.Conn to the engine's non-blocking one-byte
// transport contract. A reader goroutine feeds the in channel; writes
// are buffered and flushed whenever the shell goes idle.
type wire struct {
	in   chan byte
	out  *bufio.Writer
	pend byte
	has  bool
}

func newWire(conn net.Conn) *wire {
	w := &wire{
		in:  make(chan byte, 256),
		out: bufio.NewWriter(conn),
	}
	go func() {
		defer close(w.in)
		r := bufio.NewReader(conn)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			w.in <- b
		}
	}()
	return w
}

func (w *wire) ReadByte() (byte, bool) {
	if w.has {
		w.has = false
		return w.pend, true
	}
	select {
	case b, ok := <-w.in:
		if !ok {
			return 0, false
		}
		return b, true
	default:
		return 0, false
	}
}

func (w *wire) WriteByte(b byte) {
	_ = w.out.WriteByte(b)
}

func (w *wire) unread(b byte) {
	w.pend, w.has = b, true
}

func (w *wire) flush() {
	_ = w.out.Flush()
}
