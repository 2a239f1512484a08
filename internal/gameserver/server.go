package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/drawguess/internal/config"
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/protocol"
)

// Server runs both transports of the draw-and-guess protocol on one port:
// the reliable stream for session messages and the datagram socket for
// stroke fan-out.
type Server struct {
	cfg       config.Config
	repo      Repository
	scorer    Scorer
	telemetry Telemetry

	rooms   *game.Manager
	clients *ClientManager

	mu       sync.Mutex
	listener net.Listener
	udpConn  *net.UDPConn
}

// Option configures a Server.
type Option func(*Server)

// WithRooms substitutes the room engine; tests inject one with compressed
// deadlines.
func WithRooms(m *game.Manager) Option {
	return func(s *Server) {
		s.rooms = m
	}
}

// WithTelemetry attaches a stroke telemetry sink. Without one, recorded
// strokes feed the AI buffer only.
func WithTelemetry(t Telemetry) Option {
	return func(s *Server) {
		s.telemetry = t
	}
}

// NewServer creates a Server. repo and scorer are required; the room engine
// defaults to production deadlines.
func NewServer(cfg config.Config, repo Repository, scorer Scorer, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		repo:    repo,
		scorer:  scorer,
		rooms:   game.NewManager(),
		clients: NewClientManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the address the stream listener is bound to.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Rooms returns the room engine. Exposed for the timer loop tests.
func (s *Server) Rooms() *game.Manager {
	return s.rooms
}

// ServeTCP binds the stream listener and runs the accept loop until ctx is
// cancelled.
func (s *Server) ServeTCP(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from the given listener. Used directly by tests
// with a loopback listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("draw server listening", "address", ln.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			slog.Error("accept failed", "err", err)
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "err", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
				slog.Warn("set keepalive period failed", "err", err)
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	client, err := s.clients.Allocate(conn)
	if err != nil {
		slog.Warn("connection refused", "remote", conn.RemoteAddr(), "err", err)
		conn.Close()
		return
	}

	defer func() {
		s.rooms.RemoveClient(client.ID())
		s.clients.Release(client.ID())
		client.Close()
		slog.Info("client disconnected", "client", client.ID())
	}()

	go func() {
		<-ctx.Done()
		client.Close()
	}()

	slog.Info("client connected", "client", client.ID(), "remote", client.IP())

	buf := make([]byte, constants.MaxDataLen)
	for {
		h, body, err := protocol.ReadMessage(conn, buf)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				slog.Debug("stream closed", "client", client.ID())
			case errors.Is(err, protocol.ErrMalformed):
				slog.Warn("malformed frame, dropping session", "client", client.ID(), "err", err)
			case ctx.Err() != nil:
			default:
				slog.Warn("read failed", "client", client.ID(), "err", err)
			}
			return
		}

		if closeConn := s.dispatch(ctx, client, h, body); closeConn {
			return
		}
	}
}
