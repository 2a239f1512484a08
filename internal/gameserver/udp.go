package gameserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/gameserver/clientpackets"
	"github.com/udisondev/drawguess/internal/protocol"
	"github.com/udisondev/drawguess/internal/store"
)

// ServeUDP binds the datagram socket on the same port as the stream listener
// and runs the dispatcher until ctx is cancelled.
func (s *Server) ServeUDP(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("resolving udp %s: %w", s.cfg.Server.Addr(), err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listening udp %s: %w", addr, err)
	}
	return s.ServeDatagrams(ctx, conn)
}

// ServeDatagrams runs the datagram dispatcher on an already-bound socket.
// Used directly by tests with a loopback socket.
func (s *Server) ServeDatagrams(ctx context.Context, conn *net.UDPConn) error {
	s.mu.Lock()
	s.udpConn = conn
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	slog.Info("datagram dispatcher listening", "address", conn.LocalAddr())

	buf := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading datagram: %w", err)
		}
		s.handleDatagram(conn, buf[:n], addr)
	}
}

// handleDatagram validates one datagram, latches the sender's address,
// records the stroke and forwards the raw bytes to the painter's peers.
// Malformed or out-of-order datagrams are droppable noise, logged at Debug.
func (s *Server) handleDatagram(conn *net.UDPConn, raw []byte, addr *net.UDPAddr) {
	h, body, err := protocol.ParseDatagram(raw)
	if err != nil {
		slog.Debug("malformed datagram", "remote", addr, "err", err)
		return
	}
	if h.Type != protocol.MsgPaintData {
		slog.Debug("unexpected datagram type", "remote", addr, "type", h.Type)
		return
	}

	// Datagrams are attributed by the embedded client id only.
	client := s.clients.Get(h.ClientID)
	if client == nil {
		slog.Debug("datagram from unknown client", "remote", addr, "client", h.ClientID)
		return
	}
	client.SetUDPAddr(addr)

	p, err := clientpackets.ParsePaintData(body)
	if err != nil {
		slog.Debug("bad PAINT_DATA body", "client", h.ClientID, "err", err)
		return
	}
	if p.Action == constants.ActionRegister {
		return
	}

	route, ok := s.rooms.RecordStroke(h.ClientID, game.Point{
		X: p.X, Y: p.Y, Action: p.Action, R: p.R, G: p.G, B: p.B,
	})
	if !ok {
		return
	}

	for _, peer := range route.Peers {
		pc := s.clients.Get(peer)
		if pc == nil {
			continue
		}
		paddr := pc.UDPAddr()
		if paddr == nil {
			continue
		}
		if _, err := conn.WriteToUDP(raw, paddr); err != nil {
			slog.Warn("stroke forward failed", "client", peer, "err", err)
		}
	}

	if route.Recorded && s.telemetry != nil {
		s.telemetry.Record(store.TelemetryPoint{
			GameID: route.GameID,
			X:      p.X,
			Y:      p.Y,
			Action: p.Action,
			R:      p.R,
			G:      p.G,
			B:      p.B,
			TS:     time.Now().UnixNano(),
		})
	}
}
