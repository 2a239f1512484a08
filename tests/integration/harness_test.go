package integration

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/drawguess/internal/ai"
	"github.com/udisondev/drawguess/internal/config"
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/gameserver"
	"github.com/udisondev/drawguess/internal/protocol"
)

// Compressed deadlines keep the timeout scenarios under a few seconds while
// leaving the one-second timer granularity visible.
const (
	testPaintDeadline = 2 * time.Second
	testGuessDeadline = 2 * time.Second
)

// stubRepo is an in-memory repository so the scenarios need no database.
type stubRepo struct {
	mu      sync.Mutex
	word    string
	history []string // "<nickname>:<guess>" per appended row
}

func (r *stubRepo) PickWord(context.Context) (string, error) {
	return r.word, nil
}

func (r *stubRepo) ListCandidates(context.Context) ([]string, error) {
	return []string{r.word, "banana", "car"}, nil
}

func (r *stubRepo) AppendHistory(_ context.Context, _ int32, _, username, userGuess, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, username+":"+userGuess)
	return nil
}

func (r *stubRepo) ListHistory(context.Context, string, int) ([]game.HistoryEntry, error) {
	return nil, nil
}

func (r *stubRepo) rows() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// scriptedAI answers every scoring request with the same reply.
func scriptedAI(t *testing.T, predicted string, score, correct int) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	body, err := json.Marshal(map[string]any{
		"predicted_word": predicted,
		"score":          score,
		"is_correct":     correct,
	})
	require.NoError(t, err)
	reply := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(reply, uint32(len(body)))
	copy(reply[4:], body)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				var lenBuf [4]byte
				if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
					return
				}
				if _, err := io.CopyN(io.Discard, conn, int64(binary.BigEndian.Uint32(lenBuf[:]))); err != nil {
					return
				}
				conn.Write(reply)
			}(conn)
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

// deadPort returns a loopback port with nothing listening on it.
func deadPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

type env struct {
	srv     *gameserver.Server
	repo    *stubRepo
	tcpAddr string
	udpAddr *net.UDPAddr
}

// startServer runs a full in-process server on loopback: stream listener,
// datagram dispatcher and timer loop. The painter pick is pinned to slot 0
// so the first member of a room always paints.
func startServer(t *testing.T, aiPort int) *env {
	t.Helper()

	repo := &stubRepo{word: "apple"}
	rooms := game.NewManager(
		game.WithDeadlines(testPaintDeadline, testGuessDeadline),
		game.WithPainterPick(func(int) int { return 0 }),
	)
	scorer := ai.NewClient("127.0.0.1", aiPort, time.Second)
	srv := gameserver.NewServer(config.Default(), repo, scorer, gameserver.WithRooms(rooms))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	udp, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, loop := range []func(context.Context) error{
		func(ctx context.Context) error { return srv.Serve(ctx, ln) },
		func(ctx context.Context) error { return srv.ServeDatagrams(ctx, udp) },
		srv.RunTimer,
	} {
		wg.Add(1)
		go func(run func(context.Context) error) {
			defer wg.Done()
			run(ctx)
		}(loop)
	}
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	return &env{
		srv:     srv,
		repo:    repo,
		tcpAddr: ln.Addr().String(),
		udpAddr: udp.LocalAddr().(*net.UDPAddr),
	}
}

type frame struct {
	h    protocol.Header
	body []byte
}

// testClient is one scripted protocol participant with a stream connection
// and its own datagram socket.
type testClient struct {
	t      *testing.T
	conn   net.Conn
	udp    *net.UDPConn
	server *net.UDPAddr
	frames chan frame
}

func connect(t *testing.T, e *env) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", e.tcpAddr)
	require.NoError(t, err)
	udp, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		udp.Close()
	})

	c := &testClient{t: t, conn: conn, udp: udp, server: e.udpAddr, frames: make(chan frame, 64)}
	go func() {
		buf := make([]byte, constants.MaxDataLen)
		for {
			h, body, err := protocol.ReadMessage(conn, buf)
			if err != nil {
				close(c.frames)
				return
			}
			c.frames <- frame{h: h, body: append([]byte(nil), body...)}
		}
	}()
	return c
}

func (c *testClient) send(msgType byte, body []byte) {
	c.t.Helper()
	buf := make([]byte, constants.PacketHeaderSize+len(body))
	protocol.PutHeader(buf, protocol.Header{Type: msgType, DataLen: uint16(len(body))})
	copy(buf[constants.PacketHeaderSize:], body)
	_, err := c.conn.Write(buf)
	require.NoError(c.t, err)
}

// expect waits for the next frame and requires the given type.
func (c *testClient) expect(msgType byte) frame {
	c.t.Helper()
	f := c.next()
	require.Equalf(c.t, msgType, f.h.Type,
		"expected %s, got %s", protocol.TypeName(msgType), protocol.TypeName(f.h.Type))
	return f
}

func (c *testClient) next() frame {
	c.t.Helper()
	select {
	case f, ok := <-c.frames:
		require.True(c.t, ok, "stream closed while waiting for a frame")
		return f
	case <-time.After(8 * time.Second):
		c.t.Fatal("timed out waiting for a frame")
		return frame{}
	}
}

// expectSilence requires that no frame arrives within d.
func (c *testClient) expectSilence(d time.Duration) {
	c.t.Helper()
	select {
	case f, ok := <-c.frames:
		if ok {
			c.t.Fatalf("unexpected frame %s", protocol.TypeName(f.h.Type))
		}
	case <-time.After(d):
	}
}

// register latches this client's datagram address on the server.
func (c *testClient) register(clientID byte) {
	c.t.Helper()
	c.sendStroke(clientID, 0, 0, constants.ActionRegister, 0, 0, 0)
}

func (c *testClient) sendStroke(clientID byte, x, y uint16, action, r, g, b byte) {
	c.t.Helper()
	buf := make([]byte, constants.PacketHeaderSize+8)
	protocol.PutHeader(buf, protocol.Header{Type: protocol.MsgPaintData, ClientID: clientID, DataLen: 8})
	binary.LittleEndian.PutUint16(buf[4:], x)
	binary.LittleEndian.PutUint16(buf[6:], y)
	buf[8] = action
	buf[9] = r
	buf[10] = g
	buf[11] = b
	_, err := c.udp.WriteToUDP(buf, c.server)
	require.NoError(c.t, err)
}

func (c *testClient) recvDatagram(timeout time.Duration) ([]byte, error) {
	c.t.Helper()
	c.udp.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 2048)
	n, _, err := c.udp.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func fixedField(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func createRoomBody(room, nick string) []byte {
	return append(fixedField(room, constants.RoomNameLen), fixedField(nick, constants.NicknameLen)...)
}

func joinRoomBody(roomID byte, nick string) []byte {
	return append([]byte{roomID}, fixedField(nick, constants.NicknameLen)...)
}

// trimField cuts a fixed-width wire field at its NUL terminator.
func trimField(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
