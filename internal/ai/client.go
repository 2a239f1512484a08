// Package ai is the one-shot client for the external drawing scorer. Each
// round the server connects to the scorer's local endpoint, sends the target
// word, candidate list and stroke history as a length-prefixed JSON payload,
// and reads one reply with the same framing.
//
// Framing is a u32 length in network byte order followed by the body, both
// directions. The call is best-effort: any failure is reported and the round
// proceeds without a parked result.
package ai

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/udisondev/drawguess/internal/game"
)

// Failure families the caller branches on. Dial failures map to
// ErrUnavailable, deadline hits to ErrTimeout, framing and JSON problems to
// ErrMalformed.
var (
	ErrUnavailable = errors.New("ai service unavailable")
	ErrTimeout     = errors.New("ai service timeout")
	ErrMalformed   = errors.New("ai reply malformed")
)

// maxReplyLen bounds the reply body so a broken scorer cannot make the
// server allocate unbounded memory.
const maxReplyLen = 1 << 20

// Client scores drawings against a configured endpoint.
type Client struct {
	addr    string
	timeout time.Duration
}

// NewClient creates a scoring client for host:port with a per-call deadline
// covering dial, write and read.
func NewClient(host string, port int, timeout time.Duration) *Client {
	return &Client{
		addr:    fmt.Sprintf("%s:%d", host, port),
		timeout: timeout,
	}
}

// request is the payload the scorer expects.
type request struct {
	Target     string   `json:"target"`
	Candidates []string `json:"candidates"`
	Drawing    []point  `json:"drawing"`
}

type point struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Action int `json:"action"`
}

// reply mirrors the scorer's JSON. Missing keys fall back to the zero value;
// an absent predicted_word becomes "Unknown".
type reply struct {
	PredictedWord *string `json:"predicted_word"`
	Score         int     `json:"score"`
	IsCorrect     int     `json:"is_correct"`
}

// Score sends one scoring request and parses the reply. The drawing slice is
// a snapshot; the caller must not hold any registry lock across this call.
func (c *Client) Score(ctx context.Context, target string, candidates []string, drawing []game.Point) (game.AIResult, error) {
	req := request{
		Target:     target,
		Candidates: candidates,
		Drawing:    make([]point, len(drawing)),
	}
	if req.Candidates == nil {
		req.Candidates = []string{}
	}
	for i, p := range drawing {
		req.Drawing[i] = point{X: int(p.X), Y: int(p.Y), Action: int(p.Action)}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return game.AIResult{}, fmt.Errorf("encoding request: %w", err)
	}

	var d net.Dialer
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, err := d.DialContext(dialCtx, "tcp", c.addr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return game.AIResult{}, fmt.Errorf("%w: dialing %s: %v", ErrTimeout, c.addr, err)
		}
		return game.AIResult{}, fmt.Errorf("%w: dialing %s: %v", ErrUnavailable, c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return game.AIResult{}, fmt.Errorf("setting deadline: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return game.AIResult{}, wrapIO("writing request length", err)
	}
	if _, err := conn.Write(body); err != nil {
		return game.AIResult{}, wrapIO("writing request body", err)
	}

	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return game.AIResult{}, wrapIO("reading reply length", err)
	}
	replyLen := binary.BigEndian.Uint32(lenBuf[:])
	if replyLen == 0 || replyLen > maxReplyLen {
		return game.AIResult{}, fmt.Errorf("%w: reply length %d", ErrMalformed, replyLen)
	}

	replyBody := make([]byte, replyLen)
	if _, err := io.ReadFull(conn, replyBody); err != nil {
		return game.AIResult{}, wrapIO("reading reply body", err)
	}

	var rep reply
	if err := json.Unmarshal(replyBody, &rep); err != nil {
		return game.AIResult{}, fmt.Errorf("%w: decoding reply: %v", ErrMalformed, err)
	}

	predicted := "Unknown"
	if rep.PredictedWord != nil {
		predicted = *rep.PredictedWord
	}
	return game.AIResult{
		PredictedWord: predicted,
		Score:         clampScore(rep.Score),
		IsCorrect:     clampFlag(rep.IsCorrect),
	}, nil
}

// wrapIO classifies a socket failure as timeout or unavailability.
func wrapIO(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func clampScore(score int) byte {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return byte(score)
}

func clampFlag(v int) byte {
	if v != 0 {
		return 1
	}
	return 0
}
