package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/udisondev/drawguess/internal/constants"
)

// Room operation errors. The session layer answers each with a single ERROR
// frame to the requester; nothing else is mutated.
var (
	ErrNoFreeRoom    = errors.New("no free room slot")
	ErrUnknownRoom   = errors.New("unknown or empty room")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("client already in a room")
	ErrBadRoomName   = errors.New("empty room name")
)

// RoomInfo is a row of the room table.
type RoomInfo struct {
	ID         byte
	Name       string
	NumPlayers byte
}

// StartInfo describes a WAITING/READY → PAINTING transition. The caller
// emits GAME_START to every listed member, each frame headed with the
// recipient's own id.
type StartInfo struct {
	RoomID    byte
	GameID    int32
	PainterID byte
	Word      string
	PaintTime uint32 // seconds, for the GAME_START body
	Members   []byte // client ids in slot order
}

// GuessStart describes a PAINTING → GUESSING transition. The caller
// broadcasts PAINTER_FINISH to the members and schedules exactly one AI
// scoring call with the stroke snapshot.
type GuessStart struct {
	RoomID  byte
	GameID  int32
	Word    string
	Strokes []Point // recorded history, independent copy
	Members []byte
}

// RoundRecord is one per-member history row written at round end.
type RoundRecord struct {
	Nickname  string
	UserGuess string // literal guess, "(Painter)" or "(No Guess)"
}

// RoundEnd describes a GUESSING → FINISHED transition. The caller broadcasts
// GAME_END, then AI if parked, then persists the records. The room itself
// has already collapsed back to WAITING.
type RoundEnd struct {
	RoomID     byte
	GameID     int32
	Word       string
	WinnerID   byte
	GuessCount byte
	Members    []byte
	Records    []RoundRecord
	AI         *AIResult // parked result, consumed; nil when none arrived
}

// StrokeRoute tells the datagram dispatcher where a validated stroke goes.
type StrokeRoute struct {
	RoomID   byte
	GameID   int32
	Recorded bool   // appended to the AI history buffer
	Peers    []byte // forward targets in slot order
}

// Manager owns the room registry. All methods take the registry lock; none
// of them perform I/O, so the lock is never held across a socket or the
// database.
type Manager struct {
	mu    sync.Mutex
	rooms [constants.MaxRooms]*room

	paintTimeout time.Duration
	guessTimeout time.Duration
	pick         func(n int) int
}

// Option configures a Manager.
type Option func(*Manager)

// WithDeadlines overrides the paint and guess deadlines. Tests compress the
// clocks this way.
func WithDeadlines(paint, guess time.Duration) Option {
	return func(m *Manager) {
		m.paintTimeout = paint
		m.guessTimeout = guess
	}
}

// WithPainterPick overrides the painter selection source. pick(n) must
// return a value in [0, n).
func WithPainterPick(pick func(n int) int) Option {
	return func(m *Manager) {
		m.pick = pick
	}
}

// NewManager creates an empty room registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		paintTimeout: constants.PaintTimeout,
		guessTimeout: constants.GuessTimeout,
		pick:         rand.IntN,
	}
	for i := range m.rooms {
		m.rooms[i] = &room{id: byte(i)}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// roomOf returns the room holding clientID, or nil.
func (m *Manager) roomOf(clientID byte) *room {
	for _, r := range m.rooms {
		if r.active() && r.memberSlot(clientID) >= 0 {
			return r
		}
	}
	return nil
}

// CreateRoom allocates the first free slot, seats the creator and returns
// the new room's info.
func (m *Manager) CreateRoom(clientID byte, name, nickname string) (RoomInfo, error) {
	if name == "" {
		return RoomInfo{}, ErrBadRoomName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.roomOf(clientID) != nil {
		return RoomInfo{}, ErrAlreadyInRoom
	}

	for _, r := range m.rooms {
		if r.active() {
			continue
		}
		r.name = name
		r.state = StateWaiting
		r.seat(clientID, nickname)
		return RoomInfo{ID: r.id, Name: r.name, NumPlayers: byte(r.totalClients)}, nil
	}
	return RoomInfo{}, ErrNoFreeRoom
}

// JoinRoom seats a client in an existing room.
func (m *Manager) JoinRoom(roomID, clientID byte, nickname string) (RoomInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(roomID) >= constants.MaxRooms {
		return RoomInfo{}, ErrUnknownRoom
	}
	r := m.rooms[roomID]
	if !r.active() {
		return RoomInfo{}, ErrUnknownRoom
	}
	if m.roomOf(clientID) != nil {
		return RoomInfo{}, ErrAlreadyInRoom
	}
	if !r.seat(clientID, nickname) {
		return RoomInfo{}, ErrRoomFull
	}
	return RoomInfo{ID: r.id, Name: r.name, NumPlayers: byte(r.totalClients)}, nil
}

// LeaveRoom removes a client from the identified room. Stale ids are a
// no-op; leaving is always acknowledged.
func (m *Manager) LeaveRoom(roomID, clientID byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(roomID) >= constants.MaxRooms {
		return
	}
	r := m.rooms[roomID]
	if !r.active() {
		return
	}
	if r.unseat(clientID) && r.totalClients == 0 {
		r.destroy()
	}
}

// RemoveClient drops a disconnected client from whatever room holds it.
func (m *Manager) RemoveClient(clientID byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil {
		return
	}
	if r.unseat(clientID) && r.totalClients == 0 {
		r.destroy()
	}
}

// MarkReady records a READY from the client. The message is ignored outside
// WAITING/READY, outside a room, or when already ready. It returns true when
// the start condition holds (everyone ready, at least two members); the
// caller then picks a word and calls StartRound.
func (m *Manager) MarkReady(clientID byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil || (r.state != StateWaiting && r.state != StateReady) {
		return false
	}
	slot := r.memberSlot(clientID)
	if r.members[slot].ready {
		return false
	}

	r.members[slot].ready = true
	r.readyCount++
	if r.state == StateWaiting {
		r.state = StateReady
	}
	return r.readyCount == r.totalClients && r.totalClients >= 2
}

// StartRound executes the READY → PAINTING transition for the room holding
// clientID. The start condition is re-validated because the word was picked
// outside the lock; a room that changed in between starts nothing.
func (m *Manager) StartRound(clientID byte, word string, gameID int32) (*StartInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil || r.state != StateReady {
		return nil, false
	}
	if r.readyCount != r.totalClients || r.totalClients < 2 {
		return nil, false
	}

	// Uniform over occupied slots at this moment.
	occupied := make([]*member, 0, r.totalClients)
	for _, mem := range r.members {
		if mem != nil {
			occupied = append(occupied, mem)
		}
	}
	painter := occupied[m.pick(len(occupied))]
	painter.isPainter = true

	r.state = StatePainting
	r.painterID = painter.clientID
	r.word = word
	r.gameID = gameID
	r.paintStart = time.Now()
	r.strokes = nil
	r.parked = nil

	return &StartInfo{
		RoomID:    r.id,
		GameID:    gameID,
		PainterID: painter.clientID,
		Word:      word,
		PaintTime: uint32(m.paintTimeout / time.Second),
		Members:   r.memberIDs(),
	}, true
}

// FinishPainting executes PAINTING → GUESSING when clientID is the current
// painter. Any other sender or state is ignored.
func (m *Manager) FinishPainting(clientID byte) (*GuessStart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil || r.state != StatePainting || r.painterID != clientID {
		return nil, false
	}
	gi := m.toGuessing(r, time.Now())
	return gi, true
}

// toGuessing flips a PAINTING room to GUESSING. Caller holds the lock.
func (m *Manager) toGuessing(r *room, now time.Time) *GuessStart {
	r.state = StateGuessing
	r.guessStart = now

	strokes := make([]Point, len(r.strokes))
	copy(strokes, r.strokes)

	return &GuessStart{
		RoomID:  r.id,
		GameID:  r.gameID,
		Word:    r.word,
		Strokes: strokes,
		Members: r.memberIDs(),
	}
}

// SubmitGuess records a guess. Painters, repeat guessers and rooms outside
// GUESSING are refused silently. When the last guesser submits, the round
// ends and the RoundEnd is returned for emission.
func (m *Manager) SubmitGuess(clientID byte, guess string) (bool, *RoundEnd) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil || r.state != StateGuessing {
		return false, nil
	}
	mem := r.members[r.memberSlot(clientID)]
	if mem.isPainter || mem.hasGuessed {
		return false, nil
	}

	mem.hasGuessed = true
	mem.guess = guess

	if !r.allGuessersDone() {
		return true, nil
	}
	return true, m.finishRound(r)
}

// finishRound executes GUESSING → FINISHED → WAITING. Caller holds the lock.
func (m *Manager) finishRound(r *room) *RoundEnd {
	winnerID, guessCount := r.winner()

	records := make([]RoundRecord, 0, r.totalClients)
	for _, mem := range r.members {
		if mem == nil {
			continue
		}
		entry := mem.guess
		switch {
		case mem.isPainter:
			entry = "(Painter)"
		case !mem.hasGuessed:
			entry = "(No Guess)"
		}
		records = append(records, RoundRecord{Nickname: mem.nickname, UserGuess: entry})
	}

	end := &RoundEnd{
		RoomID:     r.id,
		GameID:     r.gameID,
		Word:       r.word,
		WinnerID:   winnerID,
		GuessCount: guessCount,
		Members:    r.memberIDs(),
		Records:    records,
		AI:         r.parked,
	}

	r.state = StateFinished
	r.resetRound()
	return end
}

// Tick fires the deadline transitions that have expired by now. Returned
// slices are in room slot order; a room can appear in at most one of them
// per tick.
func (m *Manager) Tick(now time.Time) ([]*GuessStart, []*RoundEnd) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var guesses []*GuessStart
	var ends []*RoundEnd
	for _, r := range m.rooms {
		if !r.active() {
			continue
		}
		switch r.state {
		case StatePainting:
			if now.Sub(r.paintStart) >= m.paintTimeout {
				guesses = append(guesses, m.toGuessing(r, now))
			}
		case StateGuessing:
			if now.Sub(r.guessStart) >= m.guessTimeout {
				ends = append(ends, m.finishRound(r))
			}
		}
	}
	return guesses, ends
}

// ParkResult stores a scoring reply for emission after GAME_END. A reply for
// a round that already ended, or for a stale game id, is dropped.
func (m *Manager) ParkResult(roomID byte, gameID int32, res AIResult) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(roomID) >= constants.MaxRooms {
		return false
	}
	r := m.rooms[roomID]
	if !r.active() || r.state != StateGuessing || r.gameID != gameID {
		return false
	}
	r.parked = &res
	return true
}

// RecordStroke validates a stroke from clientID and routes it. Drawing
// actions are authorized for the painter during PAINTING; a clear is also
// forwarded during GUESSING. Only the first MaxDrawingPoints of a round are
// recorded for AI scoring; excess points still forward.
func (m *Manager) RecordStroke(clientID byte, p Point) (StrokeRoute, bool) {
	if p.Action < constants.ActionBegin || p.Action > constants.ActionClear {
		return StrokeRoute{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.roomOf(clientID)
	if r == nil || r.painterID != clientID {
		return StrokeRoute{}, false
	}
	if r.state != StatePainting && !(r.state == StateGuessing && p.Action == constants.ActionClear) {
		return StrokeRoute{}, false
	}

	recorded := false
	if r.state == StatePainting && len(r.strokes) < constants.MaxDrawingPoints {
		r.strokes = append(r.strokes, p)
		recorded = true
	}

	return StrokeRoute{
		RoomID:   r.id,
		GameID:   r.gameID,
		Recorded: recorded,
		Peers:    r.peerIDs(clientID),
	}, true
}

// RoomList snapshots the active rooms in slot order.
func (m *Manager) RoomList() []RoomInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]RoomInfo, 0, constants.MaxRooms)
	for _, r := range m.rooms {
		if r.active() {
			list = append(list, RoomInfo{ID: r.id, Name: r.name, NumPlayers: byte(r.totalClients)})
		}
	}
	return list
}
