package game

import (
	"time"

	"github.com/udisondev/drawguess/internal/constants"
)

// member is a seated client with its per-round flags. The flags live here,
// not in the client registry, and are reset on round boundaries.
type member struct {
	clientID   byte
	nickname   string
	ready      bool
	isPainter  bool
	hasGuessed bool
	guess      string
}

// room is one room slot. A slot with an empty name is free.
type room struct {
	id   byte
	name string

	members [constants.MaxRoomClients]*member

	state        State
	painterID    byte
	word         string
	readyCount   int
	totalClients int
	paintStart   time.Time
	guessStart   time.Time
	gameID       int32

	strokes []Point
	parked  *AIResult
}

func (r *room) active() bool {
	return r.name != ""
}

// memberSlot returns the slot index holding clientID, or -1.
func (r *room) memberSlot(clientID byte) int {
	for i, m := range r.members {
		if m != nil && m.clientID == clientID {
			return i
		}
	}
	return -1
}

// seat places a client in the first free slot. Returns false when full.
func (r *room) seat(clientID byte, nickname string) bool {
	for i, m := range r.members {
		if m == nil {
			r.members[i] = &member{clientID: clientID, nickname: nickname}
			r.totalClients++
			return true
		}
	}
	return false
}

// unseat removes a client, adjusting the ready count. Returns false when the
// client was not a member.
func (r *room) unseat(clientID byte) bool {
	slot := r.memberSlot(clientID)
	if slot < 0 {
		return false
	}
	if r.members[slot].ready {
		r.readyCount--
	}
	r.members[slot] = nil
	r.totalClients--
	return true
}

// memberIDs returns the seated client ids in slot order.
func (r *room) memberIDs() []byte {
	ids := make([]byte, 0, r.totalClients)
	for _, m := range r.members {
		if m != nil {
			ids = append(ids, m.clientID)
		}
	}
	return ids
}

// peerIDs returns the seated client ids in slot order, excluding one client.
func (r *room) peerIDs(exclude byte) []byte {
	ids := make([]byte, 0, r.totalClients)
	for _, m := range r.members {
		if m != nil && m.clientID != exclude {
			ids = append(ids, m.clientID)
		}
	}
	return ids
}

// allGuessersDone reports whether every seated non-painter has guessed.
func (r *room) allGuessersDone() bool {
	for _, m := range r.members {
		if m != nil && !m.isPainter && !m.hasGuessed {
			return false
		}
	}
	return true
}

// winner applies the decision law: the winner is the lowest slot whose guess
// equals the word byte-for-byte, or constants.NoWinner. The second result is
// the total number of submitted guesses.
func (r *room) winner() (byte, byte) {
	winnerID := byte(constants.NoWinner)
	var guessCount byte
	for _, m := range r.members {
		if m == nil || !m.hasGuessed {
			continue
		}
		guessCount++
		if winnerID == constants.NoWinner && m.guess == r.word {
			winnerID = m.clientID
		}
	}
	return winnerID, guessCount
}

// resetRound clears everything round-scoped and returns the room to WAITING.
// Membership survives.
func (r *room) resetRound() {
	r.state = StateWaiting
	r.painterID = 0
	r.word = ""
	r.readyCount = 0
	r.paintStart = time.Time{}
	r.guessStart = time.Time{}
	r.gameID = 0
	r.strokes = nil
	r.parked = nil
	for _, m := range r.members {
		if m != nil {
			m.ready = false
			m.isPainter = false
			m.hasGuessed = false
			m.guess = ""
		}
	}
}

// destroy frees the slot: name cleared, game reset, members dropped.
func (r *room) destroy() {
	r.resetRound()
	r.name = ""
	r.totalClients = 0
	for i := range r.members {
		r.members[i] = nil
	}
}
