// Package game holds the per-room state machine: membership, phase
// transitions, turn assignment, stroke history and the parked AI result.
// The package is pure state behind one mutex; callers perform all network
// and database I/O with the data the transition methods return.
package game

import (
	"math/rand/v2"
	"time"
)

// State is the phase of a room's embedded game.
type State int32

const (
	StateWaiting  State = 0 // members may come and go
	StateReady    State = 1 // at least one member is ready
	StatePainting State = 2 // painter draws, 60 s deadline
	StateGuessing State = 3 // guessers submit, 30 s deadline
	StateFinished State = 4 // transient, collapses to WAITING immediately
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateReady:
		return "READY"
	case StatePainting:
		return "PAINTING"
	case StateGuessing:
		return "GUESSING"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Point is one stroke sample as carried in PAINT_DATA.
type Point struct {
	X, Y    uint16
	Action  byte
	R, G, B byte
}

// AIResult is a scoring reply parked in a room until the round ends.
type AIResult struct {
	PredictedWord string
	Score         byte
	IsCorrect     byte
}

// HistoryEntry is one persisted round record as returned by history queries.
type HistoryEntry struct {
	GameID    int32
	Word      string
	UserGuess string
	GameTime  string
}

// NewGameID returns a fresh round tag: unix time plus a random offset,
// wrap-around accepted.
func NewGameID() int32 {
	return int32(time.Now().Unix()) + rand.Int32()
}
