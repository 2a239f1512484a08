package constants

import "time"

// Draw & Guess Protocol Constants
//
// This file contains the protocol-level constants shared by the wire codec,
// the room engine and the transport dispatchers. The values are fixed by the
// client protocol and must not change without a matching client update.

// Frame Structure Constants
const (
	// PacketHeaderSize is the fixed message header size: type(1) + clientID(1) + dataLen(2, little-endian uint16)
	PacketHeaderSize = 4

	// MaxDataLen is the largest legal message body. The biggest frame in the
	// protocol is ROOM_LIST (341 bytes); anything above this is malformed.
	MaxDataLen = 512
)

// Fixed-Width String Field Sizes
//
// All string fields on the wire are fixed-width and NUL-terminated within
// their width, so the usable content is one byte less than the field size.
const (
	// NicknameLen is the nickname field size in JOIN, CREATE_ROOM, JOIN_ROOM, ROOM_CREATED, ROOM_JOINED
	NicknameLen = 32

	// RoomNameLen is the room name field size in CREATE_ROOM, ROOM_CREATED, ROOM_JOINED, ROOM_LIST
	RoomNameLen = 32

	// WordLen is the target word field size in GAME_START, GAME_END, HISTORY_DATA and the AI predicted word
	WordLen = 32

	// GuessLen is the guess field size in GUESS and HISTORY_DATA
	GuessLen = 64

	// GameTimeLen is the formatted timestamp field size in HISTORY_DATA
	GameTimeLen = 32
)

// Capacity Constants
const (
	// MaxClients is the global client slot count; client ids are [0, MaxClients)
	MaxClients = 10

	// MaxRooms is the room slot count; room ids are [0, MaxRooms)
	MaxRooms = 10

	// MaxRoomClients is the member cap per room
	MaxRoomClients = 10

	// MaxDrawingPoints is the per-round stroke history cap. Points beyond it
	// are still forwarded to peers but not recorded for AI scoring.
	MaxDrawingPoints = 4096
)

// Stroke Action Values
//
// Carried in the action byte of PAINT_DATA datagrams. Values above
// ActionClear are undefined and dropped.
const (
	// ActionRegister latches the sender's datagram address, nothing else
	ActionRegister = 0

	// ActionBegin is pen down at (x, y)
	ActionBegin = 1

	// ActionContinue is a line from the previous point to (x, y)
	ActionContinue = 2

	// ActionClear wipes the canvas and is forwarded even outside PAINTING
	ActionClear = 3
)

// Round Constants
const (
	// NoWinner is the winner_id sentinel in GAME_END when no guess matched
	NoWinner = 255

	// PaintTimeout is how long the painter has before the round moves to guessing
	PaintTimeout = 60 * time.Second

	// GuessTimeout is how long guessers have before the round ends
	GuessTimeout = 30 * time.Second

	// HistoryLimit is how many records a HISTORY_REQ returns, newest first
	HistoryLimit = 50
)
