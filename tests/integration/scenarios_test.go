package integration

import (
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/protocol"
)

// startRound drives two fresh clients through room setup and READY and
// returns them with their wire ids. The first client is the painter.
func startRound(t *testing.T, e *env) (painter, guesser *testClient, painterID, guesserID byte) {
	t.Helper()

	painter = connect(t, e)
	painter.send(protocol.MsgCreateRoom, createRoomBody("R", "alice"))
	created := painter.expect(protocol.MsgRoomCreated)
	roomID := created.body[0]
	require.EqualValues(t, 1, created.body[1+constants.RoomNameLen+constants.NicknameLen], "num_players after create")

	guesser = connect(t, e)
	guesser.send(protocol.MsgJoinRoom, joinRoomBody(roomID, "bob"))
	joined := guesser.expect(protocol.MsgRoomJoined)
	require.EqualValues(t, 2, joined.body[1+constants.RoomNameLen+constants.NicknameLen], "num_players after join")

	painter.send(protocol.MsgClientReady, nil)
	guesser.send(protocol.MsgClientReady, nil)

	fp := painter.expect(protocol.MsgGameStart)
	fg := guesser.expect(protocol.MsgGameStart)
	painterID, guesserID = fp.h.ClientID, fg.h.ClientID

	// Both frames carry the same painter id and word; the painter pick is
	// pinned to the room creator.
	require.Equal(t, painterID, fp.body[0])
	require.Equal(t, painterID, fg.body[0])
	require.Equal(t, "apple", trimField(fp.body[1:1+constants.WordLen]))
	require.Equal(t, "apple", trimField(fg.body[1:1+constants.WordLen]))
	paintTime := binary.LittleEndian.Uint32(fp.body[1+constants.WordLen:])
	require.EqualValues(t, testPaintDeadline.Seconds(), paintTime)

	return painter, guesser, painterID, guesserID
}

func TestHappyPathTwoPlayers(t *testing.T) {
	e := startServer(t, scriptedAI(t, "apple", 87, 1))
	painter, guesser, painterID, guesserID := startRound(t, e)

	// Stroke fan-out: the guesser receives the painter's datagram verbatim.
	painter.register(painterID)
	guesser.register(guesserID)
	time.Sleep(100 * time.Millisecond) // let the register datagrams latch
	painter.sendStroke(painterID, 100, 200, constants.ActionBegin, 255, 0, 0)

	raw, err := guesser.recvDatagram(2 * time.Second)
	require.NoError(t, err, "stroke was not forwarded")
	h, body, err := protocol.ParseDatagram(raw)
	require.NoError(t, err)
	assert.EqualValues(t, protocol.MsgPaintData, h.Type)
	assert.Equal(t, painterID, h.ClientID)
	assert.EqualValues(t, 100, binary.LittleEndian.Uint16(body[0:2]))
	assert.EqualValues(t, 200, binary.LittleEndian.Uint16(body[2:4]))

	painter.send(protocol.MsgPainterFinish, nil)
	painter.expect(protocol.MsgPainterFinish)
	guesser.expect(protocol.MsgPainterFinish)

	// Give the scripted AI time to answer so the result is parked before
	// the guess ends the round.
	time.Sleep(500 * time.Millisecond)

	guesser.send(protocol.MsgGuessSubmit, fixedField("apple", constants.GuessLen))

	end := guesser.expect(protocol.MsgGameEnd)
	assert.Equal(t, "apple", trimField(end.body[:constants.WordLen]))
	assert.Equal(t, guesserID, end.body[constants.WordLen], "winner id")
	assert.EqualValues(t, 1, end.body[constants.WordLen+1], "guess count")

	aiFrame := guesser.expect(protocol.MsgAiGuessResult)
	assert.Equal(t, "apple", trimField(aiFrame.body[:constants.WordLen]))
	assert.EqualValues(t, 87, aiFrame.body[constants.WordLen])
	assert.EqualValues(t, 1, aiFrame.body[constants.WordLen+1])

	painter.expect(protocol.MsgGameEnd)
	painter.expect(protocol.MsgAiGuessResult)

	rows := e.repo.rows()
	assert.Len(t, rows, 2)
	assert.Contains(t, rows, "alice:(Painter)")
	assert.Contains(t, rows, "bob:apple")
}

func TestGuessTimeout(t *testing.T) {
	e := startServer(t, deadPort(t))
	painter, guesser, _, _ := startRound(t, e)

	painter.send(protocol.MsgPainterFinish, nil)
	painter.expect(protocol.MsgPainterFinish)
	guesser.expect(protocol.MsgPainterFinish)

	// Nobody guesses; the timer ends the round at the guess deadline.
	end := guesser.expect(protocol.MsgGameEnd)
	assert.EqualValues(t, constants.NoWinner, end.body[constants.WordLen])
	assert.EqualValues(t, 0, end.body[constants.WordLen+1])

	rows := e.repo.rows()
	assert.Contains(t, rows, "bob:(No Guess)")
}

func TestWrongGuess(t *testing.T) {
	e := startServer(t, deadPort(t))
	painter, guesser, _, _ := startRound(t, e)

	painter.send(protocol.MsgPainterFinish, nil)
	painter.expect(protocol.MsgPainterFinish)
	guesser.expect(protocol.MsgPainterFinish)

	guesser.send(protocol.MsgGuessSubmit, fixedField("banana", constants.GuessLen))

	end := guesser.expect(protocol.MsgGameEnd)
	assert.Equal(t, "apple", trimField(end.body[:constants.WordLen]))
	assert.EqualValues(t, constants.NoWinner, end.body[constants.WordLen])
	assert.EqualValues(t, 1, end.body[constants.WordLen+1])
}

func TestPainterDisconnectDuringPainting(t *testing.T) {
	e := startServer(t, deadPort(t))
	painter, guesser, _, _ := startRound(t, e)

	// The painter drops mid-round; the room rides the deadlines out.
	painter.conn.Close()

	guesser.expect(protocol.MsgPainterFinish)
	end := guesser.expect(protocol.MsgGameEnd)
	assert.EqualValues(t, constants.NoWinner, end.body[constants.WordLen])
	assert.EqualValues(t, 0, end.body[constants.WordLen+1])
}

func TestCreateRoomWhenTableFull(t *testing.T) {
	e := startServer(t, deadPort(t))

	// Fill the room table through the engine with synthetic members.
	for i := 0; i < constants.MaxRooms; i++ {
		_, err := e.srv.Rooms().CreateRoom(byte(100+i), fmt.Sprintf("r%d", i), "ghost")
		require.NoError(t, err)
	}

	c := connect(t, e)
	c.send(protocol.MsgCreateRoom, createRoomBody("overflow", "alice"))
	errFrame := c.expect(protocol.MsgError)
	assert.EqualValues(t, 0, errFrame.h.DataLen)

	// No room was mutated by the refused create.
	c.send(protocol.MsgRoomListReq, nil)
	list := c.expect(protocol.MsgRoomList)
	require.EqualValues(t, constants.MaxRooms, list.body[0])
	entrySize := 1 + constants.RoomNameLen + 1
	for i := 0; i < constants.MaxRooms; i++ {
		entry := list.body[1+i*entrySize:]
		assert.Equal(t, fmt.Sprintf("r%d", i), trimField(entry[1:1+constants.RoomNameLen]))
	}
}

func TestAIUnavailable(t *testing.T) {
	e := startServer(t, deadPort(t))
	painter, guesser, _, guesserID := startRound(t, e)

	painter.send(protocol.MsgPainterFinish, nil)
	painter.expect(protocol.MsgPainterFinish)
	guesser.expect(protocol.MsgPainterFinish)

	guesser.send(protocol.MsgGuessSubmit, fixedField("apple", constants.GuessLen))

	end := guesser.expect(protocol.MsgGameEnd)
	assert.Equal(t, guesserID, end.body[constants.WordLen])

	// The round proceeds identically except no AI frame follows.
	guesser.expectSilence(time.Second)
}
