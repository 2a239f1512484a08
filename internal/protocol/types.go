package protocol

import "fmt"

// Message type ids carried in the header Type byte. The values are fixed by
// the deployed client and must not be renumbered.
const (
	MsgClientJoin    = 1  // C→S nickname announcement
	MsgClientReady   = 2  // C→S ready toggle
	MsgGameStart     = 3  // S→C round start, header client id = recipient
	MsgPaintData     = 4  // datagram, both directions
	MsgGuessSubmit   = 5  // C→S guess
	MsgGameEnd       = 6  // S→C round result
	MsgClientLeave   = 7  // C→S disconnect request
	MsgError         = 8  // S→C request refused, header client id = requester
	MsgPainterFinish = 9  // both directions, empty body
	MsgHistoryReq    = 10 // C→S history query
	MsgHistoryData   = 11 // S→C one history record
	MsgHistoryEnd    = 12 // S→C history terminator
	MsgRoomListReq   = 13 // C→S room list query
	MsgRoomList      = 14 // S→C room table
	MsgCreateRoom    = 15 // C→S create and seat
	MsgJoinRoom      = 16 // C→S join by room id
	MsgLeaveRoom     = 17 // C→S leave by room id
	MsgRoomCreated   = 18 // S→C create confirmation, requester only
	MsgRoomJoined    = 19 // S→C join confirmation, requester only
	MsgRoomLeft      = 20 // S→C leave confirmation, requester only
	MsgAiGuessReq    = 21 // reserved, never sent by either side
	MsgAiGuessResult = 22 // S→C parked scoring result after GAME_END
)

// TypeName returns a readable name for a message type, for logs.
func TypeName(t byte) string {
	switch t {
	case MsgClientJoin:
		return "CLIENT_JOIN"
	case MsgClientReady:
		return "CLIENT_READY"
	case MsgGameStart:
		return "GAME_START"
	case MsgPaintData:
		return "PAINT_DATA"
	case MsgGuessSubmit:
		return "GUESS_SUBMIT"
	case MsgGameEnd:
		return "GAME_END"
	case MsgClientLeave:
		return "CLIENT_LEAVE"
	case MsgError:
		return "ERROR"
	case MsgPainterFinish:
		return "PAINTER_FINISH"
	case MsgHistoryReq:
		return "HISTORY_REQ"
	case MsgHistoryData:
		return "HISTORY_DATA"
	case MsgHistoryEnd:
		return "HISTORY_END"
	case MsgRoomListReq:
		return "ROOM_LIST_REQ"
	case MsgRoomList:
		return "ROOM_LIST"
	case MsgCreateRoom:
		return "CREATE_ROOM"
	case MsgJoinRoom:
		return "JOIN_ROOM"
	case MsgLeaveRoom:
		return "LEAVE_ROOM"
	case MsgRoomCreated:
		return "ROOM_CREATED"
	case MsgRoomJoined:
		return "ROOM_JOINED"
	case MsgRoomLeft:
		return "ROOM_LEFT"
	case MsgAiGuessReq:
		return "AI_GUESS_REQ"
	case MsgAiGuessResult:
		return "AI_GUESS_RESULT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}
