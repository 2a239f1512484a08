package gameserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/gameserver/clientpackets"
	"github.com/udisondev/drawguess/internal/gameserver/serverpackets"
	"github.com/udisondev/drawguess/internal/protocol"
	"github.com/udisondev/drawguess/internal/store"
)

const gameTimeLayout = "2006-01-02 15:04:05"

// dispatch routes one stream message. The returned bool asks the read loop
// to close the session: a CLIENT_LEAVE, or a body that fails to decode —
// stream decoding failures are fatal to the session, like a bad header.
func (s *Server) dispatch(ctx context.Context, client *Client, h protocol.Header, body []byte) bool {
	switch h.Type {
	case protocol.MsgClientJoin:
		return s.handleJoin(client, body)

	case protocol.MsgClientReady:
		s.handleReady(ctx, client)

	case protocol.MsgPainterFinish:
		if gs, ok := s.rooms.FinishPainting(client.ID()); ok {
			s.emitGuessStart(gs)
		}

	case protocol.MsgGuessSubmit:
		return s.handleGuess(ctx, client, body)

	case protocol.MsgClientLeave:
		slog.Info("client leaving", "client", client.ID())
		return true

	case protocol.MsgHistoryReq:
		s.handleHistoryReq(ctx, client)

	case protocol.MsgRoomListReq:
		s.handleRoomList(client)

	case protocol.MsgCreateRoom:
		return s.handleCreateRoom(client, body)

	case protocol.MsgJoinRoom:
		return s.handleJoinRoom(client, body)

	case protocol.MsgLeaveRoom:
		return s.handleLeaveRoom(client, body)

	default:
		slog.Warn("unknown message type", "client", client.ID(), "type", h.Type)
	}
	return false
}

func (s *Server) handleJoin(client *Client, body []byte) bool {
	p, err := clientpackets.ParseJoin(body)
	if err != nil {
		slog.Warn("bad JOIN body, dropping session", "client", client.ID(), "err", err)
		return true
	}
	client.SetNickname(p.Nickname)
	slog.Info("client joined", "client", client.ID(), "nickname", p.Nickname)
	return false
}

// handleReady counts the ready vote and, when it completes the room, starts
// the round. The word is picked outside the room lock; StartRound
// re-validates in case the room changed underneath the query.
func (s *Server) handleReady(ctx context.Context, client *Client) {
	if !s.rooms.MarkReady(client.ID()) {
		return
	}

	word, err := s.repo.PickWord(ctx)
	if err != nil {
		slog.Error("word pick failed", "client", client.ID(), "err", err)
		word = store.DefaultWord
	}

	si, ok := s.rooms.StartRound(client.ID(), word, game.NewGameID())
	if !ok {
		return
	}
	s.emitStart(si)
}

func (s *Server) handleGuess(ctx context.Context, client *Client, body []byte) bool {
	p, err := clientpackets.ParseGuess(body)
	if err != nil {
		slog.Warn("bad GUESS body, dropping session", "client", client.ID(), "err", err)
		return true
	}

	accepted, re := s.rooms.SubmitGuess(client.ID(), p.Guess)
	if !accepted {
		slog.Debug("guess rejected", "client", client.ID())
		return false
	}
	if re != nil {
		s.emitRoundEnd(ctx, re)
	}
	return false
}

func (s *Server) handleHistoryReq(ctx context.Context, client *Client) {
	entries, err := s.repo.ListHistory(ctx, client.Nickname(), constants.HistoryLimit)
	if err != nil {
		slog.Error("history query failed", "client", client.ID(), "err", err)
	}
	for i := range entries {
		e := &entries[i]
		pkt := serverpackets.HistoryData{
			GameID:    e.GameID,
			Word:      e.Word,
			UserGuess: e.UserGuess,
			GameTime:  e.GameTime,
		}
		s.sendTo(client.ID(), pkt.Write())
	}
	s.sendTo(client.ID(), serverpackets.HistoryEnd())
}

func (s *Server) handleRoomList(client *Client) {
	infos := s.rooms.RoomList()
	pkt := serverpackets.RoomList{Rooms: make([]serverpackets.RoomEntry, 0, len(infos))}
	for _, info := range infos {
		pkt.Rooms = append(pkt.Rooms, serverpackets.RoomEntry{
			RoomID:     info.ID,
			Name:       info.Name,
			NumPlayers: info.NumPlayers,
		})
	}
	s.sendTo(client.ID(), pkt.Write())
}

func (s *Server) handleCreateRoom(client *Client, body []byte) bool {
	p, err := clientpackets.ParseCreateRoom(body)
	if err != nil {
		slog.Warn("bad CREATE_ROOM body, dropping session", "client", client.ID(), "err", err)
		return true
	}

	info, err := s.rooms.CreateRoom(client.ID(), p.RoomName, p.Nickname)
	if err != nil {
		slog.Info("create room refused", "client", client.ID(), "err", err)
		s.sendTo(client.ID(), serverpackets.Error(client.ID()))
		return false
	}

	client.SetNickname(p.Nickname)
	slog.Info("room created", "client", client.ID(), "room", info.ID, "name", info.Name)
	ack := serverpackets.RoomAck{
		RoomID:     info.ID,
		RoomName:   info.Name,
		Nickname:   p.Nickname,
		NumPlayers: info.NumPlayers,
	}
	s.sendTo(client.ID(), ack.WriteCreated())
	return false
}

func (s *Server) handleJoinRoom(client *Client, body []byte) bool {
	p, err := clientpackets.ParseJoinRoom(body)
	if err != nil {
		slog.Warn("bad JOIN_ROOM body, dropping session", "client", client.ID(), "err", err)
		return true
	}

	info, err := s.rooms.JoinRoom(p.RoomID, client.ID(), p.Nickname)
	if err != nil {
		slog.Info("join room refused", "client", client.ID(), "room", p.RoomID, "err", err)
		s.sendTo(client.ID(), serverpackets.Error(client.ID()))
		return false
	}

	client.SetNickname(p.Nickname)
	slog.Info("room joined", "client", client.ID(), "room", info.ID)
	ack := serverpackets.RoomAck{
		RoomID:     info.ID,
		RoomName:   info.Name,
		Nickname:   p.Nickname,
		NumPlayers: info.NumPlayers,
	}
	s.sendTo(client.ID(), ack.WriteJoined())
	return false
}

func (s *Server) handleLeaveRoom(client *Client, body []byte) bool {
	p, err := clientpackets.ParseLeaveRoom(body)
	if err != nil {
		slog.Warn("bad LEAVE_ROOM body, dropping session", "client", client.ID(), "err", err)
		return true
	}

	s.rooms.LeaveRoom(p.RoomID, client.ID())
	// The ack echoes the requested room id even when it was stale.
	s.sendTo(client.ID(), serverpackets.RoomLeft(p.RoomID))
	return false
}

// emitStart sends GAME_START to every member, each frame headed with the
// recipient's own id. This is the only frame a client learns its id from.
func (s *Server) emitStart(si *game.StartInfo) {
	slog.Info("round started",
		"room", si.RoomID, "game", si.GameID, "painter", si.PainterID)
	for _, id := range si.Members {
		pkt := serverpackets.GameStart{
			RecipientID: id,
			PainterID:   si.PainterID,
			Word:        si.Word,
			PaintTime:   si.PaintTime,
		}
		s.sendTo(id, pkt.Write())
	}
}

// emitGuessStart broadcasts PAINTER_FINISH and schedules the one AI scoring
// call of the round.
func (s *Server) emitGuessStart(gs *game.GuessStart) {
	slog.Info("guessing started", "room", gs.RoomID, "game", gs.GameID)
	s.broadcast(gs.Members, serverpackets.PainterFinish())
	go s.scoreRound(gs)
}

// scoreRound runs the AI scoring call off the room lock. A failure is
// logged and swallowed; the round simply ends without an AI_GUESS_RESULT.
func (s *Server) scoreRound(gs *game.GuessStart) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	candidates, err := s.repo.ListCandidates(ctx)
	cancel()
	if err != nil {
		slog.Warn("candidate list failed", "room", gs.RoomID, "err", err)
	}

	res, err := s.scorer.Score(context.Background(), gs.Word, candidates, gs.Strokes)
	if err != nil {
		slog.Warn("ai scoring failed", "room", gs.RoomID, "game", gs.GameID, "err", err)
		return
	}

	if !s.rooms.ParkResult(gs.RoomID, gs.GameID, res) {
		slog.Debug("ai result arrived after round end", "room", gs.RoomID, "game", gs.GameID)
	}
}

// emitRoundEnd broadcasts GAME_END, then the parked AI result if one
// arrived in time, then persists one history row per member.
func (s *Server) emitRoundEnd(ctx context.Context, re *game.RoundEnd) {
	slog.Info("round ended",
		"room", re.RoomID, "game", re.GameID,
		"winner", re.WinnerID, "guesses", re.GuessCount)

	end := serverpackets.GameEnd{
		CorrectWord: re.Word,
		WinnerID:    re.WinnerID,
		GuessCount:  re.GuessCount,
	}
	s.broadcast(re.Members, end.Write())

	if re.AI != nil {
		ai := serverpackets.AiGuessResult{
			PredictedWord: re.AI.PredictedWord,
			Score:         re.AI.Score,
			IsCorrect:     re.AI.IsCorrect,
		}
		s.broadcast(re.Members, ai.Write())
	}

	gameTime := time.Now().Format(gameTimeLayout)
	for _, rec := range re.Records {
		if err := s.repo.AppendHistory(ctx, re.GameID, re.Word, rec.Nickname, rec.UserGuess, gameTime); err != nil {
			slog.Error("history persist failed",
				"game", re.GameID, "nickname", rec.Nickname, "err", err)
		}
	}
}

// broadcast sends one frame to every listed client. A failed send is logged
// and never aborts the loop.
func (s *Server) broadcast(ids []byte, frame []byte) {
	for _, id := range ids {
		s.sendTo(id, frame)
	}
}

func (s *Server) sendTo(id byte, frame []byte) {
	c := s.clients.Get(id)
	if c == nil {
		return
	}
	if err := c.Send(frame); err != nil {
		slog.Warn("send failed", "client", id, "err", err)
	}
}
