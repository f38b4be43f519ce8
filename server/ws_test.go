package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/protocol"
	"github.com/minaorangina/cadena/room"
	"github.com/minaorangina/cadena/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isState(msg protocol.OutboundMessage) bool {
	return msg.State != nil
}

func TestWSConnection(t *testing.T) {
	t.Run("refuses unknown rooms and players", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		_, res, err := websocket.DefaultDialer.Dial(makeWSUrl(httpServer.URL, "unknown", created.PlayerID), nil)
		require.Error(t, err)
		assertStatus(t, res.StatusCode, http.StatusNotFound)

		_, res, err = websocket.DefaultDialer.Dial(makeWSUrl(httpServer.URL, created.RoomID, "stranger"), nil)
		require.Error(t, err)
		assertStatus(t, res.StatusCode, http.StatusUnauthorized)
	})

	t.Run("closes an empty lobby when its last player leaves", func(t *testing.T) {
		roomStore := store.NewInMemoryRoomStore()
		server := newTestServer(Options{Store: roomStore})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		ws := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID))
		ws.Close()

		assert.Eventually(t, func() bool {
			return roomStore.FindRoom(created.RoomID) == nil
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestWSGame(t *testing.T) {
	t.Run("host starts a match against a computer and takes a turn", func(t *testing.T) {
		server := newTestServer(Options{})
		defer server.cancel()
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton", Computers: 1})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		ws := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID))
		defer ws.Close()

		t.Log("Given a room with one human and one computer")
		t.Log("When the host sends Start")
		sendMessage(t, ws, protocol.InboundMessage{Command: protocol.Start})

		first := readUntil(t, ws, isState)
		t.Log("Then the host receives their view of the match")
		require.Len(t, first.State.Players, 2)
		assert.Equal(t, created.PlayerID, first.State.ViewerID)
		assert.Equal(t, created.PlayerID, first.PlayerID)
		for _, p := range first.State.Players {
			if p.ID == created.PlayerID {
				assert.Len(t, p.Hand, 5)
				assert.NotNil(t, p.Objective)
				continue
			}
			assert.True(t, p.Computer)
			assert.Nil(t, p.Objective)
			for _, c := range p.Hand {
				assert.Equal(t, "hidden", c.ID)
			}
		}

		t.Log("And once the computer has moved it is the host's turn")
		hostUp := func(msg protocol.OutboundMessage) bool {
			return isState(msg) && (msg.State.CurrentPlayerID == created.PlayerID || msg.State.WinnerID != "")
		}
		mine := first
		if !hostUp(first) {
			mine = readUntil(t, ws, hostUp)
		}
		if mine.State.WinnerID != "" {
			return
		}

		intent := protocol.InboundMessage{Command: protocol.Pass}
		if mine.State.MustDiscard {
			intent = protocol.InboundMessage{Command: protocol.Discard, Index: 0}
		}
		sendMessage(t, ws, intent)

		next := readMessage(t, ws)
		t.Log("Then the move is applied and a newer view is sent")
		require.Equal(t, protocol.State, next.Command, next.Error)
		assert.Greater(t, next.State.Revision, mine.State.Revision)
	})

	t.Run("intents out of turn are refused", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		conns := map[string]*websocket.Conn{
			created.PlayerID: mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID)),
			joined.PlayerID:  mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID)),
		}
		for _, ws := range conns {
			defer ws.Close()
			mustBeSeated(t, ws)
		}

		sendMessage(t, conns[created.PlayerID], protocol.InboundMessage{Command: protocol.Start})
		state := readUntil(t, conns[joined.PlayerID], isState)

		waiting := created.PlayerID
		if state.State.CurrentPlayerID == created.PlayerID {
			waiting = joined.PlayerID
		}

		t.Log("When the player who is not up tries to pass")
		sendMessage(t, conns[waiting], protocol.InboundMessage{Command: protocol.Pass})

		msg := readUntil(t, conns[waiting], func(msg protocol.OutboundMessage) bool {
			return msg.Command == protocol.Error
		})
		t.Log("Then they are told it is not their turn")
		assert.Equal(t, room.ErrNotYourTurn.Error(), msg.Error)
		assert.Equal(t, waiting, msg.PlayerID)
	})

	t.Run("only the host can start", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		ws := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID))
		defer ws.Close()

		sendMessage(t, ws, protocol.InboundMessage{Command: protocol.Start})

		msg := readMessage(t, ws)
		assert.Equal(t, protocol.Error, msg.Command)
		assert.Equal(t, room.ErrNotHost.Error(), msg.Error)
	})

	t.Run("a player cannot speak for someone else", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		ws := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID))
		defer ws.Close()

		sendMessage(t, ws, protocol.InboundMessage{PlayerID: created.PlayerID, Command: protocol.Start})

		msg := readMessage(t, ws)
		assert.Equal(t, room.ErrNotHost.Error(), msg.Error)
	})
}

func TestWSLobby(t *testing.T) {
	t.Run("the host changes computer seats and difficulty", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		host := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID))
		defer host.Close()
		guest := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID))
		defer guest.Close()
		mustBeSeated(t, guest)

		t.Log("When the host asks for three computers")
		sendMessage(t, host, protocol.InboundMessage{Command: protocol.SetComputers, Count: 3})

		msg := readMessage(t, guest)
		t.Log("Then every member hears about it")
		require.Equal(t, protocol.RoomUpdate, msg.Command, msg.Error)
		require.NotNil(t, msg.Lobby)
		assert.Equal(t, 3, msg.Lobby.Computers)
		assert.Equal(t, joined.PlayerID, msg.PlayerID)

		sendMessage(t, host, protocol.InboundMessage{Command: protocol.SetDifficulty, Difficulty: "experta"})
		msg = readUntil(t, host, func(msg protocol.OutboundMessage) bool {
			return msg.Lobby != nil && msg.Lobby.Difficulty == ai.Expert.String()
		})
		assert.Equal(t, protocol.RoomUpdate, msg.Command)

		t.Log("And the room summary shows the new settings")
		summary := getSummary(t, server, created.RoomID)
		assert.Equal(t, 3, summary.Computers)
		assert.Equal(t, ai.Expert.String(), summary.Difficulty)
	})

	t.Run("other players cannot change the lobby", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton", Computers: 1})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		guest := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID))
		defer guest.Close()

		sendMessage(t, guest, protocol.InboundMessage{Command: protocol.SetComputers, Count: 3})
		msg := readMessage(t, guest)
		assert.Equal(t, protocol.Error, msg.Command)
		assert.Equal(t, room.ErrNotHost.Error(), msg.Error)

		sendMessage(t, guest, protocol.InboundMessage{Command: protocol.SetDifficulty, Difficulty: "easy"})
		msg = readMessage(t, guest)
		assert.Equal(t, room.ErrNotHost.Error(), msg.Error)

		summary := getSummary(t, server, created.RoomID)
		assert.Equal(t, 1, summary.Computers)
		assert.Equal(t, ai.Normal.String(), summary.Difficulty)
	})

	t.Run("an unknown difficulty is refused", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		host := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID))
		defer host.Close()

		sendMessage(t, host, protocol.InboundMessage{Command: protocol.SetDifficulty, Difficulty: "impossible"})
		msg := readMessage(t, host)
		assert.Equal(t, protocol.Error, msg.Command)
		assert.Contains(t, msg.Error, ai.ErrUnknownTier.Error())
	})

	t.Run("members hear when someone leaves the lobby", func(t *testing.T) {
		server := newTestServer(Options{})
		created := mustCreateGame(t, server, NewGameReq{Name: "Elton"})
		joined := mustJoinGame(t, server, JoinGameReq{RoomID: created.RoomID, Name: "Stevie"})
		httpServer := httptest.NewServer(server)
		defer httpServer.Close()

		host := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, created.PlayerID))
		guest := mustDialWS(t, makeWSUrl(httpServer.URL, created.RoomID, joined.PlayerID))
		defer guest.Close()
		mustBeSeated(t, host)
		mustBeSeated(t, guest)

		t.Log("When the host disconnects")
		host.Close()

		msg := readUntil(t, guest, func(msg protocol.OutboundMessage) bool {
			return msg.Command == protocol.RoomUpdate
		})
		t.Log("Then the remaining player becomes host")
		assert.Equal(t, joined.PlayerID, msg.Lobby.HostID)
		require.Len(t, msg.Lobby.Players, 1)
	})
}
