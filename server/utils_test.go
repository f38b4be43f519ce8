package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/cadena/protocol"
	"github.com/minaorangina/cadena/room"
)

func newTestServer(opts Options) *GameServer {
	return NewServer(opts)
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct status, got %d, want %d", got, want)
	}
}

func mustMakeJson(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func newCreateGameRequest(t *testing.T, data NewGameReq) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodPost, "/new", bytes.NewReader(mustMakeJson(t, data)))
}

func newJoinGameRequest(t *testing.T, data JoinGameReq) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodPost, "/join", bytes.NewReader(mustMakeJson(t, data)))
}

func mustCreateGame(t *testing.T, server *GameServer, data NewGameReq) PendingGameRes {
	t.Helper()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newCreateGameRequest(t, data))
	if response.Code != http.StatusCreated {
		t.Fatalf("could not create game: %d %s", response.Code, response.Body.String())
	}

	var res PendingGameRes
	if err := json.NewDecoder(response.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res
}

func mustJoinGame(t *testing.T, server *GameServer, data JoinGameReq) PendingGameRes {
	t.Helper()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newJoinGameRequest(t, data))
	if response.Code != http.StatusOK {
		t.Fatalf("could not join game: %d %s", response.Code, response.Body.String())
	}

	var res PendingGameRes
	if err := json.NewDecoder(response.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res
}

func makeWSUrl(serverURL, roomID, playerID string) string {
	url := "ws" + strings.TrimPrefix(serverURL, "http")
	return url + "/ws?room_id=" + roomID + "&player_id=" + playerID
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("could not open a ws connection on %s %v", url, err)
	}
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) protocol.OutboundMessage {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg protocol.OutboundMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("could not read from ws: %v", err)
	}
	return msg
}

// readUntil reads messages until one satisfies match
func readUntil(t *testing.T, ws *websocket.Conn, match func(protocol.OutboundMessage) bool) protocol.OutboundMessage {
	t.Helper()

	for i := 0; i < 500; i++ {
		msg := readMessage(t, ws)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("no matching message")
	return protocol.OutboundMessage{}
}

func sendMessage(t *testing.T, ws *websocket.Conn, msg protocol.InboundMessage) {
	t.Helper()

	if err := ws.WriteJSON(msg); err != nil {
		t.Fatalf("could not write to ws: %v", err)
	}
}

func getSummary(t *testing.T, server *GameServer, roomID string) room.Summary {
	t.Helper()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/room/"+roomID, nil))
	assertStatus(t, response.Code, http.StatusOK)

	var summary room.Summary
	if err := json.NewDecoder(response.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	return summary
}

// mustBeSeated waits until the server is reading from ws, which happens only
// once the connection is attached to its room
func mustBeSeated(t *testing.T, ws *websocket.Conn) {
	t.Helper()

	sendMessage(t, ws, protocol.InboundMessage{Command: protocol.Null})
	readUntil(t, ws, func(msg protocol.OutboundMessage) bool {
		return msg.Command == protocol.Error
	})
}
