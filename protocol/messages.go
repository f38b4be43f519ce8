package protocol

import (
	"fmt"

	"github.com/minaorangina/cadena/game"
)

type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a message from a player to their room
type InboundMessage struct {
	PlayerID string `json:"playerID"`
	Command  Cmd    `json:"command"`
	// Index is the hand position for PlayCard and Discard
	Index int `json:"index"`
	// Count is the number of computer seats for SetComputers
	Count int `json:"count,omitempty"`
	// Difficulty is the tier name for SetDifficulty
	Difficulty string `json:"difficulty,omitempty"`
}

// Lobby is the room as it stands before the match starts
type Lobby struct {
	RoomID     string   `json:"room_id"`
	HostID     string   `json:"host_id"`
	Players    []Player `json:"players"`
	Computers  int      `json:"computers"`
	Difficulty string   `json:"difficulty"`
	Rules      string   `json:"rules"`
}

// OutboundMessage is a message from a room to one player
type OutboundMessage struct {
	PlayerID string     `json:"playerID"`
	Command  Cmd        `json:"command"`
	Message  string     `json:"message,omitempty"`
	Joiner   *Player    `json:"joiner,omitempty"`
	Lobby    *Lobby     `json:"lobby,omitempty"`
	State    *game.View `json:"state,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// NewStateMessage wraps a view for its viewer. A finished match is reported as GameOver.
func NewStateMessage(view game.View) OutboundMessage {
	msg := OutboundMessage{
		PlayerID: view.ViewerID,
		Command:  State,
		State:    &view,
	}
	if view.WinnerID != "" {
		msg.Command = GameOver
		msg.Message = winnerMessage(view)
	}
	return msg
}

func NewJoinerMessage(recipientID string, joiner Player) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  NewJoiner,
		Message:  fmt.Sprintf("%s has joined the game!", joiner.Name),
		Joiner:   &joiner,
	}
}

func NewLobbyMessage(recipientID string, lobby Lobby) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  RoomUpdate,
		Lobby:    &lobby,
	}
}

func NewHasStartedMessage(recipientID string) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  HasStarted,
		Message:  "The game has started!",
	}
}

func NewErrorMessage(recipientID string, err error) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  Error,
		Error:    err.Error(),
	}
}

func winnerMessage(view game.View) string {
	for _, p := range view.Players {
		if p.ID == view.WinnerID {
			if p.ID == view.ViewerID {
				return fmt.Sprintf("You win with %d points!", p.Score)
			}
			return fmt.Sprintf("%s wins with %d points!", p.Name, p.Score)
		}
	}
	return "Game over!"
}
