package protocol

import (
	"encoding/json"
	"fmt"
)

// Cmd represents a command
type Cmd int

const (
	Null Cmd = iota
	Error
	NewJoiner
	Start
	HasStarted
	// player intents
	PlayCard
	Discard
	Pass
	// game updates
	State
	GameOver
	// lobby settings, host only
	SetComputers
	SetDifficulty
	RoomUpdate
)

var CmdNames = map[Cmd]string{
	Null:          "Null",
	Error:         "Error",
	NewJoiner:     "NewJoiner",
	Start:         "Start",
	HasStarted:    "HasStarted",
	PlayCard:      "PlayCard",
	Discard:       "Discard",
	Pass:          "Pass",
	State:         "State",
	GameOver:      "GameOver",
	SetComputers:  "SetComputers",
	SetDifficulty: "SetDifficulty",
	RoomUpdate:    "RoomUpdate",
}

var NameToCmd = map[string]Cmd{
	"Null":          Null,
	"Error":         Error,
	"NewJoiner":     NewJoiner,
	"Start":         Start,
	"HasStarted":    HasStarted,
	"PlayCard":      PlayCard,
	"Discard":       Discard,
	"Pass":          Pass,
	"State":         State,
	"GameOver":      GameOver,
	"SetComputers":  SetComputers,
	"SetDifficulty": SetDifficulty,
	"RoomUpdate":    RoomUpdate,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// IsIntent reports whether the command is a move a seated player makes
func (c Cmd) IsIntent() bool {
	return c == PlayCard || c == Discard || c == Pass
}

// IsLobbySetting reports whether the command changes the room before the match starts
func (c Cmd) IsLobbySetting() bool {
	return c == SetComputers || c == SetDifficulty
}

func (c Cmd) MarshalJSON() ([]byte, error) {
	name, ok := CmdNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown command %d", int(c))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts a command name or its number
func (c *Cmd) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		cmd, ok := NameToCmd[name]
		if !ok {
			return fmt.Errorf("unknown command %q", name)
		}
		*c = cmd
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("command must be a name or a number: %w", err)
	}
	if _, ok := CmdNames[Cmd(n)]; !ok {
		return fmt.Errorf("unknown command %d", n)
	}
	*c = Cmd(n)
	return nil
}
