package deck

import (
	"encoding/json"
	"fmt"
)

// Kind is the role a card plays in a combo
type Kind int

const (
	Start Kind = iota
	Extension
	End
	// Hidden stands in for a card the viewer is not allowed to see
	Hidden
)

var kindNames = []string{"START", "EXTENSION", "END", "HIDDEN"}

var nameToKind = map[string]Kind{
	"START":     Start,
	"EXTENSION": Extension,
	"END":       End,
	"HIDDEN":    Hidden,
}

// Kinds lists the playable kinds in deck-building order
var Kinds = []Kind{Start, Extension, End}

// Values lists the card values in ascending order
var Values = []int{1, 2, 3}

func (k Kind) String() string {
	if k < Start || k > Hidden {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	kind, ok := nameToKind[name]
	if !ok {
		return fmt.Errorf("unknown card kind %q", name)
	}
	*k = kind
	return nil
}

// Card is a single playing card. Cards never change once created.
type Card struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Value int    `json:"value"`
}

// NewCard constructs a card, panicking on a kind or value outside the game's range
func NewCard(id string, kind Kind, value int) Card {
	if kind < Start || kind > End {
		panic(fmt.Sprintf("card kind %d out of range", kind))
	}
	if value < Values[0] || value > Values[len(Values)-1] {
		panic(fmt.Sprintf("card value %d out of range", value))
	}
	return Card{ID: id, Kind: kind, Value: value}
}

// HiddenCard returns the placeholder shown in place of a concealed card
func HiddenCard() Card {
	return Card{ID: "hidden", Kind: Hidden}
}

func (c Card) String() string {
	return fmt.Sprintf("%s(%d)", c.Kind, c.Value)
}
