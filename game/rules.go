package game

import (
	"fmt"

	"github.com/minaorangina/cadena/deck"
)

// Rotation decides when objectives are redrawn after a combo closes
type Rotation int

const (
	// RotateOnClose redraws every objective as soon as a combo closes
	RotateOnClose Rotation = iota
	// FinalTurnWindow lets every other seat take one more turn under the old
	// objectives before they are redrawn
	FinalTurnWindow
)

func (r Rotation) String() string {
	switch r {
	case RotateOnClose:
		return "rotate-on-close"
	case FinalTurnWindow:
		return "final-turn-window"
	}
	return "unknown"
}

// Rules are the balance parameters of a match
type Rules struct {
	Name        string
	HandSize    int
	WinScore    int
	DrawOnPlay  int
	DrawOnClose int
	MinPlayers  int
	MaxPlayers  int
	Composition deck.Composition
	Rotation    Rotation
}

const (
	ClassicRulesName      = "classic"
	ClosingPhaseRulesName = "closing-phase"
)

// ClassicRules is the default rule set: five card hands, first to 100, objectives
// rotate the moment a combo closes.
func ClassicRules() Rules {
	return Rules{
		Name:        ClassicRulesName,
		HandSize:    5,
		WinScore:    100,
		DrawOnPlay:  1,
		DrawOnClose: 2,
		MinPlayers:  2,
		MaxPlayers:  5,
		Composition: deck.DefaultComposition,
		Rotation:    RotateOnClose,
	}
}

// ClosingPhaseRules gives the other seats one last turn after each close
func ClosingPhaseRules() Rules {
	r := ClassicRules()
	r.Name = ClosingPhaseRulesName
	r.Rotation = FinalTurnWindow
	return r
}

// RulesByName returns a named rule set
func RulesByName(name string) (Rules, error) {
	switch name {
	case "", ClassicRulesName:
		return ClassicRules(), nil
	case ClosingPhaseRulesName:
		return ClosingPhaseRules(), nil
	}
	return Rules{}, fmt.Errorf("%w: %q", ErrUnknownRules, name)
}
