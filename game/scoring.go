package game

import (
	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/objective"
)

// Breakdown is how a closed combo scored
type Breakdown struct {
	Base         int    `json:"base"`
	Bonus        int    `json:"bonus"`
	ObjectiveID  string `json:"objectiveID"`
	ObjectiveMet bool   `json:"objectiveMet"`
	Total        int    `json:"total"`
}

// ScoreCombo scores a closed combo (END card included) against the closer's objective.
// Every card is worth its face value; a met objective adds its bonus.
func ScoreCombo(combo []deck.Card, obj objective.Objective) Breakdown {
	b := Breakdown{ObjectiveID: obj.ID}
	for _, c := range combo {
		b.Base += c.Value
	}
	if obj.Met(combo) {
		b.ObjectiveMet = true
		b.Bonus = obj.Bonus
	}
	b.Total = b.Base + b.Bonus
	return b
}

// ScoreClose scores what p would earn by closing the current combo with card
func (m *Match) ScoreClose(p *Player, card deck.Card) Breakdown {
	return ScoreCombo(closedCombo(m.Combo, card), p.Objective)
}

func closedCombo(combo []deck.Card, closer deck.Card) []deck.Card {
	full := make([]deck.Card, 0, len(combo)+1)
	full = append(full, combo...)
	return append(full, closer)
}
