package game

import (
	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/objective"
)

// PlayerView is one seat as seen by a particular viewer
type PlayerView struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Computer  bool                 `json:"computer"`
	Hand      []deck.Card          `json:"hand"`
	HandSize  int                  `json:"handSize"`
	Objective *objective.Objective `json:"objective,omitempty"`
	Score     int                  `json:"score"`
	History   []ClosedCombo        `json:"history"`
}

// View is a read-only projection of a match for one viewer
type View struct {
	ViewerID         string       `json:"viewerID"`
	Players          []PlayerView `json:"players"`
	CurrentPlayerIdx int          `json:"currentPlayerIdx"`
	CurrentPlayerID  string       `json:"currentPlayerID"`
	Combo            []deck.Card  `json:"combo"`
	DeckCount        int          `json:"deckCount"`
	DiscardCount     int          `json:"discardCount"`
	Stage            string       `json:"stage"`
	MustDiscard      bool         `json:"mustDiscard"`
	WinnerID         string       `json:"winnerID,omitempty"`
	Round            int          `json:"round"`
	Revision         int          `json:"revision"`
	Rules            string       `json:"rules"`
	HandSize         int          `json:"handLimit"`
	WinScore         int          `json:"winScore"`
	// Moves lists the viewer's playable hand indices when it is their turn
	Moves []int    `json:"moves,omitempty"`
	Log   []string `json:"log"`
}

// View projects the match for viewerID. The viewer sees their own hand and objective;
// every other hand, computer seats included, is reduced to hidden placeholders and
// every other objective is withheld. Unknown viewers see no hands at all.
func (m *Match) View(viewerID string) View {
	v := View{
		ViewerID:         viewerID,
		Players:          make([]PlayerView, 0, len(m.Players)),
		CurrentPlayerIdx: m.CurrentPlayerIdx,
		CurrentPlayerID:  m.CurrentPlayer().ID,
		Combo:            copyCards(m.Combo),
		DeckCount:        len(m.Deck),
		DiscardCount:     len(m.DiscardPile),
		Stage:            m.Stage().String(),
		MustDiscard:      m.MustDiscard,
		WinnerID:         m.WinnerID,
		Round:            m.Round,
		Revision:         m.Revision,
		Rules:            m.rules.Name,
		HandSize:         m.rules.HandSize,
		WinScore:         m.rules.WinScore,
		Log:              append([]string{}, m.Log...),
	}

	for _, p := range m.Players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Computer: p.Computer,
			HandSize: len(p.Hand),
			Score:    p.Score,
			History:  copyHistory(p.History),
		}

		if p.ID == viewerID {
			pv.Hand = copyCards(p.Hand)
			obj := p.Objective
			pv.Objective = &obj
		} else {
			pv.Hand = hiddenCards(len(p.Hand))
		}

		v.Players = append(v.Players, pv)
	}

	if !m.GameOver() && !m.MustDiscard && m.CurrentPlayer().ID == viewerID {
		v.Moves = m.LegalMoves()
	}

	return v
}

func hiddenCards(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = deck.HiddenCard()
	}
	return cards
}

func copyCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}

func copyHistory(h []ClosedCombo) []ClosedCombo {
	out := make([]ClosedCombo, len(h))
	for i, cc := range h {
		out[i] = ClosedCombo{Cards: copyCards(cc.Cards), Score: cc.Score}
	}
	return out
}
