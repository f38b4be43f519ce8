package game

import (
	"strconv"
	"strings"

	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/objective"
)

// PlayCard plays the current player's card at handIdx onto the community combo.
// It reports whether anything changed: out of range indices, illegal cards, a pending
// discard and a finished match all leave the state untouched.
func (m *Match) PlayCard(handIdx int) bool {
	if m.GameOver() || m.MustDiscard {
		return false
	}

	p := m.CurrentPlayer()
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return false
	}
	card := p.Hand[handIdx]
	if !IsValidMove(m.Combo, card) {
		return false
	}

	p.Hand = removeCard(p.Hand, handIdx)

	if card.Kind == deck.End {
		m.closeCombo(p, card)
		if m.GameOver() {
			m.Revision++
			return true
		}
	} else {
		m.Combo = append(m.Combo, card)
		m.logf("%s played %s, combo is %d cards", p.Name, card, len(m.Combo))
		m.draw(p, m.rules.DrawOnPlay)
	}

	m.endTurn()
	m.Revision++
	return true
}

// Discard throws away a card from an over-full hand. It only applies while the
// current player holds more than HandSize cards.
func (m *Match) Discard(handIdx int) bool {
	if m.GameOver() || !m.MustDiscard {
		return false
	}

	p := m.CurrentPlayer()
	if len(p.Hand) <= m.rules.HandSize {
		return false
	}
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return false
	}

	card := p.Hand[handIdx]
	p.Hand = removeCard(p.Hand, handIdx)
	m.DiscardPile = append(m.DiscardPile, card)
	m.logf("%s discarded %s", p.Name, card)

	m.endTurn()
	m.Revision++
	return true
}

// Pass draws one card for the current player and hands the turn on. When nothing is
// left to draw and nobody can move, the match ends in a stalemate.
func (m *Match) Pass() bool {
	if m.GameOver() || m.MustDiscard {
		return false
	}

	p := m.CurrentPlayer()
	m.draw(p, 1)
	m.logf("%s passed and drew a card", p.Name)

	m.MustDiscard = len(p.Hand) > m.rules.HandSize
	if !m.MustDiscard && m.stalemate() {
		w := m.leader()
		m.WinnerID = w.ID
		m.logf("No cards left and no moves possible! %s wins with %d points", w.Name, w.Score)
		m.Revision++
		return true
	}

	m.endTurn()
	m.Revision++
	return true
}

func (m *Match) closeCombo(p *Player, closer deck.Card) {
	full := closedCombo(m.Combo, closer)
	score := ScoreCombo(full, p.Objective)

	p.Score += score.Total
	p.History = append(p.History, ClosedCombo{Cards: full, Score: score})
	m.DiscardPile = append(m.DiscardPile, full...)
	m.Combo = []deck.Card{}

	m.logf("%s closed %s", p.Name, describeClose(full, score))

	m.draw(p, m.rules.DrawOnClose)

	if p.Score >= m.rules.WinScore {
		m.WinnerID = p.ID
		m.MustDiscard = false
		m.logf("%s wins with %d points!", p.Name, p.Score)
		return
	}

	switch m.rules.Rotation {
	case FinalTurnWindow:
		// one handover per seat brings the turn back round to the closer
		m.closingTurns = len(m.Players)
		m.logf("Last turns! Objectives change when play returns to %s", p.Name)
	default:
		m.advanceRound()
	}
}

// endTurn settles the hand limit and passes the turn on unless a discard is owed
func (m *Match) endTurn() {
	m.MustDiscard = len(m.CurrentPlayer().Hand) > m.rules.HandSize
	if m.MustDiscard {
		return
	}

	m.CurrentPlayerIdx = (m.CurrentPlayerIdx + 1) % len(m.Players)

	if m.closingTurns > 0 {
		m.closingTurns--
		if m.closingTurns == 0 {
			m.advanceRound()
		}
	}
}

func (m *Match) advanceRound() {
	m.Round++
	for _, p := range m.Players {
		p.Objective = objective.Pick(m.rng)
	}
	m.logf("New round! Everyone has a new objective")
}

func (m *Match) draw(p *Player, count int) {
	for i := 0; i < count; i++ {
		m.reshuffle()
		c, ok := m.Deck.Draw()
		if !ok {
			return
		}
		p.Hand = append(p.Hand, c)
	}
}

func (m *Match) reshuffle() {
	if len(m.Deck) > 0 || len(m.DiscardPile) == 0 {
		return
	}
	d := deck.Deck(m.DiscardPile)
	d.Shuffle(m.rng)
	m.Deck = d
	m.DiscardPile = []deck.Card{}
	m.logf("The deck ran out! The discard pile was shuffled in")
}

func (m *Match) stalemate() bool {
	if len(m.Deck) > 0 || len(m.DiscardPile) > 0 {
		return false
	}
	for _, p := range m.Players {
		if canMove(m.Combo, p.Hand) {
			return false
		}
	}
	return true
}

// leader is the highest scorer; ties go to the earliest seat
func (m *Match) leader() *Player {
	best := m.Players[0]
	for _, p := range m.Players[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best
}

func removeCard(cards []deck.Card, idx int) []deck.Card {
	out := make([]deck.Card, 0, len(cards)-1)
	out = append(out, cards[:idx]...)
	return append(out, cards[idx+1:]...)
}

func describeClose(combo []deck.Card, b Breakdown) string {
	values := make([]string, len(combo))
	for i, c := range combo {
		values[i] = strconv.Itoa(c.Value)
	}
	s := "(" + strings.Join(values, "+") + " = " + strconv.Itoa(b.Base)
	if b.ObjectiveMet {
		s += " +" + strconv.Itoa(b.Bonus) + " bonus"
	}
	return s + ") for " + strconv.Itoa(b.Total) + " points"
}
