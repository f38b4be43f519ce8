// Package ai picks moves for computer seats.
package ai

import (
	"math"
	"math/rand"
	"time"

	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/game"
)

// Action is what a computer seat wants to do with its turn
type Action int

const (
	Play Action = iota
	Discard
	Pass
)

// Move is the decision made by a computer seat
type Move struct {
	Action Action
	Index  int
}

// ChooseMove picks the current player's card. It returns false when no card in
// hand can be played, in which case the caller should pass.
func ChooseMove(m *game.Match, tier Tier, rng *rand.Rand) (int, bool) {
	p := m.CurrentPlayer()
	valid := m.LegalMoves()
	if len(valid) == 0 {
		return -1, false
	}

	if idx, ok := winningClose(m, p, valid); ok {
		return idx, true
	}

	if tier == Easy {
		return chooseEasy(m, p, valid, rng), true
	}

	best := bestScored(m, p, valid, tuningFor(tier))

	if tier == Normal && rng.Float64() < normalMistakeRate && len(valid) > 1 {
		return valid[rng.Intn(len(valid))], true
	}

	return best, true
}

// ChooseDiscard picks the first of the lowest value cards in hand
func ChooseDiscard(hand []deck.Card) int {
	if len(hand) == 0 {
		return -1
	}
	idx := 0
	for i, c := range hand {
		if c.Value < hand[idx].Value {
			idx = i
		}
	}
	return idx
}

// winningClose finds the first END that takes the player to the win score
func winningClose(m *game.Match, p *game.Player, valid []int) (int, bool) {
	for _, i := range valid {
		c := p.Hand[i]
		if c.Kind != deck.End {
			continue
		}
		if p.Score+m.ScoreClose(p, c).Total >= m.Rules().WinScore {
			return i, true
		}
	}
	return -1, false
}

func chooseEasy(m *game.Match, p *game.Player, valid []int, rng *rand.Rand) int {
	if rng.Float64() < easyRandomRate {
		return valid[rng.Intn(len(valid))]
	}

	if len(m.Combo) >= easyCloseMinCombo {
		for _, i := range valid {
			if p.Hand[i].Kind != deck.End {
				continue
			}
			if rng.Float64() < easyCloseRate {
				return i
			}
			break
		}
	}

	return valid[0]
}

// bestScored returns the highest weighted move; the first found wins a tie
func bestScored(m *game.Match, p *game.Player, valid []int, tn Tuning) int {
	best, bestScore := valid[0], math.MinInt
	for _, i := range valid {
		s := scoreMove(m, p, p.Hand[i], tn)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func scoreMove(m *game.Match, p *game.Player, c deck.Card, tn Tuning) int {
	comboLen := len(m.Combo)

	if comboLen == 0 {
		if c.Kind != deck.Start {
			return 0
		}
		return tn.OpeningBase + (4-c.Value)*tn.OpeningLowValue
	}

	s := 0
	switch c.Kind {
	case deck.End:
		b := m.ScoreClose(p, c)
		switch {
		case comboLen >= 4:
			s += tn.CloseLong
		case comboLen >= 3:
			s += tn.CloseMedium
		case comboLen >= 2:
			s += tn.CloseShort
		default:
			s += tn.CloseBare
		}
		if b.ObjectiveMet {
			s += tn.ObjectiveBonus
		}
		if p.Score+b.Total >= m.Rules().WinScore-tn.NearWinMargin {
			s += tn.NearWinBonus
		}
		if tn.LingerLength > 0 && comboLen >= tn.LingerLength {
			s += tn.LingerBonus
		}
		s += b.Total * tn.PointsMultiplier

	case deck.Extension:
		switch {
		case comboLen <= 1:
			s += tn.ExtendSmall
		case comboLen == 2:
			s += tn.ExtendPair
		default:
			s += tn.ExtendLong
		}
		if c.Value <= 2 {
			s += tn.ExtendLowValue
		}
		if holdsEnd(p.Hand) {
			s += tn.HoldingEnd
		} else {
			s += tn.MissingEnd
		}
		s += (4 - c.Value) * tn.ExtendValueWeight
	}

	return s
}

func holdsEnd(hand []deck.Card) bool {
	for _, c := range hand {
		if c.Kind == deck.End {
			return true
		}
	}
	return false
}

// Strategist plays a computer seat at a fixed tier
type Strategist struct {
	Tier Tier
	rng  *rand.Rand
}

// NewStrategist returns a strategist drawing from rng; a nil rng is seeded from the clock
func NewStrategist(tier Tier, rng *rand.Rand) *Strategist {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Strategist{Tier: tier, rng: rng}
}

// Decide returns the next action for the current seat: a discard when one is owed,
// otherwise a card to play, otherwise a pass.
func (s *Strategist) Decide(m *game.Match) Move {
	if m.MustDiscard {
		return Move{Action: Discard, Index: ChooseDiscard(m.CurrentPlayer().Hand)}
	}
	if idx, ok := ChooseMove(m, s.Tier, s.rng); ok {
		return Move{Action: Play, Index: idx}
	}
	return Move{Action: Pass, Index: -1}
}

// Apply performs a decided move on the match
func (mv Move) Apply(m *game.Match) bool {
	switch mv.Action {
	case Play:
		return m.PlayCard(mv.Index)
	case Discard:
		return m.Discard(mv.Index)
	case Pass:
		return m.Pass()
	}
	return false
}
