package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/objective"
)

var (
	ErrTooFewPlayers   = errors.New("not enough players")
	ErrTooManyPlayers  = errors.New("too many players")
	ErrEmptyPlayerID   = errors.New("player id must not be empty")
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrDeckTooSmall    = errors.New("deck too small to deal every hand")
	ErrUnknownRules    = errors.New("unknown rule set")
)

// Stage is where a match is in its turn cycle
type Stage int

const (
	Playing Stage = iota
	MustDiscard
	Finished
)

var stageNames = []string{"playing", "must-discard", "finished"}

func (s Stage) String() string {
	return stageNames[s]
}

// Seat describes a participant before the match starts
type Seat struct {
	ID       string
	Name     string
	Computer bool
}

// ClosedCombo is a combo a player closed, with how it scored
type ClosedCombo struct {
	Cards []deck.Card `json:"cards"`
	Score Breakdown   `json:"score"`
}

// Player is a seat at the table
type Player struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Computer  bool                `json:"computer"`
	Hand      []deck.Card         `json:"hand"`
	Objective objective.Objective `json:"objective"`
	Score     int                 `json:"score"`
	History   []ClosedCombo       `json:"history"`
}

// Match is the authoritative state of one game. It is not safe for concurrent use;
// callers must serialise every mutation.
type Match struct {
	Deck             deck.Deck
	DiscardPile      []deck.Card
	Players          []*Player
	CurrentPlayerIdx int
	Combo            []deck.Card
	MustDiscard      bool
	WinnerID         string
	Log              []string
	Round            int
	// Revision goes up by one with every applied transition
	Revision int

	rules Rules
	rng   *rand.Rand
	// turn handovers left before objectives rotate under FinalTurnWindow; 0 when no window is open
	closingTurns int
}

// MatchOpts describes an existing match
type MatchOpts struct {
	Deck             deck.Deck
	DiscardPile      []deck.Card
	Players          []*Player
	CurrentPlayerIdx int
	Combo            []deck.Card
	MustDiscard      bool
	WinnerID         string
	Log              []string
	Round            int
	ClosingTurns     int
	Rules            Rules
	Rand             *rand.Rand
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewMatch deals a fresh match. Every random choice (shuffle, objectives, starting
// seat) comes from rng; a nil rng is seeded from the clock.
func NewMatch(seats []Seat, rules Rules, rng *rand.Rand) (*Match, error) {
	if rng == nil {
		rng = newRand()
	}
	if len(seats) < rules.MinPlayers {
		return nil, fmt.Errorf("%w: minimum of %d, got %d", ErrTooFewPlayers, rules.MinPlayers, len(seats))
	}
	if len(seats) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: maximum of %d, got %d", ErrTooManyPlayers, rules.MaxPlayers, len(seats))
	}

	seen := map[string]struct{}{}
	for _, s := range seats {
		if s.ID == "" {
			return nil, ErrEmptyPlayerID
		}
		if _, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	if rules.Composition.Size() < len(seats)*rules.HandSize {
		return nil, ErrDeckTooSmall
	}

	d := deck.New(rules.Composition)
	d.Shuffle(rng)

	players := make([]*Player, 0, len(seats))
	for _, s := range seats {
		players = append(players, &Player{
			ID:        s.ID,
			Name:      s.Name,
			Computer:  s.Computer,
			Hand:      d.Deal(rules.HandSize),
			Objective: objective.Pick(rng),
			History:   []ClosedCombo{},
		})
	}

	m := &Match{
		Deck:             d,
		DiscardPile:      []deck.Card{},
		Players:          players,
		CurrentPlayerIdx: rng.Intn(len(players)),
		Combo:            []deck.Card{},
		Round:            1,
		rules:            rules,
		rng:              rng,
	}
	m.logf("Game started! %s goes first.", m.CurrentPlayer().Name)

	return m, nil
}

// ExistingMatch constructs a match from explicit state. Zero-valued rules mean ClassicRules.
func ExistingMatch(opts MatchOpts) *Match {
	if len(opts.Players) == 0 {
		panic("existing match must have players")
	}

	m := &Match{
		Deck:             opts.Deck,
		DiscardPile:      opts.DiscardPile,
		Players:          opts.Players,
		CurrentPlayerIdx: opts.CurrentPlayerIdx % len(opts.Players),
		Combo:            opts.Combo,
		MustDiscard:      opts.MustDiscard,
		WinnerID:         opts.WinnerID,
		Log:              opts.Log,
		Round:            opts.Round,
		rules:            opts.Rules,
		rng:              opts.Rand,
		closingTurns:     opts.ClosingTurns,
	}

	if m.rules.HandSize == 0 {
		m.rules = ClassicRules()
	}
	if m.rng == nil {
		m.rng = newRand()
	}
	if m.Deck == nil {
		m.Deck = deck.Deck{}
	}
	if m.DiscardPile == nil {
		m.DiscardPile = []deck.Card{}
	}
	if m.Combo == nil {
		m.Combo = []deck.Card{}
	}
	if m.Log == nil {
		m.Log = []string{}
	}
	if m.Round == 0 {
		m.Round = 1
	}
	for _, p := range m.Players {
		if p.Hand == nil {
			p.Hand = []deck.Card{}
		}
		if p.History == nil {
			p.History = []ClosedCombo{}
		}
	}

	return m
}

// Rules returns the rule set the match is played under
func (m *Match) Rules() Rules {
	return m.rules
}

func (m *Match) Stage() Stage {
	if m.WinnerID != "" {
		return Finished
	}
	if m.MustDiscard {
		return MustDiscard
	}
	return Playing
}

func (m *Match) GameOver() bool {
	return m.WinnerID != ""
}

// CurrentPlayer returns the seat whose turn it is
func (m *Match) CurrentPlayer() *Player {
	return m.Players[m.CurrentPlayerIdx]
}

// Player finds a seat by id
func (m *Match) Player(id string) (*Player, bool) {
	for _, p := range m.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Winner returns the winning seat, if there is one
func (m *Match) Winner() (*Player, bool) {
	if m.WinnerID == "" {
		return nil, false
	}
	return m.Player(m.WinnerID)
}

// LegalMoves lists the current player's playable hand indices
func (m *Match) LegalMoves() []int {
	return LegalMoves(m.Combo, m.CurrentPlayer().Hand)
}

// CardCount counts every card the match holds, wherever it is
func (m *Match) CardCount() int {
	n := len(m.Deck) + len(m.DiscardPile) + len(m.Combo)
	for _, p := range m.Players {
		n += len(p.Hand)
	}
	return n
}

func (m *Match) logf(format string, args ...interface{}) {
	m.Log = append(m.Log, fmt.Sprintf(format, args...))
}
