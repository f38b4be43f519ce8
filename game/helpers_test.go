package game

import (
	"fmt"
	"math/rand"

	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/objective"
)

var cardSeq int

func card(kind deck.Kind, value int) deck.Card {
	cardSeq++
	return deck.NewCard(fmt.Sprintf("test-%d", cardSeq), kind, value)
}

func start(v int) deck.Card { return card(deck.Start, v) }
func ext(v int) deck.Card   { return card(deck.Extension, v) }
func end(v int) deck.Card   { return card(deck.End, v) }

func cards(cs ...deck.Card) []deck.Card {
	return append([]deck.Card{}, cs...)
}

func fillerDeck(n int) deck.Deck {
	d := deck.Deck{}
	for i := 0; i < n; i++ {
		d = append(d, ext(2))
	}
	return d
}

func mustObjective(id string) objective.Objective {
	o, ok := objective.Lookup(id)
	if !ok {
		panic("no objective " + id)
	}
	return o
}

// unmet is an objective no short combo satisfies
func unmet() objective.Objective {
	return mustObjective("h2")
}

func newPlayer(id string, hand []deck.Card) *Player {
	return &Player{
		ID:        id,
		Name:      id,
		Hand:      hand,
		Objective: unmet(),
	}
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func twoSeats() []Seat {
	return []Seat{
		{ID: "p1", Name: "Ana"},
		{ID: "p2", Name: "Luis"},
	}
}
