package deck

import (
	"fmt"
	"math/rand"
)

// Composition is the number of cards of each kind per value tier
type Composition map[Kind]int

// DefaultComposition builds a 54 card deck: 12 START, 30 EXTENSION and 12 END
var DefaultComposition = Composition{
	Start:     4,
	Extension: 10,
	End:       4,
}

// Size returns the number of cards the composition produces
func (comp Composition) Size() int {
	total := 0
	for _, k := range Kinds {
		total += comp[k] * len(Values)
	}
	return total
}

// Deck represents an ordered deck of cards. Cards are drawn from the front.
type Deck []Card

// New creates an unshuffled deck. The order and the card ids only depend on the composition.
func New(comp Composition) Deck {
	cards := Deck{}
	id := 0
	for _, kind := range Kinds {
		for _, value := range Values {
			for i := 0; i < comp[kind]; i++ {
				cards = append(cards, NewCard(fmt.Sprintf("card-%d", id), kind, value))
				id++
			}
		}
	}
	return cards
}

// Shuffle shuffles the deck in place
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Draw removes and returns the front card
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	c := (*d)[0]
	*d = (*d)[1:]
	return c, true
}

// Deal deals n cards from the front of the deck, or whatever is left if there are fewer
func (d *Deck) Deal(n int) []Card {
	if n <= 0 {
		return []Card{}
	}
	if n > len(*d) {
		n = len(*d)
	}
	dealt := make([]Card, n)
	copy(dealt, (*d)[:n])
	*d = (*d)[n:]
	return dealt
}

func (d Deck) Len() int {
	return len(d)
}
