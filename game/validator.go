package game

import "github.com/minaorangina/cadena/deck"

// IsValidMove decides whether card may be played onto the community combo.
// An empty combo only accepts a START; a combo only ever has one START;
// an END closes any open combo; an EXTENSION can't lower the value.
func IsValidMove(combo []deck.Card, card deck.Card) bool {
	if len(combo) == 0 {
		return card.Kind == deck.Start
	}

	switch card.Kind {
	case deck.Start:
		return false
	case deck.End:
		return true
	case deck.Extension:
		return card.Value >= combo[len(combo)-1].Value
	}

	return false
}

// LegalMoves returns the indices of the cards in hand that can be played, in hand order
func LegalMoves(combo, hand []deck.Card) []int {
	moves := []int{}
	for i, c := range hand {
		if IsValidMove(combo, c) {
			moves = append(moves, i)
		}
	}
	return moves
}

func canMove(combo, hand []deck.Card) bool {
	for _, c := range hand {
		if IsValidMove(combo, c) {
			return true
		}
	}
	return false
}
