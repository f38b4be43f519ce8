package game

import (
	"testing"

	"github.com/minaorangina/cadena/deck"
	utils "github.com/minaorangina/cadena/internal"
	"github.com/stretchr/testify/assert"
)

func TestIsValidMove(t *testing.T) {
	cases := []struct {
		name     string
		combo    []deck.Card
		card     deck.Card
		expected bool
	}{
		{"start opens an empty combo", nil, start(1), true},
		{"extension cannot open", nil, ext(1), false},
		{"end cannot open", nil, end(3), false},
		{"second start is rejected", cards(start(1)), start(2), false},
		{"equal extension", cards(start(1)), ext(1), true},
		{"higher extension", cards(start(1)), ext(3), true},
		{"lower extension", cards(start(1), ext(2)), ext(1), false},
		{"end closes after an extension", cards(start(1), ext(2)), end(2), true},
		{"low end still closes", cards(start(3)), end(1), true},
		{"extension compares with the last card only", cards(start(3), ext(3)), ext(2), false},
		{"hidden card never plays", nil, deck.HiddenCard(), false},
		{"hidden card never extends", cards(start(1)), deck.HiddenCard(), false},
	}

	for _, c := range cases {
		got := IsValidMove(c.combo, c.card)
		if got != c.expected {
			utils.TableFailureMessage(t, c.name, got, c.expected)
		}
	}
}

func TestLegalMoves(t *testing.T) {
	t.Run("empty combo only allows starts", func(t *testing.T) {
		hand := cards(ext(1), start(2), end(1), start(3))
		assert.Equal(t, []int{1, 3}, LegalMoves(nil, hand))
	})

	t.Run("open combo", func(t *testing.T) {
		combo := cards(start(1), ext(2))
		hand := cards(ext(1), start(2), end(1), ext(2), ext(3))
		assert.Equal(t, []int{2, 3, 4}, LegalMoves(combo, hand))
	})

	t.Run("nothing playable", func(t *testing.T) {
		combo := cards(start(1), ext(3))
		hand := cards(ext(1), ext(2), start(3))
		assert.Empty(t, LegalMoves(combo, hand))
		assert.False(t, canMove(combo, hand))
	})

	t.Run("empty hand", func(t *testing.T) {
		assert.Empty(t, LegalMoves(cards(start(1)), nil))
	})
}
