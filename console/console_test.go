package console

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/game"
	utils "github.com/minaorangina/cadena/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repeatReader yields the same line forever
type repeatReader struct {
	line string
	buf  []byte
}

func (r *repeatReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		r.buf = []byte(r.line)
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func TestParseChoice(t *testing.T) {
	tt := []struct {
		name        string
		entry       string
		mustDiscard bool
		want        ai.Move
		wantErr     bool
	}{
		{"first card", "A", false, ai.Move{Action: ai.Play, Index: 0}, false},
		{"lower case", "c\n", false, ai.Move{Action: ai.Play, Index: 2}, false},
		{"last card", "E", false, ai.Move{Action: ai.Play, Index: 4}, false},
		{"pass", " p ", false, ai.Move{Action: ai.Pass, Index: -1}, false},
		{"discard", "B", true, ai.Move{Action: ai.Discard, Index: 1}, false},
		{"sixth card when discarding", "F", true, ai.Move{Action: ai.Discard, Index: 5}, false},
		{"no passing while discarding", "P", true, ai.Move{}, true},
		{"out of range", "F", false, ai.Move{}, true},
		{"two letters", "AB", false, ai.Move{}, true},
		{"empty", "", false, ai.Move{}, true},
		{"digit", "1", false, ai.Move{}, true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			handSize := 5
			if tc.mustDiscard {
				handSize = 6
			}
			got, err := parseChoice(tc.entry, handSize, tc.mustDiscard)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidChoice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPromptMove(t *testing.T) {
	hand := []deck.Card{
		deck.NewCard("c1", deck.Extension, 3),
		deck.NewCard("c2", deck.Extension, 1),
		deck.NewCard("c3", deck.Start, 2),
	}

	t.Run("retries until a valid choice", func(t *testing.T) {
		out := &bytes.Buffer{}
		c := newConn(strings.NewReader("Z\nhello\nc\n"), out)

		move, err := promptMove(c, hand, false)

		require.NoError(t, err)
		assert.Equal(t, ai.Move{Action: ai.Play, Index: 2}, move)
		assert.Contains(t, out.String(), "'Z' isn't one of your choices")
		assert.Contains(t, out.String(), "Pick a card to play (A-C)")
	})

	t.Run("passes once the retries run out", func(t *testing.T) {
		out := &bytes.Buffer{}
		c := newConn(strings.NewReader("x\ny\nz\n"), out)

		move, err := promptMove(c, hand, false)

		require.NoError(t, err)
		assert.Equal(t, ai.Pass, move.Action)
		assert.Contains(t, out.String(), outOfRetriesText)
	})

	t.Run("discards the lowest card once the retries run out", func(t *testing.T) {
		c := newConn(strings.NewReader("P\nP\nP\n"), io.Discard)

		move, err := promptMove(c, hand, true)

		require.NoError(t, err)
		assert.Equal(t, ai.Move{Action: ai.Discard, Index: 1}, move)
	})

	t.Run("accepts a last line without a newline", func(t *testing.T) {
		c := newConn(strings.NewReader("b"), io.Discard)

		move, err := promptMove(c, hand, false)

		require.NoError(t, err)
		assert.Equal(t, ai.Move{Action: ai.Play, Index: 1}, move)
	})

	t.Run("reports the end of input", func(t *testing.T) {
		c := newConn(strings.NewReader(""), io.Discard)

		_, err := promptMove(c, hand, false)

		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestBuildHandText(t *testing.T) {
	hand := []deck.Card{
		deck.NewCard("c1", deck.Start, 1),
		deck.NewCard("c2", deck.End, 3),
	}

	got := buildHandText(hand, []int{0})

	utils.AssertStringEquality(t, got, "A - START(1) *\nB - END(3)\n")
}

func TestNew(t *testing.T) {
	t.Run("needs a computer seat", func(t *testing.T) {
		_, err := New(Opts{Computers: 0, In: strings.NewReader(""), Out: io.Discard})
		assert.ErrorIs(t, err, ErrNoComputers)
	})

	t.Run("caps the computer seats", func(t *testing.T) {
		g, err := New(Opts{Computers: 9, In: strings.NewReader(""), Out: io.Discard, Rand: rand.New(rand.NewSource(1))})
		require.NoError(t, err)
		assert.Len(t, g.Match().Players, 5)
	})
}

func TestPlay(t *testing.T) {
	t.Run("a player who always passes still sees the match through", func(t *testing.T) {
		out := &bytes.Buffer{}
		g, err := New(Opts{
			Name:      "Elton",
			Computers: 2,
			Tier:      ai.Expert,
			Rules:     game.ClassicRules(),
			Rand:      rand.New(rand.NewSource(11)),
			In:        &repeatReader{line: "P\n"},
			Out:       out,
		})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		t.Log("Given a human who passes every turn against two expert computers")
		err = g.Play(ctx)

		t.Log("Then the match finishes with a winner and final scores")
		require.NoError(t, err)
		assert.True(t, g.Match().GameOver())
		assert.NotEmpty(t, g.Match().WinnerID)
		assert.Contains(t, out.String(), "Welcome to Cadena, Elton!")
		assert.Contains(t, out.String(), "Game over! Final scores:")
		assert.Contains(t, out.String(), "(winner)")
	})

	t.Run("stops when the input runs out", func(t *testing.T) {
		g, err := New(Opts{
			Computers: 1,
			Rand:      rand.New(rand.NewSource(5)),
			In:        strings.NewReader(""),
			Out:       io.Discard,
		})
		require.NoError(t, err)

		err = g.Play(context.Background())

		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestBuildScoresText(t *testing.T) {
	v := game.View{
		WinnerID: "p2",
		Players: []game.PlayerView{
			{ID: "p1", Name: "Elton", Score: 40},
			{ID: "p2", Name: "Stevie", Score: 101, History: make([]game.ClosedCombo, 9)},
			{ID: "p3", Name: "Dolly", Score: 40},
		},
	}

	got := buildScoresText(v)

	want := "1st Stevie: 101 points, 9 combos (winner)\n" +
		"2nd Elton: 40 points, 0 combos\n" +
		"3rd Dolly: 40 points, 0 combos\n"
	utils.AssertStringEquality(t, got, want)
}
