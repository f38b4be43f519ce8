package console

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/deck"
)

var (
	retries = 3

	ErrInvalidChoice = errors.New("invalid choice")
)

type conn struct {
	In  *bufio.Reader
	Out io.Writer
}

func newConn(in io.Reader, out io.Writer) *conn {
	return &conn{In: bufio.NewReader(in), Out: out}
}

// parseChoice turns a typed letter into a move. P passes unless a discard is owed.
func parseChoice(entry string, handSize int, mustDiscard bool) (ai.Move, error) {
	entry = strings.ToUpper(strings.TrimSpace(entry))
	if len(entry) != 1 {
		return ai.Move{}, ErrInvalidChoice
	}

	if entry == "P" && !mustDiscard {
		return ai.Move{Action: ai.Pass, Index: -1}, nil
	}

	if !charsInRange(entry, upperCaseA, upperCaseA+handSize-1) {
		return ai.Move{}, ErrInvalidChoice
	}

	idx := int(entry[0]) - upperCaseA
	if mustDiscard {
		return ai.Move{Action: ai.Discard, Index: idx}, nil
	}
	return ai.Move{Action: ai.Play, Index: idx}, nil
}

func charsInRange(chars string, lower, upper int) bool {
	for _, char := range chars {
		if int(char) < lower || int(char) > upper {
			return false
		}
	}
	return true
}

// promptMove asks until a well formed choice is made. Out of retries, it passes
// or discards the lowest card.
// It returns io.EOF once the input is exhausted.
func promptMove(c *conn, hand []deck.Card, mustDiscard bool) (ai.Move, error) {
	handSize := len(hand)
	last := rune(upperCaseA + handSize - 1)

	for retriesLeft := retries; retriesLeft > 0; retriesLeft-- {
		if mustDiscard {
			SendText(c.Out, discardPromptText, upperCaseA, last)
		} else {
			SendText(c.Out, playPromptText, upperCaseA, last)
		}

		entry, err := c.In.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(entry) == "") {
			return ai.Move{}, err
		}

		move, err := parseChoice(entry, handSize, mustDiscard)
		if err == nil {
			return move, nil
		}
		SendText(c.Out, retryChoiceText, strings.TrimSpace(entry))
	}

	SendText(c.Out, outOfRetriesText)
	if mustDiscard {
		return ai.Move{Action: ai.Discard, Index: ai.ChooseDiscard(hand)}, nil
	}
	return ai.Move{Action: ai.Pass, Index: -1}, nil
}
