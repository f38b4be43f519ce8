package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/minaorangina/cadena/deck"
	"github.com/minaorangina/cadena/game"
)

const (
	upperCaseA = 'A'

	welcomeText       = "Welcome to Cadena, %s! First to %d points wins.\n"
	yourTurnText      = "\nIt's your turn.\n"
	playPromptText    = "Pick a card to play (%c-%c), or P to pass: "
	discardPromptText = "You have too many cards. Pick one to discard (%c-%c): "
	retryChoiceText   = "\n'%s' isn't one of your choices.\n"
	refusedText       = "\nYou can't play %s on this combo.\n"
	outOfRetriesText  = "\nNo valid choice made, so you pass.\n"
	gameOverText      = "\nGame over! Final scores:\n"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func buildTableText(v game.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n--- Round %d ---\n", v.Round)
	for _, p := range v.Players {
		marker := " "
		if p.ID == v.CurrentPlayerID {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %-16s %3d points  %d cards\n", marker, p.Name, p.Score, p.HandSize)
	}

	fmt.Fprintf(&b, "\nCombo: %s\n", comboText(v.Combo))
	fmt.Fprintf(&b, "Deck: %d  Discard pile: %d\n", v.DeckCount, v.DiscardCount)

	for _, p := range v.Players {
		if p.ID != v.ViewerID {
			continue
		}
		if p.Objective != nil {
			fmt.Fprintf(&b, "Your objective: %s (+%d)\n", p.Objective.Description, p.Objective.Bonus)
		}
		b.WriteString("\nIn your hand:\n")
		b.WriteString(buildHandText(p.Hand, v.Moves))
	}

	return b.String()
}

// buildHandText lists the hand by letter. Playable cards are starred.
func buildHandText(hand []deck.Card, moves []int) string {
	playable := map[int]bool{}
	for _, i := range moves {
		playable[i] = true
	}

	var b strings.Builder
	for i, c := range hand {
		star := ""
		if playable[i] {
			star = " *"
		}
		fmt.Fprintf(&b, "%c - %s%s\n", rune(upperCaseA+i), c.String(), star)
	}
	return b.String()
}

func comboText(combo []deck.Card) string {
	if len(combo) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(combo))
	for _, c := range combo {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " -> ")
}

// buildScoresText ranks the players by score, seat order breaking ties
func buildScoresText(v game.View) string {
	ranked := append([]game.PlayerView{}, v.Players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	var b strings.Builder
	for i, p := range ranked {
		winner := ""
		if p.ID == v.WinnerID {
			winner = " (winner)"
		}
		fmt.Fprintf(&b, "%s %s: %d points, %d combos%s\n", humanize.Ordinal(i+1), p.Name, p.Score, len(p.History), winner)
	}
	return b.String()
}
