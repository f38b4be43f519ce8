// Package console plays a match in the terminal: one human against computer seats.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/game"
)

const humanID = "you"

var computerNames = []string{"Computer Red", "Computer Blue", "Computer Green", "Computer Purple"}

var ErrNoComputers = errors.New("at least one computer seat is needed")

type Opts struct {
	Name      string
	Computers int
	Tier      ai.Tier
	Rules     game.Rules
	// Delay paces computer turns so they can be followed
	Delay time.Duration
	Rand  *rand.Rand
	In    io.Reader
	Out   io.Writer
}

// Game is a terminal match
type Game struct {
	match *game.Match
	bot   *ai.Strategist
	conn  *conn
	delay time.Duration
	name  string
	// logged is how much of the match log has been printed
	logged int
}

func New(opts Opts) (*Game, error) {
	if opts.Rules.HandSize == 0 {
		opts.Rules = game.ClassicRules()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Name == "" {
		opts.Name = "You"
	}
	if opts.Computers < 1 {
		return nil, ErrNoComputers
	}
	if opts.Computers > len(computerNames) {
		opts.Computers = len(computerNames)
	}

	seats := []game.Seat{{ID: humanID, Name: opts.Name}}
	for i := 0; i < opts.Computers; i++ {
		seats = append(seats, game.Seat{ID: fmt.Sprintf("ai-%d", i), Name: computerNames[i], Computer: true})
	}

	match, err := game.NewMatch(seats, opts.Rules, opts.Rand)
	if err != nil {
		return nil, err
	}

	return &Game{
		match: match,
		bot:   ai.NewStrategist(opts.Tier, opts.Rand),
		conn:  newConn(opts.In, opts.Out),
		delay: opts.Delay,
		name:  opts.Name,
	}, nil
}

func (g *Game) Match() *game.Match {
	return g.match
}

// Play runs turns until the match is over, the input runs out or ctx is done
func (g *Game) Play(ctx context.Context) error {
	SendText(g.conn.Out, welcomeText, g.name, g.match.Rules().WinScore)
	g.printLog()

	for !g.match.GameOver() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		if g.match.CurrentPlayer().Computer {
			err = g.computerTurn(ctx)
		} else {
			err = g.humanTurn()
		}
		if err != nil {
			return err
		}
		g.printLog()
	}

	SendText(g.conn.Out, gameOverText)
	SendText(g.conn.Out, buildScoresText(g.match.View(humanID)))
	return nil
}

func (g *Game) computerTurn(ctx context.Context) error {
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.delay):
		}
	}

	move := g.bot.Decide(g.match)
	if !move.Apply(g.match) {
		return fmt.Errorf("computer move refused: %+v", move)
	}
	return nil
}

func (g *Game) humanTurn() error {
	view := g.match.View(humanID)
	SendText(g.conn.Out, buildTableText(view))
	SendText(g.conn.Out, yourTurnText)

	for {
		hand := g.match.CurrentPlayer().Hand
		move, err := promptMove(g.conn, hand, g.match.MustDiscard)
		if err != nil {
			return err
		}
		if move.Apply(g.match) {
			return nil
		}
		SendText(g.conn.Out, refusedText, hand[move.Index].String())
	}
}

// printLog writes the match events that have not been shown yet
func (g *Game) printLog() {
	for _, line := range g.match.Log[g.logged:] {
		SendText(g.conn.Out, "%s\n", line)
	}
	g.logged = len(g.match.Log)
}
