package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/minaorangina/cadena/ai"
	"github.com/minaorangina/cadena/console"
	"github.com/minaorangina/cadena/game"
)

func main() {
	name := flag.String("name", "You", "your name at the table")
	computers := flag.Int("computers", 2, "number of computer seats (1-4)")
	difficulty := flag.String("difficulty", "normal", "computer difficulty: easy, normal or expert")
	rules := flag.String("rules", game.ClassicRulesName, "rule set: classic or closing-phase")
	delay := flag.Duration("delay", 800*time.Millisecond, "pause before each computer move")
	seed := flag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	flag.Parse()

	tier, err := ai.ParseTier(*difficulty)
	if err != nil {
		log.Fatal(err.Error())
	}
	ruleSet, err := game.RulesByName(*rules)
	if err != nil {
		log.Fatal(err.Error())
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	// nobody is watching a redirected game
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		*delay = 0
	}

	g, err := console.New(console.Opts{
		Name:      *name,
		Computers: *computers,
		Tier:      tier,
		Rules:     ruleSet,
		Delay:     *delay,
		Rand:      rand.New(rand.NewSource(*seed)),
		In:        os.Stdin,
		Out:       os.Stdout,
	})
	if err != nil {
		log.Fatal("Could not initialise a new game: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := g.Play(ctx); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		log.Fatal(err.Error())
	}
}
