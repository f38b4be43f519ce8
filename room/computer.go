package room

import (
	"context"
	"time"

	"github.com/minaorangina/cadena/ai"
	"go.uber.org/zap"
)

// RunComputerTurns plays every consecutive computer turn, pausing for the room's
// delay before each one. It returns when a human is up, the match is over or ctx
// is done. Only one loop runs per room; extra calls return immediately.
func (r *Room) RunComputerTurns(ctx context.Context) {
	r.mu.Lock()
	if r.botsBusy {
		r.mu.Unlock()
		return
	}
	r.botsBusy = true
	r.mu.Unlock()

	for r.computerUp() {
		if r.delay > 0 {
			select {
			case <-ctx.Done():
				r.release()
				return
			case <-time.After(r.delay):
			}
		} else if ctx.Err() != nil {
			r.release()
			return
		}

		if !r.computerTurn() {
			r.release()
			return
		}
	}
}

// computerUp reports whether a computer seat is to move. When none is, the loop's
// claim is released under the same lock that made the decision.
func (r *Room) computerUp() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	up := r.match != nil && !r.match.GameOver() && r.match.CurrentPlayer().Computer
	if !up {
		r.botsBusy = false
	}
	return up
}

func (r *Room) release() {
	r.mu.Lock()
	r.botsBusy = false
	r.mu.Unlock()
}

// computerTurn makes one move for the current computer seat
func (r *Room) computerTurn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match == nil || r.match.GameOver() || !r.match.CurrentPlayer().Computer {
		return false
	}

	seat := r.match.CurrentPlayer()
	mv := r.bot.Decide(r.match)
	if !mv.Apply(r.match) {
		r.logger.Error("computer move was refused",
			zap.String("player_id", seat.ID),
			zap.Int("action", int(mv.Action)),
			zap.Int("index", mv.Index),
		)
		return false
	}

	if mv.Action == ai.Play {
		r.logger.Debug("computer played", zap.String("player_id", seat.ID), zap.Int("index", mv.Index))
	}

	r.settle()
	return true
}
