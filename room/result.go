package room

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Recorder archives finished matches
type Recorder interface {
	Record(ctx context.Context, res Result) error
}

// Result is the outcome of a finished match
type Result struct {
	RoomID     string         `json:"room_id"`
	Rules      string         `json:"rules"`
	Difficulty string         `json:"difficulty"`
	WinnerID   string         `json:"winner_id"`
	WinnerName string         `json:"winner_name"`
	Rounds     int            `json:"rounds"`
	Players    []ResultPlayer `json:"players"`
	FinishedAt time.Time      `json:"finished_at"`
}

type ResultPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Computer bool   `json:"computer"`
	Score    int    `json:"score"`
	Combos   int    `json:"combos"`
}

const recordTimeout = 5 * time.Second

// record archives the finished match once. Callers hold the lock.
func (r *Room) record() {
	if r.recorded || r.recorder == nil {
		return
	}
	r.recorded = true

	res := r.result()
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.recorder.Record(ctx, res); err != nil {
		r.logger.Error("could not record result", zap.Error(err))
	}
}

func (r *Room) result() Result {
	res := Result{
		RoomID:     r.ID,
		Rules:      r.rules.Name,
		Difficulty: r.tier.String(),
		WinnerID:   r.match.WinnerID,
		Rounds:     r.match.Round,
		Players:    make([]ResultPlayer, 0, len(r.match.Players)),
		FinishedAt: time.Now().UTC(),
	}
	for _, p := range r.match.Players {
		if p.ID == res.WinnerID {
			res.WinnerName = p.Name
		}
		res.Players = append(res.Players, ResultPlayer{
			ID:       p.ID,
			Name:     p.Name,
			Computer: p.Computer,
			Score:    p.Score,
			Combos:   len(p.History),
		})
	}
	return res
}
