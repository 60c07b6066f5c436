package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"wakeng/internal/bot/search"
	"wakeng/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID         string
	Name       string
	Difficulty Difficulty

	tuning Tuning
	engine *search.Engine

	mu  sync.Mutex
	rng *rand.Rand
}

// Decide returns the agent's action for the view's phase. Plays are always
// legal for the view; a failed or timed out search falls back to a random
// legal play.
func (a *Agent) Decide(ctx context.Context, view domain.PlayerView) (Move, error) {
	switch view.Phase {
	case domain.PhaseBidding:
		if view.CurrentTurn != view.Seat {
			return Move{}, fmt.Errorf("%w: seat %d is not bidding", ErrNoDecision, view.Seat)
		}
		a.mu.Lock()
		bid := HeuristicBid(view.Hand, view.BidScore, a.Difficulty, a.rng)
		a.mu.Unlock()
		return Move{Kind: ActionBid, Bid: bid}, nil

	case domain.PhaseTakingHole:
		if view.Digger != view.Seat {
			return Move{}, fmt.Errorf("%w: seat %d is not the digger", ErrNoDecision, view.Seat)
		}
		return Move{Kind: ActionTakeHole}, nil

	case domain.PhasePlaying:
		if view.CurrentTurn != view.Seat {
			return Move{}, fmt.Errorf("%w: seat %d is not on turn", ErrNoDecision, view.Seat)
		}
		if a.tuning.UseSearch && a.engine != nil {
			m, _, err := a.engine.BestMove(ctx, view)
			if err == nil {
				return playMove(m), nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return Move{}, context.Canceled
			}
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		return RandomPlay(view, a.rng), nil
	}
	return Move{}, fmt.Errorf("%w: phase %s", ErrNoDecision, view.Phase)
}
