// Package search implements information-set Monte Carlo tree search over a
// single seat's masked view of the game.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	botinternal "wakeng/internal/bot/internal"
	"wakeng/internal/domain"
)

var (
	// ErrNoResult is returned when the search ends without visiting any root move.
	ErrNoResult = errors.New("search produced no result")
	// ErrNotSearchable is returned for views the engine cannot plan from.
	ErrNotSearchable = errors.New("view is not searchable")
)

// Config controls one engine. Iterations of 0 means no iteration cap, in
// which case MaxTime or the caller's context must bound the search.
type Config struct {
	Iterations   int
	MaxTime      time.Duration
	ExploreConst float64
	NumWorkers   int
	YieldEvery   int
	MaxDepth     int
	Weights      botinternal.RolloutWeights
}

// DefaultConfig is a single worker, time boxed search.
func DefaultConfig() Config {
	return Config{
		MaxTime:      300 * time.Millisecond,
		ExploreConst: math.Sqrt2,
		NumWorkers:   1,
		YieldEvery:   100,
		MaxDepth:     60,
		Weights:      botinternal.DefaultRolloutWeights,
	}
}

// Engine runs searches. It is safe for concurrent use; every search gets
// its own trees and RNGs seeded from the engine.
type Engine struct {
	Config Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine with a deterministic seed.
func NewEngine(cfg Config, seed int64) *Engine {
	if cfg.ExploreConst <= 0 {
		cfg.ExploreConst = math.Sqrt2
	}
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	if cfg.YieldEvery < 1 {
		cfg.YieldEvery = 100
	}
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 60
	}
	if cfg.Weights == (botinternal.RolloutWeights{}) {
		cfg.Weights = botinternal.DefaultRolloutWeights
	}
	return &Engine{Config: cfg, rng: rand.New(rand.NewSource(seed))}
}

// MoveEval is the engine's evaluation of the chosen move.
type MoveEval struct {
	WinRate    float64
	Visits     int
	Iterations int
	Details    []MoveDetail
}

func (me MoveEval) String() string {
	return fmt.Sprintf("win %.1f%% (%d visits, %d iterations)", me.WinRate*100, me.Visits, me.Iterations)
}

// MoveDetail is the merged root statistic of one candidate move.
type MoveDetail struct {
	Move    botinternal.ValidMove
	WinRate float64
	Visits  int
}

// workerResult holds the root child statistics of one tree.
type workerResult struct {
	visits     map[string]int
	wins       map[string]float64
	iterations int
}

// BestMove searches from the viewer's perspective and returns a move that
// is legal for the view.
func (e *Engine) BestMove(ctx context.Context, view domain.PlayerView) (botinternal.ValidMove, MoveEval, error) {
	if view.Phase != domain.PhasePlaying || view.CurrentTurn != view.Seat {
		return botinternal.ValidMove{}, MoveEval{}, fmt.Errorf("%w: seat %d is not on turn in %s", ErrNotSearchable, view.Seat, view.Phase)
	}
	rootMoves := RootMoves(view)
	if len(rootMoves) == 0 {
		return botinternal.ValidMove{}, MoveEval{}, ErrNoResult
	}
	if win, ok := botinternal.FindFinishing(view.Hand, rootMoves); ok {
		return win, MoveEval{WinRate: 1, Visits: 1}, nil
	}
	if len(rootMoves) == 1 {
		return rootMoves[0], MoveEval{Visits: 1}, nil
	}

	d, err := newDeterminizer(view)
	if err != nil {
		return botinternal.ValidMove{}, MoveEval{}, err
	}

	searchCtx := ctx
	if e.Config.MaxTime > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, e.Config.MaxTime)
		defer cancel()
	}

	workers := e.Config.NumWorkers
	seeds := make([]int64, workers)
	e.mu.Lock()
	for i := range seeds {
		seeds[i] = e.rng.Int63()
	}
	e.mu.Unlock()

	iters := 0
	if e.Config.Iterations > 0 {
		iters = e.Config.Iterations / workers
		if iters < 1 {
			iters = 1
		}
	}

	results := make([]workerResult, workers)
	g, gctx := errgroup.WithContext(searchCtx)
	for w := 0; w < workers; w++ {
		idx := w
		g.Go(func() error {
			res, err := e.runWorker(gctx, view, d, iters, seeds[idx])
			results[idx] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return botinternal.ValidMove{}, MoveEval{}, err
	}
	// An expired deadline ends the search normally; a cancelled caller
	// no longer wants the move.
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return botinternal.ValidMove{}, MoveEval{}, err
	}

	return pickBest(rootMoves, results)
}

// runWorker builds one independent tree and returns its root statistics.
func (e *Engine) runWorker(ctx context.Context, view domain.PlayerView, d *determinizer, iters int, seed int64) (workerResult, error) {
	w := &worker{cfg: e.Config, rng: rand.New(rand.NewSource(seed)), digger: view.Digger}
	root := newRoot()
	res := workerResult{visits: map[string]int{}, wins: map[string]float64{}}

	// The first iteration always runs so every tree has a move to offer.
	for iter := 0; iters == 0 || iter < iters; iter++ {
		if iter > 0 && ctx.Err() != nil {
			break
		}
		if iter%e.Config.YieldEvery == 0 {
			runtime.Gosched()
		}
		g, err := d.sample(w.rng)
		if err != nil {
			return res, err
		}
		leaf := w.selectExpand(root, g)
		side := w.rollout(g)
		w.backprop(leaf, side)
		res.iterations++
	}

	for k, ch := range root.children {
		res.visits[k] += ch.visits
		res.wins[k] += ch.wins
	}
	return res, nil
}

// pickBest merges worker trees and returns the most visited move among the
// moves that are legal for the real hand.
func pickBest(rootMoves []botinternal.ValidMove, results []workerResult) (botinternal.ValidMove, MoveEval, error) {
	visits := map[string]int{}
	wins := map[string]float64{}
	eval := MoveEval{}
	for _, r := range results {
		eval.Iterations += r.iterations
		for k, v := range r.visits {
			visits[k] += v
		}
		for k, w := range r.wins {
			wins[k] += w
		}
	}

	best := -1
	for i, m := range rootMoves {
		v := visits[m.Key()]
		if v == 0 {
			continue
		}
		rate := wins[m.Key()] / float64(v)
		eval.Details = append(eval.Details, MoveDetail{Move: m, WinRate: rate, Visits: v})
		if best < 0 || v > visits[rootMoves[best].Key()] {
			best = i
		}
	}
	if best < 0 {
		return botinternal.ValidMove{}, eval, ErrNoResult
	}
	sort.SliceStable(eval.Details, func(i, j int) bool {
		return eval.Details[i].Visits > eval.Details[j].Visits
	})

	move := rootMoves[best]
	eval.Visits = visits[move.Key()]
	eval.WinRate = wins[move.Key()] / float64(eval.Visits)
	return move, eval, nil
}

// RootMoves lists the legal moves of the viewer's real hand.
func RootMoves(view domain.PlayerView) []botinternal.ValidMove {
	var last *domain.Move
	if view.Following() {
		last = view.LastMove
	}
	return botinternal.LegalMoves(view.Hand, last, view.Following())
}
