package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/sync/errgroup"

	"wakeng/internal/app"
	"wakeng/internal/bot"
	"wakeng/internal/domain"
)

type options struct {
	Rooms      int
	Hands      int
	Deck       domain.DeckConfig
	Seats      [domain.SeatCount]bot.Difficulty
	Iterations int
	Parallel   int
	Seed       int64
}

type bidStats struct {
	Hands      int
	DiggerWins int
}

type results struct {
	Hands    int
	Forced   int
	MaxPlays int
	Undos    int
	Totals   [domain.SeatCount]int
	ByBid    [domain.MaxBid + 1]bidStats
}

func (r *results) merge(o results) {
	r.Hands += o.Hands
	r.Forced += o.Forced
	r.MaxPlays += o.MaxPlays
	r.Undos += o.Undos
	for i := range r.Totals {
		r.Totals[i] += o.Totals[i]
	}
	for i := range r.ByBid {
		r.ByBid[i].Hands += o.ByBid[i].Hands
		r.ByBid[i].DiggerWins += o.ByBid[i].DiggerWins
	}
}

func parseSeats(s string) ([domain.SeatCount]bot.Difficulty, error) {
	var out [domain.SeatCount]bot.Difficulty
	parts := strings.Split(s, ",")
	if len(parts) != domain.SeatCount {
		return out, fmt.Errorf("need %d seat tiers, got %d", domain.SeatCount, len(parts))
	}
	for i, p := range parts {
		d, err := bot.ParseDifficulty(strings.TrimSpace(p))
		if err != nil {
			return out, err
		}
		out[i] = d
	}
	return out, nil
}

func newAgent(id string, d bot.Difficulty, iterations int, seed int64) (*bot.Agent, error) {
	if iterations <= 0 || d == bot.DifficultyEasy {
		return bot.NewAgent(id, id, d, seed)
	}
	cfg := bot.ForDifficulty(d).Search
	cfg.Iterations = iterations
	cfg.MaxTime = 0
	return bot.NewAgentWithSearch(id, id, d, cfg, seed)
}

// simulate opens every room in a registry and plays them to completion in
// parallel. Workers find their room by id, as the match handler does.
func simulate(ctx context.Context, opts options, logger runtime.Logger) (results, error) {
	reg := app.NewRegistry()
	ids := make([]string, opts.Rooms)
	for i := range ids {
		room, err := reg.Create(opts.Deck)
		if err != nil {
			return results{}, err
		}
		ids[i] = room.ID
	}
	defer func() {
		for _, id := range reg.IDs() {
			reg.Delete(id)
		}
	}()
	perRoom := make([]results, opts.Rooms)

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i := 0; i < opts.Rooms; i++ {
		i := i
		g.Go(func() error {
			res, err := playRoom(ctx, reg, ids[i], opts, opts.Seed+int64(i)*7919, logger)
			if err != nil {
				return fmt.Errorf("room %d: %w", i, err)
			}
			perRoom[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results{}, err
	}

	var total results
	for _, r := range perRoom {
		total.merge(r)
	}
	return total, nil
}

func playRoom(ctx context.Context, reg *app.Registry, id string, opts options, seed int64, logger runtime.Logger) (results, error) {
	var res results
	room, err := reg.Get(id)
	if err != nil {
		return res, err
	}
	defer reg.Delete(id)
	log := logger.WithField("room", id)

	svc := app.NewService(rand.New(rand.NewSource(seed)))
	agents := make([]*bot.Agent, domain.SeatCount)
	room.Mu.Lock()
	for seat, d := range opts.Seats {
		id := fmt.Sprintf("sim-%d-%s", seat, d)
		if agents[seat], err = newAgent(id, d, opts.Iterations, seed+int64(seat)); err != nil {
			room.Mu.Unlock()
			return res, err
		}
		if _, err = room.Sit(id, true); err != nil {
			room.Mu.Unlock()
			return res, err
		}
	}
	events, err := svc.StartGame(room)
	room.Mu.Unlock()
	if err != nil {
		return res, err
	}
	res.count(events)

	for res.Hands < opts.Hands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if room, err = reg.Get(id); err != nil {
			return res, err
		}

		room.Mu.Lock()
		g := room.Game
		if g.Phase == domain.PhaseFinished {
			if g.Multiplier == 0 {
				events, err = svc.SettleByDefault(room)
				if err == nil {
					res.record(g)
					log.Debug("hand %d: winner %d (%s), bid %d", room.Round, g.Winner, g.WinnerSide, g.BidScore)
				}
			} else {
				// Every seat is a bot, so one ready starts the next hand.
				events, err = svc.ReadyNextRound(room, 0)
			}
			room.Mu.Unlock()
			if err != nil {
				return res, err
			}
			res.count(events)
			continue
		}
		seat := g.CurrentTurn
		view, err := room.ViewFor(seat)
		version := room.Version
		room.Mu.Unlock()
		if err != nil {
			return res, err
		}

		move, err := agents[seat].Decide(ctx, view)
		if err != nil {
			return res, fmt.Errorf("seat %d: %w", seat, err)
		}

		room.Mu.Lock()
		events, err = svc.ApplyBotMove(room, seat, version, move)
		room.Mu.Unlock()
		if err != nil {
			return res, fmt.Errorf("seat %d %s %v: %w", seat, move.Kind, move.Codes(), err)
		}
		res.count(events)
	}

	room.Mu.Lock()
	copy(res.Totals[:], room.Ledger.Totals)
	room.Mu.Unlock()
	return res, nil
}

func (r *results) count(events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventBidPlaced:
			if ev.Payload.(app.BidPlacedPayload).Forced {
				r.Forced++
			}
		case app.EventMaxPlay:
			r.MaxPlays++
		case app.EventUndo:
			r.Undos++
		}
	}
}

func (r *results) record(g *domain.Game) {
	r.Hands++
	b := &r.ByBid[g.BidScore]
	b.Hands++
	if g.WinnerSide == domain.SideDigger {
		b.DiggerWins++
	}
}
