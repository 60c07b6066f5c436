package search

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeng/internal/domain"
)

// playingGame deals a hand and runs bidding with every seat passing.
func playingGame(t *testing.T, cfg domain.DeckConfig, seed int64) *domain.Game {
	t.Helper()
	g, err := domain.DealGame(cfg, rand.New(rand.NewSource(seed)), 0)
	require.NoError(t, err)
	for g.Phase == domain.PhaseBidding {
		_, err := g.Bid(g.CurrentTurn, 0)
		require.NoError(t, err)
	}
	_, err = g.TakeHole(g.Digger)
	require.NoError(t, err)
	return g
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxTime = 0
	cfg.Iterations = 150
	return cfg
}

func TestBestMoveIsLegal(t *testing.T) {
	for _, cfg := range []domain.DeckConfig{domain.StandardDeck, domain.JokerDeck} {
		g := playingGame(t, cfg, 11)
		e := NewEngine(fastConfig(), 1)

		// Lead, then follow a few times so both branches are searched.
		for step := 0; step < 6 && g.Phase == domain.PhasePlaying; step++ {
			seat := g.CurrentTurn
			move, eval, err := e.BestMove(context.Background(), g.ViewFor(seat))
			require.NoError(t, err)
			assert.Greater(t, eval.Visits, 0)

			if move.Pass {
				require.True(t, g.CanPass(seat), "engine passed while leading")
				_, err = g.Pass(seat)
			} else {
				_, err = g.Play(seat, move.Cards)
			}
			require.NoError(t, err, "engine move %s must be legal", move.Key())
			require.NoError(t, g.CheckConservation())
		}
	}
}

func TestBestMoveParallelWorkers(t *testing.T) {
	g := playingGame(t, domain.JokerDeck, 5)
	cfg := fastConfig()
	cfg.NumWorkers = 3
	cfg.Iterations = 300
	e := NewEngine(cfg, 9)

	move, eval, err := e.BestMove(context.Background(), g.ViewFor(g.CurrentTurn))
	require.NoError(t, err)
	assert.Equal(t, 300, eval.Iterations)
	_, err = g.CheckPlay(g.CurrentTurn, move.Cards)
	assert.NoError(t, err)
}

func TestBestMoveTakesFinishingPlay(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 3)
	seat := g.CurrentTurn
	hand := g.Hands[seat]
	g.PlayedCards[seat] = append(g.PlayedCards[seat], hand[:len(hand)-1]...)
	g.Hands[seat] = hand[len(hand)-1:]

	move, eval, err := NewEngine(fastConfig(), 1).BestMove(context.Background(), g.ViewFor(seat))
	require.NoError(t, err)
	assert.Equal(t, g.Hands[seat], move.Cards)
	assert.Equal(t, 1.0, eval.WinRate)
}

func TestBestMoveOnlyPass(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 4)
	leader := g.CurrentTurn
	next := g.NextSeat(leader)
	top := domain.Card{Suit: domain.Spades, Rank: domain.RankThree}
	g.LastMove = &domain.Move{Seat: leader, Cards: []domain.Card{top}, Pattern: domain.HandPattern{Type: domain.Single, Rank: domain.RankThree, Length: 1}}
	g.CurrentTurn = next
	// Nothing beats a three without jokers; drop the follower's threes anyway.
	hand := g.Hands[next][:0:0]
	for _, c := range g.Hands[next] {
		if c.Rank != domain.RankThree {
			hand = append(hand, c)
		}
	}
	g.Hands[next] = hand

	move, _, err := NewEngine(fastConfig(), 1).BestMove(context.Background(), g.ViewFor(next))
	require.NoError(t, err)
	assert.True(t, move.Pass)
}

func TestBestMoveHonoursCancellation(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 8)
	cfg := fastConfig()
	cfg.Iterations = 0
	e := NewEngine(cfg, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := e.BestMove(ctx, g.ViewFor(g.CurrentTurn))
	assert.Error(t, err)
}

func TestBestMoveReturnsBestSoFarAtDeadline(t *testing.T) {
	cases := []struct {
		name    string
		timeout time.Duration
	}{
		{"already expired", -time.Second},
		{"one millisecond", time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := playingGame(t, domain.JokerDeck, 17)
			cfg := DefaultConfig()
			cfg.MaxTime = 0
			cfg.Iterations = 0
			cfg.NumWorkers = 2
			e := NewEngine(cfg, 4)

			ctx, cancel := context.WithTimeout(context.Background(), tc.timeout)
			defer cancel()
			seat := g.CurrentTurn
			move, eval, err := e.BestMove(ctx, g.ViewFor(seat))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, eval.Iterations, cfg.NumWorkers)
			require.False(t, move.Pass, "leader cannot pass")
			require.NotEmpty(t, move.Cards)

			_, err = g.Play(seat, move.Cards)
			require.NoError(t, err, "move %s must be legal", move.Key())
			require.NoError(t, g.CheckConservation())
		})
	}
}

func TestBestMoveRespectsTimeBudget(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 12)
	cfg := DefaultConfig()
	cfg.MaxTime = 50 * time.Millisecond
	e := NewEngine(cfg, 1)

	start := time.Now()
	_, eval, err := e.BestMove(context.Background(), g.ViewFor(g.CurrentTurn))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Greater(t, eval.Iterations, 0)
}

func TestBestMoveRejectsOffTurnView(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 2)
	other := g.NextSeat(g.CurrentTurn)
	_, _, err := NewEngine(fastConfig(), 1).BestMove(context.Background(), g.ViewFor(other))
	assert.ErrorIs(t, err, ErrNotSearchable)
}

func TestDeterminizerKeepsCountsAndHole(t *testing.T) {
	g := playingGame(t, domain.JokerDeck, 21)
	viewer := g.NextSeat(g.Digger)
	view := g.ViewFor(viewer)

	d, err := newDeterminizer(view)
	require.NoError(t, err)
	require.Len(t, d.pinned, 6)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		sample, err := d.sample(rng)
		require.NoError(t, err)
		for seat, h := range sample.Hands {
			assert.Len(t, h, len(g.Hands[seat]))
		}
		assert.Equal(t, g.Hands[viewer], sample.Hands[viewer])
		for _, c := range g.RevealedHole {
			assert.True(t, domain.HasCard(sample.Hands[g.Digger], c), "hole card %s must stay with the digger", c)
		}
		seen := map[domain.Card]bool{}
		for _, h := range sample.Hands {
			for _, c := range h {
				require.False(t, seen[c], "card %s dealt twice", c)
				seen[c] = true
			}
		}
	}
}

func TestDeterminizerRejectsUnplayedTableCards(t *testing.T) {
	g := playingGame(t, domain.StandardDeck, 23)
	leader := g.CurrentTurn
	_, err := g.Play(leader, []domain.Card{g.Hands[leader][0]})
	require.NoError(t, err)

	view := g.ViewFor(g.CurrentTurn)
	_, err = newDeterminizer(view)
	require.NoError(t, err)

	view.LastMove.Cards = []domain.Card{g.Hands[leader][0]}
	_, err = newDeterminizer(view)
	assert.ErrorIs(t, err, ErrNotSearchable)
}
