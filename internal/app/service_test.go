package app

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeng/internal/bot"
	"wakeng/internal/domain"
)

func fullRoom(t *testing.T, cfg domain.DeckConfig, bots ...int) *Room {
	t.Helper()
	r := NewRoom("room-1", cfg)
	isBot := map[int]bool{}
	for _, b := range bots {
		isBot[b] = true
	}
	for i := 0; i < domain.SeatCount; i++ {
		seat, err := r.Sit("u"+string(rune('0'+i)), isBot[i])
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return r
}

// riggedGame deals fixed cards to some seats and fills the rest in rotation
// from the ordered deck, so every seat holds a single three.
func riggedGame(t *testing.T, cfg domain.DeckConfig, fixed map[int]string) *domain.Game {
	t.Helper()
	used := map[domain.Card]bool{}
	hands := make([][]domain.Card, cfg.Seats)
	for seat, codes := range fixed {
		cards, err := domain.ParseCards(strings.Fields(codes))
		require.NoError(t, err)
		hands[seat] = cards
		for _, c := range cards {
			used[c] = true
		}
	}
	var rest []domain.Card
	for _, c := range domain.NewDeck(cfg) {
		if !used[c] {
			rest = append(rest, c)
		}
	}
	hole := append([]domain.Card{}, rest[len(rest)-cfg.HoleSize:]...)
	rest = rest[:len(rest)-cfg.HoleSize]
	seat := 0
	for _, c := range rest {
		for len(hands[seat]) >= cfg.HandSize() {
			seat = (seat + 1) % cfg.Seats
		}
		hands[seat] = append(hands[seat], c)
		seat = (seat + 1) % cfg.Seats
	}
	g, err := domain.NewGame(cfg, hands, hole, 0)
	require.NoError(t, err)
	return g
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestStartGameDealsHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))
	r := fullRoom(t, domain.StandardDeck)
	before := r.Version

	evs, err := svc.StartGame(r)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseBidding, r.Game.Phase)
	assert.Equal(t, 1, r.Round)
	assert.Greater(t, r.Version, before)

	handEvents := 0
	for _, ev := range evs {
		if ev.Kind != EventHandDealt {
			continue
		}
		handEvents++
		payload := ev.Payload.(HandDealtPayload)
		assert.Len(t, payload.Hand, 12)
		assert.Equal(t, []string{r.Seats[payload.Seat]}, ev.Recipients, "hands are private")
	}
	assert.Equal(t, domain.SeatCount, handEvents)
	assert.Equal(t, EventGameStarted, evs[0].Kind)

	_, err = svc.StartGame(r)
	assert.ErrorIs(t, err, ErrGameActive)
}

func TestStartGameRequiresFullRoom(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	r := NewRoom("room", domain.StandardDeck)
	_, err := r.Sit("u0", false)
	require.NoError(t, err)

	_, err = svc.StartGame(r)
	assert.ErrorIs(t, err, ErrRoomNotFull)
	assert.Equal(t, "state", domain.ErrorKind(err))
}

// TestEndToEndScenario plays a 52 card, no hole hand: bids 2/3/pass/pass,
// a pair beaten by a higher pair, then the others win at multiplier 2.
func TestEndToEndScenario(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	r := fullRoom(t, domain.NoHoleDeck)
	r.Game = riggedGame(t, domain.NoHoleDeck, map[int]string{
		0: "H4 D4 H5 D5 S3 S6 S7 S8 S9 S10 S11 S12 S13",
		1: "H9 D9 C9",
	})
	r.Round = 1

	total := 0
	for _, h := range r.Game.Hands {
		assert.Len(t, h, 13)
		total += len(h)
	}
	assert.Equal(t, 52, total)

	mustEvents := func(evs []Event, err error) []Event {
		t.Helper()
		require.NoError(t, err)
		return evs
	}
	mustEvents(svc.Bid(r, 0, 2))
	mustEvents(svc.Bid(r, 1, 3))
	mustEvents(svc.Bid(r, 2, 0))
	evs := mustEvents(svc.Bid(r, 3, 0))
	assert.Equal(t, []EventKind{EventBidPlaced, EventHoleRevealed}, kinds(evs))
	assert.Equal(t, 1, r.Game.Digger)
	assert.Equal(t, 3, r.Game.BidScore)

	evs = mustEvents(svc.TakeHole(r, 1))
	assert.Equal(t, 0, evs[0].Payload.(HoleTakenPayload).FirstTurn, "the hearts four opens")

	mustEvents(svc.PlayCards(r, 0, []string{"H5", "D5"}))
	_, err := svc.PlayCards(r, 1, []string{"H9", "D9", "C9"})
	assert.ErrorIs(t, err, domain.ErrLegality, "a triplet never beats a pair")
	mustEvents(svc.PlayCards(r, 1, []string{"H9", "D9"}))
	mustEvents(svc.Pass(r, 2))
	mustEvents(svc.Pass(r, 3))
	evs = mustEvents(svc.Pass(r, 0))
	assert.Equal(t, []EventKind{EventTurnPassed, EventTrickClosed}, kinds(evs))
	assert.Equal(t, 1, r.Game.CurrentTurn)

	// Seat 1 leads a single; seat 0 takes control with the unbeatable three
	// and runs out through a king-high straight and the pair of fours.
	mustEvents(svc.PlayCards(r, 1, []string{"C9"}))
	mustEvents(svc.Pass(r, 2))
	mustEvents(svc.Pass(r, 3))
	evs = mustEvents(svc.PlayCards(r, 0, []string{"S3"}))
	assert.Contains(t, kinds(evs), EventMaxPlay)
	assert.Equal(t, 0, r.Game.CurrentTurn, "a max play keeps the lead")
	evs = mustEvents(svc.PlayCards(r, 0, []string{"S6", "S7", "S8", "S9", "S10", "S11", "S12", "S13"}))
	assert.Contains(t, kinds(evs), EventMaxPlay)
	assert.Equal(t, 0, r.Game.CurrentTurn)

	g := r.Game
	evs = mustEvents(svc.PlayCards(r, 0, []string{"H4", "D4"}))
	require.Equal(t, EventGameOver, evs[len(evs)-1].Kind)
	assert.Empty(t, g.Hands[0])
	over := evs[len(evs)-1].Payload.(GameOverPayload)
	assert.Equal(t, domain.SideOthers, over.WinnerSide)
	require.NoError(t, g.CheckConservation())

	_, err = svc.SetSettlementMultiplier(r, 1, 2)
	assert.ErrorIs(t, err, ErrNotHost)

	evs = mustEvents(svc.SetSettlementMultiplier(r, 0, 2))
	applied := evs[0].Payload.(SettlementAppliedPayload)
	assert.Equal(t, []int{6, -18, 6, 6}, applied.Deltas)
	assert.Equal(t, []int{6, -18, 6, 6}, svc.Scoreboard(r).Totals)

	_, err = svc.SetSettlementMultiplier(r, 0, 4)
	assert.ErrorIs(t, err, domain.ErrState, "a settlement applies once")
}

func TestOperationErrorsAreClassified(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)))
	r := fullRoom(t, domain.StandardDeck)

	_, err := svc.Bid(r, 0, 1)
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = svc.StartGame(r)
	require.NoError(t, err)
	starter := r.Game.CurrentTurn

	_, err = svc.Bid(r, (starter+1)%domain.SeatCount, 1)
	assert.Equal(t, "turn", domain.ErrorKind(err))
	_, err = svc.PlayCards(r, starter, []string{"H4"})
	assert.Equal(t, "phase", domain.ErrorKind(err))
	_, err = svc.PlayCards(r, starter, []string{"Q7"})
	assert.Equal(t, "legality", domain.ErrorKind(err))
	_, err = svc.Bid(r, starter, 9)
	assert.Equal(t, "legality", domain.ErrorKind(err))
}

func TestRejectedOperationsKeepVersion(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)))
	r := fullRoom(t, domain.StandardDeck)
	_, err := svc.StartGame(r)
	require.NoError(t, err)

	v := r.Version
	_, err = svc.Pass(r, 0)
	require.Error(t, err)
	assert.Equal(t, v, r.Version)

	_, err = svc.Bid(r, r.Game.CurrentTurn, 0)
	require.NoError(t, err)
	assert.Equal(t, v+1, r.Version)
}

func TestApplyBotMoveDiscardsStaleDecisions(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(9)))
	r := fullRoom(t, domain.StandardDeck, 1, 2, 3)
	_, err := svc.StartGame(r)
	require.NoError(t, err)

	seat := r.Game.CurrentTurn
	stale := r.Version
	_, err = svc.Bid(r, seat, 0)
	require.NoError(t, err)

	// A forced first bid skips straight to taking the hole.
	next := r.Game.CurrentTurn
	move := bot.Move{Kind: bot.ActionBid, Bid: 0}
	if r.Game.Phase == domain.PhaseTakingHole {
		move = bot.Move{Kind: bot.ActionTakeHole}
	}
	_, err = svc.ApplyBotMove(r, next, stale, move)
	assert.ErrorIs(t, err, ErrStaleDecision)
	assert.Equal(t, next, r.Game.CurrentTurn, "stale decision must not be applied")

	_, err = svc.ApplyBotMove(r, next, r.Version, move)
	assert.NoError(t, err)
}

func TestReadyNextRound(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)))
	r := fullRoom(t, domain.NoHoleDeck, 2, 3)
	r.Game = riggedGame(t, domain.NoHoleDeck, nil)
	r.Round = 1

	_, err := svc.ReadyNextRound(r, 0)
	assert.ErrorIs(t, err, domain.ErrPhase)

	for r.Game.Phase == domain.PhaseBidding {
		_, err := svc.Bid(r, r.Game.CurrentTurn, 0)
		require.NoError(t, err)
	}
	_, err = svc.TakeHole(r, r.Game.Digger)
	require.NoError(t, err)

	g := r.Game
	winner := g.CurrentTurn
	hand := g.Hands[winner]
	g.PlayedCards[winner] = append(g.PlayedCards[winner], hand[:len(hand)-1]...)
	g.Hands[winner] = hand[len(hand)-1:]
	_, err = svc.PlayCards(r, winner, domain.Codes(g.Hands[winner]))
	require.NoError(t, err)

	_, err = svc.ReadyNextRound(r, 0)
	assert.ErrorIs(t, err, domain.ErrState, "must settle first")
	_, err = svc.SettleByDefault(r)
	require.NoError(t, err)

	evs, err := svc.ReadyNextRound(r, 0)
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventNextRoundReady}, kinds(evs))
	assert.Equal(t, []bool{true, false, true, true}, evs[0].Payload.(NextRoundReadyPayload).Ready)

	evs, err = svc.ReadyNextRound(r, 1)
	require.NoError(t, err)
	assert.Contains(t, kinds(evs), EventGameStarted)
	assert.Equal(t, 2, r.Round)
	assert.Equal(t, winner, r.Game.BiddingStarter)
	assert.Len(t, svc.Scoreboard(r).Entries, 1)
}

func TestMaskedViewHidesOtherHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(13)))
	r := fullRoom(t, domain.StandardDeck)
	v := svc.MaskedView(r, 0)
	assert.Empty(t, v.Phase)
	assert.Equal(t, domain.NoSeat, v.CurrentTurn)
	assert.Equal(t, domain.NoBid, v.Seats[1].Bid)

	_, err := svc.StartGame(r)
	require.NoError(t, err)
	v = svc.MaskedView(r, 2)
	assert.Equal(t, domain.Codes(r.Game.Hands[2]), v.Hand)
	assert.Empty(t, v.Hole, "the hole stays hidden while bidding")
	for _, s := range v.Seats {
		assert.Equal(t, 12, s.CardCount)
		assert.Equal(t, domain.NoBid, s.Bid)
	}

	bidder := r.Game.CurrentTurn
	_, err = svc.Bid(r, bidder, 0)
	require.NoError(t, err)
	v = svc.MaskedView(r, (bidder+2)%domain.SeatCount)
	assert.NotEqual(t, domain.NoBid, v.Seats[bidder].Bid)
	assert.Equal(t, r.Game.BidOf(bidder), v.Seats[bidder].Bid, "every seat sees who bid what")

	spectator := svc.MaskedView(r, domain.NoSeat)
	assert.Empty(t, spectator.Hand)
}
