package app

import (
	"fmt"
	"math/rand"
	"time"

	"wakeng/internal/bot"
	"wakeng/internal/domain"
)

// Service contains the game use-cases operating on rooms. Every method
// expects the caller to hold room.Mu and returns the events to fan out.
type Service struct {
	rng *rand.Rand
	now func() time.Time
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, now: time.Now}
}

// StartGame deals a new hand. Bidding starts with the previous winner, or
// seat 0 for the first hand.
func (s *Service) StartGame(r *Room) ([]Event, error) {
	if r.Active() {
		return nil, ErrGameActive
	}
	if r.Game != nil && r.Game.Multiplier == 0 {
		return nil, fmt.Errorf("%w: previous hand is not settled", domain.ErrState)
	}
	if !r.Full() {
		return nil, ErrRoomNotFull
	}

	starter := 0
	if r.LastWinner != domain.NoSeat {
		starter = r.LastWinner
	}
	g, err := domain.DealGame(r.Config, s.rng, starter)
	if err != nil {
		return nil, err
	}
	r.Game = g
	r.Round++
	r.Ready = [domain.SeatCount]bool{}
	r.bump()

	events := make([]Event, 0, domain.SeatCount+1)
	events = append(events, broadcast(EventGameStarted, GameStartedPayload{
		Round:          r.Round,
		Config:         r.Config,
		BiddingStarter: starter,
		Seats:          r.Seats,
	}))
	for seat, hand := range g.Hands {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: domain.Codes(hand)},
			Recipients: []string{r.Seats[seat]},
		})
	}
	return events, nil
}

func (s *Service) game(r *Room) (*domain.Game, error) {
	if r.Game == nil {
		return nil, ErrNoGame
	}
	return r.Game, nil
}

// Bid places a bid for seat.
func (s *Service) Bid(r *Room, seat, score int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	res, err := g.Bid(seat, score)
	if err != nil {
		return nil, err
	}
	r.bump()

	events := []Event{broadcast(EventBidPlaced, BidPlacedPayload{
		Seat:     seat,
		Score:    res.Score,
		Forced:   res.Forced,
		BidScore: res.BidScore,
		Digger:   res.Digger,
		NextTurn: res.NextTurn,
	})}
	if res.Resolved {
		events = append(events, broadcast(EventHoleRevealed, HoleRevealedPayload{
			Digger:   res.Digger,
			BidScore: res.BidScore,
			Hole:     domain.Codes(res.Hole),
		}))
	}
	return events, nil
}

// TakeHole lets the digger pick up the hole.
func (s *Service) TakeHole(r *Room, seat int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	res, err := g.TakeHole(seat)
	if err != nil {
		return nil, err
	}
	r.bump()
	return []Event{
		broadcast(EventHoleTaken, HoleTakenPayload{Digger: res.Digger, Hole: domain.Codes(res.Hole), FirstTurn: res.FirstTurn}),
		{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: domain.Codes(g.Hands[seat])},
			Recipients: []string{r.userAt(seat)},
		},
	}, nil
}

// PlayCards plays the cards named by codes.
func (s *Service) PlayCards(r *Room, seat int, codes []string) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	cards, err := domain.ParseCards(codes)
	if err != nil {
		return nil, err
	}
	res, err := g.Play(seat, cards)
	if err != nil {
		return nil, err
	}
	r.bump()

	events := []Event{broadcast(EventCardsPlayed, CardsPlayedPayload{
		Seat:      seat,
		Cards:     domain.Codes(res.Cards),
		Pattern:   res.Pattern.Type,
		Remaining: len(g.Hands[seat]),
		NextTurn:  res.NextTurn,
	})}
	if res.MaxPlay {
		events = append(events, broadcast(EventMaxPlay, MaxPlayPayload{Seat: seat}))
	}
	if res.Finished {
		r.LastWinner = g.Winner
		events = append(events, broadcast(EventGameOver, GameOverPayload{
			Winner:     g.Winner,
			WinnerSide: g.WinnerSide,
			Digger:     g.Digger,
			BidScore:   g.BidScore,
			BaseDeltas: append([]int(nil), g.Pending.BaseDeltas...),
		}))
	}
	return events, nil
}

// Pass declines to beat the table.
func (s *Service) Pass(r *Room, seat int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	res, err := g.Pass(seat)
	if err != nil {
		return nil, err
	}
	r.bump()

	events := []Event{broadcast(EventTurnPassed, TurnPassedPayload{Seat: seat, NextTurn: res.NextTurn})}
	if res.TrickClosed {
		events = append(events, broadcast(EventTrickClosed, TrickClosedPayload{Leader: res.NextTurn}))
	}
	return events, nil
}

// Undo takes back the seat's last play.
func (s *Service) Undo(r *Room, seat int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	res, err := g.UndoLast(seat)
	if err != nil {
		return nil, err
	}
	r.bump()
	return []Event{broadcast(EventUndo, UndoPayload{Seat: seat, Cards: domain.Codes(res.Cards), NextTurn: res.NextTurn})}, nil
}

// SetSettlementMultiplier lets the host commit the finished hand with a
// multiplier of 1, 2, 4 or 8.
func (s *Service) SetSettlementMultiplier(r *Room, seat, multiplier int) ([]Event, error) {
	if seat != r.HostSeat {
		return nil, ErrNotHost
	}
	return s.commit(r, multiplier)
}

// SettleByDefault commits a finished hand at DefaultMultiplier. Hosts that
// leave or stall must not block the room.
func (s *Service) SettleByDefault(r *Room) ([]Event, error) {
	return s.commit(r, DefaultMultiplier)
}

func (s *Service) commit(r *Room, multiplier int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	entry, err := r.Ledger.Commit(g, r.Round, multiplier, s.now())
	if err != nil {
		return nil, err
	}
	r.bump()
	return []Event{broadcast(EventSettlementApplied, SettlementAppliedPayload{
		Round:      entry.Round,
		Multiplier: entry.Multiplier,
		Deltas:     append([]int(nil), entry.Deltas...),
		Totals:     append([]int(nil), r.Ledger.Totals...),
	})}, nil
}

// ReadyNextRound marks a seat ready after settlement. Bots are marked ready
// together with the first human. Once every seat is ready a new hand is dealt.
func (s *Service) ReadyNextRound(r *Room, seat int) ([]Event, error) {
	g, err := s.game(r)
	if err != nil {
		return nil, err
	}
	if g.Phase != domain.PhaseFinished {
		return nil, fmt.Errorf("%w: hand is still running", domain.ErrPhase)
	}
	if g.Multiplier == 0 {
		return nil, fmt.Errorf("%w: settlement not applied yet", domain.ErrState)
	}
	if r.userAt(seat) == "" {
		return nil, fmt.Errorf("%w: seat %d", ErrUnknownSeat, seat)
	}

	r.Ready[seat] = true
	for i := range r.Ready {
		if r.Bots[i] {
			r.Ready[i] = true
		}
	}
	r.bump()

	events := []Event{broadcast(EventNextRoundReady, NextRoundReadyPayload{Seat: seat, Ready: append([]bool(nil), r.Ready[:]...)})}
	for _, ok := range r.Ready {
		if !ok {
			return events, nil
		}
	}
	next, err := s.StartGame(r)
	if err != nil {
		return events, err
	}
	return append(events, next...), nil
}

// ApplyBotMove applies a bot decision computed from the room at version. A
// decision from an older version is rejected with ErrStaleDecision.
func (s *Service) ApplyBotMove(r *Room, seat int, version uint64, m bot.Move) ([]Event, error) {
	if version != r.Version {
		return nil, ErrStaleDecision
	}
	switch m.Kind {
	case bot.ActionBid:
		return s.Bid(r, seat, m.Bid)
	case bot.ActionTakeHole:
		return s.TakeHole(r, seat)
	case bot.ActionPlay:
		return s.PlayCards(r, seat, m.Codes())
	case bot.ActionPass:
		return s.Pass(r, seat)
	}
	return nil, fmt.Errorf("%w: unknown bot action %q", domain.ErrState, m.Kind)
}
