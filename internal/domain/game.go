package domain

import (
	"fmt"
	"math/rand"
)

// MaxBid is the highest bid and ends bidding immediately.
const MaxBid = 4

// NoBid marks a seat that has not bid yet. A bid of 0 is a pass.
const NoBid = -1

// Game is the authoritative state of one dealt hand.
type Game struct {
	Config DeckConfig
	Phase  Phase

	Hands [][]Card
	// Hole holds the undealt cards until the digger takes them.
	Hole []Card
	// RevealedHole is the public copy of the hole once bidding resolves.
	RevealedHole []Card

	PlayedCards [][]Card
	PlayedMoves [][]PlayedMove

	CurrentTurn    int
	BidScore       int
	Bids           []int // per seat, NoBid until the seat has bid
	Digger         int
	BiddingStarter int
	PassCount      int
	LastMove       *Move
	Undo           *UndoRecord

	Winner     int
	WinnerSide Side
	Pending    *PendingSettlement
	Multiplier int // 0 until the settlement multiplier is applied
}

// BidResult describes the effect of an accepted bid.
type BidResult struct {
	Seat     int
	Score    int
	Forced   bool
	Resolved bool
	Digger   int
	BidScore int
	NextTurn int
	Hole     []Card
}

// TakeHoleResult describes the digger picking up the hole.
type TakeHoleResult struct {
	Digger    int
	Hole      []Card
	FirstTurn int
}

// PlayResult describes an accepted play.
type PlayResult struct {
	Seat     int
	Cards    []Card
	Pattern  HandPattern
	MaxPlay  bool
	Finished bool
	NextTurn int
}

// PassResult describes an accepted pass.
type PassResult struct {
	Seat        int
	TrickClosed bool
	NextTurn    int
}

// UndoResult describes a reverted play.
type UndoResult struct {
	Seat     int
	Cards    []Card
	NextTurn int
}

// DealGame shuffles a fresh deck and starts bidding at starter.
func DealGame(cfg DeckConfig, rng *rand.Rand, starter int) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	deck := ShuffleDeck(NewDeck(cfg), rng)
	hands, hole, err := Deal(deck, cfg)
	if err != nil {
		return nil, err
	}
	return NewGame(cfg, hands, hole, starter)
}

// NewGame builds a game in the bidding phase from already dealt cards.
func NewGame(cfg DeckConfig, hands [][]Card, hole []Card, starter int) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(hands) != cfg.Seats {
		return nil, fmt.Errorf("%w: got %d hands for %d seats", ErrConfig, len(hands), cfg.Seats)
	}
	if len(hole) != cfg.HoleSize {
		return nil, fmt.Errorf("%w: hole has %d cards, want %d", ErrConfig, len(hole), cfg.HoleSize)
	}
	if starter < 0 || starter >= cfg.Seats {
		return nil, fmt.Errorf("%w: bidding starter %d out of range", ErrConfig, starter)
	}

	g := &Game{
		Config:         cfg,
		Phase:          PhaseBidding,
		Hands:          make([][]Card, cfg.Seats),
		Hole:           cloneCards(hole),
		PlayedCards:    make([][]Card, cfg.Seats),
		PlayedMoves:    make([][]PlayedMove, cfg.Seats),
		CurrentTurn:    starter,
		Bids:           make([]int, cfg.Seats),
		Digger:         NoSeat,
		BiddingStarter: starter,
		Winner:         NoSeat,
	}
	if g.Hole == nil {
		g.Hole = []Card{}
	}
	SortHand(g.Hole)
	for i, h := range hands {
		if len(h) != cfg.HandSize() {
			return nil, fmt.Errorf("%w: seat %d has %d cards, want %d", ErrConfig, i, len(h), cfg.HandSize())
		}
		g.Hands[i] = cloneCards(h)
		SortHand(g.Hands[i])
		g.PlayedCards[i] = []Card{}
		g.PlayedMoves[i] = []PlayedMove{}
		g.Bids[i] = NoBid
	}
	if err := g.CheckConservation(); err != nil {
		return nil, err
	}
	return g, nil
}

// NextSeat returns the seat after the given one in turn order.
func (g *Game) NextSeat(seat int) int {
	return (seat + 1) % g.Config.Seats
}

func (g *Game) checkActor(phase Phase, seat int) error {
	if g.Phase != phase {
		return fmt.Errorf("%w: not in %s phase (now %s)", ErrPhase, phase, g.Phase)
	}
	if seat < 0 || seat >= g.Config.Seats {
		return fmt.Errorf("%w: unknown seat %d", ErrTurn, seat)
	}
	return nil
}

// Bid records a bid of 0 (pass) to 4 for the seat on turn.
func (g *Game) Bid(seat, score int) (BidResult, error) {
	if err := g.checkActor(PhaseBidding, seat); err != nil {
		return BidResult{}, err
	}
	if seat != g.CurrentTurn {
		return BidResult{}, fmt.Errorf("%w: seat %d is not on turn", ErrTurn, seat)
	}
	if score < 0 || score > MaxBid {
		return BidResult{}, fmt.Errorf("%w: invalid bid %d", ErrLegality, score)
	}
	if score > 0 && score <= g.BidScore {
		return BidResult{}, fmt.Errorf("%w: bid %d must exceed %d", ErrLegality, score, g.BidScore)
	}

	res := BidResult{Seat: seat, Score: score}
	if IsForcedBid(g.Hands[seat]) {
		g.BidScore = MaxBid
		g.Digger = seat
		g.recordBid(seat, MaxBid)
		res.Score = MaxBid
		res.Forced = true
		g.resolveBidding(&res)
		return res, nil
	}

	g.recordBid(seat, score)
	if score > g.BidScore {
		g.BidScore = score
		g.Digger = seat
	}
	if score == MaxBid {
		g.resolveBidding(&res)
		return res, nil
	}

	next := g.NextSeat(seat)
	if next == g.BiddingStarter {
		if g.Digger == NoSeat {
			g.Digger = g.lowestHeartSeat()
			g.BidScore = 1
		}
		g.resolveBidding(&res)
		return res, nil
	}

	g.CurrentTurn = next
	res.Digger = g.Digger
	res.BidScore = g.BidScore
	res.NextTurn = next
	return res, nil
}

func (g *Game) recordBid(seat, score int) {
	if seat < len(g.Bids) {
		g.Bids[seat] = score
	}
}

// BidOf returns the seat's bid, or NoBid if it has not bid this hand.
func (g *Game) BidOf(seat int) int {
	if seat < 0 || seat >= len(g.Bids) {
		return NoBid
	}
	return g.Bids[seat]
}

func (g *Game) resolveBidding(res *BidResult) {
	g.Phase = PhaseTakingHole
	g.PassCount = 0
	g.LastMove = nil
	g.CurrentTurn = g.Digger
	g.RevealedHole = cloneCards(g.Hole)

	res.Resolved = true
	res.Digger = g.Digger
	res.BidScore = g.BidScore
	res.NextTurn = g.Digger
	res.Hole = cloneCards(g.Hole)
}

// lowestHeartSeat finds the holder of the lowest comparison-value Hearts card.
func (g *Game) lowestHeartSeat() int {
	best, bestValue := g.BiddingStarter, 1<<30
	for seat, hand := range g.Hands {
		for _, c := range hand {
			if c.Suit == Hearts && c.Value() < bestValue {
				best, bestValue = seat, c.Value()
			}
		}
	}
	return best
}

// TakeHole merges the hole into the digger's hand and opens play.
func (g *Game) TakeHole(seat int) (TakeHoleResult, error) {
	if err := g.checkActor(PhaseTakingHole, seat); err != nil {
		return TakeHoleResult{}, err
	}
	if seat != g.Digger {
		return TakeHoleResult{}, fmt.Errorf("%w: only the digger can take the hole", ErrState)
	}

	hole := cloneCards(g.Hole)
	hand := append(cloneCards(g.Hands[seat]), hole...)
	SortHand(hand)
	g.Hands[seat] = hand
	g.Hole = []Card{}

	g.Phase = PhasePlaying
	g.PassCount = 0
	g.LastMove = nil
	g.CurrentTurn = g.openingSeat()

	return TakeHoleResult{Digger: seat, Hole: hole, FirstTurn: g.CurrentTurn}, nil
}

func (g *Game) openingSeat() int {
	for seat, hand := range g.Hands {
		if HasCard(hand, HeartsFour) {
			return seat
		}
	}
	return g.CurrentTurn
}

// CheckPlay validates a play without applying it.
func (g *Game) CheckPlay(seat int, cards []Card) (HandPattern, error) {
	if err := g.checkActor(PhasePlaying, seat); err != nil {
		return HandPattern{}, err
	}
	if seat != g.CurrentTurn {
		return HandPattern{}, fmt.Errorf("%w: seat %d is not on turn", ErrTurn, seat)
	}
	if len(cards) == 0 {
		return HandPattern{}, fmt.Errorf("%w: no cards played", ErrLegality)
	}
	if !HoldsAll(g.Hands[seat], cards) {
		return HandPattern{}, fmt.Errorf("%w: cards not in hand", ErrLegality)
	}
	pattern, ok := AnalyzeHand(cards)
	if !ok {
		return HandPattern{}, fmt.Errorf("%w: invalid card pattern", ErrLegality)
	}
	if g.LastMove != nil && g.LastMove.Seat != seat && !Beats(pattern, g.LastMove.Pattern) {
		return HandPattern{}, fmt.Errorf("%w: cards must beat the last play", ErrLegality)
	}
	return pattern, nil
}

// Play moves cards from the seat's hand onto the table.
func (g *Game) Play(seat int, cards []Card) (PlayResult, error) {
	pattern, err := g.CheckPlay(seat, cards)
	if err != nil {
		return PlayResult{}, err
	}

	played := cloneCards(cards)
	SortHand(played)
	undo := &UndoRecord{
		Seat:            seat,
		Cards:           played,
		PrevLastMove:    g.LastMove.clone(),
		PrevPassCount:   g.PassCount,
		PrevPlayedCount: len(g.PlayedCards[seat]),
		PrevMoveCount:   len(g.PlayedMoves[seat]),
	}

	g.Hands[seat] = RemoveCards(g.Hands[seat], played)
	g.PlayedCards[seat] = append(g.PlayedCards[seat], played...)
	g.PlayedMoves[seat] = append(g.PlayedMoves[seat], PlayedMove{Cards: played, Pattern: pattern})
	g.LastMove = &Move{Seat: seat, Cards: played, Pattern: pattern}
	g.PassCount = 0

	res := PlayResult{Seat: seat, Cards: cloneCards(played), Pattern: pattern}
	if len(g.Hands[seat]) == 0 {
		g.finish(seat)
		res.Finished = true
		res.NextTurn = NoSeat
		return res, nil
	}

	g.Undo = undo
	if IsMaxPlay(pattern, g.Config) {
		res.MaxPlay = true
		g.CurrentTurn = seat
	} else {
		g.CurrentTurn = g.NextSeat(seat)
	}
	res.NextTurn = g.CurrentTurn
	return res, nil
}

// CanPass reports whether the seat may pass right now.
func (g *Game) CanPass(seat int) bool {
	return g.Phase == PhasePlaying && seat == g.CurrentTurn && g.LastMove != nil && g.LastMove.Seat != seat
}

// Pass declines to beat the last move.
func (g *Game) Pass(seat int) (PassResult, error) {
	if err := g.checkActor(PhasePlaying, seat); err != nil {
		return PassResult{}, err
	}
	if seat != g.CurrentTurn {
		return PassResult{}, fmt.Errorf("%w: seat %d is not on turn", ErrTurn, seat)
	}
	if g.LastMove == nil || g.LastMove.Seat == seat {
		return PassResult{}, fmt.Errorf("%w: cannot pass with free play", ErrLegality)
	}

	g.Undo = nil
	g.PassCount++
	g.CurrentTurn = g.NextSeat(seat)

	res := PassResult{Seat: seat}
	if g.PassCount >= g.Config.Seats-1 {
		g.CurrentTurn = g.LastMove.Seat
		g.LastMove = nil
		g.PassCount = 0
		res.TrickClosed = true
	}
	res.NextTurn = g.CurrentTurn
	return res, nil
}

// UndoLast reverts the seat's most recent play while nobody has acted since.
func (g *Game) UndoLast(seat int) (UndoResult, error) {
	if err := g.checkActor(PhasePlaying, seat); err != nil {
		return UndoResult{}, err
	}
	rec := g.Undo
	if rec == nil {
		return UndoResult{}, fmt.Errorf("%w: nothing to undo", ErrState)
	}
	if rec.Seat != seat || g.LastMove == nil || g.LastMove.Seat != seat || g.PassCount != 0 {
		return UndoResult{}, fmt.Errorf("%w: seat %d cannot undo now", ErrState, seat)
	}

	hand := append(cloneCards(g.Hands[seat]), rec.Cards...)
	SortHand(hand)
	g.Hands[seat] = hand
	g.PlayedCards[seat] = cloneCards(g.PlayedCards[seat][:rec.PrevPlayedCount])
	moves := make([]PlayedMove, rec.PrevMoveCount)
	copy(moves, g.PlayedMoves[seat][:rec.PrevMoveCount])
	g.PlayedMoves[seat] = moves
	g.LastMove = rec.PrevLastMove.clone()
	g.PassCount = rec.PrevPassCount
	g.CurrentTurn = seat
	g.Undo = nil

	return UndoResult{Seat: seat, Cards: cloneCards(rec.Cards), NextTurn: seat}, nil
}

func (g *Game) finish(winner int) {
	g.Phase = PhaseFinished
	g.Winner = winner
	g.Undo = nil
	g.CurrentTurn = winner
	if winner == g.Digger {
		g.WinnerSide = SideDigger
	} else {
		g.WinnerSide = SideOthers
	}
	g.Pending = newPendingSettlement(g)
}

// SideOf reports which team a seat plays for.
func (g *Game) SideOf(seat int) Side {
	if seat == g.Digger {
		return SideDigger
	}
	return SideOthers
}

// Clone deep copies the game so the copy can be mutated freely.
func (g *Game) Clone() *Game {
	out := *g
	out.Hands = make([][]Card, len(g.Hands))
	out.PlayedCards = make([][]Card, len(g.PlayedCards))
	out.PlayedMoves = make([][]PlayedMove, len(g.PlayedMoves))
	for i := range g.Hands {
		out.Hands[i] = cloneCards(g.Hands[i])
	}
	for i := range g.PlayedCards {
		out.PlayedCards[i] = cloneCards(g.PlayedCards[i])
	}
	for i := range g.PlayedMoves {
		out.PlayedMoves[i] = clonePlayedMoves(g.PlayedMoves[i])
	}
	if g.Bids != nil {
		out.Bids = append([]int(nil), g.Bids...)
	}
	out.Hole = cloneCards(g.Hole)
	out.RevealedHole = cloneCards(g.RevealedHole)
	out.LastMove = g.LastMove.clone()
	if g.Undo != nil {
		u := *g.Undo
		u.Cards = cloneCards(g.Undo.Cards)
		u.PrevLastMove = g.Undo.PrevLastMove.clone()
		out.Undo = &u
	}
	if g.Pending != nil {
		p := *g.Pending
		p.BaseDeltas = append([]int(nil), g.Pending.BaseDeltas...)
		out.Pending = &p
	}
	return &out
}

func clonePlayedMoves(moves []PlayedMove) []PlayedMove {
	if moves == nil {
		return nil
	}
	out := make([]PlayedMove, len(moves))
	for i, m := range moves {
		out[i] = PlayedMove{Cards: cloneCards(m.Cards), Pattern: m.Pattern}
	}
	return out
}

// CheckConservation verifies every card of the deck is in exactly one place.
func (g *Game) CheckConservation() error {
	seen := make(map[Card]int, g.Config.Size())
	count := func(cards []Card) {
		for _, c := range cards {
			seen[c]++
		}
	}
	for _, h := range g.Hands {
		count(h)
	}
	for _, p := range g.PlayedCards {
		count(p)
	}
	count(g.Hole)

	for _, c := range NewDeck(g.Config) {
		if seen[c] != 1 {
			return fmt.Errorf("%w: card %s seen %d times", ErrState, c, seen[c])
		}
		delete(seen, c)
	}
	if len(seen) != 0 {
		return fmt.Errorf("%w: %d foreign cards in play", ErrState, len(seen))
	}
	return nil
}
