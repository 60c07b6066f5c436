package domain

// SeatView is the public information about one seat.
type SeatView struct {
	Seat        int          `json:"seat"`
	CardCount   int          `json:"card_count"`
	Bid         int          `json:"bid"`
	PlayedCards []Card       `json:"-"`
	PlayedMoves []PlayedMove `json:"-"`
}

// PlayerView is what one seat is allowed to see. It never contains another
// seat's hand contents, and every slice is a private copy.
type PlayerView struct {
	Seat   int
	Config DeckConfig
	Phase  Phase
	Hand   []Card
	Seats  []SeatView

	CurrentTurn    int
	BidScore       int
	Digger         int
	BiddingStarter int
	PassCount      int
	LastMove       *Move

	// Hole is set once bidding resolves; HoleTaken reports whether the
	// digger has already merged it.
	Hole      []Card
	HoleTaken bool
	CanUndo   bool

	Winner     int
	WinnerSide Side
	Pending    *PendingSettlement
	Multiplier int
}

// ViewFor builds the masked view for a seat.
func (g *Game) ViewFor(seat int) PlayerView {
	v := PlayerView{
		Seat:           seat,
		Config:         g.Config,
		Phase:          g.Phase,
		Seats:          make([]SeatView, len(g.Hands)),
		CurrentTurn:    g.CurrentTurn,
		BidScore:       g.BidScore,
		Digger:         g.Digger,
		BiddingStarter: g.BiddingStarter,
		PassCount:      g.PassCount,
		LastMove:       g.LastMove.clone(),
		Winner:         g.Winner,
		WinnerSide:     g.WinnerSide,
		Multiplier:     g.Multiplier,
	}
	if seat >= 0 && seat < len(g.Hands) {
		v.Hand = cloneCards(g.Hands[seat])
	}
	for i := range g.Hands {
		v.Seats[i] = SeatView{
			Seat:        i,
			CardCount:   len(g.Hands[i]),
			Bid:         g.BidOf(i),
			PlayedCards: cloneCards(g.PlayedCards[i]),
			PlayedMoves: clonePlayedMoves(g.PlayedMoves[i]),
		}
	}
	if g.Phase != PhaseBidding {
		v.Hole = cloneCards(g.RevealedHole)
		v.HoleTaken = g.Phase != PhaseTakingHole
	}
	v.CanUndo = g.Undo != nil && g.Undo.Seat == seat && g.LastMove != nil && g.LastMove.Seat == seat && g.PassCount == 0
	if g.Pending != nil {
		p := *g.Pending
		p.BaseDeltas = append([]int(nil), g.Pending.BaseDeltas...)
		v.Pending = &p
	}
	return v
}

// MyPlayedCards returns the viewer's own played pile.
func (v PlayerView) MyPlayedCards() []Card {
	if v.Seat < 0 || v.Seat >= len(v.Seats) {
		return nil
	}
	return v.Seats[v.Seat].PlayedCards
}

// Following reports whether the viewer must beat a move from another seat.
func (v PlayerView) Following() bool {
	return v.LastMove != nil && v.LastMove.Seat != v.Seat
}
