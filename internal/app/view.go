package app

import "wakeng/internal/domain"

// SeatInfo is the public state of one seat.
type SeatInfo struct {
	Seat        int        `json:"seat"`
	UserID      string     `json:"user_id"`
	Bot         bool       `json:"bot"`
	Ready       bool       `json:"ready"`
	CardCount   int        `json:"card_count"`
	Bid         int        `json:"bid"`
	PlayedCards []string   `json:"played_cards"`
	PlayedMoves [][]string `json:"played_moves"`
}

// MoveView is a play on the table.
type MoveView struct {
	Seat    int                `json:"seat"`
	Cards   []string           `json:"cards"`
	Pattern domain.PatternType `json:"pattern"`
}

// SettlementView is the unapplied result of a finished hand.
type SettlementView struct {
	Winner     int         `json:"winner"`
	WinnerSide domain.Side `json:"winner_side"`
	Digger     int         `json:"digger"`
	BidScore   int         `json:"bid_score"`
	BaseDeltas []int       `json:"base_deltas"`
}

// RoomView is everything one seat may see about a room.
type RoomView struct {
	RoomID   string     `json:"room_id"`
	Round    int        `json:"round"`
	Version  uint64     `json:"version"`
	Seat     int        `json:"seat"`
	HostSeat int        `json:"host_seat"`
	Seats    []SeatInfo `json:"seats"`

	Phase          domain.Phase `json:"phase,omitempty"`
	Hand           []string     `json:"hand"`
	CurrentTurn    int          `json:"current_turn"`
	BidScore       int          `json:"bid_score"`
	Digger         int          `json:"digger"`
	BiddingStarter int          `json:"bidding_starter"`
	PassCount      int          `json:"pass_count"`
	LastMove       *MoveView    `json:"last_move,omitempty"`
	Hole           []string     `json:"hole,omitempty"`
	HoleTaken      bool         `json:"hole_taken"`
	CanUndo        bool         `json:"can_undo"`
	Multiplier     int          `json:"multiplier"`

	Pending *SettlementView      `json:"pending,omitempty"`
	Ledger  []domain.LedgerEntry `json:"ledger"`
	Totals  []int                `json:"totals"`
}

// Scoreboard is the settled history of a room.
type Scoreboard struct {
	Round   int                  `json:"round"`
	Entries []domain.LedgerEntry `json:"entries"`
	Totals  []int                `json:"totals"`
}

// MaskedView builds the view for seat. Seats outside the table (spectators)
// get public information only.
func (s *Service) MaskedView(r *Room, seat int) RoomView {
	ledger := r.Ledger.Clone()
	v := RoomView{
		RoomID:      r.ID,
		Round:       r.Round,
		Version:     r.Version,
		Seat:        seat,
		HostSeat:    r.HostSeat,
		Seats:       make([]SeatInfo, domain.SeatCount),
		CurrentTurn: domain.NoSeat,
		Digger:      domain.NoSeat,
		Ledger:      ledger.Entries,
		Totals:      ledger.Totals,
	}
	for i := range v.Seats {
		v.Seats[i] = SeatInfo{Seat: i, UserID: r.Seats[i], Bot: r.Bots[i], Ready: r.Ready[i], Bid: domain.NoBid}
	}
	if r.Game == nil {
		return v
	}

	pv := r.Game.ViewFor(seat)
	v.Phase = pv.Phase
	v.Hand = domain.Codes(pv.Hand)
	v.CurrentTurn = pv.CurrentTurn
	v.BidScore = pv.BidScore
	v.Digger = pv.Digger
	v.BiddingStarter = pv.BiddingStarter
	v.PassCount = pv.PassCount
	v.Hole = domain.Codes(pv.Hole)
	v.HoleTaken = pv.HoleTaken
	v.CanUndo = pv.CanUndo
	v.Multiplier = pv.Multiplier
	if pv.LastMove != nil {
		v.LastMove = &MoveView{Seat: pv.LastMove.Seat, Cards: domain.Codes(pv.LastMove.Cards), Pattern: pv.LastMove.Pattern.Type}
	}
	for i, sv := range pv.Seats {
		v.Seats[i].CardCount = sv.CardCount
		v.Seats[i].Bid = sv.Bid
		v.Seats[i].PlayedCards = domain.Codes(sv.PlayedCards)
		v.Seats[i].PlayedMoves = make([][]string, len(sv.PlayedMoves))
		for j, m := range sv.PlayedMoves {
			v.Seats[i].PlayedMoves[j] = domain.Codes(m.Cards)
		}
	}
	if p := pv.Pending; p != nil && pv.Multiplier == 0 {
		v.Pending = &SettlementView{
			Winner:     p.Winner,
			WinnerSide: p.WinnerSide,
			Digger:     p.Digger,
			BidScore:   p.BidScore,
			BaseDeltas: p.BaseDeltas,
		}
	}
	return v
}

// Scoreboard returns a copy of the room's settlement history.
func (s *Service) Scoreboard(r *Room) Scoreboard {
	ledger := r.Ledger.Clone()
	return Scoreboard{Round: r.Round, Entries: ledger.Entries, Totals: ledger.Totals}
}
