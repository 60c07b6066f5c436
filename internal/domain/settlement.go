package domain

import (
	"fmt"
	"time"
)

// PendingSettlement is the base result of a finished hand, before the
// multiplier is chosen.
type PendingSettlement struct {
	BidScore   int
	Digger     int
	Winner     int
	WinnerSide Side
	BaseDeltas []int
}

func newPendingSettlement(g *Game) *PendingSettlement {
	base := g.BidScore
	others := g.Config.Seats - 1
	deltas := make([]int, g.Config.Seats)
	for seat := range deltas {
		switch {
		case seat == g.Digger && g.WinnerSide == SideDigger:
			deltas[seat] = base * others
		case seat == g.Digger:
			deltas[seat] = -base * others
		case g.WinnerSide == SideDigger:
			deltas[seat] = -base
		default:
			deltas[seat] = base
		}
	}
	return &PendingSettlement{
		BidScore:   g.BidScore,
		Digger:     g.Digger,
		Winner:     g.Winner,
		WinnerSide: g.WinnerSide,
		BaseDeltas: deltas,
	}
}

// ValidMultiplier reports whether m is one of 1, 2, 4 or 8.
func ValidMultiplier(m int) bool {
	switch m {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of one settled hand.
type LedgerEntry struct {
	Round      int       `json:"round"`
	BidScore   int       `json:"bid_score"`
	Digger     int       `json:"digger"`
	Winner     int       `json:"winner"`
	WinnerSide Side      `json:"winner_side"`
	Multiplier int       `json:"multiplier"`
	Deltas     []int     `json:"deltas"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ledger keeps settled hands and running totals for a room.
type Ledger struct {
	Entries []LedgerEntry
	Totals  []int
}

// NewLedger returns an empty ledger for the given seat count.
func NewLedger(seats int) *Ledger {
	return &Ledger{Totals: make([]int, seats)}
}

// Commit applies the multiplier to the game's pending settlement exactly once.
func (l *Ledger) Commit(g *Game, round, multiplier int, now time.Time) (LedgerEntry, error) {
	if g.Phase != PhaseFinished {
		return LedgerEntry{}, fmt.Errorf("%w: hand is not finished", ErrPhase)
	}
	if g.Pending == nil {
		return LedgerEntry{}, fmt.Errorf("%w: no pending settlement", ErrState)
	}
	if g.Multiplier != 0 {
		return LedgerEntry{}, fmt.Errorf("%w: settlement already applied", ErrState)
	}
	if !ValidMultiplier(multiplier) {
		return LedgerEntry{}, fmt.Errorf("%w: invalid multiplier %d", ErrLegality, multiplier)
	}
	if len(l.Totals) != len(g.Pending.BaseDeltas) {
		return LedgerEntry{}, fmt.Errorf("%w: ledger has %d seats, game has %d", ErrState, len(l.Totals), len(g.Pending.BaseDeltas))
	}

	deltas := make([]int, len(g.Pending.BaseDeltas))
	for i, d := range g.Pending.BaseDeltas {
		deltas[i] = d * multiplier
		l.Totals[i] += deltas[i]
	}
	g.Multiplier = multiplier

	entry := LedgerEntry{
		Round:      round,
		BidScore:   g.Pending.BidScore,
		Digger:     g.Pending.Digger,
		Winner:     g.Pending.Winner,
		WinnerSide: g.Pending.WinnerSide,
		Multiplier: multiplier,
		Deltas:     deltas,
		CreatedAt:  now,
	}
	l.Entries = append(l.Entries, entry)
	return entry, nil
}

// Clone copies the ledger.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{Totals: append([]int(nil), l.Totals...)}
	out.Entries = make([]LedgerEntry, len(l.Entries))
	for i, e := range l.Entries {
		e.Deltas = append([]int(nil), e.Deltas...)
		out.Entries[i] = e
	}
	return out
}
