package app

import (
	"fmt"
	"sync"

	"wakeng/internal/domain"
)

// Room is one table of four seats. Every field is guarded by Mu; service
// calls expect the caller to hold it.
type Room struct {
	Mu sync.Mutex

	ID       string
	Config   domain.DeckConfig
	Seats    [domain.SeatCount]string // user IDs, empty when free
	Bots     [domain.SeatCount]bool
	HostSeat int

	Game       *domain.Game
	Ledger     *domain.Ledger
	Round      int
	LastWinner int
	Ready      [domain.SeatCount]bool

	// Version changes on every accepted mutation. Work computed from an older
	// version must be discarded.
	Version uint64
}

// NewRoom creates an empty room.
func NewRoom(id string, cfg domain.DeckConfig) *Room {
	return &Room{
		ID:         id,
		Config:     cfg,
		HostSeat:   domain.NoSeat,
		LastWinner: domain.NoSeat,
		Ledger:     domain.NewLedger(domain.SeatCount),
	}
}

func (r *Room) bump() {
	r.Version++
}

// SeatOf returns the seat of a user.
func (r *Room) SeatOf(userID string) (int, bool) {
	if userID == "" {
		return domain.NoSeat, false
	}
	for i, id := range r.Seats {
		if id == userID {
			return i, true
		}
	}
	return domain.NoSeat, false
}

// Sit places a user in the first free seat, or returns the seat it already
// holds. The first human to sit becomes host.
func (r *Room) Sit(userID string, isBot bool) (int, error) {
	if seat, ok := r.SeatOf(userID); ok {
		return seat, nil
	}
	for i, id := range r.Seats {
		if id != "" {
			continue
		}
		r.Seats[i] = userID
		r.Bots[i] = isBot
		if r.HostSeat == domain.NoSeat && !isBot {
			r.HostSeat = i
		}
		r.bump()
		return i, nil
	}
	return domain.NoSeat, ErrSeatTaken
}

// Leave frees the user's seat and hands the host role to the next human.
func (r *Room) Leave(userID string) (int, bool) {
	seat, ok := r.SeatOf(userID)
	if !ok {
		return domain.NoSeat, false
	}
	r.Seats[seat] = ""
	r.Bots[seat] = false
	r.Ready[seat] = false
	if r.HostSeat == seat {
		r.HostSeat = domain.NoSeat
		for i, id := range r.Seats {
			if id != "" && !r.Bots[i] {
				r.HostSeat = i
				break
			}
		}
	}
	r.bump()
	return seat, true
}

// Full reports whether every seat is taken.
func (r *Room) Full() bool {
	for _, id := range r.Seats {
		if id == "" {
			return false
		}
	}
	return true
}

// Humans counts occupied seats that are not bots.
func (r *Room) Humans() int {
	n := 0
	for i, id := range r.Seats {
		if id != "" && !r.Bots[i] {
			n++
		}
	}
	return n
}

// Active reports whether a hand is being played.
func (r *Room) Active() bool {
	return r.Game != nil && r.Game.Phase != domain.PhaseFinished
}

// ViewFor returns a deep-copied masked view of the current hand.
func (r *Room) ViewFor(seat int) (domain.PlayerView, error) {
	if r.Game == nil {
		return domain.PlayerView{}, ErrNoGame
	}
	if seat < 0 || seat >= domain.SeatCount {
		return domain.PlayerView{}, fmt.Errorf("%w: seat %d", ErrUnknownSeat, seat)
	}
	return r.Game.ViewFor(seat), nil
}

// Reset drops the current hand and history. Pending bot work is invalidated.
func (r *Room) Reset() {
	r.Game = nil
	r.Ledger = domain.NewLedger(domain.SeatCount)
	r.Round = 0
	r.LastWinner = domain.NoSeat
	r.Ready = [domain.SeatCount]bool{}
	r.bump()
}

func (r *Room) userAt(seat int) string {
	if seat < 0 || seat >= domain.SeatCount {
		return ""
	}
	return r.Seats[seat]
}
