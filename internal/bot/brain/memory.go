package brain

import (
	"wakeng/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // in some opponent's hand
	StatusMine                      // in the bot's hand
	StatusPlayed                    // already on the table
	StatusHole                      // a revealed hole card still held by the digger
)

// GameMemory is the bot's knowledge of where the cards of the deck are. It
// is rebuilt from a masked view, so it never sees an opponent's hand.
type GameMemory struct {
	Seat   int
	Digger int
	Status map[domain.Card]CardStatus
	// Counts is the public hand size of every seat.
	Counts []int
	deck   []domain.Card
}

// NewMemory builds the knowledge for the viewer of v.
func NewMemory(v domain.PlayerView) *GameMemory {
	m := &GameMemory{
		Seat:   v.Seat,
		Digger: v.Digger,
		Status: make(map[domain.Card]CardStatus, v.Config.Size()),
		Counts: make([]int, len(v.Seats)),
		deck:   domain.NewDeck(v.Config),
	}
	for _, c := range m.deck {
		m.Status[c] = StatusUnknown
	}
	for i, s := range v.Seats {
		m.Counts[i] = s.CardCount
		m.MarkPlayed(s.PlayedCards)
	}
	m.MarkMine(v.Hand)

	// Hole cards the digger picked up and has not played yet are known to be
	// in the digger's hand.
	if v.HoleTaken && v.Digger != v.Seat && v.Digger != domain.NoSeat {
		for _, c := range v.Hole {
			if m.Status[c] == StatusUnknown {
				m.Status[c] = StatusHole
			}
		}
	}
	return m
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.Status[c] = StatusMine
	}
}

// MarkPlayed records cards that have been played on the table.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.Status[c] = StatusPlayed
	}
}

// IsPlayed returns true if the card is already out of the game.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	return m.Status[c] == StatusPlayed
}

// Unseen returns the cards that could be in any opponent's hand, in deck order.
func (m *GameMemory) Unseen() []domain.Card {
	var out []domain.Card
	for _, c := range m.deck {
		if m.Status[c] == StatusUnknown {
			out = append(out, c)
		}
	}
	return out
}

// KnownHole returns the hole cards pinned to the digger.
func (m *GameMemory) KnownHole() []domain.Card {
	var out []domain.Card
	for _, c := range m.deck {
		if m.Status[c] == StatusHole {
			out = append(out, c)
		}
	}
	return out
}
