package brain

import (
	"testing"

	"wakeng/internal/domain"
)

func TestGameMemoryFromView(t *testing.T) {
	deck := domain.NewDeck(domain.StandardDeck)
	hands, hole, err := domain.Deal(deck, domain.StandardDeck)
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	g, err := domain.NewGame(domain.StandardDeck, hands, hole, 0)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if _, err := g.Bid(0, 4); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if _, err := g.TakeHole(0); err != nil {
		t.Fatalf("take hole: %v", err)
	}

	m := NewMemory(g.ViewFor(1))
	unseen := m.Unseen()
	pinned := m.KnownHole()

	if len(pinned) != 4 {
		t.Fatalf("pinned hole cards = %d, want 4", len(pinned))
	}
	// 52 cards minus my 12 minus the 4 known hole cards.
	if len(unseen) != 36 {
		t.Fatalf("unseen = %d, want 36", len(unseen))
	}
	for _, c := range g.Hands[1] {
		if m.Status[c] != StatusMine {
			t.Errorf("%s should be StatusMine", c)
		}
	}
	for _, c := range unseen {
		if domain.HasCard(g.Hands[1], c) {
			t.Errorf("own card %s reported as unseen", c)
		}
	}

	// The digger knows its own cards; nothing is pinned.
	if got := NewMemory(g.ViewFor(0)).KnownHole(); len(got) != 0 {
		t.Fatalf("digger should not pin its own hole cards, got %v", got)
	}
}

func TestGameMemoryPlayed(t *testing.T) {
	view := domain.PlayerView{
		Seat:   0,
		Config: domain.StandardDeck,
		Digger: 1,
		Hand:   []domain.Card{{Suit: domain.Spades, Rank: domain.RankTwo}},
		Seats: []domain.SeatView{
			{Seat: 0, CardCount: 1},
			{Seat: 1, CardCount: 1, PlayedCards: []domain.Card{
				{Suit: domain.Hearts, Rank: domain.RankThree},
				{Suit: domain.Diamonds, Rank: domain.RankThree},
				{Suit: domain.Clubs, Rank: domain.RankThree},
				{Suit: domain.Spades, Rank: domain.RankThree},
			}},
			{Seat: 2, CardCount: 1},
			{Seat: 3, CardCount: 1},
		},
	}
	m := NewMemory(view)
	if !m.IsPlayed(domain.Card{Suit: domain.Clubs, Rank: domain.RankThree}) {
		t.Fatalf("C3 should be played")
	}
	if m.IsPlayed(domain.Card{Suit: domain.Spades, Rank: domain.RankTwo}) {
		t.Fatalf("own card reported as played")
	}
}
