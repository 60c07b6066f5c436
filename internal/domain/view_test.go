package domain

import (
	"testing"
)

func TestViewForMasksOtherHands(t *testing.T) {
	g := rigGame(t, StandardDeck, nil, 0)
	v := g.ViewFor(2)

	if len(v.Hand) != 12 || v.Hand[0] != g.Hands[2][0] {
		t.Fatalf("viewer should see its own hand")
	}
	for seat, s := range v.Seats {
		if s.CardCount != len(g.Hands[seat]) {
			t.Fatalf("seat %d count = %d, want %d", seat, s.CardCount, len(g.Hands[seat]))
		}
	}
	if v.Hole != nil || v.HoleTaken {
		t.Fatalf("hole must stay hidden during bidding, got %v", v.Hole)
	}

	v.Hand[0] = Card{Suit: Joker, Rank: RankRedJoker}
	if g.Hands[2][0].Suit == Joker {
		t.Fatalf("view must not alias the game hand")
	}
}

func TestViewForHoleVisibility(t *testing.T) {
	g := rigGame(t, StandardDeck, nil, 0)
	mustBid(t, g, 0, 4)

	v := g.ViewFor(3)
	if len(v.Hole) != 4 || v.HoleTaken {
		t.Fatalf("hole should be revealed but not taken, got %v taken=%v", v.Hole, v.HoleTaken)
	}
	if _, err := g.TakeHole(0); err != nil {
		t.Fatalf("take hole: %v", err)
	}
	v = g.ViewFor(3)
	if len(v.Hole) != 4 || !v.HoleTaken {
		t.Fatalf("revealed hole should stay visible after it is taken")
	}
	if v.Seats[0].CardCount != 16 {
		t.Fatalf("digger should hold 16 cards, view says %d", v.Seats[0].CardCount)
	}
}

func TestViewForUndoAndPlayedPiles(t *testing.T) {
	g := playingGame(t, StandardDeck, nil)
	card := g.Hands[0][0]
	if _, err := g.Play(0, []Card{card}); err != nil {
		t.Fatalf("play: %v", err)
	}

	mine := g.ViewFor(0)
	if !mine.CanUndo {
		t.Fatalf("the player who just played should be able to undo")
	}
	if got := mine.MyPlayedCards(); len(got) != 1 || got[0] != card {
		t.Fatalf("played pile = %v, want [%s]", got, card)
	}
	other := g.ViewFor(1)
	if other.CanUndo {
		t.Fatalf("other seats cannot undo")
	}
	if !other.Following() || mine.Following() {
		t.Fatalf("following flags wrong: other=%v mine=%v", other.Following(), mine.Following())
	}
	if len(other.Seats[0].PlayedMoves) != 1 {
		t.Fatalf("played moves should be public")
	}
}
