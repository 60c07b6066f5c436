package internal

import (
	"strings"
	"testing"

	"wakeng/internal/domain"
)

func cards(t *testing.T, codes string) []domain.Card {
	t.Helper()
	out, err := domain.ParseCards(strings.Fields(codes))
	if err != nil {
		t.Fatalf("bad cards %q: %v", codes, err)
	}
	return out
}

func countByType(moves []ValidMove) map[domain.PatternType]int {
	counts := make(map[domain.PatternType]int)
	for _, m := range moves {
		counts[m.Pattern.Type]++
	}
	return counts
}

func TestGetValidMovesLead(t *testing.T) {
	hand := cards(t, "S3 H3 S4 S5 S6")
	counts := countByType(GetValidMoves(hand))

	if counts[domain.Single] != 5 {
		t.Errorf("singles = %d, want 5", counts[domain.Single])
	}
	if counts[domain.Pair] != 1 {
		t.Errorf("pairs = %d, want 1", counts[domain.Pair])
	}
	// 3 cannot start a run, so only 4-5-6.
	if counts[domain.Straight] != 1 {
		t.Errorf("straights = %d, want 1", counts[domain.Straight])
	}
}

func TestGetValidMovesRuns(t *testing.T) {
	hand := cards(t, "H4 D4 C4 H5 D5 C5 H6 D6 S7 S8")
	counts := countByType(GetValidMoves(hand))

	// 4-5-6, 4-5-6-7, 4-5-6-7-8, 5-6-7, 5-6-7-8, 6-7-8
	if counts[domain.Straight] != 6 {
		t.Errorf("straights = %d, want 6", counts[domain.Straight])
	}
	if counts[domain.ConsecutivePairs] != 1 {
		t.Errorf("consecutive pairs = %d, want 1", counts[domain.ConsecutivePairs])
	}
	if counts[domain.ConsecutiveTriplets] != 1 {
		t.Errorf("consecutive triplets = %d, want 1", counts[domain.ConsecutiveTriplets])
	}
	if counts[domain.Triplet] != 2 {
		t.Errorf("triplets = %d, want 2", counts[domain.Triplet])
	}
}

func TestGetValidMovesStopsAtKing(t *testing.T) {
	hand := cards(t, "H12 D13 C14 S15")
	for _, m := range GetValidMoves(hand) {
		if m.Pattern.Type == domain.Straight {
			t.Fatalf("no straight may include an ace or two, got %s", m.Key())
		}
	}
}

func TestLegalMovesFollowing(t *testing.T) {
	hand := cards(t, "S3 S8 S15 H9 D9")
	last := &domain.Move{Seat: 1, Cards: cards(t, "S5"), Pattern: domain.HandPattern{Type: domain.Single, Rank: 5, Length: 1}}

	moves := LegalMoves(hand, last, true)
	keys := make(map[string]bool)
	for _, m := range moves {
		keys[m.Key()] = true
	}
	for _, want := range []string{"S3", "S8", "S15", "H9", "D9", PassKey} {
		if !keys[want] {
			t.Errorf("missing move %s", want)
		}
	}
	if keys["D9,H9"] {
		t.Errorf("a pair cannot follow a single")
	}
	if len(moves) != 6 {
		t.Errorf("moves = %d, want 6", len(moves))
	}
}

func TestLegalMovesNeverBeatWithDifferentShape(t *testing.T) {
	hand := cards(t, "H10 D10 C10 S10 H11 D11")
	last := &domain.Move{Seat: 2, Cards: cards(t, "H9 S9"), Pattern: domain.HandPattern{Type: domain.Pair, Rank: 9, Length: 2}}
	for _, m := range LegalMoves(hand, last, false) {
		if m.Pattern.Type != domain.Pair {
			t.Fatalf("only pairs may follow a pair, got %s", m.Key())
		}
	}
}

func TestFindFinishing(t *testing.T) {
	hand := cards(t, "H4 D5 C6")
	m, ok := FindFinishing(hand, GetValidMoves(hand))
	if !ok || len(m.Cards) != 3 {
		t.Fatalf("expected the straight to finish the hand, got %v", m)
	}
	if _, ok := FindFinishing(cards(t, "H4 D9"), GetValidMoves(cards(t, "H4 D9"))); ok {
		t.Fatalf("two unrelated cards cannot finish")
	}
}

func TestMoveKeyIsOrderIndependent(t *testing.T) {
	if MoveKey(cards(t, "H9 D9")) != MoveKey(cards(t, "D9 H9")) {
		t.Fatalf("move keys should not depend on card order")
	}
}
