package domain

import "sort"

// PatternType represents the shape of a played combination.
type PatternType string

const (
	Single              PatternType = "SINGLE"
	Pair                PatternType = "PAIR"
	Triplet             PatternType = "TRIPLET"
	Quad                PatternType = "QUAD"
	Straight            PatternType = "STRAIGHT"
	ConsecutivePairs    PatternType = "CONSECUTIVE_PAIRS"
	ConsecutiveTriplets PatternType = "CONSECUTIVE_TRIPLETS"
)

// IsRun reports whether the type is one of the consecutive-rank shapes.
func (t PatternType) IsRun() bool {
	return t == Straight || t == ConsecutivePairs || t == ConsecutiveTriplets
}

// HandPattern is the classification of a legal combination.
type HandPattern struct {
	Type PatternType
	// Rank is the natural rank defining the pattern: the shared rank for
	// same-rank sets and the top rank for runs.
	Rank int
	// Length is the card count for sets and straights, the pair count for
	// consecutive pairs and the triplet count for consecutive triplets.
	Length int
}

const (
	runLow  = RankFour
	runHigh = RankKing
)

// AnalyzeHand classifies cards into a pattern. ok is false for illegal sets.
func AnalyzeHand(cards []Card) (HandPattern, bool) {
	n := len(cards)
	if n == 0 {
		return HandPattern{}, false
	}
	ranks := make([]int, n)
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	sort.Ints(ranks)

	if n == 4 && ranks[0] == ranks[3] {
		return HandPattern{Type: Quad, Rank: ranks[0], Length: 4}, true
	}
	if n == 1 {
		return HandPattern{Type: Single, Rank: ranks[0], Length: 1}, true
	}
	if n == 2 && ranks[0] == ranks[1] {
		return HandPattern{Type: Pair, Rank: ranks[0], Length: 2}, true
	}
	if n == 3 && ranks[0] == ranks[2] {
		return HandPattern{Type: Triplet, Rank: ranks[0], Length: 3}, true
	}
	if n >= 3 && isRun(ranks, 1) {
		return HandPattern{Type: Straight, Rank: ranks[n-1], Length: n}, true
	}
	if n >= 6 && n%2 == 0 && isRun(ranks, 2) {
		return HandPattern{Type: ConsecutivePairs, Rank: ranks[n-1], Length: n / 2}, true
	}
	if n >= 6 && n%3 == 0 && isRun(ranks, 3) {
		return HandPattern{Type: ConsecutiveTriplets, Rank: ranks[n-1], Length: n / 3}, true
	}
	return HandPattern{}, false
}

// isRun checks sorted ranks form groups of width equal ranks, each group one
// above the previous, all inside the run bounds.
func isRun(ranks []int, width int) bool {
	if ranks[0] < runLow || ranks[len(ranks)-1] > runHigh {
		return false
	}
	for i := 0; i < len(ranks); i += width {
		for j := 1; j < width; j++ {
			if ranks[i+j] != ranks[i] {
				return false
			}
		}
		if i > 0 && ranks[i] != ranks[i-width]+1 {
			return false
		}
	}
	return true
}

// CanBeat determines if current beats last: same type, same length and a
// strictly greater comparison value.
func CanBeat(current, last []Card) bool {
	cur, ok := AnalyzeHand(current)
	if !ok {
		return false
	}
	prev, ok := AnalyzeHand(last)
	if !ok {
		return false
	}
	return Beats(cur, prev)
}

// Beats compares two already classified patterns.
func Beats(current, last HandPattern) bool {
	if current.Type != last.Type || current.Length != last.Length {
		return false
	}
	return CompareValue(current.Rank) > CompareValue(last.Rank)
}

// IsMaxPlay reports whether nothing of the same type and length can beat the
// pattern under the given deck.
func IsMaxPlay(p HandPattern, cfg DeckConfig) bool {
	switch p.Type {
	case Single:
		return CompareValue(p.Rank) == cfg.TopValue()
	case Pair, Triplet, Quad:
		return p.Rank == RankThree
	case Straight, ConsecutivePairs, ConsecutiveTriplets:
		return p.Rank == RankKing
	}
	return false
}
