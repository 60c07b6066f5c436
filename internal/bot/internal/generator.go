package internal

import (
	"sort"
	"strings"

	"wakeng/internal/domain"
)

// PassKey identifies the pass move in move maps.
const PassKey = "PASS"

// ValidMove represents a possible legal play. A zero Cards slice with Pass
// set is the pass move.
type ValidMove struct {
	Pass    bool
	Cards   []domain.Card
	Pattern domain.HandPattern
}

// Key returns a stable identity for the move: sorted card codes or PASS.
func (m ValidMove) Key() string {
	if m.Pass {
		return PassKey
	}
	return MoveKey(m.Cards)
}

// MoveKey joins the sorted card codes of a play.
func MoveKey(cards []domain.Card) string {
	codes := domain.Codes(cards)
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

// GetValidMoves returns every distinct pattern the hand can form, ignoring
// what is on the table. Per rank only the lowest suits are used for sets.
func GetValidMoves(hand []domain.Card) []ValidMove {
	cards := append([]domain.Card(nil), hand...)
	domain.SortHand(cards)
	byRank := groupByRank(cards)

	var moves []ValidMove
	moves = append(moves, findAllSingles(cards)...)
	for size := 2; size <= 4; size++ {
		moves = append(moves, findAllSets(byRank, size)...)
	}
	moves = append(moves, findAllRuns(byRank, 1, 3)...)
	moves = append(moves, findAllRuns(byRank, 2, 3)...)
	moves = append(moves, findAllRuns(byRank, 3, 2)...)
	return dedupe(moves)
}

// LegalMoves returns the plays that are legal against last. When last is nil
// the seat leads and any pattern is allowed. PASS is appended when canPass.
func LegalMoves(hand []domain.Card, last *domain.Move, canPass bool) []ValidMove {
	all := GetValidMoves(hand)
	if last == nil {
		return all
	}
	moves := make([]ValidMove, 0, len(all)+1)
	for _, m := range all {
		if domain.Beats(m.Pattern, last.Pattern) {
			moves = append(moves, m)
		}
	}
	if canPass {
		moves = append(moves, ValidMove{Pass: true})
	}
	return moves
}

// FindFinishing returns the move that empties the hand, if any.
func FindFinishing(hand []domain.Card, moves []ValidMove) (ValidMove, bool) {
	for _, m := range moves {
		if !m.Pass && len(m.Cards) == len(hand) {
			return m, true
		}
	}
	return ValidMove{}, false
}

func groupByRank(sorted []domain.Card) map[int][]domain.Card {
	byRank := make(map[int][]domain.Card)
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	return byRank
}

func findAllSingles(hand []domain.Card) []ValidMove {
	moves := make([]ValidMove, 0, len(hand))
	for _, c := range hand {
		moves = appendIfValid(moves, []domain.Card{c})
	}
	return moves
}

func findAllSets(byRank map[int][]domain.Card, size int) []ValidMove {
	var moves []ValidMove
	for _, rank := range sortedRanks(byRank) {
		group := byRank[rank]
		if len(group) < size {
			continue
		}
		moves = appendIfValid(moves, append([]domain.Card(nil), group[:size]...))
	}
	return moves
}

// findAllRuns builds every run of width cards per rank that is at least
// minLen ranks long and stays inside 4..K.
func findAllRuns(byRank map[int][]domain.Card, width, minLen int) []ValidMove {
	var moves []ValidMove
	for start := domain.RankFour; start <= domain.RankKing; start++ {
		var run []domain.Card
		for rank := start; rank <= domain.RankKing; rank++ {
			group := byRank[rank]
			if len(group) < width {
				break
			}
			run = append(run, group[:width]...)
			if rank-start+1 >= minLen {
				moves = appendIfValid(moves, append([]domain.Card(nil), run...))
			}
		}
	}
	return moves
}

func appendIfValid(moves []ValidMove, cards []domain.Card) []ValidMove {
	p, ok := domain.AnalyzeHand(cards)
	if !ok {
		return moves
	}
	return append(moves, ValidMove{Cards: cards, Pattern: p})
}

func sortedRanks(byRank map[int][]domain.Card) []int {
	ranks := make([]int, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

func dedupe(moves []ValidMove) []ValidMove {
	seen := make(map[string]bool, len(moves))
	out := moves[:0]
	for _, m := range moves {
		k := m.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}
