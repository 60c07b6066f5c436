package domain

// RemoveCards removes the specified cards from a hand and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return cloneCards(hand)
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// HoldsAll reports whether every card is in hand and no card is named twice.
func HoldsAll(hand []Card, cards []Card) bool {
	held := make(map[Card]bool, len(hand))
	for _, c := range hand {
		held[c] = true
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !held[c] || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// HasCard reports whether the hand contains the card.
func HasCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// CountRank returns how many cards of the natural rank the hand holds.
func CountRank(hand []Card, rank int) int {
	n := 0
	for _, c := range hand {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

// HeartsFour is the card that opens play and counts toward a forced bid.
var HeartsFour = Card{Suit: Hearts, Rank: RankFour}

// IsForcedBid reports whether a hand must take the digger role at bid 4.
func IsForcedBid(hand []Card) bool {
	threes := CountRank(hand, RankThree)
	return threes >= 3 || (threes >= 2 && HasCard(hand, HeartsFour))
}
