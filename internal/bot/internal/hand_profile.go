package internal

import "wakeng/internal/domain"

// HandProfile summarizes a hand for bidding decisions.
type HandProfile struct {
	TotalCards int
	AvgValue   float64
	Jokers     int
	Threes     int
	Twos       int
	Aces       int
	Kings      int
	Quads      int
}

// ProfileHand counts the high cards and sets of a hand.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	if len(hand) == 0 {
		return profile
	}

	total := 0
	rankCounts := make(map[int]int)
	for _, c := range hand {
		total += c.Value()
		rankCounts[c.Rank]++
		switch c.Rank {
		case domain.RankBlackJoker, domain.RankRedJoker:
			profile.Jokers++
		case domain.RankThree:
			profile.Threes++
		case domain.RankTwo:
			profile.Twos++
		case domain.RankAce:
			profile.Aces++
		case domain.RankKing:
			profile.Kings++
		}
	}
	for _, n := range rankCounts {
		if n == 4 {
			profile.Quads++
		}
	}
	profile.AvgValue = float64(total) / float64(len(hand))
	return profile
}

// ShapePoints weights the cards that usually win tricks.
func (p HandProfile) ShapePoints() float64 {
	return float64(p.Jokers)*4 + float64(p.Twos)*2 + float64(p.Aces) + float64(p.Kings)*0.5 + float64(p.Quads)*3
}

// WantedBid maps the profile onto a bid of 0 to 3 before any nudging.
func (p HandProfile) WantedBid() int {
	points := p.ShapePoints()
	switch {
	case p.AvgValue >= 9:
		points += 3
	case p.AvgValue >= 7.5:
		points += 1.5
	}
	switch {
	case points > 12:
		return 3
	case points > 8:
		return 2
	case points > 5:
		return 1
	}
	return 0
}
