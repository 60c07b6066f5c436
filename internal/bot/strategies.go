package bot

import (
	"math/rand"

	botinternal "wakeng/internal/bot/internal"
	"wakeng/internal/bot/search"
	"wakeng/internal/domain"
)

// HeuristicBid picks a bid from the hand's shape. The result is always legal
// against current: either 0 or a value above current and at most 4.
func HeuristicBid(hand []domain.Card, current int, d Difficulty, rng *rand.Rand) int {
	tuning := ForDifficulty(d)
	profile := botinternal.ProfileHand(hand)

	want := profile.WantedBid()
	if tuning.BidNudge > 0 && rng.Float64() < tuning.BidNudge {
		want++
	}
	if want > 3 {
		want = 3
	}
	if tuning.FourBidPoints > 0 && profile.ShapePoints() > tuning.FourBidPoints {
		want = domain.MaxBid
	}

	if want <= current {
		// A strong hand still pushes to 3 when that is open.
		if want >= 3 && current < 3 {
			return 3
		}
		return 0
	}
	return want
}

// RandomPlay picks uniformly among the plays legal for the view. It passes
// only when nothing beats the table.
func RandomPlay(view domain.PlayerView, rng *rand.Rand) Move {
	moves := search.RootMoves(view)
	plays := moves[:0:0]
	for _, m := range moves {
		if !m.Pass {
			plays = append(plays, m)
		}
	}
	if len(plays) == 0 {
		return Move{Kind: ActionPass}
	}
	return playMove(plays[rng.Intn(len(plays))])
}

func playMove(m botinternal.ValidMove) Move {
	if m.Pass {
		return Move{Kind: ActionPass}
	}
	return Move{Kind: ActionPlay, Cards: append([]domain.Card(nil), m.Cards...)}
}
