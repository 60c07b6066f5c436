package bot

import (
	"fmt"
	"math"
	"time"

	botinternal "wakeng/internal/bot/internal"
	"wakeng/internal/bot/search"
)

// Difficulty selects how a bot bids and plays.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts the three tier names. "medium" is kept as an alias
// of normal for older bot profiles.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "normal", "medium", "":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown bot difficulty: %q", s)
}

// Tuning holds the per-tier knobs.
type Tuning struct {
	// UseSearch enables ISMCTS for plays; otherwise plays are uniform random.
	UseSearch bool
	Search    search.Config
	// BidNudge is the chance of bidding one above the hand's worth.
	BidNudge float64
	// FourBidPoints is the shape score above which a bid of 4 is allowed.
	// Zero disables bidding 4.
	FourBidPoints float64
}

// DefaultTuning maps every tier to its budget.
var DefaultTuning = map[Difficulty]Tuning{
	DifficultyEasy: {},
	DifficultyNormal: {
		UseSearch: true,
		Search: search.Config{
			MaxTime:      300 * time.Millisecond,
			ExploreConst: math.Sqrt2,
			NumWorkers:   1,
			YieldEvery:   100,
			MaxDepth:     60,
			Weights:      botinternal.DefaultRolloutWeights,
		},
		BidNudge: 0.3,
	},
	DifficultyHard: {
		UseSearch: true,
		Search: search.Config{
			MaxTime:      1500 * time.Millisecond,
			ExploreConst: math.Sqrt2,
			NumWorkers:   2,
			YieldEvery:   100,
			MaxDepth:     60,
			Weights:      botinternal.DefaultRolloutWeights,
		},
		BidNudge:      0.3,
		FourBidPoints: 16,
	},
}

// ForDifficulty returns the tuning of a tier, falling back to normal.
func ForDifficulty(d Difficulty) Tuning {
	if t, ok := DefaultTuning[d]; ok {
		return t
	}
	return DefaultTuning[DifficultyNormal]
}
