package internal

import "math/rand"

// RolloutWeights bias the random playout toward shedding many cards.
type RolloutWeights struct {
	PerCard        float64
	RunBonus       float64
	Single         float64
	HighSingle     float64
	HighSingleFrom int // comparison value at which a single counts as high
	Pass           float64
}

// DefaultRolloutWeights are used by every search tier.
var DefaultRolloutWeights = RolloutWeights{
	PerCard:        2,
	RunBonus:       5,
	Single:         0.5,
	HighSingle:     0.1,
	HighSingleFrom: 12,
	Pass:           1,
}

// Weight scores one move for rollout sampling.
func (w RolloutWeights) Weight(m ValidMove) float64 {
	if m.Pass {
		return w.Pass
	}
	if len(m.Cards) == 1 {
		if m.Cards[0].Value() >= w.HighSingleFrom {
			return w.HighSingle
		}
		return w.Single
	}
	score := 1 + w.PerCard*float64(len(m.Cards))
	if m.Pattern.Type.IsRun() {
		score += w.RunBonus
	}
	return score
}

// PickWeighted samples one move proportionally to its weight.
func (w RolloutWeights) PickWeighted(moves []ValidMove, rng *rand.Rand) ValidMove {
	total := 0.0
	weights := make([]float64, len(moves))
	for i, m := range moves {
		weights[i] = w.Weight(m)
		total += weights[i]
	}
	r := rng.Float64() * total
	for i, wt := range weights {
		r -= wt
		if r < 0 {
			return moves[i]
		}
	}
	return moves[len(moves)-1]
}
