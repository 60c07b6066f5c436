package bot

import (
	"math/rand"

	"wakeng/internal/bot/search"
)

// NewAgent creates an agent for the given tier. The seed drives both the
// heuristic choices and the search engine.
func NewAgent(id, name string, d Difficulty, seed int64) (*Agent, error) {
	d, err := ParseDifficulty(string(d))
	if err != nil {
		return nil, err
	}
	tuning := ForDifficulty(d)
	a := &Agent{
		ID:         id,
		Name:       name,
		Difficulty: d,
		tuning:     tuning,
		rng:        rand.New(rand.NewSource(seed)),
	}
	if tuning.UseSearch {
		a.engine = search.NewEngine(tuning.Search, seed^0x5eed)
	}
	return a, nil
}

// NewAgentWithSearch overrides the search budget, mostly for tests and the
// simulator.
func NewAgentWithSearch(id, name string, d Difficulty, cfg search.Config, seed int64) (*Agent, error) {
	a, err := NewAgent(id, name, d, seed)
	if err != nil {
		return nil, err
	}
	a.tuning.UseSearch = true
	a.tuning.Search = cfg
	a.engine = search.NewEngine(cfg, seed^0x5eed)
	return a, nil
}
