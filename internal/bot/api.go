package bot

import (
	"context"
	"errors"

	"wakeng/internal/domain"
)

// ErrNoDecision is returned when the bot is asked to act when it cannot.
var ErrNoDecision = errors.New("bot has no decision to make")

// ActionKind tells the caller which service operation to invoke.
type ActionKind string

const (
	ActionBid      ActionKind = "bid"
	ActionTakeHole ActionKind = "take_hole"
	ActionPlay     ActionKind = "play"
	ActionPass     ActionKind = "pass"
)

// Move represents the decision made by the AI.
type Move struct {
	Kind  ActionKind
	Bid   int
	Cards []domain.Card
}

// Codes returns the card codes of a play.
func (m Move) Codes() []string {
	return domain.Codes(m.Cards)
}

// Decider is implemented by every bot that can act from a masked view.
type Decider interface {
	Decide(ctx context.Context, view domain.PlayerView) (Move, error)
}
