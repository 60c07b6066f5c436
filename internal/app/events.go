package app

import "wakeng/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventBidPlaced         EventKind = "bid_placed"
	EventHoleRevealed      EventKind = "hole_revealed"
	EventHoleTaken         EventKind = "hole_taken"
	EventCardsPlayed       EventKind = "cards_played"
	EventMaxPlay           EventKind = "max_play"
	EventTurnPassed        EventKind = "turn_passed"
	EventTrickClosed       EventKind = "trick_closed"
	EventUndo              EventKind = "undo"
	EventGameOver          EventKind = "game_over"
	EventSettlementApplied EventKind = "settlement_applied"
	EventNextRoundReady    EventKind = "next_round_ready"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	Round          int                      `json:"round"`
	Config         domain.DeckConfig        `json:"config"`
	BiddingStarter int                      `json:"bidding_starter"`
	Seats          [domain.SeatCount]string `json:"seats"`
}

type HandDealtPayload struct {
	Seat int      `json:"seat"`
	Hand []string `json:"hand"`
}

type BidPlacedPayload struct {
	Seat     int  `json:"seat"`
	Score    int  `json:"score"`
	Forced   bool `json:"forced"`
	BidScore int  `json:"bid_score"`
	Digger   int  `json:"digger"`
	NextTurn int  `json:"next_turn"`
}

type HoleRevealedPayload struct {
	Digger   int      `json:"digger"`
	BidScore int      `json:"bid_score"`
	Hole     []string `json:"hole"`
}

type HoleTakenPayload struct {
	Digger    int      `json:"digger"`
	Hole      []string `json:"hole"`
	FirstTurn int      `json:"first_turn"`
}

type CardsPlayedPayload struct {
	Seat      int                `json:"seat"`
	Cards     []string           `json:"cards"`
	Pattern   domain.PatternType `json:"pattern"`
	Remaining int                `json:"remaining"`
	NextTurn  int                `json:"next_turn"`
}

type MaxPlayPayload struct {
	Seat int `json:"seat"`
}

type TurnPassedPayload struct {
	Seat     int `json:"seat"`
	NextTurn int `json:"next_turn"`
}

type TrickClosedPayload struct {
	Leader int `json:"leader"`
}

type UndoPayload struct {
	Seat     int      `json:"seat"`
	Cards    []string `json:"cards"`
	NextTurn int      `json:"next_turn"`
}

type GameOverPayload struct {
	Winner     int         `json:"winner"`
	WinnerSide domain.Side `json:"winner_side"`
	Digger     int         `json:"digger"`
	BidScore   int         `json:"bid_score"`
	BaseDeltas []int       `json:"base_deltas"`
}

type SettlementAppliedPayload struct {
	Round      int   `json:"round"`
	Multiplier int   `json:"multiplier"`
	Deltas     []int `json:"deltas"`
	Totals     []int `json:"totals"`
}

type NextRoundReadyPayload struct {
	Seat  int    `json:"seat"`
	Ready []bool `json:"ready"`
}

func broadcast(kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload}
}
