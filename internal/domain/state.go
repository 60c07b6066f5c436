package domain

import (
	"fmt"
	"strconv"
)

// Phase represents the lifecycle stage of a single hand.
type Phase string

const (
	// PhaseBidding is the initial phase where seats bid for the digger role.
	PhaseBidding Phase = "BIDDING"
	// PhaseTakingHole waits for the digger to pick up the hole cards.
	PhaseTakingHole Phase = "TAKING_HOLE"
	// PhasePlaying is the trick phase where combinations are played.
	PhasePlaying Phase = "PLAYING"
	// PhaseFinished is terminal until a new hand is dealt.
	PhaseFinished Phase = "FINISHED"
)

// Side identifies which team won a hand.
type Side string

const (
	SideDigger Side = "DIGGER"
	SideOthers Side = "OTHERS"
)

// NoSeat marks an unset seat reference (no digger yet, no winner yet).
const NoSeat = -1

// Suit of a card. The letter values double as the card code prefix.
type Suit byte

const (
	Hearts   Suit = 'H'
	Diamonds Suit = 'D'
	Clubs    Suit = 'C'
	Spades   Suit = 'S'
	Joker    Suit = 'J'
)

// Natural ranks. 3..13 are face values, the rest are named.
const (
	RankThree      = 3
	RankFour       = 4
	RankKing       = 13
	RankAce        = 14
	RankTwo        = 15
	RankBlackJoker = 16
	RankRedJoker   = 17
)

var suitOrder = map[Suit]int{Hearts: 0, Diamonds: 1, Clubs: 2, Spades: 3, Joker: 4}

// Card is a single immutable playing card.
type Card struct {
	Suit Suit
	Rank int
}

// Code returns the stable identifier used on the wire, e.g. "H4" or "J17".
func (c Card) Code() string {
	return string(c.Suit) + strconv.Itoa(c.Rank)
}

func (c Card) String() string {
	return c.Code()
}

// Value is the comparison value of the card.
func (c Card) Value() int {
	return CompareValue(c.Rank)
}

// ParseCard converts a card code back into a Card.
func ParseCard(code string) (Card, error) {
	if len(code) < 2 {
		return Card{}, fmt.Errorf("%w: bad card code %q", ErrLegality, code)
	}
	suit := Suit(code[0])
	if _, ok := suitOrder[suit]; !ok {
		return Card{}, fmt.Errorf("%w: bad card suit %q", ErrLegality, code)
	}
	rank, err := strconv.Atoi(code[1:])
	if err != nil {
		return Card{}, fmt.Errorf("%w: bad card rank %q", ErrLegality, code)
	}
	switch {
	case suit == Joker && (rank == RankBlackJoker || rank == RankRedJoker):
	case suit != Joker && rank >= RankThree && rank <= RankTwo:
	default:
		return Card{}, fmt.Errorf("%w: no such card %q", ErrLegality, code)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a list of codes, failing on the first bad one.
func ParseCards(codes []string) ([]Card, error) {
	out := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Codes maps cards to their codes.
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}

// CompareValue remaps a natural rank onto the ordering used by every beat
// check: 3 is the top non-joker, then Two, then Ace, then King down to 4.
func CompareValue(rank int) int {
	switch rank {
	case RankThree:
		return 13
	case RankTwo:
		return 12
	case RankAce:
		return 11
	case RankBlackJoker:
		return 14
	case RankRedJoker:
		return 15
	default:
		return rank - 4
	}
}

// Move is a play that currently sits on the table.
type Move struct {
	Seat    int
	Cards   []Card
	Pattern HandPattern
}

func (m *Move) clone() *Move {
	if m == nil {
		return nil
	}
	out := *m
	out.Cards = cloneCards(m.Cards)
	return &out
}

// PlayedMove is one entry in a seat's play history.
type PlayedMove struct {
	Cards   []Card
	Pattern HandPattern
}

// UndoRecord is the single-slot snapshot taken right before a play.
type UndoRecord struct {
	Seat            int
	Cards           []Card
	PrevLastMove    *Move
	PrevPassCount   int
	PrevPlayedCount int
	PrevMoveCount   int
}
