package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// SeatCount is fixed for this game.
const SeatCount = 4

// DeckConfig describes the deck composition and how it is split.
type DeckConfig struct {
	Jokers   bool `json:"jokers"`
	HoleSize int  `json:"hole_size"`
	Seats    int  `json:"seats"`
}

var (
	// StandardDeck is 52 cards, four in the hole, twelve each.
	StandardDeck = DeckConfig{HoleSize: 4, Seats: SeatCount}
	// NoHoleDeck is 52 cards, thirteen each, an empty hole.
	NoHoleDeck = DeckConfig{HoleSize: 0, Seats: SeatCount}
	// JokerDeck is 54 cards, six in the hole, twelve each.
	JokerDeck = DeckConfig{Jokers: true, HoleSize: 6, Seats: SeatCount}
)

// Size is the number of cards in the deck.
func (c DeckConfig) Size() int {
	if c.Jokers {
		return 54
	}
	return 52
}

// HandSize is the number of cards dealt to each seat.
func (c DeckConfig) HandSize() int {
	if c.Seats <= 0 {
		return 0
	}
	return (c.Size() - c.HoleSize) / c.Seats
}

// TopValue is the highest comparison value present in the deck.
func (c DeckConfig) TopValue() int {
	if c.Jokers {
		return CompareValue(RankRedJoker)
	}
	return CompareValue(RankThree)
}

// Validate rejects splits that don't divide evenly.
func (c DeckConfig) Validate() error {
	if c.Seats != SeatCount {
		return fmt.Errorf("%w: need %d seats, got %d", ErrConfig, SeatCount, c.Seats)
	}
	if c.HoleSize < 0 || c.HoleSize >= c.Size() {
		return fmt.Errorf("%w: bad hole size %d", ErrConfig, c.HoleSize)
	}
	if (c.Size()-c.HoleSize)%c.Seats != 0 {
		return fmt.Errorf("%w: %d cards minus hole %d do not split across %d seats", ErrConfig, c.Size(), c.HoleSize, c.Seats)
	}
	return nil
}

// NewDeck returns the canonical ordered deck.
func NewDeck(cfg DeckConfig) []Card {
	deck := make([]Card, 0, cfg.Size())
	for r := RankThree; r <= RankTwo; r++ {
		for _, s := range []Suit{Hearts, Diamonds, Clubs, Spades} {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	if cfg.Jokers {
		deck = append(deck, Card{Suit: Joker, Rank: RankBlackJoker}, Card{Suit: Joker, Rank: RankRedJoker})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := cloneCards(deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a deck into sorted hands and the hole, in seat order.
func Deal(deck []Card, cfg DeckConfig) ([][]Card, []Card, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if len(deck) != cfg.Size() {
		return nil, nil, fmt.Errorf("%w: deck has %d cards, want %d", ErrConfig, len(deck), cfg.Size())
	}
	per := cfg.HandSize()
	hands := make([][]Card, cfg.Seats)
	for i := range hands {
		hands[i] = cloneCards(deck[i*per : (i+1)*per])
		SortHand(hands[i])
	}
	hole := cloneCards(deck[cfg.Seats*per:])
	SortHand(hole)
	return hands, hole, nil
}

// SortHand orders cards by ascending comparison value, then suit.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardPower(cards[i]) < cardPower(cards[j])
	})
}

func cardPower(c Card) int {
	return c.Value()*8 + suitOrder[c.Suit]
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}
