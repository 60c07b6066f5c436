package search

import (
	"fmt"
	"math"
	"math/rand"

	botinternal "wakeng/internal/bot/internal"
	"wakeng/internal/bot/brain"
	"wakeng/internal/domain"
)

type node struct {
	move     botinternal.ValidMove
	mover    int // seat that made move, NoSeat at the root
	parent   *node
	children map[string]*node
	visits   int
	wins     float64
}

func newRoot() *node {
	return &node{mover: domain.NoSeat, children: map[string]*node{}}
}

type worker struct {
	cfg    Config
	rng    *rand.Rand
	digger int
}

// selectExpand walks the tree using only children that are legal in the
// sampled game, expands one untried move and returns the new leaf. g is
// advanced along the way.
func (w *worker) selectExpand(n *node, g *domain.Game) *node {
	for g.Phase == domain.PhasePlaying {
		moves := legalMoves(g)
		var untried, tried []botinternal.ValidMove
		for _, m := range moves {
			if _, ok := n.children[m.Key()]; ok {
				tried = append(tried, m)
			} else {
				untried = append(untried, m)
			}
		}

		if len(untried) > 0 {
			m := untried[w.rng.Intn(len(untried))]
			child := &node{move: m, mover: g.CurrentTurn, parent: n, children: map[string]*node{}}
			n.children[m.Key()] = child
			if err := apply(g, m); err != nil {
				return n
			}
			return child
		}

		best := w.ucb1Select(n, tried)
		if best == nil {
			return n
		}
		if err := apply(g, best.move); err != nil {
			return n
		}
		n = best
	}
	return n
}

func (w *worker) ucb1Select(n *node, legal []botinternal.ValidMove) *node {
	var best *node
	bestScore := math.Inf(-1)
	for _, m := range legal {
		ch := n.children[m.Key()]
		if ch.visits == 0 {
			return ch
		}
		exploit := ch.wins / float64(ch.visits)
		explore := w.cfg.ExploreConst * math.Sqrt(math.Log(float64(n.visits))/float64(ch.visits))
		if score := exploit + explore; score > bestScore {
			bestScore = score
			best = ch
		}
	}
	return best
}

// rollout plays the sampled game forward and returns the winning side. At
// the depth cap the seat with the fewest cards decides the side.
func (w *worker) rollout(g *domain.Game) domain.Side {
	for depth := 0; depth < w.cfg.MaxDepth && g.Phase == domain.PhasePlaying; depth++ {
		moves := legalMoves(g)
		if len(moves) == 0 {
			break
		}
		m, ok := botinternal.FindFinishing(g.Hands[g.CurrentTurn], moves)
		if !ok {
			m = w.cfg.Weights.PickWeighted(moves, w.rng)
		}
		if err := apply(g, m); err != nil {
			break
		}
	}
	if g.Phase == domain.PhaseFinished {
		return g.WinnerSide
	}
	leader := 0
	for seat, h := range g.Hands {
		if len(h) < len(g.Hands[leader]) {
			leader = seat
		}
	}
	return g.SideOf(leader)
}

func (w *worker) backprop(n *node, winner domain.Side) {
	for ; n != nil; n = n.parent {
		n.visits++
		if n.mover != domain.NoSeat && sideOf(n.mover, w.digger) == winner {
			n.wins++
		}
	}
}

func sideOf(seat, digger int) domain.Side {
	if seat == digger {
		return domain.SideDigger
	}
	return domain.SideOthers
}

func legalMoves(g *domain.Game) []botinternal.ValidMove {
	var last *domain.Move
	if g.LastMove != nil && g.LastMove.Seat != g.CurrentTurn {
		last = g.LastMove
	}
	return botinternal.LegalMoves(g.Hands[g.CurrentTurn], last, g.CanPass(g.CurrentTurn))
}

func apply(g *domain.Game, m botinternal.ValidMove) error {
	if m.Pass {
		_, err := g.Pass(g.CurrentTurn)
		return err
	}
	_, err := g.Play(g.CurrentTurn, m.Cards)
	return err
}

// determinizer deals the unseen cards to opponents by their public hand
// counts. Revealed hole cards still held by the digger stay with the digger.
type determinizer struct {
	view   domain.PlayerView
	unseen []domain.Card
	pinned []domain.Card
	need   []int
}

func newDeterminizer(view domain.PlayerView) (*determinizer, error) {
	mem := brain.NewMemory(view)
	d := &determinizer{
		view:   view,
		unseen: mem.Unseen(),
		pinned: mem.KnownHole(),
		need:   make([]int, len(view.Seats)),
	}
	if view.LastMove != nil {
		for _, c := range view.LastMove.Cards {
			if !mem.IsPlayed(c) {
				return nil, fmt.Errorf("%w: table card %s is not among the played cards", ErrNotSearchable, c)
			}
		}
	}
	total := 0
	for seat, count := range mem.Counts {
		if seat == view.Seat {
			continue
		}
		n := count
		if seat == view.Digger {
			n -= len(d.pinned)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: digger holds %d cards but %d hole cards are unplayed", ErrNotSearchable, count, len(d.pinned))
		}
		d.need[seat] = n
		total += n
	}
	if total != len(d.unseen) {
		return nil, fmt.Errorf("%w: %d unseen cards for %d hidden slots", ErrNotSearchable, len(d.unseen), total)
	}
	return d, nil
}

// sample returns a concrete game consistent with the view.
func (d *determinizer) sample(rng *rand.Rand) (*domain.Game, error) {
	v := d.view
	pool := append([]domain.Card(nil), d.unseen...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	seats := len(v.Seats)
	g := &domain.Game{
		Config:         v.Config,
		Phase:          domain.PhasePlaying,
		Hands:          make([][]domain.Card, seats),
		Hole:           []domain.Card{},
		PlayedCards:    make([][]domain.Card, seats),
		PlayedMoves:    make([][]domain.PlayedMove, seats),
		CurrentTurn:    v.CurrentTurn,
		BidScore:       v.BidScore,
		Digger:         v.Digger,
		BiddingStarter: v.BiddingStarter,
		PassCount:      v.PassCount,
		Winner:         domain.NoSeat,
	}
	if v.LastMove != nil {
		last := *v.LastMove
		last.Cards = append([]domain.Card(nil), v.LastMove.Cards...)
		g.LastMove = &last
	}

	idx := 0
	for seat := 0; seat < seats; seat++ {
		var hand []domain.Card
		switch {
		case seat == v.Seat:
			hand = append(hand, v.Hand...)
		default:
			if seat == v.Digger {
				hand = append(hand, d.pinned...)
			}
			if idx+d.need[seat] > len(pool) {
				return nil, fmt.Errorf("%w: ran out of unseen cards", ErrNotSearchable)
			}
			hand = append(hand, pool[idx:idx+d.need[seat]]...)
			idx += d.need[seat]
		}
		domain.SortHand(hand)
		g.Hands[seat] = hand
		g.PlayedCards[seat] = []domain.Card{}
		g.PlayedMoves[seat] = []domain.PlayedMove{}
	}
	return g, nil
}
