package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/hailam/sage/internal/board"
)

// Policy chooses a move. Decide returns an index into moves, the ordered
// legal-move list of pos. The runner rejects indices outside [0, moves.Len()).
type Policy interface {
	Decide(ctx context.Context, pos *board.Position, moves *board.MoveList) (int, error)
}

// PolicyFunc adapts an ordinary function to Policy.
type PolicyFunc func(ctx context.Context, pos *board.Position, moves *board.MoveList) (int, error)

// Decide calls f.
func (f PolicyFunc) Decide(ctx context.Context, pos *board.Position, moves *board.MoveList) (int, error) {
	return f(ctx, pos, moves)
}

// RandomPolicy picks uniformly among the legal moves. It is safe for
// concurrent use.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPolicy creates a random policy. A zero seed seeds from the clock.
func NewRandomPolicy(seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// Decide returns a uniformly random index.
func (p *RandomPolicy) Decide(_ context.Context, _ *board.Position, moves *board.MoveList) (int, error) {
	if moves.Len() == 0 {
		return 0, ErrInvalidMoveNumber
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(moves.Len()), nil
}

// FirstPolicy always picks the first legal move.
var FirstPolicy Policy = PolicyFunc(func(context.Context, *board.Position, *board.MoveList) (int, error) {
	return 0, nil
})
