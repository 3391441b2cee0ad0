package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hailam/sage/internal/board"
)

// Reasons a game ended.
const (
	ReasonCheckmate            = "checkmate"
	ReasonStalemate            = "stalemate"
	ReasonBareKings            = "bare kings"
	ReasonPlyLimit             = "ply limit"
	ReasonFiftyMoveRule        = "fifty-move rule"
	ReasonInsufficientMaterial = "insufficient material"
)

// fiftyMovePlies is the half-move clock value at which the fifty-move rule
// applies.
const fiftyMovePlies = 100

// Runner alternates two policies over a game until it is decided.
type Runner struct {
	White Policy
	Black Policy

	MaxPlies             int  // adjudicate a draw after this many plies (0 = no limit)
	FiftyMoveRule        bool // adjudicate a draw after 100 plies without pawn move or capture
	InsufficientMaterial bool // adjudicate a draw when neither side can mate

	Logger *log.Logger // per-ply trace, nil for silence
}

// Result describes a finished run.
type Result struct {
	Game     *Game
	State    board.State
	Reason   string
	Plies    int
	Duration time.Duration
}

// Run plays a game from pos. The position must pass Validate. A policy error,
// an out-of-range index or context cancellation stops the run; the partial
// result is returned alongside the error.
func (r *Runner) Run(ctx context.Context, pos *board.Position) (*Result, error) {
	if r.White == nil || r.Black == nil {
		return nil, errors.New("runner needs a policy for each side")
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start position: %w", err)
	}

	start := time.Now()
	g := New(pos)
	res := &Result{Game: g}
	finish := func(reason string) *Result {
		res.State = g.State()
		res.Reason = reason
		res.Plies = g.Ply()
		res.Duration = time.Since(start)
		return res
	}

	for {
		if g.State().IsTerminal() {
			return finish(g.EndReason()), nil
		}
		if reason := r.adjudicate(g); reason != "" {
			g.SetState(board.Draw)
			r.logf("Adjudicated draw after %d plies: %s", g.Ply(), reason)
			return finish(reason), nil
		}
		if err := ctx.Err(); err != nil {
			return finish(""), err
		}

		cur := g.Current()
		moves := g.LegalMoves()
		policy := r.White
		if cur.SideToMove == board.Black {
			policy = r.Black
		}

		idx, err := policy.Decide(ctx, cur, moves)
		if err != nil {
			return finish(""), fmt.Errorf("%v policy: %w", cur.SideToMove, err)
		}
		if idx < 0 || idx >= moves.Len() {
			return finish(""), fmt.Errorf("%v policy: %w: %d not in [0, %d)",
				cur.SideToMove, ErrInvalidMoveNumber, idx, moves.Len())
		}

		m := moves.Get(idx)
		if err := g.ApplyMove(m); err != nil {
			return finish(""), err
		}
		r.logf("Turn %d move: %d (%v)", g.Ply(), idx, m)
	}
}

// adjudicate returns the reason for a configured draw adjudication, or "".
func (r *Runner) adjudicate(g *Game) string {
	cur := g.Current()
	switch {
	case r.MaxPlies > 0 && g.Ply() >= r.MaxPlies:
		return ReasonPlyLimit
	case r.FiftyMoveRule && cur.HalfMoveClock >= fiftyMovePlies:
		return ReasonFiftyMoveRule
	case r.InsufficientMaterial && cur.IsInsufficientMaterial():
		return ReasonInsufficientMaterial
	}
	return ""
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
