package game

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/hailam/sage/internal/board"
)

// scripted plays the given from/to pairs in order, then fails.
func scripted(moves ...[2]board.Square) Policy {
	next := 0
	return PolicyFunc(func(_ context.Context, _ *board.Position, ml *board.MoveList) (int, error) {
		if next >= len(moves) {
			return 0, errors.New("script exhausted")
		}
		want := moves[next]
		next++
		for i := 0; i < ml.Len(); i++ {
			if m := ml.Get(i); m.From == want[0] && m.To == want[1] {
				return i, nil
			}
		}
		return 0, errors.New("scripted move not legal")
	})
}

func TestRunFoolsMate(t *testing.T) {
	r := &Runner{
		White: scripted([2]board.Square{board.F2, board.F3}, [2]board.Square{board.G2, board.G4}),
		Black: scripted([2]board.Square{board.E7, board.E5}, [2]board.Square{board.D8, board.H4}),
	}

	res, err := r.Run(context.Background(), board.NewPosition())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != board.BlackWon || res.Reason != ReasonCheckmate {
		t.Errorf("result = %v (%s), want black won by checkmate", res.State, res.Reason)
	}
	if res.Plies != 4 || res.Game.Ply() != 4 {
		t.Errorf("plies = %d, want 4", res.Plies)
	}
}

func TestRunPlyLimit(t *testing.T) {
	r := &Runner{White: FirstPolicy, Black: FirstPolicy, MaxPlies: 10}

	res, err := r.Run(context.Background(), board.NewPosition())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != board.Draw || res.Reason != ReasonPlyLimit {
		t.Errorf("result = %v (%s), want draw by ply limit", res.State, res.Reason)
	}
	if res.Plies != 10 {
		t.Errorf("plies = %d, want 10", res.Plies)
	}
	if res.Game.State() != board.Draw {
		t.Errorf("game state not overridden: %v", res.Game.State())
	}
}

func TestRunRejectsOutOfRangeIndex(t *testing.T) {
	for _, idx := range []int{-1, 20} {
		bad := PolicyFunc(func(context.Context, *board.Position, *board.MoveList) (int, error) {
			return idx, nil
		})
		r := &Runner{White: bad, Black: FirstPolicy}

		res, err := r.Run(context.Background(), board.NewPosition())
		if !errors.Is(err, ErrInvalidMoveNumber) {
			t.Fatalf("index %d: error = %v, want ErrInvalidMoveNumber", idx, err)
		}
		if res == nil || res.Plies != 0 {
			t.Errorf("index %d: partial result = %+v", idx, res)
		}
	}
}

func TestRunPolicyError(t *testing.T) {
	boom := errors.New("boom")
	r := &Runner{
		White: FirstPolicy,
		Black: PolicyFunc(func(context.Context, *board.Position, *board.MoveList) (int, error) {
			return 0, boom
		}),
	}
	res, err := r.Run(context.Background(), board.NewPosition())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if res.Plies != 1 {
		t.Errorf("plies = %d, want 1", res.Plies)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	plies := 0
	counting := PolicyFunc(func(context.Context, *board.Position, *board.MoveList) (int, error) {
		plies++
		if plies == 3 {
			cancel()
		}
		return 0, nil
	})

	res, err := (&Runner{White: counting, Black: counting}).Run(ctx, board.NewPosition())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if res.Plies != 3 {
		t.Errorf("plies = %d, want 3", res.Plies)
	}
	if res.State != board.Ongoing {
		t.Errorf("state = %v, want ongoing", res.State)
	}
}

func TestRunValidatesStart(t *testing.T) {
	pos := board.NewEmptyPosition()
	pos.Put(board.E1, board.WhiteKing)

	_, err := (&Runner{White: FirstPolicy, Black: FirstPolicy}).Run(context.Background(), pos)
	if err == nil {
		t.Fatal("Run accepted a position without a black king")
	}

	_, err = (&Runner{White: FirstPolicy}).Run(context.Background(), board.NewPosition())
	if err == nil {
		t.Fatal("Run accepted a missing policy")
	}
}

func TestRunAdjudication(t *testing.T) {
	knightEnding := func() *board.Position {
		pos := board.NewEmptyPosition()
		pos.Put(board.E1, board.WhiteKing)
		pos.Put(board.B1, board.WhiteKnight)
		pos.Put(board.E8, board.BlackKing)
		return pos
	}
	rookEnding := func() *board.Position {
		pos := board.NewEmptyPosition()
		pos.Put(board.E1, board.WhiteKing)
		pos.Put(board.A1, board.WhiteRook)
		pos.Put(board.E8, board.BlackKing)
		pos.HalfMoveClock = 100
		return pos
	}

	tests := []struct {
		name   string
		runner Runner
		pos    *board.Position
		reason string
	}{
		{"insufficient material", Runner{InsufficientMaterial: true}, knightEnding(), ReasonInsufficientMaterial},
		{"fifty-move rule", Runner{FiftyMoveRule: true}, rookEnding(), ReasonFiftyMoveRule},
		{"fifty-move rule inside ply budget", Runner{FiftyMoveRule: true, MaxPlies: 1}, rookEnding(), ReasonFiftyMoveRule},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.runner
			r.White, r.Black = FirstPolicy, FirstPolicy
			res, err := r.Run(context.Background(), tc.pos)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.State != board.Draw || res.Reason != tc.reason {
				t.Errorf("result = %v (%s), want draw by %s", res.State, res.Reason, tc.reason)
			}
			if res.Plies != 0 {
				t.Errorf("plies = %d, want 0", res.Plies)
			}
		})
	}
}

func TestRunRandomIsReproducible(t *testing.T) {
	run := func() *Result {
		r := &Runner{
			White:                NewRandomPolicy(42),
			Black:                NewRandomPolicy(43),
			MaxPlies:             300,
			FiftyMoveRule:        true,
			InsufficientMaterial: true,
		}
		res, err := r.Run(context.Background(), board.NewPosition())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if !a.State.IsTerminal() {
		t.Fatalf("random game ended %v", a.State)
	}
	if a.Plies != b.Plies || a.State != b.State || a.Reason != b.Reason {
		t.Fatalf("runs differ: %d %v %s vs %d %v %s", a.Plies, a.State, a.Reason, b.Plies, b.State, b.Reason)
	}
	am, bm := a.Game.Moves(), b.Game.Moves()
	for i := range am {
		if am[i] != bm[i] {
			t.Fatalf("ply %d differs: %v vs %v", i, am[i], bm[i])
		}
	}
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{
		White:    FirstPolicy,
		Black:    FirstPolicy,
		MaxPlies: 2,
		Logger:   log.New(&buf, "", 0),
	}
	if _, err := r.Run(context.Background(), board.NewPosition()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Turn 1 move: 0") || !strings.Contains(out, "ply limit") {
		t.Errorf("log output:\n%s", out)
	}
}

func TestRandomPolicy(t *testing.T) {
	p := NewRandomPolicy(1)
	moves := board.NewPosition().GenerateLegalMoves()
	for i := 0; i < 100; i++ {
		idx, err := p.Decide(context.Background(), nil, moves)
		if err != nil || idx < 0 || idx >= moves.Len() {
			t.Fatalf("Decide = %d, %v", idx, err)
		}
	}
	if _, err := p.Decide(context.Background(), nil, board.NewMoveList()); err == nil {
		t.Errorf("Decide on an empty list succeeded")
	}
}
