// Package game tracks a chess game's history and drives play between two
// move-choosing policies.
package game

import (
	"errors"
	"fmt"

	"github.com/hailam/sage/internal/board"
)

var (
	// ErrInvalidMoveNumber is returned when a move index falls outside the
	// legal-move list.
	ErrInvalidMoveNumber = errors.New("invalid move number")

	// ErrGameOver is returned when a move is requested in a decided game.
	ErrGameOver = errors.New("game is over")
)

// Game owns the initial position, the current position, the applied moves
// and the terminal state.
type Game struct {
	initial board.Position
	current board.Position
	moves   []board.Move
	state   board.State
}

// New starts a game from a copy of pos.
func New(pos *board.Position) *Game {
	g := &Game{
		initial: *pos,
		current: *pos,
	}
	g.state = g.current.CalculateState()
	return g
}

// ApplyMove plays m on the current position. Errors from the position are
// returned unchanged and leave the game untouched. On success the move is
// recorded and the state recomputed.
func (g *Game) ApplyMove(m board.Move) error {
	if err := g.current.ApplyMove(m); err != nil {
		return err
	}
	g.moves = append(g.moves, m)
	g.state = g.current.CalculateState()
	return nil
}

// LegalMoves returns the ordered legal-move list of the current position.
// Indices into this list are what Play and policies work with.
func (g *Game) LegalMoves() *board.MoveList {
	return g.current.GenerateLegalMoves()
}

// Play applies the legal move at index. It fails with ErrGameOver once the
// game is decided and with ErrInvalidMoveNumber for an index out of range.
func (g *Game) Play(index int) (board.Move, error) {
	if g.state.IsTerminal() {
		return board.NoMove, fmt.Errorf("%w: %v", ErrGameOver, g.state)
	}
	moves := g.LegalMoves()
	if index < 0 || index >= moves.Len() {
		return board.NoMove, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidMoveNumber, index, moves.Len())
	}
	m := moves.Get(index)
	if err := g.ApplyMove(m); err != nil {
		return board.NoMove, err
	}
	return m, nil
}

// SetState overrides the terminal state. Keeping it consistent with the
// position is up to the caller.
func (g *Game) SetState(s board.State) {
	g.state = s
}

// Initial returns a copy of the starting position.
func (g *Game) Initial() *board.Position {
	return g.initial.Copy()
}

// Current returns a copy of the current position.
func (g *Game) Current() *board.Position {
	return g.current.Copy()
}

// Moves returns the applied moves in order.
func (g *Game) Moves() []board.Move {
	out := make([]board.Move, len(g.moves))
	copy(out, g.moves)
	return out
}

// State returns the terminal state.
func (g *Game) State() board.State {
	return g.state
}

// Ply returns the number of applied moves.
func (g *Game) Ply() int {
	return len(g.moves)
}

// EndReason names how the board decided the game. It is empty while the game
// is ongoing and for a state set by SetState that the board does not show.
func (g *Game) EndReason() string {
	if !g.state.IsTerminal() {
		return ""
	}
	pos := &g.current
	switch {
	case !pos.HasLegalMoves() && pos.InCheck(pos.SideToMove):
		return ReasonCheckmate
	case !pos.HasLegalMoves():
		return ReasonStalemate
	case len(pos.PieceList()) == 2:
		return ReasonBareKings
	}
	return ""
}
