package server

import (
	"strings"

	"github.com/hailam/sage/internal/board"
)

// MoveView is one numbered legal move.
type MoveView struct {
	Index     int    `json:"index"`
	Move      string `json:"move"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// GameView is the JSON shape of a hosted game.
type GameView struct {
	ID            string     `json:"id"`
	State         string     `json:"state"`
	Reason        string     `json:"reason,omitempty"`
	Turn          string     `json:"turn"`
	InCheck       bool       `json:"in_check"`
	Castling      string     `json:"castling"`
	EnPassantCol  int        `json:"en_passant_col"`
	HalfMoveClock int        `json:"half_move_clock"`
	Board         []string   `json:"board"` // rank 8 first, '.' for empty
	LegalMoves    []MoveView `json:"legal_moves"`
	History       []string   `json:"history"`
	Plies         int        `json:"plies"`
}

// newGameView renders a session. s.mu must be held.
func newGameView(s *session) GameView {
	g := s.game
	pos := g.Current()

	view := GameView{
		ID:            s.id,
		State:         g.State().String(),
		Reason:        g.EndReason(),
		Turn:          strings.ToLower(pos.SideToMove.String()),
		InCheck:       pos.InCheck(pos.SideToMove),
		Castling:      pos.CastlingRights.String(),
		EnPassantCol:  pos.EnPassantCol,
		HalfMoveClock: pos.HalfMoveClock,
		Board:         boardRows(pos),
		LegalMoves:    []MoveView{},
		History:       []string{},
		Plies:         g.Ply(),
	}

	if !g.State().IsTerminal() {
		moves := g.LegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			mv := MoveView{Index: i, Move: m.String(), From: m.From.String(), To: m.To.String()}
			if m.IsPromotion() {
				mv.Promotion = board.NewPiece(m.Promotion, board.White).String()
			}
			view.LegalMoves = append(view.LegalMoves, mv)
		}
	}
	for _, m := range g.Moves() {
		view.History = append(view.History, m.String())
	}
	return view
}

func boardRows(pos *board.Position) []string {
	rows := make([]string, 0, board.NumRows)
	for row := board.NumRows - 1; row >= 0; row-- {
		var sb strings.Builder
		for col := 0; col < board.NumColumns; col++ {
			if piece := pos.At(col, row); piece == board.NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteString(piece.String())
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}
