package board

import "fmt"

// Move is a proposed or historical transition. Piece is a snapshot of the
// start square's occupant at generation time; a move carries coordinates and
// flags only and must be re-resolved against a Position to be executed.
type Move struct {
	Piece     Piece
	From      Square
	To        Square
	Capture   bool
	EnPassant bool
	Promotion PieceType // NoPieceType unless the move promotes
}

// NoMove is the zero-information move.
var NoMove = Move{Piece: NoPiece, From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a quiet move for piece from one square to another.
func NewMove(piece Piece, from, to Square) Move {
	return Move{Piece: piece, From: from, To: to, Promotion: NoPieceType}
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCastling returns true if this is a king's two-column castling step.
func (m Move) IsCastling() bool {
	if !m.Piece.Is(King) {
		return false
	}
	home := m.Piece.Color().homeRow()
	return m.From == NewSquare(4, home) && m.From.Rank() == m.To.Rank() &&
		(m.To.File() == 6 || m.To.File() == 2)
}

// CapturedSquare returns the square whose occupant this move removes: the
// destination, or for en passant the square of the passed pawn.
func (m Move) CapturedSquare() Square {
	if m.EnPassant {
		return NewSquare(m.To.File(), m.From.Rank())
	}
	return m.To
}

// String returns the move as start, separator and end, e.g. "e2-e4",
// "d5xe6" or "e7-e8=Q".
func (m Move) String() string {
	if m.From >= NoSquare || m.To >= NoSquare {
		return "0000"
	}
	sep := "-"
	if m.Capture {
		sep = "x"
	}
	s := m.From.String() + sep + m.To.String()
	if m.IsPromotion() {
		s += "=" + NewPiece(m.Promotion, White).String()
	}
	if m.EnPassant {
		s += " e.p."
	}
	return s
}

// GoString includes the moving piece, for test diagnostics.
func (m Move) GoString() string {
	return fmt.Sprintf("%s %s", m.Piece, m.String())
}

// MoveList is an append-only list of moves.
type MoveList struct {
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 64)}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list holds an identical move.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Targets reports whether any move in the list ends on sq.
func (ml *MoveList) Targets(sq Square) bool {
	for _, x := range ml.moves {
		if x.To == sq {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}
