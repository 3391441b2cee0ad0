package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMove is wrapped by every ApplyMove validation failure.
var ErrInvalidMove = errors.New("invalid move")

// NoEnPassant is the en-passant column when no double step just happened.
const NoEnPassant = -1

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castlingRight returns the flag for a color and wing.
func castlingRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side still holds the right to castle
// in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingRight(c, kingSide) != 0
}

// String lists the held rights as K, Q, k, q, or "-" when none remain.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for _, f := range []struct {
		right CastlingRights
		tag   byte
	}{
		{WhiteKingSideCastle, 'K'},
		{WhiteQueenSideCastle, 'Q'},
		{BlackKingSideCastle, 'k'},
		{BlackQueenSideCastle, 'q'},
	} {
		if cr&f.right != 0 {
			sb.WriteByte(f.tag)
		}
	}
	return sb.String()
}

// Position is the full board state. It owns its grid by value: assigning a
// Position copies every square.
type Position struct {
	Squares [64]Piece

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassantCol   int // column of the last double step, NoEnPassant if none
	HalfMoveClock  int // plies since the last pawn move or capture
}

// backRank is the piece order on both home rows.
var backRank = [NumColumns]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	for col, pt := range backRank {
		p.Put(NewSquare(col, White.homeRow()), NewPiece(pt, White))
		p.Put(NewSquare(col, White.pawnRow()), WhitePawn)
		p.Put(NewSquare(col, Black.pawnRow()), BlackPawn)
		p.Put(NewSquare(col, Black.homeRow()), NewPiece(pt, Black))
	}
	p.CastlingRights = AllCastling
	return p
}

// NewEmptyPosition creates a board with no pieces, white to move, no
// castling rights and no en-passant column.
func NewEmptyPosition() *Position {
	p := &Position{
		SideToMove:     White,
		CastlingRights: NoCastling,
		EnPassantCol:   NoEnPassant,
	}
	for sq := range p.Squares {
		p.Squares[sq] = NoPiece
	}
	return p
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.Squares[sq]
}

// At returns the piece at (col, row).
func (p *Position) At(col, row int) Piece {
	return p.PieceAt(NewSquare(col, row))
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// Put places piece on sq, replacing any occupant. NoPiece clears the square.
func (p *Position) Put(sq Square, piece Piece) {
	p.Squares[sq] = piece
}

// PieceList returns every occupied square, scanning from a1 to h8.
func (p *Position) PieceList() []PlacedPiece {
	list := make([]PlacedPiece, 0, 32)
	for sq, piece := range p.Squares {
		if piece != NoPiece {
			list = append(list, PlacedPiece{Piece: piece, Square: Square(sq)})
		}
	}
	return list
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq, piece := range p.Squares {
		if piece == king {
			return Square(sq)
		}
	}
	return NoSquare
}

// EnPassantTarget returns the square a pawn of the side to move would land
// on when capturing en passant, or NoSquare.
func (p *Position) EnPassantTarget() Square {
	if p.EnPassantCol == NoEnPassant {
		return NoSquare
	}
	// The double-stepped pawn belongs to the side not to move; the target is
	// the square it skipped.
	row := 5
	if p.SideToMove == Black {
		row = 2
	}
	return NewSquare(p.EnPassantCol, row)
}

// ApplyMove validates m against the position, then plays it: pieces are
// relocated, en-passant and castling bookkeeping is updated and the turn
// passes. A validation failure wraps ErrInvalidMove and leaves the position
// untouched.
func (p *Position) ApplyMove(m Move) error {
	if err := p.validateMove(m); err != nil {
		return err
	}

	us := p.SideToMove
	moving := p.Squares[m.From]
	captured := p.Squares[m.CapturedSquare()]

	switch {
	case m.IsCastling():
		p.castle(us, m.To.File() == 6)
	default:
		if m.EnPassant {
			p.Squares[m.CapturedSquare()] = NoPiece
		}
		p.Squares[m.From] = NoPiece
		if m.IsPromotion() {
			p.Squares[m.To] = NewPiece(m.Promotion, us)
		} else {
			p.Squares[m.To] = moving
		}
	}

	p.adjustEnPassant(m, moving)
	p.adjustCastling()

	if moving.Is(Pawn) || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	p.SideToMove = us.Other()
	return nil
}

// validateMove runs the sanity checks ApplyMove performs before mutating.
func (p *Position) validateMove(m Move) error {
	if !m.From.IsValid() || !m.To.IsValid() {
		return fmt.Errorf("%w: square off the board (%v to %v)", ErrInvalidMove, m.From, m.To)
	}

	moving := p.Squares[m.From]
	if m.Piece != moving {
		return fmt.Errorf("%w: moving piece %q does not match start square %v (%q)",
			ErrInvalidMove, m.Piece, m.From, moving)
	}

	if m.Capture && p.IsEmpty(m.CapturedSquare()) {
		return fmt.Errorf("%w: move %v is not capturing anything", ErrInvalidMove, m)
	}

	if moving.Color() != p.SideToMove {
		return fmt.Errorf("%w: moving %v piece on %v's turn",
			ErrInvalidMove, moving.Color(), p.SideToMove)
	}

	if m.EnPassant {
		if err := p.validateEnPassant(m); err != nil {
			return err
		}
	}
	return validatePromotion(m, moving)
}

// validateEnPassant checks that m is a pawn stepping diagonally onto the
// en-passant target with the passed pawn beside it.
func (p *Position) validateEnPassant(m Move) error {
	us := p.SideToMove
	df := m.To.File() - m.From.File()
	if !m.Piece.Is(Pawn) ||
		m.To != p.EnPassantTarget() ||
		m.To.Rank()-m.From.Rank() != us.forward() ||
		(df != 1 && df != -1) {
		return fmt.Errorf("%w: %v is not an en-passant capture", ErrInvalidMove, m)
	}
	if p.Squares[m.CapturedSquare()] != NewPiece(Pawn, us.Other()) {
		return fmt.Errorf("%w: no pawn to take en passant on %v", ErrInvalidMove, m.CapturedSquare())
	}
	return nil
}

// validatePromotion requires a promotion exactly when a pawn reaches the far
// row, and only to a queen, rook, bishop or knight.
func validatePromotion(m Move, moving Piece) error {
	farRow := m.To.Rank() == moving.Color().Other().homeRow()
	switch {
	case !moving.Is(Pawn):
		if m.IsPromotion() {
			return fmt.Errorf("%w: only pawns promote, not %q", ErrInvalidMove, moving)
		}
	case farRow && !m.IsPromotion():
		return fmt.Errorf("%w: pawn move %v needs a promotion", ErrInvalidMove, m)
	case !farRow && m.IsPromotion():
		return fmt.Errorf("%w: pawn move %v cannot promote before the last row", ErrInvalidMove, m)
	case m.IsPromotion():
		for _, pt := range promotionTypes {
			if m.Promotion == pt {
				return nil
			}
		}
		return fmt.Errorf("%w: cannot promote to %v", ErrInvalidMove, m.Promotion)
	}
	return nil
}

// castle relocates king and rook of color c for the given wing.
func (p *Position) castle(c Color, kingSide bool) {
	row := c.homeRow()
	rookFrom, rookTo, kingTo := 0, 3, 2
	if kingSide {
		rookFrom, rookTo, kingTo = 7, 5, 6
	}
	p.Squares[NewSquare(4, row)] = NoPiece
	p.Squares[NewSquare(rookFrom, row)] = NoPiece
	p.Squares[NewSquare(rookTo, row)] = NewPiece(Rook, c)
	p.Squares[NewSquare(kingTo, row)] = NewPiece(King, c)
}

// adjustEnPassant records the column of a pawn double step, clearing the
// marker after any other move.
func (p *Position) adjustEnPassant(m Move, moving Piece) {
	c := moving.Color()
	if moving.Is(Pawn) &&
		m.From.Rank() == c.pawnRow() &&
		m.To.Rank() == c.pawnRow()+2*c.forward() &&
		m.From.File() == m.To.File() {
		p.EnPassantCol = m.From.File()
		return
	}
	p.EnPassantCol = NoEnPassant
}

// adjustCastling revokes any right whose king or rook is no longer on its
// home square. Both colors are checked so a rook captured in place loses its
// right immediately.
func (p *Position) adjustCastling() {
	for _, c := range [2]Color{White, Black} {
		row := c.homeRow()
		if p.At(4, row) != NewPiece(King, c) {
			p.CastlingRights &^= castlingRight(c, true) | castlingRight(c, false)
		}
		if p.At(0, row) != NewPiece(Rook, c) {
			p.CastlingRights &^= castlingRight(c, false)
		}
		if p.At(7, row) != NewPiece(Rook, c) {
			p.CastlingRights &^= castlingRight(c, true)
		}
	}
}

// Validate checks the position is fit for play: one king per side, no pawns
// on the first or last row, and the side not to move is not in check.
func (p *Position) Validate() error {
	var kings [2]int
	for _, pp := range p.PieceList() {
		switch pp.Piece.Type() {
		case King:
			kings[pp.Piece.Color()]++
		case Pawn:
			if r := pp.Square.Rank(); r == 0 || r == NumRows-1 {
				return fmt.Errorf("pawn on %v cannot stand on the first or last row", pp.Square)
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king, found %d", kings[White])
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king, found %d", kings[Black])
	}
	if p.InCheck(p.SideToMove.Other()) {
		return fmt.Errorf("%v is in check but it is %v's turn", p.SideToMove.Other(), p.SideToMove)
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := NumRows - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < NumColumns; col++ {
			piece := p.At(col, row)
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant column: %d\n", p.EnPassantCol)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	return sb.String()
}
