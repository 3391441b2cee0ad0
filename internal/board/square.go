// Package board implements the chess rules engine: an 8x8 mailbox position,
// attack and move generation, legality filtering and terminal-state
// classification.
package board

import "fmt"

// Square indexes the 64 board cells as row*8 + column, so A1=0, H1=7 and
// H8=63. Columns run a..h, rows run 1..8.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

const (
	NumColumns = 8
	NumRows    = 8
)

// NewSquare creates a square from column and row (0-indexed).
func NewSquare(col, row int) Square {
	return Square(row*NumColumns + col)
}

// File returns the column of the square (0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the row of the square (0=1st rank, 7=8th rank).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square dc columns and dr rows away, and false when that
// falls off the board.
func (sq Square) Offset(dc, dr int) (Square, bool) {
	c, r := sq.File()+dc, sq.Rank()+dr
	if c < 0 || c >= NumColumns || r < 0 || r >= NumRows {
		return NoSquare, false
	}
	return NewSquare(c, r), true
}

// String returns the coordinate name of the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}
