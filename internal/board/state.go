package board

// State is the terminal-state classification of a position.
type State uint8

const (
	Ongoing State = iota
	WhiteWon
	BlackWon
	Draw
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case WhiteWon:
		return "white won"
	case BlackWon:
		return "black won"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the game is decided.
func (s State) IsTerminal() bool {
	return s != Ongoing
}

// Winner returns the winning color, or NoColor for ongoing and drawn games.
func (s State) Winner() Color {
	switch s {
	case WhiteWon:
		return White
	case BlackWon:
		return Black
	default:
		return NoColor
	}
}

// wonBy returns the state in which c has won.
func wonBy(c Color) State {
	if c == White {
		return WhiteWon
	}
	return BlackWon
}

// CalculateState classifies the position from scratch. With no legal move
// the side to move has lost if in check and is stalemated otherwise. A board
// holding only the two kings is drawn.
func (p *Position) CalculateState() State {
	if !p.HasLegalMoves() {
		if p.InCheck(p.SideToMove) {
			return wonBy(p.SideToMove.Other())
		}
		return Draw
	}
	if len(p.PieceList()) == 2 {
		return Draw
	}
	return Ongoing
}
