package board

// direction is a (column, row) step.
type direction struct{ dc, dr int }

var (
	rookDirections   = [4]direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	knightOffsets    = [8]direction{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}, {2, 1}, {-2, 1}, {2, -1}, {-2, -1}}
	kingOffsets      = [8]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

// Pre-computed target squares for the non-sliding pieces, clipped to the
// board edges.
var (
	knightTargets [64][]Square
	kingTargets   [64][]Square
	pawnTargets   [2][64][]Square // [Color][Square] forward diagonals
)

func init() {
	initLeaperTargets(&knightTargets, knightOffsets[:])
	initLeaperTargets(&kingTargets, kingOffsets[:])
	initPawnTargets()
}

func initLeaperTargets(table *[64][]Square, offsets []direction) {
	for sq := A1; sq <= H8; sq++ {
		for _, d := range offsets {
			if to, ok := sq.Offset(d.dc, d.dr); ok {
				table[sq] = append(table[sq], to)
			}
		}
	}
}

func initPawnTargets() {
	for sq := A1; sq <= H8; sq++ {
		for _, c := range [2]Color{White, Black} {
			for _, dc := range [2]int{-1, 1} {
				if to, ok := sq.Offset(dc, c.forward()); ok {
					pawnTargets[c][sq] = append(pawnTargets[c][sq], to)
				}
			}
		}
	}
}

// addRays walks each direction from the piece until the board edge or the
// first occupied square, which is included.
func (p *Position) addRays(ml *MoveList, piece Piece, from Square, dirs []direction) {
	for _, d := range dirs {
		to := from
		for {
			var ok bool
			if to, ok = to.Offset(d.dc, d.dr); !ok {
				break
			}
			ml.Add(NewMove(piece, from, to))
			if p.Squares[to] != NoPiece {
				break
			}
		}
	}
}

// addTargets emits one move per pre-computed target.
func addTargets(ml *MoveList, piece Piece, from Square, targets []Square) {
	for _, to := range targets {
		ml.Add(NewMove(piece, from, to))
	}
}

// addAttacks emits the raw attacks of a single piece. Pawns attack their two
// forward diagonals only.
func (p *Position) addAttacks(ml *MoveList, piece Piece, from Square) {
	switch piece.Type() {
	case King:
		addTargets(ml, piece, from, kingTargets[from])
	case Queen:
		p.addRays(ml, piece, from, rookDirections[:])
		p.addRays(ml, piece, from, bishopDirections[:])
	case Rook:
		p.addRays(ml, piece, from, rookDirections[:])
	case Bishop:
		p.addRays(ml, piece, from, bishopDirections[:])
	case Knight:
		addTargets(ml, piece, from, knightTargets[from])
	case Pawn:
		addTargets(ml, piece, from, pawnTargets[piece.Color()][from])
	}
}

// GenerateAttacks lists every square attacked by c's pieces, ignoring king
// safety and whether the target holds a friendly piece. The result does not
// depend on whose turn it is.
func (p *Position) GenerateAttacks(c Color) *MoveList {
	ml := NewMoveList()
	for sq, piece := range p.Squares {
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		p.addAttacks(ml, piece, Square(sq))
	}
	return ml
}

// AttackMap counts, per square, how many attacks land there.
type AttackMap [64]int

// Attacked reports whether sq is attacked at least once.
func (am *AttackMap) Attacked(sq Square) bool {
	return am[sq] > 0
}

// AttackMap tallies c's raw attacks per square.
func (p *Position) AttackMap(c Color) AttackMap {
	var am AttackMap
	attacks := p.GenerateAttacks(c)
	for i := 0; i < attacks.Len(); i++ {
		am[attacks.Get(i).To]++
	}
	return am
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.GenerateAttacks(by).Targets(sq)
}

// InCheck reports whether c's king is attacked by the other color. A side
// without a king is never in check.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}
