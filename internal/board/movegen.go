package board

// GenerateLegalMoves generates all legal moves for the side to move. There
// is no guaranteed order.
func (p *Position) GenerateLegalMoves() *MoveList {
	us := p.SideToMove
	ksq := p.KingSquare(us)

	ml := p.filterLegalMoves(p.GeneratePseudoLegalMoves(), ksq)

	// One attack map per call serves every castling transit square.
	if p.CastlingRights.CanCastle(us, true) || p.CastlingRights.CanCastle(us, false) {
		enemyAttacks := p.AttackMap(us.Other())
		p.generateCastlingMoves(ml, us, &enemyAttacks)
	}
	return ml
}

// GeneratePseudoLegalMoves generates the geometric moves of the side to
// move, ignoring king safety, friendly occupancy and castling.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	us := p.SideToMove
	ml := NewMoveList()
	for sq, piece := range p.Squares {
		if piece == NoPiece || piece.Color() != us {
			continue
		}
		if piece.Is(Pawn) {
			p.generatePawnMoves(ml, piece, Square(sq))
			continue
		}
		p.addAttacks(ml, piece, Square(sq))
	}
	return ml
}

// generatePawnMoves generates pushes, diagonal captures, en-passant
// captures and promotions for one pawn.
func (p *Position) generatePawnMoves(ml *MoveList, pawn Piece, from Square) {
	us := pawn.Color()
	fwd := us.forward()

	// Pushes: one square, or two from the home rank with both squares empty.
	if one, ok := from.Offset(0, fwd); ok && p.IsEmpty(one) {
		addPawnMove(ml, NewMove(pawn, from, one))
		if from.Rank() == us.pawnRow() {
			if two, ok := from.Offset(0, 2*fwd); ok && p.IsEmpty(two) {
				ml.Add(NewMove(pawn, from, two))
			}
		}
	}

	// Captures onto enemy pieces.
	for _, to := range pawnTargets[us][from] {
		target := p.Squares[to]
		if target != NoPiece && target.Color() != us {
			m := NewMove(pawn, from, to)
			m.Capture = true
			addPawnMove(ml, m)
		}
	}

	// En passant onto the square the enemy pawn skipped.
	if ep := p.EnPassantTarget(); ep != NoSquare {
		for _, to := range pawnTargets[us][from] {
			if to != ep {
				continue
			}
			m := NewMove(pawn, from, to)
			m.Capture = true
			m.EnPassant = true
			if p.PieceAt(m.CapturedSquare()) == NewPiece(Pawn, us.Other()) && p.IsEmpty(to) {
				ml.Add(m)
			}
		}
	}
}

// addPawnMove adds m, expanded into the four promotions when it lands on
// the far rank.
func addPawnMove(ml *MoveList, m Move) {
	if r := m.To.Rank(); r != 0 && r != NumRows-1 {
		ml.Add(m)
		return
	}
	for _, pt := range promotionTypes {
		m.Promotion = pt
		ml.Add(m)
	}
}

// filterLegalMoves drops moves onto friendly pieces, flags captures, and
// drops every move that leaves the mover's king attacked once played on a
// throwaway copy of the position.
func (p *Position) filterLegalMoves(pseudo *MoveList, ksq Square) *MoveList {
	us := p.SideToMove
	result := NewMoveList()

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)

		if target := p.Squares[m.To]; target != NoPiece {
			if target.Color() == us {
				continue
			}
			m.Capture = true
		}

		if p.moveInducesCheck(m, ksq) {
			continue
		}
		result.Add(m)
	}
	return result
}

// moveInducesCheck plays m on a copy and reports whether the mover's king
// ends up attacked. ksq is the king's square before the move; NoSquare means
// the mover has no king and nothing can expose it.
func (p *Position) moveInducesCheck(m Move, ksq Square) bool {
	scratch := *p
	if err := scratch.ApplyMove(m); err != nil {
		return true
	}
	if m.Piece.Is(King) {
		ksq = m.To
	}
	if ksq == NoSquare {
		return false
	}
	return scratch.IsSquareAttacked(ksq, p.SideToMove.Other())
}

// generateCastlingMoves appends castling for each right still held. The
// king must stand on its home square with the rook in its corner, the
// squares between them must be empty, and the king's start, transit and
// landing squares must be free of enemy attacks.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color, enemyAttacks *AttackMap) {
	row := us.homeRow()
	king := NewPiece(King, us)
	if p.At(4, row) != king {
		return
	}

	wings := [2]struct {
		kingSide bool
		rookCol  int
		empty    []int
		path     []int
		kingTo   int
	}{
		{kingSide: true, rookCol: 7, empty: []int{5, 6}, path: []int{4, 5, 6}, kingTo: 6},
		{kingSide: false, rookCol: 0, empty: []int{3, 2, 1}, path: []int{4, 3, 2}, kingTo: 2},
	}

	for _, w := range wings {
		if !p.CastlingRights.CanCastle(us, w.kingSide) {
			continue
		}
		if p.At(w.rookCol, row) != NewPiece(Rook, us) {
			continue
		}
		if !p.columnsEmpty(row, w.empty) || enemyAttacks.anyAttacked(row, w.path) {
			continue
		}
		ml.Add(NewMove(king, NewSquare(4, row), NewSquare(w.kingTo, row)))
	}
}

func (p *Position) columnsEmpty(row int, cols []int) bool {
	for _, c := range cols {
		if !p.IsEmpty(NewSquare(c, row)) {
			return false
		}
	}
	return true
}

func (am *AttackMap) anyAttacked(row int, cols []int) bool {
	for _, c := range cols {
		if am.Attacked(NewSquare(c, row)) {
			return true
		}
	}
	return false
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the side to move is in check with no legal
// move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is not in check but has no
// legal move.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate: bare
// kings, or a single minor piece against a bare king.
func (p *Position) IsInsufficientMaterial() bool {
	var minors [2]int
	for _, pp := range p.PieceList() {
		switch pp.Piece.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[pp.Piece.Color()]++
		}
	}
	if minors[White]+minors[Black] == 0 {
		return true
	}
	return minors[White]+minors[Black] == 1
}
