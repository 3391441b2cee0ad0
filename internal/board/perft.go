package board

// Perft counts the leaf nodes of the legal-move tree at the given depth.
// Each child is played on its own copy of the position.
func Perft(p *Position, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		child := *p
		if err := child.ApplyMove(moves.Get(i)); err != nil {
			continue
		}
		nodes += Perft(&child, depth-1)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(p *Position, depth int) map[Move]int64 {
	div := make(map[Move]int64)
	if depth <= 0 {
		return div
	}
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		child := *p
		if err := child.ApplyMove(m); err != nil {
			continue
		}
		div[m] = Perft(&child, depth-1)
	}
	return div
}
