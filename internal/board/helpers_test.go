package board

import (
	"sort"
	"testing"
)

// positionOf builds a position holding exactly the given pieces.
func positionOf(side Color, rights CastlingRights, pieces map[Square]Piece) *Position {
	pos := NewEmptyPosition()
	for sq, piece := range pieces {
		pos.Put(sq, piece)
	}
	pos.SideToMove = side
	pos.CastlingRights = rights
	return pos
}

// findMove returns the legal move from one square to another, failing the
// test when there is none.
func findMove(t *testing.T, pos *Position, from, to Square) Move {
	t.Helper()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From == from && m.To == to {
			return m
		}
	}
	t.Fatalf("no legal move %v-%v in position:%v", from, to, pos)
	return NoMove
}

// play applies a sequence of legal moves given as square pairs. Promotions
// pick the first generated promotion (a queen).
func play(t *testing.T, pos *Position, squares ...Square) {
	t.Helper()
	if len(squares)%2 != 0 {
		t.Fatalf("odd number of squares: %v", squares)
	}
	for i := 0; i < len(squares); i += 2 {
		m := findMove(t, pos, squares[i], squares[i+1])
		if err := pos.ApplyMove(m); err != nil {
			t.Fatalf("ApplyMove(%v): %v", m, err)
		}
	}
}

func hasMove(ml *MoveList, from, to Square) bool {
	for _, m := range ml.Slice() {
		if m.From == from && m.To == to {
			return true
		}
	}
	return false
}

func countMoves(ml *MoveList, from, to Square) int {
	n := 0
	for _, m := range ml.Slice() {
		if m.From == from && m.To == to {
			n++
		}
	}
	return n
}

// sortedStrings renders moves for order-independent comparison.
func sortedStrings(ml *MoveList) []string {
	out := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		out = append(out, m.GoString())
	}
	sort.Strings(out)
	return out
}
