package chess

import "golang.org/x/exp/slices"

// IsInCheck reports whether any piece of the opposite color has a
// pseudo-legal move onto color's king. A board without that king is
// never in check.
func (p *Position) IsInCheck(color Color) bool {
	king, ok := p.KingSquare(color)
	if !ok {
		return false
	}
	return p.attackedBy(king, color.Opponent())
}

// KingSquare returns the first square holding a king of color.
func (p *Position) KingSquare(color Color) (Square, bool) {
	want := Piece{Type: King, Color: color}
	for sq, piece := range p.Board.cells {
		if piece == want {
			return Square(sq), true
		}
	}
	return NoSquare, false
}

func (p *Position) attackedBy(target Square, attacker Color) bool {
	for sq, piece := range p.Board.cells {
		if piece.Empty() || piece.Color != attacker {
			continue
		}
		moves, err := p.GenerateMoves(Square(sq))
		if err != nil {
			continue
		}
		if slices.IndexFunc(moves, func(m Move) bool { return m.To == target }) >= 0 {
			return true
		}
	}
	return false
}
