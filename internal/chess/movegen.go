package chess

type direction struct {
	dr, dc int
}

var (
	rookDirs    = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs  = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs   = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightJumps = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingSteps   = []direction{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// GenerateMoves returns the pseudo-legal moves of the piece on from. Moves
// that leave the mover's own king attacked are not filtered out. An empty
// square yields no moves. The order of the result is not significant.
func (p *Position) GenerateMoves(from Square) ([]Move, error) {
	piece, err := p.Board.PieceAt(from)
	if err != nil {
		return nil, err
	}
	row, col := from.RC()
	switch piece.Type {
	case Pawn:
		return p.pawnMoves(piece, row, col), nil
	case Knight:
		return p.stepMoves(piece, row, col, knightJumps), nil
	case Bishop:
		return p.slideMoves(piece, row, col, bishopDirs), nil
	case Rook:
		return p.slideMoves(piece, row, col, rookDirs), nil
	case Queen:
		return p.slideMoves(piece, row, col, queenDirs), nil
	case King:
		return append(p.stepMoves(piece, row, col, kingSteps), p.castleMoves(piece, row, col)...), nil
	default:
		return []Move{}, nil
	}
}

func (p *Position) pawnMoves(piece Piece, row, col int) []Move {
	moves := []Move{}
	dir := piece.Color.forward()

	// Pushes
	if inBounds(row+dir, col) && p.Board.emptyAt(row+dir, col) {
		moves = append(moves, newMove(rcToIndex(row+dir, col), false))
		if row == piece.Color.pawnStartRow() && p.Board.emptyAt(row+2*dir, col) {
			m := newMove(rcToIndex(row+2*dir, col), false)
			m.DoublePush = true
			moves = append(moves, m)
		}
	}

	// Diagonal captures
	for _, dc := range []int{-1, 1} {
		tr, tc := row+dir, col+dc
		if !inBounds(tr, tc) {
			continue
		}
		target := p.Board.at(tr, tc)
		if !target.Empty() && target.Color != piece.Color {
			moves = append(moves, newMove(rcToIndex(tr, tc), true))
		}
	}

	// En passant against the pawn that just made a double push beside us
	if ep := p.State.EnPassant; ep != nil && ep.To.Valid() {
		er, ec := ep.To.RC()
		victim := p.Board.at(er, ec)
		if er == row && abs(ec-col) == 1 && inBounds(row+dir, ec) &&
			victim.Type == Pawn && victim.Color != piece.Color {
			moves = append(moves, Move{
				To:         rcToIndex(row+dir, ec),
				Capture:    true,
				EnPassant:  true,
				EPCaptured: ep.To,
			})
		}
	}
	return moves
}

// slideMoves walks each ray until the edge or the first occupied square,
// which is included only when it holds an enemy piece.
func (p *Position) slideMoves(piece Piece, row, col int, dirs []direction) []Move {
	moves := []Move{}
	for _, d := range dirs {
		tr, tc := row+d.dr, col+d.dc
		for inBounds(tr, tc) {
			target := p.Board.at(tr, tc)
			if target.Empty() {
				moves = append(moves, newMove(rcToIndex(tr, tc), false))
			} else {
				if target.Color != piece.Color {
					moves = append(moves, newMove(rcToIndex(tr, tc), true))
				}
				break
			}
			tr += d.dr
			tc += d.dc
		}
	}
	return moves
}

func (p *Position) stepMoves(piece Piece, row, col int, steps []direction) []Move {
	moves := []Move{}
	for _, d := range steps {
		tr, tc := row+d.dr, col+d.dc
		if !inBounds(tr, tc) {
			continue
		}
		target := p.Board.at(tr, tc)
		if target.Empty() || target.Color != piece.Color {
			moves = append(moves, newMove(rcToIndex(tr, tc), !target.Empty()))
		}
	}
	return moves
}

// castleMoves checks occupancy only; attacked squares are not considered.
// On top of the unmoved flags it requires the king on its home square and
// a friendly rook still standing in the corner, so a rook captured without
// ever moving cannot be castled with.
func (p *Position) castleMoves(king Piece, row, col int) []Move {
	moves := []Move{}
	rights := p.State.Castling[king.Color]
	home := king.Color.backRow()
	if rights.KingMoved || row != home || col != 4 {
		return moves
	}
	if !rights.QueensideRookMoved && p.hasRook(king.Color, home, 0) &&
		p.Board.emptyAt(home, 1) && p.Board.emptyAt(home, 2) && p.Board.emptyAt(home, 3) {
		m := newMove(rcToIndex(home, 2), false)
		m.Castle = Queenside
		moves = append(moves, m)
	}
	if !rights.KingsideRookMoved && p.hasRook(king.Color, home, 7) &&
		p.Board.emptyAt(home, 5) && p.Board.emptyAt(home, 6) {
		m := newMove(rcToIndex(home, 6), false)
		m.Castle = Kingside
		moves = append(moves, m)
	}
	return moves
}

func (p *Position) hasRook(color Color, row, col int) bool {
	piece := p.Board.at(row, col)
	return piece.Type == Rook && piece.Color == color
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
