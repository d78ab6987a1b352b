package chess

// ApplyMove executes m for the piece on from. m is trusted to come from
// GenerateMoves(from); legality is not re-checked. An empty from square
// is a no-op. Turn passing is left to the caller.
func (p *Position) ApplyMove(from Square, m Move) (Result, error) {
	res := Result{CapturedOn: NoSquare, RookFrom: NoSquare, RookTo: NoSquare}
	if err := from.check(); err != nil {
		return res, err
	}
	if err := m.To.check(); err != nil {
		return res, err
	}
	if m.EnPassant {
		if err := m.EPCaptured.check(); err != nil {
			return res, err
		}
	}

	piece := p.Board.cells[from]
	if piece.Empty() {
		return res, nil
	}

	placed := piece
	if piece.Type == Pawn && m.To.Row() == piece.Color.promotionRow() {
		placed.Type = Queen
		res.Promoted = true
	}

	if target := p.Board.cells[m.To]; !target.Empty() {
		res.Captured = target
		res.CapturedOn = m.To
	}
	p.Board.cells[m.To] = placed
	p.Board.cells[from] = NoPiece

	if m.EnPassant {
		res.Captured = p.Board.cells[m.EPCaptured]
		res.CapturedOn = m.EPCaptured
		p.Board.cells[m.EPCaptured] = NoPiece
	}

	rights := &p.State.Castling[piece.Color]
	switch piece.Type {
	case King:
		rights.KingMoved = true
	case Rook:
		switch from.Col() {
		case 0:
			rights.QueensideRookMoved = true
		case 7:
			rights.KingsideRookMoved = true
		}
	}

	if m.Castle != NoCastle {
		row := from.Row()
		rookFrom, rookTo := rcToIndex(row, 7), rcToIndex(row, 5)
		if m.Castle == Queenside {
			rookFrom, rookTo = rcToIndex(row, 0), rcToIndex(row, 3)
			rights.QueensideRookMoved = true
		} else {
			rights.KingsideRookMoved = true
		}
		p.Board.cells[rookTo] = p.Board.cells[rookFrom]
		p.Board.cells[rookFrom] = NoPiece
		res.RookFrom, res.RookTo = rookFrom, rookTo
	}

	if m.DoublePush {
		p.State.EnPassant = &EnPassantWindow{From: from, To: m.To}
	} else {
		p.State.EnPassant = nil
	}

	if piece.Color == Black {
		p.State.FullMove++
	}
	res.Moved = placed
	return res, nil
}
