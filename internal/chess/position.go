package chess

import "golang.org/x/exp/slices"

// Position is a board together with its game state. A session owns one
// Position and passes it by reference; nothing here is global.
type Position struct {
	Board Board
	State State
}

// NewPosition returns the standard starting position, white to move.
func NewPosition() *Position {
	return &Position{
		Board: NewBoard(),
		State: NewState(),
	}
}

func (p *Position) Turn() Color {
	return p.State.Turn
}

func (p *Position) ToggleTurn() {
	p.State.Turn = p.State.Turn.Opponent()
}

func (p *Position) PieceAt(sq Square) (Piece, error) {
	return p.Board.PieceAt(sq)
}

func (p *Position) Clone() *Position {
	return &Position{
		Board: p.Board,
		State: p.State.clone(),
	}
}

// Play moves the piece on from to the candidate destination to and passes
// the turn. It reports false, leaving the position untouched, when from is
// empty, holds a piece of the side not to move, or to is not among the
// generated candidates.
func (p *Position) Play(from, to Square) (Result, bool, error) {
	piece, err := p.Board.PieceAt(from)
	if err != nil {
		return Result{}, false, err
	}
	if err := to.check(); err != nil {
		return Result{}, false, err
	}
	if piece.Empty() || piece.Color != p.State.Turn {
		return Result{}, false, nil
	}

	moves, err := p.GenerateMoves(from)
	if err != nil {
		return Result{}, false, err
	}
	i := slices.IndexFunc(moves, func(m Move) bool { return m.To == to })
	if i < 0 {
		return Result{}, false, nil
	}

	res, err := p.ApplyMove(from, moves[i])
	if err != nil {
		return Result{}, false, err
	}
	p.ToggleTurn()
	return res, true, nil
}
