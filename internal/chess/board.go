package chess

import "strings"

// Board is the 8x8 grid. It has no behaviour beyond bounds-checked access.
type Board struct {
	cells [64]Piece
}

func EmptyBoard() Board {
	return Board{}
}

// NewBoard returns the standard initial layout with black on rows 0-1.
func NewBoard() Board {
	var b Board
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, t := range backRank {
		b.cells[rcToIndex(0, col)] = Piece{Type: t, Color: Black}
		b.cells[rcToIndex(1, col)] = Piece{Type: Pawn, Color: Black}
		b.cells[rcToIndex(6, col)] = Piece{Type: Pawn, Color: White}
		b.cells[rcToIndex(7, col)] = Piece{Type: t, Color: White}
	}
	return b
}

// PieceAt returns NoPiece for an empty square.
func (b *Board) PieceAt(sq Square) (Piece, error) {
	if err := sq.check(); err != nil {
		return NoPiece, err
	}
	return b.cells[sq], nil
}

// SetPiece places p on sq; NoPiece clears the square.
func (b *Board) SetPiece(sq Square, p Piece) error {
	if err := sq.check(); err != nil {
		return err
	}
	b.cells[sq] = p
	return nil
}

func (b *Board) at(row, col int) Piece {
	return b.cells[rcToIndex(row, col)]
}

func (b *Board) emptyAt(row, col int) bool {
	return b.at(row, col).Empty()
}

// Rows returns a copy of the grid, row 0 first.
func (b *Board) Rows() [8][8]Piece {
	var rows [8][8]Piece
	for sq, p := range b.cells {
		rows[sq/8][sq%8] = p
	}
	return rows
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sb.WriteByte(b.at(row, col).Letter())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
