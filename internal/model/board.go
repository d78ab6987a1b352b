package model

import "github.com/benbeisheim/chessrules-backend/internal/chess"

// BoardState is the client view of a board: rows top to bottom, nil cells
// are empty.
type BoardState struct {
	Board             [8][8]*chess.Piece `json:"board"`
	WhiteKingPosition *chess.Square      `json:"whiteKingPosition"`
	BlackKingPosition *chess.Square      `json:"blackKingPosition"`
}

func newBoardState(pos *chess.Position) BoardState {
	var bs BoardState
	rows := pos.Board.Rows()
	for r := range rows {
		for c := range rows[r] {
			if piece := rows[r][c]; !piece.Empty() {
				bs.Board[r][c] = &piece
			}
		}
	}
	if sq, ok := pos.KingSquare(chess.White); ok {
		bs.WhiteKingPosition = &sq
	}
	if sq, ok := pos.KingSquare(chess.Black); ok {
		bs.BlackKingPosition = &sq
	}
	return bs
}
