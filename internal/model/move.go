package model

import "github.com/benbeisheim/chessrules-backend/internal/chess"

// WSMove is a move request: the selected square and the chosen destination.
type WSMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

// LastMove describes the most recent accepted move for the status line.
type LastMove struct {
	Piece          chess.Piece     `json:"piece"`
	From           chess.Square    `json:"from"`
	To             chess.Square    `json:"to"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CapturedOn     *chess.Square   `json:"capturedOn"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      bool            `json:"promotion"`
}

func newLastMove(from, to chess.Square, res chess.Result) *LastMove {
	lm := &LastMove{
		Piece:     res.Moved,
		From:      from,
		To:        to,
		Promotion: res.Promoted,
	}
	if res.Capture() {
		captured, on := res.Captured, res.CapturedOn
		lm.CapturedPiece = &captured
		lm.CapturedOn = &on
	}
	if res.Castled() {
		lm.CastleRookMove = &CastleRookMove{From: res.RookFrom, To: res.RookTo}
	}
	return lm
}

// Candidate is a generated move as sent to clients.
type Candidate struct {
	From chess.Square `json:"from"`
	chess.Move
}

// SelectRequest asks for the candidates of the piece on Square.
type SelectRequest struct {
	Square chess.Square `json:"square"`
}

type MovesResponse struct {
	From  chess.Square `json:"from"`
	Moves []Candidate  `json:"moves"`
}
