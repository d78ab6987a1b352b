package model

import (
	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

type Player struct {
	ID    string
	Color chess.Color
}

type ClientPlayer struct {
	ID     string `json:"name"`
	Joined bool   `json:"joined"`
}

// MatchFoundEvent is delivered to both players when the queue pairs them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
