package chess

import "fmt"

type CastleSide uint8

const (
	NoCastle CastleSide = iota
	Kingside
	Queenside
)

func (c CastleSide) String() string {
	switch c {
	case Kingside:
		return "kingside"
	case Queenside:
		return "queenside"
	}
	return ""
}

func (c CastleSide) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CastleSide) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*c = NoCastle
	case "kingside":
		*c = Kingside
	case "queenside":
		*c = Queenside
	default:
		return fmt.Errorf("unknown castle side %q", text)
	}
	return nil
}

// Move is a candidate destination for the piece on the queried square.
// EPCaptured is NoSquare unless EnPassant is set.
type Move struct {
	To         Square     `json:"to"`
	Capture    bool       `json:"capture"`
	Castle     CastleSide `json:"castle,omitempty"`
	EnPassant  bool       `json:"enPassant,omitempty"`
	EPCaptured Square     `json:"epCaptured"`
	DoublePush bool       `json:"doublePush,omitempty"`
}

func newMove(to Square, capture bool) Move {
	return Move{To: to, Capture: capture, EPCaptured: NoSquare}
}

// Result describes what ApplyMove did to the board.
type Result struct {
	Moved      Piece  `json:"moved"`
	Captured   Piece  `json:"captured"`
	CapturedOn Square `json:"capturedOn"`
	Promoted   bool   `json:"promoted"`
	RookFrom   Square `json:"rookFrom"`
	RookTo     Square `json:"rookTo"`
}

func (r Result) Capture() bool {
	return !r.Captured.Empty()
}

func (r Result) Castled() bool {
	return r.RookFrom != NoSquare
}
