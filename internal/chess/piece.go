package chess

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// forward is the row delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) pawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

func (c Color) backRow() int {
	if c == White {
		return 7
	}
	return 0
}

// promotionRow is the opponent's back rank.
func (c Color) promotionRow() int {
	return c.Opponent().backRow()
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (t PieceType) String() string {
	if int(t) < len(pieceTypeNames) {
		return pieceTypeNames[t]
	}
	return "unknown"
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if name == string(text) {
			*t = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// Piece is the content of a board cell. The zero value is an empty cell.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

var NoPiece = Piece{}

func (p Piece) Empty() bool {
	return p.Type == NoPieceType
}

const fenLetters = " pnbrqk"

// Letter is the FEN letter of the piece: upper case for white.
func (p Piece) Letter() byte {
	if p.Empty() {
		return '.'
	}
	l := fenLetters[p.Type]
	if p.Color == White {
		l -= 'a' - 'A'
	}
	return l
}

func pieceFromLetter(l byte) (Piece, bool) {
	color := Black
	if l >= 'A' && l <= 'Z' {
		color = White
		l += 'a' - 'A'
	}
	for i := 1; i < len(fenLetters); i++ {
		if fenLetters[i] == l {
			return Piece{Type: PieceType(i), Color: color}, true
		}
	}
	return NoPiece, false
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}
