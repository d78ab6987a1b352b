package chess

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidSquare is returned for any square outside the 8x8 board.
var ErrInvalidSquare = errors.New("invalid square")

type InvalidSquareError struct {
	Square string
}

func (e *InvalidSquareError) Error() string {
	return fmt.Sprintf("invalid square %s", e.Square)
}

func (e *InvalidSquareError) Unwrap() error {
	return ErrInvalidSquare
}

// Square is a board index 0-63. Row 0 is black's back rank (rank 8),
// row 7 is white's (rank 1).
type Square int

const NoSquare Square = -1

func NewSquare(row, col int) (Square, error) {
	if !inBounds(row, col) {
		return NoSquare, &InvalidSquareError{Square: fmt.Sprintf("(%d,%d)", row, col)}
	}
	return rcToIndex(row, col), nil
}

func inBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func rcToIndex(row, col int) Square {
	return Square(row*8 + col)
}

func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

func (s Square) Row() int {
	return int(s) / 8
}

func (s Square) Col() int {
	return int(s) % 8
}

func (s Square) RC() (int, int) {
	return s.Row(), s.Col()
}

func (s Square) check() error {
	if !s.Valid() {
		return &InvalidSquareError{Square: strconv.Itoa(int(s))}
	}
	return nil
}

// String returns algebraic notation, e.g. row 7 col 4 is "e1".
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col(), 8-s.Row())
}

// ParseSquare accepts either algebraic notation ("e2") or a decimal index ("52").
func ParseSquare(text string) (Square, error) {
	if n, err := strconv.Atoi(text); err == nil {
		sq := Square(n)
		if err := sq.check(); err != nil {
			return NoSquare, err
		}
		return sq, nil
	}
	if len(text) != 2 {
		return NoSquare, &InvalidSquareError{Square: text}
	}
	col := int(text[0] - 'a')
	rank := int(text[1] - '0')
	sq, err := NewSquare(8-rank, col)
	if err != nil {
		return NoSquare, &InvalidSquareError{Square: text}
	}
	return sq, nil
}

// MarshalText writes "-" for NoSquare.
func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*s = NoSquare
		return nil
	}
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
