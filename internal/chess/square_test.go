package chess

import (
	"errors"
	"testing"
)

func TestSquareBijection(t *testing.T) {
	for s := Square(0); s < 64; s++ {
		row, col := s.RC()
		got, err := NewSquare(row, col)
		if err != nil {
			t.Fatalf("NewSquare(%d, %d): %v", row, col, err)
		}
		if got != s {
			t.Errorf("NewSquare(%d, %d) = %d, want %d", row, col, got, s)
		}
		parsed, err := ParseSquare(s.String())
		if err != nil || parsed != s {
			t.Errorf("ParseSquare(%q) = %d, %v; want %d", s.String(), parsed, err, s)
		}
	}
}

func TestSquareNames(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
	}{
		{"a8", 0, 0},
		{"h8", 0, 7},
		{"e1", 7, 4},
		{"a1", 7, 0},
		{"e2", 6, 4},
		{"60", 7, 4},
	}
	for _, tt := range tests {
		s, err := ParseSquare(tt.name)
		if err != nil {
			t.Errorf("ParseSquare(%q): %v", tt.name, err)
			continue
		}
		if r, c := s.RC(); r != tt.row || c != tt.col {
			t.Errorf("ParseSquare(%q) = (%d,%d), want (%d,%d)", tt.name, r, c, tt.row, tt.col)
		}
	}
}

func TestInvalidSquare(t *testing.T) {
	for _, text := range []string{"", "i1", "e9", "e0", "64", "-1", "e22"} {
		if _, err := ParseSquare(text); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) err = %v, want ErrInvalidSquare", text, err)
		}
	}
	if _, err := NewSquare(8, 0); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("NewSquare(8, 0) err = %v", err)
	}

	b := NewBoard()
	_, err := b.PieceAt(64)
	var ise *InvalidSquareError
	if !errors.As(err, &ise) || ise.Square != "64" {
		t.Errorf("PieceAt(64) err = %v, want *InvalidSquareError for 64", err)
	}
	if err := b.SetPiece(-1, Piece{Type: Rook}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("SetPiece(-1) err = %v", err)
	}
	pos := NewPosition()
	if _, err := pos.GenerateMoves(99); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("GenerateMoves(99) err = %v", err)
	}
	if _, err := pos.ApplyMove(52, Move{To: 70}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("ApplyMove to 70 err = %v", err)
	}
	if pos.FEN() != StartFEN {
		t.Errorf("failed ApplyMove changed the position: %s", pos.FEN())
	}
}

func TestBoardAccessors(t *testing.T) {
	b := EmptyBoard()
	e4 := sq(t, "e4")
	queen := Piece{Type: Queen, Color: Black}
	if err := b.SetPiece(e4, queen); err != nil {
		t.Fatal(err)
	}
	if got, _ := b.PieceAt(e4); got != queen {
		t.Errorf("PieceAt(e4) = %v, want %v", got, queen)
	}
	if err := b.SetPiece(e4, NoPiece); err != nil {
		t.Fatal(err)
	}
	if got, _ := b.PieceAt(e4); !got.Empty() {
		t.Errorf("PieceAt(e4) = %v after clearing", got)
	}

	start := NewBoard()
	rows := start.Rows()
	if rows[7][4] != (Piece{Type: King, Color: White}) || rows[0][3] != (Piece{Type: Queen, Color: Black}) {
		t.Errorf("unexpected initial layout:\n%s", start.String())
	}
}
