package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the text form of NewPosition().
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN reads a position in FEN. The first row of the placement field
// is row 0. The half-move clock is accepted and ignored.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fenError("need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{State: NewState()}

	if err := parsePlacement(&pos.Board, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.State.Turn = White
	case "b":
		pos.State.Turn = Black
	default:
		return nil, fenError("side to move %q", parts[1])
	}

	if err := parseCastling(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		w, err := parseEnPassant(pos, parts[3])
		if err != nil {
			return nil, err
		}
		pos.State.EnPassant = w
	}

	if len(parts) > 4 {
		if _, err := strconv.Atoi(parts[4]); err != nil {
			return nil, fenError("half-move clock %q", parts[4])
		}
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return nil, fenError("full-move number %q", parts[5])
		}
		pos.State.FullMove = n
	}
	return pos, nil
}

func parsePlacement(b *Board, field string) error {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return fenError("placement needs 8 rows, got %d", len(rows))
	}
	for row, text := range rows {
		col := 0
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece, ok := pieceFromLetter(c)
			if !ok {
				return fenError("unknown piece %q", c)
			}
			if col > 7 {
				return fenError("row %d overflows", row)
			}
			b.cells[rcToIndex(row, col)] = piece
			col++
		}
		if col != 8 {
			return fenError("row %d has %d columns", row, col)
		}
	}
	return nil
}

// parseCastling starts from every flag set and clears the ones the field
// grants. A granted right requires the king and rook on their home squares.
func parseCastling(pos *Position, field string) error {
	for c := range pos.State.Castling {
		pos.State.Castling[c] = CastlingRights{KingMoved: true, QueensideRookMoved: true, KingsideRookMoved: true}
	}
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		color := White
		letter := field[i]
		if letter >= 'a' && letter <= 'z' {
			color = Black
			letter -= 'a' - 'A'
		}
		home := color.backRow()
		rookCol := 7
		if letter == 'Q' {
			rookCol = 0
		} else if letter != 'K' {
			return fenError("castling field %q", field)
		}
		if pos.Board.at(home, 4) != (Piece{Type: King, Color: color}) || !pos.hasRook(color, home, rookCol) {
			return fenError("castling right %c without king and rook at home", field[i])
		}
		rights := &pos.State.Castling[color]
		rights.KingMoved = false
		if rookCol == 0 {
			rights.QueensideRookMoved = false
		} else {
			rights.KingsideRookMoved = false
		}
	}
	return nil
}

// parseEnPassant rebuilds the window from the skipped square. The pawn that
// pushed belongs to the side that just moved.
func parseEnPassant(pos *Position, field string) (*EnPassantWindow, error) {
	sq, err := ParseSquare(field)
	if err != nil || field[0] < 'a' {
		return nil, fenError("en passant square %q", field)
	}
	pusher := pos.State.Turn.Opponent()
	dir := pusher.forward()
	if sq.Row() != pusher.pawnStartRow()+dir {
		return nil, fenError("en passant square %s on wrong rank", sq)
	}
	w := &EnPassantWindow{
		From: rcToIndex(sq.Row()-dir, sq.Col()),
		To:   rcToIndex(sq.Row()+dir, sq.Col()),
	}
	if pos.Board.cells[w.To] != (Piece{Type: Pawn, Color: pusher}) {
		return nil, fenError("en passant square %s without a pushed pawn", sq)
	}
	return w, nil
}

// FEN renders the position. Castling letters appear only while both the
// king and that rook are unmoved; the half-move clock is always 0.
func (p *Position) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			piece := p.Board.at(row, col)
			if piece.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	if p.State.Turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castling := ""
	for _, c := range []Color{White, Black} {
		r := p.State.Castling[c]
		if r.KingMoved || p.Board.at(c.backRow(), 4) != (Piece{Type: King, Color: c}) {
			continue
		}
		k, q := "K", "Q"
		if c == Black {
			k, q = "k", "q"
		}
		if !r.KingsideRookMoved && p.hasRook(c, c.backRow(), 7) {
			castling += k
		}
		if !r.QueensideRookMoved && p.hasRook(c, c.backRow(), 0) {
			castling += q
		}
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	if w := p.State.EnPassant; w != nil {
		sb.WriteString(" " + w.skipped().String())
	} else {
		sb.WriteString(" -")
	}

	fmt.Fprintf(&sb, " 0 %d", p.State.FullMove)
	return sb.String()
}
