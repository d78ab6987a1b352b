package chess

// CastlingRights records, per color, whether the king and each rook have
// ever left their home squares. Flags are only ever set, never reset.
type CastlingRights struct {
	KingMoved          bool `json:"kingMoved"`
	QueensideRookMoved bool `json:"queensideRookMoved"`
	KingsideRookMoved  bool `json:"kingsideRookMoved"`
}

// EnPassantWindow is the double pawn push made by the immediately
// preceding move. It lives for exactly one move.
type EnPassantWindow struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// skipped is the square the pushed pawn passed over.
func (w EnPassantWindow) skipped() Square {
	return rcToIndex((w.From.Row()+w.To.Row())/2, w.To.Col())
}

// State is the mutable game state beside the board. It is mutated only by
// ApplyMove and ToggleTurn.
type State struct {
	Turn      Color             `json:"turn"`
	Castling  [2]CastlingRights `json:"castling"`
	EnPassant *EnPassantWindow  `json:"enPassant"`
	FullMove  int               `json:"fullMove"`
}

func NewState() State {
	return State{Turn: White, FullMove: 1}
}

func (s State) clone() State {
	c := s
	if s.EnPassant != nil {
		w := *s.EnPassant
		c.EnPassant = &w
	}
	return c
}
