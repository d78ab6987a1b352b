package chess

import "testing"

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", name, err)
	}
	return s
}

func genMoves(t *testing.T, pos *Position, from string) map[string]Move {
	t.Helper()
	moves, err := pos.GenerateMoves(sq(t, from))
	if err != nil {
		t.Fatalf("GenerateMoves(%s): %v", from, err)
	}
	byTarget := make(map[string]Move, len(moves))
	for _, m := range moves {
		if _, dup := byTarget[m.To.String()]; dup {
			t.Fatalf("GenerateMoves(%s): duplicate target %s", from, m.To)
		}
		byTarget[m.To.String()] = m
	}
	return byTarget
}

func assertTargets(t *testing.T, got map[string]Move, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d moves %v, want %v", len(got), keys(got), want)
		return
	}
	for _, w := range want {
		if _, ok := got[w]; !ok {
			t.Errorf("missing move to %s; got %v", w, keys(got))
		}
	}
}

func keys(m map[string]Move) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func play(t *testing.T, pos *Position, from, to string) Result {
	t.Helper()
	res, ok, err := pos.Play(sq(t, from), sq(t, to))
	if err != nil {
		t.Fatalf("Play(%s, %s): %v", from, to, err)
	}
	if !ok {
		t.Fatalf("Play(%s, %s) was not applied\n%s", from, to, pos.Board.String())
	}
	return res
}
