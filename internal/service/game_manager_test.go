package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
)

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open("")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustMove(t *testing.T, from, to string) model.WSMove {
	t.Helper()
	f, err := chess.ParseSquare(from)
	if err != nil {
		t.Fatal(err)
	}
	d, err := chess.ParseSquare(to)
	if err != nil {
		t.Fatal(err)
	}
	return model.WSMove{From: f, To: d}
}

// hookStore runs onSave once, inside the next SaveGame call.
type hookStore struct {
	*storage.Storage
	mu     sync.Mutex
	onSave func()
}

func (s *hookStore) setHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

func (s *hookStore) SaveGame(rec storage.GameRecord) error {
	s.mu.Lock()
	hook := s.onSave
	s.onSave = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return s.Storage.SaveGame(rec)
}

func TestCreateAndGetGame(t *testing.T) {
	gm := newGameManager(nil)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("g1"); !errors.Is(err, ErrGameExists) {
		t.Errorf("err = %v, want ErrGameExists", err)
	}
	if _, err := gm.GetGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
	if _, err := gm.AddPlayerToGame("missing", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestPersistAndRestore(t *testing.T) {
	store := openStore(t)
	gm := newGameManager(store)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.AddPlayerToGame("g1", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.AddPlayerToGame("g1", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := gm.MakeMove("g1", "alice", mustMove(t, "e2", "e4")); err != nil {
		t.Fatal(err)
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

	// A fresh manager over the same store picks the game up lazily.
	lazy := newGameManager(store)
	state, err := lazy.GetGameState("g1")
	if err != nil {
		t.Fatal(err)
	}
	if state.FEN != want || state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("restored state = %s %+v", state.FEN, state.Players)
	}
	if err := lazy.MakeMove("g1", "bob", mustMove(t, "d7", "d5")); err != nil {
		t.Errorf("move on restored game: %v", err)
	}

	eager := newGameManager(store)
	n, err := eager.Restore()
	if err != nil || n != 1 {
		t.Errorf("Restore = %d, %v", n, err)
	}
}

func TestRestoreSkipsBadRecords(t *testing.T) {
	store := openStore(t)
	if err := store.SaveGame(storage.GameRecord{ID: "bad", FEN: "not a position"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveGame(storage.GameRecord{ID: "good", FEN: chess.StartFEN}); err != nil {
		t.Fatal(err)
	}
	gm := newGameManager(store)
	if n, err := gm.Restore(); err != nil || n != 1 {
		t.Errorf("Restore = %d, %v", n, err)
	}
}

func TestMatchOnce(t *testing.T) {
	gm := newGameManager(openStore(t))
	if gm.matchOnce() {
		t.Fatal("matched with an empty queue")
	}

	chA := make(chan model.MatchFoundEvent, 1)
	chB := make(chan model.MatchFoundEvent, 1)
	gm.RegisterMatchmakingChannel("a", chA)
	gm.RegisterMatchmakingChannel("b", chB)
	if err := gm.JoinMatchmaking("a"); err != nil {
		t.Fatal(err)
	}
	if err := gm.JoinMatchmaking("a"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Errorf("err = %v, want ErrAlreadyQueued", err)
	}
	if err := gm.JoinMatchmaking("b"); err != nil {
		t.Fatal(err)
	}
	if !gm.matchOnce() {
		t.Fatal("no match with two queued players")
	}

	evA, okA := <-chA
	evB, okB := <-chB
	if !okA || !okB {
		t.Fatal("match events missing")
	}
	if evA.GameID != evB.GameID || evA.Color != chess.White || evB.Color != chess.Black {
		t.Errorf("events = %+v %+v", evA, evB)
	}
	if _, ok := <-chA; ok {
		t.Error("channel a left open after delivery")
	}
	game, err := gm.GetGame(evA.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if p := game.GetState().Players; p.White.ID != "a" || p.Black.ID != "b" {
		t.Errorf("players = %+v", p)
	}
}

func TestMatchmakingChannelReplacement(t *testing.T) {
	gm := newGameManager(nil)
	old := make(chan model.MatchFoundEvent, 1)
	gm.RegisterMatchmakingChannel("a", old)
	if err := gm.JoinMatchmaking("a"); err != nil {
		t.Fatal(err)
	}
	fresh := make(chan model.MatchFoundEvent, 1)
	gm.RegisterMatchmakingChannel("a", fresh)
	if _, ok := <-old; ok {
		t.Error("replaced channel not closed")
	}

	// Unregistering the stale channel leaves the player queued.
	gm.UnregisterMatchmakingChannel("a", old)
	if gm.queue.Size() != 1 {
		t.Errorf("queue size = %d", gm.queue.Size())
	}
	gm.UnregisterMatchmakingChannel("a", fresh)
	if gm.queue.Size() != 0 {
		t.Errorf("queue size = %d after leaving", gm.queue.Size())
	}
}

func TestDeleteGame(t *testing.T) {
	store := openStore(t)
	gm := newGameManager(store)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.AddPlayerToGame("g1", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := gm.DeleteGame("g1", "mallory"); !errors.Is(err, model.ErrNotInGame) {
		t.Errorf("err = %v, want ErrNotInGame", err)
	}
	if err := gm.DeleteGame("g1", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.GetGame("g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestCandidateMovesThroughService(t *testing.T) {
	gs := NewGameService(newGameManager(nil))
	id, err := gs.CreateGame()
	if err != nil {
		t.Fatal(err)
	}
	from, _ := chess.ParseSquare("b1")
	moves, err := gs.CandidateMoves(id, from)
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 {
		t.Errorf("b1 candidates = %+v", moves)
	}
}

func TestPersistKeepsLatestPosition(t *testing.T) {
	store := &hookStore{Storage: openStore(t)}
	gm := newGameManager(store)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"alice", "bob"} {
		if _, err := gm.AddPlayerToGame("g1", p); err != nil {
			t.Fatal(err)
		}
	}
	game, err := gm.GetGame("g1")
	if err != nil {
		t.Fatal(err)
	}

	// While white's save is in flight, black replies.
	reply := mustMove(t, "e7", "e5")
	done := make(chan error, 1)
	store.setHook(func() {
		go func() { done <- gm.MakeMove("g1", "bob", reply) }()
		deadline := time.Now().Add(time.Second)
		for strings.Contains(game.FEN(), " b ") && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	})
	if err := gm.MakeMove("g1", "alice", mustMove(t, "e2", "e4")); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatalf("reply: %v", err)
	}

	rec, err := store.LoadGame("g1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.FEN != game.FEN() {
		t.Errorf("stored FEN = %s, game at %s", rec.FEN, game.FEN())
	}
}
