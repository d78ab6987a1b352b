// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameStore persists session snapshots. *storage.Storage implements it.
type GameStore interface {
	SaveGame(rec storage.GameRecord) error
	LoadGame(id string) (storage.GameRecord, error)
	ListGames() ([]storage.GameRecord, error)
	DeleteGame(id string) error
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	store            GameStore
	mu               sync.RWMutex
}

// NewGameManager starts the matchmaking processor, which runs until ctx
// is cancelled. store may be nil.
func NewGameManager(ctx context.Context, store GameStore, interval time.Duration) *GameManager {
	gm := newGameManager(store)
	go gm.processMatchmaking(ctx, interval)
	return gm
}

func newGameManager(store GameStore) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		store:            store,
	}
}

// Restore loads every stored game into memory and returns how many it
// restored. Records that no longer parse are skipped.
func (gm *GameManager) Restore() (int, error) {
	if gm.store == nil {
		return 0, nil
	}
	records, err := gm.store.ListGames()
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	restored := 0
	for _, rec := range records {
		game, err := model.RestoreGame(rec.ID, rec.FEN, rec.White, rec.Black)
		if err != nil {
			log.Printf("skipping stored game %s: %v", rec.ID, err)
			continue
		}
		gm.games[rec.ID] = game
		restored++
	}
	return restored, nil
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// A newer registration replaces the old one; closing the old channel
	// releases whoever is waiting on it.
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel drops ch if it is still the player's
// registration and takes the player out of the queue. The channel is not
// closed here; its creator owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

func (gm *GameManager) processMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest-waiting players into a new game. It
// reports whether a pair was found.
func (gm *GameManager) matchOnce() bool {
	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Printf("matchmaking: seat %s: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Printf("matchmaking: seat %s: %v", player2.ID, err)
		return true
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	sent1 := gm.sendMatchFound(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := gm.sendMatchFound(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	gm.mu.Unlock()

	if !sent1 || !sent2 {
		log.Printf("matchmaking: game %s created but not every player was notified", gameID)
	}
	gm.persist(game)
	return true
}

// sendMatchFound delivers event and retires the player's channel. Callers
// hold gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)
	select {
	case ch <- event:
		log.Printf("matchmaking: player %s matched into game %s", playerID, event.GameID)
		return true
	default:
		return false
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return ErrGameExists
	}
	game := model.NewGame(gameID)
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.persist(game)
	return nil
}

// GetGame looks the game up in memory, then in the store.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	rec, err := gm.store.LoadGame(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	restored, err := model.RestoreGame(rec.ID, rec.FEN, rec.White, rec.Black)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = restored
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}
	color, err := game.AddPlayer(playerID)
	if err != nil {
		return color, err
	}
	gm.persist(game)
	return color, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) CandidateMoves(gameID string, from chess.Square) ([]model.Candidate, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.CandidateMoves(from)
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.persist(game)
	return nil
}

// DeleteGame removes a game from memory and the store. Only a seated
// player may delete it.
func (gm *GameManager) DeleteGame(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if gm.store != nil {
		if err := gm.store.DeleteGame(gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	return nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// persist saves a snapshot; failures are logged, not returned, since the
// in-memory game is already authoritative.
func (gm *GameManager) persist(game *model.Game) {
	if gm.store == nil {
		return
	}
	err := game.Persist(func(rec model.Record) error {
		return gm.store.SaveGame(storage.GameRecord{
			ID:    game.ID,
			FEN:   rec.FEN,
			White: rec.White,
			Black: rec.Black,
		})
	})
	if err != nil {
		log.Printf("game %s: persist: %v", game.ID, err)
	}
}
