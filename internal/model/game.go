package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrMoveIgnored   = errors.New("move ignored")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)

// Conn is the subset of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// GameConnections holds the sockets watching one game. The write lock is
// also held while writing so a socket never sees concurrent writers.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game is one session. Its mutex is the single-writer guard: moves are
// applied one at a time and only from the player whose color is to move.
type Game struct {
	ID          string
	mu          sync.Mutex
	saveMu      sync.Mutex
	position    *chess.Position
	players     [2]ClientPlayer
	isCheck     bool
	sound       string
	lastMove    *LastMove
	connections *GameConnections
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	Sound     string                  `json:"sound"`
	Board     BoardState              `json:"boardState"`
	ToMove    chess.Color             `json:"toMove"`
	IsCheck   bool                    `json:"isCheck"`
	Castling  [2]chess.CastlingRights `json:"castling"`
	EnPassant *chess.EnPassantWindow  `json:"enPassant"`
	FEN       string                  `json:"fen"`
	LastMove  *LastMove               `json:"lastMove"`
	Players   Players                 `json:"players"`
}

func NewGame(id string) *Game {
	return newGame(id, chess.NewPosition())
}

// RestoreGame rebuilds a session from a saved position and its players.
func RestoreGame(id, fen, whiteID, blackID string) (*Game, error) {
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	g := newGame(id, pos)
	g.players[chess.White] = ClientPlayer{ID: whiteID, Joined: whiteID != ""}
	g.players[chess.Black] = ClientPlayer{ID: blackID, Joined: blackID != ""}
	g.isCheck = pos.IsInCheck(pos.Turn())
	return g, nil
}

func newGame(id string, pos *chess.Position) *Game {
	return &Game{
		ID:          id,
		position:    pos,
		connections: NewGameConnections(),
	}
}

// AddPlayer seats the player in the first free color. A player already
// seated gets their existing color back.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []chess.Color{chess.White, chess.Black} {
		if !g.players[color].Joined {
			g.players[color] = ClientPlayer{ID: playerID, Joined: true}
			return color, nil
		}
	}
	return chess.White, ErrGameFull
}

func (g *Game) colorOf(playerID string) (chess.Color, bool) {
	for _, color := range []chess.Color{chess.White, chess.Black} {
		if g.players[color].Joined && g.players[color].ID == playerID {
			return color, true
		}
	}
	return chess.White, false
}

func (g *Game) ColorOf(playerID string) (chess.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colorOf(playerID)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	_, ok := g.ColorOf(playerID)
	return ok
}

// CanSpectate is true while a seat is still open.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return !g.players[chess.White].Joined || !g.players[chess.Black].Joined
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position.FEN()
}

// Record is what a store needs to rebuild the session.
type Record struct {
	FEN   string
	White string
	Black string
}

// Persist hands the current record to save. Calls run one at a time and
// each reads the game after the previous save returned, so the last write
// always holds the newest position.
func (g *Game) Persist(save func(Record) error) error {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()

	g.mu.Lock()
	rec := Record{
		FEN:   g.position.FEN(),
		White: g.players[chess.White].ID,
		Black: g.players[chess.Black].ID,
	}
	g.mu.Unlock()
	return save(rec)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() GameState {
	pos := g.position.Clone()
	return GameState{
		Sound:     g.sound,
		Board:     newBoardState(pos),
		ToMove:    pos.Turn(),
		IsCheck:   g.isCheck,
		Castling:  pos.State.Castling,
		EnPassant: pos.State.EnPassant,
		FEN:       pos.FEN(),
		LastMove:  g.lastMove,
		Players: Players{
			White: g.players[chess.White],
			Black: g.players[chess.Black],
		},
	}
}

// CandidateMoves lists the moves for the piece on from. Squares that are
// empty or hold a piece of the side not to move have no candidates.
func (g *Game) CandidateMoves(from chess.Square) ([]Candidate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidates := []Candidate{}
	piece, err := g.position.PieceAt(from)
	if err != nil {
		return nil, err
	}
	if piece.Empty() || piece.Color != g.position.Turn() {
		return candidates, nil
	}
	moves, err := g.position.GenerateMoves(from)
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		candidates = append(candidates, Candidate{From: from, Move: m})
	}
	return candidates, nil
}

// MakeMove applies the move for playerID, passes the turn, refreshes the
// check flag and broadcasts the new state.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.position.Turn() {
		return ErrNotYourTurn
	}

	res, applied, err := g.position.Play(move.From, move.To)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: %s-%s", ErrMoveIgnored, move.From, move.To)
	}

	g.isCheck = g.position.IsInCheck(g.position.Turn())
	g.sound = soundFor(res, g.isCheck)
	g.lastMove = newLastMove(move.From, move.To, res)

	g.broadcastState(g.state())
	return nil
}

func soundFor(res chess.Result, check bool) string {
	switch {
	case check:
		return "check"
	case res.Promoted:
		return "promote"
	case res.Castled():
		return "castle"
	case res.Capture():
		return "capture"
	}
	return "move"
}

// RegisterConnection attaches conn for playerID and sends it the current
// state. A second connection for the same player is closed.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGameLocked(playerID) && !g.canSpectate() {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection and turn the new one away.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	g.broadcastState(g.state())
	return nil
}

func (g *Game) isPlayerInGameLocked(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

// UnregisterConnection removes conn if it is still the player's current one.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Printf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// SendTo writes msg to one player's connection, if any.
func (g *Game) SendTo(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return ErrNotInGame
	}
	return conn.WriteJSON(msg)
}

// broadcastState writes state to every connection. Callers hold g.mu, so
// connections receive states in the order the game produced them.
func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: send state to player %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
