package server

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/sage/internal/board"
	"github.com/hailam/sage/internal/game"
	"github.com/hailam/sage/internal/storage"
)

// ErrGameNotFound is returned for an unknown game id.
var ErrGameNotFound = errors.New("game not found")

// Recorder persists finished games.
type Recorder interface {
	RecordGame(rec *storage.GameRecord) error
}

// session is one hosted game. Its mutex serializes moves on the game.
type session struct {
	mu       sync.Mutex
	id       string
	game     *game.Game
	autoplay game.Policy
	created  time.Time
	recorded bool
}

// Manager hosts games in memory, keyed by UUID.
type Manager struct {
	games    map[string]*session
	mu       sync.RWMutex
	recorder Recorder
	logger   *log.Logger
}

// NewManager creates an empty manager. recorder may be nil.
func NewManager(recorder Recorder, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		games:    make(map[string]*session),
		recorder: recorder,
		logger:   logger,
	}
}

// Create starts a game from the standard position. seed drives the game's
// autoplay policy; zero seeds from the clock.
func (gm *Manager) Create(seed int64) (GameView, error) {
	return gm.CreateFrom(board.NewPosition(), seed)
}

// CreateFrom starts a game from pos, which must pass Validate.
func (gm *Manager) CreateFrom(pos *board.Position, seed int64) (GameView, error) {
	if err := pos.Validate(); err != nil {
		return GameView{}, err
	}

	s := &session{
		id:       uuid.New().String(),
		game:     game.New(pos),
		autoplay: game.NewRandomPolicy(seed),
		created:  time.Now(),
	}

	gm.mu.Lock()
	gm.games[s.id] = s
	gm.mu.Unlock()

	gm.logger.Printf("Game %s created", s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	return newGameView(s), nil
}

func (gm *Manager) get(id string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, ok := gm.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// View returns the current view of a game.
func (gm *Manager) View(id string) (GameView, error) {
	s, err := gm.get(id)
	if err != nil {
		return GameView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return newGameView(s), nil
}

// Play applies the legal move at index.
func (gm *Manager) Play(id string, index int) (GameView, error) {
	s, err := gm.get(id)
	if err != nil {
		return GameView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.game.Play(index); err != nil {
		return GameView{}, err
	}
	gm.finish(s)
	return newGameView(s), nil
}

// Autoplay lets the game's random policy move for the side to move.
func (gm *Manager) Autoplay(ctx context.Context, id string) (GameView, error) {
	s, err := gm.get(id)
	if err != nil {
		return GameView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.State().IsTerminal() {
		return GameView{}, game.ErrGameOver
	}
	idx, err := s.autoplay.Decide(ctx, s.game.Current(), s.game.LegalMoves())
	if err != nil {
		return GameView{}, err
	}
	if _, err := s.game.Play(idx); err != nil {
		return GameView{}, err
	}
	gm.finish(s)
	return newGameView(s), nil
}

// Len returns the number of hosted games.
func (gm *Manager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// finish records a game once it is decided. s.mu must be held.
func (gm *Manager) finish(s *session) {
	g := s.game
	if !g.State().IsTerminal() || s.recorded {
		return
	}
	s.recorded = true
	gm.logger.Printf("Game %s finished: %v (%s) after %d plies", s.id, g.State(), g.EndReason(), g.Ply())

	if gm.recorder == nil {
		return
	}
	rec := storage.NewRecord("server", "api", "api", &game.Result{
		Game:     g,
		State:    g.State(),
		Reason:   g.EndReason(),
		Plies:    g.Ply(),
		Duration: time.Since(s.created),
	})
	rec.ID = s.id
	if err := gm.recorder.RecordGame(rec); err != nil {
		gm.logger.Printf("Game %s: failed to record: %v", s.id, err)
	}
}
