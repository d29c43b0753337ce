package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/entity"
)

// GameService owns the active-game table. Every read-modify-write of a game
// runs under that game's own lock, held across the whole validate-mutate-
// broadcast sequence; games never block each other.
type GameService struct {
	logger    *slog.Logger
	retention time.Duration

	mu    sync.Mutex
	games map[string]*gameEntry
}

type gameEntry struct {
	mu   sync.Mutex
	game *entity.Game

	// cleanupOnce guards the retention timer: armed exactly once when the
	// game ends, never rearmed by later traffic in the room.
	cleanupOnce sync.Once
}

func NewGameService(logger *slog.Logger, retention time.Duration) *GameService {
	return &GameService{
		logger:    logger.With("component", "games"),
		retention: retention,
		games:     make(map[string]*gameEntry),
	}
}

// WithGame - runs fn under the game's lock, creating the game lazily on first
// use for that room.
func (that *GameService) WithGame(gameID string, fn func(game *entity.Game) error) error {
	entry := that.entry(gameID, true)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.game)
}

// WithExistingGame - like WithGame but fails when no game exists for the room.
func (that *GameService) WithExistingGame(gameID string, fn func(game *entity.Game) error) error {
	entry := that.entry(gameID, false)
	if entry == nil {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameNotFound, gameID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.game)
}

// ScheduleCleanup - arms the one-shot deletion timer for a finished game. The
// timer closure is the only reference keeping the entry reachable after the
// table drops it.
func (that *GameService) ScheduleCleanup(gameID string) {
	entry := that.entry(gameID, false)
	if entry == nil {
		return
	}

	entry.cleanupOnce.Do(func() {
		time.AfterFunc(that.retention, func() {
			that.delete(gameID)
		})

		that.logger.Info("game cleanup scheduled", "gameID", gameID, "retention", that.retention)
	})
}

func (that *GameService) entry(gameID string, create bool) *gameEntry {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[gameID]
	if !ok && create {
		entry = &gameEntry{game: entity.NewGame()}
		that.games[gameID] = entry
		that.logger.Info("created new game", "gameID", gameID)
	}

	return entry
}

func (that *GameService) delete(gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.games, gameID)

	that.logger.Info("game deleted", "gameID", gameID)
}
