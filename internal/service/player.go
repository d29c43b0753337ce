package service

import (
	"sync"

	"github.com/playmesh/connectfour-backend/internal/entity"
)

// PlayerService is the live player registry: exactly one entry per registered
// connection, created on a confirmed room join and removed on disconnect.
type PlayerService struct {
	mu      sync.Mutex
	players map[string]*entity.Player
}

func NewPlayerService() *PlayerService {
	return &PlayerService{
		players: make(map[string]*entity.Player),
	}
}

// Register - inserts or replaces the registry entry for the connection.
func (that *PlayerService) Register(player *entity.Player) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = player
}

// GetByID - returns a copy of the entry, so callers never share registry state.
func (that *PlayerService) GetByID(id string) (*entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, false
	}

	copied := *player

	return &copied, true
}

// Remove - deletes the entry and returns it; ok is false when the connection
// was never registered, which makes disconnect idempotent.
func (that *PlayerService) Remove(id string) (*entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, false
	}

	delete(that.players, id)

	return player, true
}

// Count - number of registered connections.
func (that *PlayerService) Count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players)
}
