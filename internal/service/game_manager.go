// service/game_manager.go
package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameManager is the registry of running sessions.
type GameManager struct {
	games  map[string]*model.Game
	mu     sync.RWMutex
	logger zerolog.Logger
}

func NewGameManager(logger zerolog.Logger) *GameManager {
	return &GameManager{
		games:  make(map[string]*model.Game),
		logger: logger,
	}
}

func (gm *GameManager) AddGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return ErrGameExists
	}
	gm.games[game.ID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// GameIDs lists the registered games in sorted order.
func (gm *GameManager) GameIDs() []string {
	gm.mu.RLock()
	ids := maps.Keys(gm.games)
	gm.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (gm *GameManager) snapshot() []*model.Game {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return maps.Values(gm.games)
}

// WatchClocks ends games whose clock ran out, checking every interval until
// ctx is done.
func (gm *GameManager) WatchClocks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.sweepClocks()
		}
	}
}

func (gm *GameManager) sweepClocks() {
	for _, game := range gm.snapshot() {
		if game.CheckFlag() {
			gm.logger.Info().Str("game", game.ID).Msg("flag fell")
		}
	}
}
