package service

import (
	"fmt"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/benbeisheim/branchchess-backend/internal/search"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"
)

// Options configures new games.
type Options struct {
	ClockTime time.Duration
	Search    search.Config
	Logger    zerolog.Logger
}

type GameService struct {
	gameManager *GameManager
	opts        Options
}

func NewGameService(gameManager *GameManager, opts Options) *GameService {
	return &GameService{
		gameManager: gameManager,
		opts:        opts,
	}
}

// Help is the how-to-play text shown by clients.
func (gs *GameService) Help() string {
	return fmt.Sprintf("Click one of your pieces, then click a highlighted square to move it. "+
		"Clicking your own piece while the other side thinks queues a premove. "+
		"A pawn reaching the last rank waits for a promotion choice. "+
		"Takeback undoes the last move, and the computer's reply with it. "+
		"Resign ends the game; create a new game to pick another opponent or side. "+
		"Each side has %s on its clock and loses when it runs out.", gs.opts.ClockTime)
}

// ParseSide reads the side the creator plays: white, black or random.
func ParseSide(side string) (model.Polarity, error) {
	switch side {
	case "", "random":
		return model.Polarity(frand.Intn(2)), nil
	}
	return model.ParsePolarity(side)
}

// CreateGame starts a game owned by playerID. fen may be empty for the
// standard starting position.
func (gs *GameService) CreateGame(playerID string, opponent model.Opponent, side model.Polarity, fen string) (string, error) {
	gameID := uuid.New().String()

	searchCfg := gs.opts.Search
	searchCfg.Logger = gs.opts.Logger.With().Str("game", gameID).Logger()
	game, err := model.NewGame(gameID, model.GameConfig{
		Owner:     playerID,
		Opponent:  opponent,
		HumanSide: side,
		ClockTime: gs.opts.ClockTime,
		FEN:       fen,
		Computer:  search.Factory(searchCfg),
		Logger:    gs.opts.Logger,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if err := gs.gameManager.AddGame(game); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	game.Start()

	gs.opts.Logger.Info().
		Str("game", gameID).
		Str("owner", playerID).
		Str("opponent", string(opponent)).
		Str("side", side.String()).
		Msg("game created")
	return gameID, nil
}

func (gs *GameService) GetView(gameID string) (*model.GameView, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.View(), nil
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.GameIDs()
}

func (gs *GameService) Select(gameID, playerID, square string) error {
	loc, err := model.ParseLocation(square)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSquare, err)
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Select(playerID, loc)
}

func (gs *GameService) Promote(gameID, playerID, kind string) error {
	k, err := model.ParseKind(kind)
	if err != nil {
		// unknown kinds promote to a queen
		k = model.Queen
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Promote(playerID, k)
}

func (gs *GameService) Takeback(gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Takeback(playerID)
}

func (gs *GameService) Resign(gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) Game(gameID string) (*model.Game, error) {
	return gs.gameManager.GetGame(gameID)
}
