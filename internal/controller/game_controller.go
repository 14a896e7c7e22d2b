package controller

import (
	"errors"

	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/benbeisheim/branchchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type GameController struct {
	gameService *service.GameService
	logger      zerolog.Logger
}

func NewGameController(gameService *service.GameService, logger zerolog.Logger) *GameController {
	return &GameController{gameService: gameService, logger: logger}
}

type createRequest struct {
	Opponent string `json:"opponent"`
	Side     string `json:"side"`
	FEN      string `json:"fen"`
}

type selectRequest struct {
	Square string `json:"square"`
}

type promoteRequest struct {
	Kind string `json:"kind"`
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrInvalidSquare),
		errors.Is(err, model.ErrMissingKing):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPromotion):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	opponent, err := model.ParseOpponent(req.Opponent)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	side, err := service.ParseSide(req.Side)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gameID, err := gc.gameService.CreateGame(playerID, opponent, side, req.FEN)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   side,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetView(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) Help(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"help": gc.gameService.Help(),
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"games": gc.gameService.ListGames(),
	})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return gc.respond(c, gc.gameService.Select(c.Params("gameId"), c.Locals("playerID").(string), req.Square))
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return gc.respond(c, gc.gameService.Promote(c.Params("gameId"), c.Locals("playerID").(string), req.Kind))
}

func (gc *GameController) Takeback(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Takeback(c.Params("gameId"), c.Locals("playerID").(string)))
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	return gc.respond(c, gc.gameService.Resign(c.Params("gameId"), c.Locals("playerID").(string)))
}

// respond answers an action with the resulting view.
func (gc *GameController) respond(c *fiber.Ctx, err error) error {
	if err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}
