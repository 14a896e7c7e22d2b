package controller

import (
	"github.com/benbeisheim/branchchess-backend/internal/assets"
	"github.com/benbeisheim/branchchess-backend/internal/middleware"
	"github.com/benbeisheim/branchchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

// Register mounts the REST, WebSocket and asset routes on app.
func Register(app *fiber.App, gameService *service.GameService, store *assets.Store, origins []string, logger zerolog.Logger) {
	gameController := NewGameController(gameService, logger)
	wsController := NewWebSocketController(gameService, logger)
	assetController := NewAssetController(store)

	exists := func(gameID string) bool {
		_, err := gameService.Game(gameID)
		return err == nil
	}

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(exists), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/games", gameController.ListGames)
	api.Get("/help", gameController.Help)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/select", gameController.Select)
	gameRoutes.Post("/:gameId/promote", gameController.Promote)
	gameRoutes.Post("/:gameId/takeback", gameController.Takeback)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)

	app.Get("/assets/:name", assetController.GetImage)
}
