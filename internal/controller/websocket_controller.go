package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/branchchess-backend/internal/service"
	"github.com/benbeisheim/branchchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      zerolog.Logger
}

func NewWebSocketController(gameService *service.GameService, logger zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	logger := wsc.logger.With().Str("game", gameID).Str("player", playerID).Logger()

	game, err := wsc.gameService.Game(gameID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		c.Close()
		return
	}
	if err := game.RegisterConnection(playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		c.Close()
		return
	}
	defer game.UnregisterConnection(playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("parse error")
			game.SendError(c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			logger.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			game.SendError(c, err.Error())
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var p ws.SelectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		return wsc.gameService.Select(gameID, playerID, p.Square)

	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		return wsc.gameService.Promote(gameID, playerID, p.Kind)

	case ws.MessageTypeTakeback:
		return wsc.gameService.Takeback(gameID, playerID)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
