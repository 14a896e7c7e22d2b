package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/assets"
	"github.com/benbeisheim/branchchess-backend/internal/config"
	"github.com/benbeisheim/branchchess-backend/internal/controller"
	"github.com/benbeisheim/branchchess-backend/internal/search"
	"github.com/benbeisheim/branchchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(func(c *fiber.Ctx) error {
		logger.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("incoming request")
		return c.Next()
	})

	// Initialize services
	searchCfg := search.DefaultConfig()
	searchCfg.Depth = cfg.SearchDepth
	searchCfg.EndgameDepth = cfg.EndgameDepth
	searchCfg.EndgamePieces = cfg.EndgamePieces
	searchCfg.Workers = cfg.Workers

	gameManager := service.NewGameManager(logger)
	gameService := service.NewGameService(gameManager, service.Options{
		ClockTime: cfg.ClockTime,
		Search:    searchCfg,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gameManager.WatchClocks(ctx, time.Second)

	controller.Register(app, gameService, assets.NewStore(cfg.AssetsDir, logger), cfg.Origins, logger)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
