package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config is the server configuration. Every field can be set by flag, or by
// the environment variable named in its flag's usage text.
type Config struct {
	Addr          string
	Origins       []string
	ClockTime     time.Duration
	SearchDepth   int
	EndgameDepth  int
	EndgamePieces int
	Workers       int
	LogLevel      zerolog.Level
	AssetsDir     string
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		Origins:       []string{"http://localhost:5173"},
		ClockTime:     5 * time.Minute,
		SearchDepth:   3,
		EndgameDepth:  4,
		EndgamePieces: 9,
		Workers:       0,
		LogLevel:      zerolog.InfoLevel,
		AssetsDir:     "assets",
	}
}

// Load reads flags from args, falling back to the environment and then to
// the defaults.
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (Config, error) {
	def := Default()
	env := func(name, fallback string) string {
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		return fallback
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", env("CHESS_ADDR", def.Addr), "listen address (CHESS_ADDR)")
	origins := fs.String("origins", env("CHESS_ORIGINS", strings.Join(def.Origins, ",")), "comma separated CORS origins (CHESS_ORIGINS)")
	clock := fs.String("clock-minutes", env("CHESS_CLOCK_MINUTES", "5"), "minutes per side (CHESS_CLOCK_MINUTES)")
	depth := fs.String("depth", env("CHESS_SEARCH_DEPTH", strconv.Itoa(def.SearchDepth)), "search depth (CHESS_SEARCH_DEPTH)")
	endgameDepth := fs.String("endgame-depth", env("CHESS_ENDGAME_DEPTH", strconv.Itoa(def.EndgameDepth)), "endgame search depth (CHESS_ENDGAME_DEPTH)")
	endgamePieces := fs.String("endgame-pieces", env("CHESS_ENDGAME_PIECES", strconv.Itoa(def.EndgamePieces)), "piece count at which the endgame depth applies (CHESS_ENDGAME_PIECES)")
	workers := fs.String("workers", env("CHESS_WORKERS", strconv.Itoa(def.Workers)), "search branches, 0 for one per piece (CHESS_WORKERS)")
	level := fs.String("log-level", env("CHESS_LOG_LEVEL", def.LogLevel.String()), "debug, info, warn or error (CHESS_LOG_LEVEL)")
	assets := fs.String("assets", env("CHESS_ASSETS", def.AssetsDir), "piece image directory (CHESS_ASSETS)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{Addr: *addr, AssetsDir: *assets}
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Origins = append(cfg.Origins, o)
		}
	}

	var errs []error
	number := func(name, value string) int {
		n, err := strconv.Atoi(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return 0
		}
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %d", name, n))
		}
		return n
	}
	minutes := number("clock-minutes", *clock)
	cfg.ClockTime = time.Duration(minutes) * time.Minute
	cfg.SearchDepth = number("depth", *depth)
	cfg.EndgameDepth = number("endgame-depth", *endgameDepth)
	cfg.EndgamePieces = number("endgame-pieces", *endgamePieces)
	cfg.Workers = number("workers", *workers)
	if minutes == 0 && len(errs) == 0 {
		errs = append(errs, errors.New("clock-minutes: must be at least 1"))
	}

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		errs = append(errs, fmt.Errorf("log-level: %w", err))
	}
	cfg.LogLevel = lvl

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
