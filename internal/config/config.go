package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	GameHTTPAddr string        `env:"GAME_HTTP_ADDR" envDefault:":5000"`
	GameAPIURL   string        `env:"GAME_API_URL" envDefault:"http://127.0.0.1:5000/"`
	StartLoc     string        `env:"START_LOCATION" envDefault:"EFHK"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir       string        `env:"SPA_DIR"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/flightgame.db"`
	RedisURL     string        `env:"REDIS_URL"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load reads the environment, after merging any of the given dotenv files
// that exist. Variables already set in the environment win.
func Load(dotenv ...string) (*Config, error) {
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
