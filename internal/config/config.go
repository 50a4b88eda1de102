package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the bot's process configuration, read from the environment with
// an optional .env file on top.
type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required"`
	Prefix       string   `env:"PREFIX" envDefault:"!"`
	OwnerIDs     []string `env:"OWNER_IDS" envSeparator:","`
	StoragePath  string   `env:"STORAGE_PATH" envDefault:"data/dispatchkit.json"`
	SyncCommands bool     `env:"SYNC_COMMANDS" envDefault:"true"`
}

// New loads configuration from .env (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
