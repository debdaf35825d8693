package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// It exits when a required variable is missing.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// Parse is Load without the exit.
func Parse() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel onto a logger level, falling back to info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", c.LogLevel)
		return log.InfoLevel
	}
	return level
}
