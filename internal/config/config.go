package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	RoomCodeLength int    `env:"ROOM_CODE_LENGTH" envDefault:"5"`
	MaxPlayers     int    `env:"MAX_PLAYERS" envDefault:"10"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:""`
	WordsFile      string `env:"WORDS_FILE" envDefault:""`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
