package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store backends understood by Settings.Store.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Settings holds process-level options read from the environment.
type Settings struct {
	LogLevel   string `env:"CLUELESS_LOG_LEVEL" envDefault:"info"`
	ConfigPath string `env:"CLUELESS_CONFIG"`
	Store      string `env:"CLUELESS_STORE" envDefault:"memory"`
	SQLitePath string `env:"CLUELESS_SQLITE_PATH" envDefault:"clueless.db"`
	Seed       int64  `env:"CLUELESS_SEED"`
}

// LoadSettings parses Settings from environment variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	switch s.Store {
	case StoreMemory, StoreSQLite:
	default:
		return Settings{}, fmt.Errorf("unknown store %q", s.Store)
	}
	return s, nil
}

// GameConfig loads the game definition named by ConfigPath, or the
// embedded default when it is empty.
func (s Settings) GameConfig() (*GameConfig, error) {
	if s.ConfigPath == "" {
		return Default(), nil
	}
	return Load(s.ConfigPath)
}
