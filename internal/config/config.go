package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"manaclock/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	Env  string `yaml:"env"` // "development" or "production"
}

// GameConfig holds the session defaults used until persisted settings
// exist.
type GameConfig struct {
	StartingLife         int    `yaml:"startingLife"`
	ChessClockMinutes    int    `yaml:"chessClockMinutes"`
	ChessClockMode       string `yaml:"chessClockMode"` // standard, fischer or bronstein
	TimeIncrementSeconds int    `yaml:"timeIncrementSeconds"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_FILE), and environment variable overrides, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	game := domain.DefaultGameSettings()
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
			Env:  "development",
		},
		Game: GameConfig{
			StartingLife:         game.StartingLife,
			ChessClockMinutes:    game.ChessClockMinutes,
			ChessClockMode:       string(game.ChessClockMode),
			TimeIncrementSeconds: game.TimeIncrement,
		},
		Storage: StorageConfig{
			DatabasePath: "./data/manaclock.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Env = getEnv("ENV", c.Server.Env)

	c.Game.StartingLife = getEnvInt("STARTING_LIFE", c.Game.StartingLife)
	c.Game.ChessClockMinutes = getEnvInt("CHESS_CLOCK_MINUTES", c.Game.ChessClockMinutes)
	c.Game.ChessClockMode = getEnv("CHESS_CLOCK_MODE", c.Game.ChessClockMode)
	c.Game.TimeIncrementSeconds = getEnvInt("TIME_INCREMENT_SECONDS", c.Game.TimeIncrementSeconds)

	c.Storage.DatabasePath = getEnv("DATABASE_PATH", c.Storage.DatabasePath)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// GameDefaults converts the game section into domain settings, falling
// back to the built-in defaults for invalid values.
func (c *Config) GameDefaults() domain.GameSettings {
	settings := domain.DefaultGameSettings()
	if c.Game.StartingLife > 0 {
		settings.StartingLife = c.Game.StartingLife
	}
	if c.Game.ChessClockMinutes > 0 {
		settings.ChessClockMinutes = c.Game.ChessClockMinutes
	}
	if mode := domain.ClockMode(c.Game.ChessClockMode); mode.IsValid() {
		settings.ChessClockMode = mode
	}
	if c.Game.TimeIncrementSeconds >= 0 {
		settings.TimeIncrement = c.Game.TimeIncrementSeconds
	}
	return settings
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format.
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
