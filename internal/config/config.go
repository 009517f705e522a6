package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Seed      SeedConfig      `yaml:"seed"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DBConfig selects storage. ":memory:" keeps the board only for the process lifetime.
type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// SeedConfig controls fixture installation into an empty database. An empty
// Path uses the embedded fixture.
type SeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		Seed: SeedConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in increasing precedence.
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CRIAGIL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CRIAGIL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CRIAGIL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRIAGIL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CRIAGIL_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CRIAGIL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CRIAGIL_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("CRIAGIL_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if seed := os.Getenv("CRIAGIL_SEED"); seed != "" {
		enabled, err := strconv.ParseBool(seed)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRIAGIL_SEED: %w", err)
		}
		cfg.Seed.Enabled = enabled
	}
	if seedPath := os.Getenv("CRIAGIL_SEED_PATH"); seedPath != "" {
		cfg.Seed.Path = seedPath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Transport.Mode) {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q: must be stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
