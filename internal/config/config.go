package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/binword/internal/words"
)

// Config is the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Session  SessionConfig  `yaml:"session"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Game     GameConfig     `yaml:"game"`
}

// ServerConfig HTTP listener settings.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ClientOrigin string `yaml:"client_origin"` // CORS origin allowed to send credentials
	Timeout      int    `yaml:"timeout"`       // per-request timeout (seconds)
}

// LogConfig zerolog settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SessionConfig session cookie settings.
type SessionConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	TTLHours   int    `yaml:"ttl_hours"`
	Secure     bool   `yaml:"secure"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Driver string      `yaml:"driver"` // "memory" or "redis"
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig history database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// GameConfig gameplay constants. An empty Tiers map uses the built-in table.
type GameConfig struct {
	MaxRounds         int                           `yaml:"max_rounds"`
	DefaultDifficulty string                        `yaml:"default_difficulty"`
	Tiers             map[words.Tier]words.TierSpec `yaml:"tiers"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// TimeoutDuration returns the per-request timeout.
func (c *ServerConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Addr returns host:port for the listener.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TTL returns how long a session lives without activity.
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5175
	}
	if c.Server.ClientOrigin == "" {
		c.Server.ClientOrigin = "http://localhost:5173"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Session.Secret == "" {
		c.Session.Secret = "dev_secret_change_me"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "binword_session"
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/binword.db"
	}
	if c.Game.MaxRounds == 0 {
		c.Game.MaxRounds = 5
	}
	if c.Game.DefaultDifficulty == "" {
		c.Game.DefaultDifficulty = string(words.Medium)
	}
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("HOST", &c.Server.Host)
	str("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	str("LOG_LEVEL", &c.Log.Level)
	str("SESSION_SECRET", &c.Session.Secret)
	str("COOKIE_NAME", &c.Session.CookieName)
	str("STORE_DRIVER", &c.Store.Driver)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	str("DB_PATH", &c.Database.Path)
	str("DEFAULT_DIFFICULTY", &c.Game.DefaultDifficulty)
	if v := getenv("NODE_ENV"); v == "production" {
		c.Session.Secure = true
	}

	for key, dst := range map[string]*int{
		"PORT":       &c.Server.Port,
		"REDIS_DB":   &c.Store.Redis.DB,
		"MAX_ROUNDS": &c.Game.MaxRounds,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Game.MaxRounds <= 0 {
		return fmt.Errorf("config: max_rounds must be positive, got %d", c.Game.MaxRounds)
	}
	if _, ok := words.ParseTier(c.Game.DefaultDifficulty); !ok {
		return fmt.Errorf("config: unknown default_difficulty %q", c.Game.DefaultDifficulty)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	return nil
}

// WordTable builds the tier table from Game.Tiers, or returns the
// built-in table when none are configured.
func (c *Config) WordTable() (*words.Table, error) {
	if len(c.Game.Tiers) == 0 {
		return words.DefaultTable()
	}
	return words.NewTable(c.Game.Tiers)
}
