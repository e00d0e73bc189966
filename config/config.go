package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"supercollab/logutils"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "./etc/config.yaml"
	DefaultProgramID  = "95g7UEjtYL7zguPZztyAi5cpRhmHHTk328dyWCjT2S7T"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type ServerConfig struct {
	Addr         string   `yaml:"addr" env:"SERVER_ADDR"`
	RateLimit    float64  `yaml:"rateLimit" env:"SERVER_RATE_LIMIT"` // requests per second per client IP, 0 disables
	RateBurst    int      `yaml:"rateBurst" env:"SERVER_RATE_BURST"`
	AllowOrigins []string `yaml:"allowOrigins" env:"SERVER_ALLOW_ORIGINS" envSeparator:","`
}

type ProgramConfig struct {
	ID string `yaml:"id" env:"PROGRAM_ID"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER"` // memory | postgres
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	SSLMode  string `yaml:"sslmode" env:"POSTGRES_SSLMODE"`
	TimeZone string `yaml:"TimeZone" env:"POSTGRES_TIMEZONE"`
}

// DSN is the libpq connection string for these settings.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode, p.TimeZone)
}

// RedisConfig enables event publishing when Addr is set.
type RedisConfig struct {
	Addr          string `yaml:"addr" env:"REDIS_ADDR"`
	Password      string `yaml:"password" env:"REDIS_PASSWORD"`
	DB            int    `yaml:"db" env:"REDIS_DB"`
	ChannelPrefix string `yaml:"channelPrefix" env:"REDIS_CHANNEL_PREFIX"`
}

type AuthConfig struct {
	AccessTokenSecret  string        `yaml:"accessTokenSecret" env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `yaml:"refreshTokenSecret" env:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `yaml:"accessTokenTTL" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `yaml:"refreshTokenTTL" env:"REFRESH_TOKEN_TTL"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Program  ProgramConfig  `yaml:"program"`
	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

// initConfig reads the file named by CONFIG_PATH, or ./etc/config.yaml.
// The process cannot start without a valid configuration.
func initConfig() *Config {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		logutils.Log.Debug("no .env file loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := Load(configPath)
	if err != nil {
		logutils.Log.Error("init config", err)
		panic(err)
	}
	return cfg
}

// Default is the configuration used when no file or variable overrides a field.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			RateLimit:    20,
			RateBurst:    40,
			AllowOrigins: []string{"*"},
		},
		Program: ProgramConfig{ID: DefaultProgramID},
		Store:   StoreConfig{Driver: StoreMemory},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			DBName:   "supercollab",
			User:     "postgres",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load layers the YAML file at path (skipped when missing) and environment
// variables over Default, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := readConfig(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		logutils.Log.Warnf("config file %s not found, using defaults", path)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Program.ID == "" {
		return fmt.Errorf("program.id is required")
	}
	switch c.Store.Driver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("store.driver %q: want %s or %s", c.Store.Driver, StoreMemory, StorePostgres)
	}
	if c.Auth.AccessTokenSecret == "" {
		return fmt.Errorf("auth.accessTokenSecret is required")
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth token TTLs must be positive")
	}
	return nil
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}
