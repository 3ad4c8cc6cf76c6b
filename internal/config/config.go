package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3001"`
	Redis      Redis     `yaml:"redis"`
	NATS       NATS      `yaml:"nats"`
	Room       Room      `yaml:"room"`
	RateLimit  RateLimit `yaml:"rate-limit"`
}

// Redis holds the snapshot mirror settings. The mirror is off unless enabled.
type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"1h"`
	DialTimeout time.Duration `yaml:"dial-timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// NATS holds the event feed settings. An empty URL disables the feed.
type NATS struct {
	URL  string `yaml:"url" env:"NATS_URL" env-default:""`
	Name string `yaml:"name" env:"NATS_NAME" env-default:"baduk-backend"`
}

type Room struct {
	WaitingTTL  time.Duration `yaml:"waiting-ttl" env:"ROOM_WAITING_TTL" env-default:"10m"`
	FinishedTTL time.Duration `yaml:"finished-ttl" env:"ROOM_FINISHED_TTL" env-default:"30s"`
}

type RateLimit struct {
	PerSecond float64 `yaml:"per-second" env:"RATE_LIMIT_PER_SECOND" env-default:"10"`
	Burst     int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

const defaultPath = "config.yml"

// Path - returns CONFIG_PATH when set, config.yml in the working directory otherwise.
func Path() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	return defaultPath
}

// Load - reads path and applies environment overrides on top of it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// SlogLevel - parses log-level the way slog names levels, so "warn" and "DEBUG+2" both work.
func (that *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: %w", that.LogLevel, err)
	}

	return level, nil
}
