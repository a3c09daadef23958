package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"multigame.db"`
	Engine            Engine `yaml:"engine"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Engine tunes the session engine.
type Engine struct {
	LockTimeout     time.Duration `yaml:"lock-timeout" env:"ENGINE_LOCK_TIMEOUT" env-default:"2s"`
	AgentDelay      time.Duration `yaml:"agent-delay" env:"ENGINE_AGENT_DELAY" env-default:"250ms"`
	EventChannel    string        `yaml:"event-channel" env:"ENGINE_EVENT_CHANNEL" env-default:"multigame"`
	EventBuffer     int           `yaml:"event-buffer" env:"ENGINE_EVENT_BUFFER" env-default:"256"`
	FinishedGameTTL time.Duration `yaml:"finished-game-ttl" env:"ENGINE_FINISHED_GAME_TTL" env-default:"1h"`
	PenteMode       string        `yaml:"pente-mode" env:"ENGINE_PENTE_MODE" env-default:"CLASSIC"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
