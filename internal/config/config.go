// Package config loads server settings from the environment.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Redis holds the optional run-history backend settings. An empty Addr
// means history is kept in memory.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB, default=0"`
}

// Server configures `chime serve`.
type Server struct {
	ListenAddr string        `env:"LISTEN_ADDR, default=:8080"`
	LogLevel   string        `env:"LOG_LEVEL, default=info"`
	HistoryTTL time.Duration `env:"HISTORY_TTL, default=168h"`
	Redis      Redis         `env:",prefix=REDIS_"`
}

// LoadServer reads the server configuration from CHIME_* variables.
func LoadServer(ctx context.Context) (Server, error) {
	var cfg Server
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper("CHIME_", envconfig.OsLookuper()),
	})
	return cfg, err
}
