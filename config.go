package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"accessbench/bench"
	"accessbench/store"

	"github.com/caarlos0/env/v11"
)

// DBConfig holds the connection parts used when no DSN is given.
type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
}

func (c DBConfig) conn(d store.Dialect) bench.ConnConfig {
	port := c.Port
	if port == 0 {
		switch d.Name {
		case store.MySQL.Name:
			port = 3306
		default:
			port = 5432
		}
	}
	return bench.ConnConfig{
		Host:     c.Host,
		Port:     port,
		User:     c.User,
		Password: c.Password,
		Database: c.Name,
	}
}

// Config is read from BENCH_* variables once at startup. Flags override it.
type Config struct {
	Dialect     string   `env:"DIALECT" envDefault:"postgres"`
	DatabaseURL string   `env:"DATABASE_URL"`
	DB          DBConfig `envPrefix:"DB_"`

	RESTURL     string        `env:"REST_URL"`
	RESTKey     string        `env:"REST_KEY"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	Paths        []string `env:"PATHS" envSeparator:","`
	RowLimit     int      `env:"ROW_LIMIT" envDefault:"100"`
	ReadRepeats  int      `env:"READ_REPEATS" envDefault:"1"`
	WriteRepeats int      `env:"WRITE_REPEATS" envDefault:"1"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"0s"`
	RedisURL string        `env:"REDIS_URL"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// AsyncCleanup shortens wall time at the cost of timing purity: a
	// path's cleanup can overlap the next path's timed write.
	AsyncCleanup bool `env:"ASYNC_CLEANUP"`

	JSON bool
}

// LoadConfig parses environ, a KEY=value map, into a Config.
func LoadConfig(environ map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      "BENCH_",
		Environment: environ,
	})
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := store.ParseDialect(c.Dialect); err != nil {
		return err
	}
	if c.RowLimit < 1 {
		return fmt.Errorf("row limit must be positive, got %d", c.RowLimit)
	}
	if c.ReadRepeats < 0 || c.WriteRepeats < 0 {
		return errors.New("repeat counts must not be negative")
	}
	if c.ReadRepeats == 0 && c.WriteRepeats == 0 {
		return errors.New("nothing to run: both repeat counts are zero")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// DSN returns the database URL, building it from the DB_* parts when none
// was given. sqlite has no parts and needs an explicit path.
func (c Config) DSN(d store.Dialect) (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	switch d.Name {
	case store.Postgres.Name:
		return store.PostgresDSN(c.DB.conn(d), "disable"), nil
	case store.MySQL.Name:
		return store.MySQLDSN(c.DB.conn(d)), nil
	}
	return "", fmt.Errorf("%s needs BENCH_DATABASE_URL", d.Name)
}

func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

func (c Config) Params() bench.Params {
	return bench.Params{
		RowLimit:     c.RowLimit,
		ReadRepeats:  c.ReadRepeats,
		WriteRepeats: c.WriteRepeats,
	}
}
