// Package config loads service configuration from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/advayc/tally/internal/store"
)

// Table names the store namespace for one service.
type Table struct {
	Name         string `yaml:"name"`
	KeyAttribute string `yaml:"keyAttribute"`
}

type Config struct {
	Port       string `yaml:"port"`
	Backend    string `yaml:"backend"`
	RedisURL   string `yaml:"redisURL"`
	SQLitePath string `yaml:"sqlitePath"`
	JWTSecret  string `yaml:"jwtSecret"`
	LogLevel   string `yaml:"logLevel"`
	LogPretty  bool   `yaml:"logPretty"`

	Scoreboard Table `yaml:"scoreboard"`
	Visitors   Table `yaml:"visitors"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:       "8080",
		Backend:    store.BackendDynamoDB,
		SQLitePath: "tally.db",
		LogLevel:   "info",
		Scoreboard: Table{Name: "Scoreboard", KeyAttribute: "userId"},
		Visitors:   Table{KeyAttribute: "id"},
	}
}

// Load reads CONFIG_FILE (if set) over the defaults, then applies
// environment overrides.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getenv("PORT", c.Port)
	c.Backend = strings.ToLower(getenv("STORE_BACKEND", c.Backend))
	c.SQLitePath = getenv("SQLITE_PATH", c.SQLitePath)
	c.JWTSecret = getenv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		c.LogPretty = v == "1" || strings.EqualFold(v, "true")
	}

	c.RedisURL = getenv("REDIS_URL", c.RedisURL)
	if c.RedisURL == "" {
		// host + password pair as handed out by Upstash
		c.RedisURL = buildUpstashRedisURL(os.Getenv("UPSTASH_REDIS_URL"), os.Getenv("UPSTASH_REDIS_PASSWORD"))
	}

	// TABLE_NAME is what each Lambda function is given; the per-service
	// variables let one server process host both.
	c.Scoreboard.Name = getenv("SCOREBOARD_TABLE_NAME", getenv("TABLE_NAME", c.Scoreboard.Name))
	c.Visitors.Name = getenv("VISITOR_TABLE_NAME", getenv("TABLE_NAME", c.Visitors.Name))
}

// Validate checks the settings needed to open stores for the given tables.
func (c Config) Validate(tables ...Table) error {
	var errs []error
	switch c.Backend {
	case store.BackendDynamoDB:
		for _, t := range tables {
			if t.Name == "" {
				errs = append(errs, errors.New("table name is required for the dynamodb backend (set TABLE_NAME)"))
			}
			if t.KeyAttribute == "" {
				errs = append(errs, fmt.Errorf("table %q has no key attribute", t.Name))
			}
		}
	case store.BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis backend needs REDIS_URL or UPSTASH_REDIS_URL and UPSTASH_REDIS_PASSWORD"))
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite backend needs SQLITE_PATH"))
		}
	case store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Backend))
	}
	return errors.Join(errs...)
}

// StoreOptions returns the options for opening the store behind t.
func (c Config) StoreOptions(t Table) store.Options {
	return store.Options{
		Backend:      c.Backend,
		Namespace:    t.Name,
		KeyAttribute: t.KeyAttribute,
		RedisURL:     c.RedisURL,
		SQLitePath:   c.SQLitePath,
	}
}

// getenv returns env var or fallback
func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

// buildUpstashRedisURL normalizes a host/password combo into a rediss:// URL.
func buildUpstashRedisURL(rawHost, password string) string {
	if rawHost == "" || password == "" {
		return ""
	}
	if !strings.HasPrefix(rawHost, "redis://") && !strings.HasPrefix(rawHost, "rediss://") {
		rawHost = "rediss://" + rawHost
	}
	u, err := url.Parse(rawHost)
	if err != nil {
		return ""
	}
	if u.User == nil {
		u.User = url.UserPassword("default", password)
	}
	return u.String()
}
