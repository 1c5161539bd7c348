// Package config loads the application configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
)

// ErrPlaceholderURI is returned (wrapped) when the configured connection
// string still contains template placeholder tokens.
var ErrPlaceholderURI = errors.New("connection string contains placeholder tokens")

// placeholderTokens are literal template fragments that mark a connection
// string as never having been filled in.
var placeholderTokens = []string{"<username>", "<password>", "<cluster>"}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MongoDBConfig describes the secondary document store. URI may be given
// directly or by naming an environment variable holding it (URIEnv).
type MongoDBConfig struct {
	URI         string            `mapstructure:"uri"`
	URIEnv      string            `mapstructure:"uri_env"`
	Database    string            `mapstructure:"database"`
	Collections map[string]string `mapstructure:"collections"`
}

type SyncConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	BatchSize      int `mapstructure:"batch_size"`
}

// Load reads and parses the YAML configuration at path. A missing or
// unparsable file is a fatal configuration error for the caller to report.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("sqlite.path", "data/finbuddy.db")
	v.SetDefault("mongodb.uri_env", "MONGODB_URI")
	v.SetDefault("mongodb.database", "finbuddy")
	v.SetDefault("sync.timeout_seconds", 5)
	v.SetDefault("sync.batch_size", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		SQLite:  SQLiteConfig{Path: "data/finbuddy.db"},
		MongoDB: MongoDBConfig{URIEnv: "MONGODB_URI", Database: "finbuddy"},
		Sync:    SyncConfig{TimeoutSeconds: 5, BatchSize: 100},
	}
}

// ResolveURI picks the MongoDB connection string: an explicit override wins,
// then the named environment variable, then the configured uri. A string
// still carrying placeholder tokens is treated as unset and rejected.
func (c *MongoDBConfig) ResolveURI(override string) (string, error) {
	uri := strings.TrimSpace(override)
	if uri == "" && c.URIEnv != "" {
		uri = strings.TrimSpace(os.Getenv(c.URIEnv))
	}
	if uri == "" {
		uri = strings.TrimSpace(c.URI)
	}
	if uri == "" {
		return "", fmt.Errorf("no MongoDB connection string configured")
	}
	for _, token := range placeholderTokens {
		if strings.Contains(uri, token) {
			return "", fmt.Errorf("%w: %s", ErrPlaceholderURI, token)
		}
	}
	return uri, nil
}

// Configured reports whether a connection string is plausibly available,
// without resolving environment variables.
func (c *MongoDBConfig) Configured() bool {
	if strings.TrimSpace(c.URI) != "" {
		return true
	}
	return c.URIEnv != "" && strings.TrimSpace(os.Getenv(c.URIEnv)) != ""
}

// CollectionNames maps the logical collection roles onto concrete names,
// falling back to the defaults for roles the config does not override.
func (c *MongoDBConfig) CollectionNames() mirror.Collections {
	colls := mirror.DefaultCollections()
	for role, name := range c.Collections {
		if strings.TrimSpace(name) == "" {
			continue
		}
		switch role {
		case "expenses":
			colls.Expenses = name
		case "incomes":
			colls.Incomes = name
		case "users":
			colls.Users = name
		case "bills":
			colls.Bills = name
		case "bill_items":
			colls.BillItems = name
		case "transactions":
			colls.Transactions = name
		case "history":
			colls.History = name
		}
	}
	return colls
}

// SyncTimeout returns the propagation timeout as a duration.
func (c *SyncConfig) SyncTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
