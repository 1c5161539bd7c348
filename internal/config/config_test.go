package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
sqlite:
  path: /tmp/test.db
mongodb:
  uri: mongodb://localhost:27017
  database: budget
  collections:
    expenses: spending
    users: members
sync:
  timeout_seconds: 2
  batch_size: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.SQLite.Path)
	assert.Equal(t, "budget", cfg.MongoDB.Database)
	assert.Equal(t, 50, cfg.Sync.BatchSize)

	colls := cfg.MongoDB.CollectionNames()
	assert.Equal(t, "spending", colls.Expenses)
	assert.Equal(t, "members", colls.Users)
	// Roles the config does not override keep their defaults.
	assert.Equal(t, "incomes", colls.Incomes)
	assert.Equal(t, "history", colls.History)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "MONGODB_URI", cfg.MongoDB.URIEnv)
	assert.Equal(t, "finbuddy", cfg.MongoDB.Database)
	assert.Equal(t, 100, cfg.Sync.BatchSize)
}

func TestResolveURI(t *testing.T) {
	cfg := MongoDBConfig{URI: "mongodb://config:27017", URIEnv: "FINBUDDY_TEST_URI"}

	// Flag override wins over everything.
	uri, err := cfg.ResolveURI("mongodb://flag:27017")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://flag:27017", uri)

	// Environment variable wins over the config value.
	t.Setenv("FINBUDDY_TEST_URI", "mongodb://env:27017")
	uri, err = cfg.ResolveURI("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://env:27017", uri)

	// Config value is the last resort.
	t.Setenv("FINBUDDY_TEST_URI", "")
	uri, err = cfg.ResolveURI("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://config:27017", uri)
}

func TestResolveURIRejectsPlaceholders(t *testing.T) {
	tests := []string{
		"mongodb+srv://<username>:pass@cluster0.example.net",
		"mongodb+srv://user:<password>@cluster0.example.net",
		"mongodb+srv://user:pass@<cluster>.example.net",
	}
	for _, uri := range tests {
		cfg := MongoDBConfig{URI: uri}
		_, err := cfg.ResolveURI("")
		assert.ErrorIs(t, err, ErrPlaceholderURI, uri)
	}
}

func TestResolveURIUnset(t *testing.T) {
	cfg := MongoDBConfig{}
	_, err := cfg.ResolveURI("")
	assert.Error(t, err)
}
