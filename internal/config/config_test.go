package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, IDPolicyCardinality, cfg.Governance.IDPolicy)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.JWTSecret)

	// No secret, no server.
	assert.Error(t, cfg.Validate())
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "govledger.yaml")
	data := `
listen_addr: ":9090"
storage:
  backend: bolt
  path: /tmp/ledger.bolt
governance:
  id_policy: sequence
auth:
  jwt_secret: from-file
  token_ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/ledger.bolt", cfg.Storage.Path)
	assert.Equal(t, IDPolicySequence, cfg.Governance.IDPolicy)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	// Unset keys keep their defaults.
	assert.Equal(t, 1024, cfg.Storage.CacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(envFrom(map[string]string{
		"LISTEN_ADDR":   ":7000",
		"STORE_BACKEND": "memory",
		"DB_PATH":       "",
		"ID_POLICY":     "sequence",
		"JWT_SECRET":    "from-env",
		"TOKEN_TTL":     "15m",
		"CACHE_SIZE":    "0",
		"LOG_LEVEL":     "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "./data/govledger.db", cfg.Storage.Path, "empty values are ignored")
	assert.Equal(t, IDPolicySequence, cfg.Governance.IDPolicy)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 0, cfg.Storage.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnv_InvalidNumbers(t *testing.T) {
	assert.Error(t, DefaultConfig().applyEnv(envFrom(map[string]string{"CACHE_SIZE": "lots"})))
	assert.Error(t, DefaultConfig().applyEnv(envFrom(map[string]string{"TOKEN_TTL": "forever"})))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "s3cret"
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }},
		{"bolt without path", func(c *Config) { c.Storage.Backend = BackendBolt; c.Storage.Path = "" }},
		{"negative cache", func(c *Config) { c.Storage.CacheSize = -1 }},
		{"unknown id policy", func(c *Config) { c.Governance.IDPolicy = "random" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	memOnly := valid()
	memOnly.Storage.Backend = BackendMemory
	memOnly.Storage.Path = ""
	assert.NoError(t, memOnly.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=from-dotenv\nID_POLICY=sequence\nTEST_ONLY_UNUSED=1\n"), 0o600))

	t.Setenv("ID_POLICY", "cardinality")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
	assert.Equal(t, IDPolicyCardinality, cfg.Governance.IDPolicy, "process env wins")

	_, err = Load("", filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	lookup := overlay(envFrom(map[string]string{"A": "env"}), map[string]string{"A": "file", "B": "file"})

	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "env", v)

	v, ok = lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "file", v)

	_, ok = lookup("C")
	assert.False(t, ok)
}
