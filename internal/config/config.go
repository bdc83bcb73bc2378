// Package config provides configuration loading for the govledger server.
//
// Values are resolved in layers: defaults, then an optional YAML file, then
// an optional dotenv file, then the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Id policies, mirrored from governance.IDPolicy to keep this package free of
// domain imports.
const (
	IDPolicyCardinality = "cardinality"
	IDPolicySequence    = "sequence"
)

// Config represents the complete server configuration.
type Config struct {
	ListenAddr string           `yaml:"listen_addr"`
	Storage    StorageConfig    `yaml:"storage"`
	Governance GovernanceConfig `yaml:"governance"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
}

// StorageConfig selects and configures the record store.
type StorageConfig struct {
	// Backend is one of sqlite, bolt, memory.
	Backend string `yaml:"backend"`
	// Path is the database file (ignored by the memory backend).
	Path string `yaml:"path"`
	// CacheSize is the number of proposals kept in the LRU. 0 disables it.
	CacheSize int `yaml:"cache_size"`
}

// GovernanceConfig configures the lifecycle engine.
type GovernanceConfig struct {
	// IDPolicy is cardinality (count+1) or sequence (persisted counter).
	IDPolicy string `yaml:"id_policy"`
}

// AuthConfig configures token issuing.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
// JWTSecret is empty on purpose: it must be supplied.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Path:      "./data/govledger.db",
			CacheSize: 1024,
		},
		Governance: GovernanceConfig{
			IDPolicy: IDPolicyCardinality,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// dotenv file at envFile (either may be empty), then the environment.
// Process environment variables win over the dotenv file.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	lookup := os.LookupEnv
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		lookup = overlay(os.LookupEnv, vars)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay consults primary first and falls back to vars.
func overlay(primary func(string) (string, bool), vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("LISTEN_ADDR", &c.ListenAddr)
	str("STORE_BACKEND", &c.Storage.Backend)
	str("DB_PATH", &c.Storage.Path)
	str("ID_POLICY", &c.Governance.IDPolicy)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_SIZE %q: %w", v, err)
		}
		c.Storage.CacheSize = n
	}
	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.Auth.TokenTTL = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for backend %s", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Storage.CacheSize < 0 {
		return fmt.Errorf("storage.cache_size must not be negative")
	}
	switch c.Governance.IDPolicy {
	case IDPolicyCardinality, IDPolicySequence:
	default:
		return fmt.Errorf("unknown governance.id_policy %q", c.Governance.IDPolicy)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	return nil
}
