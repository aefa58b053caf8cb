// Package config loads crudforge settings from defaults, an optional YAML
// file, a .env file and CRUDFORGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration.
type Config struct {
	Backend    backend.Config
	Log        logging.Config
	DBPath     string
	Offline    bool
	ServerAddr string

	// ActiveDefaults is the is_active value assumed for records that omit
	// it, per tree kind.
	ActiveDefaults map[domain.TreeKind]bool
}

// ActiveDefault returns the configured is_active default for kind.
func (c Config) ActiveDefault(kind domain.TreeKind) bool {
	if v, ok := c.ActiveDefaults[kind]; ok {
		return v
	}
	return true
}

// fileConfig mirrors the YAML file. Pointers distinguish unset keys from
// zero values.
type fileConfig struct {
	Backend struct {
		BaseURL         string `yaml:"base_url"`
		Token           string `yaml:"token"`
		TimeoutMs       *int   `yaml:"timeout_ms"`
		MaxRetries      *int   `yaml:"max_retries"`
		RetryBackoffMs  *int   `yaml:"retry_backoff_ms"`
		HealthPath      string `yaml:"health_path"`
		CacheSize       *int   `yaml:"cache_size"`
		CacheTTLSeconds *int   `yaml:"cache_ttl_seconds"`
	} `yaml:"backend"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	DBPath  string `yaml:"db_path"`
	Offline *bool  `yaml:"offline"`
	Server  struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	ActiveDefaults map[string]*bool `yaml:"active_defaults"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backend:    backend.DefaultConfig(),
		Log:        logging.Config{Level: "info", Format: "console"},
		DBPath:     filepath.Join(homeDir(), "crudforge.db"),
		ServerAddr: ":8080",
		ActiveDefaults: map[domain.TreeKind]bool{
			domain.TreeMenu:    true,
			domain.TreeFeature: true,
			domain.TreeColumn:  true,
		},
	}
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(homeDir(), "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crudforge"
	}
	return filepath.Join(home, ".crudforge")
}

// Load resolves the configuration. An empty path means DefaultPath, which
// may be absent; an explicit path must exist. A .env file in the working
// directory is loaded when present.
func Load(path string) (Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	fc, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return Config{}, err
	default:
		applyFile(&cfg, fc)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	b := &cfg.Backend
	b.BaseURL = orStr(fc.Backend.BaseURL, b.BaseURL)
	b.Token = orStr(fc.Backend.Token, b.Token)
	b.TimeoutMs = orPtr(b.TimeoutMs, fc.Backend.TimeoutMs)
	b.MaxRetries = orPtr(b.MaxRetries, fc.Backend.MaxRetries)
	b.RetryBackoffMs = orPtr(b.RetryBackoffMs, fc.Backend.RetryBackoffMs)
	b.HealthPath = orStr(fc.Backend.HealthPath, b.HealthPath)
	b.CacheSize = orPtr(b.CacheSize, fc.Backend.CacheSize)
	b.CacheTTLSeconds = orPtr(b.CacheTTLSeconds, fc.Backend.CacheTTLSeconds)

	cfg.Log.Level = orStr(fc.Log.Level, cfg.Log.Level)
	cfg.Log.Format = orStr(fc.Log.Format, cfg.Log.Format)
	cfg.Log.OutputPath = orStr(fc.Log.Output, cfg.Log.OutputPath)
	cfg.DBPath = orStr(fc.DBPath, cfg.DBPath)
	cfg.Offline = orPtr(cfg.Offline, fc.Offline)
	cfg.ServerAddr = orStr(fc.Server.Addr, cfg.ServerAddr)

	for name, v := range fc.ActiveDefaults {
		kind, ok := domain.ParseTreeKind(name)
		if !ok {
			continue
		}
		cfg.ActiveDefaults[kind] = orPtr(cfg.ActiveDefaults[kind], v)
	}
}

// applyEnv reads CRUDFORGE_* overrides. Malformed values are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CRUDFORGE_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("CRUDFORGE_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}
	envInt(&cfg.Backend.TimeoutMs, "CRUDFORGE_TIMEOUT_MS", 1)
	envInt(&cfg.Backend.MaxRetries, "CRUDFORGE_MAX_RETRIES", 0)
	envInt(&cfg.Backend.CacheSize, "CRUDFORGE_CACHE_SIZE", 0)
	envInt(&cfg.Backend.CacheTTLSeconds, "CRUDFORGE_CACHE_TTL_SECONDS", 0)
	if v := os.Getenv("CRUDFORGE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CRUDFORGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRUDFORGE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	envBool(&cfg.Offline, "CRUDFORGE_OFFLINE")
	if v := os.Getenv("CRUDFORGE_SERVER_ADDR"); v != "" {
		cfg.ServerAddr = v
	}

	for _, kind := range domain.TreeKinds {
		v := cfg.ActiveDefault(kind)
		envBool(&v, "CRUDFORGE_"+envName(kind)+"_ACTIVE_DEFAULT")
		cfg.ActiveDefaults[kind] = v
	}
}

func envName(kind domain.TreeKind) string {
	switch kind {
	case domain.TreeMenu:
		return "MENU"
	case domain.TreeFeature:
		return "FEATURE"
	case domain.TreeColumn:
		return "COLUMN"
	}
	return string(kind)
}

func envInt(dst *int, name string, min int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n >= min {
		*dst = n
	}
}

func envBool(dst *bool, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

// orStr returns v, or def when v is empty.
func orStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// orPtr returns *p, or def when the key was absent from the file.
func orPtr[T any](def T, p *T) T {
	if p == nil {
		return def
	}
	return *p
}
