package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/assistant/openai"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultProfilePath = ".assistant.yaml"
	defaultCacheDir    = ".assistant"
)

// profile is the optional YAML file holding per-project settings.
type profile struct {
	BaseURL      string    `yaml:"base_url"`
	Version      string    `yaml:"version"`
	Organization string    `yaml:"organization"`
	AssistantID  string    `yaml:"assistant_id"`
	Model        string    `yaml:"model"`
	Instructions string    `yaml:"instructions"`
	CacheDir     string    `yaml:"cache_dir"`
	Workspace    string    `yaml:"workspace"`
	Parallel     int       `yaml:"parallel"`
	Log          logConfig `yaml:"log"`
}

type logConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty discards
}

// loadProfile reads the profile at path. A missing default profile yields
// the zero profile; a missing explicit one is an error.
func loadProfile(path string) (profile, error) {
	var p profile
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && path == defaultProfilePath:
		return p, nil
	default:
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// loadEnv loads a dotenv file into the process environment without
// overriding variables that are already set. A missing default file is
// ignored.
func loadEnv(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// flags holds command-line values. Empty strings and zero mean unset.
type flags struct {
	threadID     string
	assistantID  string
	model        string
	instructions string
	apiKey       string
	workspace    string
	parallel     int
}

// config is the resolved configuration.
type config struct {
	client       openai.Config
	threadID     string
	assistantID  string
	model        string
	instructions string
	cacheDir     string
	workspace    string
	parallel     int
	log          logConfig
}

// resolveConfig merges flags, environment and profile, in that order of
// precedence. getenv is passed in so tests need not touch the process
// environment.
func resolveConfig(f flags, p profile, getenv func(string) string) (config, error) {
	cfg := config{
		client: openai.Config{
			APIKey:         first(f.apiKey, getenv("OPENAI_API_KEY")),
			BaseURL:        first(getenv("OPENAI_BASE_URL"), p.BaseURL),
			Version:        p.Version,
			OrganizationID: first(getenv("OPENAI_ORGANIZATION"), p.Organization),
		},
		threadID:     f.threadID,
		assistantID:  first(f.assistantID, getenv("OPENAI_ASSISTANT_ID"), p.AssistantID),
		model:        first(f.model, p.Model),
		instructions: first(f.instructions, p.Instructions),
		cacheDir:     first(p.CacheDir, defaultCacheDir),
		workspace:    first(f.workspace, p.Workspace, "."),
		parallel:     p.Parallel,
		log:          p.Log,
	}
	if f.parallel != 0 {
		cfg.parallel = f.parallel
	}
	if cfg.client.APIKey == "" {
		return config{}, errors.New("no API key found: set OPENAI_API_KEY or pass -api-key")
	}
	if cfg.assistantID == "" {
		return config{}, errors.New("no assistant: set OPENAI_ASSISTANT_ID, assistant_id in the profile, or pass -assistant")
	}
	if cfg.parallel < 0 {
		return config{}, fmt.Errorf("parallel must not be negative, got %d", cfg.parallel)
	}
	return cfg, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newLogger builds the logger described by c. The TUI owns the terminal,
// so logs only go to a file. The returned close function releases it.
func newLogger(c logConfig) (*slog.Logger, func() error, error) {
	if c.File == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	var level slog.Level
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(c.Format) {
	case "", "text":
		h = slog.NewTextHandler(f, opts)
	case "json":
		h = slog.NewJSONHandler(f, opts)
	default:
		f.Close()
		return nil, nil, fmt.Errorf("unknown log format %q", c.Format)
	}
	return slog.New(h), f.Close, nil
}
