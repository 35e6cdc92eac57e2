package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is everything haven needs to reach the backend and write its log.
type Config struct {
	APIURL       string
	Token        string
	Timeout      time.Duration
	PollInterval time.Duration
	LogLevel     string
	LogPath      string
	LogFormat    string // "json" or "text"
}

const (
	defaultConfigPath   = "~/.config/haven/config.toml"
	defaultLogPath      = "~/.local/state/haven/haven.log"
	defaultAPIURL       = "http://127.0.0.1:8080/api"
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 15 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "HAVEN_API_URL"
	EnvToken    = "HAVEN_TOKEN"
	EnvTimeout  = "HAVEN_TIMEOUT"
	EnvLogLevel = "HAVEN_LOG_LEVEL"
	EnvLogPath  = "HAVEN_LOG_PATH"
)

// Load reads the TOML config at path (the default location when empty),
// then applies overrides from the process environment and from .env files in
// the working directory and next to the config file. A missing config file
// yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:       defaultAPIURL,
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
		LogLevel:     defaultLogLevel,
		LogPath:      mustExpand(defaultLogPath),
		LogFormat:    defaultLogFormat,
	}

	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}

	env, err := readDotenv(".env", filepath.Join(filepath.Dir(resolved), ".env"))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "open config")
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	var raw struct {
		APIURL       string `toml:"api_url"`
		Token        string `toml:"token"`
		Timeout      string `toml:"timeout"`
		PollInterval string `toml:"poll_interval"`
		LogLevel     string `toml:"log_level"`
		LogPath      string `toml:"log_path"`
		LogFormat    string `toml:"log_format"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return errors.Wrap(err, "parse config")
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	c.Token = strings.TrimSpace(raw.Token)
	if err := setDuration(&c.Timeout, raw.Timeout, "timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.PollInterval, raw.PollInterval, "poll_interval"); err != nil {
		return err
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		c.LogPath = mustExpand(v)
	}
	switch v := strings.ToLower(strings.TrimSpace(raw.LogFormat)); v {
	case "":
	case "json", "text":
		c.LogFormat = v
	default:
		return errors.Errorf("parse config: log_format %q must be json or text", raw.LogFormat)
	}
	return nil
}

// applyEnv applies overrides. A non-empty process variable wins over the
// .env value.
func (c *Config) applyEnv(dotenv map[string]string) error {
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	}

	if v := lookup(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := lookup(EnvToken); v != "" {
		c.Token = v
	}
	if err := setDuration(&c.Timeout, lookup(EnvTimeout), EnvTimeout); err != nil {
		return err
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := lookup(EnvLogPath); v != "" {
		c.LogPath = mustExpand(v)
	}
	return nil
}

// readDotenv merges the given .env files, earlier files taking precedence.
// Missing files are skipped.
func readDotenv(paths ...string) (map[string]string, error) {
	merged := map[string]string{}
	for i := len(paths) - 1; i >= 0; i-- {
		vals, err := godotenv.Read(paths[i])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "read %s", paths[i])
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	return merged, nil
}

func setDuration(dst *time.Duration, raw, name string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "parse config: %s", name)
	}
	if d <= 0 {
		return errors.Errorf("parse config: %s must be positive, got %s", name, raw)
	}
	*dst = d
	return nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogPath) == "" {
		return filepath.Dir(mustExpand(defaultLogPath))
	}
	return filepath.Dir(c.LogPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
