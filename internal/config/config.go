// Package config resolves where the daemon and its clients rendezvous and
// how large their messages may be.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/logging"
	"github.com/merijn/sync-history/internal/protocol"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/sync-history"
	envPrefix  = "SYNC_HISTORY"

	runtimeDirKey        = "runtime_dir"
	historyPathKey       = "history_path"
	cacheCapacityKey     = "cache_capacity"
	maxRequestPayloadKey = "max_request_payload"
	logLevelKey          = "log_level"

	daemonSocketName  = ".sync_history"
	sessionSocketName = ".sync-"
	historyFileName   = ".bash_history_synced"

	// DefaultCacheCapacity matches the historical IOV_MAX bound.
	DefaultCacheCapacity = 1024

	// MaxMessageSize bounds both payload limits so datagrams stay under the
	// default socket send buffer.
	MaxMessageSize = 128 * 1024

	minCacheCapacity = 2

	// maxSocketPath is sizeof(sockaddr_un.sun_path) minus the terminator.
	maxSocketPath = 107
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	RuntimeDir        string `toml:"runtime_dir"`
	HistoryPath       string `toml:"history_path"`
	CacheCapacity     int    `toml:"cache_capacity"`
	MaxRequestPayload uint64 `toml:"max_request_payload"`
	LogLevel          string `toml:"log_level"`
}

// Load reads defaults, then ~/.config/sync-history/config.toml when present,
// then SYNC_HISTORY_* environment variables.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = homeDir
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, configDir))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(runtimeDirKey, runtimeDir)
	v.SetDefault(historyPathKey, filepath.Join(homeDir, historyFileName))
	v.SetDefault(cacheCapacityKey, DefaultCacheCapacity)
	v.SetDefault(maxRequestPayloadKey, protocol.DefaultMaxRequestPayload)
	v.SetDefault(logLevelKey, logging.DefaultLevel.String())

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		RuntimeDir:        v.GetString(runtimeDirKey),
		HistoryPath:       v.GetString(historyPathKey),
		CacheCapacity:     v.GetInt(cacheCapacityKey),
		MaxRequestPayload: v.GetUint64(maxRequestPayloadKey),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString(logLevelKey))),
	}

	if cfg.RuntimeDir, err = normalizePath(cfg.RuntimeDir, homeDir); err != nil {
		return Config{}, err
	}
	if cfg.HistoryPath, err = normalizePath(cfg.HistoryPath, homeDir); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.CacheCapacity < minCacheCapacity || c.CacheCapacity > MaxMessageSize {
		return fmt.Errorf("%w: cache_capacity %d outside [%d, %d]", ErrInvalidConfig, c.CacheCapacity, minCacheCapacity, MaxMessageSize)
	}
	if c.MaxRequestPayload == 0 || c.MaxRequestPayload > MaxMessageSize {
		return fmt.Errorf("%w: max_request_payload %d outside [1, %d]", ErrInvalidConfig, c.MaxRequestPayload, MaxMessageSize)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	// The longest session address belongs to the largest possible pid.
	if longest := c.SessionAddress(domain.SessionID(^uint32(0))); len(longest) > maxSocketPath {
		return fmt.Errorf("%w: runtime_dir %q too long for a socket address", ErrInvalidConfig, c.RuntimeDir)
	}
	return nil
}

// DaemonAddress is the well-known address owned by the running daemon.
func (c Config) DaemonAddress() string {
	return filepath.Join(c.RuntimeDir, daemonSocketName)
}

// SessionAddress is the reply address of the client acting for id.
func (c Config) SessionAddress(id domain.SessionID) string {
	return filepath.Join(c.RuntimeDir, sessionSocketName+id.String())
}

func (c Config) Limits() protocol.Limits {
	return protocol.Limits{
		MaxRequestPayload: c.MaxRequestPayload,
		MaxReplyPayload:   uint64(c.CacheCapacity),
	}
}

func (c Config) Level() zerolog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// TOML renders the effective configuration in config file syntax.
func (c Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func normalizePath(path, homeDir string) (string, error) {
	if path == "~" {
		path = homeDir
	} else if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(homeDir, rest)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return filepath.Clean(absPath), nil
}
