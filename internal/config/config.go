// Package config loads rsessions settings from the config file, the
// environment and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "RSESSIONS"

	KeyStorageRoot    = "storage.root"
	KeyStorageBackend = "storage.backend"
	KeyStorageNode    = "storage.node"
	KeyProjectSharing = "sessions.project_sharing"
	KeyLogLevel       = "log.level"

	defaultLogLevel = "warn"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

type Backend string

const (
	BackendLocal  Backend = "local"
	BackendShared Backend = "shared"
)

type Config struct {
	StorageRoot    string
	Backend        Backend
	Node           string
	ProjectSharing bool
	LogLevel       log.Level
	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

// Dir returns the directory searched for config.toml.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, ".config", "rsessions")
}

// DefaultStorageRoot is where sessions live when storage.root is unset.
func DefaultStorageRoot(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", "rsessions", "active")
}

func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(Dir(homeDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyStorageRoot, DefaultStorageRoot(homeDir))
	cfg.SetDefault(KeyStorageBackend, string(BackendLocal))
	cfg.SetDefault(KeyStorageNode, hostname)
	cfg.SetDefault(KeyProjectSharing, false)
	cfg.SetDefault(KeyLogLevel, defaultLogLevel)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	root, err := normalizeRoot(cfg.GetString(KeyStorageRoot), homeDir)
	if err != nil {
		return Config{}, err
	}

	backend := Backend(strings.ToLower(strings.TrimSpace(cfg.GetString(KeyStorageBackend))))
	switch backend {
	case BackendLocal, BackendShared:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	level, err := log.ParseLevel(cfg.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", KeyLogLevel, err)
	}

	node := strings.TrimSpace(cfg.GetString(KeyStorageNode))
	if node == "" {
		node = hostname
	}

	return Config{
		StorageRoot:    root,
		Backend:        backend,
		Node:           node,
		ProjectSharing: cfg.GetBool(KeyProjectSharing),
		LogLevel:       level,
		ConfigFile:     cfg.ConfigFileUsed(),
	}, nil
}

func normalizeRoot(root, homeDir string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", errors.New("storage root is empty")
	}
	if root == "~" {
		root = homeDir
	} else if strings.HasPrefix(root, "~/") {
		root = filepath.Join(homeDir, root[2:])
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve storage root: %w", err)
	}

	return filepath.Clean(absRoot), nil
}
