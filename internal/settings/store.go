// Package settings persists client configuration as a TOML file.
package settings

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const settingsFileName = "aimlink.toml"

// DefaultHost is the robot's address in access-point mode.
const DefaultHost = "192.168.4.1"

type Connection struct {
	Host string `toml:"host"`
}

type Logging struct {
	Level string `toml:"level"`
}

type Telemetry struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

type Settings struct {
	Connection Connection `toml:"connection"`
	Logging    Logging    `toml:"logging"`
	Telemetry  Telemetry  `toml:"telemetry"`
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadOrInit reads the settings file, writing a normalized default one on
// first use.
func (s *Store) LoadOrInit() (Settings, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Settings{}, err
	}

	path := filepath.Join(s.dir, settingsFileName)
	if b, err := os.ReadFile(path); err == nil {
		var cfg Settings
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Settings{}, err
		}
		return normalize(cfg), nil
	} else if !os.IsNotExist(err) {
		return Settings{}, err
	}

	cfg := normalize(Settings{})
	if err := writeTOMLAtomically(path, cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func (s *Store) Save(cfg Settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return writeTOMLAtomically(filepath.Join(s.dir, settingsFileName), normalize(cfg))
}

func normalize(cfg Settings) Settings {
	cfg.Connection.Host = strings.TrimSpace(cfg.Connection.Host)
	if cfg.Connection.Host == "" {
		cfg.Connection.Host = DefaultHost
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "error":
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	default:
		cfg.Logging.Level = "info"
	}
	cfg.Telemetry.Path = strings.TrimSpace(cfg.Telemetry.Path)
	return cfg
}

func writeTOMLAtomically(path string, v any) error {
	b, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
