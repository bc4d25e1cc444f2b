package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "todo"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "debug.log"
	DefaultRefresh        = 30 * time.Second
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Focus      string `toml:"focus"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	AddList    string `toml:"add_list"`
	DeleteList string `toml:"delete_list"`
	Add        string `toml:"add"`
	Toggle     string `toml:"toggle"`
	Trash      string `toml:"trash"`
	Edit       string `toml:"edit"`
	Restore    string `toml:"restore"`
	Clear      string `toml:"clear"`
	Refresh    string `toml:"refresh"`
}

type Config struct {
	DBPath  string `toml:"db_path"`
	LogPath string `toml:"log_path"`
	// RefreshInterval is how often the sidebar re-reads the store, as a Go
	// duration. "0" turns the periodic refresh off.
	RefreshInterval string `toml:"refresh_interval"`
	Keys            Keymap `toml:"keys"`
}

// Refresh parses RefreshInterval, falling back to DefaultRefresh.
func (c Config) Refresh() time.Duration {
	if c.RefreshInterval == "" {
		return DefaultRefresh
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d < 0 {
		return DefaultRefresh
	}
	return d
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/todo/config.toml, or
// ~/.config/todo/config.toml when XDG_CONFIG_HOME is unset.
func ResolveConfigPath() string {
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative data paths are resolved against the
// config directory.
func LoadOrCreate(path string) (Config, error) {
	dir := filepath.Dir(path)
	cfg := defaultConfig(dir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(dir, cfg.DBPath)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if !filepath.IsAbs(cfg.LogPath) {
		cfg.LogPath = filepath.Join(dir, cfg.LogPath)
	}
	cfg.Keys = cfg.Keys.withDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaults fills keys missing from an older config file.
func (k Keymap) withDefaults() Keymap {
	d := defaultKeymap()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Focus, d.Focus)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.AddList, d.AddList)
	fill(&k.DeleteList, d.DeleteList)
	fill(&k.Add, d.Add)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Trash, d.Trash)
	fill(&k.Edit, d.Edit)
	fill(&k.Restore, d.Restore)
	fill(&k.Clear, d.Clear)
	fill(&k.Refresh, d.Refresh)
	return k
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:          filepath.Join(dir, DefaultDBName),
		LogPath:         filepath.Join(dir, DefaultLogName),
		RefreshInterval: DefaultRefresh.String(),
		Keys:            defaultKeymap(),
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:       "q",
		Up:         "k",
		Down:       "j",
		Focus:      "tab",
		Confirm:    "enter",
		Cancel:     "esc",
		AddList:    "A",
		DeleteList: "D",
		Add:        "a",
		Toggle:     " ",
		Trash:      "d",
		Edit:       "e",
		Restore:    "r",
		Clear:      "c",
		Refresh:    "ctrl+r",
	}
}
