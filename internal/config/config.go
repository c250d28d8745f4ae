package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"duely/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "duely.db"
	DefaultLogName        = "duely.log"

	// EnvConfigPath overrides the config location.
	EnvConfigPath = "DUELY_CONFIG"
)

// Notification permission modes.
const (
	NotifyAsk     = "ask"
	NotifyGranted = "granted"
	NotifyDenied  = "denied"
	NotifyOff     = "off"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	Delete          string `toml:"delete"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	NextField       string `toml:"next_field"`
	CyclePriority   string `toml:"cycle_priority"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	ClearCompleted  string `toml:"clear_completed"`
}

type Reminder struct {
	PendingInterval  string `toml:"pending_interval"`
	DeadlineInterval string `toml:"deadline_interval"`
	Notifications    string `toml:"notifications"`
}

type Config struct {
	DBPath          string   `toml:"db_path"`
	DefaultFilter   string   `toml:"default_filter"`
	DefaultPriority string   `toml:"default_priority"`
	LogLevel        string   `toml:"log_level"`
	LogPath         string   `toml:"log_path"`
	Reminder        Reminder `toml:"reminder"`
	Keys            Keymap   `toml:"keys"`
}

// ResolveConfigPath returns $DUELY_CONFIG if set, otherwise config.toml in
// the user config directory, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "duely", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative db and log paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
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
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(path), nil
}

// Validate checks values that the TOML decoder cannot.
func (c Config) Validate() error {
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := task.ParsePriority(c.DefaultPriority); err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	if _, _, err := c.Reminder.Intervals(); err != nil {
		return err
	}
	switch c.Reminder.Notifications {
	case NotifyAsk, NotifyGranted, NotifyDenied, NotifyOff:
	default:
		return fmt.Errorf("reminder.notifications: unknown mode %q (want ask, granted, denied or off)", c.Reminder.Notifications)
	}
	return nil
}

// Filter returns the configured default filter, or all if it is invalid.
func (c Config) Filter() task.Filter {
	f, err := task.ParseFilter(c.DefaultFilter)
	if err != nil {
		return task.FilterAll
	}
	return f
}

// Priority returns the configured default priority, or low if invalid.
func (c Config) Priority() task.Priority {
	p, err := task.ParsePriority(c.DefaultPriority)
	if err != nil {
		return task.PriorityLow
	}
	return p
}

// Intervals parses the two reminder periods.
func (r Reminder) Intervals() (pending, deadline time.Duration, err error) {
	pending, err = parsePositive("reminder.pending_interval", r.PendingInterval)
	if err != nil {
		return 0, 0, err
	}
	deadline, err = parsePositive("reminder.deadline_interval", r.DeadlineInterval)
	if err != nil {
		return 0, 0, err
	}
	return pending, deadline, nil
}

func parsePositive(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, v)
	}
	return d, nil
}

func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if !filepath.IsAbs(c.DBPath) && !isURI(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func isURI(p string) bool {
	return len(p) > 5 && p[:5] == "file:"
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		DefaultFilter:   string(task.FilterAll),
		DefaultPriority: task.PriorityLow.String(),
		LogLevel:        "info",
		LogPath:         DefaultLogName,
		Reminder: Reminder{
			PendingInterval:  "1h",
			DeadlineInterval: "5m",
			Notifications:    NotifyAsk,
		},
		Keys: Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			Delete:          "d",
			Confirm:         "enter",
			Cancel:          "esc",
			NextField:       "tab",
			CyclePriority:   "ctrl+p",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
			ClearCompleted:  "C",
		},
	}
}
