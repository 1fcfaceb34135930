package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// API is the remote CMS API settings
	API APIConfig `json:"api"`

	// UI preferences
	UI UIConfig `json:"ui"`

	// SnapshotDBPath is the SQLite file holding last-fetch snapshots.
	// Empty means ~/.newsdesk/snapshots.db.
	SnapshotDBPath string `json:"snapshot_db_path,omitempty"`
}

// APIConfig holds settings for the remote CMS API
type APIConfig struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:5000/api"
	BaseURL string `json:"base_url"`

	// RequestsPerSecond caps outgoing request rate. 0 disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second"`

	// CountPollSeconds is the badge-count poll interval.
	CountPollSeconds int `json:"count_poll_seconds"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme string `json:"theme"`

	// Items per page for the news-shaped screens (published, pending,
	// trash, archive) and for the table screens (users, categories).
	NewsPerPage  int `json:"news_per_page"`
	TablePerPage int `json:"table_per_page"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://127.0.0.1:5000/api",
			RequestsPerSecond: 10,
			CountPollSeconds:  20,
		},
		UI: UIConfig{
			Theme:        "dark",
			NewsPerPage:  5,
			TablePerPage: 10,
		},
	}
}

// CountPollInterval returns the badge poll interval as a duration.
func (c *Config) CountPollInterval() time.Duration {
	if c.API.CountPollSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.API.CountPollSeconds) * time.Second
}

// SnapshotPath returns the snapshot database path, defaulting under ~/.newsdesk.
func (c *Config) SnapshotPath() string {
	if c.SnapshotDBPath != "" {
		return c.SnapshotDBPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsdesk", "snapshots.db")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsdesk", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// applyDefaults fills in zero values from the defaults so that a hand-edited
// config file with missing fields still works.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.CountPollSeconds == 0 {
		c.API.CountPollSeconds = def.API.CountPollSeconds
	}
	if c.UI.NewsPerPage <= 0 {
		c.UI.NewsPerPage = def.UI.NewsPerPage
	}
	if c.UI.TablePerPage <= 0 {
		c.UI.TablePerPage = def.UI.TablePerPage
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// applyEnv lets NEWSDESK_API_URL override the configured base URL.
func (c *Config) applyEnv() {
	if url := os.Getenv("NEWSDESK_API_URL"); url != "" {
		c.API.BaseURL = url
	}
}
