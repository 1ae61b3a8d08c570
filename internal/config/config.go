package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirName  = ".milestones"
	fileName = "config.json"

	DefaultDataDir   = "data"
	DefaultLocalData = "local.yaml"
	DefaultJiraURL   = "https://jira.lsstcorp.org"
	DefaultWBS       = "02C"
)

// Environment variables holding tracker credentials.
const (
	EnvJiraUser     = "JIRA_USER"
	EnvJiraPassword = "JIRA_PW"
	EnvJiraToken    = "JIRA_TOKEN"
)

// Config represents the flat milestones configuration
type Config struct {
	DataDir       string   `json:"data_dir,omitempty"`   // directory of YYYYMM-ME.csv extracts
	LocalData     string   `json:"local_data,omitempty"` // annotation file
	ArchiveDB     string   `json:"archive_db,omitempty"` // "" means ~/.milestones/archive.db
	JiraURL       string   `json:"jira_url,omitempty"`
	JiraUser      string   `json:"jira_user,omitempty"`
	DefaultWBS    string   `json:"default_wbs,omitempty"`
	GanttPrefixes []string `json:"gantt_prefixes,omitempty"`

	// Secrets come from the environment only.
	JiraPassword string `json:"-"`
	JiraToken    string `json:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		LocalData:  DefaultLocalData,
		JiraURL:    DefaultJiraURL,
		DefaultWBS: DefaultWBS,
	}
}

// LoadConfig reads .milestones/config.json from the specified directory.
// Unset fields keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, dirName, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Load is LoadConfig that falls back to Default when no file exists, and
// then applies environment secrets.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv fills tracker credentials from the environment. JIRA_USER
// overrides the configured user.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if user := getenv(EnvJiraUser); user != "" {
		c.JiraUser = user
	}
	c.JiraPassword = getenv(EnvJiraPassword)
	c.JiraToken = getenv(EnvJiraToken)
}

// HasTrackerCredentials reports whether a token or a user/password pair is set.
func (c *Config) HasTrackerCredentials() bool {
	return c.JiraToken != "" || (c.JiraUser != "" && c.JiraPassword != "")
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, dirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", dirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
