package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds all review store configuration options.
type Config struct {
	// DataRoot is the directory holding one subdirectory per date.
	DataRoot string `json:"data_root"`

	// DataFile is the source table filename inside each date directory.
	DataFile string `json:"data_file,omitempty"`

	// PresenceTimeoutSeconds is how long a presence entry stays visible
	// after the user's last touch.
	PresenceTimeoutSeconds int `json:"presence_timeout_seconds,omitempty"`

	// AutoSyncIntervalSeconds is advisory: the polling interval handed to
	// whatever UI layer drives sync. The store itself never schedules.
	AutoSyncIntervalSeconds int `json:"auto_sync_interval_seconds,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // path to global config if loaded, empty otherwise
	Project string // path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataFile:                "candidate.csv",
		PresenceTimeoutSeconds:  10,
		AutoSyncIntervalSeconds: 30,
	}
}

// PresenceTimeout returns the presence expiry as a duration.
func (c Config) PresenceTimeout() time.Duration {
	return time.Duration(c.PresenceTimeoutSeconds) * time.Second
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".candreview.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
	errDataRootEmpty      = errors.New("data_root cannot be empty")
)

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/candreview/config.json if set, otherwise
// ~/.config/candreview/config.json. Empty if neither resolves.
func globalConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "candreview", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "candreview", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest
// wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/candreview/config.json)
//  3. Project config in workDir (.candreview.json, if it exists)
//  4. Explicit config file via configPath (must exist if non-empty)
//  5. overrides (non-zero fields only)
func LoadConfig(workDir, configPath string, overrides Config) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	if path := globalConfigPath(); path != "" {
		loaded, ok, err := loadConfigFile(path, false)
		if err != nil {
			return Config{}, ConfigSources{}, err
		}

		if ok {
			cfg = mergeConfig(cfg, loaded)
			sources.Global = path
		}
	}

	projectFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		projectFile = configPath
		if !filepath.IsAbs(projectFile) {
			projectFile = filepath.Join(workDir, projectFile)
		}

		mustExist = true
	}

	loaded, ok, err := loadConfigFile(projectFile, mustExist)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	if ok {
		cfg = mergeConfig(cfg, loaded)
		sources.Project = projectFile
	}

	cfg = mergeConfig(cfg, overrides)

	if strings.TrimSpace(cfg.DataRoot) == "" {
		return Config{}, ConfigSources{}, errDataRootEmpty
	}

	if !filepath.IsAbs(cfg.DataRoot) {
		cfg.DataRoot = filepath.Join(workDir, cfg.DataRoot)
	}

	return cfg, sources, nil
}

// loadConfigFile reads and parses one config file. Missing optional files
// return ok=false without error.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}

			return Config{}, false, nil
		}

		// Only absence makes an optional file skippable. Anything else,
		// an unreadable config for example, is a real problem.
		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON so config files may carry comments.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

// mergeConfig overlays non-zero fields of over onto base.
func mergeConfig(base, over Config) Config {
	if over.DataRoot != "" {
		base.DataRoot = over.DataRoot
	}

	if over.DataFile != "" {
		base.DataFile = over.DataFile
	}

	if over.PresenceTimeoutSeconds > 0 {
		base.PresenceTimeoutSeconds = over.PresenceTimeoutSeconds
	}

	if over.AutoSyncIntervalSeconds > 0 {
		base.AutoSyncIntervalSeconds = over.AutoSyncIntervalSeconds
	}

	return base
}
