/*
Package config manages TOML config for the wordtrie services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// SearchConfig has options for prefix searches.
type SearchConfig struct {
	MaxResults int `toml:"max_results"`
	CacheSize  int `toml:"cache_size"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MinPrefix  int `toml:"min_prefix"`
	MaxPrefix  int `toml:"max_prefix"`
	MaxWordLen int `toml:"max_word_len"`
}

// DictConfig holds word list loading options.
type DictConfig struct {
	Encoding string `toml:"encoding"`
	Workers  int    `toml:"workers"`
	MaxCount int    `toml:"max_count"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordtrie
// 2. ~/Library/Application Support/wordtrie (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordtrie")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordtrie")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordtrie/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults: 10,
			CacheSize:  1024,
		},
		Server: ServerConfig{
			MinPrefix:  0,
			MaxPrefix:  60,
			MaxWordLen: 64,
		},
		Dict: DictConfig{
			Encoding: "utf-8",
			Workers:  4,
			MaxCount: 1000000,
		},
		CLI: CliConfig{
			DefaultNoFilter: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file, keeping defaults for anything missing or invalid.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse salvages the sections of a TOML file that still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		search.MaxResults = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		search.CacheSize = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		dict.Encoding = val
	}
	if val, ok := utils.ExtractInt(data, "workers"); ok {
		dict.Workers = val
	}
	if val, ok := utils.ExtractInt(data, "max_count"); ok {
		dict.MaxCount = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// sanitize resets out of range values to their defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Search.MaxResults < 1 {
		log.Warnf("Invalid max_results %d, using %d", c.Search.MaxResults, def.Search.MaxResults)
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.MaxResults > trie.MaxResults {
		log.Warnf("max_results %d is above %d, capping", c.Search.MaxResults, trie.MaxResults)
		c.Search.MaxResults = trie.MaxResults
	}
	if c.Search.CacheSize < 0 {
		c.Search.CacheSize = 0
	}
	if c.Server.MinPrefix < 0 {
		c.Server.MinPrefix = def.Server.MinPrefix
	}
	if c.Server.MaxPrefix < c.Server.MinPrefix {
		log.Warnf("max_prefix %d is below min_prefix %d, using %d", c.Server.MaxPrefix, c.Server.MinPrefix, def.Server.MaxPrefix)
		c.Server.MaxPrefix = def.Server.MaxPrefix
	}
	if c.Dict.Workers < 1 {
		c.Dict.Workers = def.Dict.Workers
	}
	if c.Dict.MaxCount < 1 {
		c.Dict.MaxCount = def.Dict.MaxCount
	}
	if c.Dict.Encoding == "" {
		c.Dict.Encoding = def.Dict.Encoding
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the search values and saves to file when configPath is set.
// max_results is capped at trie.MaxResults.
func (c *Config) Update(configPath string, maxResults, cacheSize *int) error {
	if maxResults != nil && *maxResults > 0 {
		c.Search.MaxResults = min(*maxResults, trie.MaxResults)
	}
	if cacheSize != nil && *cacheSize >= 0 {
		c.Search.CacheSize = *cacheSize
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
