/*
Package config manages the TOML config for corpusq.

The file is created with defaults on first run. A file that fails to decode
as a whole is re-read section by section so that valid values still apply.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/corpusquery/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	DefaultLimit int  `toml:"default_limit"`
	MinQuery     int  `toml:"min_query"`
	MaxQuery     int  `toml:"max_query"`
	AllowInsert  bool `toml:"allow_insert"`
}

// IndexConfig holds index options.
type IndexConfig struct {
	EnableSubstring bool `toml:"enable_substring"`
	CacheSize       int  `toml:"cache_size"`
	// MaxTitleLength bounds titles fed to the substring index, whose cost
	// grows with the square of the title length.
	MaxTitleLength int `toml:"max_title_length"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit  int `toml:"default_limit"`
	DefaultMinLen int `toml:"default_min_len"`
	DefaultMaxLen int `toml:"default_max_len"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 10,
			MinQuery:     0,
			MaxQuery:     120,
			AllowInsert:  false,
		},
		Index: IndexConfig{
			EnableSubstring: true,
			CacheSize:       512,
			MaxTitleLength:  256,
		},
		CLI: CliConfig{
			DefaultLimit:  24,
			DefaultMinLen: 1,
			DefaultMaxLen: 120,
		},
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/corpusq/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, resolver *utils.PathResolver) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			cfg, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return cfg, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	if resolver == nil {
		return DefaultConfig(), ""
	}
	defaultPath, err := resolver.GetConfigPath(FileName)
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}

	cfg := InitConfig(defaultPath)
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath
}

// InitConfig loads config from file or creates it with defaults if missing.
// Any failure falls back to the builtin defaults.
func InitConfig(configPath string) *Config {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig()
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}
	return cfg
}

// LoadConfig loads from a TOML file. Values missing from the file keep their
// defaults and out-of-range values are repaired. An error is returned only
// when nothing in the file can be decoded.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		cfg, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Warnf("Config %s: %v", configPath, err)
	}
	return cfg, nil
}

// tryPartialParse salvages well-typed values section by section.
func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not parse any valid configuration from %s: %w", configPath, err)
	}

	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "index"); ok {
		extractIndexConfig(section, &cfg.Index)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "min_query"); ok {
		server.MinQuery = val
	}
	if val, ok := utils.ExtractInt(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.ExtractBool(data, "allow_insert"); ok {
		server.AllowInsert = val
	}
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractBool(data, "enable_substring"); ok {
		index.EnableSubstring = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		index.CacheSize = val
	}
	if val, ok := utils.ExtractInt(data, "max_title_length"); ok {
		index.MaxTitleLength = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
