package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"pushbridge/internal/env"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. "127.0.0.1:8870")
 * @property {string} mode - Gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Relay defaults applied to tunnel configurations that leave fields empty
 */
type TunnelConfig struct {
	ServerAddr string `mapstructure:"server_addr"`
	ServerPort int    `mapstructure:"server_port"`
	Token      string `mapstructure:"token"`
	Protocol   string `mapstructure:"protocol"`
	LogLevel   string `mapstructure:"log_level"`
}

/**
 * Tunnel binary resolution settings
 * @property {string} mode - "bundled" (binary ships with the app) or "fetch" (release registry)
 * @property {string} registry_url - Base URL of the release registry (fetch mode)
 * @property {string} bundled_dir - Directory holding per-platform binaries (bundled mode)
 * @property {string} cache_dir - Download cache directory (fetch mode)
 */
type BinaryConfig struct {
	Mode        string `mapstructure:"mode"`
	RegistryURL string `mapstructure:"registry_url"`
	BundledDir  string `mapstructure:"bundled_dir"`
	CacheDir    string `mapstructure:"cache_dir"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Tunnel  TunnelConfig  `mapstructure:"tunnel"`
	Binary  BinaryConfig  `mapstructure:"binary"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

/**
 * Load application configuration from YAML file
 * @description
 * - Searches the pushbridge data directory first, then the working directory
 * - Missing config file is not an error, defaults apply
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(env.PushbridgeDir)
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8870"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Tunnel.ServerAddr == "" {
		cfg.Tunnel.ServerAddr = "relay.pushbridge.io"
	}
	if cfg.Tunnel.ServerPort == 0 {
		cfg.Tunnel.ServerPort = 7000
	}
	if cfg.Tunnel.Protocol == "" {
		cfg.Tunnel.Protocol = "tcp"
	}
	if cfg.Tunnel.LogLevel == "" {
		cfg.Tunnel.LogLevel = "info"
	}
	if cfg.Binary.Mode == "" {
		cfg.Binary.Mode = "fetch"
	}
	if cfg.Binary.RegistryURL == "" {
		cfg.Binary.RegistryURL = "https://api.github.com/repos/fatedier/frp"
	}
	if cfg.Binary.BundledDir == "" {
		cfg.Binary.BundledDir = filepath.Join(env.PushbridgeDir, "bin")
	}
	if cfg.Binary.CacheDir == "" {
		cfg.Binary.CacheDir = filepath.Join(env.PushbridgeDir, "cache", "binaries")
	}
	return cfg
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
