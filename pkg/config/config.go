// Package config provides a reusable loader for ark CLI configuration. It
// mirrors the structure of an optional config file under ./config, merged
// with per-environment overrides and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rrauch/ark/core"
	"github.com/rrauch/ark/pkg/utils"
)

// Config is the unified configuration an ark CLI invocation runs with.
type Config struct {
	Network struct {
		ConfigURL string `mapstructure:"config_url" json:"config_url"`
	} `mapstructure:"network" json:"network"`

	Wallet struct {
		SecretKeyHex string `mapstructure:"secret_key_hex" json:"secret_key_hex"`
	} `mapstructure:"wallet" json:"wallet"`

	Cache struct {
		TTLSeconds          int   `mapstructure:"ttl_seconds" json:"ttl_seconds"`
		TTISeconds          int   `mapstructure:"tti_seconds" json:"tti_seconds"`
		RegisterCapacity    int   `mapstructure:"register_capacity" json:"register_capacity"`
		PointerCapacity     int   `mapstructure:"pointer_capacity" json:"pointer_capacity"`
		ScratchpadMaxWeight int64 `mapstructure:"scratchpad_max_weight_bytes" json:"scratchpad_max_weight_bytes"`
	} `mapstructure:"cache" json:"cache"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Environment variable names the CLI reads (spec.md §6, CLI surface). The
// first two are bound to config keys and, when set, take precedence over a
// config file's value; ARK_ENV selects the overlay file (see LoadFromEnv).
const (
	EnvNetworkConfigURL = "ARK_NETWORK_CONFIG_URL"
	EnvWalletSecretHex  = "ARK_WALLET_SECRET_KEY_HEX"
	EnvEnvironment      = "ARK_ENV"
)

func setDefaults() {
	viper.SetDefault("cache.ttl_seconds", 3600)
	viper.SetDefault("cache.tti_seconds", 900)
	viper.SetDefault("cache.register_capacity", 1000)
	viper.SetDefault("cache.pointer_capacity", 1000)
	viper.SetDefault("cache.scratchpad_max_weight_bytes", 8<<20)
	viper.SetDefault("logging.level", "info")

	viper.BindEnv("network.config_url", EnvNetworkConfigURL)
	viper.BindEnv("wallet.secret_key_hex", EnvWalletSecretHex)
}

// Load reads an optional "default" config file from ./config (plus an
// env-named overlay, e.g. "testnet.yaml", if env is non-empty), merges in
// environment variables, and unmarshals the result into AppConfig.
//
// A missing base config file is not an error -- unlike a node config, every
// ark CLI setting has a workable default or an environment variable
// fallback, so running with no file at all is a supported mode.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("config")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the ARK_ENV environment variable to
// select an overlay file, defaulting to the base config alone.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault(EnvEnvironment, ""))
}

// TTL is the configured cache entry lifetime.
func (c *Config) TTL() time.Duration { return time.Duration(c.Cache.TTLSeconds) * time.Second }

// TTI is the configured cache idle lifetime.
func (c *Config) TTI() time.Duration { return time.Duration(c.Cache.TTISeconds) * time.Second }

// NewCacheSet builds a core.CacheSet from the loaded cache settings, sharing
// the same TTL/TTI across every object kind and applying the
// scratchpad-specific byte budget.
func (c *Config) NewCacheSet() *core.CacheSet {
	shared := core.CacheConfig{TTL: c.TTL(), TTI: c.TTI()}
	registers := shared
	registers.Capacity = c.Cache.RegisterCapacity
	pointers := shared
	pointers.Capacity = c.Cache.PointerCapacity
	scratchpads := shared
	scratchpads.MaxWeightBytes = c.Cache.ScratchpadMaxWeight
	history := shared
	return core.NewCacheSet(registers, history, pointers, scratchpads)
}
