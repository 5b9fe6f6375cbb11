// Package config loads node-level configuration for the example wiring
// binary. Nothing under core/ depends on this package — the core packages
// take their parameters as plain constructor arguments, per the protocol's
// no-CLI/no-env/no-disk-state boundary.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"zeronet-core/pkg/utils"
)

// Config is the unified configuration for a zeronetd instance.
type Config struct {
	Sequencer struct {
		Capacity int `mapstructure:"capacity" json:"capacity"`
	} `mapstructure:"sequencer" json:"sequencer"`

	Connections struct {
		Capacity int           `mapstructure:"capacity" json:"capacity"`
		IdleTTL  time.Duration `mapstructure:"idle_ttl" json:"idle_ttl"`
	} `mapstructure:"connections" json:"connections"`

	Network struct {
		DiscoveryTag   string   `mapstructure:"discovery_tag" json:"discovery_tag"`
		BootstrapPeers []string `mapstructure:"bootstrap_peers" json:"bootstrap_peers"`
		ListenAddr     string   `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"network" json:"network"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads the default config file and merges an environment-specific
// override on top of it, then unmarshals the result into AppConfig.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/zeronetd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
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

// LoadFromEnv loads configuration using the ZERONET_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("ZERONET_ENV", ""))
}
