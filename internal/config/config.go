// Package config loads service configuration from defaults, an optional
// config.yaml next to the binary, and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Index    IndexConfig    `mapstructure:"index"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type IndexConfig struct {
	Dir string `mapstructure:"dir"`
}

// TimeoutsConfig carries every budget the orchestration core owns.
type TimeoutsConfig struct {
	Primary      time.Duration `mapstructure:"primary"`
	Websearch    time.Duration `mapstructure:"websearch"`
	Forecast     time.Duration `mapstructure:"forecast"`
	Grace        time.Duration `mapstructure:"grace"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Load reads configuration. Precedence (highest to lowest):
// 1. Environment variables (ADVISOR_*, OPENAI_API_KEY)
// 2. config.yaml in the working directory
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("advisor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Validate fails once, immediately, on a missing credential.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("index.dir", "documents")
	v.SetDefault("timeouts.primary", "120s")
	v.SetDefault("timeouts.websearch", "60s")
	v.SetDefault("timeouts.forecast", "90s")
	v.SetDefault("timeouts.grace", "5s")
	v.SetDefault("timeouts.poll_interval", "2s")
}
