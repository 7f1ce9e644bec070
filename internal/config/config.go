// Package config loads billsplit settings from an optional YAML file and
// BILLSPLIT_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmynk/billsplit/internal/message"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/share"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Split   SplitConfig   `mapstructure:"split"`
	History HistoryConfig `mapstructure:"history"`
	Share   ShareConfig   `mapstructure:"share"`
	Message MessageConfig `mapstructure:"message"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"` // debug, info, warn, error
	NoColor bool   `mapstructure:"no_color"`
}

type SplitConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"`
}

// Currency returns the configured default currency, USD when unknown.
func (s SplitConfig) Currency() models.Currency {
	return models.CurrencyFromCode(strings.ToUpper(s.DefaultCurrency))
}

type HistoryConfig struct {
	DSN string `mapstructure:"dsn"` // empty or ":memory:" keeps history in memory
}

// ShareConfig declares which messenger apps are available.
type ShareConfig struct {
	WhatsApp bool `mapstructure:"whatsapp"`
	Viber    bool `mapstructure:"viber"`
}

// Presence returns the app presence described by the config.
func (s ShareConfig) Presence() share.StaticPresence {
	return share.StaticPresence{WhatsApp: s.WhatsApp, Viber: s.Viber}
}

type MessageConfig struct {
	Greeting bool `mapstructure:"greeting"`
	Footer   bool `mapstructure:"footer"`
}

// Options returns the message options described by the config.
func (m MessageConfig) Options() message.Options {
	return message.Options{Greeting: m.Greeting, Footer: m.Footer}
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BILLSPLIT_.
// Nested keys use underscore: BILLSPLIT_LOG_LEVEL, BILLSPLIT_SHARE_VIBER, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.no_color", false)
	v.SetDefault("split.default_currency", string(models.DefaultCurrency))
	v.SetDefault("history.dsn", ":memory:")
	v.SetDefault("share.whatsapp", false)
	v.SetDefault("share.viber", false)
	v.SetDefault("message.greeting", true)
	v.SetDefault("message.footer", true)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("billsplit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: BILLSPLIT_HISTORY_DSN -> history.dsn
	v.SetEnvPrefix("BILLSPLIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
