package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Slack    SlackConfig    `mapstructure:"slack"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// Slack workspace credentials
type SlackConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	SigningSecret string `mapstructure:"signing_secret"`
}

// HTTP server configuration
type ServerConfig struct {
	ListenPort string `mapstructure:"listen_port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Notion integration settings; leaving either field empty disables sync
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
}

// logging configuration
type LoggerConfig struct {
	Directory  string            `mapstructure:"directory"`
	Rotation   LogRotationConfig `mapstructure:"rotation"`
	TimeFormat string            `mapstructure:"time_format"`
	Level      string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

var cfg *Config

// Load reads the optional yaml config file and merges environment
// overrides (BTT_SLACK_BOT_TOKEN, BTT_DATABASE_PATH, ...) over defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			log.Printf("Using config file: %s", v.ConfigFileUsed())
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

// NotionEnabled reports whether the Notion sync bridge is configured.
func (c *Config) NotionEnabled() bool {
	return c.Notion.Token != "" && c.Notion.DatabaseID != ""
}

func (c *Config) validate() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("missing required setting: slack.bot_token")
	}
	if c.Slack.SigningSecret == "" {
		return fmt.Errorf("missing required setting: slack.signing_secret")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("slack.bot_token", "")
	v.SetDefault("slack.signing_secret", "")

	v.SetDefault("server.listen_port", "3000")

	v.SetDefault("database.path", "data/boss-tasks.db")

	v.SetDefault("notion.token", "")
	v.SetDefault("notion.database_id", "")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.time_format", "2006/01/02 15:04:05")
	v.SetDefault("logger.level", "INFO")
}
