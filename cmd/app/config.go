package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"fantamatto_bot/internal/bot"
	"fantamatto_bot/internal/repository"
	"fantamatto_bot/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
	envPrefix    = "APP"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`
	Telegram bot.Config        `mapstructure:"telegram"`
	Session  SessionConfig     `mapstructure:"session"`

	TelegramAuth TelegramAuthConfig `mapstructure:"telegramAuth"`

	LogLevel string `mapstructure:"logLevel" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port" validate:"required_if=Enabled true"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type SessionConfig struct {
	// TTL of a pending conversation step. Zero keeps steps until they complete.
	TTL           time.Duration `mapstructure:"ttl" validate:"gte=0"`
	SweepSchedule string        `mapstructure:"sweepSchedule"`
}

type TelegramAuthConfig struct {
	DebugMode bool `mapstructure:"debugMode"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("database.driver", repository.DriverSQLite)
	v.SetDefault("database.path", "bot_matti.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "fantamatto")

	v.SetDefault("telegram.botToken", "")
	v.SetDefault("telegram.adminChatID", 0)
	v.SetDefault("telegram.registrationPassword", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8888")

	v.SetDefault("telegramAuth.debugMode", false)

	v.SetDefault("session.ttl", time.Duration(0))
	v.SetDefault("session.sweepSchedule", session.DefaultSweepSchedule)
}

// LoadConfig reads .env, then config.yaml from dir if present, then APP_*
// environment overrides such as APP_TELEGRAM_BOTTOKEN.
func LoadConfig(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(dir)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
