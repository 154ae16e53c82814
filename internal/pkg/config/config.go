package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultLeagueIDs is the built-in league allow-list used when the config file
// does not name one.
var DefaultLeagueIDs = []int{228, 326, 310, 322, 323, 198, 235, 241, 253, 297, 299, 168}

const (
	defaultBaseURL       = "https://api.soccerdataapi.com/"
	defaultTimeout       = 30 * time.Second
	defaultUpdateTimeout = 60
	defaultTimezone      = "UTC"
	defaultMaxMessageLen = 3800
	defaultSendInterval  = time.Second // spacing between Telegram sends, avoids 429s
)

type Config struct {
	SoccerData SoccerDataConfig `yaml:"soccerdata"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Logging    LoggingConfig    `yaml:"logging"`
	Health     HealthConfig     `yaml:"health"`
}

type SoccerDataConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	APIKey    string        `yaml:"api_key" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	LeagueIDs []int         `yaml:"league_ids" validate:"required,min=1,dive,gt=0"`
	// UpcomingWindow limits /upcoming to kickoffs within this duration from now. Zero means no limit.
	UpcomingWindow time.Duration `yaml:"upcoming_window" validate:"gte=0"`
	// Timezone is the single zone kickoff times are rendered in.
	Timezone string `yaml:"timezone" validate:"required,timezone"`
}

type TelegramConfig struct {
	Token          string        `yaml:"token" validate:"required"`
	UpdateTimeout  int           `yaml:"update_timeout" validate:"gt=0"`
	AllowedUserIDs []int64       `yaml:"allowed_user_ids"` // Optional: restrict access to specific users
	SendInterval   time.Duration `yaml:"send_interval" validate:"gte=0"`
	MaxMessageLen  int           `yaml:"max_message_len" validate:"gte=100,lte=4096"`
	Debug          bool          `yaml:"debug"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	// File, when set, receives a JSON copy of every record.
	File string `yaml:"file"`
}

type HealthConfig struct {
	// Port 0 disables the health server.
	Port              int           `yaml:"port" validate:"gte=0,lte=65535"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gte=0"`
}

// Load reads a YAML config file, applies env overrides and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&config)
}

// LoadFromEnv builds a config from environment variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(config *Config) (*Config, error) {
	config.applyEnv()
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if v := firstEnv("SOCCERDATA_API_KEY", "API_KEY"); v != "" {
		c.SoccerData.APIKey = v
	}
	if v := firstEnv("SOCCERDATA_BASE_URL"); v != "" {
		c.SoccerData.BaseURL = v
	}
	if v := firstEnv("TELEGRAM_BOT_TOKEN", "TG_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := firstEnv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.SoccerData.BaseURL == "" {
		c.SoccerData.BaseURL = defaultBaseURL
	}
	if c.SoccerData.Timeout == 0 {
		c.SoccerData.Timeout = defaultTimeout
	}
	if len(c.SoccerData.LeagueIDs) == 0 {
		c.SoccerData.LeagueIDs = append([]int(nil), DefaultLeagueIDs...)
	}
	if c.SoccerData.Timezone == "" {
		c.SoccerData.Timezone = defaultTimezone
	}
	if c.Telegram.UpdateTimeout == 0 {
		c.Telegram.UpdateTimeout = defaultUpdateTimeout
	}
	if c.Telegram.SendInterval == 0 {
		c.Telegram.SendInterval = defaultSendInterval
	}
	if c.Telegram.MaxMessageLen == 0 {
		c.Telegram.MaxMessageLen = defaultMaxMessageLen
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Health.ReadHeaderTimeout == 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
}

// Validate checks required secrets and value ranges.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Location returns the zone kickoff times are rendered in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SoccerData.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.SoccerData.Timezone, err)
	}
	return loc, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
