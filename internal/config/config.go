package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/artliftbot/core/config"
	coredatabase "github.com/m3rciful/artliftbot/core/database"
)

// URLsConfig collects external links substituted into template placeholders.
type URLsConfig struct {
	ApplicationForm string `yaml:"application_form" envconfig:"APPLICATION_FORM_URL"`
	Payment         string `yaml:"payment" envconfig:"PAYMENT_URL"`
	ContactUsername string `yaml:"contact_username" envconfig:"CONTACT_USERNAME"`
	ChannelJoin     string `yaml:"channel_join" envconfig:"CHANNEL_SUBSCRIBE_URL"`
}

// RemindersConfig controls the follow-up nudge scheduling.
type RemindersConfig struct {
	// SignupDelay is how long after /start the fill-the-form nudge fires.
	SignupDelay time.Duration `yaml:"signup_delay" envconfig:"REMINDER_SIGNUP_DELAY"`
	// SweepInterval is the polling period of the reminder sweeper.
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"REMINDER_SWEEP_INTERVAL"`
}

// Config is the application configuration: the reusable core config plus
// admission-bot specifics.
type Config struct {
	Core     coreconfig.Config   `yaml:"core"`
	Database coredatabase.Config `yaml:"database"`

	AdminIDs  []int64         `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	URLs      URLsConfig      `yaml:"urls"`
	Reminders RemindersConfig `yaml:"reminders"`

	// PageSize bounds admin list pagination.
	PageSize int `yaml:"page_size" envconfig:"ADMIN_PAGE_SIZE"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// IsAdminID reports whether the id is in the configured admin list.
func (c *Config) IsAdminID(id int64) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

// Load reads the app configuration from a YAML file with env overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and applies defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if len(cfg.AdminIDs) == 0 {
		return fmt.Errorf("admin_ids must list at least one admin")
	}

	if cfg.URLs.ContactUsername != "" && !strings.HasPrefix(cfg.URLs.ContactUsername, "@") {
		cfg.URLs.ContactUsername = "@" + cfg.URLs.ContactUsername
	}

	if cfg.Reminders.SignupDelay <= 0 {
		cfg.Reminders.SignupDelay = 24 * time.Hour
	}
	if cfg.Reminders.SweepInterval <= 0 {
		cfg.Reminders.SweepInterval = time.Minute
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	return nil
}
