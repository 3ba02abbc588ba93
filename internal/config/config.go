package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SiteURL string `yaml:"site_url"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Mail struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"mail"`

	SMS struct {
		BaseURL    string `yaml:"base_url"`
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
	} `yaml:"sms"`

	Push struct {
		BaseURL   string `yaml:"base_url"`
		ServerKey string `yaml:"server_key"`
	} `yaml:"push"`

	Reminders struct {
		Timezone             string  `yaml:"timezone"`
		ToleranceMinutes     int     `yaml:"tolerance_minutes"`
		CheckIntervalSeconds int     `yaml:"check_interval_seconds"`
		SendTimeoutSeconds   int     `yaml:"send_timeout_seconds"`
		RatePerSecond        float64 `yaml:"rate_per_second"`
		RateBurst            int     `yaml:"rate_burst"`
	} `yaml:"reminders"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:8080"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/teachtime.db"
	}
	if c.SMS.BaseURL == "" {
		c.SMS.BaseURL = "https://api.twilio.com"
	}
	if c.Push.BaseURL == "" {
		c.Push.BaseURL = "https://fcm.googleapis.com/fcm/send"
	}
	if c.Reminders.Timezone == "" {
		c.Reminders.Timezone = "UTC"
	}
	if c.Reminders.ToleranceMinutes == 0 {
		c.Reminders.ToleranceMinutes = 5
	}
	if c.Reminders.CheckIntervalSeconds == 0 {
		c.Reminders.CheckIntervalSeconds = 60
	}
	if c.Reminders.SendTimeoutSeconds == 0 {
		c.Reminders.SendTimeoutSeconds = 10
	}
	if c.Reminders.RatePerSecond == 0 {
		c.Reminders.RatePerSecond = 10
	}
	if c.Reminders.RateBurst == 0 {
		c.Reminders.RateBurst = 20
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "data/backups"
	}
	if c.Backup.IntervalHours == 0 {
		c.Backup.IntervalHours = 24
	}
	if c.Backup.RetentionDays == 0 {
		c.Backup.RetentionDays = 7
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}

// Location resolves the configured reminder timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Reminders.Timezone, err)
	}
	return loc, nil
}

// SendTimeout returns the per-channel outbound call timeout.
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Reminders.SendTimeoutSeconds) * time.Second
}

// CheckInterval returns the daemon scheduler tick interval.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Reminders.CheckIntervalSeconds) * time.Second
}

// BackupInterval returns how often database snapshots are taken.
func (c *Config) BackupInterval() time.Duration {
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}
