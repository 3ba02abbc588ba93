package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: `+filepath.Join(dir, "data", "app.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.SiteURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.twilio.com", cfg.SMS.BaseURL)
	assert.Equal(t, "https://fcm.googleapis.com/fcm/send", cfg.Push.BaseURL)
	assert.Equal(t, "UTC", cfg.Reminders.Timezone)
	assert.Equal(t, 5, cfg.Reminders.ToleranceMinutes)
	assert.Equal(t, time.Minute, cfg.CheckInterval())
	assert.Equal(t, 10*time.Second, cfg.SendTimeout())
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval())
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_SMS_TOKEN", "tok-123")

	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: `+filepath.Join(dir, "app.db")+`
sms:
  auth_token: ${TEST_SMS_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.SMS.AuthToken)
}

func TestLoadExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
site_url: https://tasks.example.com
server:
  port: 9000
database:
  path: `+filepath.Join(dir, "app.db")+`
reminders:
  timezone: America/Chicago
  tolerance_minutes: 3
  check_interval_seconds: 30
backup:
  enabled: true
  interval_hours: 6
  retention_days: 14
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com", cfg.SiteURL)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Reminders.ToleranceMinutes)
	assert.Equal(t, 30*time.Second, cfg.CheckInterval())
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.BackupInterval())
	assert.Equal(t, 14, cfg.Backup.RetentionDays)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocationRejectsUnknownTimezone(t *testing.T) {
	cfg := &Config{}
	cfg.Reminders.Timezone = "Mars/Olympus"
	_, err := cfg.Location()
	assert.Error(t, err)
}
