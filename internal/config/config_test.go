package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Feed.Driver)

	wd, err := cfg.Calendar.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
store:
  driver: mongo
calendar:
  timezone: UTC
  week_start: monday
digest:
  schedule: "30 6 * * 1-5"
  recipients:
    - owner_id: owner-1
      email: ana@example.com
`)
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	wd, err := cfg.Calendar.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)
	require.Len(t, cfg.Digest.Recipients, 1)
	assert.Equal(t, "ana@example.com", cfg.Digest.Recipients[0].Email)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, "database:\n  host: db.internal\n")
	t.Setenv("PRACTICE_DATABASE_HOST", "replica.internal")
	t.Setenv("PRACTICE_RATE_LIMIT_BURST", "7")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "replica.internal", cfg.Database.Host)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  driver: sqlite\n"))
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Load(writeConfig(t, "feed:\n  driver: kafka\n"))
	assert.ErrorContains(t, err, "unknown feed driver")

	_, err = Load(writeConfig(t, "calendar:\n  timezone: Mars/Olympus\n"))
	assert.ErrorContains(t, err, "invalid calendar timezone")
}

func TestDatabaseURL(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.URL())
}
