package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_LoadsYAMLAndEnvOverride(t *testing.T) {
	path := writeTestConfig(t, `
server:
  port: "8080"
  session_secret: "test-secret"
admin:
  master_email: "mayor@city.gov"
email:
  enabled: false
  smtp:
    host: "smtp.example.org"
    port: 587
`)
	t.Setenv("CIVICCARE_CONFIG_FILE", path)
	t.Setenv("ADMIN_MASTER_EMAIL", "override@city.gov")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.override.org")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "override@city.gov", cfg.Admin.MasterEmail)
	assert.Equal(t, "smtp.override.org", cfg.Email.SMTP.Host)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.False(t, cfg.Email.Enabled)
}

func TestNewConfig_MissingFile(t *testing.T) {
	t.Setenv("CIVICCARE_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestAdminConfig_IsMasterEmail(t *testing.T) {
	cfg := AdminConfig{MasterEmail: "Mayor@City.gov"}

	assert.True(t, cfg.IsMasterEmail("mayor@city.gov"))
	assert.True(t, cfg.IsMasterEmail("  MAYOR@CITY.GOV  "))
	assert.False(t, cfg.IsMasterEmail("clerk@city.gov"))
	assert.False(t, cfg.IsMasterEmail(""))

	// An unset master email never matches, even empty-to-empty
	unset := AdminConfig{}
	assert.False(t, unset.IsMasterEmail(""))
	assert.False(t, unset.IsMasterEmail("mayor@city.gov"))
}

func TestCORSOriginsSliceOverride(t *testing.T) {
	path := writeTestConfig(t, `
server:
  port: "8080"
  cors_origins:
    - "http://localhost:3000"
`)
	t.Setenv("CIVICCARE_CONFIG_FILE", path)
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}
