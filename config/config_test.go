package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  env: test
  serviceName: account-test
  debug: false
  log:
    pretty: false
    level: info
http:
  port: 8080
  timeouts:
    readTimeout: 5s
storage:
  driver: memory
secretKey:
  access: from-file
auth:
  bcryptCost: 4
  tokenTTL: 1h
passwordPolicy:
  minLength: 8
`

// writeConfig stores the fixture as test.yaml so it cannot collide with the
// config.yaml that lives next to this package.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, testConfigYAML)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("AUTH_TOKENTTL", "30m")

	cfg, err := LoadWithEnv[Config]("test", dir)
	require.NoError(t, err)

	assert.Equal(t, "account-test", cfg.Env.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	require.NotNil(t, cfg.Storage)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	require.NotNil(t, cfg.PasswordPolicy)
	assert.Equal(t, 8, cfg.PasswordPolicy.MinLength)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml not found")
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, defaultServiceName, cfg.Env.ServiceName)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, defaultServiceName, cfg.Auth.Issuer)
	assert.Equal(t, 6, cfg.PasswordPolicy.MinLength)
	assert.Equal(t, 72, cfg.PasswordPolicy.MaxLength)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestConfig_ApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Storage: &StorageConfig{Driver: " Memory "},
		Auth:    &AuthConfig{BcryptCost: 12, TokenTTL: time.Hour, Issuer: "issuer"},
		Metrics: &MetricsConfig{Enabled: true, Path: "/internal/metrics"},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "issuer", cfg.Auth.Issuer)
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Path)
}
