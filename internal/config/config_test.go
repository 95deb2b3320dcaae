package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
server:
  host: "0.0.0.0"
  port: 5000
jwt:
  secret: "file-secret-minimum-32-characters-long!!"
  session_expiry: "1h"
`

// Load reads config.yaml from the working directory, so each test runs
// from its own temp dir.
func loadFromTempConfig(t *testing.T) (*config.Config, error) {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfigYAML), 0o644)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	return config.Load()
}

func TestLoad_ReadsServerPortFromFile(t *testing.T) {
	cfg, err := loadFromTempConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoad_PortEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := loadFromTempConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_InvalidPortEnvRejected(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := loadFromTempConfig(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoad_JWTSecretEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-minimum-32-characters-long!!!")

	cfg, err := loadFromTempConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "env-secret-minimum-32-characters-long!!!", cfg.JWT.Secret)
}
