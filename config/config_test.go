package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesTOMLAndAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `ValidatorURL = "http://validator.example:8008"
DBHost = "db.example"
DBPort = 5433
DBName = "chain"
RetryWaitSeconds = 2
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	t.Setenv("DB_HOST", "override.example")
	t.Setenv("JWT_SECRET", "super-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://validator.example:8008", cfg.ValidatorURL)
	require.Equal(t, "override.example", cfg.DBHost)
	require.Equal(t, 5433, cfg.DBPort)
	require.Equal(t, 2*time.Second, cfg.RetryWait)
	require.Equal(t, "super-secret", cfg.JWTSecret)
}

func TestLoadCreatesDefaultFileAndKeystore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("VALIDATOR_URL", "http://127.0.0.1:8008")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.FileExists(t, cfg.KeystorePath)
	require.Equal(t, "insecure-development-secret", cfg.JWTSecret)
}

func TestLoadRequiresValidatorURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("DBHost = \"x\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
