package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every key Load reads so host settings do not leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "SERVER_PORT", "METRICS_PORT", "LOG_LEVEL",
		"FSS_LOGIN", "FSS_PASSWORD", "FSS_TEST_MODE", "FSS_TEST_URL", "FSS_LIVE_URL",
		"FSS_TIMEOUT", "FSS_TRANSPORT",
		"SECRETS_BACKEND", "SECRETS_PATH", "SECRETS_LOCAL_DIR",
		"VAULT_ADDR", "VAULT_TOKEN", "VAULT_MOUNT", "AWS_REGION", "AWS_SECRETS_ENDPOINT", "GCP_PROJECT_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FSS_LOGIN", "merchant")
	t.Setenv("FSS_PASSWORD", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.True(t, cfg.Gateway.TestMode)
	assert.Equal(t, "https://securepgtest.fssnet.co.in/pgway/servlet/", cfg.Gateway.TestURL)
	assert.Equal(t, "https://securepg.fssnet.co.in/pgway/servlet/", cfg.Gateway.LiveURL)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "http", cfg.Gateway.Transport)
	assert.Equal(t, "", cfg.Secrets.Backend)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("FSS_TEST_MODE", "false")
	t.Setenv("FSS_TIMEOUT", "5s")
	t.Setenv("FSS_TRANSPORT", "RESTY")
	t.Setenv("SECRETS_BACKEND", "vault")
	t.Setenv("VAULT_ADDR", "https://vault.internal:8200")
	t.Setenv("VAULT_TOKEN", "root")
	t.Setenv("SECRETS_PATH", "fss/live")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Gateway.TestMode)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "resty", cfg.Gateway.Transport)
	assert.Equal(t, "vault", cfg.Secrets.Backend)
	assert.Equal(t, "fss/live", cfg.Secrets.Path)
	assert.Equal(t, "secret", cfg.Secrets.VaultMount)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FSS_LOGIN=fromfile\nFSS_PASSWORD=filepass\nSERVER_PORT=9000\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("FSS_LOGIN")
		os.Unsetenv("FSS_PASSWORD")
		os.Unsetenv("SERVER_PORT")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Gateway.Login)
	assert.Equal(t, "filepass", cfg.Gateway.Password)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("FSS_LOGIN", "merchant")
	t.Setenv("FSS_PASSWORD", "s3cret")
	t.Setenv("FSS_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	var cfgErr *pkgerrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "FSS_TIMEOUT", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Gateway: GatewayConfig{Login: "merchant", Password: "s3cret", Timeout: time.Second, Transport: "http"},
			Secrets: SecretsConfig{Path: "fss/merchant", LocalDir: "./secrets"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "direct credentials", mutate: func(c *Config) {}},
		{name: "missing login", mutate: func(c *Config) { c.Gateway.Login = "" }, wantField: "FSS_LOGIN"},
		{name: "missing password", mutate: func(c *Config) { c.Gateway.Password = "" }, wantField: "FSS_PASSWORD"},
		{name: "unknown transport", mutate: func(c *Config) { c.Gateway.Transport = "grpc" }, wantField: "FSS_TRANSPORT"},
		{name: "zero timeout", mutate: func(c *Config) { c.Gateway.Timeout = 0 }, wantField: "FSS_TIMEOUT"},
		{
			name: "local backend without login",
			mutate: func(c *Config) {
				c.Gateway.Login, c.Gateway.Password = "", ""
				c.Secrets.Backend = "local"
			},
		},
		{name: "vault without address", mutate: func(c *Config) { c.Secrets.Backend = "vault" }, wantField: "VAULT_ADDR"},
		{
			name: "vault without token",
			mutate: func(c *Config) {
				c.Secrets.Backend = "vault"
				c.Secrets.VaultAddr = "http://127.0.0.1:8200"
			},
			wantField: "VAULT_TOKEN",
		},
		{name: "aws without region", mutate: func(c *Config) { c.Secrets.Backend = "aws" }, wantField: "AWS_REGION"},
		{
			name: "backend without path",
			mutate: func(c *Config) {
				c.Secrets.Backend = "aws"
				c.Secrets.AWSRegion = "ap-south-1"
				c.Secrets.Path = ""
			},
			wantField: "SECRETS_PATH",
		},
		{name: "gcp without project", mutate: func(c *Config) { c.Secrets.Backend = "gcp" }, wantField: "GCP_PROJECT_ID"},
		{
			name: "gcp with project",
			mutate: func(c *Config) {
				c.Secrets.Backend = "gcp"
				c.Secrets.GCPProjectID = "my-project"
			},
		},
		{name: "unknown backend", mutate: func(c *Config) { c.Secrets.Backend = "azure" }, wantField: "SECRETS_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *pkgerrors.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}
