package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Gateway     GatewayConfig
	Secrets     SecretsConfig
	Logger      LoggerConfig
}

// ServerConfig holds the callback and metrics listener ports
type ServerConfig struct {
	Port        int
	MetricsPort int
}

// GatewayConfig holds FSS gateway configuration
type GatewayConfig struct {
	Login     string
	Password  string
	TestMode  bool
	TestURL   string
	LiveURL   string
	Timeout   time.Duration
	Transport string // http or resty
}

// SecretsConfig selects where merchant credentials are read from.
// An empty Backend means FSS_LOGIN and FSS_PASSWORD are used directly.
type SecretsConfig struct {
	Backend  string // "", local, vault, aws, gcp
	Path     string
	LocalDir string

	VaultAddr  string
	VaultToken string
	VaultMount string

	AWSRegion   string
	AWSEndpoint string

	GCPProjectID string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load reads configuration from an optional .env file and environment variables
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("FSS_TEST_MODE", true)
	v.SetDefault("FSS_TEST_URL", "https://securepgtest.fssnet.co.in/pgway/servlet/")
	v.SetDefault("FSS_LIVE_URL", "https://securepg.fssnet.co.in/pgway/servlet/")
	v.SetDefault("FSS_TIMEOUT", "30s")
	v.SetDefault("FSS_TRANSPORT", "http")
	v.SetDefault("SECRETS_PATH", "fss/merchant")
	v.SetDefault("SECRETS_LOCAL_DIR", "./secrets")
	v.SetDefault("VAULT_MOUNT", "secret")
	v.SetDefault("LOG_LEVEL", "info")

	timeout, err := time.ParseDuration(v.GetString("FSS_TIMEOUT"))
	if err != nil {
		return nil, pkgerrors.NewConfigurationError("FSS_TIMEOUT", fmt.Sprintf("invalid duration %q", v.GetString("FSS_TIMEOUT")))
	}

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Server: ServerConfig{
			Port:        v.GetInt("SERVER_PORT"),
			MetricsPort: v.GetInt("METRICS_PORT"),
		},
		Gateway: GatewayConfig{
			Login:     v.GetString("FSS_LOGIN"),
			Password:  v.GetString("FSS_PASSWORD"),
			TestMode:  v.GetBool("FSS_TEST_MODE"),
			TestURL:   v.GetString("FSS_TEST_URL"),
			LiveURL:   v.GetString("FSS_LIVE_URL"),
			Timeout:   timeout,
			Transport: strings.ToLower(v.GetString("FSS_TRANSPORT")),
		},
		Secrets: SecretsConfig{
			Backend:     strings.ToLower(v.GetString("SECRETS_BACKEND")),
			Path:        v.GetString("SECRETS_PATH"),
			LocalDir:    v.GetString("SECRETS_LOCAL_DIR"),
			VaultAddr:   v.GetString("VAULT_ADDR"),
			VaultToken:  v.GetString("VAULT_TOKEN"),
			VaultMount:  v.GetString("VAULT_MOUNT"),
			AWSRegion:   v.GetString("AWS_REGION"),
			AWSEndpoint: v.GetString("AWS_SECRETS_ENDPOINT"),

			GCPProjectID: v.GetString("GCP_PROJECT_ID"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can build a gateway
func (c *Config) Validate() error {
	switch c.Gateway.Transport {
	case "http", "resty":
	default:
		return pkgerrors.NewConfigurationError("FSS_TRANSPORT", fmt.Sprintf("unsupported transport %q", c.Gateway.Transport))
	}
	if c.Gateway.Timeout <= 0 {
		return pkgerrors.NewConfigurationError("FSS_TIMEOUT", "must be positive")
	}

	switch c.Secrets.Backend {
	case "":
		if c.Gateway.Login == "" {
			return pkgerrors.NewConfigurationError("FSS_LOGIN", "is required when SECRETS_BACKEND is not set")
		}
		if c.Gateway.Password == "" {
			return pkgerrors.NewConfigurationError("FSS_PASSWORD", "is required when SECRETS_BACKEND is not set")
		}
	case "local":
		if c.Secrets.LocalDir == "" {
			return pkgerrors.NewConfigurationError("SECRETS_LOCAL_DIR", "is required for the local backend")
		}
	case "vault":
		if c.Secrets.VaultAddr == "" {
			return pkgerrors.NewConfigurationError("VAULT_ADDR", "is required for the vault backend")
		}
		if c.Secrets.VaultToken == "" {
			return pkgerrors.NewConfigurationError("VAULT_TOKEN", "is required for the vault backend")
		}
	case "aws":
		if c.Secrets.AWSRegion == "" {
			return pkgerrors.NewConfigurationError("AWS_REGION", "is required for the aws backend")
		}
	case "gcp":
		if c.Secrets.GCPProjectID == "" {
			return pkgerrors.NewConfigurationError("GCP_PROJECT_ID", "is required for the gcp backend")
		}
	default:
		return pkgerrors.NewConfigurationError("SECRETS_BACKEND", fmt.Sprintf("unsupported backend %q", c.Secrets.Backend))
	}

	if c.Secrets.Backend != "" && c.Secrets.Path == "" {
		return pkgerrors.NewConfigurationError("SECRETS_PATH", "is required when SECRETS_BACKEND is set")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
