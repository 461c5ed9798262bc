package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kevin07696/fss-gateway/internal/adapters/fss"
	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	"github.com/kevin07696/fss-gateway/internal/adapters/secrets"
	"github.com/kevin07696/fss-gateway/internal/adapters/transport"
	"github.com/kevin07696/fss-gateway/internal/config"
	"github.com/kevin07696/fss-gateway/internal/handlers/preauth"
	pkghttp "github.com/kevin07696/fss-gateway/pkg/http"
	"github.com/kevin07696/fss-gateway/pkg/middleware"
	"github.com/kevin07696/fss-gateway/pkg/observability"
	"github.com/kevin07696/fss-gateway/pkg/shutdown"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting FSS gateway",
		zap.String("environment", cfg.Environment),
		zap.Bool("test_mode", cfg.Gateway.TestMode),
		zap.String("transport", cfg.Gateway.Transport),
		zap.String("secrets_backend", cfg.Secrets.Backend),
	)

	ctx := context.Background()

	sm, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secret manager", zap.Error(err))
	}

	login, password := cfg.Gateway.Login, cfg.Gateway.Password
	if sm != nil {
		creds, err := secrets.ResolveCredentials(ctx, sm, cfg.Secrets.Path)
		if err != nil {
			logger.Fatal("Failed to resolve FSS credentials", zap.Error(err))
		}
		login, password = creds.Login, creds.Password
	}

	metrics := observability.NewGatewayMetrics(prometheus.DefaultRegisterer)

	gw, err := fss.New(&fss.Config{
		Login:    login,
		Password: password,
		TestMode: cfg.Gateway.TestMode,
		TestURL:  cfg.Gateway.TestURL,
		LiveURL:  cfg.Gateway.LiveURL,
	}, initTransport(cfg, logger), logger, fss.WithRecorder(metrics))
	if err != nil {
		logger.Fatal("Failed to create FSS gateway", zap.Error(err))
	}

	healthChecker := observability.NewHealthChecker()
	if sm != nil {
		healthChecker.Register("secrets", func(ctx context.Context) error {
			_, err := sm.GetSecret(ctx, cfg.Secrets.Path)
			return err
		})
	}
	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)

	rateLimiter := middleware.NewRateLimiter(10, 20, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(rateLimiter.Middleware)
	preauth.NewCallbackHandler(gw, logger).AppendRoutes(router)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Gateway.Timeout + 5*time.Second,
	}

	go func() {
		logger.Info("Callback server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Shut down in reverse order: callback server first
	shutdownManager := shutdown.NewManager(logger, 10*time.Second)
	shutdownManager.RegisterHTTPServer("metrics_server", metricsServer)
	shutdownManager.RegisterNoErr("rate_limiter", rateLimiter.Shutdown)
	if closer, ok := sm.(interface{ Close() error }); ok {
		shutdownManager.Register("secret_manager", func(ctx context.Context) error { return closer.Close() })
	}
	shutdownManager.RegisterHTTPServer("callback_server", httpServer)

	if err := shutdownManager.WaitForShutdown(); err != nil {
		logger.Error("Shutdown completed with errors", zap.Error(err))
	}
	logger.Info("Servers stopped")
}

func initLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.IsProduction() {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, _ := zapCfg.Build()
		return logger
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, _ := zapCfg.Build()
	return logger
}

// initSecretManager returns nil when credentials come straight from the environment
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Secrets.Backend {
	case "":
		return nil, nil
	case "local":
		logger.Warn("Using local secret manager - development only", zap.String("dir", cfg.Secrets.LocalDir))
		return secrets.NewLocalSecretManager(cfg.Secrets.LocalDir, logger), nil
	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddr)
		vaultCfg.Token = cfg.Secrets.VaultToken
		vaultCfg.MountPath = cfg.Secrets.VaultMount
		return secrets.NewVaultAdapter(ctx, vaultCfg, logger)
	case "aws":
		return secrets.NewAWSSecretsManagerAdapter(ctx, &secrets.AWSSecretsManagerConfig{
			Region:   cfg.Secrets.AWSRegion,
			Endpoint: cfg.Secrets.AWSEndpoint,
		}, logger)
	case "gcp":
		gcp, err := secrets.NewGCPSecretManager(ctx, cfg.Secrets.GCPProjectID, logger)
		if err != nil {
			return nil, err
		}
		return gcp, nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q", cfg.Secrets.Backend)
	}
}

func initTransport(cfg *config.Config, logger *zap.Logger) ports.Transport {
	if cfg.Gateway.Transport == "resty" {
		return transport.NewRestyTransport(cfg.Gateway.Timeout, logger)
	}
	client := pkghttp.NewHTTPClient(pkghttp.FSSClientConfig(), cfg.Gateway.Timeout)
	return transport.NewHTTPTransport(client, logger)
}
