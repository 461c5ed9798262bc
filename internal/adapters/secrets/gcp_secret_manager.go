package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	"go.uber.org/zap"
)

// secretVersionAccessor is the part of the GCP client the adapter uses
type secretVersionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// GCPSecretManager implements ports.SecretManagerAdapter for Google Cloud Secret Manager
type GCPSecretManager struct {
	client    secretVersionAccessor
	closer    func() error
	projectID string
	logger    *zap.Logger
}

// NewGCPSecretManager creates a new GCP Secret Manager adapter.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS or workload identity.
func NewGCPSecretManager(ctx context.Context, projectID string, logger *zap.Logger) (*GCPSecretManager, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is required")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Secret Manager client: %w", err)
	}

	logger.Info("GCP Secret Manager initialized", zap.String("project_id", projectID))

	sm := newGCPSecretManager(client, projectID, logger)
	sm.closer = client.Close
	return sm, nil
}

func newGCPSecretManager(client secretVersionAccessor, projectID string, logger *zap.Logger) *GCPSecretManager {
	return &GCPSecretManager{
		client:    client,
		closer:    func() error { return nil },
		projectID: projectID,
		logger:    logger,
	}
}

// Close closes the GCP Secret Manager client
func (sm *GCPSecretManager) Close() error {
	return sm.closer()
}

// GetSecret reads the latest version of a secret.
// Slashes in path become dashes since GCP secret ids are flat.
func (sm *GCPSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	secretID := strings.ReplaceAll(strings.Trim(path, "/"), "/", "-")
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", sm.projectID, secretID)

	sm.logger.Info("Retrieving secret from GCP", zap.String("path", path), zap.String("secret_name", name))

	result, err := sm.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		sm.logger.Error("Failed to access GCP secret",
			zap.String("path", path),
			zap.String("secret_name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to access GCP secret %s: %w", path, err)
	}

	return &ports.Secret{
		Value:   string(result.GetPayload().GetData()),
		Version: extractVersionFromName(result.GetName()),
		Metadata: map[string]string{
			"gcp_project_id": sm.projectID,
			"gcp_secret":     secretID,
		},
	}, nil
}

// extractVersionFromName returns the trailing version of
// projects/{project}/secrets/{secret}/versions/{version}
func extractVersionFromName(name string) string {
	idx := strings.LastIndex(name, "/versions/")
	if idx < 0 {
		return ""
	}
	return name[idx+len("/versions/"):]
}
