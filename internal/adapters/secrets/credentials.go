package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// Credentials is the merchant login pair stored in a secret
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ResolveCredentials reads the merchant login and password from path.
// The secret value is a JSON object with "login" and "password"; when it is
// not, the secret's metadata fields of the same names are used.
func ResolveCredentials(ctx context.Context, sm ports.SecretManagerAdapter, path string) (Credentials, error) {
	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to resolve FSS credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(strings.TrimSpace(secret.Value)), &creds); err != nil || creds.Login == "" {
		creds = Credentials{
			Login:    secret.Metadata["login"],
			Password: secret.Metadata["password"],
		}
	}

	if creds.Login == "" {
		return Credentials{}, pkgerrors.NewConfigurationError("login", fmt.Sprintf("secret %s has no login", path))
	}
	if creds.Password == "" {
		return Credentials{}, pkgerrors.NewConfigurationError("password", fmt.Sprintf("secret %s has no password", path))
	}
	return creds, nil
}
