// Package secrets resolves runtime secrets, currently the AI API key. Vault
// serves shared deployments; the environment fallback serves local runs.
package secrets

import (
	"context"
	"os"

	vault "github.com/hashicorp/vault/api"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Provider resolves a named secret.
type Provider interface {
	Get(ctx context.Context, name string) (string, error)
}

// VaultProvider reads secrets from a Vault KV v2 mount. Secret values are
// stored under the "value" field of the named secret path.
type VaultProvider struct {
	client    *vault.Client
	mountPath string
	logger    logger.Logger
}

var _ Provider = (*VaultProvider)(nil)

// NewVaultProvider connects to Vault using the configured address and token.
func NewVaultProvider(cfg *config.VaultConfig, log logger.Logger) (*VaultProvider, error) {
	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Address

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to create vault client")
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	log.Info(context.Background(), "vault secret provider ready", logger.Fields{
		"address":    cfg.Address,
		"mount_path": cfg.MountPath,
	})
	return &VaultProvider{
		client:    client,
		mountPath: cfg.MountPath,
		logger:    log.WithComponent("vault-secrets"),
	}, nil
}

// Get reads the secret at name under the configured mount.
func (p *VaultProvider) Get(ctx context.Context, name string) (string, error) {
	secret, err := p.client.KVv2(p.mountPath).Get(ctx, name)
	if err != nil {
		p.logger.Error(ctx, "failed to read secret", err, logger.Fields{"name": name})
		return "", errors.Wrap(err, errors.CodeUnavailable, "failed to read secret "+name)
	}

	value, ok := secret.Data["value"].(string)
	if !ok || value == "" {
		return "", errors.New(errors.CodeNotFound, "secret "+name+" has no value field")
	}
	return value, nil
}

// EnvProvider resolves secrets from environment variables. The secret name is
// the variable name.
type EnvProvider struct{}

var _ Provider = (*EnvProvider)(nil)

// NewEnvProvider creates an EnvProvider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Get reads the environment variable name.
func (p *EnvProvider) Get(ctx context.Context, name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", errors.New(errors.CodeNotFound, "environment variable "+name+" is not set")
}
