// Package secrets resolves service credentials from HashiCorp Vault.
package secrets

import (
	"context"
	"fmt"
	"path"

	vault "github.com/hashicorp/vault/api"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// Keys read from the KV v2 secret.
const (
	KeyDatabasePassword = "database_password"
	KeyRedisPassword    = "redis_password"
)

// VaultResolver reads a single KV v2 secret holding the service credentials.
type VaultResolver struct {
	client     *vault.Client
	log        logger.Logger
	mountPath  string
	secretPath string
}

// NewVaultResolver creates and configures a Vault-backed resolver.
func NewVaultResolver(cfg *config.VaultConfig, log logger.Logger) (*VaultResolver, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}
	client.SetToken(cfg.Token)

	return NewVaultResolverWithClient(client, cfg.MountPath, cfg.SecretPath, log), nil
}

// NewVaultResolverWithClient creates a resolver over an existing client.
func NewVaultResolverWithClient(client *vault.Client, mountPath, secretPath string, log logger.Logger) *VaultResolver {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &VaultResolver{
		client:     client,
		log:        log.WithComponent("VaultResolver"),
		mountPath:  mountPath,
		secretPath: secretPath,
	}
}

// Fetch returns the string values of the secret.
func (r *VaultResolver) Fetch(ctx context.Context) (map[string]string, error) {
	fullPath := path.Join(r.mountPath, "data", r.secretPath)
	secret, err := r.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		r.log.Error(ctx, "Vault read failed", err, logger.String("path", fullPath))
		return nil, errors.ErrTemporarilyUnavailable("vault read failed").WithCause(err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.ErrNotFound(fmt.Sprintf("vault secret not found: %s", fullPath))
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, errors.ErrServerError(fmt.Sprintf("vault secret %s has no data section", fullPath))
	}

	values := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values, nil
}

// Apply overrides inline database and redis passwords with the values stored in Vault.
// Keys missing from the secret leave the configured value untouched.
func (r *VaultResolver) Apply(ctx context.Context, cfg *config.Config) error {
	values, err := r.Fetch(ctx)
	if err != nil {
		return err
	}
	if v, ok := values[KeyDatabasePassword]; ok {
		cfg.Database.Password = v
	}
	if v, ok := values[KeyRedisPassword]; ok {
		cfg.Redis.Password = v
	}
	r.log.Info(ctx, "Credentials resolved from Vault", logger.Int("keys", len(values)))
	return nil
}

//Personal.AI order the ending
