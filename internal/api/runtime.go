package api

import (
	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/internal/config"
	"github.com/opsfield/intake/internal/infrastructure"
	"github.com/opsfield/intake/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Verifier   *auth.Verifier
	Pagination pagination.Config
	BatchSize  int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Verifier:   auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience),
		Pagination: cfg.API.Pagination,
		BatchSize:  cfg.API.AssignBatchSize,
	}
}
