// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/internal/config"
	"github.com/opsfield/intake/internal/infrastructure"
	"github.com/opsfield/intake/pkg/middleware"
	"github.com/opsfield/intake/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every route under the module requires a verified bearer token; individual
// route groups add role checks on top.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(auth.Authenticate(runtime.Verifier, runtime.Logger))

	return m, nil
}
