package api

import (
	"net/http"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/internal/config"
	"github.com/opsfield/intake/pkg/routes"
)

type gate func(http.HandlerFunc) http.HandlerFunc

// guard wraps every route in the group with the default gate. Overrides
// keyed by "METHOD pattern" take precedence for individual routes.
func guard(group routes.Group, def gate, overrides map[string]gate) routes.Group {
	for i, route := range group.Routes {
		g := def
		if o, ok := overrides[route.Method+" "+route.Pattern]; ok {
			g = o
		}
		group.Routes[i].Handler = g(route.Handler)
	}
	for i, child := range group.Children {
		group.Children[i] = guard(child, def, overrides)
	}
	return group
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	logger := runtime.Logger

	admin := gate(auth.RequireRole(logger, auth.RoleAdmin))
	oversight := gate(auth.RequireRole(logger, auth.RoleAdmin, auth.RoleSupervisor))
	reviewer := gate(auth.RequireRole(logger, auth.RoleAdmin, auth.RoleSupervisor, auth.RoleQC))
	uploader := gate(auth.RequireRole(logger, auth.RoleAdmin, auth.RoleUpload))
	anyRole := gate(auth.RequireRole(logger, auth.Roles()...))

	routes.Register(
		mux,
		guard(domain.Users.Handler().Routes(), admin, nil),
		guard(domain.Assets.Handler().Routes(), oversight, map[string]gate{
			"POST /reset": admin,
		}),
		guard(domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(), uploader, map[string]gate{
			"GET /files/{id}": anyRole,
		}),
		guard(domain.QC.Handler().Routes(), reviewer, nil),
		guard(domain.Batches.Handler().Routes(), oversight, map[string]gate{
			"POST /assign": admin,
			"POST /remove": admin,
			"GET /mine":    reviewer,
		}),
		guard(domain.Supervisor.Handler().Routes(), oversight, nil),
		guard(domain.Exports.Handler().Routes(), oversight, nil),
		guard(domain.Settings.Handler().Routes(), admin, nil),
	)
}
