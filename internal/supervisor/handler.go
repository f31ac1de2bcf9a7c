package supervisor

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/pkg/handlers"
	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/routes"
)

// Handler provides HTTP endpoints for supervisor operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "supervisor"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for supervisor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/supervisor",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/queue", Handler: h.Queue},
			{Method: "GET", Pattern: "/next", Handler: h.Next},
			{Method: "POST", Pattern: "/assets/{id}/override", Handler: h.Override},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/performance", Handler: h.Performance},
		},
	}
}

// Queue returns escalated assets with adjudication context.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Queue(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Next returns the longest-waiting pending escalation, or null when the
// queue is empty.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	item, err := h.sys.Next(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, item)
}

// Override records the caller's verdict on an asset, overwriting the QC status.
func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	var cmd OverrideCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	item, err := h.sys.Override(r.Context(), id, principal.ID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, item)
}

// Stats summarizes the escalation queue.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Performance returns the per-reviewer QC rollup.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	rollup, err := h.sys.Performance(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rollup)
}
