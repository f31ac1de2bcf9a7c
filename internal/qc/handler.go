package qc

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

// Handler provides HTTP endpoints for reviewer QC operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "qc"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for QC endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/qc",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/assets", Handler: h.ListAssigned},
			{Method: "POST", Pattern: "/next", Handler: h.FetchNext},
			{Method: "POST", Pattern: "/assets/{id}/review", Handler: h.SubmitReview},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
		},
	}
}

// ListAssigned returns the calling reviewer's assigned assets.
func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListAssigned(r.Context(), principal.ID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FetchNext claims the next claimable asset in the batch for the caller.
// Responds 200 with a null asset when the batch is exhausted.
func (h *Handler) FetchNext(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	var req struct {
		BatchID string `json:"batch_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBatchRequired)
		return
	}

	result, err := h.sys.FetchNext(r.Context(), principal.ID, req.BatchID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SubmitReview records the caller's verdict on an asset.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
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

	var cmd ReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	asset, err := h.sys.SubmitReview(r.Context(), id, principal.ID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, asset)
}

// Stats returns the caller's workload summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	stats, err := h.sys.Stats(r.Context(), principal.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}
