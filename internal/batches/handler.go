package batches

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/pkg/handlers"
	"github.com/opsfield/intake/pkg/routes"
)

// Handler provides HTTP endpoints for batch assignment operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "batches"),
	}
}

// Routes returns the route group definition for batch endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/batches",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.All},
			{Method: "POST", Pattern: "/assign", Handler: h.Assign},
			{Method: "POST", Pattern: "/remove", Handler: h.Remove},
			{Method: "GET", Pattern: "/unassigned-users", Handler: h.UnassignedUsers},
			{Method: "GET", Pattern: "/locales", Handler: h.Locales},
			{Method: "GET", Pattern: "/categories", Handler: h.Categories},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/mine", Handler: h.Mine},
		},
	}
}

// All returns the admin rollup of every partition.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sys.All(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summaries)
}

// Assign claims partition assets for a reviewer.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	var cmd AssignCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	result, err := h.sys.AssignUser(r.Context(), principal.ID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Remove releases a reviewer from a partition. Removing an absent
// assignment succeeds.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var cmd RemoveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	if err := h.sys.RemoveUser(r.Context(), cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnassignedUsers returns reviewers available for a partition.
func (h *Handler) UnassignedUsers(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	category := r.URL.Query().Get("booking_category")

	users, err := h.sys.ListUnassignedUsers(r.Context(), locale, category)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, users)
}

// Locales returns the distinct locales present in the asset pool.
func (h *Handler) Locales(w http.ResponseWriter, r *http.Request) {
	locales, err := h.sys.Locales(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, locales)
}

// Categories returns booking categories for a locale with asset counts.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.sys.Categories(r.Context(), r.URL.Query().Get("locale"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, categories)
}

// Stats returns the live progress view for one partition.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	category := r.URL.Query().Get("booking_category")

	stats, err := h.sys.Stats(r.Context(), locale, category)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Mine returns the calling reviewer's active batches with live progress.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	batches, err := h.sys.UserBatches(r.Context(), principal.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, batches)
}
