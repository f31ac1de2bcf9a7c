package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsfield/intake/pkg/handlers"
	"github.com/opsfield/intake/pkg/routes"
)

// Handler provides HTTP endpoints for platform settings.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "settings"),
	}
}

// Routes returns the route group definition for settings endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/settings",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.All},
			{Method: "GET", Pattern: "/{key}", Handler: h.Get},
			{Method: "PUT", Pattern: "/{key}", Handler: h.Set},
		},
	}
}

// All lists every platform setting.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.All(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Get returns a single setting by key.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.sys.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, setting)
}

// Set creates or replaces a setting value.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrValidation)
		return
	}

	setting, err := h.sys.Set(r.Context(), r.PathValue("key"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, setting)
}
