package exports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/opsfield/intake/pkg/handlers"
	"github.com/opsfield/intake/pkg/routes"
)

// Handler provides HTTP endpoints for export and reporting operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "exports"),
	}
}

// Routes returns the route group definition for export endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/exports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/csv", Handler: h.ExportCSV},
			{Method: "GET", Pattern: "/stats", Handler: h.ExportStats},
			{Method: "GET", Pattern: "/options", Handler: h.Options},
			{Method: "GET", Pattern: "/progress", Handler: h.Progress},
		},
	}
}

// ExportCSV streams the filtered QC results as a CSV attachment.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename(time.Now())+`"`)

	if err := h.sys.ExportCSV(r.Context(), w, filters); err != nil {
		// Headers are already committed once rows stream, so a mid-export
		// failure can only be logged.
		h.logger.Error("csv export failed", "error", err)
	}
}

// ExportStats summarizes the assets matching the export filter.
func (h *Handler) ExportStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.ExportStats(r.Context(), FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Options lists the values available for export filtering.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.sys.Options(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, options)
}

// Progress returns the pool-wide completion rollups.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.sys.Progress(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, progress)
}
