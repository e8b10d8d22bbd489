// Package api exposes the trip service over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iosugomez/kotxea/internal/middleware"
	"github.com/iosugomez/kotxea/internal/models"
	"github.com/iosugomez/kotxea/internal/service"
	"github.com/iosugomez/kotxea/internal/storage"
)

// TripService is what the handlers need from the service layer.
type TripService interface {
	Save(ctx context.Context, trips []models.Trip) error
	Records(ctx context.Context) ([]byte, error)
	Report(ctx context.Context, kind service.ReportKind) ([]byte, error)
	Settle(trips []models.Trip) (*models.Settlement, error)
}

// Handler serves the trip endpoints.
type Handler struct {
	trips TripService
}

// NewHandler creates a Handler on top of the given service.
func NewHandler(trips TripService) *Handler {
	return &Handler{trips: trips}
}

// readTrips decodes a non-empty trip list. Any decoding problem is reported
// to the client as "No data provided".
func (h *Handler) readTrips(w http.ResponseWriter, r *http.Request) ([]models.Trip, bool) {
	var trips []models.Trip
	if err := readJSON(w, r, &trips); err != nil || len(trips) == 0 {
		if err != nil {
			slog.Debug("Rejected request body", "path", r.URL.Path, "error", err,
				"request_id", middleware.GetRequestID(r.Context()))
		}
		errorResponse(w, http.StatusBadRequest, service.ErrNoData.Error())
		return nil, false
	}
	return trips, true
}

// Save handles POST /save.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	trips, ok := h.readTrips(w, r)
	if !ok {
		return
	}

	if err := h.trips.Save(r.Context(), trips); err != nil {
		h.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}

// Records handles GET /datos.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	data, err := h.trips.Records(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, "application/json", data)
}

// Report returns the handler of GET /csv/{kind} for one export.
func (h *Handler) Report(kind service.ReportKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := h.trips.Report(r.Context(), kind)
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			h.serviceError(w, err)
			return
		}
		writeRaw(w, http.StatusOK, "text/csv; charset=utf-8", content)
	}
}

// Settle handles POST /pagos-minimos.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	trips, ok := h.readTrips(w, r)
	if !ok {
		return
	}

	settlement, err := h.trips.Settle(trips)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(settlement))
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"status": "available"})
}

// serviceError maps service errors to status codes.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, service.ErrNoData):
		errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErr):
		errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
