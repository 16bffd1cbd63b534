package handler

import (
	"encoding/json"
	"net/http"

	"linkbot/internal/model"
	"linkbot/internal/service"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies of the admin API.
const maxBodyBytes = 1 << 16

// PromoHandler handles promo campaign HTTP requests.
type PromoHandler struct {
	service service.PromoService
	logger  zerolog.Logger
}

// NewPromoHandler creates a new promo handler.
func NewPromoHandler(service service.PromoService, logger zerolog.Logger) *PromoHandler {
	return &PromoHandler{
		service: service,
		logger:  logger.With().Str("handler", "promo").Logger(),
	}
}

// ServeHTTP routes /api/promo by method.
func (h *PromoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPatch:
		h.Update(w, r)
	default:
		methodNotAllowed(w, r, h.logger)
	}
}

// Get handles GET /api/promo requests.
func (h *PromoHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve promo status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Update handles PATCH /api/promo requests.
func (h *PromoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings model.PromoSettings

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	status, err := h.service.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeServiceError(w, r, err, "failed to update promo settings", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
