package handler

import (
	"net/http"

	"linkbot/internal/model"
	"linkbot/internal/service"

	"github.com/rs/zerolog"
)

// LinksResponse is the link directory as served by the API.
type LinksResponse struct {
	Quick    []model.Link `json:"quick"`
	Channels []model.Link `json:"channels"`
	Sites    []model.Link `json:"sites"`
}

// LinkHandler handles link directory HTTP requests.
type LinkHandler struct {
	service service.LinkService
	logger  zerolog.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(service service.LinkService, logger zerolog.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		logger:  logger.With().Str("handler", "link").Logger(),
	}
}

// List handles GET /api/links requests.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	doc, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve links", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, LinksResponse{
		Quick:    doc.Quick,
		Channels: doc.Channels,
		Sites:    doc.Sites,
	})
}
