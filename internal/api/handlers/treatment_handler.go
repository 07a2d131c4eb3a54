package handlers

import (
	"net/http"
	"strings"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// TreatmentHandler handles treatment-catalogue HTTP requests
type TreatmentHandler struct {
	service *services.TreatmentService
}

// NewTreatmentHandler creates a new treatment handler
func NewTreatmentHandler(service *services.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{service: service}
}

// ListTreatments handles GET /api/treatments
func (h *TreatmentHandler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params := repositories.TreatmentListParams{
		Query:    strings.TrimSpace(values.Get("q")),
		Category: strings.TrimSpace(values.Get("category")),
		Popular:  queryBool(values, "popular"),
		MinCost:  queryFloat(values, "minCost"),
		MaxCost:  queryFloat(values, "maxCost"),
		Page:     queryInt(values, "page"),
		PageSize: queryInt(values, "pageSize"),
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetTreatment handles GET /api/treatments/{slug}
func (h *TreatmentHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "treatment slug is required")
		return
	}

	treatment, err := h.service.BySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, treatment)
}
