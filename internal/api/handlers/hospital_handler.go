package handlers

import (
	"net/http"
	"strings"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// HospitalHandler handles hospital-related HTTP requests
type HospitalHandler struct {
	service *services.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(service *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

// ListHospitals handles GET /api/hospitals
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params := repositories.HospitalListParams{
		Query:    strings.TrimSpace(values.Get("q")),
		City:     strings.TrimSpace(values.Get("city")),
		Doctor:   strings.TrimSpace(values.Get("doctor")),
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

// GetHospital handles GET /api/hospitals/{slug}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "hospital slug is required")
		return
	}

	hospital, err := h.service.BySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}
