package handlers

import (
	"net/http"

	"github.com/medatlas/directory-api/internal/application/services"
)

// DoctorHandler handles doctor-related HTTP requests
type DoctorHandler struct {
	service *services.DoctorService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	params := parseSearchParams(r.URL.Query())

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetDoctor handles GET /api/doctors/{slug}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "doctor slug is required")
		return
	}

	doctor, err := h.service.BySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}
