package handlers

import (
	"net/http"

	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// DirectoryHandler serves the small lookup collections
type DirectoryHandler struct {
	repo repositories.DirectoryRepository
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(repo repositories.DirectoryRepository) *DirectoryHandler {
	return &DirectoryHandler{repo: repo}
}

// ListCities handles GET /api/cities
func (h *DirectoryHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.repo.Cities(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": cities,
		"count": len(cities),
	})
}

// ListDepartments handles GET /api/departments
func (h *DirectoryHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repo.Departments(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": departments,
		"count": len(departments),
	})
}
