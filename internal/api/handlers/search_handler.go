package handlers

import (
	"net/http"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/repositories"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
)

// SearchHandler handles the combined directory search endpoint.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /api/search. Upstream failures degrade to an empty
// result set with a 200 so the storefront keeps rendering.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := parseSearchParams(r.URL.Query())
	params.Kind = normalizeKind(params.Kind)

	result, err := h.service.Search(r.Context(), params)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("kind", string(params.Kind)).
			Str("query", params.Query).
			Msg("search degraded to empty result")
		respondWithJSON(w, http.StatusOK, services.SearchResult{
			Items: []any{},
			Kind:  string(params.Kind),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// normalizeKind collapses unknown type values onto the default kind.
func normalizeKind(kind repositories.SearchKind) repositories.SearchKind {
	switch kind {
	case repositories.SearchKindHospitals, repositories.SearchKindTreatments:
		return kind
	default:
		return repositories.SearchKindDoctors
	}
}
