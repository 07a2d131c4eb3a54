package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

// TreatmentPage is the treatments-listing envelope. Total is the size of
// the full joined catalogue; FilteredCount is the match count before
// pagination.
type TreatmentPage struct {
	Items         []entities.Treatment `json:"items"`
	Total         int                  `json:"total"`
	FilteredCount int                  `json:"filteredCount"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"pageSize"`
}

// TreatmentService serves the treatment catalogue. The fetch+join pipeline
// is expensive (four collections), so the joined result is held in a single
// TTL cache and per-request filters run against the cached snapshot.
type TreatmentService struct {
	repo   repositories.DirectoryRepository
	join   *JoinService
	engine *FilterEngine
	cache  *ResultCache[[]entities.Treatment]
}

// NewTreatmentService creates a treatment service with the given cache TTL.
// now may be nil outside tests.
func NewTreatmentService(repo repositories.DirectoryRepository, join *JoinService, engine *FilterEngine, ttl time.Duration, now func() time.Time) *TreatmentService {
	return &TreatmentService{
		repo:   repo,
		join:   join,
		engine: engine,
		cache:  NewResultCache[[]entities.Treatment](ttl, now),
	}
}

// List returns one page of treatments with availability attached, served
// from the cache when warm.
func (s *TreatmentService) List(ctx context.Context, params repositories.TreatmentListParams) (*TreatmentPage, error) {
	catalogue, err := s.cache.GetOrFetch(ctx, s.buildCatalogue)
	if err != nil {
		return nil, err
	}

	matched := []entities.Treatment{}
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, t := range catalogue {
		if query != "" && !strings.Contains(strings.ToLower(treatmentHaystack(t)), query) {
			continue
		}
		if params.Category != "" && !strings.EqualFold(t.Category, params.Category) {
			continue
		}
		if params.Popular && !t.Popular {
			continue
		}
		if params.MinCost > 0 && t.MaxCost > 0 && t.MaxCost < params.MinCost {
			continue
		}
		if params.MaxCost > 0 && t.MinCost > params.MaxCost {
			continue
		}
		matched = append(matched, t)
	}

	pageSize := ClampPageSize(params.PageSize)
	return &TreatmentPage{
		Items:         Paginate(matched, params.Page, pageSize),
		Total:         len(catalogue),
		FilteredCount: len(matched),
		Page:          params.Page,
		PageSize:      pageSize,
	}, nil
}

// BySlug returns one treatment from the cached catalogue.
func (s *TreatmentService) BySlug(ctx context.Context, slug string) (*entities.Treatment, error) {
	catalogue, err := s.cache.GetOrFetch(ctx, s.buildCatalogue)
	if err != nil {
		return nil, err
	}
	for _, t := range catalogue {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no treatment with slug " + slug)
}

// buildCatalogue fetches the four source collections concurrently and joins
// them into the cached snapshot.
func (s *TreatmentService) buildCatalogue(ctx context.Context) ([]entities.Treatment, error) {
	var treatments []entities.Treatment
	var branches []entities.Branch
	var cities []entities.City
	var departments []entities.Department

	err := runConcurrently(
		func() error {
			var fetchErr error
			treatments, fetchErr = s.repo.Treatments(ctx)
			return fetchErr
		},
		func() error {
			var fetchErr error
			branches, fetchErr = s.repo.Branches(ctx)
			return fetchErr
		},
		func() error {
			var fetchErr error
			cities, fetchErr = s.repo.Cities(ctx)
			return fetchErr
		},
		func() error {
			var fetchErr error
			departments, fetchErr = s.repo.Departments(ctx)
			return fetchErr
		},
	)
	if err != nil {
		return nil, err
	}

	branches = s.join.AttachCities(branches, IndexCities(cities))
	joined := s.join.AttachTreatmentAvailability(treatments, IndexBranches(branches), IndexDepartments(departments))
	log.Info().Int("treatments", len(joined)).Msg("treatment catalogue refreshed")
	return joined, nil
}
