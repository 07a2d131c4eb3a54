package services

import (
	"context"
	"errors"
	"sync"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// SearchResult is the combined-search envelope. Items holds the mapped,
// filtered entities of the requested kind.
type SearchResult struct {
	Items any    `json:"items"`
	Kind  string `json:"kind"`
}

// SearchService runs the combined free-text search across directory kinds.
type SearchService struct {
	repo   repositories.DirectoryRepository
	join   *JoinService
	engine *FilterEngine
}

// NewSearchService creates a new search service.
func NewSearchService(repo repositories.DirectoryRepository, join *JoinService, engine *FilterEngine) *SearchService {
	return &SearchService{repo: repo, join: join, engine: engine}
}

// Search fetches the requested kind's collections concurrently, maps and
// joins them, then applies the filter engine. Errors propagate to the
// handler, which owns the degrade-to-empty policy for this endpoint.
func (s *SearchService) Search(ctx context.Context, params repositories.SearchParams) (*SearchResult, error) {
	switch params.Kind {
	case repositories.SearchKindHospitals:
		return s.searchHospitals(ctx, params)
	case repositories.SearchKindTreatments:
		return s.searchTreatments(ctx, params)
	default:
		return s.searchDoctors(ctx, params)
	}
}

func (s *SearchService) searchDoctors(ctx context.Context, params repositories.SearchParams) (*SearchResult, error) {
	doctors, err := s.repo.Doctors(ctx)
	if err != nil {
		return nil, err
	}
	matched := s.engine.FilterDoctors(doctors, params)
	s.engine.SortDoctors(matched, params.Sort)
	return &SearchResult{
		Items: Paginate(matched, params.Page, params.PageSize),
		Kind:  string(repositories.SearchKindDoctors),
	}, nil
}

func (s *SearchService) searchHospitals(ctx context.Context, params repositories.SearchParams) (*SearchResult, error) {
	var hospitals []entities.Hospital
	var branches []entities.Branch
	err := runConcurrently(
		func() error {
			var fetchErr error
			hospitals, fetchErr = s.repo.Hospitals(ctx)
			return fetchErr
		},
		func() error {
			var fetchErr error
			branches, fetchErr = s.repo.Branches(ctx)
			return fetchErr
		},
	)
	if err != nil {
		return nil, err
	}

	joined := s.join.AttachBranches(hospitals, branches)
	matched := s.engine.FilterHospitals(joined, params)
	s.engine.SortHospitals(matched, params.Sort)
	return &SearchResult{
		Items: Paginate(matched, params.Page, params.PageSize),
		Kind:  string(repositories.SearchKindHospitals),
	}, nil
}

func (s *SearchService) searchTreatments(ctx context.Context, params repositories.SearchParams) (*SearchResult, error) {
	var treatments []entities.Treatment
	var branches []entities.Branch
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
			departments, fetchErr = s.repo.Departments(ctx)
			return fetchErr
		},
	)
	if err != nil {
		return nil, err
	}

	joined := s.join.AttachTreatmentAvailability(treatments, IndexBranches(branches), IndexDepartments(departments))
	matched := s.engine.FilterTreatments(joined, params)
	s.engine.SortTreatments(matched, params.Sort)
	return &SearchResult{
		Items: Paginate(matched, params.Page, params.PageSize),
		Kind:  string(repositories.SearchKindTreatments),
	}, nil
}

// runConcurrently issues the fetch closures in parallel and resumes only
// once all have settled.
func runConcurrently(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	return errors.Join(errs...)
}
