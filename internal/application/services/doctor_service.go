package services

import (
	"context"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// DoctorPage is the doctors-listing envelope.
type DoctorPage struct {
	Items      []entities.Doctor `json:"items"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

// DoctorService backs the doctors listing and detail endpoints.
type DoctorService struct {
	repo   repositories.DirectoryRepository
	engine *FilterEngine
}

// NewDoctorService creates a new doctor service.
func NewDoctorService(repo repositories.DirectoryRepository, engine *FilterEngine) *DoctorService {
	return &DoctorService{repo: repo, engine: engine}
}

// List returns one page of doctors matching the filters.
func (s *DoctorService) List(ctx context.Context, params repositories.SearchParams) (*DoctorPage, error) {
	doctors, err := s.repo.Doctors(ctx)
	if err != nil {
		return nil, err
	}

	matched := s.engine.FilterDoctors(doctors, params)
	s.engine.SortDoctors(matched, params.Sort)

	pageSize := ClampPageSize(params.PageSize)
	return &DoctorPage{
		Items:      Paginate(matched, params.Page, pageSize),
		TotalCount: len(matched),
		Page:       params.Page,
		PageSize:   pageSize,
	}, nil
}

// BySlug returns one doctor by URL slug.
func (s *DoctorService) BySlug(ctx context.Context, slug string) (*entities.Doctor, error) {
	return s.repo.DoctorBySlug(ctx, slug)
}
