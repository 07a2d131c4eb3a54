package services

import (
	"context"
	"strings"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// branchPreviewLimit caps how many branches ride along on a listing row;
// the full list is available on the hospital detail endpoint.
const branchPreviewLimit = 3

// HospitalPage is the hospitals-listing envelope.
type HospitalPage struct {
	Items      []entities.Hospital `json:"items"`
	TotalCount int                 `json:"totalCount"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
}

// HospitalService backs the hospitals listing and detail endpoints.
type HospitalService struct {
	repo   repositories.DirectoryRepository
	join   *JoinService
	engine *FilterEngine
}

// NewHospitalService creates a new hospital service.
func NewHospitalService(repo repositories.DirectoryRepository, join *JoinService, engine *FilterEngine) *HospitalService {
	return &HospitalService{repo: repo, join: join, engine: engine}
}

// List returns one page of hospitals enriched with branch previews and
// counts. Unlike search, upstream failures here propagate to the caller.
func (s *HospitalService) List(ctx context.Context, params repositories.HospitalListParams) (*HospitalPage, error) {
	var hospitals []entities.Hospital
	var branches []entities.Branch
	var doctors []entities.Doctor

	fetches := []func() error{
		func() error {
			var err error
			hospitals, err = s.repo.Hospitals(ctx)
			return err
		},
		func() error {
			var err error
			branches, err = s.repo.Branches(ctx)
			return err
		},
	}
	if params.Doctor != "" {
		fetches = append(fetches, func() error {
			var err error
			doctors, err = s.repo.Doctors(ctx)
			return err
		})
	}
	if err := runConcurrently(fetches...); err != nil {
		return nil, err
	}

	joined := s.join.AttachBranches(hospitals, branches)

	matched := []entities.Hospital{}
	query := strings.ToLower(strings.TrimSpace(params.Query))
	wanted := hospitalsWithDoctor(doctors, params.Doctor)
	for _, h := range joined {
		if query != "" && !strings.Contains(strings.ToLower(hospitalHaystack(h)), query) {
			continue
		}
		if params.City != "" && !hospitalInCity(h, params.City) {
			continue
		}
		if params.Doctor != "" {
			if _, ok := wanted[h.ID]; !ok {
				continue
			}
		}
		matched = append(matched, h)
	}

	pageSize := ClampPageSize(params.PageSize)
	page := Paginate(matched, params.Page, pageSize)
	for i := range page {
		if len(page[i].Branches) > branchPreviewLimit {
			page[i].Branches = page[i].Branches[:branchPreviewLimit]
		}
	}

	return &HospitalPage{
		Items:      page,
		TotalCount: len(matched),
		Page:       params.Page,
		PageSize:   pageSize,
	}, nil
}

// BySlug returns one hospital with its full branch list and doctors attached.
func (s *HospitalService) BySlug(ctx context.Context, slug string) (*entities.Hospital, error) {
	hospital, err := s.repo.HospitalBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var branches []entities.Branch
	var doctors []entities.Doctor
	var cities []entities.City
	err = runConcurrently(
		func() error {
			var fetchErr error
			branches, fetchErr = s.repo.BranchesOf(ctx, hospital.ID)
			return fetchErr
		},
		func() error {
			var fetchErr error
			doctors, fetchErr = s.repo.Doctors(ctx)
			return fetchErr
		},
		func() error {
			var fetchErr error
			cities, fetchErr = s.repo.Cities(ctx)
			return fetchErr
		},
	)
	if err != nil {
		return nil, err
	}

	branches = s.join.AttachDoctors(branches, IndexDoctors(doctors))
	branches = s.join.AttachCities(branches, IndexCities(cities))
	hospital.Branches = branches
	hospital.BranchCount = len(branches)
	return hospital, nil
}

// hospitalsWithDoctor collects the hospital IDs a doctor filter selects.
// The filter value matches either a doctor ID or a name substring.
func hospitalsWithDoctor(doctors []entities.Doctor, filter string) map[string]struct{} {
	out := map[string]struct{}{}
	if filter == "" {
		return out
	}
	needle := strings.ToLower(strings.TrimSpace(filter))
	for _, d := range doctors {
		if d.ID != filter && !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		if d.HospitalID != "" {
			out[d.HospitalID] = struct{}{}
		}
	}
	return out
}

// hospitalInCity matches the hospital's own city reference or any of its
// branches' city references.
func hospitalInCity(h entities.Hospital, cityID string) bool {
	if h.CityID == cityID {
		return true
	}
	for _, b := range h.Branches {
		for _, id := range b.CityIDs {
			if id == cityID {
				return true
			}
		}
	}
	return false
}
