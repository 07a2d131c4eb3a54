package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medatlas/directory-api/internal/api/handlers"
	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/entities"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

// stubDirectoryRepo is a minimal in-memory repository for handler tests.
type stubDirectoryRepo struct {
	doctors     []entities.Doctor
	hospitals   []entities.Hospital
	branches    []entities.Branch
	cities      []entities.City
	treatments  []entities.Treatment
	departments []entities.Department
	err         error
}

func (r *stubDirectoryRepo) Hospitals(ctx context.Context) ([]entities.Hospital, error) {
	return r.hospitals, r.err
}

func (r *stubDirectoryRepo) HospitalBySlug(ctx context.Context, slug string) (*entities.Hospital, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, h := range r.hospitals {
		if h.Slug == slug {
			return &h, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no hospital with slug " + slug)
}

func (r *stubDirectoryRepo) Branches(ctx context.Context) ([]entities.Branch, error) {
	return r.branches, r.err
}

func (r *stubDirectoryRepo) BranchesOf(ctx context.Context, hospitalID string) ([]entities.Branch, error) {
	return r.branches, r.err
}

func (r *stubDirectoryRepo) Doctors(ctx context.Context) ([]entities.Doctor, error) {
	return r.doctors, r.err
}

func (r *stubDirectoryRepo) DoctorBySlug(ctx context.Context, slug string) (*entities.Doctor, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, d := range r.doctors {
		if d.Slug == slug {
			return &d, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no doctor with slug " + slug)
}

func (r *stubDirectoryRepo) Cities(ctx context.Context) ([]entities.City, error) {
	return r.cities, r.err
}

func (r *stubDirectoryRepo) Treatments(ctx context.Context) ([]entities.Treatment, error) {
	return r.treatments, r.err
}

func (r *stubDirectoryRepo) TreatmentBySlug(ctx context.Context, slug string) (*entities.Treatment, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, tr := range r.treatments {
		if tr.Slug == slug {
			return &tr, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no treatment with slug " + slug)
}

func (r *stubDirectoryRepo) Departments(ctx context.Context) ([]entities.Department, error) {
	return r.departments, r.err
}

func newSearchHandler(repo *stubDirectoryRepo) *handlers.SearchHandler {
	service := services.NewSearchService(repo, services.NewJoinService(nil), services.NewFilterEngine())
	return handlers.NewSearchHandler(service)
}

func TestSearchHandler_Search(t *testing.T) {
	handler := newSearchHandler(&stubDirectoryRepo{
		doctors: []entities.Doctor{
			{ID: "D1", Name: "Dr. Meera Iyer", Specialization: "Cardiology"},
			{ID: "D2", Name: "Dr. Arjun Rao", Specialization: "Orthopedics"},
		},
	})

	req := httptest.NewRequest("GET", "/api/search?q=cardio", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Items []entities.Doctor `json:"items"`
		Kind  string            `json:"kind"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "doctors", response.Kind)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "D1", response.Items[0].ID)
}

func TestSearchHandler_Search_DegradesToEmptyOnFailure(t *testing.T) {
	handler := newSearchHandler(&stubDirectoryRepo{
		err: apperrors.NewExternalError("CMS down", nil),
	})

	req := httptest.NewRequest("GET", "/api/search?q=cardio", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	// Upstream failure never surfaces as an error status here.
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Items []any  `json:"items"`
		Kind  string `json:"kind"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.NotNil(t, response.Items)
	assert.Empty(t, response.Items)
	assert.Equal(t, "doctors", response.Kind)
}

func TestSearchHandler_Search_UnknownKindFallsBack(t *testing.T) {
	handler := newSearchHandler(&stubDirectoryRepo{})

	req := httptest.NewRequest("GET", "/api/search?type=pharmacies", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "doctors", response["kind"])
}

func TestSearchHandler_Search_HospitalKind(t *testing.T) {
	handler := newSearchHandler(&stubDirectoryRepo{
		hospitals: []entities.Hospital{{ID: "H1", Name: "Apex Medical"}},
	})

	req := httptest.NewRequest("GET", "/api/search?type=hospitals", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "hospitals", response["kind"])
}
