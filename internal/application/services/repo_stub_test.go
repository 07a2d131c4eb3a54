package services_test

import (
	"context"
	"sync/atomic"

	"github.com/medatlas/directory-api/internal/domain/entities"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

// stubRepo is an in-memory DirectoryRepository for service tests.
type stubRepo struct {
	hospitals   []entities.Hospital
	branches    []entities.Branch
	doctors     []entities.Doctor
	cities      []entities.City
	treatments  []entities.Treatment
	departments []entities.Department

	err   error
	calls atomic.Int32
}

func (r *stubRepo) Hospitals(ctx context.Context) ([]entities.Hospital, error) {
	r.calls.Add(1)
	return r.hospitals, r.err
}

func (r *stubRepo) HospitalBySlug(ctx context.Context, slug string) (*entities.Hospital, error) {
	r.calls.Add(1)
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

func (r *stubRepo) Branches(ctx context.Context) ([]entities.Branch, error) {
	r.calls.Add(1)
	return r.branches, r.err
}

func (r *stubRepo) BranchesOf(ctx context.Context, hospitalID string) ([]entities.Branch, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	out := []entities.Branch{}
	for _, b := range r.branches {
		if b.HospitalID == hospitalID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubRepo) Doctors(ctx context.Context) ([]entities.Doctor, error) {
	r.calls.Add(1)
	return r.doctors, r.err
}

func (r *stubRepo) DoctorBySlug(ctx context.Context, slug string) (*entities.Doctor, error) {
	r.calls.Add(1)
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

func (r *stubRepo) Cities(ctx context.Context) ([]entities.City, error) {
	r.calls.Add(1)
	return r.cities, r.err
}

func (r *stubRepo) Treatments(ctx context.Context) ([]entities.Treatment, error) {
	r.calls.Add(1)
	return r.treatments, r.err
}

func (r *stubRepo) TreatmentBySlug(ctx context.Context, slug string) (*entities.Treatment, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	for _, t := range r.treatments {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no treatment with slug " + slug)
}

func (r *stubRepo) Departments(ctx context.Context) ([]entities.Department, error) {
	r.calls.Add(1)
	return r.departments, r.err
}
