package repositories

import (
	"context"

	"github.com/medatlas/directory-api/internal/domain/entities"
)

// DirectoryRepository defines read access to the directory collections. The
// backing store is a remote CMS; every call fetches fresh records and maps
// them to canonical entities.
type DirectoryRepository interface {
	// Hospitals retrieves all hospital records
	Hospitals(ctx context.Context) ([]entities.Hospital, error)

	// HospitalBySlug retrieves a single hospital by its URL slug
	HospitalBySlug(ctx context.Context, slug string) (*entities.Hospital, error)

	// Branches retrieves all branch records
	Branches(ctx context.Context) ([]entities.Branch, error)

	// BranchesOf resolves the one-to-many branch reference of a hospital
	BranchesOf(ctx context.Context, hospitalID string) ([]entities.Branch, error)

	// Doctors retrieves all doctor records
	Doctors(ctx context.Context) ([]entities.Doctor, error)

	// DoctorBySlug retrieves a single doctor by its URL slug
	DoctorBySlug(ctx context.Context, slug string) (*entities.Doctor, error)

	// Cities retrieves all city records
	Cities(ctx context.Context) ([]entities.City, error)

	// Treatments retrieves all treatment records
	Treatments(ctx context.Context) ([]entities.Treatment, error)

	// TreatmentBySlug retrieves a single treatment by its URL slug
	TreatmentBySlug(ctx context.Context, slug string) (*entities.Treatment, error)

	// Departments retrieves all department records
	Departments(ctx context.Context) ([]entities.Department, error)
}

// SearchKind selects which collection a combined search targets.
type SearchKind string

const (
	SearchKindDoctors    SearchKind = "doctors"
	SearchKindHospitals  SearchKind = "hospitals"
	SearchKindTreatments SearchKind = "treatments"
)

// SearchParams are the filters accepted by the combined search endpoint.
// A zero value for any numeric threshold means the filter is inactive.
type SearchParams struct {
	Query          string
	Kind           SearchKind
	Specialties    []string
	Languages      []string
	Accreditations []string
	City           string
	MinRating      float64
	MinExperience  int
	MinBeds        int
	MinCost        float64
	MaxCost        float64
	MinSuccessRate float64
	ActiveOnly     bool
	Sort           string
	Page           int
	PageSize       int
}

// HospitalListParams are the filters accepted by the hospitals listing.
type HospitalListParams struct {
	Query    string
	City     string
	Doctor   string
	Page     int
	PageSize int
}

// TreatmentListParams are the filters accepted by the treatments listing.
type TreatmentListParams struct {
	Query    string
	Category string
	Popular  bool
	MinCost  float64
	MaxCost  float64
	Page     int
	PageSize int
}
