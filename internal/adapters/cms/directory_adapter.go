package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
	"github.com/medatlas/directory-api/internal/infrastructure/clients/wixdata"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
	"github.com/medatlas/directory-api/pkg/retry"
)

// Collection names as they exist in the CMS.
const (
	CollectionHospitals   = "Hospitals"
	CollectionBranches    = "HospitalBranches"
	CollectionDoctors     = "Doctors"
	CollectionCities      = "Cities"
	CollectionTreatments  = "Treatments"
	CollectionDepartments = "Departments"
)

// fetchPageSize is the page size used when draining a full collection.
const fetchPageSize = 100

// DirectoryAdapter implements repositories.DirectoryRepository over the
// remote CMS client.
type DirectoryAdapter struct {
	client   wixdata.Client
	retryCfg retry.Config
	metrics  *observability.Metrics
}

// Compile-time check
var _ repositories.DirectoryRepository = (*DirectoryAdapter)(nil)

// NewDirectoryAdapter creates a new directory adapter. metrics may be nil,
// in which case query durations go unrecorded.
func NewDirectoryAdapter(client wixdata.Client, metrics *observability.Metrics) *DirectoryAdapter {
	return &DirectoryAdapter{
		client:   client,
		retryCfg: retry.DefaultConfig(),
		metrics:  metrics,
	}
}

// observeQuery records the duration of one upstream query, retries
// included.
func (a *DirectoryAdapter) observeQuery(ctx context.Context, collection string, start time.Time) {
	if a.metrics != nil {
		observability.RecordCMSMetric(ctx, a.metrics, collection, time.Since(start))
	}
}

// Hospitals retrieves and maps all hospital records.
func (a *DirectoryAdapter) Hospitals(ctx context.Context) ([]entities.Hospital, error) {
	return fetchAll(ctx, a, CollectionHospitals, MapHospital, func(h entities.Hospital) string { return h.ID })
}

// HospitalBySlug retrieves a single hospital by slug.
func (a *DirectoryAdapter) HospitalBySlug(ctx context.Context, slug string) (*entities.Hospital, error) {
	return fetchBySlug(ctx, a, CollectionHospitals, slug, MapHospital)
}

// Branches retrieves and maps all branch records.
func (a *DirectoryAdapter) Branches(ctx context.Context) ([]entities.Branch, error) {
	return fetchAll(ctx, a, CollectionBranches, MapBranch, func(b entities.Branch) string { return b.ID })
}

// BranchesOf resolves the branch reference field of one hospital.
func (a *DirectoryAdapter) BranchesOf(ctx context.Context, hospitalID string) ([]entities.Branch, error) {
	start := time.Now()
	result, err := a.client.QueryReferenced(ctx, CollectionBranches, hospitalID, "Branches", fetchPageSize, 0)
	a.observeQuery(ctx, CollectionBranches, start)
	if err != nil {
		return nil, err
	}
	return mapRecords(result.Items, MapBranch, func(b entities.Branch) string { return b.ID }), nil
}

// Doctors retrieves and maps all doctor records.
func (a *DirectoryAdapter) Doctors(ctx context.Context) ([]entities.Doctor, error) {
	return fetchAll(ctx, a, CollectionDoctors, MapDoctor, func(d entities.Doctor) string { return d.ID })
}

// DoctorBySlug retrieves a single doctor by slug.
func (a *DirectoryAdapter) DoctorBySlug(ctx context.Context, slug string) (*entities.Doctor, error) {
	return fetchBySlug(ctx, a, CollectionDoctors, slug, MapDoctor)
}

// Cities retrieves and maps all city records.
func (a *DirectoryAdapter) Cities(ctx context.Context) ([]entities.City, error) {
	return fetchAll(ctx, a, CollectionCities, MapCity, func(c entities.City) string { return c.ID })
}

// Treatments retrieves and maps all treatment records.
func (a *DirectoryAdapter) Treatments(ctx context.Context) ([]entities.Treatment, error) {
	return fetchAll(ctx, a, CollectionTreatments, MapTreatment, func(t entities.Treatment) string { return t.ID })
}

// TreatmentBySlug retrieves a single treatment by slug.
func (a *DirectoryAdapter) TreatmentBySlug(ctx context.Context, slug string) (*entities.Treatment, error) {
	return fetchBySlug(ctx, a, CollectionTreatments, slug, MapTreatment)
}

// Departments retrieves and maps all department records.
func (a *DirectoryAdapter) Departments(ctx context.Context) ([]entities.Department, error) {
	return fetchAll(ctx, a, CollectionDepartments, MapDepartment, func(d entities.Department) string { return d.ID })
}

// fetchAll drains a collection page by page, mapping as it goes. Records
// without an identifier are dropped: a canonical entity never synthesizes
// an ID.
func fetchAll[T any](ctx context.Context, a *DirectoryAdapter, collection string, mapFn func(wixdata.Record) T, idOf func(T) string) ([]T, error) {
	var out []T
	skip := 0
	for {
		var result *wixdata.QueryResult
		start := time.Now()
		err := retry.Do(ctx, a.retryCfg, func() error {
			var findErr error
			result, findErr = a.client.Collection(collection).Limit(fetchPageSize).Skip(skip).Find(ctx)
			return findErr
		})
		a.observeQuery(ctx, collection, start)
		if err != nil {
			log.Error().Err(err).Str("collection", collection).Msg("CMS fetch failed")
			return nil, wrapUpstream(collection, err)
		}

		out = append(out, mapRecords(result.Items, mapFn, idOf)...)
		skip += len(result.Items)
		if len(result.Items) < fetchPageSize || skip >= result.TotalCount {
			break
		}
	}
	return out, nil
}

func fetchBySlug[T any](ctx context.Context, a *DirectoryAdapter, collection, slug string, mapFn func(wixdata.Record) T) (*T, error) {
	start := time.Now()
	result, err := a.client.Collection(collection).Eq("slug", slug).Limit(1).Find(ctx)
	a.observeQuery(ctx, collection, start)
	if err != nil {
		return nil, wrapUpstream(collection, err)
	}
	if len(result.Items) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s record with slug %q", collection, slug))
	}
	mapped := mapFn(result.Items[0])
	return &mapped, nil
}

func mapRecords[T any](items []wixdata.Record, mapFn func(wixdata.Record) T, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		mapped := mapFn(item)
		if idOf(mapped) == "" {
			log.Warn().Msg("skipping CMS record without identifier")
			continue
		}
		out = append(out, mapped)
	}
	return out
}

// wrapUpstream preserves AppError typing from the client and wraps anything
// else as an external error.
func wrapUpstream(collection string, err error) error {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeTimeout, apperrors.ErrorTypeExternal:
		return err
	default:
		return apperrors.NewExternalError(fmt.Sprintf("failed to query %s", collection), err)
	}
}
