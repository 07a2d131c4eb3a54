package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

func repositoriesTreatmentParams() repositories.TreatmentListParams {
	return repositories.TreatmentListParams{}
}

func newTreatmentFixture(clock *fakeClock) (*services.TreatmentService, *stubRepo) {
	repo := &stubRepo{
		treatments: []entities.Treatment{
			{ID: "T1", Slug: "knee-replacement", Name: "Knee Replacement", Category: "Orthopedics", MinCost: 300000, MaxCost: 500000, Popular: true, Active: true, BranchIDs: []string{"B1", "B2"}},
			{ID: "T2", Slug: "cataract-surgery", Name: "Cataract Surgery", Category: "Ophthalmology", MinCost: 20000, MaxCost: 60000, Active: true, BranchIDs: []string{"B2"}},
		},
		branches: []entities.Branch{
			{ID: "B1", Name: "Central", Visible: true, CityIDs: []string{"C1"}},
			{ID: "B2", Name: "Hidden", Visible: false},
		},
		cities: []entities.City{
			{ID: "C1", Name: "Mumbai", Country: "India"},
		},
		departments: []entities.Department{
			{ID: "DP1", Name: "Orthopedics"},
		},
	}
	join := services.NewJoinService(services.PublicBranches)
	engine := services.NewFilterEngine()
	service := services.NewTreatmentService(repo, join, engine, 10*time.Minute, clock.Now)
	return service, repo
}

func TestTreatmentService_List_JoinsAndFilters(t *testing.T) {
	service, _ := newTreatmentFixture(newFakeClock())

	page, err := service.List(context.Background(), repositoriesTreatmentParams())
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 2)

	// Only the visible branch shows up as availability.
	knee := page.Items[0]
	assert.Equal(t, "T1", knee.ID)
	require.Len(t, knee.BranchesAvailableAt, 1)
	assert.Equal(t, "Central", knee.BranchesAvailableAt[0].Name)
	require.Len(t, knee.BranchesAvailableAt[0].Cities, 1)
	assert.Equal(t, "Mumbai", knee.BranchesAvailableAt[0].Cities[0].Name)

	// A treatment offered only at hidden branches lists no availability.
	assert.Empty(t, page.Items[1].BranchesAvailableAt)
}

func TestTreatmentService_List_CachesCatalogue(t *testing.T) {
	clock := newFakeClock()
	service, repo := newTreatmentFixture(clock)

	_, err := service.List(context.Background(), repositoriesTreatmentParams())
	require.NoError(t, err)
	afterFirst := repo.calls.Load()

	// Within the TTL the snapshot serves every request.
	_, err = service.List(context.Background(), repositoriesTreatmentParams())
	require.NoError(t, err)
	assert.Equal(t, afterFirst, repo.calls.Load())

	clock.Advance(11 * time.Minute)
	_, err = service.List(context.Background(), repositoriesTreatmentParams())
	require.NoError(t, err)
	assert.Greater(t, repo.calls.Load(), afterFirst)
}

func TestTreatmentService_List_FiltersOnSnapshot(t *testing.T) {
	service, _ := newTreatmentFixture(newFakeClock())

	params := repositoriesTreatmentParams()
	params.Popular = true
	page, err := service.List(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.FilteredCount)
	assert.Equal(t, "T1", page.Items[0].ID)

	params = repositoriesTreatmentParams()
	params.Category = "ophthalmology"
	page, err = service.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, page.FilteredCount)
	assert.Equal(t, "T2", page.Items[0].ID)
}

func TestTreatmentService_BySlug(t *testing.T) {
	service, _ := newTreatmentFixture(newFakeClock())

	treatment, err := service.BySlug(context.Background(), "cataract-surgery")
	require.NoError(t, err)
	assert.Equal(t, "T2", treatment.ID)

	_, err = service.BySlug(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestTreatmentService_List_UpstreamFailure(t *testing.T) {
	clock := newFakeClock()
	service, repo := newTreatmentFixture(clock)
	repo.err = apperrors.NewExternalError("CMS down", nil)

	_, err := service.List(context.Background(), repositoriesTreatmentParams())
	require.Error(t, err)

	// The failure is not cached; recovery is immediate.
	repo.err = nil
	_, err = service.List(context.Background(), repositoriesTreatmentParams())
	assert.NoError(t, err)
}
