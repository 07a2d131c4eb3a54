package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

func sampleDoctors() []entities.Doctor {
	return []entities.Doctor{
		{ID: "D1", Name: "Dr. Meera Iyer", Specialization: "Cardiology", Languages: []string{"English", "Tamil"}, Rating: 4.8, ExperienceYears: 15, CityID: "C1"},
		{ID: "D2", Name: "Dr. Arjun Rao", Specialization: "Orthopedics", Languages: []string{"English", "Hindi"}, Rating: 4.2, ExperienceYears: 8, CityID: "C2"},
		{ID: "D3", Name: "Dr. Sara Khan", Specialization: "Cardiology", Languages: []string{"Hindi"}, Rating: 3.9, ExperienceYears: 22, CityID: "C1"},
	}
}

func TestFilterDoctors_Query(t *testing.T) {
	engine := services.NewFilterEngine()

	matched := engine.FilterDoctors(sampleDoctors(), repositories.SearchParams{Query: "cardio"})

	assert.Len(t, matched, 2)
	assert.Equal(t, "D1", matched[0].ID)
	assert.Equal(t, "D3", matched[1].ID)
}

func TestFilterDoctors_PredicatesAreANDed(t *testing.T) {
	engine := services.NewFilterEngine()

	matched := engine.FilterDoctors(sampleDoctors(), repositories.SearchParams{
		Specialties: []string{"Cardiology"},
		Languages:   []string{"tamil"},
		MinRating:   4.0,
	})

	assert.Len(t, matched, 1)
	assert.Equal(t, "D1", matched[0].ID)
}

func TestFilterDoctors_ZeroThresholdsAreInactive(t *testing.T) {
	engine := services.NewFilterEngine()

	matched := engine.FilterDoctors(sampleDoctors(), repositories.SearchParams{})

	assert.Len(t, matched, 3)
}

func TestFilterDoctors_Monotonic(t *testing.T) {
	engine := services.NewFilterEngine()

	loose := engine.FilterDoctors(sampleDoctors(), repositories.SearchParams{MinRating: 4.0})
	tight := engine.FilterDoctors(sampleDoctors(), repositories.SearchParams{MinRating: 4.0, MinExperience: 10})

	assert.LessOrEqual(t, len(tight), len(loose))
	for _, d := range tight {
		assert.GreaterOrEqual(t, d.Rating, 4.0)
		assert.GreaterOrEqual(t, d.ExperienceYears, 10)
	}
}

func TestFilterHospitals(t *testing.T) {
	engine := services.NewFilterEngine()
	hospitals := []entities.Hospital{
		{ID: "H1", Name: "Apex Medical", Accreditation: []string{"NABH"}, Rating: 4.5, BedCount: 400, CityID: "C1"},
		{ID: "H2", Name: "City Care", Accreditation: []string{"JCI"}, Rating: 4.0, BedCount: 120, CityID: "C2"},
	}

	matched := engine.FilterHospitals(hospitals, repositories.SearchParams{
		Accreditations: []string{"nabh"},
		MinBeds:        200,
	})

	assert.Len(t, matched, 1)
	assert.Equal(t, "H1", matched[0].ID)
}

func TestFilterHospitals_CityMatchesBranchCities(t *testing.T) {
	engine := services.NewFilterEngine()
	hospitals := []entities.Hospital{
		{ID: "H1", Name: "Apex Medical", CityID: "C1"},
		{
			ID: "H2", Name: "City Care", CityID: "C2",
			Branches: []entities.Branch{{ID: "B1", CityIDs: []string{"C1", "C3"}}},
		},
		{ID: "H3", Name: "Lakeside", CityID: "C4"},
	}

	// A hospital is in a city when its own reference or any branch's
	// reference matches, same as the hospitals listing.
	matched := engine.FilterHospitals(hospitals, repositories.SearchParams{City: "C1"})

	require.Len(t, matched, 2)
	assert.Equal(t, "H1", matched[0].ID)
	assert.Equal(t, "H2", matched[1].ID)
}

func TestFilterTreatments_CostOverlap(t *testing.T) {
	engine := services.NewFilterEngine()
	treatments := []entities.Treatment{
		{ID: "T1", Name: "Knee Replacement", MinCost: 300000, MaxCost: 500000, Active: true},
		{ID: "T2", Name: "Cataract Surgery", MinCost: 20000, MaxCost: 60000, Active: true},
		{ID: "T3", Name: "Consultation", Active: false},
	}

	// Both bounds zero: no cost constraint at all.
	assert.Len(t, engine.FilterTreatments(treatments, repositories.SearchParams{}), 3)

	// A treatment with no recorded cost passes any minimum.
	matched := engine.FilterTreatments(treatments, repositories.SearchParams{MinCost: 100000})
	ids := []string{}
	for _, m := range matched {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"T1", "T3"}, ids)

	matched = engine.FilterTreatments(treatments, repositories.SearchParams{MaxCost: 100000})
	ids = ids[:0]
	for _, m := range matched {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"T2", "T3"}, ids)

	matched = engine.FilterTreatments(treatments, repositories.SearchParams{ActiveOnly: true})
	assert.Len(t, matched, 2)
}

func TestSortDoctors(t *testing.T) {
	engine := services.NewFilterEngine()

	doctors := sampleDoctors()
	engine.SortDoctors(doctors, "rating")
	assert.Equal(t, "D1", doctors[0].ID)

	doctors = sampleDoctors()
	engine.SortDoctors(doctors, "name")
	assert.Equal(t, "Dr. Arjun Rao", doctors[0].Name)

	doctors = sampleDoctors()
	engine.SortDoctors(doctors, "experience")
	assert.Equal(t, "D3", doctors[0].ID)

	// Unknown mode keeps insertion order.
	doctors = sampleDoctors()
	engine.SortDoctors(doctors, "unknown")
	assert.Equal(t, "D1", doctors[0].ID)
}

func TestSortTreatments_Cost(t *testing.T) {
	engine := services.NewFilterEngine()
	treatments := []entities.Treatment{
		{ID: "T1", MinCost: 300000},
		{ID: "T2", MinCost: 20000},
	}

	engine.SortTreatments(treatments, "cost")
	assert.Equal(t, "T2", treatments[0].ID)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	page := services.Paginate(items, 0, 12)
	assert.Len(t, page, 12)
	assert.Equal(t, 0, page[0])

	page = services.Paginate(items, 2, 12)
	assert.Len(t, page, 6)
	assert.Equal(t, 24, page[0])

	// Out of range yields empty, never an error.
	page = services.Paginate(items, 10, 12)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	// Oversized page size is clamped.
	page = services.Paginate(items, 0, 500)
	assert.Len(t, page, 30)

	// Negative page is treated as the first page.
	page = services.Paginate(items, -3, 12)
	assert.Equal(t, 0, page[0])
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, services.DefaultPageSize, services.ClampPageSize(0))
	assert.Equal(t, services.DefaultPageSize, services.ClampPageSize(-5))
	assert.Equal(t, 20, services.ClampPageSize(20))
	assert.Equal(t, services.MaxPageSize, services.ClampPageSize(500))
}
