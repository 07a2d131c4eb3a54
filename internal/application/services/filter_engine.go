package services

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/repositories"
)

// Pagination bounds. A single request can never force an unbounded page.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// FilterEngine applies independent, AND-combined predicates over in-memory
// entity lists, then sorts and paginates.
//
// Numeric thresholds follow the directory-wide convention that zero means
// "no constraint": a genuine zero threshold is inexpressible because 0 is
// the sentinel for an unset query parameter.
type FilterEngine struct {
	collator *collate.Collator
}

// NewFilterEngine creates a filter engine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// FilterDoctors returns the doctors matching every active filter in params.
func (e *FilterEngine) FilterDoctors(doctors []entities.Doctor, params repositories.SearchParams) []entities.Doctor {
	out := []entities.Doctor{}
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, d := range doctors {
		if query != "" && !strings.Contains(strings.ToLower(doctorHaystack(d)), query) {
			continue
		}
		if !intersects(params.Specialties, []string{d.Specialization}) {
			continue
		}
		if !intersects(params.Languages, d.Languages) {
			continue
		}
		if params.City != "" && d.CityID != params.City {
			continue
		}
		if params.MinRating > 0 && d.Rating < params.MinRating {
			continue
		}
		if params.MinExperience > 0 && d.ExperienceYears < params.MinExperience {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterHospitals returns the hospitals matching every active filter.
func (e *FilterEngine) FilterHospitals(hospitals []entities.Hospital, params repositories.SearchParams) []entities.Hospital {
	out := []entities.Hospital{}
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, h := range hospitals {
		if query != "" && !strings.Contains(strings.ToLower(hospitalHaystack(h)), query) {
			continue
		}
		if !intersects(params.Accreditations, h.Accreditation) {
			continue
		}
		if params.City != "" && !hospitalInCity(h, params.City) {
			continue
		}
		if params.MinRating > 0 && h.Rating < params.MinRating {
			continue
		}
		if params.MinBeds > 0 && h.BedCount < params.MinBeds {
			continue
		}
		out = append(out, h)
	}
	return out
}

// FilterTreatments returns the treatments matching every active filter.
func (e *FilterEngine) FilterTreatments(treatments []entities.Treatment, params repositories.SearchParams) []entities.Treatment {
	out := []entities.Treatment{}
	query := strings.ToLower(strings.TrimSpace(params.Query))
	for _, t := range treatments {
		if query != "" && !strings.Contains(strings.ToLower(treatmentHaystack(t)), query) {
			continue
		}
		if params.MinCost > 0 && t.MaxCost > 0 && t.MaxCost < params.MinCost {
			continue
		}
		if params.MaxCost > 0 && t.MinCost > params.MaxCost {
			continue
		}
		if params.MinSuccessRate > 0 && t.SuccessRate < params.MinSuccessRate {
			continue
		}
		if params.ActiveOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortDoctors orders doctors by the named mode. The default "relevance"
// mode keeps insertion order.
func (e *FilterEngine) SortDoctors(doctors []entities.Doctor, mode string) {
	switch mode {
	case "rating":
		sort.SliceStable(doctors, func(i, j int) bool {
			return doctors[i].Rating > doctors[j].Rating
		})
	case "name":
		sort.SliceStable(doctors, func(i, j int) bool {
			return e.collator.CompareString(doctors[i].Name, doctors[j].Name) < 0
		})
	case "experience":
		sort.SliceStable(doctors, func(i, j int) bool {
			return doctors[i].ExperienceYears > doctors[j].ExperienceYears
		})
	}
}

// SortHospitals orders hospitals by the named mode.
func (e *FilterEngine) SortHospitals(hospitals []entities.Hospital, mode string) {
	switch mode {
	case "rating":
		sort.SliceStable(hospitals, func(i, j int) bool {
			return hospitals[i].Rating > hospitals[j].Rating
		})
	case "name":
		sort.SliceStable(hospitals, func(i, j int) bool {
			return e.collator.CompareString(hospitals[i].Name, hospitals[j].Name) < 0
		})
	}
}

// SortTreatments orders treatments by the named mode.
func (e *FilterEngine) SortTreatments(treatments []entities.Treatment, mode string) {
	switch mode {
	case "name":
		sort.SliceStable(treatments, func(i, j int) bool {
			return e.collator.CompareString(treatments[i].Name, treatments[j].Name) < 0
		})
	case "cost":
		sort.SliceStable(treatments, func(i, j int) bool {
			return treatments[i].MinCost < treatments[j].MinCost
		})
	}
}

// Paginate slices items to the requested zero-based page. pageSize is
// clamped to MaxPageSize; a page past the end yields an empty slice.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	start := page * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ClampPageSize normalizes a caller-supplied page size to the allowed range.
func ClampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// intersects reports whether any requested value appears in the item's
// attribute list, comparing case-insensitively. An empty request is a no-op
// and matches everything.
func intersects(requested, attributes []string) bool {
	if len(requested) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(attributes))
	for _, a := range attributes {
		have[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	for _, r := range requested {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; ok {
			return true
		}
	}
	return false
}

// Per-kind haystacks for free-text search. The field sets are fixed so a
// query can match, say, a doctor's specialization even when the name does
// not contain the term.
func doctorHaystack(d entities.Doctor) string {
	parts := []string{d.Name, d.Specialization, d.Qualification, d.Designation, d.Bio}
	parts = append(parts, d.Languages...)
	return strings.Join(parts, "|")
}

func hospitalHaystack(h entities.Hospital) string {
	parts := []string{h.Name, h.Description}
	parts = append(parts, h.Accreditation...)
	return strings.Join(parts, "|")
}

func treatmentHaystack(t entities.Treatment) string {
	return strings.Join([]string{t.Name, t.Category, t.Overview, t.Mode}, "|")
}
