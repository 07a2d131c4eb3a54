package services

import (
	"github.com/medatlas/directory-api/internal/domain/entities"
)

// BranchVisibility decides whether a branch may appear on public treatment
// availability lists.
type BranchVisibility func(entities.Branch) bool

// PublicBranches is the default visibility predicate: the branch's public
// flag as normalized at mapping time.
func PublicBranches(b entities.Branch) bool {
	return b.Visible
}

// JoinService assembles cross-collection relations in memory. Every lookup
// goes through an ID index built once per call; a missing reference always
// resolves to an empty collection, never an error.
type JoinService struct {
	visible BranchVisibility
}

// NewJoinService creates a join service with the given visibility predicate.
func NewJoinService(visible BranchVisibility) *JoinService {
	if visible == nil {
		visible = PublicBranches
	}
	return &JoinService{visible: visible}
}

// IndexBranches builds an ID lookup for branches.
func IndexBranches(branches []entities.Branch) map[string]entities.Branch {
	index := make(map[string]entities.Branch, len(branches))
	for _, b := range branches {
		index[b.ID] = b
	}
	return index
}

// IndexDoctors builds an ID lookup for doctors.
func IndexDoctors(doctors []entities.Doctor) map[string]entities.Doctor {
	index := make(map[string]entities.Doctor, len(doctors))
	for _, d := range doctors {
		index[d.ID] = d
	}
	return index
}

// IndexCities builds an ID lookup for cities.
func IndexCities(cities []entities.City) map[string]entities.City {
	index := make(map[string]entities.City, len(cities))
	for _, c := range cities {
		index[c.ID] = c
	}
	return index
}

// IndexDepartments builds an ID lookup for departments.
func IndexDepartments(departments []entities.Department) map[string]entities.Department {
	index := make(map[string]entities.Department, len(departments))
	for _, d := range departments {
		index[d.ID] = d
	}
	return index
}

// AttachDoctors resolves each branch's doctor references against the doctor
// index. Duplicate references to the same doctor collapse to one entry.
func (s *JoinService) AttachDoctors(branches []entities.Branch, doctors map[string]entities.Doctor) []entities.Branch {
	out := make([]entities.Branch, len(branches))
	for i, branch := range branches {
		seen := make(map[string]struct{}, len(branch.DoctorIDs))
		resolved := []entities.Doctor{}
		for _, id := range branch.DoctorIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if doctor, ok := doctors[id]; ok {
				resolved = append(resolved, doctor)
			}
		}
		branch.Doctors = resolved
		out[i] = branch
	}
	return out
}

// AttachCities resolves each branch's city references. IDs absent from the
// index fall back to the branch's inline preview when the reference arrived
// expanded, and to a bare placeholder otherwise.
func (s *JoinService) AttachCities(branches []entities.Branch, cities map[string]entities.City) []entities.Branch {
	out := make([]entities.Branch, len(branches))
	for i, branch := range branches {
		resolved := []entities.City{}
		seen := make(map[string]struct{}, len(branch.CityIDs))
		for _, id := range branch.CityIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if city, ok := cities[id]; ok {
				resolved = append(resolved, city)
				continue
			}
			if inline, ok := branch.InlineCities[id]; ok {
				resolved = append(resolved, inline)
				continue
			}
			resolved = append(resolved, placeholderCity(id))
		}
		branch.Cities = resolved
		out[i] = branch
	}
	return out
}

// AttachBranches attaches each hospital's branches. Edges are merged from
// both directions (the hospital's branch list and the branch's hospital
// back-reference) because the data is not consistently maintained; a branch
// reachable both ways still appears once.
func (s *JoinService) AttachBranches(hospitals []entities.Hospital, branches []entities.Branch) []entities.Hospital {
	index := IndexBranches(branches)
	byHospital := make(map[string][]string)
	for _, b := range branches {
		if b.HospitalID != "" {
			byHospital[b.HospitalID] = append(byHospital[b.HospitalID], b.ID)
		}
	}

	out := make([]entities.Hospital, len(hospitals))
	for i, hospital := range hospitals {
		seen := make(map[string]struct{})
		resolved := []entities.Branch{}
		for _, id := range append(append([]string{}, hospital.BranchIDs...), byHospital[hospital.ID]...) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if branch, ok := index[id]; ok {
				resolved = append(resolved, branch)
			}
		}
		hospital.Branches = resolved
		hospital.BranchCount = len(resolved)
		out[i] = hospital
	}
	return out
}

// AttachTreatmentAvailability resolves where each treatment is offered.
// Only branches passing the visibility predicate are attached; everything
// else is excluded entirely. Department references resolve against the
// department index and unresolvable ones are dropped.
func (s *JoinService) AttachTreatmentAvailability(
	treatments []entities.Treatment,
	branches map[string]entities.Branch,
	departments map[string]entities.Department,
) []entities.Treatment {
	out := make([]entities.Treatment, len(treatments))
	for i, treatment := range treatments {
		seen := make(map[string]struct{}, len(treatment.BranchIDs))
		available := []entities.Branch{}
		for _, id := range treatment.BranchIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			branch, ok := branches[id]
			if !ok || !s.visible(branch) {
				continue
			}
			available = append(available, branch)
		}
		treatment.BranchesAvailableAt = available

		seenDept := make(map[string]struct{}, len(treatment.DepartmentIDs))
		resolved := []entities.Department{}
		for _, id := range treatment.DepartmentIDs {
			if _, dup := seenDept[id]; dup {
				continue
			}
			seenDept[id] = struct{}{}
			if dept, ok := departments[id]; ok {
				resolved = append(resolved, dept)
			}
		}
		treatment.Departments = resolved
		out[i] = treatment
	}
	return out
}

func placeholderCity(id string) entities.City {
	return entities.City{
		ID:          id,
		Name:        "Unknown City",
		Country:     "India",
		HospitalIDs: []string{},
		Placeholder: true,
	}
}
