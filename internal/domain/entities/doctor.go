package entities

// Doctor represents a practicing doctor. City, state, country and hospital
// identifiers are denormalized onto the record upstream so list pages can
// filter without extra lookups.
type Doctor struct {
	ID              string   `json:"_id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization,omitempty"`
	Qualification   string   `json:"qualification,omitempty"`
	Designation     string   `json:"designation,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Languages       []string `json:"languages"`
	Bio             string   `json:"bio,omitempty"`
	ProfileImage    string   `json:"profileImage,omitempty"`
	Rating          float64  `json:"rating,omitempty"`

	HospitalBranchIDs []string `json:"hospitalBranchIds"`
	CityID            string   `json:"cityId,omitempty"`
	StateID           string   `json:"stateId,omitempty"`
	CountryID         string   `json:"countryId,omitempty"`
	HospitalID        string   `json:"hospitalId,omitempty"`
}
