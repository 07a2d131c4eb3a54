package entities

// Hospital represents a hospital group in the directory. A hospital owns its
// branches by reference; the Branches slice is only populated after joining.
type Hospital struct {
	ID              string   `json:"_id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Image           string   `json:"image,omitempty"`
	Logo            string   `json:"logo,omitempty"`
	YearEstablished int      `json:"yearEstablished,omitempty"`
	Accreditation   []string `json:"accreditation"`
	BedCount        int      `json:"bedCount,omitempty"`
	Description     string   `json:"description,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Email           string   `json:"email,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	CityID          string   `json:"cityId,omitempty"`
	CountryID       string   `json:"countryId,omitempty"`
	BranchIDs       []string `json:"branchIds"`

	// Populated by the join layer.
	Branches    []Branch `json:"branches,omitempty"`
	BranchCount int      `json:"branchCount"`
}

// Branch is a single physical location of a hospital.
type Branch struct {
	ID         string   `json:"_id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Image      string   `json:"image,omitempty"`
	Address    string   `json:"address,omitempty"`
	CityIDs    []string `json:"cityIds"`
	StateID    string   `json:"stateId,omitempty"`
	CountryID  string   `json:"countryId,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	BedCount   int      `json:"bedCount,omitempty"`
	ICUBeds    int      `json:"icuBeds,omitempty"`
	HospitalID string   `json:"hospitalId,omitempty"`
	DoctorIDs  []string `json:"doctorIds"`

	// Public visibility flag as it arrived from the CMS; branches failing
	// the visibility check never reach treatment availability lists.
	Visible bool `json:"visible"`

	// Populated by the join layer.
	Doctors []Doctor `json:"doctors,omitempty"`
	Cities  []City   `json:"cities,omitempty"`

	// Inline city previews captured when the reference arrived expanded,
	// keyed by city ID. Only used to synthesize placeholders for IDs the
	// city index does not know.
	InlineCities map[string]City `json:"-"`
}
