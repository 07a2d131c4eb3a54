package entities

// City represents a city a branch is located in.
type City struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	StateID     string   `json:"stateId,omitempty"`
	Country     string   `json:"country,omitempty"`
	HospitalIDs []string `json:"hospitalIds"`

	// Placeholder marks cities synthesized from inline reference fields
	// because the city index had no record for the referenced ID.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Department is a clinical department a treatment belongs to.
type Department struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
