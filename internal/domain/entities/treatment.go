package entities

// Treatment represents a medical treatment or procedure offered across the
// network. Availability is resolved per branch by the join layer and only
// includes publicly visible branches.
type Treatment struct {
	ID            string   `json:"_id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	Image         string   `json:"image,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	MinCost       float64  `json:"minCost,omitempty"`
	MaxCost       float64  `json:"maxCost,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	SuccessRate   float64  `json:"successRate,omitempty"`
	Popular       bool     `json:"popular,omitempty"`
	Active        bool     `json:"active"`
	BranchIDs     []string `json:"branchIds"`
	DepartmentIDs []string `json:"departmentIds"`

	// Populated by the join layer.
	BranchesAvailableAt []Branch     `json:"branchesAvailableAt,omitempty"`
	Departments         []Department `json:"departments,omitempty"`
}
