package entities

// Inquiry is a contact or registration form submission relayed to the care
// team by email. Nothing is persisted locally.
type Inquiry struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"` // "contact" or "registration"
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Message   string `json:"message,omitempty"`
	Page      string `json:"page,omitempty"`
	UserAgent string `json:"-"`
}
