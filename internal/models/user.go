package models

// User represents an authenticated identity supplied by the external
// identity provider. The backend reads it from token claims and never
// writes it back.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	IsApproved bool   `json:"isApproved,omitempty"`
}
