package entity

// UserProfile is the sparse profile the auth gateway maintains for a user.
// Profiles are read-only on this side.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}
