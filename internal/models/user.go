package models

// User is the identity record. The users table carries exactly these
// columns; the schema reconciler drops anything else it finds.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // Not shown in JSON
}
