package admin

import "time"

// Admin represents a back-office operator account. Admins log in with email
// and password; they are created out-of-band, never by the mobile flow.
type Admin struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials is the admin login request.
type Credentials struct {
	Email    string
	Password string
}
