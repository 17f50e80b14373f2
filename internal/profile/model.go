package profile

import "time"

// Roles assignable to a user profile. New sign-ups always start as FARMER;
// other roles are granted by an administrator.
const (
	RoleFarmer   = "FARMER"
	RoleOfficial = "OFFICIAL"
	RoleAdmin    = "ADMIN"
)

// UserProfile is the per-subject record owned by the profile store.
// UserID is the identity provider's subject and never changes. Phone is
// captured from the verified identity at creation and is not re-derived on
// later logins.
type UserProfile struct {
	UserID    string
	Phone     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleOfficial, RoleAdmin:
		return true
	default:
		return false
	}
}
