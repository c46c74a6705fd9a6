package domain

import "time"

// AuthorizationContext is the identity resolved from a validated token.
// It lives for a single request and is never persisted.
type AuthorizationContext struct {
	Subject   int64
	Email     string
	Role      Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the context carries any of the given roles.
func (a *AuthorizationContext) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
