// internal/domain/identity.go
package domain

import "context"

// Role is the closed set of roles the marketplace recognizes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin is the capability predicate used for authorization checks.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Identity is the caller context supplied by the external auth layer.
// The core never authenticates; it only authorizes from this snapshot.
type Identity struct {
	UserID int64
	Role   Role
	Active bool
}

// CanAccessOrdersOf reports whether the identity may read or cancel
// orders belonging to ownerID.
func (i Identity) CanAccessOrdersOf(ownerID int64) bool {
	return i.UserID == ownerID || i.Role.IsAdmin()
}

type identityContextKey struct{}

// ContextWithIdentity returns a context carrying the caller identity.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the caller identity placed by the identity
// middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
