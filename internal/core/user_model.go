package core

import (
	"context"
	"time"
)

// User is an identity in the directory. SeqID is the human-readable,
// role-prefixed identifier minted from the per-role counter; it is
// regenerated whenever the role changes. CreatedBy is nil only for the
// bootstrap SUPERADMIN.
type User struct {
	ID           int
	SeqID        string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedBy    *int
	AdminGroup   []int
	UnitGroup    []int
	CreatedAt    time.Time
}

// CreateUserInput is the payload for DirectoryService.Create. GroupIDs is
// stored as admin_group for ADMIN identities and unit_group for UNIT_MANAGER
// identities; it is ignored for other roles.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
	GroupIDs []int
}

// DirectoryService manages identity records. All mutation of the directory
// goes through this interface; the requester is always an explicit parameter,
// never ambient state.
type DirectoryService interface {
	// Register bootstraps a SUPERADMIN with no creator. This is the only path
	// that may produce a creator-less identity.
	Register(ctx context.Context, name, email, password string) (*User, error)

	// Authenticate verifies email/password and returns the matching identity.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID returns an identity by primary key.
	GetByID(ctx context.Context, id int) (*User, error)

	// Create adds an identity. The requester's role must be the exact parent
	// of the requested role (SUPERADMIN→ADMIN, ADMIN→UNIT_MANAGER,
	// UNIT_MANAGER→USER); any other combination is rejected.
	Create(ctx context.Context, requester *User, in CreateUserInput) (*User, error)

	// ReassignRole changes an identity's role. SUPERADMIN only. A new
	// sequence id is minted only when the role actually changes; reassigning
	// the current role returns the existing sequence id without burning a
	// counter increment.
	ReassignRole(ctx context.Context, requester *User, targetID int, newRole Role) (string, error)

	// Delete removes an identity. SUPERADMIN or ADMIN only.
	Delete(ctx context.Context, requester *User, targetID int) error
}
