package core

// Role is the closed set of identity roles, ordered from most to least privileged.
type Role string

const (
	RoleSuperAdmin  Role = "SUPERADMIN"
	RoleAdmin       Role = "ADMIN"
	RoleUnitManager Role = "UNIT_MANAGER"
	RoleUser        Role = "USER"
)

// ParseRole converts a client-supplied string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", Errf(KindValidation, "invalid role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUnitManager, RoleUser:
		return true
	}
	return false
}

// Parent returns the role that is allowed to create identities of role r.
// ok is false for RoleSuperAdmin (bootstrap only) and unknown roles.
func (r Role) Parent() (parent Role, ok bool) {
	switch r {
	case RoleAdmin:
		return RoleSuperAdmin, true
	case RoleUnitManager:
		return RoleAdmin, true
	case RoleUser:
		return RoleUnitManager, true
	}
	return "", false
}

// SequencePrefix returns the prefix used when minting sequence ids for role r.
// Unknown roles get "X" so a malformed counter row is still traceable.
func (r Role) SequencePrefix() string {
	switch r {
	case RoleSuperAdmin:
		return "SA"
	case RoleAdmin:
		return "A"
	case RoleUnitManager:
		return "UM"
	case RoleUser:
		return "U"
	}
	return "X"
}

func (r Role) String() string { return string(r) }
