package rbac

import "fmt"

// Built-in role names. Roles are statically defined; there is no dynamic
// role creation or persistence.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// rolePermissions maps each role to its permission set. Order is irrelevant.
// A role's blob is a snapshot taken when the role is assigned to a user;
// editing this table does not retroactively change blobs already stored.
var rolePermissions = map[string][]Permission{
	RoleAdmin: {PermAll},
	RoleUser: {
		PermCreateIncident,
		PermViewIncident,
		PermUpdateIncident,
		PermViewAuditTrail,
		PermCreateComment,
		PermViewComment,
	},
}

func init() {
	// PermAll must be the exclusive member of any role that carries it.
	// Combining it with ordinary bits would set bit 0, which the codec
	// reserves for the sentinel encoding.
	for name, perms := range rolePermissions {
		if err := validateRole(perms); err != nil {
			panic(fmt.Sprintf("rbac: role %q: %v", name, err))
		}
	}
}

func validateRole(perms []Permission) error {
	hasAll := false
	for _, p := range perms {
		if !p.Valid() {
			return fmt.Errorf("permission %d is not defined", p)
		}
		if p == PermAll {
			hasAll = true
		}
	}
	if hasAll && len(perms) > 1 {
		return fmt.Errorf("PermAll cannot be combined with other permissions")
	}
	return nil
}

// Roles returns the names of all defined roles.
func Roles() []string {
	names := make([]string, 0, len(rolePermissions))
	for name := range rolePermissions {
		names = append(names, name)
	}
	return names
}

// PermissionsForRole returns the permission set for a role name. An
// unrecognized role yields the empty set, not an error: callers downstream
// treat "no role" as "no permissions".
func PermissionsForRole(role string) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
