package data

type UserRole string

func (u UserRole) String() string {
	return string(u)
}

func (u UserRole) IsValid() bool {
	switch u {
	case OwnerUserRole, AdminUserRole, DeveloperUserRole, ViewerUserRole:
		return true
	}
	return false
}

const (
	// OwnerUserRole has permission to do everything, including creating new users and
	// managing the organization account.
	OwnerUserRole UserRole = "owner"
	// AdminUserRole has the same permissions as the OwnerUserRole except for user management.
	AdminUserRole UserRole = "admin"
	// DeveloperUserRole manages API keys and integration configuration.
	DeveloperUserRole UserRole = "developer"
	// ViewerUserRole has read-only permissions.
	ViewerUserRole UserRole = "viewer"
)

// GetAllRoles returns all roles available.
func GetAllRoles() []UserRole {
	return []UserRole{
		OwnerUserRole,
		AdminUserRole,
		DeveloperUserRole,
		ViewerUserRole,
	}
}

// FromUserRoleArrayToStringArray converts an array of UserRole type to an array of string.
func FromUserRoleArrayToStringArray(roles []UserRole) []string {
	rolesString := make([]string, 0, len(roles))
	for _, role := range roles {
		rolesString = append(rolesString, role.String())
	}
	return rolesString
}
