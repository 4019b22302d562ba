package entity

// RoleName identifies one of the fixed user roles.
type RoleName string

const (
	RoleSuperuser      RoleName = "SUPERUSER"
	RoleAdministrative RoleName = "ADMINISTRATIVE"
	RoleVeterinarian   RoleName = "VETERINARIAN"
)

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleSuperuser, RoleAdministrative, RoleVeterinarian:
		return true
	}
	return false
}

// Role is the persisted role record. Capabilities seeded here feed the
// authorizer at startup; users never carry their own capability list.
type Role struct {
	ID           int           `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName     RoleName      `gorm:"type:varchar(30);uniqueIndex;not null" json:"role_name"`
	Description  string        `gorm:"type:text" json:"description,omitempty"`
	Capabilities CapabilitySet `gorm:"type:text;not null" json:"capabilities"`
}

func (Role) TableName() string {
	return "roles"
}
