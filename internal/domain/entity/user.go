package entity

import "time"

// User is a staff account. ClinicID is 0 exactly when Role is SUPERUSER.
type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID      uint      `gorm:"not null;default:0;index" json:"clinic_id"`
	Role          RoleName  `gorm:"type:varchar(30);not null;index" json:"role"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName      string    `gorm:"type:varchar(255);not null" json:"full_name"`
	LicenseNumber string    `gorm:"type:varchar(50)" json:"license_number,omitempty"`
	IsActive      *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Active treats a missing flag as active, matching the column default.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// IsVeterinarian reports whether the user can attend encounters.
func (u *User) IsVeterinarian() bool {
	return u.Role == RoleVeterinarian
}
