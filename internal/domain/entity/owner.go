package entity

import "time"

// Owner is the client owning one or more patients.
// PatientSeq is the last sequence handed out to this owner's patients.
type Owner struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID   uint      `gorm:"not null;index" json:"clinic_id"`
	FullName   string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone      string    `gorm:"type:varchar(30);index" json:"phone,omitempty"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address    string    `gorm:"type:text" json:"address,omitempty"`
	PatientSeq int       `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Clinic   Clinic    `gorm:"foreignKey:ClinicID" json:"-"`
	Patients []Patient `gorm:"foreignKey:OwnerID" json:"patients,omitempty"`
}

func (Owner) TableName() string {
	return "owners"
}
