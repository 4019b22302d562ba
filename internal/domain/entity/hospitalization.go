package entity

import "time"

// HospitalizationStatus is the source of truth for "currently hospitalized";
// EndTime is kept for audit only.
type HospitalizationStatus string

const (
	HospitalizationStatusActive     HospitalizationStatus = "active"
	HospitalizationStatusDischarged HospitalizationStatus = "discharged"
)

type Hospitalization struct {
	ID             uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID      uint                  `gorm:"not null;index" json:"patient_id"`
	PatientCode    string                `gorm:"type:varchar(40);not null;index" json:"patient_code"`
	ClinicID       uint                  `gorm:"not null;index" json:"clinic_id"`
	VetID          uint                  `gorm:"not null;index" json:"vet_id"`
	ConsultationID *uint                 `gorm:"index" json:"consultation_id,omitempty"`
	Motive         string                `gorm:"type:text;not null" json:"motive"`
	Procedures     string                `gorm:"type:text" json:"procedures,omitempty"`
	Medication     string                `gorm:"type:text" json:"medication,omitempty"`
	Status         HospitalizationStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartTime      time.Time             `gorm:"not null" json:"start_time"`
	EndTime        *time.Time            `json:"end_time,omitempty"`
	DischargeNotes string                `gorm:"type:text" json:"discharge_notes,omitempty"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Vet User `gorm:"foreignKey:VetID" json:"-"`
}

func (Hospitalization) TableName() string {
	return "hospitalizations"
}

func (h *Hospitalization) RecordType() RecordType { return RecordTypeHospitalization }
func (h *Hospitalization) RecordID() uint         { return h.ID }

// IsActive checks if the patient has not been discharged yet
func (h *Hospitalization) IsActive() bool {
	return h.Status == HospitalizationStatusActive
}
