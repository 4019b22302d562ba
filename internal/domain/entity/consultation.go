package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsultationStatus is explicit so that open/closed never depends on a null timestamp.
type ConsultationStatus string

const (
	ConsultationStatusOpen      ConsultationStatus = "open"
	ConsultationStatusCompleted ConsultationStatus = "completed"
)

// Consultation is a vet visit. It enters the historial only when completed.
type Consultation struct {
	ID                uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID         uint                `gorm:"not null;index" json:"patient_id"`
	PatientCode       string              `gorm:"type:varchar(40);not null;index" json:"patient_code"`
	ClinicID          uint                `gorm:"not null;index" json:"clinic_id"`
	VetID             uint                `gorm:"not null;index" json:"vet_id"`
	Motive            string              `gorm:"type:text;not null" json:"motive"`
	Diagnosis         string              `gorm:"type:text" json:"diagnosis,omitempty"`
	Treatment         string              `gorm:"type:text" json:"treatment,omitempty"`
	TemperatureC      decimal.NullDecimal `gorm:"type:decimal(4,1)" json:"temperature_c"`
	Status            ConsultationStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	HospitalizationID *uint               `json:"hospitalization_id,omitempty"`
	StartedAt         time.Time           `gorm:"not null" json:"started_at"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Vet User `gorm:"foreignKey:VetID" json:"-"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) RecordType() RecordType { return RecordTypeConsultation }
func (c *Consultation) RecordID() uint         { return c.ID }

// IsOpen checks if the consultation is still in progress
func (c *Consultation) IsOpen() bool {
	return c.Status == ConsultationStatusOpen
}
