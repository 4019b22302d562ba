package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PatientStatus is the patient's position in the clinical workflow.
type PatientStatus string

const (
	PatientStatusActive         PatientStatus = "ACTIVE"
	PatientStatusInConsultation PatientStatus = "IN_CONSULTATION"
	PatientStatusHospitalized   PatientStatus = "HOSPITALIZED"
)

// Valid reports whether s is a known status.
func (s PatientStatus) Valid() bool {
	switch s {
	case PatientStatusActive, PatientStatusInConsultation, PatientStatusHospitalized:
		return true
	}
	return false
}

// PatientEvent drives a status transition.
type PatientEvent string

const (
	EventBeginConsultation    PatientEvent = "begin_consultation"
	EventCompleteConsultation PatientEvent = "complete_consultation"
	EventHospitalizeFromVisit PatientEvent = "hospitalize_from_consultation"
	EventOpenHospitalization  PatientEvent = "open_hospitalization"
	EventDischarge            PatientEvent = "discharge"
)

type transitionKey struct {
	from  PatientStatus
	event PatientEvent
}

var patientTransitions = map[transitionKey]PatientStatus{
	{PatientStatusActive, EventBeginConsultation}:            PatientStatusInConsultation,
	{PatientStatusInConsultation, EventCompleteConsultation}: PatientStatusActive,
	{PatientStatusInConsultation, EventHospitalizeFromVisit}: PatientStatusHospitalized,
	{PatientStatusActive, EventOpenHospitalization}:          PatientStatusHospitalized,
	{PatientStatusHospitalized, EventDischarge}:              PatientStatusActive,
}

// NextStatus returns the status reached from s on event, or false when the
// transition is not legal.
func (s PatientStatus) NextStatus(event PatientEvent) (PatientStatus, bool) {
	next, ok := patientTransitions[transitionKey{s, event}]
	return next, ok
}

// Patient is an animal under care. PatientCode is public and immutable and
// doubles as the historial id.
type Patient struct {
	ID          uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientCode string              `gorm:"type:varchar(40);uniqueIndex;not null" json:"patient_code"`
	OwnerID     uint                `gorm:"not null;uniqueIndex:idx_patients_owner_sequence,priority:1" json:"owner_id"`
	Sequence    int                 `gorm:"not null;uniqueIndex:idx_patients_owner_sequence,priority:2" json:"sequence"`
	ClinicID    uint                `gorm:"not null;index" json:"clinic_id"`
	Name        string              `gorm:"type:varchar(120);not null" json:"name"`
	Species     string              `gorm:"type:varchar(60);not null" json:"species"`
	Breed       string              `gorm:"type:varchar(120)" json:"breed,omitempty"`
	Sex         string              `gorm:"type:varchar(10)" json:"sex,omitempty"`
	BirthDate   *time.Time          `gorm:"type:date" json:"birth_date,omitempty"`
	WeightKg    decimal.NullDecimal `gorm:"type:decimal(7,2)" json:"weight_kg"`
	Status      PatientStatus       `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	HistorialID string              `gorm:"type:varchar(40);not null;index" json:"historial_id"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Owner Owner `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}

// FormatPatientCode builds the public code "{owner_id}-{sequence}".
func FormatPatientCode(ownerID uint, sequence int) string {
	return fmt.Sprintf("%d-%d", ownerID, sequence)
}

// IsActive checks if the patient is out of any encounter
func (p *Patient) IsActive() bool {
	return p.Status == PatientStatusActive
}

// IsInConsultation checks if a consultation is open for the patient
func (p *Patient) IsInConsultation() bool {
	return p.Status == PatientStatusInConsultation
}

// IsHospitalized checks if the patient is currently hospitalized
func (p *Patient) IsHospitalized() bool {
	return p.Status == PatientStatusHospitalized
}

// PatientFilter narrows patient listings.
type PatientFilter struct {
	OwnerID uint
	Status  PatientStatus
	Name    string
}
