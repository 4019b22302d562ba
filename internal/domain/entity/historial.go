package entity

import "time"

// RecordType tags the encounter a historial entry points at.
type RecordType string

const (
	RecordTypeConsultation    RecordType = "consultation"
	RecordTypeHospitalization RecordType = "hospitalization"
	RecordTypeLabStudy        RecordType = "lab_study"
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeConsultation, RecordTypeHospitalization, RecordTypeLabStudy:
		return true
	}
	return false
}

// ClinicalRecord is implemented by every encounter kind indexed in the historial.
type ClinicalRecord interface {
	RecordType() RecordType
	RecordID() uint
}

// HistorialEntry is an append-only index row. The encounter tables stay
// authoritative for their own fields.
type HistorialEntry struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   uint       `gorm:"not null;index" json:"patient_id"`
	HistorialID string     `gorm:"type:varchar(40);not null;index" json:"historial_id"`
	ClinicID    uint       `gorm:"not null;index" json:"clinic_id"`
	RecordType  RecordType `gorm:"type:varchar(20);not null;uniqueIndex:idx_historial_record,priority:1" json:"record_type"`
	RecordID    uint       `gorm:"not null;uniqueIndex:idx_historial_record,priority:2" json:"record_id"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (HistorialEntry) TableName() string {
	return "historial_entries"
}
