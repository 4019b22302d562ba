package entity

import "time"

type LabStudyStatus string

const (
	LabStudyStatusPending   LabStudyStatus = "pending"
	LabStudyStatusCompleted LabStudyStatus = "completed"
)

type LabStudy struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   uint           `gorm:"not null;index" json:"patient_id"`
	PatientCode string         `gorm:"type:varchar(40);not null;index" json:"patient_code"`
	ClinicID    uint           `gorm:"not null;index" json:"clinic_id"`
	RequestedBy uint           `gorm:"not null" json:"requested_by"`
	StudyType   string         `gorm:"type:varchar(120);not null" json:"study_type"`
	Results     string         `gorm:"type:text" json:"results,omitempty"`
	Status      LabStudyStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LabStudy) TableName() string {
	return "lab_studies"
}

func (l *LabStudy) RecordType() RecordType { return RecordTypeLabStudy }
func (l *LabStudy) RecordID() uint         { return l.ID }

// IsPending checks if results are still awaited
func (l *LabStudy) IsPending() bool {
	return l.Status == LabStudyStatusPending
}
