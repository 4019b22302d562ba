package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"
)

// Request DTOs

// RecordLabStudyRequest files a study. With results it is stored completed,
// otherwise pending.
type RecordLabStudyRequest struct {
	PatientCode string `json:"patient_code" validate:"required,max=40"`
	StudyType   string `json:"study_type" validate:"required,max=120"`
	Results     string `json:"results" validate:"omitempty"`
}

type CompleteLabStudyRequest struct {
	Results string `json:"results" validate:"required"`
}

// Response DTOs

type LabStudyResponse struct {
	ID          uint                  `json:"id"`
	PatientID   uint                  `json:"patient_id"`
	PatientCode string                `json:"patient_code"`
	ClinicID    uint                  `json:"clinic_id"`
	RequestedBy uint                  `json:"requested_by"`
	StudyType   string                `json:"study_type"`
	Results     string                `json:"results,omitempty"`
	Status      entity.LabStudyStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

type LabStudyListResponse struct {
	Studies []LabStudyResponse `json:"studies"`
	Total   int                `json:"total"`
}
