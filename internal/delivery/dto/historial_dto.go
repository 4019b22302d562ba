package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"
)

// Response DTOs

// HistorialEntryResponse is a tagged union: Detail holds a
// ConsultationResponse, HospitalizationResponse or LabStudyResponse as named
// by RecordType.
type HistorialEntryResponse struct {
	ID         uint              `json:"id"`
	RecordType entity.RecordType `json:"record_type"`
	RecordID   uint              `json:"record_id"`
	CreatedAt  time.Time         `json:"created_at"`
	Detail     interface{}       `json:"detail"`
}

type HistorialResponse struct {
	HistorialID string                   `json:"historial_id"`
	Patient     PatientResponse          `json:"patient"`
	Entries     []HistorialEntryResponse `json:"entries"`
	Total       int                      `json:"total"`
}
