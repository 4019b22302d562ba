package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"
)

// Request DTOs

type AdmitWaitingRoomRequest struct {
	PatientCode string `json:"patient_code" validate:"required,max=40"`
	Reason      string `json:"reason" validate:"omitempty,max=500"`
	Priority    string `json:"priority" validate:"omitempty,oneof=normal urgent"`
}

// Response DTOs

type WaitingRoomEntryResponse struct {
	ID             uint                   `json:"id"`
	ClinicID       uint                   `json:"clinic_id"`
	QueueDate      time.Time              `json:"queue_date"`
	QueueNumber    int                    `json:"queue_number"`
	PatientID      uint                   `json:"patient_id"`
	PatientCode    string                 `json:"patient_code"`
	Reason         string                 `json:"reason,omitempty"`
	Priority       entity.WaitingPriority `json:"priority"`
	Status         entity.WaitingStatus   `json:"status"`
	ConsultationID *uint                  `json:"consultation_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type WaitingRoomListResponse struct {
	Entries []WaitingRoomEntryResponse `json:"entries"`
	Total   int                        `json:"total"`
}
