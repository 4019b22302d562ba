package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Request DTOs

// BeginConsultationRequest opens a consultation. VetID may be left out when
// the caller is the attending veterinarian.
type BeginConsultationRequest struct {
	PatientCode string `json:"patient_code" validate:"required,max=40"`
	VetID       uint   `json:"vet_id" validate:"omitempty"`
	Motive      string `json:"motive" validate:"required,max=2000"`
}

type CompleteConsultationRequest struct {
	Diagnosis               string           `json:"diagnosis" validate:"required"`
	Treatment               string           `json:"treatment" validate:"omitempty"`
	TemperatureC            *decimal.Decimal `json:"temperature_c" validate:"omitempty"`
	RequiresHospitalization bool             `json:"requires_hospitalization"`
	HospitalizationMotive   string           `json:"hospitalization_motive" validate:"required_if=RequiresHospitalization true"`
	Procedures              string           `json:"procedures" validate:"omitempty"`
	Medication              string           `json:"medication" validate:"omitempty"`
}

type OpenHospitalizationRequest struct {
	PatientCode string `json:"patient_code" validate:"required,max=40"`
	VetID       uint   `json:"vet_id" validate:"omitempty"`
	Motive      string `json:"motive" validate:"required,max=2000"`
	Procedures  string `json:"procedures" validate:"omitempty"`
	Medication  string `json:"medication" validate:"omitempty"`
}

type DischargePatientRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type ConsultationResponse struct {
	ID                uint                      `json:"id"`
	PatientID         uint                      `json:"patient_id"`
	PatientCode       string                    `json:"patient_code"`
	ClinicID          uint                      `json:"clinic_id"`
	VetID             uint                      `json:"vet_id"`
	Motive            string                    `json:"motive"`
	Diagnosis         string                    `json:"diagnosis,omitempty"`
	Treatment         string                    `json:"treatment,omitempty"`
	TemperatureC      decimal.NullDecimal       `json:"temperature_c"`
	Status            entity.ConsultationStatus `json:"status"`
	HospitalizationID *uint                     `json:"hospitalization_id,omitempty"`
	StartedAt         time.Time                 `json:"started_at"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
}

type HospitalizationResponse struct {
	ID             uint                         `json:"id"`
	PatientID      uint                         `json:"patient_id"`
	PatientCode    string                       `json:"patient_code"`
	ClinicID       uint                         `json:"clinic_id"`
	VetID          uint                         `json:"vet_id"`
	ConsultationID *uint                        `json:"consultation_id,omitempty"`
	Motive         string                       `json:"motive"`
	Procedures     string                       `json:"procedures,omitempty"`
	Medication     string                       `json:"medication,omitempty"`
	Status         entity.HospitalizationStatus `json:"status"`
	StartTime      time.Time                    `json:"start_time"`
	EndTime        *time.Time                   `json:"end_time,omitempty"`
	DischargeNotes string                       `json:"discharge_notes,omitempty"`
}

type HospitalizationListResponse struct {
	Hospitalizations []HospitalizationResponse `json:"hospitalizations"`
	Total            int                       `json:"total"`
}

// ClinicalOutcomeResponse reports the patient after a transition together
// with the encounters it touched.
type ClinicalOutcomeResponse struct {
	Patient         PatientResponse          `json:"patient"`
	Consultation    *ConsultationResponse    `json:"consultation,omitempty"`
	Hospitalization *HospitalizationResponse `json:"hospitalization,omitempty"`
}
