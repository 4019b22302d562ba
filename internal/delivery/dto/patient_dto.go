package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreatePatientRequest struct {
	OwnerID   uint             `json:"owner_id" validate:"required"`
	Name      string           `json:"name" validate:"required,max=120"`
	Species   string           `json:"species" validate:"required,max=60"`
	Breed     string           `json:"breed" validate:"omitempty,max=120"`
	Sex       string           `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time       `json:"birth_date" validate:"omitempty"`
	WeightKg  *decimal.Decimal `json:"weight_kg" validate:"omitempty"`
}

// UpdatePatientRequest carries descriptive fields only; code, owner, clinic
// and status cannot be changed.
type UpdatePatientRequest struct {
	Name      string           `json:"name" validate:"required,max=120"`
	Species   string           `json:"species" validate:"required,max=60"`
	Breed     string           `json:"breed" validate:"omitempty,max=120"`
	Sex       string           `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time       `json:"birth_date" validate:"omitempty"`
	WeightKg  *decimal.Decimal `json:"weight_kg" validate:"omitempty"`
}

type ListPatientsRequest struct {
	OwnerID uint   `json:"owner_id" validate:"omitempty"`
	Status  string `json:"status" validate:"omitempty,oneof=ACTIVE IN_CONSULTATION HOSPITALIZED"`
	Name    string `json:"name" validate:"omitempty,max=120"`
}

// Response DTOs

type PatientResponse struct {
	ID          uint                 `json:"id"`
	PatientCode string               `json:"patient_code"`
	OwnerID     uint                 `json:"owner_id"`
	Sequence    int                  `json:"sequence"`
	ClinicID    uint                 `json:"clinic_id"`
	Name        string               `json:"name"`
	Species     string               `json:"species"`
	Breed       string               `json:"breed,omitempty"`
	Sex         string               `json:"sex,omitempty"`
	BirthDate   *time.Time           `json:"birth_date,omitempty"`
	WeightKg    decimal.NullDecimal  `json:"weight_kg"`
	Status      entity.PatientStatus `json:"status"`
	HistorialID string               `json:"historial_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
