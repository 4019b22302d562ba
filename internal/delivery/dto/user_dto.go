package dto

import (
	"time"

	"go-vet-clinic/internal/domain/entity"
)

// Request DTOs

type CreateUserRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"full_name" validate:"required,min=2,max=255"`
	Role          string `json:"role" validate:"required,oneof=SUPERUSER ADMINISTRATIVE VETERINARIAN"`
	ClinicID      uint   `json:"clinic_id" validate:"omitempty"`
	LicenseNumber string `json:"license_number" validate:"omitempty,max=50"`
}

// Response DTOs

type UserResponse struct {
	ID            uint                `json:"id"`
	ClinicID      uint                `json:"clinic_id"`
	Role          entity.RoleName     `json:"role"`
	Email         string              `json:"email"`
	FullName      string              `json:"full_name"`
	LicenseNumber string              `json:"license_number,omitempty"`
	IsActive      bool                `json:"is_active"`
	Capabilities  []entity.Capability `json:"capabilities,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
