package converter

import (
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
)

// OwnerToResponse converts an Owner entity to OwnerResponse DTO
func OwnerToResponse(owner *entity.Owner) *dto.OwnerResponse {
	if owner == nil {
		return nil
	}

	return &dto.OwnerResponse{
		ID:        owner.ID,
		ClinicID:  owner.ClinicID,
		FullName:  owner.FullName,
		Phone:     owner.Phone,
		Email:     owner.Email,
		Address:   owner.Address,
		CreatedAt: owner.CreatedAt,
	}
}

// OwnersToResponses converts a slice of Owner entities to slice of OwnerResponse DTOs
func OwnersToResponses(owners []entity.Owner) []dto.OwnerResponse {
	responses := make([]dto.OwnerResponse, len(owners))
	for i := range owners {
		responses[i] = *OwnerToResponse(&owners[i])
	}
	return responses
}
