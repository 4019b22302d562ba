package converter

import (
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Capabilities are attached by the caller when known.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:            user.ID,
		ClinicID:      user.ClinicID,
		Role:          user.Role,
		Email:         user.Email,
		FullName:      user.FullName,
		LicenseNumber: user.LicenseNumber,
		IsActive:      user.Active(),
		CreatedAt:     user.CreatedAt,
	}
}

// UsersToResponses converts a slice of User entities to slice of UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}
