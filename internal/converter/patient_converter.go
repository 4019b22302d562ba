package converter

import (
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          patient.ID,
		PatientCode: patient.PatientCode,
		OwnerID:     patient.OwnerID,
		Sequence:    patient.Sequence,
		ClinicID:    patient.ClinicID,
		Name:        patient.Name,
		Species:     patient.Species,
		Breed:       patient.Breed,
		Sex:         patient.Sex,
		BirthDate:   patient.BirthDate,
		WeightKg:    patient.WeightKg,
		Status:      patient.Status,
		HistorialID: patient.HistorialID,
		CreatedAt:   patient.CreatedAt,
		UpdatedAt:   patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
